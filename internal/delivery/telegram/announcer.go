package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"marcador/internal/models"
	"marcador/pkg/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const queueSize = 64

var ErrQueueFull = errors.New("telegram announcement queue is full")

type Logger interface {
	Error(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Info(format string, v ...interface{})
	Debug(format string, v ...interface{})
}

type TeamNames interface {
	Name(ctx context.Context, id int) string
}

type messageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Announcer posts match lifecycle changes to a Telegram chat.
type Announcer struct {
	sender messageSender
	chatID int64
	names  TeamNames
	logger Logger

	queue   chan models.MatchUpdate
	stopped chan struct{}
	once    sync.Once
}

func NewAnnouncer(cfg config.TelegramConfig, names TeamNames, logger Logger) (*Announcer, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	logger.Info("Telegram announcer authorized on account %s", bot.Self.UserName)
	return newAnnouncer(bot, cfg.ChatID, names, logger), nil
}

func newAnnouncer(sender messageSender, chatID int64, names TeamNames, logger Logger) *Announcer {
	return &Announcer{
		sender:  sender,
		chatID:  chatID,
		names:   names,
		logger:  logger,
		queue:   make(chan models.MatchUpdate, queueSize),
		stopped: make(chan struct{}),
	}
}

func (a *Announcer) Init() error {
	return nil
}

func (a *Announcer) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-a.stopped:
			return
		case update := <-a.queue:
			a.send(ctx, update)
		}
	}
}

func (a *Announcer) Stop() {
	a.once.Do(func() { close(a.stopped) })
}

func (a *Announcer) Notify(_ context.Context, update models.MatchUpdate) error {
	if !update.Lifecycle() {
		return nil
	}
	select {
	case a.queue <- update:
		return nil
	default:
		return ErrQueueFull
	}
}

func (a *Announcer) send(ctx context.Context, update models.MatchUpdate) {
	msg := tgbotapi.NewMessage(a.chatID, a.formatMessage(ctx, update))
	msg.DisableWebPagePreview = true

	if _, err := a.sender.Send(msg); err != nil {
		a.logger.Error("Failed to announce match %d on telegram: %v", update.MatchID, err)
		return
	}
	a.logger.Debug("Announced %s for match %d on telegram", update.Type, update.MatchID)
}

func (a *Announcer) formatMessage(ctx context.Context, update models.MatchUpdate) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s #%d\n", headline(update.Type), update.MatchID))

	home, away := a.teamName(ctx, update.HomeTeamID), a.teamName(ctx, update.AwayTeamID)
	if update.Score != nil {
		sb.WriteString(fmt.Sprintf("%s %d - %d %s\n", home, update.Score.Home, update.Score.Away, away))
	} else {
		sb.WriteString(fmt.Sprintf("%s vs %s\n", home, away))
	}
	if update.Status != "" {
		sb.WriteString(fmt.Sprintf("Estado: %s\n", update.Status))
	}
	if update.Message != "" {
		sb.WriteString(update.Message)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (a *Announcer) teamName(ctx context.Context, id int) string {
	if a.names == nil || id == 0 {
		return fmt.Sprintf("Equipo %d", id)
	}
	return a.names.Name(ctx, id)
}

func headline(updateType string) string {
	switch updateType {
	case models.UpdateMatchStarted:
		return "🏀 Partido iniciado"
	case models.UpdateMatchFinished:
		return "🏁 Partido finalizado"
	case models.UpdateMatchSuspended:
		return "⏸ Partido suspendido"
	default:
		return "🔧 Estado actualizado"
	}
}
