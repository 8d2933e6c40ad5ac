package discord

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"marcador/internal/models"
	"marcador/pkg/config"

	"github.com/bwmarrin/discordgo"
)

var ErrQueueFull = errors.New("discord announcement queue is full")

type Logger interface {
	Error(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Info(format string, v ...interface{})
	Debug(format string, v ...interface{})
}

type TeamNames interface {
	Name(ctx context.Context, id int) string
}

type embedSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Announcer posts match lifecycle changes to a Discord channel. Updates
// are queued by Notify and sent from Run so writes never wait on Discord.
type Announcer struct {
	session   *discordgo.Session
	sender    embedSender
	channelID string
	names     TeamNames
	logger    Logger

	queue   chan models.MatchUpdate
	stopped chan struct{}
	once    sync.Once
}

func NewAnnouncer(cfg config.DiscordConfig, names TeamNames, logger Logger) (*Announcer, error) {
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	a := newAnnouncer(s, cfg.ChannelID, names, logger)
	a.session = s
	return a, nil
}

func newAnnouncer(sender embedSender, channelID string, names TeamNames, logger Logger) *Announcer {
	return &Announcer{
		sender:    sender,
		channelID: channelID,
		names:     names,
		logger:    logger,
		queue:     make(chan models.MatchUpdate, queueSize),
		stopped:   make(chan struct{}),
	}
}

// Init checks the token against the API.
func (a *Announcer) Init() error {
	if a.session == nil {
		return nil
	}
	user, err := a.session.User("@me")
	if err != nil {
		return fmt.Errorf("failed to authorize discord bot: %w", err)
	}
	a.logger.Info("Discord announcer authorized as %s", user.Username)
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
	a.once.Do(func() {
		close(a.stopped)
		if a.session != nil {
			a.session.Close()
		}
	})
}

// Notify queues lifecycle updates and ignores everything else.
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
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	embed := a.buildEmbed(ctx, update)
	if _, err := a.sender.ChannelMessageSendEmbed(a.channelID, embed, discordgo.WithContext(ctx)); err != nil {
		a.logger.Error("Failed to announce match %d on discord: %v", update.MatchID, err)
		return
	}
	a.logger.Debug("Announced %s for match %d on discord", update.Type, update.MatchID)
}

func (a *Announcer) buildEmbed(ctx context.Context, update models.MatchUpdate) *discordgo.MessageEmbed {
	title, color := headline(update.Type)

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s #%d", title, update.MatchID),
		Description: fmt.Sprintf("**%s** vs **%s**", a.teamName(ctx, update.HomeTeamID), a.teamName(ctx, update.AwayTeamID)),
		Color:       color,
		Footer:      &discordgo.MessageEmbedFooter{Text: embedFooter},
	}
	if !update.At.IsZero() {
		embed.Timestamp = update.At.UTC().Format(time.RFC3339)
	}

	if update.Score != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Marcador",
			Value:  fmt.Sprintf("`%d - %d`", update.Score.Home, update.Score.Away),
			Inline: true,
		})
	}
	if update.Status != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Estado",
			Value:  string(update.Status),
			Inline: true,
		})
	}
	if update.Message != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Detalle",
			Value: update.Message,
		})
	}
	return embed
}

func (a *Announcer) teamName(ctx context.Context, id int) string {
	if a.names == nil || id == 0 {
		return fmt.Sprintf("Equipo %d", id)
	}
	return a.names.Name(ctx, id)
}

func headline(updateType string) (string, int) {
	switch updateType {
	case models.UpdateMatchStarted:
		return "Partido iniciado", colorGreen
	case models.UpdateMatchFinished:
		return "Partido finalizado", colorBlue
	case models.UpdateMatchSuspended:
		return "Partido suspendido", colorOrange
	default:
		return "Estado actualizado", colorGray
	}
}
