package config

import (
	"time"

	"marcador/internal/repository"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Repo     repository.Config `envPrefix:"REPO_"`
	HTTP     HTTPConfig
	LogLevel string `env:"LOGGER_LEVEL" envDefault:"debug"`

	Discord  DiscordConfig
	Telegram TelegramConfig
	Google   GoogleConfig
}

type HTTPConfig struct {
	Port           int           `env:"HTTP_PORT" envDefault:"5082"`
	ReadTimeout    time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout   time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout    time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	AllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

type DiscordConfig struct {
	Token     string `env:"DISCORD_TOKEN" envDefault:""`
	ChannelID string `env:"DISCORD_CHANNEL_ID" envDefault:""`
}

func (c DiscordConfig) Enabled() bool {
	return c.Token != "" && c.ChannelID != ""
}

type TelegramConfig struct {
	Token  string `env:"TELEGRAM_TOKEN" envDefault:""`
	ChatID int64  `env:"TELEGRAM_CHAT_ID" envDefault:"0"`
}

func (c TelegramConfig) Enabled() bool {
	return c.Token != "" && c.ChatID != 0
}

type GoogleConfig struct {
	CredentialsFile string `env:"GOOGLE_CREDENTIALS_FILE" envDefault:""`
	SpreadsheetID   string `env:"GOOGLE_SPREADSHEET_ID" envDefault:""`
	OwnerEmail      string `env:"GOOGLE_OWNER_EMAIL" envDefault:""`
}

func (c GoogleConfig) Enabled() bool {
	return c.CredentialsFile != ""
}

func ReadEnvConfig(cfg *Config) error {
	return env.Parse(cfg)
}
