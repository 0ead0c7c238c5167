package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Role indica qué binario está arrancando; cada uno exige envs distintas.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTwitter Role = "twitter"
	RoleWebhook Role = "webhook"
	RoleJanitor Role = "janitor"
)

type Config struct {
	DatabaseURL string `env:"DATABASE_URL"`

	// Operador único autorizado a mandar comandos (id de Telegram o de Discord)
	OperatorID     string `env:"OPERATOR_ID"`
	OperatorChatID string `env:"OPERATOR_CHAT_ID"`
	AdminTransport string `env:"ADMIN_TRANSPORT" envDefault:"telegram"` // telegram | discord

	TelegramToken string `env:"TELEGRAM_TOKEN"`
	DiscordToken  string `env:"DISCORD_BOT_TOKEN"`
	DiscordGuild  string `env:"DISCORD_GUILD_ID"` // opcional, registra el slash command sólo en ese guild

	TwitterConsumerKey    string `env:"TWITTER_CONSUMER_KEY"`
	TwitterConsumerSecret string `env:"TWITTER_CONSUMER_SECRET"`
	TwitterAccessToken    string `env:"TWITTER_ACCESS_TOKEN"`
	TwitterAccessSecret   string `env:"TWITTER_ACCESS_SECRET"`

	AdminPollInterval   time.Duration `env:"ADMIN_POLL_INTERVAL" envDefault:"3s"`
	TwitterPollInterval time.Duration `env:"TWITTER_POLL_INTERVAL" envDefault:"7s"`

	Timezone    string `env:"TIMEZONE" envDefault:"Europe/Madrid"`
	PhrasesFile string `env:"PHRASES_FILE"`

	HTTPAddr      string `env:"HTTP_ADDR"` // vacío = sin servidor http
	WebhookSecret string `env:"WEBHOOK_SECRET"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// Load lee .env (si existe) y luego el entorno.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Location resuelve TIMEZONE; el scheduler interpreta las fechas del operador en ella.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

func (c Config) Validate(role Role) error {
	var errs []error
	need := func(name, v string) {
		if v == "" {
			errs = append(errs, fmt.Errorf("faltante env %s", name))
		}
	}

	need("DATABASE_URL", c.DatabaseURL)

	switch role {
	case RoleAdmin:
		need("OPERATOR_ID", c.OperatorID)
		switch c.AdminTransport {
		case "telegram":
			need("TELEGRAM_TOKEN", c.TelegramToken)
		case "discord":
			need("DISCORD_BOT_TOKEN", c.DiscordToken)
		default:
			errs = append(errs, fmt.Errorf("ADMIN_TRANSPORT inválido: %q", c.AdminTransport))
		}
	case RoleTwitter:
		need("TWITTER_CONSUMER_KEY", c.TwitterConsumerKey)
		need("TWITTER_CONSUMER_SECRET", c.TwitterConsumerSecret)
		need("TWITTER_ACCESS_TOKEN", c.TwitterAccessToken)
		need("TWITTER_ACCESS_SECRET", c.TwitterAccessSecret)
	case RoleWebhook:
		need("WEBHOOK_SECRET", c.WebhookSecret)
	case RoleJanitor:
	default:
		errs = append(errs, fmt.Errorf("role desconocido: %q", role))
	}

	if c.AdminPollInterval <= 0 || c.TwitterPollInterval <= 0 {
		errs = append(errs, errors.New("poll interval debe ser > 0"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE: %w", err))
	}
	return errors.Join(errs...)
}
