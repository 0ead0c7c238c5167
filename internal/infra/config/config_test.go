package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/warbot")
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AdminPollInterval != 3*time.Second {
		t.Fatalf("admin poll = %s", cfg.AdminPollInterval)
	}
	if cfg.TwitterPollInterval != 7*time.Second {
		t.Fatalf("twitter poll = %s", cfg.TwitterPollInterval)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("log level = %q", cfg.LogLevel)
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		DatabaseURL:         "postgres://localhost/warbot",
		OperatorID:          "42",
		AdminTransport:      "telegram",
		TelegramToken:       "tok",
		AdminPollInterval:   time.Second,
		TwitterPollInterval: time.Second,
		Timezone:            "UTC",
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		role    Role
		wantErr string
	}{
		{name: "admin ok", role: RoleAdmin},
		{name: "admin missing operator", role: RoleAdmin, mutate: func(c *Config) { c.OperatorID = "" }, wantErr: "OPERATOR_ID"},
		{name: "discord needs token", role: RoleAdmin, mutate: func(c *Config) { c.AdminTransport = "discord" }, wantErr: "DISCORD_BOT_TOKEN"},
		{name: "bad transport", role: RoleAdmin, mutate: func(c *Config) { c.AdminTransport = "irc" }, wantErr: "ADMIN_TRANSPORT"},
		{name: "twitter keys", role: RoleTwitter, wantErr: "TWITTER_CONSUMER_KEY"},
		{name: "webhook secret", role: RoleWebhook, wantErr: "WEBHOOK_SECRET"},
		{name: "janitor only db", role: RoleJanitor},
		{name: "bad timezone", role: RoleJanitor, mutate: func(c *Config) { c.Timezone = "Mars/Olympus" }, wantErr: "TIMEZONE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			if tt.mutate != nil {
				tt.mutate(&c)
			}
			err := c.Validate(tt.role)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
