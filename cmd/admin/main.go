package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jose-valero/warbot/internal/adapters/discord"
	"github.com/jose-valero/warbot/internal/adapters/httpstatus"
	"github.com/jose-valero/warbot/internal/adapters/telegram"
	"github.com/jose-valero/warbot/internal/app/command"
	"github.com/jose-valero/warbot/internal/app/loop"
	"github.com/jose-valero/warbot/internal/app/service"
	"github.com/jose-valero/warbot/internal/infra/config"
	"github.com/jose-valero/warbot/internal/infra/logging"
	"github.com/jose-valero/warbot/internal/infra/storage"
	"github.com/jose-valero/warbot/internal/random"
)

// transport es lo que el loop de admin necesita de Telegram o Discord.
type transport interface {
	loop.Source
	loop.Sender
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(config.RoleAdmin); err != nil {
		log.Fatal(err)
	}
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat).With(slog.String("bot", "admin"))
	loc, err := cfg.Location()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// DB
	db, err := storage.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := storage.Migrate(db); err != nil {
		log.Fatal("migrate:", err)
	}
	log.Println("✅ DB lista y migrada")
	store := storage.NewStore(db)

	rng, err := random.New(0)
	if err != nil {
		log.Fatal(err)
	}

	// Services
	battles := service.NewBattleService(store.Fighters, rng, logger)
	svc := command.Services{
		Battles:  battles,
		Schedule: service.NewScheduleService(store.Vars, store.Queues, battles, loc, logger),
		Roster:   service.NewRosterService(store.Fighters, store.Candidates, store.Vars, store.Queues, logger),
		Admin:    service.NewAdminService(store.Fighters, store.Candidates, store.Vars, store, loc, logger),
	}
	dispatcher := command.NewDispatcher(cfg.OperatorID, svc, command.NewOutbox(), logger)

	var tr transport
	switch cfg.AdminTransport {
	case "discord":
		d, err := discord.New(discord.Options{
			Token:      cfg.DiscordToken,
			GuildID:    cfg.DiscordGuild,
			OperatorID: cfg.OperatorID,
			ChannelID:  cfg.OperatorChatID,
			Log:        logger,
		})
		if err != nil {
			log.Fatal(err)
		}
		if err := d.Open(); err != nil {
			log.Fatal(err)
		}
		defer d.Close()
		tr = d
	default:
		t, err := telegram.New(cfg.TelegramToken, cfg.OperatorChatID, logger)
		if err != nil {
			log.Fatal(err)
		}
		tr = t
	}
	log.Printf("✅ Transporte %s listo", cfg.AdminTransport)

	// HTTP opcional (status + opt-in)
	if cfg.HTTPAddr != "" {
		web := httpstatus.New(cfg.WebhookSecret, svc.Admin, svc.Roster, loc, logger)
		go func() {
			if err := web.Run(ctx, cfg.HTTPAddr); err != nil {
				logger.Error("http server", slog.Any("err", err))
			}
		}()
	}

	l := loop.New(loop.Config{
		Name:    "admin",
		Source:  tr,
		Handler: dispatcher,
		Flushers: []loop.Flusher{
			loop.OutboxFlusher(dispatcher.Outbox(), tr, logger),
			loop.MessageQueueFlusher(store.Queues, tr, "", logger),
		},
		Interval: cfg.AdminPollInterval,
	}, logger)

	log.Println("✅ Bot admin corriendo. Ctrl+C para salir.")
	if err := l.Run(ctx); err != nil {
		log.Fatal(err)
	}
	log.Println("👋 Bye")
}
