package main

import (
	"context"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"github.com/jose-valero/warbot/internal/adapters/twitter"
	"github.com/jose-valero/warbot/internal/app/loop"
	"github.com/jose-valero/warbot/internal/app/service"
	"github.com/jose-valero/warbot/internal/domain"
	"github.com/jose-valero/warbot/internal/infra/config"
	"github.com/jose-valero/warbot/internal/infra/logging"
	"github.com/jose-valero/warbot/internal/infra/storage"
	"github.com/jose-valero/warbot/internal/random"
)

// newRands: una fuente para las batallas y otra para las frases, cada una con su lock.
func newRands() (battle, phrase *rand.Rand, err error) {
	if battle, err = random.New(0); err != nil {
		return nil, nil, err
	}
	if phrase, err = random.New(0); err != nil {
		return nil, nil, err
	}
	return battle, phrase, nil
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(config.RoleTwitter); err != nil {
		log.Fatal(err)
	}
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat).With(slog.String("bot", "twitter"))
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

	rng, phraseRng, err := newRands()
	if err != nil {
		log.Fatal(err)
	}
	phrases, err := service.LoadPhrases(cfg.PhrasesFile)
	if err != nil {
		log.Fatal(err)
	}
	phrases = phrases.WithRand(phraseRng)

	battles := service.NewBattleService(store.Fighters, rng, logger)
	schedule := service.NewScheduleService(store.Vars, store.Queues, battles, loc, logger)
	roster := service.NewRosterService(store.Fighters, store.Candidates, store.Vars, store.Queues, logger)

	client := twitter.New(twitter.Credentials{
		ConsumerKey:    cfg.TwitterConsumerKey,
		ConsumerSecret: cfg.TwitterConsumerSecret,
		AccessToken:    cfg.TwitterAccessToken,
		AccessSecret:   cfg.TwitterAccessSecret,
	}, store.Vars, logger)

	// toda mención cuenta como pedido de opt-in
	optIn := loop.HandlerFunc(func(ctx context.Context, in domain.Inbound) error {
		_, err := roster.OptIn(ctx, in.SenderID)
		return err
	})

	l := loop.New(loop.Config{
		Name:    "twitter",
		Source:  client,
		Handler: optIn,
		Ticker:  schedule,
		Flushers: []loop.Flusher{
			loop.AnnounceFlusher(store.Queues, client, phrases, logger),
			loop.BattleFlusher(store.Queues, store.Fighters, client, phrases, logger),
		},
		Interval: cfg.TwitterPollInterval,
	}, logger)

	log.Println("✅ Bot twitter corriendo. Ctrl+C para salir.")
	if err := l.Run(ctx); err != nil {
		log.Fatal(err)
	}
	log.Println("👋 Bye")
}
