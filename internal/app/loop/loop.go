package loop

import (
	"context"
	"log/slog"
	"time"

	"github.com/jose-valero/warbot/internal/domain"
)

// Source trae los mensajes nuevos de un transporte.
type Source interface {
	Fetch(ctx context.Context) ([]domain.Inbound, error)
}

type Handler interface {
	Handle(ctx context.Context, in domain.Inbound) error
}

type HandlerFunc func(ctx context.Context, in domain.Inbound) error

func (f HandlerFunc) Handle(ctx context.Context, in domain.Inbound) error { return f(ctx, in) }

type Ticker interface {
	Tick(ctx context.Context, now time.Time) (bool, error)
}

// Flusher vacía una cola hacia un transporte.
type Flusher interface {
	Flush(ctx context.Context) error
}

type FlusherFunc func(ctx context.Context) error

func (f FlusherFunc) Flush(ctx context.Context) error { return f(ctx) }

type Config struct {
	Name     string
	Source   Source
	Handler  Handler
	Ticker   Ticker // opcional
	Flushers []Flusher
	Interval time.Duration
}

// Loop: fetch → handle → tick → flush → sleep. Los errores se loguean y se sigue;
// sólo la cancelación del ctx lo detiene.
type Loop struct {
	cfg Config
	now func() time.Time
	log *slog.Logger
}

func New(cfg Config, log *slog.Logger) *Loop {
	if cfg.Interval <= 0 {
		cfg.Interval = 3 * time.Second
	}
	return &Loop{
		cfg: cfg,
		now: time.Now,
		log: log.With(slog.String("component", "loop"), slog.String("loop", cfg.Name)),
	}
}

func (l *Loop) Run(ctx context.Context) error {
	l.log.Info("loop started", slog.Duration("interval", l.cfg.Interval))
	t := time.NewTimer(0)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			l.log.Info("loop stopped")
			return nil
		case <-t.C:
		}
		l.Once(ctx)
		t.Reset(l.cfg.Interval)
	}
}

// Once corre una iteración completa.
func (l *Loop) Once(ctx context.Context) {
	if l.cfg.Source != nil {
		msgs, err := l.cfg.Source.Fetch(ctx)
		if err != nil {
			l.log.Warn("fetch failed", slog.Any("err", err))
		}
		for _, m := range msgs {
			if ctx.Err() != nil {
				return
			}
			if l.cfg.Handler == nil {
				continue
			}
			if err := l.cfg.Handler.Handle(ctx, m); err != nil {
				l.log.Error("handle failed", slog.String("sender", m.SenderID), slog.Any("err", err))
			}
		}
	}

	if l.cfg.Ticker != nil {
		if fired, err := l.cfg.Ticker.Tick(ctx, l.now()); err != nil {
			l.log.Error("tick failed", slog.Any("err", err))
		} else if fired {
			l.log.Info("scheduled battle fired")
		}
	}

	for i, f := range l.cfg.Flushers {
		if err := f.Flush(ctx); err != nil {
			l.log.Warn("flush failed", slog.Int("flusher", i), slog.Any("err", err))
		}
	}
}
