package loop

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jose-valero/warbot/internal/app/command"
	"github.com/jose-valero/warbot/internal/app/service"
	"github.com/jose-valero/warbot/internal/domain"
)

// Sender entrega un mensaje al operador (Telegram / Discord).
type Sender interface {
	Send(ctx context.Context, m domain.Outbound) error
}

// Poster publica un texto público (Twitter).
type Poster interface {
	Post(ctx context.Context, text string) error
}

type MessageDrainer interface {
	DrainMessages(ctx context.Context) ([]string, error)
}

type AnnounceDrainer interface {
	DrainAnnounces(ctx context.Context) ([]string, error)
}

type BattleDrainer interface {
	DrainBattles(ctx context.Context) ([]domain.Duel, error)
}

type FighterLister interface {
	List(ctx context.Context) ([]domain.Fighter, error)
}

// OutboxFlusher manda las respuestas del dispatcher. Lo que falla se pierde (se loguea).
func OutboxFlusher(out *command.Outbox, s Sender, log *slog.Logger) Flusher {
	return FlusherFunc(func(ctx context.Context) error {
		var errs []error
		for _, m := range out.Drain() {
			if err := s.Send(ctx, m); err != nil {
				log.Warn("send reply failed", slog.String("chat", m.ChatID), slog.Any("err", err))
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

// MessageQueueFlusher reenvía la message queue persistida al chat del operador.
func MessageQueueFlusher(q MessageDrainer, s Sender, chatID string, log *slog.Logger) Flusher {
	return FlusherFunc(func(ctx context.Context) error {
		msgs, err := q.DrainMessages(ctx)
		if err != nil {
			return err
		}
		var errs []error
		for _, text := range msgs {
			if err := s.Send(ctx, domain.Outbound{ChatID: chatID, Text: text}); err != nil {
				log.Warn("send queued message failed", slog.Any("err", err))
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

// AnnounceFlusher tuitea los fighters nuevos marcados para anunciar.
func AnnounceFlusher(q AnnounceDrainer, p Poster, phrases *service.Phrases, log *slog.Logger) Flusher {
	return FlusherFunc(func(ctx context.Context) error {
		names, err := q.DrainAnnounces(ctx)
		if err != nil {
			return err
		}
		var errs []error
		for _, u := range names {
			if err := p.Post(ctx, phrases.AnnounceText(u)); err != nil {
				log.Warn("announce tweet failed", slog.String("username", u), slog.Any("err", err))
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

// BattleFlusher tuitea los resultados; si tras ellos queda un solo vivo, anuncia al campeón.
func BattleFlusher(q BattleDrainer, fighters FighterLister, p Poster, phrases *service.Phrases, log *slog.Logger) Flusher {
	return FlusherFunc(func(ctx context.Context) error {
		duels, err := q.DrainBattles(ctx)
		if err != nil || len(duels) == 0 {
			return err
		}
		fs, err := fighters.List(ctx)
		if err != nil {
			return err
		}
		var alive []string
		for _, f := range fs {
			if f.Alive {
				alive = append(alive, f.Username)
			}
		}

		var errs []error
		for _, d := range duels {
			if err := p.Post(ctx, phrases.BattleText(d, len(alive))); err != nil {
				log.Warn("battle tweet failed", slog.String("winner", d.Winner), slog.Any("err", err))
				errs = append(errs, err)
			}
		}
		if len(alive) == 1 {
			if err := p.Post(ctx, phrases.ChampionText(alive[0])); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}
