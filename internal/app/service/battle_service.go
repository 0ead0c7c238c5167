package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/jose-valero/warbot/internal/domain"
)

type BattleService struct {
	fighters FighterRepo
	log      *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

func NewBattleService(fighters FighterRepo, rng *rand.Rand, log *slog.Logger) *BattleService {
	return &BattleService{
		fighters: fighters,
		rng:      rng,
		log:      log.With(slog.String("component", "battle")),
	}
}

// Weight: 1 + KillFactor por cada muerte acumulada.
func Weight(f domain.Fighter) float64 {
	return 1 + domain.KillFactor*float64(len(f.Killed))
}

// SelectDuel elige dos fighters vivos distintos, ponderados por Weight, sin reemplazo:
// el primero sale de la distribución completa y el segundo de la renormalizada.
func SelectDuel(fighters []domain.Fighter, rng *rand.Rand) (domain.Duel, error) {
	alive := make([]domain.Fighter, 0, len(fighters))
	for _, f := range fighters {
		if f.Alive {
			alive = append(alive, f)
		}
	}
	if len(alive) < 2 {
		return domain.Duel{}, domain.ErrNoDuel
	}

	wi := draw(alive, rng)
	winner := alive[wi]
	alive = append(alive[:wi:wi], alive[wi+1:]...)
	defeated := alive[draw(alive, rng)]

	return domain.Duel{Winner: winner.Username, Defeated: defeated.Username}, nil
}

func draw(fs []domain.Fighter, rng *rand.Rand) int {
	var total float64
	for _, f := range fs {
		total += Weight(f)
	}
	r := rng.Float64() * total
	for i, f := range fs {
		r -= Weight(f)
		if r < 0 {
			return i
		}
	}
	// redondeo
	return len(fs) - 1
}

// ApplyDuel registra la batalla: winner suma la muerte (sin duplicar), defeated muere,
// y si siguen quedando >= ShowThreshold vivos el derrotado deja de listarse.
func (s *BattleService) ApplyDuel(ctx context.Context, winner, defeated string) (domain.Duel, error) {
	if winner == defeated {
		return domain.Duel{}, domain.Invalid("a fighter cannot defeat itself")
	}
	fighters, err := s.fighters.List(ctx)
	if err != nil {
		return domain.Duel{}, fmt.Errorf("list fighters: %w", err)
	}

	var foundW, foundD bool
	alive := 0
	for _, f := range fighters {
		switch f.Username {
		case winner:
			foundW = true
		case defeated:
			foundD = true
			if f.Alive {
				alive-- // ya cuenta como muerto
			}
		}
		if f.Alive {
			alive++
		}
	}
	if !foundW {
		return domain.Duel{}, &domain.NotFoundError{Kind: "fighter", Username: winner}
	}
	if !foundD {
		return domain.Duel{}, &domain.NotFoundError{Kind: "fighter", Username: defeated}
	}

	d := domain.Duel{Winner: winner, Defeated: defeated}
	hide := alive >= domain.ShowThreshold
	if err := s.fighters.RecordDuel(ctx, d, hide); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// borrado entre el List y la tx
			return domain.Duel{}, &domain.NotFoundError{Kind: "fighter", Username: defeated}
		}
		return domain.Duel{}, fmt.Errorf("record duel: %w", err)
	}
	s.log.Info("duel applied", slog.String("winner", winner), slog.String("defeated", defeated), slog.Bool("hidden", hide))
	return d, nil
}

// RunBattle: selección aleatoria + ApplyDuel. ErrNoDuel si hay menos de 2 vivos.
func (s *BattleService) RunBattle(ctx context.Context) (domain.Duel, error) {
	fighters, err := s.fighters.List(ctx)
	if err != nil {
		return domain.Duel{}, fmt.Errorf("list fighters: %w", err)
	}
	s.mu.Lock()
	d, err := SelectDuel(fighters, s.rng)
	s.mu.Unlock()
	if err != nil {
		return domain.Duel{}, err
	}
	return s.ApplyDuel(ctx, d.Winner, d.Defeated)
}
