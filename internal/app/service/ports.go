package service

import (
	"context"
	"time"

	"github.com/jose-valero/warbot/internal/domain"
)

// Lo implementa internal/infra/storage.FighterRepo
type FighterRepo interface {
	List(ctx context.Context) ([]domain.Fighter, error)
	Get(ctx context.Context, username string) (domain.Fighter, error)
	Promote(ctx context.Context, username string) (bool, error)
	Delete(ctx context.Context, username string) (bool, error)
	Revive(ctx context.Context, username string) (bool, error)
	// RecordDuel es atómico: kill + muerte + (hide) + battle queue.
	RecordDuel(ctx context.Context, d domain.Duel, hide bool) error
}

// Lo implementa internal/infra/storage.CandidateRepo
type CandidateRepo interface {
	List(ctx context.Context) ([]domain.Candidate, error)
	Add(ctx context.Context, username string) (bool, error)
	Delete(ctx context.Context, username string) (bool, error)
}

// Lo implementa internal/infra/storage.VarsRepo
type VarsRepo interface {
	Get(ctx context.Context) (domain.Vars, error)
	SetNextBattle(ctx context.Context, at time.Time) error
	SetStopNextBattle(ctx context.Context, stop bool) error
	SetFrequency(ctx context.Context, f domain.Frequency) error
	SetStopFrequency(ctx context.Context, stop bool) (bool, error)
	SetOptIn(ctx context.Context, running bool) (bool, error)
	SetAnnounce(ctx context.Context, announce bool) (bool, error)
	ClaimBattle(ctx context.Context, expected, next time.Time, stop bool) (bool, error)
	SetLastMentionID(ctx context.Context, id int64) error
}

// Lo implementa internal/infra/storage.QueueRepo
type QueueRepo interface {
	PushMessage(ctx context.Context, text string) error
	PushAnnounce(ctx context.Context, username string) error
	DrainMessages(ctx context.Context) ([]string, error)
	DrainAnnounces(ctx context.Context) ([]string, error)
	DrainBattles(ctx context.Context) ([]domain.Duel, error)
}

// Lo implementa internal/infra/storage.Store
type Restarter interface {
	Restart(ctx context.Context) error
}

// Battler lo usa el scheduler para disparar la batalla.
type Battler interface {
	RunBattle(ctx context.Context) (domain.Duel, error)
}
