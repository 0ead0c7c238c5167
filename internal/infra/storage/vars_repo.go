package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jose-valero/warbot/internal/domain"
)

type VarsRepo struct{ db *sql.DB }

func NewVarsRepo(db *sql.DB) *VarsRepo { return &VarsRepo{db: db} }

func (r *VarsRepo) Get(ctx context.Context) (domain.Vars, error) {
	var v domain.Vars
	err := r.db.QueryRowContext(ctx, `
SELECT next_battle, stop_next_battle, frequency_hours, frequency_minutes,
       stop_frequency, optin_running, fighter_announce, last_mention_id
  FROM vars
 WHERE id = 1
`).Scan(
		&v.NextBattle, &v.StopNextBattle, &v.Frequency.Hours, &v.Frequency.Minutes,
		&v.StopFrequency, &v.OptInRunning, &v.FighterAnnounce, &v.LastMentionID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Vars{}, ErrNotFound
	}
	return v, err
}

// SetNextBattle guarda la fecha y reactiva la próxima batalla en el mismo UPDATE.
func (r *VarsRepo) SetNextBattle(ctx context.Context, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE vars
   SET next_battle = $1, stop_next_battle = FALSE, updated_at = now()
 WHERE id = 1
`, at.UTC())
	return err
}

func (r *VarsRepo) SetStopNextBattle(ctx context.Context, stop bool) error {
	_, err := r.setFlag(ctx, "stop_next_battle", stop)
	return err
}

// SetFrequency también reanuda las batallas automáticas.
func (r *VarsRepo) SetFrequency(ctx context.Context, f domain.Frequency) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE vars
   SET frequency_hours = $1, frequency_minutes = $2, stop_frequency = FALSE, updated_at = now()
 WHERE id = 1
`, f.Hours, f.Minutes)
	return err
}

func (r *VarsRepo) SetStopFrequency(ctx context.Context, stop bool) (bool, error) {
	return r.setFlag(ctx, "stop_frequency", stop)
}

func (r *VarsRepo) SetOptIn(ctx context.Context, running bool) (bool, error) {
	return r.setFlag(ctx, "optin_running", running)
}

func (r *VarsRepo) SetAnnounce(ctx context.Context, announce bool) (bool, error) {
	return r.setFlag(ctx, "fighter_announce", announce)
}

// setFlag devuelve true sólo si el valor cambió.
func (r *VarsRepo) setFlag(ctx context.Context, col string, v bool) (bool, error) {
	switch col {
	case "stop_next_battle", "stop_frequency", "optin_running", "fighter_announce":
	default:
		return false, fmt.Errorf("vars: unknown flag %q", col)
	}
	res, err := r.db.ExecContext(ctx, fmt.Sprintf(`
UPDATE vars
   SET %[1]s = $1, updated_at = now()
 WHERE id = 1 AND %[1]s <> $1
`, col), v)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ClaimBattle es el CAS del scheduler: sólo un proceso consigue mover el slot
// que leyó (expected) al siguiente valor.
func (r *VarsRepo) ClaimBattle(ctx context.Context, expected time.Time, next time.Time, stop bool) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE vars
   SET next_battle = $2, stop_next_battle = $3, updated_at = now()
 WHERE id = 1
   AND stop_next_battle = FALSE
   AND next_battle = $1
`, expected, next.UTC(), stop)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *VarsRepo) SetLastMentionID(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE vars
   SET last_mention_id = GREATEST(last_mention_id, $1), updated_at = now()
 WHERE id = 1
`, id)
	return err
}
