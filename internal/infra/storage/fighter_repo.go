package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	pq "github.com/lib/pq"

	"github.com/jose-valero/warbot/internal/domain"
)

type FighterRepo struct{ db *sql.DB }

func NewFighterRepo(db *sql.DB) *FighterRepo { return &FighterRepo{db: db} }

// List devuelve todos los fighters (orden de alta) con su historial de muertes.
func (r *FighterRepo) List(ctx context.Context) ([]domain.Fighter, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT username, alive, show
  FROM fighters
 ORDER BY created_at ASC, username ASC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Fighter
	var names []string
	for rows.Next() {
		var f domain.Fighter
		if err := rows.Scan(&f.Username, &f.Alive, &f.Show); err != nil {
			return nil, err
		}
		out = append(out, f)
		names = append(names, f.Username)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	kills, err := r.Kills(ctx, names)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Killed = kills[out[i].Username]
	}
	return out, nil
}

func (r *FighterRepo) Get(ctx context.Context, username string) (domain.Fighter, error) {
	var f domain.Fighter
	err := r.db.QueryRowContext(ctx, `
SELECT username, alive, show
  FROM fighters
 WHERE username = $1
`, username).Scan(&f.Username, &f.Alive, &f.Show)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Fighter{}, ErrNotFound
	}
	if err != nil {
		return domain.Fighter{}, err
	}
	kills, err := r.Kills(ctx, []string{username})
	if err != nil {
		return domain.Fighter{}, err
	}
	f.Killed = kills[username]
	return f, nil
}

// Kills: mapa winner -> derrotados en orden de muerte.
func (r *FighterRepo) Kills(ctx context.Context, winners []string) (map[string][]string, error) {
	out := map[string][]string{}
	if len(winners) == 0 {
		return out, nil
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT winner, defeated
  FROM fighter_kills
 WHERE winner = ANY($1)
 ORDER BY id ASC
`, pq.Array(winners))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var w, d string
		if err := rows.Scan(&w, &d); err != nil {
			return nil, err
		}
		out[w] = append(out[w], d)
	}
	return out, rows.Err()
}

// Promote da de alta al fighter y lo saca de candidates en la misma tx.
// Devuelve false si ya era fighter.
func (r *FighterRepo) Promote(ctx context.Context, username string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
INSERT INTO fighters (username, alive, show)
VALUES ($1, TRUE, TRUE)
ON CONFLICT (username) DO NOTHING
`, username)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()

	if _, err := tx.ExecContext(ctx, `DELETE FROM candidates WHERE username = $1`, username); err != nil {
		return false, err
	}
	return n > 0, tx.Commit()
}

func (r *FighterRepo) Delete(ctx context.Context, username string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM fighters WHERE username = $1`, username)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Revive sólo afecta a fighters muertos; false = no existe o ya estaba vivo.
func (r *FighterRepo) Revive(ctx context.Context, username string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE fighters
   SET alive = TRUE
 WHERE username = $1
   AND alive = FALSE
`, username)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// RecordDuel aplica la batalla completa en una tx: kill (idempotente), muerte,
// ocultado opcional y encolado en la battle queue.
func (r *FighterRepo) RecordDuel(ctx context.Context, d domain.Duel, hide bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var found int
	if err := tx.QueryRowContext(ctx, `
SELECT count(*) FROM fighters WHERE username = ANY($1)
`, pq.Array([]string{d.Winner, d.Defeated})).Scan(&found); err != nil {
		return err
	}
	if found != 2 {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO fighter_kills (winner, defeated)
VALUES ($1, $2)
ON CONFLICT (winner, defeated) DO NOTHING
`, d.Winner, d.Defeated); err != nil {
		return fmt.Errorf("insert kill: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
UPDATE fighters
   SET alive = FALSE,
       show  = CASE WHEN $2 THEN FALSE ELSE show END
 WHERE username = $1
`, d.Defeated, hide); err != nil {
		return fmt.Errorf("kill fighter: %w", err)
	}

	if err := push(ctx, tx, QueueBattle, d); err != nil {
		return err
	}
	return tx.Commit()
}
