package storage

import (
	"context"
	"database/sql"

	"github.com/jose-valero/warbot/internal/domain"
)

type CandidateRepo struct{ db *sql.DB }

func NewCandidateRepo(db *sql.DB) *CandidateRepo { return &CandidateRepo{db: db} }

func (r *CandidateRepo) List(ctx context.Context) ([]domain.Candidate, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT username
  FROM candidates
 ORDER BY created_at ASC, username ASC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Candidate
	for rows.Next() {
		var c domain.Candidate
		if err := rows.Scan(&c.Username); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Add no inserta si ya es candidate o si ya es fighter (nunca ambos a la vez).
func (r *CandidateRepo) Add(ctx context.Context, username string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
INSERT INTO candidates (username)
SELECT $1
 WHERE NOT EXISTS (SELECT 1 FROM fighters WHERE username = $1)
ON CONFLICT (username) DO NOTHING
`, username)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *CandidateRepo) Delete(ctx context.Context, username string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM candidates WHERE username = $1`, username)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
