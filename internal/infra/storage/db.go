package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/jose-valero/warbot/internal/domain"
)

//go:embed migrations/*.sql
var migrations embed.FS

// ErrNotFound se comparte con domain para que los services no dependan de storage.
var ErrNotFound = domain.ErrNotFound

// Open abre la conexión (pgx stdlib) y verifica health.
func Open(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(1 * time.Hour)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

// Migrate aplica todas las migraciones embebidas.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, "migrations")
}

// Restart borra todo el juego y deja las vars en default, en una sola tx.
// Si algo falla se hace rollback y el estado previo queda intacto.
func Restart(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("restart begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `TRUNCATE fighter_kills, fighters, candidates, queue_items RESTART IDENTITY`); err != nil {
		return fmt.Errorf("restart truncate: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM vars`); err != nil {
		return fmt.Errorf("restart vars: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO vars (id) VALUES (1)`); err != nil {
		return fmt.Errorf("restart vars: %w", err)
	}
	return tx.Commit()
}

// Store agrupa los repos sobre la misma conexión.
type Store struct {
	DB         *sql.DB
	Fighters   *FighterRepo
	Candidates *CandidateRepo
	Vars       *VarsRepo
	Queues     *QueueRepo
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		DB:         db,
		Fighters:   NewFighterRepo(db),
		Candidates: NewCandidateRepo(db),
		Vars:       NewVarsRepo(db),
		Queues:     NewQueueRepo(db),
	}
}

func (s *Store) Restart(ctx context.Context) error { return Restart(ctx, s.DB) }
