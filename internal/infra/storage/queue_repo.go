package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/jose-valero/warbot/internal/domain"
)

// Colas persistidas. Se comparten entre procesos (admin / twitter).
const (
	QueueMessage  = "message"  // texto para el operador
	QueueAnnounce = "announce" // username a anunciar
	QueueBattle   = "battle"   // domain.Duel
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type QueueRepo struct{ db *sql.DB }

func NewQueueRepo(db *sql.DB) *QueueRepo { return &QueueRepo{db: db} }

func push(ctx context.Context, ex execer, queue string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("queue %s marshal: %w", queue, err)
	}
	if _, err := ex.ExecContext(ctx, `
INSERT INTO queue_items (queue, payload)
VALUES ($1, $2::jsonb)
`, queue, string(b)); err != nil {
		return fmt.Errorf("queue %s push: %w", queue, err)
	}
	return nil
}

type queueItem struct {
	id      int64
	payload []byte
}

// drain lee y vacía la cola en un único statement; nada que entre después se pierde.
func (r *QueueRepo) drain(ctx context.Context, queue string) ([][]byte, error) {
	rows, err := r.db.QueryContext(ctx, `
DELETE FROM queue_items
 WHERE queue = $1
RETURNING id, payload::text
`, queue)
	if err != nil {
		return nil, fmt.Errorf("queue %s drain: %w", queue, err)
	}
	defer rows.Close()

	var items []queueItem
	for rows.Next() {
		var it queueItem
		var s string
		if err := rows.Scan(&it.id, &s); err != nil {
			return nil, err
		}
		it.payload = []byte(s)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// RETURNING no garantiza orden
	sort.Slice(items, func(i, j int) bool { return items[i].id < items[j].id })

	out := make([][]byte, len(items))
	for i, it := range items {
		out[i] = it.payload
	}
	return out, nil
}

func (r *QueueRepo) PushMessage(ctx context.Context, text string) error {
	return push(ctx, r.db, QueueMessage, text)
}

func (r *QueueRepo) PushAnnounce(ctx context.Context, username string) error {
	return push(ctx, r.db, QueueAnnounce, username)
}

func (r *QueueRepo) DrainMessages(ctx context.Context) ([]string, error) {
	return drainAs[string](ctx, r, QueueMessage)
}

func (r *QueueRepo) DrainAnnounces(ctx context.Context) ([]string, error) {
	return drainAs[string](ctx, r, QueueAnnounce)
}

func (r *QueueRepo) DrainBattles(ctx context.Context) ([]domain.Duel, error) {
	return drainAs[domain.Duel](ctx, r, QueueBattle)
}

func drainAs[T any](ctx context.Context, r *QueueRepo, queue string) ([]T, error) {
	raw, err := r.drain(ctx, queue)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raw))
	for _, b := range raw {
		var v T
		if err := json.Unmarshal(b, &v); err != nil {
			return out, fmt.Errorf("queue %s decode: %w", queue, err)
		}
		out = append(out, v)
	}
	return out, nil
}
