package command

import (
	"sync"

	"github.com/jose-valero/warbot/internal/domain"
)

// Outbox es la cola FIFO en memoria de respuestas directas; la vacía el loop.
type Outbox struct {
	mu    sync.Mutex
	items []domain.Outbound
}

func NewOutbox() *Outbox { return &Outbox{} }

func (o *Outbox) Push(m domain.Outbound) {
	o.mu.Lock()
	o.items = append(o.items, m)
	o.mu.Unlock()
}

func (o *Outbox) Drain() []domain.Outbound {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := o.items
	o.items = nil
	return out
}

func (o *Outbox) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.items)
}
