package command

import "sync"

// Pending es el estado de la conversación con el operador: qué comando espera
// su siguiente mensaje como argumento.
type Pending int

const (
	PendingNone Pending = iota
	PendingGetFighter
	PendingAddFighter
	PendingDeleteFighter
	PendingDeleteCandidate
	PendingRevive
)

func (p Pending) String() string {
	switch p {
	case PendingGetFighter:
		return "AWAIT_GETFIGHTER"
	case PendingAddFighter:
		return "AWAIT_ADDFIGHTER"
	case PendingDeleteFighter:
		return "AWAIT_DELETEFIGHTER"
	case PendingDeleteCandidate:
		return "AWAIT_DELETECANDIDATE"
	case PendingRevive:
		return "AWAIT_REVIVE"
	default:
		return "NONE"
	}
}

// Arity: cuántos usernames espera el follow-up. 0 = uno o más.
func (p Pending) Arity() int {
	if p == PendingGetFighter {
		return 1
	}
	return 0
}

// Sessions guarda el Pending por sender.
type Sessions struct {
	mu sync.Mutex
	m  map[string]Pending
}

func NewSessions() *Sessions { return &Sessions{m: map[string]Pending{}} }

func (s *Sessions) Get(sender string) Pending {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m[sender]
}

func (s *Sessions) Set(sender string, p Pending) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p == PendingNone {
		delete(s.m, sender)
		return
	}
	s.m[sender] = p
}
