// Package memstore implementa los repos de storage en memoria para tests.
package memstore

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jose-valero/warbot/internal/domain"
)

type Store struct {
	mu         sync.Mutex
	fighters   []domain.Fighter
	candidates []string
	vars       domain.Vars
	queues     map[string][]any

	// FailRestart fuerza un error en Restart.
	FailRestart error

	Fighters   *Fighters
	Candidates *Candidates
	Vars       *Vars
	Queues     *Queues
}

func New() *Store {
	s := &Store{vars: domain.DefaultVars(), queues: map[string][]any{}}
	s.Fighters = &Fighters{s}
	s.Candidates = &Candidates{s}
	s.Vars = &Vars{s}
	s.Queues = &Queues{s}
	return s
}

func (s *Store) Restart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailRestart != nil {
		return s.FailRestart
	}
	s.fighters = nil
	s.candidates = nil
	s.vars = domain.DefaultVars()
	s.queues = map[string][]any{}
	return nil
}

// Seed agrega fighters vivos y visibles.
func (s *Store) Seed(usernames ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range usernames {
		s.fighters = append(s.fighters, domain.Fighter{Username: u, Alive: true, Show: true})
	}
}

// SeedFighter agrega un fighter tal cual.
func (s *Store) SeedFighter(f domain.Fighter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fighters = append(s.fighters, clone(f))
}

// SetVars reemplaza la fila de vars.
func (s *Store) SetVars(v domain.Vars) {
	s.mu.Lock()
	s.vars = v
	s.mu.Unlock()
}

func (s *Store) idx(username string) int {
	for i, f := range s.fighters {
		if f.Username == username {
			return i
		}
	}
	return -1
}

func clone(f domain.Fighter) domain.Fighter {
	f.Killed = append([]string(nil), f.Killed...)
	return f
}

type Fighters struct{ s *Store }

func (r *Fighters) List(ctx context.Context) ([]domain.Fighter, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.Fighter, len(r.s.fighters))
	for i, f := range r.s.fighters {
		out[i] = clone(f)
	}
	return out, nil
}

func (r *Fighters) Get(ctx context.Context, username string) (domain.Fighter, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i := r.s.idx(username)
	if i < 0 {
		return domain.Fighter{}, domain.ErrNotFound
	}
	return clone(r.s.fighters[i]), nil
}

func (r *Fighters) Promote(ctx context.Context, username string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, c := range r.s.candidates {
		if c == username {
			r.s.candidates = append(r.s.candidates[:i], r.s.candidates[i+1:]...)
			break
		}
	}
	if r.s.idx(username) >= 0 {
		return false, nil
	}
	r.s.fighters = append(r.s.fighters, domain.Fighter{Username: username, Alive: true, Show: true})
	return true, nil
}

func (r *Fighters) Delete(ctx context.Context, username string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i := r.s.idx(username)
	if i < 0 {
		return false, nil
	}
	r.s.fighters = append(r.s.fighters[:i], r.s.fighters[i+1:]...)
	return true, nil
}

func (r *Fighters) Revive(ctx context.Context, username string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i := r.s.idx(username)
	if i < 0 || r.s.fighters[i].Alive {
		return false, nil
	}
	r.s.fighters[i].Alive = true
	return true, nil
}

func (r *Fighters) RecordDuel(ctx context.Context, d domain.Duel, hide bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	wi, di := r.s.idx(d.Winner), r.s.idx(d.Defeated)
	if wi < 0 || di < 0 {
		return domain.ErrNotFound
	}
	if !r.s.fighters[wi].HasKilled(d.Defeated) {
		r.s.fighters[wi].Killed = append(r.s.fighters[wi].Killed, d.Defeated)
	}
	r.s.fighters[di].Alive = false
	if hide {
		r.s.fighters[di].Show = false
	}
	r.s.queues["battle"] = append(r.s.queues["battle"], d)
	return nil
}

type Candidates struct{ s *Store }

func (r *Candidates) List(ctx context.Context) ([]domain.Candidate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.Candidate, len(r.s.candidates))
	for i, c := range r.s.candidates {
		out[i] = domain.Candidate{Username: c}
	}
	return out, nil
}

func (r *Candidates) Add(ctx context.Context, username string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.idx(username) >= 0 {
		return false, nil
	}
	for _, c := range r.s.candidates {
		if c == username {
			return false, nil
		}
	}
	r.s.candidates = append(r.s.candidates, username)
	return true, nil
}

func (r *Candidates) Delete(ctx context.Context, username string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, c := range r.s.candidates {
		if c == username {
			r.s.candidates = append(r.s.candidates[:i], r.s.candidates[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type Vars struct{ s *Store }

func (r *Vars) Get(ctx context.Context) (domain.Vars, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.vars, nil
}

func (r *Vars) SetNextBattle(ctx context.Context, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.vars.NextBattle = at
	r.s.vars.StopNextBattle = false
	return nil
}

func (r *Vars) SetStopNextBattle(ctx context.Context, stop bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.vars.StopNextBattle = stop
	return nil
}

func (r *Vars) SetFrequency(ctx context.Context, f domain.Frequency) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.vars.Frequency = f
	r.s.vars.StopFrequency = false
	return nil
}

func (r *Vars) SetStopFrequency(ctx context.Context, stop bool) (bool, error) {
	return r.flag(&r.s.vars.StopFrequency, stop), nil
}

func (r *Vars) SetOptIn(ctx context.Context, running bool) (bool, error) {
	return r.flag(&r.s.vars.OptInRunning, running), nil
}

func (r *Vars) SetAnnounce(ctx context.Context, announce bool) (bool, error) {
	return r.flag(&r.s.vars.FighterAnnounce, announce), nil
}

func (r *Vars) flag(p *bool, v bool) bool {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if *p == v {
		return false
	}
	*p = v
	return true
}

func (r *Vars) ClaimBattle(ctx context.Context, expected, next time.Time, stop bool) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.vars.StopNextBattle || !r.s.vars.NextBattle.Equal(expected) {
		return false, nil
	}
	r.s.vars.NextBattle = next
	r.s.vars.StopNextBattle = stop
	return true, nil
}

func (r *Vars) SetLastMentionID(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if id > r.s.vars.LastMentionID {
		r.s.vars.LastMentionID = id
	}
	return nil
}

type Queues struct{ s *Store }

func (r *Queues) PushMessage(ctx context.Context, text string) error {
	return r.push("message", text)
}

func (r *Queues) PushAnnounce(ctx context.Context, username string) error {
	return r.push("announce", username)
}

func (r *Queues) push(q string, v any) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.queues[q] = append(r.s.queues[q], v)
	return nil
}

func (r *Queues) drain(q string) []any {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := r.s.queues[q]
	delete(r.s.queues, q)
	return items
}

func (r *Queues) DrainMessages(ctx context.Context) ([]string, error) {
	return strs(r.drain("message"))
}

func (r *Queues) DrainAnnounces(ctx context.Context) ([]string, error) {
	return strs(r.drain("announce"))
}

func (r *Queues) DrainBattles(ctx context.Context) ([]domain.Duel, error) {
	items := r.drain("battle")
	out := make([]domain.Duel, 0, len(items))
	for _, it := range items {
		d, ok := it.(domain.Duel)
		if !ok {
			return out, errors.New("memstore: bad battle payload")
		}
		out = append(out, d)
	}
	return out, nil
}

func strs(items []any) ([]string, error) {
	out := make([]string, 0, len(items))
	for _, it := range items {
		s, ok := it.(string)
		if !ok {
			return out, errors.New("memstore: bad string payload")
		}
		out = append(out, s)
	}
	return out, nil
}
