package storage

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jose-valero/warbot/internal/domain"
)

// Necesita un Postgres real: WARBOT_TEST_DATABASE_URL=postgres://... go test ./internal/infra/storage
func openTestStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("WARBOT_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("WARBOT_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	db, err := Open(ctx, url)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := Migrate(db); err != nil {
		t.Fatal(err)
	}
	s := NewStore(db)
	if err := s.Restart(ctx); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestRosterAndDuel(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, u := range []string{"alice", "bob"} {
		if ok, err := s.Candidates.Add(ctx, u); err != nil || !ok {
			t.Fatalf("add candidate %s: %v %v", u, ok, err)
		}
		if ok, err := s.Fighters.Promote(ctx, u); err != nil || !ok {
			t.Fatalf("promote %s: %v %v", u, ok, err)
		}
	}
	if cs, _ := s.Candidates.List(ctx); len(cs) != 0 {
		t.Fatalf("candidates after promote = %v", cs)
	}
	if ok, _ := s.Candidates.Add(ctx, "alice"); ok {
		t.Fatal("fighter must not become candidate")
	}

	if err := s.Fighters.RecordDuel(ctx, domain.Duel{Winner: "alice", Defeated: "bob"}, false); err != nil {
		t.Fatal(err)
	}
	a, err := s.Fighters.Get(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if !a.Alive || len(a.Killed) != 1 || a.Killed[0] != "bob" {
		t.Fatalf("alice = %+v", a)
	}
	b, _ := s.Fighters.Get(ctx, "bob")
	if b.Alive || !b.Show {
		t.Fatalf("bob = %+v", b)
	}

	duels, err := s.Queues.DrainBattles(ctx)
	if err != nil || len(duels) != 1 || duels[0].Winner != "alice" {
		t.Fatalf("battles = %v %v", duels, err)
	}
	if again, _ := s.Queues.DrainBattles(ctx); len(again) != 0 {
		t.Fatalf("drain twice = %v", again)
	}

	if err := s.Fighters.RecordDuel(ctx, domain.Duel{Winner: "alice", Defeated: "ghost"}, false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown defeated err = %v", err)
	}
	if ok, _ := s.Fighters.Revive(ctx, "bob"); !ok {
		t.Fatal("revive bob")
	}
}

func TestQueuesKeepOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	for _, m := range []string{"one", "two", "three"} {
		if err := s.Queues.PushMessage(ctx, m); err != nil {
			t.Fatal(err)
		}
	}
	_ = s.Queues.PushAnnounce(ctx, "alice")

	got, err := s.Queues.DrainMessages(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0] != "one" || got[2] != "three" {
		t.Fatalf("messages = %v", got)
	}
	if ann, _ := s.Queues.DrainAnnounces(ctx); len(ann) != 1 || ann[0] != "alice" {
		t.Fatalf("announces = %v", ann)
	}
}

func TestVarsClaimAndFlags(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	at := time.Date(2030, 1, 2, 3, 4, 0, 0, time.UTC)
	if err := s.Vars.SetNextBattle(ctx, at); err != nil {
		t.Fatal(err)
	}
	v, _ := s.Vars.Get(ctx)
	if v.StopNextBattle || !v.NextBattle.Equal(at) {
		t.Fatalf("vars = %+v", v)
	}

	next := at.Add(time.Hour)
	if ok, err := s.Vars.ClaimBattle(ctx, v.NextBattle, next, false); err != nil || !ok {
		t.Fatalf("first claim: %v %v", ok, err)
	}
	if ok, _ := s.Vars.ClaimBattle(ctx, v.NextBattle, next, false); ok {
		t.Fatal("second claim with stale slot must fail")
	}

	if changed, _ := s.Vars.SetOptIn(ctx, true); !changed {
		t.Fatal("optin should change")
	}
	if changed, _ := s.Vars.SetOptIn(ctx, true); changed {
		t.Fatal("optin already running")
	}

	_ = s.Vars.SetLastMentionID(ctx, 50)
	_ = s.Vars.SetLastMentionID(ctx, 10)
	if v, _ := s.Vars.Get(ctx); v.LastMentionID != 50 {
		t.Fatalf("last mention = %d", v.LastMentionID)
	}

	if err := s.Restart(ctx); err != nil {
		t.Fatal(err)
	}
	if v, _ := s.Vars.Get(ctx); !v.StopNextBattle || v.OptInRunning || v.LastMentionID != 1 {
		t.Fatalf("vars after restart = %+v", v)
	}
}
