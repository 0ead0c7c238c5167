package command

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/jose-valero/warbot/internal/app/service"
	"github.com/jose-valero/warbot/internal/domain"
	"github.com/jose-valero/warbot/internal/infra/logging"
	"github.com/jose-valero/warbot/internal/testkit/memstore"
)

const operator = "42"

func newDispatcher(t *testing.T) (*Dispatcher, *memstore.Store) {
	t.Helper()
	st := memstore.New()
	log := logging.Discard()
	battles := service.NewBattleService(st.Fighters, rand.New(rand.NewSource(1)), log)
	svc := Services{
		Battles:  battles,
		Schedule: service.NewScheduleService(st.Vars, st.Queues, battles, time.UTC, log),
		Roster:   service.NewRosterService(st.Fighters, st.Candidates, st.Vars, st.Queues, log),
		Admin:    service.NewAdminService(st.Fighters, st.Candidates, st.Vars, st, time.UTC, log),
	}
	return NewDispatcher(operator, svc, NewOutbox(), log), st
}

func send(t *testing.T, d *Dispatcher, text string) []domain.Outbound {
	t.Helper()
	if err := d.Handle(context.Background(), domain.Inbound{SenderID: operator, ChatID: "chat", Text: text}); err != nil {
		t.Fatalf("%q: %v", text, err)
	}
	return d.Outbox().Drain()
}

func onlyText(t *testing.T, out []domain.Outbound) string {
	t.Helper()
	if len(out) != 1 {
		t.Fatalf("got %d messages, want 1: %+v", len(out), out)
	}
	return out[0].Text
}

func TestUnauthorizedSenderDoesNotTouchSession(t *testing.T) {
	d, st := newDispatcher(t)
	_, _ = st.Candidates.Add(context.Background(), "alice")

	send(t, d, "/addfighter")
	if d.State(operator) != PendingAddFighter {
		t.Fatalf("state = %s", d.State(operator))
	}

	_ = d.Handle(context.Background(), domain.Inbound{SenderID: "intruder", ChatID: "x", Text: "alice"})
	out := d.Outbox().Drain()
	if got := onlyText(t, out); got != textUnauthorized || out[0].ChatID != "x" {
		t.Fatalf("reply = %+v", out)
	}
	if d.State(operator) != PendingAddFighter {
		t.Fatal("intruder changed the operator session")
	}
	if d.State("intruder") != PendingNone {
		t.Fatal("intruder got a session")
	}
	if fs, _ := st.Fighters.List(context.Background()); len(fs) != 0 {
		t.Fatal("intruder added a fighter")
	}
}

func TestAddFighterAwaitFlow(t *testing.T) {
	d, st := newDispatcher(t)
	ctx := context.Background()
	_, _ = st.Candidates.Add(ctx, "alice")
	_, _ = st.Candidates.Add(ctx, "bob")

	out := send(t, d, "/addfighter")
	if onlyText(t, out) != promptAddFighter {
		t.Fatalf("prompt = %q", out[0].Text)
	}
	if strings.Join(out[0].Options, ",") != "alice,bob" {
		t.Fatalf("options = %v", out[0].Options)
	}
	if d.State(operator) != PendingAddFighter {
		t.Fatalf("state = %s", d.State(operator))
	}

	// el follow-up es el argumento aunque parezca un comando
	got := onlyText(t, send(t, d, "alice"))
	if !strings.HasPrefix(got, "Fighter *alice* has been added.") {
		t.Fatalf("reply = %q", got)
	}
	if d.State(operator) != PendingNone {
		t.Fatal("state must go back to NONE")
	}
	if fs, _ := st.Fighters.List(ctx); len(fs) != 1 || fs[0].Username != "alice" {
		t.Fatalf("fighters = %v", fs)
	}
	names, _ := d.svc.Roster.CandidateNames(ctx)
	if len(names) != 1 || names[0] != "bob" {
		t.Fatalf("candidates = %v", names)
	}
}

func TestPendingArity(t *testing.T) {
	d, st := newDispatcher(t)
	st.Seed("a", "b")

	send(t, d, "/getfighter")
	if got := onlyText(t, send(t, d, "a b")); got != textWrongArgs {
		t.Fatalf("reply = %q", got)
	}
	if d.State(operator) != PendingNone {
		t.Fatal("state must reset after a wrong follow-up")
	}

	send(t, d, "/revive")
	if got := onlyText(t, send(t, d, "   ")); got != textWrongArgs {
		t.Fatalf("reply = %q", got)
	}

	send(t, d, "/getfighter")
	if got := onlyText(t, send(t, d, "@a")); !strings.Contains(got, "Fighter: *a*") {
		t.Fatalf("reply = %q", got)
	}
}

func TestDeleteFighterPendingAcceptsSeveral(t *testing.T) {
	d, st := newDispatcher(t)
	st.Seed("a", "b", "c")

	out := send(t, d, "/deletefighter")
	if len(out[0].Options) != 3 {
		t.Fatalf("options = %v", out[0].Options)
	}
	got := onlyText(t, send(t, d, "a c"))
	if strings.Count(got, "has been deleted") != 2 {
		t.Fatalf("reply = %q", got)
	}
}

func TestCommandPrefixPrefersLongestName(t *testing.T) {
	d, st := newDispatcher(t)
	st.Seed("a")

	out := send(t, d, "/getfighters")
	if !strings.HasPrefix(onlyText(t, out), headerFighters) {
		t.Fatalf("reply = %q", out[0].Text)
	}
	if d.State(operator) != PendingNone {
		t.Fatal("/getfighters must not prompt")
	}

	_, _ = d.svc.Admin.AnnounceFighters(context.Background())
	got := onlyText(t, send(t, d, "/stopannouncefighters"))
	if got != "New users won't be announced by default." {
		t.Fatalf("reply = %q", got)
	}
}

func TestUnknownCommand(t *testing.T) {
	d, _ := newDispatcher(t)
	for _, in := range []string{"/nope", "hello", ""} {
		if got := onlyText(t, send(t, d, in)); got != textUnknown {
			t.Fatalf("%q -> %q", in, got)
		}
	}
}

func TestGetFightersPagination(t *testing.T) {
	d, st := newDispatcher(t)
	for i := 1; i <= 12; i++ {
		st.Seed(fmt.Sprintf("f%02d", i))
	}
	_, _ = d.svc.Battles.ApplyDuel(context.Background(), "f01", "f02")

	out := send(t, d, "/getfighters")
	if len(out) != 3 {
		t.Fatalf("messages = %d, want 3", len(out))
	}
	if !strings.HasPrefix(out[0].Text, headerFighters+"\n1. `f01`\n2. `f02` 💀") {
		t.Fatalf("first page = %q", out[0].Text)
	}
	if strings.Count(out[0].Text, "\n") != 5 || strings.Count(out[1].Text, "\n") != 5 {
		t.Fatalf("pages = %q", out)
	}
	if out[2].Text != "\n11. `f11`\n12. `f12`" {
		t.Fatalf("last page = %q", out[2].Text)
	}

	if got := send(t, d, "/getcandidates"); onlyText(t, got) != headerCandidates {
		t.Fatalf("empty candidates = %q", got[0].Text)
	}
}

func TestRestartNeedsConfirm(t *testing.T) {
	d, st := newDispatcher(t)
	st.Seed("a", "b")

	if got := onlyText(t, send(t, d, "/restart")); !strings.HasPrefix(got, "To do this, you must confirm") {
		t.Fatalf("reply = %q", got)
	}
	if fs, _ := st.Fighters.List(context.Background()); len(fs) != 2 {
		t.Fatal("restart without confirm changed state")
	}
	if got := onlyText(t, send(t, d, "/restart confirm")); got != "Database has been restarted." {
		t.Fatalf("reply = %q", got)
	}
	if fs, _ := st.Fighters.List(context.Background()); len(fs) != 0 {
		t.Fatal("restart did not clear fighters")
	}
}

func TestScheduleAndFrequencyCommands(t *testing.T) {
	d, _ := newDispatcher(t)

	tests := []struct {
		in, want string
	}{
		{"/nextbattle", textNoNextBattle},
		{"/schedulebattle 24/12/2030 21:00", textModified + textNextBattleAt + "24/12/2030 21:00"},
		{"/nextbattle", textNextBattleAt + "24/12/2030 21:00"},
		{"/schedulebattle mañana", textWrongFormat + textNextBattleAt + "24/12/2030 21:00"},
		{"/schedulebattle stop", textBattleStopped + textNoNextBattleEnd},
		{"/battlefrequency", textFrequencyStopped},
		{"/setbattlefrequency 2", textWrongArgs},
		{"/setbattlefrequency 2 x", textFrequencyInvalid},
		{"/setbattlefrequency 2 0", textFrequencyInvalid},
		{"/setbattlefrequency 2 15", "Battle frequency successfully set to 2 hours 15 minutes."},
		{"/battlefrequency", "Battle frequency: 2 hours 15 minutes."},
		{"/stopfrequency", textAutoOff},
		{"/stopfrequency", textAutoAlreadyOff},
	}
	for _, tt := range tests {
		if got := onlyText(t, send(t, d, tt.in)); got != tt.want {
			t.Fatalf("%s:\n got %q\nwant %q", tt.in, got, tt.want)
		}
	}
}

func TestForceBattle(t *testing.T) {
	d, st := newDispatcher(t)
	st.Seed("a", "b")

	if got := onlyText(t, send(t, d, "/forcebattle a ghost")); got != service.BattleFailedText+" Fighter *ghost* not found." {
		t.Fatalf("reply = %q", got)
	}
	if got := onlyText(t, send(t, d, "/forcebattle @nobody b")); got != service.BattleFailedText+" Fighter *nobody* not found." {
		t.Fatalf("reply = %q", got)
	}
	if got := onlyText(t, send(t, d, "/forcebattle @a b")); got != "Battle executed: *a* has killed *b*" {
		t.Fatalf("reply = %q", got)
	}
	if got := onlyText(t, send(t, d, "/forcebattle")); got != service.BattleFailedText {
		t.Fatalf("random with one survivor = %q", got)
	}
}
