package command

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/jose-valero/warbot/internal/app/service"
	"github.com/jose-valero/warbot/internal/domain"
)

// PageSize: items por mensaje en los listados.
const PageSize = 5

type Services struct {
	Battles  *service.BattleService
	Schedule *service.ScheduleService
	Roster   *service.RosterService
	Admin    *service.AdminService
}

// call es el contexto de un comando ya parseado.
type call struct {
	Sender string
	ChatID string
	Name   string
	Args   []string
}

type handlerFunc func(ctx context.Context, c call) error

type Dispatcher struct {
	operatorID string
	svc        Services
	out        *Outbox
	sessions   *Sessions
	log        *slog.Logger

	handlers map[string]handlerFunc
	names    []string // más largos primero
}

func NewDispatcher(operatorID string, svc Services, out *Outbox, log *slog.Logger) *Dispatcher {
	d := &Dispatcher{
		operatorID: operatorID,
		svc:        svc,
		out:        out,
		sessions:   NewSessions(),
		log:        log.With(slog.String("component", "dispatcher")),
	}
	d.handlers = map[string]handlerFunc{
		"help":                 d.help,
		"start":                d.start,
		"runoptin":             d.runOptIn,
		"stopoptin":            d.stopOptIn,
		"nextbattle":           d.nextBattle,
		"schedulebattle":       d.scheduleBattle,
		"battlefrequency":      d.battleFrequency,
		"setbattlefrequency":   d.setBattleFrequency,
		"stopfrequency":        d.stopFrequency,
		"forcebattle":          d.forceBattle,
		"getfighters":          d.getFighters,
		"getfighter":           d.getFighter,
		"getcandidates":        d.getCandidates,
		"addfighter":           d.addFighter,
		"deletefighter":        d.deleteFighter,
		"addcandidate":         d.addCandidate,
		"deletecandidate":      d.deleteCandidate,
		"revive":               d.revive,
		"announcefighters":     d.announceFighters,
		"stopannouncefighters": d.stopAnnounceFighters,
		"status":               d.status,
		"restart":              d.restart,
	}
	for n := range d.handlers {
		d.names = append(d.names, n)
	}
	sort.Slice(d.names, func(i, j int) bool {
		if len(d.names[i]) != len(d.names[j]) {
			return len(d.names[i]) > len(d.names[j])
		}
		return d.names[i] < d.names[j]
	})
	return d
}

func (d *Dispatcher) Outbox() *Outbox { return d.out }

// State expone el Pending actual del sender.
func (d *Dispatcher) State(sender string) Pending { return d.sessions.Get(sender) }

// Handle procesa un mensaje entrante. Los errores de storage se loguean, se
// avisa al operador y se devuelven; el loop sigue.
func (d *Dispatcher) Handle(ctx context.Context, in domain.Inbound) (err error) {
	defer step(d.log, "handle")()

	if in.SenderID != d.operatorID {
		d.log.Warn("unauthorized sender", slog.String("sender", in.SenderID))
		d.reply(in.ChatID, textUnauthorized)
		return nil
	}

	c := call{Sender: in.SenderID, ChatID: in.ChatID}
	defer func() {
		if rec := recover(); rec != nil {
			d.log.Error("panic in command", slog.String("cmd", c.Name), slog.Any("panic", rec))
			d.sessions.Set(in.SenderID, PendingNone)
			d.reply(in.ChatID, textInternal)
			err = fmt.Errorf("panic in /%s: %v", c.Name, rec)
		}
	}()

	if p := d.sessions.Get(in.SenderID); p != PendingNone {
		c.Name = p.String()
		err = d.followUp(ctx, c, p, in.Text)
	} else {
		var h handlerFunc
		c.Name, c.Args, h = d.parse(in.Text)
		if h == nil {
			d.reply(in.ChatID, textUnknown)
			return nil
		}
		d.log.Debug("command", slog.String("cmd", c.Name), slog.Int("args", len(c.Args)))
		err = h(ctx, c)
	}

	if err != nil {
		d.log.Error("command failed", slog.String("cmd", c.Name), slog.Any("err", err))
		d.reply(in.ChatID, textInternal)
		return fmt.Errorf("/%s: %w", c.Name, err)
	}
	return nil
}

// parse busca el comando por prefijo, probando primero los nombres más largos.
func (d *Dispatcher) parse(text string) (string, []string, handlerFunc) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", nil, nil
	}
	for _, n := range d.names {
		if strings.HasPrefix(text, "/"+n) {
			fields := strings.Fields(text)
			return n, fields[1:], d.handlers[n]
		}
	}
	return "", nil, nil
}

// followUp trata el mensaje como argumento del comando pendiente y vuelve a NONE.
func (d *Dispatcher) followUp(ctx context.Context, c call, p Pending, text string) error {
	d.sessions.Set(c.Sender, PendingNone)

	c.Args = strings.Fields(text)
	if len(c.Args) == 0 || (p.Arity() > 0 && len(c.Args) != p.Arity()) {
		d.reply(c.ChatID, textWrongArgs)
		return nil
	}

	switch p {
	case PendingGetFighter:
		return d.getFighter(ctx, c)
	case PendingAddFighter:
		return d.addFighter(ctx, c)
	case PendingDeleteFighter:
		return d.deleteFighter(ctx, c)
	case PendingDeleteCandidate:
		return d.deleteCandidate(ctx, c)
	case PendingRevive:
		return d.revive(ctx, c)
	}
	return nil
}

// prompt pide el argumento con teclado y deja la sesión esperando.
func (d *Dispatcher) prompt(c call, p Pending, text string, options []string) {
	d.sessions.Set(c.Sender, p)
	d.out.Push(domain.Outbound{ChatID: c.ChatID, Text: text, Options: options})
}

func (d *Dispatcher) reply(chatID, text string) {
	if text == "" {
		return
	}
	d.out.Push(domain.Outbound{ChatID: chatID, Text: text})
}

// paginate parte el listado en mensajes de PageSize items; el primero lleva el header.
func paginate(header string, lines []string) []string {
	var out []string
	text := header
	for i, l := range lines {
		text += "\n" + l
		if (i+1)%PageSize == 0 {
			out = append(out, text)
			text = ""
		}
	}
	if text != "" {
		out = append(out, text)
	}
	return out
}

func step(log *slog.Logger, label string) func() {
	start := time.Now()
	return func() { log.Debug("trace", slog.String("step", label), slog.Duration("took", time.Since(start))) }
}
