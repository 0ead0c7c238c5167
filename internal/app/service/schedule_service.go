package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jose-valero/warbot/internal/domain"
)

// Formatos aceptados por /schedulebattle, en orden.
const (
	LayoutDateTime = "2/1/2006 15:04"
	LayoutHour     = "15:04"
)

type ScheduleService struct {
	vars    VarsRepo
	queues  QueueRepo
	battles Battler
	loc     *time.Location
	now     func() time.Time
	log     *slog.Logger
}

func NewScheduleService(vars VarsRepo, queues QueueRepo, battles Battler, loc *time.Location, log *slog.Logger) *ScheduleService {
	if loc == nil {
		loc = time.UTC
	}
	return &ScheduleService{
		vars:    vars,
		queues:  queues,
		battles: battles,
		loc:     loc,
		now:     time.Now,
		log:     log.With(slog.String("component", "scheduler")),
	}
}

// WithClock reemplaza el reloj (tests).
func (s *ScheduleService) WithClock(now func() time.Time) *ScheduleService {
	s.now = now
	return s
}

func (s *ScheduleService) Location() *time.Location { return s.loc }

// ParseNextBattle interpreta "d/m/yyyy HH:MM" o "HH:MM" en loc. Con sólo la hora,
// si ya pasó hoy se asigna mañana.
func ParseNextBattle(input string, now time.Time, loc *time.Location) (time.Time, error) {
	input = strings.TrimSpace(input)
	if t, err := time.ParseInLocation(LayoutDateTime, input, loc); err == nil {
		return t, nil
	}
	h, err := time.Parse(LayoutHour, input)
	if err != nil {
		return time.Time{}, domain.Invalid("wrong date format %q", input)
	}

	now = now.In(loc)
	at := time.Date(now.Year(), now.Month(), now.Day(), h.Hour(), h.Minute(), 0, 0, loc)
	if h.Hour() < now.Hour() || (h.Hour() == now.Hour() && h.Minute() < now.Minute()) {
		at = at.AddDate(0, 0, 1)
	}
	return at, nil
}

// SetNextBattle: "stop" apaga la próxima batalla (la fecha queda como estaba) y
// devuelve tiempo cero. Con formato inválido no se toca nada.
func (s *ScheduleService) SetNextBattle(ctx context.Context, input string) (time.Time, error) {
	if strings.HasPrefix(strings.TrimSpace(input), "stop") {
		if err := s.vars.SetStopNextBattle(ctx, true); err != nil {
			return time.Time{}, err
		}
		return time.Time{}, nil
	}
	at, err := ParseNextBattle(input, s.now(), s.loc)
	if err != nil {
		return time.Time{}, err
	}
	if err := s.vars.SetNextBattle(ctx, at); err != nil {
		return time.Time{}, err
	}
	s.log.Info("next battle set", slog.Time("at", at))
	return at, nil
}

// NextBattle devuelve la fecha en loc; ok=false si no hay próxima batalla.
func (s *ScheduleService) NextBattle(ctx context.Context) (time.Time, bool, error) {
	v, err := s.vars.Get(ctx)
	if err != nil {
		return time.Time{}, false, err
	}
	if v.StopNextBattle {
		return time.Time{}, false, nil
	}
	return v.NextBattle.In(s.loc), true, nil
}

// Frequency devuelve la frecuencia y si las batallas automáticas están activas.
func (s *ScheduleService) Frequency(ctx context.Context) (domain.Frequency, bool, error) {
	v, err := s.vars.Get(ctx)
	if err != nil {
		return domain.Frequency{}, false, err
	}
	return v.Frequency, !v.StopFrequency, nil
}

func (s *ScheduleService) SetFrequency(ctx context.Context, hours, minutes int) error {
	if hours < 0 || minutes <= 0 || minutes >= 60 {
		return domain.Invalid("invalid frequency %dh %dm", hours, minutes)
	}
	return s.vars.SetFrequency(ctx, domain.Frequency{Hours: hours, Minutes: minutes})
}

// StopFrequency: false si ya estaba parada.
func (s *ScheduleService) StopFrequency(ctx context.Context) (bool, error) {
	return s.vars.SetStopFrequency(ctx, true)
}

// Tick dispara la batalla programada si toca. Antes reclama el slot con un CAS,
// así dos procesos nunca disparan la misma batalla.
func (s *ScheduleService) Tick(ctx context.Context, now time.Time) (bool, error) {
	v, err := s.vars.Get(ctx)
	if err != nil {
		return false, fmt.Errorf("tick vars: %w", err)
	}
	if v.StopNextBattle || now.Before(v.NextBattle) {
		return false, nil
	}

	next, stop := v.NextBattle, true
	if !v.StopFrequency {
		next, stop = now.Truncate(time.Minute).Add(v.Frequency.Duration()), false
	}
	claimed, err := s.vars.ClaimBattle(ctx, v.NextBattle, next, stop)
	if err != nil {
		return false, fmt.Errorf("tick claim: %w", err)
	}
	if !claimed {
		return false, nil
	}

	d, err := s.battles.RunBattle(ctx)
	if errors.Is(err, domain.ErrNoDuel) {
		return true, s.queues.PushMessage(ctx, BattleFailedText)
	}
	if err != nil {
		// fallo transitorio: el slot vuelve a quedar pendiente
		s.log.Error("scheduled battle failed", slog.Any("err", err))
		if rerr := s.vars.SetNextBattle(ctx, v.NextBattle); rerr != nil {
			return false, errors.Join(err, fmt.Errorf("tick restore: %w", rerr))
		}
		return false, err
	}
	s.log.Info("scheduled battle", slog.String("winner", d.Winner), slog.String("defeated", d.Defeated))
	return true, s.queues.PushMessage(ctx, BattleText(d))
}

const BattleFailedText = "Battle could not be executed."

func BattleText(d domain.Duel) string {
	return "Battle executed: *" + d.Winner + "* has killed *" + d.Defeated + "*"
}

// FormatDate: d/m/yyyy HH:MM
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d %02d:%02d", t.Day(), int(t.Month()), t.Year(), t.Hour(), t.Minute())
}
