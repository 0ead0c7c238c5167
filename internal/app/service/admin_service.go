package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jose-valero/warbot/internal/domain"
)

type AdminService struct {
	fighters   FighterRepo
	candidates CandidateRepo
	vars       VarsRepo
	store      Restarter
	loc        *time.Location
	log        *slog.Logger
}

func NewAdminService(fighters FighterRepo, candidates CandidateRepo, vars VarsRepo, store Restarter, loc *time.Location, log *slog.Logger) *AdminService {
	if loc == nil {
		loc = time.UTC
	}
	return &AdminService{
		fighters:   fighters,
		candidates: candidates,
		vars:       vars,
		store:      store,
		loc:        loc,
		log:        log.With(slog.String("component", "admin")),
	}
}

func (s *AdminService) Status(ctx context.Context) (domain.Status, error) {
	fs, err := s.fighters.List(ctx)
	if err != nil {
		return domain.Status{}, err
	}
	cs, err := s.candidates.List(ctx)
	if err != nil {
		return domain.Status{}, err
	}
	v, err := s.vars.Get(ctx)
	if err != nil {
		return domain.Status{}, err
	}
	st := domain.Status{Fighters: len(fs), Candidates: len(cs), Vars: v}
	for _, f := range fs {
		if !f.Alive {
			st.Dead++
		}
	}
	return st, nil
}

func (s *AdminService) StatusText(ctx context.Context) (string, error) {
	st, err := s.Status(ctx)
	if err != nil {
		return "", err
	}
	v := st.Vars

	var b strings.Builder
	fmt.Fprintf(&b, "- Number of fighters: %d (%d 💀)\n", st.Fighters, st.Dead)
	fmt.Fprintf(&b, "- Number of candidates: %d\n", st.Candidates)
	b.WriteString("- Opt-in: " + pick(v.OptInRunning, "activated", "deactivated") + "\n")
	if v.StopNextBattle {
		b.WriteString("- Next battle: won't be\n")
	} else {
		b.WriteString("- Next battle: " + FormatDate(v.NextBattle.In(s.loc)) + "\n")
	}
	fmt.Fprintf(&b, "- Battle frequency: %d hours %d minutes\n", v.Frequency.Hours, v.Frequency.Minutes)
	b.WriteString("- Frequency active: " + pick(v.StopFrequency, "no", "yes") + "\n")
	b.WriteString("- Fighter announce: " + pick(v.FighterAnnounce, "automatic", "manual"))
	return b.String(), nil
}

func (s *AdminService) RunOptIn(ctx context.Context) (string, error) {
	changed, err := s.vars.SetOptIn(ctx, true)
	if err != nil {
		return "", err
	}
	return pick(changed, "Opt-in successfully activated.", "Opt-in was already in execution."), nil
}

func (s *AdminService) StopOptIn(ctx context.Context) (string, error) {
	changed, err := s.vars.SetOptIn(ctx, false)
	if err != nil {
		return "", err
	}
	return pick(changed, "Opt-in successfully deactivated.", "Opt-in was already stopped."), nil
}

func (s *AdminService) AnnounceFighters(ctx context.Context) (string, error) {
	changed, err := s.vars.SetAnnounce(ctx, true)
	if err != nil {
		return "", err
	}
	return pick(changed,
		"From now on, new fighters will be announced by default.",
		"Fighters are being announced by default. To deactivate, use /stopannouncefighters."), nil
}

func (s *AdminService) StopAnnounceFighters(ctx context.Context) (string, error) {
	changed, err := s.vars.SetAnnounce(ctx, false)
	if err != nil {
		return "", err
	}
	return pick(changed,
		"New users won't be announced by default.",
		"Fighters weren't being announced already. Use /announcefighters to activate."), nil
}

// Restart sólo actúa con confirm=true. Un fallo deja el estado previo y se informa.
func (s *AdminService) Restart(ctx context.Context, confirm bool) string {
	if !confirm {
		return "To do this, you must confirm this action. Have in consideration this action is irreversible. TO confirm, use /restart `confirm`."
	}
	if err := s.store.Restart(ctx); err != nil {
		s.log.Error("restart failed", slog.Any("err", err))
		return "Database could not be restarted."
	}
	s.log.Warn("database restarted")
	return "Database has been restarted."
}

func pick(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}
