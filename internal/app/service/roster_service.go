package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jose-valero/warbot/internal/domain"
)

type RosterService struct {
	fighters   FighterRepo
	candidates CandidateRepo
	vars       VarsRepo
	queues     QueueRepo
	log        *slog.Logger
}

func NewRosterService(fighters FighterRepo, candidates CandidateRepo, vars VarsRepo, queues QueueRepo, log *slog.Logger) *RosterService {
	return &RosterService{
		fighters:   fighters,
		candidates: candidates,
		vars:       vars,
		queues:     queues,
		log:        log.With(slog.String("component", "roster")),
	}
}

// NormalizeUsername quita espacios y la @ inicial.
func NormalizeUsername(s string) string {
	return strings.TrimLeft(strings.TrimSpace(s), "@")
}

func (s *RosterService) Fighters(ctx context.Context) ([]domain.Fighter, error) {
	return s.fighters.List(ctx)
}

func (s *RosterService) Candidates(ctx context.Context) ([]domain.Candidate, error) {
	return s.candidates.List(ctx)
}

func (s *RosterService) FighterNames(ctx context.Context) ([]string, error) {
	fs, err := s.fighters.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.Username)
	}
	return out, nil
}

func (s *RosterService) DeadFighterNames(ctx context.Context) ([]string, error) {
	fs, err := s.fighters.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, f := range fs {
		if !f.Alive {
			out = append(out, f.Username)
		}
	}
	return out, nil
}

func (s *RosterService) CandidateNames(ctx context.Context) ([]string, error) {
	cs, err := s.candidates.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Username)
	}
	return out, nil
}

// Describe arma el detalle de /getfighter.
func (s *RosterService) Describe(ctx context.Context, username string) (string, error) {
	username = NormalizeUsername(username)
	f, err := s.fighters.Get(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return "Fighter not found.", nil
	}
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("👤 Fighter: *" + f.Username + "*\nStatus:")
	if f.Alive {
		b.WriteString(" alive")
	} else {
		b.WriteString(" dead 💀")
	}
	b.WriteString("\nHas killed: ")
	if len(f.Killed) > 0 {
		ks := make([]string, len(f.Killed))
		for i, k := range f.Killed {
			ks[i] = "`" + k + "`"
		}
		b.WriteString(strings.Join(ks, ", "))
	} else {
		b.WriteString("no other fighters")
	}
	b.WriteString("\nShow in list: ")
	if f.Show {
		b.WriteString("yes")
	} else {
		b.WriteString("no 👻")
	}
	return b.String(), nil
}

// AddFighters promueve cada username (un "!" pide anunciarlo). Nunca aborta a mitad.
func (s *RosterService) AddFighters(ctx context.Context, usernames []string) (string, error) {
	v, err := s.vars.Get(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, raw := range usernames {
		announce := strings.Contains(raw, "!")
		username := NormalizeUsername(strings.ReplaceAll(raw, "!", ""))
		if username == "" {
			continue
		}

		added, err := s.fighters.Promote(ctx, username)
		if err != nil {
			return b.String(), fmt.Errorf("promote %s: %w", username, err)
		}
		if !added {
			b.WriteString("Fighter *" + username + "* is already on the fighters list.\n")
			continue
		}
		b.WriteString("Fighter *" + username + "* has been added. ")
		switch {
		case v.FighterAnnounce:
			if err := s.queues.PushAnnounce(ctx, username); err != nil {
				return b.String(), err
			}
			b.WriteString("Will be announced (by default, to deactivate use /stopannouncefighters).\n")
		case announce:
			if err := s.queues.PushAnnounce(ctx, username); err != nil {
				return b.String(), err
			}
			b.WriteString("Will be announced.\n")
		default:
			b.WriteString("\n")
		}
		s.log.Info("fighter added", slog.String("username", username))
	}
	return strings.TrimRight(b.String(), "\n "), nil
}

func (s *RosterService) DeleteFighters(ctx context.Context, usernames []string) (string, error) {
	return s.each(usernames, func(u string) (string, error) {
		ok, err := s.fighters.Delete(ctx, u)
		if err != nil {
			return "", err
		}
		if !ok {
			return "Fighter *" + u + "* not found, therefore cannot be deleted.", nil
		}
		return "Fighter *" + u + "* has been deleted.", nil
	})
}

func (s *RosterService) AddCandidates(ctx context.Context, usernames []string) (string, error) {
	if len(usernames) == 0 {
		return "You did not insert the candidate to add.", nil
	}
	return s.each(usernames, func(u string) (string, error) {
		ok, err := s.candidates.Add(ctx, u)
		if err != nil {
			return "", err
		}
		if !ok {
			return "Candidate *" + u + "* is already on the candidates list.", nil
		}
		return "Candidate *" + u + "* has been added.", nil
	})
}

func (s *RosterService) DeleteCandidates(ctx context.Context, usernames []string) (string, error) {
	return s.each(usernames, func(u string) (string, error) {
		ok, err := s.candidates.Delete(ctx, u)
		if err != nil {
			return "", err
		}
		if !ok {
			return "Candidate *" + u + "* not found, therefore cannot be deleted.", nil
		}
		return "Candidate *" + u + "* has been deleted.", nil
	})
}

func (s *RosterService) Revive(ctx context.Context, usernames []string) (string, error) {
	return s.each(usernames, func(u string) (string, error) {
		ok, err := s.fighters.Revive(ctx, u)
		if err != nil {
			return "", err
		}
		if !ok {
			return "We could not revive *" + u + "*: not found or already alive.", nil
		}
		return "Fighter *" + u + "* has been revived. 🧟", nil
	})
}

func (s *RosterService) each(usernames []string, fn func(username string) (string, error)) (string, error) {
	lines := make([]string, 0, len(usernames))
	for _, raw := range usernames {
		u := NormalizeUsername(raw)
		if u == "" {
			continue
		}
		line, err := fn(u)
		if err != nil {
			return strings.Join(lines, "\n"), fmt.Errorf("%s: %w", u, err)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

// OptIn agrega como candidate a quien lo pide (mención o POST /optin) mientras el
// opt-in esté activo. Fighters y candidates existentes se ignoran.
func (s *RosterService) OptIn(ctx context.Context, username string) (bool, error) {
	username = NormalizeUsername(username)
	if username == "" {
		return false, domain.Invalid("empty username")
	}
	v, err := s.vars.Get(ctx)
	if err != nil {
		return false, err
	}
	if !v.OptInRunning {
		return false, nil
	}
	added, err := s.candidates.Add(ctx, username)
	if err != nil || !added {
		return false, err
	}
	s.log.Info("opt-in candidate", slog.String("username", username))
	return true, s.queues.PushMessage(ctx, "Candidate *"+username+"* has joined via opt-in.")
}
