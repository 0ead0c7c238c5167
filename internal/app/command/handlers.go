package command

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jose-valero/warbot/internal/app/service"
	"github.com/jose-valero/warbot/internal/domain"
)

func (d *Dispatcher) help(ctx context.Context, c call) error {
	d.reply(c.ChatID, textHelp)
	return nil
}

func (d *Dispatcher) start(ctx context.Context, c call) error {
	d.reply(c.ChatID, textWelcome)
	return nil
}

func (d *Dispatcher) runOptIn(ctx context.Context, c call) error {
	msg, err := d.svc.Admin.RunOptIn(ctx)
	if err != nil {
		return err
	}
	d.reply(c.ChatID, msg)
	return nil
}

func (d *Dispatcher) stopOptIn(ctx context.Context, c call) error {
	msg, err := d.svc.Admin.StopOptIn(ctx)
	if err != nil {
		return err
	}
	d.reply(c.ChatID, msg)
	return nil
}

func (d *Dispatcher) nextBattle(ctx context.Context, c call) error {
	at, ok, err := d.svc.Schedule.NextBattle(ctx)
	if err != nil {
		return err
	}
	if !ok {
		d.reply(c.ChatID, textNoNextBattle)
		return nil
	}
	d.reply(c.ChatID, textNextBattleAt+service.FormatDate(at))
	return nil
}

func (d *Dispatcher) scheduleBattle(ctx context.Context, c call) error {
	var text string
	_, err := d.svc.Schedule.SetNextBattle(ctx, strings.Join(c.Args, " "))
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		text = textWrongFormat
	case err != nil:
		return err
	case len(c.Args) > 0 && strings.HasPrefix(c.Args[0], "stop"):
		text = textBattleStopped
	default:
		text = textModified
	}

	at, ok, err := d.svc.Schedule.NextBattle(ctx)
	if err != nil {
		return err
	}
	if ok {
		text += textNextBattleAt + service.FormatDate(at)
	} else {
		text += textNoNextBattleEnd
	}
	d.reply(c.ChatID, text)
	return nil
}

func (d *Dispatcher) battleFrequency(ctx context.Context, c call) error {
	f, active, err := d.svc.Schedule.Frequency(ctx)
	if err != nil {
		return err
	}
	if !active {
		d.reply(c.ChatID, textFrequencyStopped)
		return nil
	}
	d.reply(c.ChatID, fmt.Sprintf("Battle frequency: %d hours %d minutes.", f.Hours, f.Minutes))
	return nil
}

func (d *Dispatcher) setBattleFrequency(ctx context.Context, c call) error {
	if len(c.Args) != 2 {
		d.reply(c.ChatID, textWrongArgs)
		return nil
	}
	h, errH := strconv.Atoi(c.Args[0])
	m, errM := strconv.Atoi(c.Args[1])
	if errH != nil || errM != nil {
		d.reply(c.ChatID, textFrequencyInvalid)
		return nil
	}
	err := d.svc.Schedule.SetFrequency(ctx, h, m)
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		d.reply(c.ChatID, textFrequencyInvalid)
		return nil
	}
	if err != nil {
		return err
	}
	d.reply(c.ChatID, fmt.Sprintf("Battle frequency successfully set to %d hours %d minutes.", h, m))
	return nil
}

func (d *Dispatcher) stopFrequency(ctx context.Context, c call) error {
	changed, err := d.svc.Schedule.StopFrequency(ctx)
	if err != nil {
		return err
	}
	if changed {
		d.reply(c.ChatID, textAutoOff)
	} else {
		d.reply(c.ChatID, textAutoAlreadyOff)
	}
	return nil
}

func (d *Dispatcher) forceBattle(ctx context.Context, c call) error {
	var (
		duel domain.Duel
		err  error
	)
	if len(c.Args) >= 2 {
		duel, err = d.svc.Battles.ApplyDuel(ctx,
			service.NormalizeUsername(c.Args[0]), service.NormalizeUsername(c.Args[1]))
	} else {
		duel, err = d.svc.Battles.RunBattle(ctx)
	}

	var (
		nf *domain.NotFoundError
		ve *domain.ValidationError
	)
	switch {
	case err == nil:
		d.reply(c.ChatID, service.BattleText(duel))
	case errors.As(err, &nf):
		d.reply(c.ChatID, service.BattleFailedText+" Fighter *"+nf.Username+"* not found.")
	case errors.Is(err, domain.ErrNoDuel), errors.As(err, &ve):
		d.reply(c.ChatID, service.BattleFailedText)
	default:
		return err
	}
	return nil
}

func (d *Dispatcher) getFighters(ctx context.Context, c call) error {
	fs, err := d.svc.Roster.Fighters(ctx)
	if err != nil {
		return err
	}
	lines := make([]string, len(fs))
	for i, f := range fs {
		l := fmt.Sprintf("%d. `%s`", i+1, f.Username)
		if !f.Alive {
			l += " 💀"
		}
		if !f.Show {
			l += " 👻"
		}
		lines[i] = l
	}
	for _, m := range paginate(headerFighters, lines) {
		d.reply(c.ChatID, m)
	}
	return nil
}

func (d *Dispatcher) getCandidates(ctx context.Context, c call) error {
	names, err := d.svc.Roster.CandidateNames(ctx)
	if err != nil {
		return err
	}
	lines := make([]string, len(names))
	for i, n := range names {
		lines[i] = fmt.Sprintf("%d. `%s`", i+1, n)
	}
	for _, m := range paginate(headerCandidates, lines) {
		d.reply(c.ChatID, m)
	}
	return nil
}

func (d *Dispatcher) getFighter(ctx context.Context, c call) error {
	if len(c.Args) == 0 {
		names, err := d.svc.Roster.FighterNames(ctx)
		if err != nil {
			return err
		}
		d.prompt(c, PendingGetFighter, promptGetFighter, names)
		return nil
	}
	msg, err := d.svc.Roster.Describe(ctx, c.Args[0])
	if err != nil {
		return err
	}
	d.reply(c.ChatID, msg)
	return nil
}

func (d *Dispatcher) addFighter(ctx context.Context, c call) error {
	if len(c.Args) == 0 {
		names, err := d.svc.Roster.CandidateNames(ctx)
		if err != nil {
			return err
		}
		d.prompt(c, PendingAddFighter, promptAddFighter, names)
		return nil
	}
	msg, err := d.svc.Roster.AddFighters(ctx, c.Args)
	d.reply(c.ChatID, msg)
	return err
}

func (d *Dispatcher) deleteFighter(ctx context.Context, c call) error {
	if len(c.Args) == 0 {
		names, err := d.svc.Roster.FighterNames(ctx)
		if err != nil {
			return err
		}
		d.prompt(c, PendingDeleteFighter, promptDeleteFighter, names)
		return nil
	}
	msg, err := d.svc.Roster.DeleteFighters(ctx, c.Args)
	d.reply(c.ChatID, msg)
	return err
}

func (d *Dispatcher) addCandidate(ctx context.Context, c call) error {
	msg, err := d.svc.Roster.AddCandidates(ctx, c.Args)
	d.reply(c.ChatID, msg)
	return err
}

func (d *Dispatcher) deleteCandidate(ctx context.Context, c call) error {
	if len(c.Args) == 0 {
		names, err := d.svc.Roster.CandidateNames(ctx)
		if err != nil {
			return err
		}
		d.prompt(c, PendingDeleteCandidate, promptDeleteCandidate, names)
		return nil
	}
	msg, err := d.svc.Roster.DeleteCandidates(ctx, c.Args)
	d.reply(c.ChatID, msg)
	return err
}

func (d *Dispatcher) revive(ctx context.Context, c call) error {
	if len(c.Args) == 0 {
		names, err := d.svc.Roster.DeadFighterNames(ctx)
		if err != nil {
			return err
		}
		d.prompt(c, PendingRevive, promptRevive, names)
		return nil
	}
	msg, err := d.svc.Roster.Revive(ctx, c.Args)
	d.reply(c.ChatID, msg)
	return err
}

func (d *Dispatcher) announceFighters(ctx context.Context, c call) error {
	msg, err := d.svc.Admin.AnnounceFighters(ctx)
	if err != nil {
		return err
	}
	d.reply(c.ChatID, msg)
	return nil
}

func (d *Dispatcher) stopAnnounceFighters(ctx context.Context, c call) error {
	msg, err := d.svc.Admin.StopAnnounceFighters(ctx)
	if err != nil {
		return err
	}
	d.reply(c.ChatID, msg)
	return nil
}

func (d *Dispatcher) status(ctx context.Context, c call) error {
	msg, err := d.svc.Admin.StatusText(ctx)
	if err != nil {
		return err
	}
	d.reply(c.ChatID, msg)
	return nil
}

func (d *Dispatcher) restart(ctx context.Context, c call) error {
	confirm := len(c.Args) > 0 && c.Args[0] == "confirm"
	d.reply(c.ChatID, d.svc.Admin.Restart(ctx, confirm))
	return nil
}
