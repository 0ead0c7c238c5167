package domain

import "time"

// KillFactor pondera la probabilidad de pelear según las muertes que lleva cada fighter.
const KillFactor = 0.5

// ShowThreshold: con tantos vivos o más, los derrotados dejan de listarse.
const ShowThreshold = 100

type Fighter struct {
	Username string
	Alive    bool
	Killed   []string // en orden, sin duplicados
	Show     bool
}

// HasKilled reporta si ya existe la muerte en el historial.
func (f Fighter) HasKilled(username string) bool {
	for _, k := range f.Killed {
		if k == username {
			return true
		}
	}
	return false
}

type Candidate struct {
	Username string
}

// Duel es el resultado de una batalla (también el payload de la battle queue).
type Duel struct {
	Winner   string `json:"winner"`
	Defeated string `json:"defeated"`
}

type Frequency struct {
	Hours   int
	Minutes int
}

func (f Frequency) Duration() time.Duration {
	return time.Duration(f.Hours)*time.Hour + time.Duration(f.Minutes)*time.Minute
}

// Vars es la fila singleton de variables de scheduling / flags.
type Vars struct {
	NextBattle      time.Time
	StopNextBattle  bool
	Frequency       Frequency
	StopFrequency   bool
	OptInRunning    bool
	FighterAnnounce bool
	LastMentionID   int64
}

// DefaultVars replica los valores con los que nace (o renace tras /restart) el store.
func DefaultVars() Vars {
	return Vars{
		NextBattle:     time.Date(2000, time.December, 19, 0, 0, 0, 0, time.UTC),
		StopNextBattle: true,
		Frequency:      Frequency{Hours: 6, Minutes: 0},
		StopFrequency:  true,
		LastMentionID:  1,
	}
}

// Status es el snapshot que muestran /status y GET /status.
type Status struct {
	Fighters   int  `json:"fighters"`
	Dead       int  `json:"dead"`
	Candidates int  `json:"candidates"`
	Vars       Vars `json:"-"`
}
