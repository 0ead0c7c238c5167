package service

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/jose-valero/warbot/internal/domain"
)

// Phrases son las plantillas de los tweets públicos. Placeholders: {winner}, {defeated},
// {fighter}, {alive}.
type Phrases struct {
	Battle   []string `yaml:"battle"`
	Announce []string `yaml:"announce"`
	Champion []string `yaml:"champion"`

	mu  sync.Mutex
	rng *rand.Rand
}

func DefaultPhrases() *Phrases {
	return &Phrases{
		Battle: []string{
			"⚔️ {winner} has killed {defeated}. {alive} fighters remain.",
		},
		Announce: []string{
			"🔔 {fighter} has joined the war!",
		},
		Champion: []string{
			"🏆 {winner} is the last fighter standing!",
		},
	}
}

// LoadPhrases lee el YAML; las listas vacías caen a los defaults.
func LoadPhrases(path string) (*Phrases, error) {
	def := DefaultPhrases()
	if path == "" {
		return def, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p Phrases
	if err := yaml.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("phrases %s: %w", path, err)
	}
	if len(p.Battle) == 0 {
		p.Battle = def.Battle
	}
	if len(p.Announce) == 0 {
		p.Announce = def.Announce
	}
	if len(p.Champion) == 0 {
		p.Champion = def.Champion
	}
	return &p, nil
}

// WithRand fija el rng para elegir plantilla; sin rng se usa siempre la primera.
func (p *Phrases) WithRand(rng *rand.Rand) *Phrases {
	p.rng = rng
	return p
}

func (p *Phrases) BattleText(d domain.Duel, alive int) string {
	return p.render(p.Battle, strings.NewReplacer(
		"{winner}", "@"+d.Winner,
		"{defeated}", "@"+d.Defeated,
		"{alive}", fmt.Sprint(alive),
	))
}

func (p *Phrases) AnnounceText(username string) string {
	return p.render(p.Announce, strings.NewReplacer("{fighter}", "@"+username))
}

func (p *Phrases) ChampionText(username string) string {
	return p.render(p.Champion, strings.NewReplacer("{winner}", "@"+username))
}

func (p *Phrases) render(list []string, r *strings.Replacer) string {
	if len(list) == 0 {
		return ""
	}
	i := 0
	if p.rng != nil && len(list) > 1 {
		p.mu.Lock()
		i = p.rng.Intn(len(list))
		p.mu.Unlock()
	}
	return r.Replace(list[i])
}
