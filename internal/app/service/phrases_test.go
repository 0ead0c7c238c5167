package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jose-valero/warbot/internal/domain"
)

func TestLoadPhrases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phrases.yaml")
	body := "battle:\n  - \"{winner} beat {defeated} ({alive} left)\"\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	p, err := LoadPhrases(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := p.BattleText(domain.Duel{Winner: "a", Defeated: "b"}, 3); got != "@a beat @b (3 left)" {
		t.Fatalf("battle = %q", got)
	}
	// announce no está en el yaml: default
	if got := p.AnnounceText("c"); got != "🔔 @c has joined the war!" {
		t.Fatalf("announce = %q", got)
	}
	if got := p.ChampionText("a"); got != "🏆 @a is the last fighter standing!" {
		t.Fatalf("champion = %q", got)
	}
}

func TestLoadPhrasesErrors(t *testing.T) {
	if _, err := LoadPhrases(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
	path := filepath.Join(t.TempDir(), "bad.yaml")
	_ = os.WriteFile(path, []byte("battle: [unclosed"), 0o600)
	if _, err := LoadPhrases(path); err == nil {
		t.Fatal("expected parse error")
	}
	if p, err := LoadPhrases(""); err != nil || len(p.Battle) == 0 {
		t.Fatalf("empty path should give defaults: %v", err)
	}
}
