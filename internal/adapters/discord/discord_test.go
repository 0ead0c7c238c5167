package discord

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/warbot/internal/domain"
	"github.com/jose-valero/warbot/internal/infra/logging"
)

func TestUserLimiter(t *testing.T) {
	now := time.Unix(0, 0)
	l := newUserLimiter(time.Second)
	l.now = func() time.Time { return now }

	if !l.Allow("a") || l.Allow("a") {
		t.Fatal("second click inside the window must be rejected")
	}
	if !l.Allow("b") {
		t.Fatal("limiter is per user")
	}
	now = now.Add(time.Second)
	if !l.Allow("a") {
		t.Fatal("window elapsed")
	}
}

func TestSplitMessage(t *testing.T) {
	if got := splitMessage("short", 10); len(got) != 1 || got[0] != "short" {
		t.Fatalf("got %q", got)
	}

	text := strings.Repeat("line\n", 10) // 50 runas
	got := splitMessage(text, 12)
	if strings.Join(got, "") != text {
		t.Fatal("split lost content")
	}
	for _, c := range got {
		if utf8.RuneCountInString(c) > 12 {
			t.Fatalf("chunk too long: %q", c)
		}
	}

	long := strings.Repeat("💀", 25)
	got = splitMessage(long, 10)
	if len(got) != 3 || strings.Join(got, "") != long {
		t.Fatalf("got %q", got)
	}
}

func TestPickMenuCapsOptions(t *testing.T) {
	var names []string
	for i := 0; i < 30; i++ {
		names = append(names, fmt.Sprintf("f%02d", i))
	}
	row := pickMenu(names)
	menu, ok := row.Components[0].(discordgo.SelectMenu)
	if !ok {
		t.Fatalf("component = %T", row.Components[0])
	}
	if menu.CustomID != pickCustomID || len(menu.Options) != maxMenuOptions {
		t.Fatalf("menu = %s with %d options", menu.CustomID, len(menu.Options))
	}
}

func TestFetchDrainsBufferedEvents(t *testing.T) {
	tr := &Transport{events: make(chan domain.Inbound, 2), log: logging.Discard()}
	tr.enqueue(domain.Inbound{SenderID: "1", Text: "/help"})
	tr.enqueue(domain.Inbound{SenderID: "1", Text: "/status"})
	tr.enqueue(domain.Inbound{SenderID: "1", Text: "dropped"})

	got, err := tr.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[1].Text != "/status" {
		t.Fatalf("got %+v", got)
	}
	if got, _ := tr.Fetch(context.Background()); len(got) != 0 {
		t.Fatalf("second fetch = %+v", got)
	}
}

func TestOnMessageOnlyDMsAndConfiguredChannel(t *testing.T) {
	msg := func(guild, channel, author string) *discordgo.MessageCreate {
		return &discordgo.MessageCreate{Message: &discordgo.Message{
			GuildID:   guild,
			ChannelID: channel,
			Content:   "hola",
			Author:    &discordgo.User{ID: author},
		}}
	}

	tests := []struct {
		name     string
		channel  string
		in       *discordgo.MessageCreate
		enqueued bool
	}{
		{name: "dm", in: msg("", "dm1", "op"), enqueued: true},
		{name: "guild without channel", in: msg("g1", "general", "op")},
		{name: "other guild channel", channel: "ops", in: msg("g1", "general", "x")},
		{name: "configured channel", channel: "ops", in: msg("g1", "ops", "op"), enqueued: true},
		{name: "bot author", channel: "ops", in: &discordgo.MessageCreate{Message: &discordgo.Message{
			GuildID: "g1", ChannelID: "ops", Author: &discordgo.User{ID: "b", Bot: true},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := New(Options{Token: "x", OperatorID: "op", ChannelID: tt.channel, Log: logging.Discard()})
			if err != nil {
				t.Fatal(err)
			}
			tr.onMessage(nil, tt.in)
			got, _ := tr.Fetch(context.Background())
			if (len(got) == 1) != tt.enqueued {
				t.Fatalf("got %+v, want enqueued=%v", got, tt.enqueued)
			}
		})
	}
}
