package discord

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/warbot/internal/domain"
)

// handleMessageComponent: la opción elegida en el select menu se trata como el
// siguiente mensaje del operador (responde al prompt pendiente).
func (t *Transport) handleMessageComponent(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	data := ic.MessageComponentData()
	if data.CustomID != pickCustomID {
		return
	}
	userID := interactionUserID(ic)

	if !t.limiter.Allow(userID) {
		_ = SendEphemeral(s, ic, "⏳ Wait a second…")
		return
	}
	if len(data.Values) == 0 {
		_ = SendEphemeral(s, ic, "⚠️ Invalid selection.")
		return
	}

	if err := AckComponent(s, ic); err != nil {
		t.log.Warn("component ack failed", slog.Any("err", err))
	}
	t.enqueue(domain.Inbound{SenderID: userID, ChatID: ic.ChannelID, Text: data.Values[0]})
}
