package discord

import (
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/warbot/internal/domain"
)

// handleSlashCommand convierte /warbot command:<texto> en un Inbound "/<texto>".
// La respuesta real llega por Send; acá sólo se confirma la recepción.
func (t *Transport) handleSlashCommand(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	data := ic.ApplicationCommandData()
	defer func() {
		if rec := recover(); rec != nil {
			t.log.Error("panic in slash command", slog.String("cmd", data.Name), slog.Any("panic", rec))
			ReplyEphemeral(s, ic, "❌ Unexpected error.")
		}
	}()
	if data.Name != "warbot" {
		return
	}

	_ = DeferEphemeral(s, ic)
	raw, _ := optStr(ic, "command")
	userID := interactionUserID(ic)
	if !t.isOperator(userID) {
		ReplyEphemeral(s, ic, "🔒 Only the operator can use this command.")
		return
	}

	t.enqueue(domain.Inbound{
		SenderID: userID,
		ChatID:   ic.ChannelID,
		Text:     "/" + strings.TrimPrefix(strings.TrimSpace(raw), "/"),
	})
	ReplyEphemeral(s, ic, "⏳ Received.")
}
