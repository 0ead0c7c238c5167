package discord

import "github.com/bwmarrin/discordgo"

// interactionUserID: en guild viene en Member, en DM en User.
func interactionUserID(ic *discordgo.InteractionCreate) string {
	if ic.Member != nil && ic.Member.User != nil {
		return ic.Member.User.ID
	}
	if ic.User != nil {
		return ic.User.ID
	}
	return ""
}

func (t *Transport) isOperator(userID string) bool {
	return userID != "" && userID == t.operatorID
}
