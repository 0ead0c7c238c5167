package discord

import "github.com/bwmarrin/discordgo"

// Commands: un único slash command que reenvía el texto al dispatcher, igual que un DM.
var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        "warbot",
		Description: "War bot: ejecuta un comando de operador",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "command",
			Description: "Comando y argumentos, ej: addfighter alice bob!",
			Required:    true,
		}},
	},
}
