package discord

import (
	"log/slog"
	"time"
)

const (
	// CustomID del select menu con el que se contesta a un prompt.
	pickCustomID = "pick"
	// Discord acepta hasta 25 opciones por select menu y 100 chars por label.
	maxMenuOptions = 25
	maxLabelLen    = 100
	// Límite de caracteres por mensaje.
	maxMessageLen = 2000
)

type Options struct {
	Token      string
	GuildID    string // vacío = slash command global
	OperatorID string
	// ChannelID por defecto; vacío = DM al operador.
	ChannelID string
	// Ventana del limiter por usuario para clicks del select menu.
	ClickWindow time.Duration
	Buffer      int
	Log         *slog.Logger
}
