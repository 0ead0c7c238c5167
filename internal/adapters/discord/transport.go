package discord

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/warbot/internal/domain"
)

// Transport es el canal del operador sobre Discord. Los eventos llegan en
// goroutines de discordgo y se encolan en un canal con buffer; Fetch los drena
// desde el goroutine del loop.
type Transport struct {
	s          *discordgo.Session
	guildID    string
	operatorID string
	// canal de guild donde se aceptan comandos por texto; vacío = sólo DMs
	listenChannel string
	events        chan domain.Inbound
	limiter       *userLimiter
	log           *slog.Logger

	mu        sync.Mutex
	channelID string
}

func New(opts Options) (*Transport, error) {
	s, err := discordgo.New("Bot " + opts.Token)
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsDirectMessages |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	if opts.Buffer <= 0 {
		opts.Buffer = 64
	}
	if opts.ClickWindow <= 0 {
		opts.ClickWindow = 750 * time.Millisecond
	}
	t := &Transport{
		s:             s,
		guildID:       opts.GuildID,
		operatorID:    opts.OperatorID,
		channelID:     opts.ChannelID,
		listenChannel: opts.ChannelID,
		events:        make(chan domain.Inbound, opts.Buffer),
		limiter:       newUserLimiter(opts.ClickWindow),
		log:           opts.Log.With(slog.String("component", "discord")),
	}
	s.AddHandler(t.onMessage)
	s.AddHandler(t.onInteraction)
	return t, nil
}

// Open conecta el gateway y registra el slash command.
func (t *Transport) Open() error {
	if err := t.s.Open(); err != nil {
		return fmt.Errorf("discord open: %w", err)
	}
	appID := t.s.State.User.ID
	for _, cmd := range Commands {
		if _, err := t.s.ApplicationCommandCreate(appID, t.guildID, cmd); err != nil {
			return fmt.Errorf("register /%s: %w", cmd.Name, err)
		}
	}
	t.log.Info("discord connected", slog.String("bot", t.s.State.User.Username))
	return nil
}

func (t *Transport) Close() error { return t.s.Close() }

func (t *Transport) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if !t.listens(m.GuildID, m.ChannelID) {
		return
	}
	t.enqueue(domain.Inbound{SenderID: m.Author.ID, ChatID: m.ChannelID, Text: m.Content})
}

func (t *Transport) onInteraction(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	switch ic.Type {
	case discordgo.InteractionApplicationCommand:
		t.handleSlashCommand(s, ic)
	case discordgo.InteractionMessageComponent:
		t.handleMessageComponent(s, ic)
	}
}

// listens: DMs siempre; en guilds sólo el canal configurado.
func (t *Transport) listens(guildID, channelID string) bool {
	if guildID == "" {
		return true
	}
	return t.listenChannel != "" && channelID == t.listenChannel
}

// enqueue no bloquea el goroutine de discordgo: con el buffer lleno se descarta.
func (t *Transport) enqueue(in domain.Inbound) {
	select {
	case t.events <- in:
	default:
		t.log.Warn("inbound buffer full, dropping message", slog.String("sender", in.SenderID))
	}
}

func (t *Transport) Fetch(ctx context.Context) ([]domain.Inbound, error) {
	var out []domain.Inbound
	for {
		select {
		case <-ctx.Done():
			return out, ctx.Err()
		case in := <-t.events:
			out = append(out, in)
		default:
			return out, nil
		}
	}
}

func (t *Transport) Send(ctx context.Context, m domain.Outbound) error {
	defer step(t.log, "discord.send")()

	channelID := m.ChatID
	if channelID == "" {
		var err error
		if channelID, err = t.defaultChannel(); err != nil {
			return err
		}
	}

	chunks := splitMessage(m.Text, maxMessageLen)
	for i, chunk := range chunks {
		msg := &discordgo.MessageSend{Content: chunk}
		if i == len(chunks)-1 && len(m.Options) > 0 {
			msg.Components = []discordgo.MessageComponent{pickMenu(m.Options)}
		}
		if _, err := t.s.ChannelMessageSendComplex(channelID, msg); err != nil {
			return fmt.Errorf("discord send: %w", err)
		}
	}
	return nil
}

// defaultChannel: ChannelID configurado o el DM con el operador (se cachea).
func (t *Transport) defaultChannel() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.channelID != "" {
		return t.channelID, nil
	}
	ch, err := t.s.UserChannelCreate(t.operatorID)
	if err != nil {
		return "", fmt.Errorf("discord dm channel: %w", err)
	}
	t.channelID = ch.ID
	return ch.ID, nil
}

func pickMenu(options []string) discordgo.ActionsRow {
	if len(options) > maxMenuOptions {
		options = options[:maxMenuOptions]
	}
	opts := make([]discordgo.SelectMenuOption, 0, len(options))
	for _, o := range options {
		opts = append(opts, discordgo.SelectMenuOption{
			Label: truncate(o, maxLabelLen),
			Value: truncate(o, maxLabelLen),
		})
	}
	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				CustomID:    pickCustomID,
				Placeholder: "Choose one",
				Options:     opts,
			},
		},
	}
}
