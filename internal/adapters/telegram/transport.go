package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/jose-valero/warbot/internal/domain"
)

// Transport es el canal del operador sobre Telegram (long polling con getUpdates).
type Transport struct {
	api           *tgbotapi.BotAPI
	defaultChatID int64
	offset        int
	timeout       int
	log           *slog.Logger
}

func New(token string, defaultChatID string, log *slog.Logger) (*Transport, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	t := &Transport{api: api, timeout: 1, log: log.With(slog.String("component", "telegram"))}
	if defaultChatID != "" {
		id, err := strconv.ParseInt(defaultChatID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("telegram chat id %q: %w", defaultChatID, err)
		}
		t.defaultChatID = id
	}
	t.log.Info("telegram connected", slog.String("bot", api.Self.UserName))
	return t, nil
}

// Fetch pide los updates posteriores al último visto (offset = último + 1).
func (t *Transport) Fetch(ctx context.Context) ([]domain.Inbound, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u := tgbotapi.NewUpdate(t.offset)
	u.Timeout = t.timeout
	updates, err := t.api.GetUpdates(u)
	if err != nil {
		return nil, fmt.Errorf("telegram getUpdates: %w", err)
	}

	out := make([]domain.Inbound, 0, len(updates))
	for _, up := range updates {
		if up.UpdateID >= t.offset {
			t.offset = up.UpdateID + 1
		}
		m := up.Message
		if m == nil || m.From == nil || m.Chat == nil {
			continue
		}
		chatID := strconv.FormatInt(m.Chat.ID, 10)
		if t.defaultChatID == 0 {
			// sin OPERATOR_CHAT_ID: el primer chat que habla pasa a ser el default
			t.defaultChatID = m.Chat.ID
		}
		out = append(out, domain.Inbound{
			SenderID: strconv.FormatInt(m.From.ID, 10),
			ChatID:   chatID,
			Text:     m.Text,
		})
	}
	return out, nil
}

// Send manda en Markdown; si Telegram rechaza el formato, reintenta en texto plano.
func (t *Transport) Send(ctx context.Context, m domain.Outbound) error {
	chatID := t.defaultChatID
	if m.ChatID != "" {
		id, err := strconv.ParseInt(m.ChatID, 10, 64)
		if err != nil {
			return fmt.Errorf("telegram chat id %q: %w", m.ChatID, err)
		}
		chatID = id
	}
	if chatID == 0 {
		return fmt.Errorf("telegram: no chat to send to")
	}

	msg := tgbotapi.NewMessage(chatID, m.Text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = keyboard(m.Options)

	if _, err := t.api.Send(msg); err != nil {
		t.log.Warn("markdown send failed, retrying plain", slog.Any("err", err))
		msg.ParseMode = ""
		if _, err := t.api.Send(msg); err != nil {
			return fmt.Errorf("telegram send: %w", err)
		}
	}
	return nil
}

// keyboard: una fila por opción, teclado de un solo uso. Sin opciones se quita el anterior.
func keyboard(options []string) any {
	if len(options) == 0 {
		return tgbotapi.NewRemoveKeyboard(true)
	}
	rows := make([][]tgbotapi.KeyboardButton, 0, len(options))
	for _, o := range options {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(o)))
	}
	return tgbotapi.NewOneTimeReplyKeyboard(rows...)
}
