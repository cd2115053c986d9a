package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot adapts the Telegram Bot API to the Sender interface and turns long-poll
// results into normalized updates.
type Bot struct {
	api        *tgbotapi.BotAPI
	httpClient *http.Client
}

// NewBot authenticates against the Bot API.
func NewBot(token string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	return &Bot{
		api:        api,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Username returns the authenticated bot account name.
func (b *Bot) Username() string {
	return b.api.Self.UserName
}

// Updates starts long polling and yields normalized updates until the context
// is cancelled. The returned channel is closed on shutdown.
func (b *Bot) Updates(ctx context.Context) <-chan Update {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30

	raw := b.api.GetUpdatesChan(cfg)
	out := make(chan Update)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				b.api.StopReceivingUpdates()
				return
			case upd, ok := <-raw:
				if !ok {
					return
				}
				normalized, ok := normalizeUpdate(upd)
				if !ok {
					continue
				}
				select {
				case out <- normalized:
				case <-ctx.Done():
					b.api.StopReceivingUpdates()
					return
				}
			}
		}
	}()
	return out
}

// normalizeUpdate reduces a raw update to the fields the dispatcher consumes.
// Edits, channel posts and other update kinds are dropped.
func normalizeUpdate(upd tgbotapi.Update) (Update, bool) {
	if upd.CallbackQuery != nil && upd.CallbackQuery.Message != nil {
		return Update{
			ID:     int64(upd.UpdateID),
			ChatID: upd.CallbackQuery.Message.Chat.ID,
			UserID: upd.CallbackQuery.From.ID,
			Callback: &Callback{
				ID:   upd.CallbackQuery.ID,
				Data: upd.CallbackQuery.Data,
			},
		}, true
	}

	if upd.Message == nil || upd.Message.From == nil {
		return Update{}, false
	}

	normalized := Update{
		ID:     int64(upd.UpdateID),
		ChatID: upd.Message.Chat.ID,
		UserID: upd.Message.From.ID,
		Text:   upd.Message.Text,
	}
	if upd.Message.Document != nil {
		normalized.Document = &Document{
			FileID:   upd.Message.Document.FileID,
			FileName: upd.Message.Document.FileName,
			MIMEType: upd.Message.Document.MimeType,
		}
	}
	return normalized, true
}

// Send implements Sender.
func (b *Bot) Send(ctx context.Context, msg Outgoing) error {
	out := tgbotapi.NewMessage(msg.ChatID, msg.Text)
	switch {
	case msg.Inline != nil:
		out.ReplyMarkup = inlineMarkup(msg.Inline)
	case msg.Reply != nil && msg.Reply.Remove:
		out.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	case msg.Reply != nil:
		out.ReplyMarkup = replyMarkup(msg.Reply)
	}

	if _, err := b.api.Send(out); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// AnswerCallback implements Sender.
func (b *Bot) AnswerCallback(ctx context.Context, callbackID string) error {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		return fmt.Errorf("answer callback: %w", err)
	}
	return nil
}

// DownloadDocument implements Sender.
func (b *Bot) DownloadDocument(ctx context.Context, fileID string) ([]byte, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("resolve file url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build file request: %w", err)
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch file: unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

func replyMarkup(keyboard *ReplyKeyboard) tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(keyboard.Rows))
	for _, row := range keyboard.Rows {
		buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, button := range row {
			buttons = append(buttons, tgbotapi.NewKeyboardButton(button.Label))
		}
		rows = append(rows, buttons)
	}
	markup := tgbotapi.NewReplyKeyboard(rows...)
	markup.ResizeKeyboard = true
	return markup
}

func inlineMarkup(keyboard *InlineKeyboard) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(keyboard.Rows))
	for _, row := range keyboard.Rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, button := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(button.Label, button.Data))
		}
		rows = append(rows, buttons)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
