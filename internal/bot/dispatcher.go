package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender delivers messages and photos over the Telegram Bot API. Delivery is
// at-most-once: no retries, the deadline comes from the bot client's HTTP
// timeout set at construction.
type Sender struct {
	api *tgbotapi.BotAPI
}

func NewSender(api *tgbotapi.BotAPI) *Sender { return &Sender{api: api} }

func (s *Sender) SendText(_ context.Context, ownerID int64, text string) error {
	_, err := s.api.Send(tgbotapi.NewMessage(ownerID, text))
	return err
}

func (s *Sender) SendPhoto(_ context.Context, ownerID int64, path, caption string) error {
	ph := tgbotapi.NewPhoto(ownerID, tgbotapi.FilePath(path))
	ph.Caption = caption
	_, err := s.api.Send(ph)
	return err
}
