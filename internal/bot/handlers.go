package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/yourname/bday-bot/internal/content"
	"github.com/yourname/bday-bot/internal/repo"
	"github.com/yourname/bday-bot/internal/session"
)

// Single-shot buttons handled by the router itself; they never open a
// session, so they only fire when the session manager leaves the text
// unhandled.
const (
	BtnGiftIdea = "Идея подарка"
	BtnImage    = "Картинка"
)

// Handler routes inbound updates: in-flow text goes to the session manager,
// idle text is interpreted as a top-level command, anything else is ignored
// silently.
type Handler struct {
	api      *tgbotapi.BotAPI
	users    *repo.Users
	sessions *session.Manager
	content  *content.Library
	log      zerolog.Logger
}

func NewHandler(api *tgbotapi.BotAPI, users *repo.Users, sessions *session.Manager, lib *content.Library, log zerolog.Logger) *Handler {
	return &Handler{api: api, users: users, sessions: sessions, content: lib, log: log}
}

func (h *Handler) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message == nil {
		return
	}
	msg := upd.Message
	// личка only
	if !msg.Chat.IsPrivate() {
		return
	}

	ownerID := msg.Chat.ID
	if _, err := h.users.Upsert(ctx, msg.From.ID, optional(msg.From.UserName), optional(msg.From.FirstName), optional(msg.From.LastName)); err != nil {
		h.log.Error().Err(err).Int64("owner", ownerID).Msg("upsert user")
		return
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	if strings.HasPrefix(text, "/start") {
		greet := tgbotapi.NewMessage(ownerID, "Привет! Это бот с напоминаниями о днях рождения. Выбери действие:")
		greet.ReplyMarkup = mainKeyboard()
		if _, err := h.api.Send(greet); err != nil {
			h.log.Error().Err(err).Int64("owner", ownerID).Msg("send greeting")
		}
		return
	}

	handled, err := h.sessions.HandleMessage(ctx, ownerID, text)
	if err != nil {
		h.log.Error().Err(err).Int64("owner", ownerID).Msg("session")
	}
	if handled {
		return
	}

	switch text {
	case BtnGiftIdea:
		h.reply(ownerID, h.content.GiftIdea())
	case BtnImage:
		h.sendPostcard(ownerID)
	default:
		// unrecognized idle text: stay silent
	}
}

func (h *Handler) sendPostcard(ownerID int64) {
	path, ok := h.content.RandomImage()
	if !ok {
		h.reply(ownerID, "Картинки не найдены. Загрузи их в папку images/")
		return
	}
	ph := tgbotapi.NewPhoto(ownerID, tgbotapi.FilePath(path))
	ph.Caption = "Поздравительная открытка!"
	if _, err := h.api.Send(ph); err != nil {
		h.log.Error().Err(err).Int64("owner", ownerID).Msg("send postcard")
	}
}

func (h *Handler) reply(ownerID int64, text string) {
	if _, err := h.api.Send(tgbotapi.NewMessage(ownerID, text)); err != nil {
		h.log.Error().Err(err).Int64("owner", ownerID).Msg("reply")
	}
}

func mainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(session.BtnAdd),
			tgbotapi.NewKeyboardButton(session.BtnList),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(session.BtnEdit),
			tgbotapi.NewKeyboardButton(session.BtnDelete),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(session.BtnCongratulate),
			tgbotapi.NewKeyboardButton(BtnGiftIdea),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnImage),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
