// Package middleware wraps telegram update handling with rate limiting, logging and panic recovery.
package middleware

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the part of the bot API the middlewares reply through
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// HandlerFunc processes one update
type HandlerFunc func(tgbotapi.Update)

// Middleware wraps a HandlerFunc
type Middleware interface {
	Handle(update tgbotapi.Update, next func(tgbotapi.Update))
}

// Chain applies the middlewares in order, the first one runs outermost
func Chain(final HandlerFunc, mws ...Middleware) HandlerFunc {
	h := final
	for i := len(mws) - 1; i >= 0; i-- {
		mw, next := mws[i], h
		h = func(u tgbotapi.Update) { mw.Handle(u, next) }
	}
	return h
}

// origin extracts who sent the update. ok is false for update kinds the bot ignores.
func origin(update tgbotapi.Update) (userID, chatID int64, ok bool) {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID, update.Message.Chat.ID, true
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		return update.CallbackQuery.From.ID, update.CallbackQuery.Message.Chat.ID, true
	default:
		return 0, 0, false
	}
}

func updateKind(update tgbotapi.Update) string {
	switch {
	case update.CallbackQuery != nil:
		return "callback"
	case update.Message == nil:
		return "other"
	case update.Message.IsCommand():
		return "command"
	case update.Message.Document != nil:
		return "document"
	case update.Message.Text != "":
		return "text"
	default:
		return "other"
	}
}
