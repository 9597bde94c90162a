package middleware

import (
	"sync"
	"testing"
	"time"

	"github.com/futig/switch-assistant/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap/zaptest"
)

type recordingSender struct {
	mu    sync.Mutex
	texts []string
}

func (s *recordingSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		s.texts = append(s.texts, msg.Text)
	}
	return tgbotapi.Message{}, nil
}

func textUpdate(userID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: 1,
		Message: &tgbotapi.Message{
			From: &tgbotapi.User{ID: userID},
			Chat: &tgbotapi.Chat{ID: userID},
			Text: text,
		},
	}
}

func TestRateLimiter_Burst(t *testing.T) {
	sender := &recordingSender{}
	rl := NewRateLimiterMiddleware(60, 3, zaptest.NewLogger(t), sender)

	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	var handled int
	next := func(tgbotapi.Update) { handled++ }

	for i := 0; i < 5; i++ {
		rl.Handle(textUpdate(1, "q"), next)
	}
	if handled != 3 {
		t.Fatalf("handled = %d, want burst of 3", handled)
	}
	if len(sender.texts) != 1 || sender.texts[0] != render.ErrRateLimited {
		t.Errorf("warnings = %q, want one warning", sender.texts)
	}

	// another user has its own bucket
	rl.Handle(textUpdate(2, "q"), next)
	if handled != 4 {
		t.Errorf("second user was limited")
	}

	// 60 per minute refills one token per second
	now = now.Add(time.Second)
	rl.Handle(textUpdate(1, "q"), next)
	if handled != 5 {
		t.Errorf("token was not refilled")
	}
}

func TestRateLimiter_RepeatedWarning(t *testing.T) {
	sender := &recordingSender{}
	rl := NewRateLimiterMiddleware(1, 1, zaptest.NewLogger(t), sender)

	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	next := func(tgbotapi.Update) {}

	rl.Handle(textUpdate(1, "q"), next)
	rl.Handle(textUpdate(1, "q"), next)
	now = now.Add(defaultWarningInterval + time.Second)
	rl.Handle(textUpdate(1, "q"), next)

	want := []string{render.ErrRateLimited, render.ErrRateLimitedAgain}
	if len(sender.texts) != 2 || sender.texts[0] != want[0] || sender.texts[1] != want[1] {
		t.Errorf("warnings = %q, want %q", sender.texts, want)
	}
}

func TestRateLimiter_IgnoresAnonymousUpdates(t *testing.T) {
	rl := NewRateLimiterMiddleware(1, 1, zaptest.NewLogger(t), &recordingSender{})

	var handled int
	for i := 0; i < 3; i++ {
		rl.Handle(tgbotapi.Update{UpdateID: i}, func(tgbotapi.Update) { handled++ })
	}
	if handled != 3 {
		t.Errorf("handled = %d, want 3", handled)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	sender := &recordingSender{}
	m := NewRecoveryMiddleware(zaptest.NewLogger(t), sender)

	m.Handle(textUpdate(5, "boom"), func(tgbotapi.Update) {
		panic("handler exploded")
	})

	if len(sender.texts) != 1 || sender.texts[0] != render.ErrGeneric {
		t.Errorf("sent = %q, want generic error", sender.texts)
	}
}

func TestChain_Order(t *testing.T) {
	var calls []string
	mw := func(name string) Middleware {
		return middlewareFunc(func(u tgbotapi.Update, next func(tgbotapi.Update)) {
			calls = append(calls, name)
			next(u)
		})
	}

	h := Chain(func(tgbotapi.Update) { calls = append(calls, "handler") }, mw("first"), mw("second"))
	h(textUpdate(1, "q"))

	want := []string{"first", "second", "handler"}
	if len(calls) != 3 || calls[0] != want[0] || calls[1] != want[1] || calls[2] != want[2] {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

type middlewareFunc func(tgbotapi.Update, func(tgbotapi.Update))

func (f middlewareFunc) Handle(u tgbotapi.Update, next func(tgbotapi.Update)) { f(u, next) }
