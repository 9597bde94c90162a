package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/futig/switch-assistant/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	inactiveUserTTL        = time.Hour
	defaultWarningInterval = 30 * time.Second
)

// userLimit tracks rate limit state for a single user
type userLimit struct {
	mu            sync.Mutex
	tokens        float64
	lastRefill    time.Time
	warningsSent  int
	lastWarningAt time.Time
}

// RateLimiterMiddleware implements token bucket rate limiting per user.
// Buckets of users idle for an hour are evicted by the cache janitor.
type RateLimiterMiddleware struct {
	limits          *cache.Cache
	maxTokens       float64 // bucket capacity, the allowed burst
	refillRate      float64 // tokens added per second
	warningInterval time.Duration
	logger          *zap.Logger
	sender          Sender
	now             func() time.Time
}

// NewRateLimiterMiddleware creates a new rate limiter middleware
func NewRateLimiterMiddleware(
	requestsPerMinute int,
	burstSize int,
	logger *zap.Logger,
	sender Sender,
) *RateLimiterMiddleware {
	return &RateLimiterMiddleware{
		limits:          cache.New(inactiveUserTTL, 10*time.Minute),
		maxTokens:       float64(burstSize),
		refillRate:      float64(requestsPerMinute) / 60.0,
		warningInterval: defaultWarningInterval,
		logger:          logger,
		sender:          sender,
		now:             time.Now,
	}
}

// Handle processes the update through rate limiting
func (rl *RateLimiterMiddleware) Handle(update tgbotapi.Update, next func(tgbotapi.Update)) {
	userID, chatID, ok := origin(update)
	if !ok {
		next(update)
		return
	}

	if !rl.allowRequest(userID, chatID) {
		rl.logger.Warn("rate limit exceeded",
			zap.Int64("user_id", userID),
			zap.Int64("chat_id", chatID),
		)
		return
	}

	next(update)
}

// allowRequest checks if request is allowed under rate limit
func (rl *RateLimiterMiddleware) allowRequest(userID, chatID int64) bool {
	limit := rl.bucket(userID)

	limit.mu.Lock()
	defer limit.mu.Unlock()

	now := rl.now()

	elapsed := now.Sub(limit.lastRefill).Seconds()
	limit.tokens += elapsed * rl.refillRate
	if limit.tokens > rl.maxTokens {
		limit.tokens = rl.maxTokens
	}
	limit.lastRefill = now

	if limit.tokens >= 1.0 {
		limit.tokens -= 1.0
		limit.warningsSent = 0
		return true
	}

	if now.Sub(limit.lastWarningAt) > rl.warningInterval {
		limit.warningsSent++
		limit.lastWarningAt = now

		rl.sendRateLimitWarning(chatID, limit.warningsSent)
	}

	return false
}

// bucket returns the user's bucket and extends its lifetime
func (rl *RateLimiterMiddleware) bucket(userID int64) *userLimit {
	key := strconv.FormatInt(userID, 10)

	fresh := &userLimit{tokens: rl.maxTokens, lastRefill: rl.now()}
	if err := rl.limits.Add(key, fresh, cache.DefaultExpiration); err == nil {
		return fresh
	}

	v, ok := rl.limits.Get(key)
	if !ok {
		// evicted between Add and Get
		rl.limits.Set(key, fresh, cache.DefaultExpiration)
		return fresh
	}

	limit := v.(*userLimit)
	rl.limits.Set(key, limit, cache.DefaultExpiration)
	return limit
}

// sendRateLimitWarning sends a warning message to the user
func (rl *RateLimiterMiddleware) sendRateLimitWarning(chatID int64, warningCount int) {
	text := render.ErrRateLimited
	if warningCount > 1 {
		text = render.ErrRateLimitedAgain
	}

	if _, err := rl.sender.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		rl.logger.Error("failed to send rate limit warning",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}
