package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/futig/switch-assistant/internal/conversation"
	"github.com/futig/switch-assistant/internal/entity"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// SessionRepository defines the interface for chat session storage
type SessionRepository interface {
	CreateSession(ctx context.Context, session entity.Session) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)
	Conversation(ctx context.Context, id string) (*conversation.Store, error)
	Touch(ctx context.Context, id string) error
	DeleteSession(ctx context.Context, id string) error
}

var _ SessionRepository = &SessionMemory{}

type sessionEntry struct {
	session      entity.Session
	conversation *conversation.Store
}

// SessionMemory keeps sessions and their conversations in process memory.
// A session expires after ttl without activity.
type SessionMemory struct {
	cache  *cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

func NewSessionMemory(ttl, cleanupInterval time.Duration, logger *zap.Logger) *SessionMemory {
	c := cache.New(ttl, cleanupInterval)
	c.OnEvicted(func(id string, v interface{}) {
		entry, ok := v.(*sessionEntry)
		if !ok {
			return
		}
		logger.Info("session discarded",
			zap.String("session_id", id),
			zap.Int("exchanges", entry.conversation.Len()),
			zap.Time("last_activity_at", entry.session.LastActivityAt),
		)
	})

	return &SessionMemory{
		cache:  c,
		ttl:    ttl,
		logger: logger,
	}
}

func (r *SessionMemory) CreateSession(_ context.Context, session entity.Session) (*entity.Session, error) {
	if session.ID == "" {
		return nil, fmt.Errorf("create session: %w: id", entity.ErrMissingField)
	}

	now := time.Now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.LastActivityAt = now

	entry := &sessionEntry{
		session:      session,
		conversation: conversation.NewStore(),
	}
	if err := r.cache.Add(session.ID, entry, cache.DefaultExpiration); err != nil {
		return nil, fmt.Errorf("create session %s: %w", session.ID, err)
	}

	return &session, nil
}

func (r *SessionMemory) GetSession(_ context.Context, id string) (*entity.Session, error) {
	entry, err := r.get(id)
	if err != nil {
		return nil, err
	}

	session := entry.session
	return &session, nil
}

// Conversation returns the live conversation store of the session
func (r *SessionMemory) Conversation(_ context.Context, id string) (*conversation.Store, error) {
	entry, err := r.get(id)
	if err != nil {
		return nil, err
	}

	return entry.conversation, nil
}

// Touch marks the session as active and restarts its expiration
func (r *SessionMemory) Touch(_ context.Context, id string) error {
	entry, err := r.get(id)
	if err != nil {
		return err
	}

	touched := &sessionEntry{
		session:      entry.session,
		conversation: entry.conversation,
	}
	touched.session.LastActivityAt = time.Now()

	if err := r.cache.Replace(id, touched, cache.DefaultExpiration); err != nil {
		return fmt.Errorf("touch session %s: %w", id, entity.ErrSessionNotFound)
	}

	return nil
}

func (r *SessionMemory) DeleteSession(_ context.Context, id string) error {
	if _, err := r.get(id); err != nil {
		return err
	}

	r.cache.Delete(id)
	return nil
}

// Count returns the number of live sessions, expired ones not yet cleaned up included
func (r *SessionMemory) Count() int {
	return r.cache.ItemCount()
}

func (r *SessionMemory) get(id string) (*sessionEntry, error) {
	v, found := r.cache.Get(id)
	if !found {
		return nil, fmt.Errorf("session %s: %w", id, entity.ErrSessionNotFound)
	}

	entry, ok := v.(*sessionEntry)
	if !ok {
		return nil, fmt.Errorf("session %s: unexpected cache entry %T", id, v)
	}

	return entry, nil
}
