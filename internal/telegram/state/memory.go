package state

import (
	"context"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStorage keeps chat state in process memory. Idle chats expire after ttl.
type MemoryStorage struct {
	cache *cache.Cache
	ttl   time.Duration
}

func NewMemoryStorage(ttl time.Duration) *MemoryStorage {
	return &MemoryStorage{
		cache: cache.New(ttl, ttl/2),
		ttl:   ttl,
	}
}

func (s *MemoryStorage) Get(_ context.Context, chatID int64) (*ChatState, error) {
	v, ok := s.cache.Get(key(chatID))
	if !ok {
		return nil, ErrStateNotFound
	}

	st := *v.(*ChatState)
	st.PendingFiles = append(st.PendingFiles[:0:0], st.PendingFiles...)
	return &st, nil
}

func (s *MemoryStorage) Set(_ context.Context, st *ChatState) error {
	stored := *st
	stored.PendingFiles = append(st.PendingFiles[:0:0], st.PendingFiles...)
	s.cache.Set(key(st.ChatID), &stored, s.ttl)
	return nil
}

func (s *MemoryStorage) Delete(_ context.Context, chatID int64) error {
	s.cache.Delete(key(chatID))
	return nil
}

func key(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}
