package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/futig/switch-assistant/internal/entity"
)

// Manager serializes state updates per chat on top of a Storage
type Manager struct {
	storage Storage
	locks   sync.Map // chatID -> *sync.Mutex
}

// NewManager creates a new state manager
func NewManager(storage Storage) *Manager {
	return &Manager{storage: storage}
}

// Get returns the chat state, or a fresh state with the default test type
func (m *Manager) Get(ctx context.Context, chatID int64) (*ChatState, error) {
	st, err := m.storage.Get(ctx, chatID)
	if errors.Is(err, ErrStateNotFound) {
		return &ChatState{ChatID: chatID, TestType: entity.DefaultTestType}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get chat state: %w", err)
	}
	return st, nil
}

// Update loads the chat state, applies fn and saves the result.
// Concurrent updates of the same chat run one after another.
func (m *Manager) Update(ctx context.Context, chatID int64, fn func(st *ChatState) error) (*ChatState, error) {
	mu := m.lock(chatID)
	mu.Lock()
	defer mu.Unlock()

	st, err := m.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if err := fn(st); err != nil {
		return nil, err
	}

	st.UpdatedAt = time.Now()
	if err := m.storage.Set(ctx, st); err != nil {
		return nil, fmt.Errorf("save chat state: %w", err)
	}

	return st, nil
}

// Delete forgets the chat
func (m *Manager) Delete(ctx context.Context, chatID int64) error {
	mu := m.lock(chatID)
	mu.Lock()
	defer mu.Unlock()

	if err := m.storage.Delete(ctx, chatID); err != nil {
		return fmt.Errorf("delete chat state: %w", err)
	}
	return nil
}

// TakePendingFiles returns the attached documents and clears them
func (m *Manager) TakePendingFiles(ctx context.Context, chatID int64) ([]entity.FileData, *ChatState, error) {
	var files []entity.FileData
	st, err := m.Update(ctx, chatID, func(st *ChatState) error {
		files = st.PendingFiles
		st.PendingFiles = nil
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return files, st, nil
}

func (m *Manager) lock(chatID int64) *sync.Mutex {
	mu, _ := m.locks.LoadOrStore(chatID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
