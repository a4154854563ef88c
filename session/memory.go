package session

import (
	"context"
	"sync"
)

// MemoryStore keeps the session in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	session *Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) SaveLogin(_ context.Context, userID, accountName, countryCode string) error {
	if userID == "" {
		return ErrEmptyUserID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = &Session{
		UserID:      userID,
		AccountName: accountName,
		CountryCode: countryCode,
		LoggedIn:    true,
	}
	return nil
}

func (m *MemoryStore) MarkLogout(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		m.session = &Session{}
	}
	m.session.LoggedIn = false
	return nil
}

func (m *MemoryStore) ClearAll(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	return nil
}

func (m *MemoryStore) Load(context.Context) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return nil, ErrNoSession
	}
	cp := *m.session
	return &cp, nil
}
