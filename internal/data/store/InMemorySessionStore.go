package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/akolanti/DocStoreAPI/internal/config"
	"github.com/akolanti/DocStoreAPI/internal/domain/sessionModel"
)

type InMemorySessionStore struct {
	sessionLock *sync.RWMutex
	sessionMap  map[string]sessionModel.Session
}

func InitInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{
		sessionLock: new(sync.RWMutex),
		sessionMap:  make(map[string]sessionModel.Session),
	}
}

func (store *InMemorySessionStore) Create(ctx context.Context, reqID string, data map[string]any) error {
	store.sessionLock.Lock()
	defer store.sessionLock.Unlock()

	if _, exists := store.sessionMap[reqID]; exists {
		return sessionModel.ErrAlreadyExists
	}

	now := time.Now().UTC()
	store.sessionMap[reqID] = sessionModel.Session{
		ReqID:     reqID,
		Data:      data,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return nil
}

func (store *InMemorySessionStore) Get(ctx context.Context, reqID string) (sessionModel.Session, error) {
	store.sessionLock.RLock()
	defer store.sessionLock.RUnlock()

	session, found := store.sessionMap[reqID]
	if !found {
		return sessionModel.Session{}, sessionModel.ErrNotFound
	}
	return session, nil
}

func (store *InMemorySessionStore) Update(ctx context.Context, reqID string, data map[string]any) error {
	store.sessionLock.Lock()
	defer store.sessionLock.Unlock()

	session, found := store.sessionMap[reqID]
	if !found {
		return sessionModel.ErrNotFound
	}

	session.Data = data
	session.UpdatedAt = time.Now().UTC()
	store.sessionMap[reqID] = session
	return nil
}

func (store *InMemorySessionStore) Delete(ctx context.Context, reqID string) bool {
	store.sessionLock.Lock()
	defer store.sessionLock.Unlock()

	if _, found := store.sessionMap[reqID]; !found {
		return false
	}
	delete(store.sessionMap, reqID)
	return true
}

func (store *InMemorySessionStore) List(ctx context.Context, limit int, offset int) ([]sessionModel.Session, error) {
	if limit <= 0 {
		limit = config.DefaultSessionPageSize
	}
	if offset < 0 {
		offset = 0
	}

	store.sessionLock.RLock()
	sessions := make([]sessionModel.Session, 0, len(store.sessionMap))
	for _, session := range store.sessionMap {
		sessions = append(sessions, session)
	}
	store.sessionLock.RUnlock()

	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].UpdatedAt.Equal(sessions[j].UpdatedAt) {
			return sessions[i].ReqID < sessions[j].ReqID
		}
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})

	if offset >= len(sessions) {
		return []sessionModel.Session{}, nil
	}
	end := offset + limit
	if end > len(sessions) {
		end = len(sessions)
	}
	return sessions[offset:end], nil
}

func (store *InMemorySessionStore) Count(ctx context.Context) (int64, error) {
	store.sessionLock.RLock()
	defer store.sessionLock.RUnlock()
	return int64(len(store.sessionMap)), nil
}
