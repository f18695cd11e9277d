package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/akolanti/DocStoreAPI/internal/config"
	"github.com/akolanti/DocStoreAPI/internal/data/redisStore"
	"github.com/akolanti/DocStoreAPI/internal/domain/sessionModel"
	"github.com/akolanti/DocStoreAPI/pkg/logger_i"
)

// sessionIndexKey is the sorted set ordering session ids by last update.
// Session values expire with the TTL, index entries are pruned on List.
const sessionIndexKey = "sessions:index"

type RedisSessionStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisSessionStore(ctx context.Context) *RedisSessionStore {
	backing := redisStore.GetRedisStore(ctx, config.RedisSessionStore)
	if backing == nil {
		return nil
	}
	return &RedisSessionStore{
		store:  backing,
		logger: logger_i.NewLogger("SessionStore"),
	}
}

func sessionKey(reqID string) string {
	return "session:" + reqID
}

func (s *RedisSessionStore) Create(ctx context.Context, reqID string, data map[string]any) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "reqId", reqID)

	exists, err := s.store.Exists(ctx, sessionKey(reqID))
	if err != nil {
		log.Error("Failed to check session existence", "error", err)
		return err
	}
	if exists {
		return sessionModel.ErrAlreadyExists
	}

	now := time.Now().UTC()
	session := sessionModel.Session{
		ReqID:     reqID,
		Data:      data,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.save(ctx, session); err != nil {
		log.Error("Failed to save session", "error", err)
		return err
	}
	log.Debug("Session created")
	return nil
}

func (s *RedisSessionStore) Get(ctx context.Context, reqID string) (sessionModel.Session, error) {
	var session sessionModel.Session

	val, err := s.store.Get(ctx, sessionKey(reqID))
	if s.store.IsNil(err) {
		return session, sessionModel.ErrNotFound
	} else if err != nil {
		return session, err
	}

	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return session, err
	}
	return session, nil
}

func (s *RedisSessionStore) Update(ctx context.Context, reqID string, data map[string]any) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "reqId", reqID)

	session, err := s.Get(ctx, reqID)
	if err != nil {
		return err
	}

	session.Data = data
	session.UpdatedAt = time.Now().UTC()
	if err := s.save(ctx, session); err != nil {
		log.Error("Failed to update session", "error", err)
		return err
	}
	log.Debug("Session updated")
	return nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, reqID string) bool {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "reqId", reqID)

	exists, err := s.store.Exists(ctx, sessionKey(reqID))
	if err != nil {
		log.Error("Failed to check session existence", "error", err)
		return false
	}
	if !exists {
		return false
	}

	if err := s.store.Del(ctx, sessionKey(reqID)); err != nil {
		log.Error("Failed to delete session", "error", err)
		return false
	}
	if err := s.store.ZRem(ctx, sessionIndexKey, reqID); err != nil {
		log.Warn("Failed to update session index", "error", err)
	}
	log.Debug("Session deleted")
	return true
}

func (s *RedisSessionStore) List(ctx context.Context, limit int, offset int) ([]sessionModel.Session, error) {
	if limit <= 0 {
		limit = config.DefaultSessionPageSize
	}
	if offset < 0 {
		offset = 0
	}

	ids, err := s.store.ZRevRange(ctx, sessionIndexKey, int64(offset), int64(offset+limit-1))
	if err != nil {
		return nil, err
	}

	sessions := make([]sessionModel.Session, 0, len(ids))
	for _, id := range ids {
		session, err := s.Get(ctx, id)
		if err != nil {
			if errors.Is(err, sessionModel.ErrNotFound) {
				// value expired but the index entry survived
				if remErr := s.store.ZRem(ctx, sessionIndexKey, id); remErr != nil {
					s.logger.Warn("Failed to prune expired session from index", "reqId", id, "error", remErr)
				}
				continue
			}
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

func (s *RedisSessionStore) Count(ctx context.Context) (int64, error) {
	return s.store.ZCard(ctx, sessionIndexKey)
}

func (s *RedisSessionStore) save(ctx context.Context, session sessionModel.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, sessionKey(session.ReqID), payload, config.RedisSessionStoreTTL); err != nil {
		return err
	}
	return s.store.ZAdd(ctx, sessionIndexKey, float64(session.UpdatedAt.UnixNano()), session.ReqID)
}

func TestSessionStore(store *redisStore.Store) *RedisSessionStore {
	return &RedisSessionStore{
		store:  store,
		logger: logger_i.NewLogger("test redis"),
	}
}
