package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/akolanti/DocStoreAPI/internal/config"
	"github.com/akolanti/DocStoreAPI/internal/data/redisStore"
	"github.com/akolanti/DocStoreAPI/internal/data/store"
	"github.com/akolanti/DocStoreAPI/internal/domain/sessionModel"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisSessionStore(t *testing.T) (*store.RedisSessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return store.TestSessionStore(redisStore.NewTestStore(client)), mr
}

// TestSessionStoreSemantics runs the same lifecycle against both
// implementations, the redis store and the in-memory fallback must behave
// identically.
func TestSessionStoreSemantics(t *testing.T) {
	redisSessions, _ := newRedisSessionStore(t)
	implementations := map[string]sessionModel.SessionStore{
		"redis":    redisSessions,
		"inMemory": store.InitInMemorySessionStore(),
	}

	for name, sessions := range implementations {
		t.Run(name, func(t *testing.T) {
			ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

			if err := sessions.Create(ctx, "s1", map[string]any{"topic": "golang"}); err != nil {
				t.Fatalf("Create failed: %v", err)
			}

			got, err := sessions.Get(ctx, "s1")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if got.ReqID != "s1" || got.Data["topic"] != "golang" {
				t.Errorf("session round trip mismatch: %+v", got)
			}
			if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
				t.Error("timestamps should be set on create")
			}

			if err := sessions.Create(ctx, "s1", nil); !errors.Is(err, sessionModel.ErrAlreadyExists) {
				t.Errorf("duplicate create: got %v, want ErrAlreadyExists", err)
			}

			if err := sessions.Update(ctx, "ghost", nil); !errors.Is(err, sessionModel.ErrNotFound) {
				t.Errorf("update missing: got %v, want ErrNotFound", err)
			}
			if _, err := sessions.Get(ctx, "ghost"); !errors.Is(err, sessionModel.ErrNotFound) {
				t.Errorf("get missing: got %v, want ErrNotFound", err)
			}

			// recency ordering needs distinct update times
			time.Sleep(2 * time.Millisecond)
			if err := sessions.Create(ctx, "s2", nil); err != nil {
				t.Fatalf("Create failed: %v", err)
			}
			time.Sleep(2 * time.Millisecond)
			if err := sessions.Create(ctx, "s3", nil); err != nil {
				t.Fatalf("Create failed: %v", err)
			}

			assertListOrder(t, ctx, sessions, 10, 0, []string{"s3", "s2", "s1"})

			// updating s1 makes it the most recent session
			time.Sleep(2 * time.Millisecond)
			if err := sessions.Update(ctx, "s1", map[string]any{"topic": "redis"}); err != nil {
				t.Fatalf("Update failed: %v", err)
			}
			got, err = sessions.Get(ctx, "s1")
			if err != nil || got.Data["topic"] != "redis" {
				t.Errorf("update not applied: %+v (err %v)", got, err)
			}
			assertListOrder(t, ctx, sessions, 10, 0, []string{"s1", "s3", "s2"})

			// pagination
			assertListOrder(t, ctx, sessions, 2, 0, []string{"s1", "s3"})
			assertListOrder(t, ctx, sessions, 2, 2, []string{"s2"})

			count, err := sessions.Count(ctx)
			if err != nil || count != 3 {
				t.Errorf("count = %d (err %v), want 3", count, err)
			}

			if !sessions.Delete(ctx, "s2") {
				t.Error("delete of existing session should report true")
			}
			if sessions.Delete(ctx, "s2") {
				t.Error("second delete should report false")
			}
			count, err = sessions.Count(ctx)
			if err != nil || count != 2 {
				t.Errorf("count after delete = %d (err %v), want 2", count, err)
			}
		})
	}
}

func assertListOrder(t *testing.T, ctx context.Context, sessions sessionModel.SessionStore, limit int, offset int, want []string) {
	t.Helper()
	listed, err := sessions.List(ctx, limit, offset)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(listed) != len(want) {
		t.Fatalf("got %d sessions, want %d", len(listed), len(want))
	}
	for i, session := range listed {
		if session.ReqID != want[i] {
			t.Errorf("position %d = %s, want %s", i, session.ReqID, want[i])
		}
	}
}

func TestRedisSessionStore_ExpiredSessionsPrunedFromIndex(t *testing.T) {
	sessions, mr := newRedisSessionStore(t)
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

	if err := sessions.Create(ctx, "stale", nil); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// let the session value expire, the index entry has no TTL
	mr.FastForward(config.RedisSessionStoreTTL + time.Hour)

	listed, err := sessions.List(ctx, 10, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(listed) != 0 {
		t.Errorf("expired session should not be listed, got %+v", listed)
	}

	count, err := sessions.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("index should be pruned after List, count = %d", count)
	}
}
