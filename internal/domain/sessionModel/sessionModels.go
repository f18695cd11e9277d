package sessionModel

import (
	"context"
	"errors"
	"time"
)

var (
	ErrAlreadyExists = errors.New("session already exists")
	ErrNotFound      = errors.New("session not found")
)

// Session is one request-scoped conversation state blob keyed by the caller's
// request id. Data is opaque to the service.
type Session struct {
	ReqID     string         `json:"req_id"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type SessionStore interface {
	Create(ctx context.Context, reqID string, data map[string]any) error
	Get(ctx context.Context, reqID string) (Session, error)
	Update(ctx context.Context, reqID string, data map[string]any) error
	Delete(ctx context.Context, reqID string) bool
	List(ctx context.Context, limit int, offset int) ([]Session, error)
	Count(ctx context.Context) (int64, error)
}
