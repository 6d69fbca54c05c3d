package contract

import (
	"context"
	"errors"

	"ai-interview-coach-be/internal/entity"

	"github.com/google/uuid"
)

// ErrVersionConflict is returned by Replace when the stored session has moved
// past the caller's expected version.
var ErrVersionConflict = errors.New("session version conflict")

// SessionStore persists interview sessions as whole documents. Get returns
// (nil, nil) when the session does not exist. Replace swaps the full record
// only if the stored version still equals expectedVersion, bumping Version by
// one on success.
type SessionStore interface {
	Create(ctx context.Context, session *entity.InterviewSession) error
	Get(ctx context.Context, id uuid.UUID) (*entity.InterviewSession, error)
	Replace(ctx context.Context, session *entity.InterviewSession, expectedVersion int64) error
	FindByUser(ctx context.Context, userId uuid.UUID) ([]*entity.InterviewSession, error)
}
