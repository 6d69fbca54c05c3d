package memory

import (
	"context"
	"testing"

	"ai-interview-coach-be/internal/entity"
	"ai-interview-coach-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(userId uuid.UUID) *entity.InterviewSession {
	return &entity.InterviewSession{
		Id:              uuid.New(),
		UserId:          userId,
		Role:            "Backend Engineer",
		JobDescription:  "Build and operate Go services.",
		ResumeText:      "Five years of Go and Postgres.",
		CurrentQuestion: "Tell me about yourself.",
		QuestionsAsked:  []string{"Tell me about yourself."},
		Status:          entity.SessionStatusActive,
	}
}

func TestSessionStore_CreateAndGet(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	session := newSession(uuid.New())
	require.NoError(t, store.Create(ctx, session))
	assert.Equal(t, int64(1), session.Version)

	got, err := store.Get(ctx, session.Id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, session.Id, got.Id)
	assert.Equal(t, entity.SessionStatusActive, got.Status)
}

func TestSessionStore_GetMissing(t *testing.T) {
	store := NewSessionStore()

	got, err := store.Get(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionStore_ReplaceBumpsVersion(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	session := newSession(uuid.New())
	require.NoError(t, store.Create(ctx, session))

	session.Responses = append(session.Responses, "I am a backend engineer.")
	require.NoError(t, store.Replace(ctx, session, 1))
	assert.Equal(t, int64(2), session.Version)

	got, err := store.Get(ctx, session.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Version)
	assert.Len(t, got.Responses, 1)
}

func TestSessionStore_ReplaceStaleVersion(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	session := newSession(uuid.New())
	require.NoError(t, store.Create(ctx, session))
	require.NoError(t, store.Replace(ctx, session, 1))

	stale := newSession(session.UserId)
	stale.Id = session.Id
	err := store.Replace(ctx, stale, 1)
	assert.ErrorIs(t, err, contract.ErrVersionConflict)
}

func TestSessionStore_ReplaceMissing(t *testing.T) {
	store := NewSessionStore()

	err := store.Replace(context.Background(), newSession(uuid.New()), 1)
	assert.ErrorIs(t, err, contract.ErrVersionConflict)
}

func TestSessionStore_GetReturnsCopy(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	session := newSession(uuid.New())
	require.NoError(t, store.Create(ctx, session))

	first, err := store.Get(ctx, session.Id)
	require.NoError(t, err)
	first.Responses = append(first.Responses, "mutated")

	second, err := store.Get(ctx, session.Id)
	require.NoError(t, err)
	assert.Empty(t, second.Responses)
}

func TestSessionStore_FindByUser(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	owner := uuid.New()
	require.NoError(t, store.Create(ctx, newSession(owner)))
	require.NoError(t, store.Create(ctx, newSession(owner)))
	require.NoError(t, store.Create(ctx, newSession(uuid.New())))

	sessions, err := store.FindByUser(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}
