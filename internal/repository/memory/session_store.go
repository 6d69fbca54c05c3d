package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"ai-interview-coach-be/internal/entity"
	"ai-interview-coach-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// SessionStore keeps interview sessions in process memory. Useful for local
// development and tests where Postgres is not available. Sessions expire
// after 24 hours of inactivity.
type SessionStore struct {
	cache *cache.Cache
	mu    sync.Mutex
}

func NewSessionStore() *SessionStore {
	c := cache.New(24*time.Hour, 1*time.Hour)
	return &SessionStore{
		cache: c,
	}
}

var _ contract.SessionStore = (*SessionStore)(nil)

// clone guards callers from mutating the stored copy in place.
func clone(s *entity.InterviewSession) *entity.InterviewSession {
	c := *s
	c.QuestionsAsked = append([]string(nil), s.QuestionsAsked...)
	c.Responses = append([]string(nil), s.Responses...)
	c.Scores = append([]float64(nil), s.Scores...)
	c.Feedback = append([]string(nil), s.Feedback...)
	c.History = append([]entity.InterviewTurn(nil), s.History...)
	return &c
}

func (r *SessionStore) Create(ctx context.Context, session *entity.InterviewSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	session.Version = 1
	session.CreatedAt = now
	session.UpdatedAt = now
	r.cache.Set(session.Id.String(), clone(session), cache.DefaultExpiration)
	return nil
}

func (r *SessionStore) Get(ctx context.Context, id uuid.UUID) (*entity.InterviewSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	x, found := r.cache.Get(id.String())
	if !found {
		return nil, nil
	}
	return clone(x.(*entity.InterviewSession)), nil
}

func (r *SessionStore) Replace(ctx context.Context, session *entity.InterviewSession, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	x, found := r.cache.Get(session.Id.String())
	if !found {
		return contract.ErrVersionConflict
	}
	if x.(*entity.InterviewSession).Version != expectedVersion {
		return contract.ErrVersionConflict
	}

	session.Version = expectedVersion + 1
	session.UpdatedAt = time.Now().UTC()
	r.cache.Set(session.Id.String(), clone(session), cache.DefaultExpiration)
	return nil
}

func (r *SessionStore) FindByUser(ctx context.Context, userId uuid.UUID) ([]*entity.InterviewSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var sessions []*entity.InterviewSession
	for _, item := range r.cache.Items() {
		s := item.Object.(*entity.InterviewSession)
		if s.UserId == userId {
			sessions = append(sessions, clone(s))
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
	return sessions, nil
}
