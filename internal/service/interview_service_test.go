package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ai-interview-coach-be/internal/dto"
	"ai-interview-coach-be/internal/entity"
	"ai-interview-coach-be/internal/pkg/apperror"
	"ai-interview-coach-be/internal/repository/memory"
	"ai-interview-coach-be/pkg/agent"
	"ai-interview-coach-be/pkg/blob"
	"ai-interview-coach-be/pkg/extractor"
	"ai-interview-coach-be/pkg/limiter"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakeGenerator struct {
	questions     int
	score         float64
	feedback      string
	feedbackScore float64
}

func (g *fakeGenerator) GenerateQuestion(ctx context.Context, sc agent.SessionContext) (string, error) {
	g.questions++
	return fmt.Sprintf("Question %d?", g.questions), nil
}

func (g *fakeGenerator) ScoreResponse(ctx context.Context, sc agent.SessionContext, question, response string) (float64, error) {
	return g.score, nil
}

func (g *fakeGenerator) GenerateFeedback(ctx context.Context, sc agent.SessionContext, question, response string, score float64) (string, error) {
	g.feedbackScore = score
	return g.feedback, nil
}

type fakeExtractor struct{}

func (fakeExtractor) ExtractText(ctx context.Context, src extractor.Source) (string, error) {
	return extractor.Normalize(string(src.Data)), nil
}

func newTestService(t *testing.T) (IInterviewService, *memory.SessionStore, *fakeGenerator, string) {
	t.Helper()
	store := memory.NewSessionStore()
	gen := &fakeGenerator{score: 0.8, feedback: "Solid answer."}
	dir := t.TempDir()
	svc := NewInterviewService(
		store,
		gen,
		fakeExtractor{},
		blob.NewLocalStore(dir, "http://localhost:3000"),
		limiter.NewDailyLimiter(nil, 0),
		nil,
		"SESSION_COMPLETED",
		nil,
		nil,
		nopLogger{},
	)
	return svc, store, gen, dir
}

func startRequest() *dto.StartSessionRequest {
	resume := strings.Repeat("Experienced Go engineer with Postgres and Redis. ", 3)
	return &dto.StartSessionRequest{
		Role:           "Backend Engineer",
		JobDescription: "Design and operate Go services in production.",
		Resume:         base64.StdEncoding.EncodeToString([]byte(resume)),
		ResumeName:     "resume.txt",
	}
}

func TestStartSession(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	userId := uuid.New()

	resp, err := svc.StartSession(context.Background(), userId, startRequest())
	require.NoError(t, err)
	assert.Equal(t, "Question 1?", resp.Question)

	session, err := store.Get(context.Background(), resp.SessionId)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, entity.SessionStatusActive, session.Status)
	assert.Equal(t, []string{"Question 1?"}, session.QuestionsAsked)
	assert.Empty(t, session.Responses)
}

func TestStartSession_BadBase64(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	req := startRequest()
	req.Resume = "not-base64!!!"
	_, err := svc.StartSession(context.Background(), uuid.New(), req)
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestSubmitResponse(t *testing.T) {
	svc, store, gen, _ := newTestService(t)
	userId := uuid.New()
	ctx := context.Background()

	started, err := svc.StartSession(ctx, userId, startRequest())
	require.NoError(t, err)

	resp, err := svc.SubmitResponse(ctx, userId, started.SessionId, &dto.SubmitResponseRequest{
		Response: "I would reach for pprof first.",
	})
	require.NoError(t, err)
	assert.Equal(t, "Question 2?", resp.NextQuestion)
	assert.InDelta(t, 0.8, resp.Score, 0.001)
	assert.Equal(t, "Solid answer.", resp.Feedback)
	assert.InDelta(t, 0.8, gen.feedbackScore, 0.001)

	session, err := store.Get(ctx, started.SessionId)
	require.NoError(t, err)
	assert.Len(t, session.QuestionsAsked, 2)
	assert.Len(t, session.Responses, 1)
	assert.Len(t, session.Scores, 1)
	assert.Len(t, session.Feedback, 1)
	assert.Len(t, session.History, 1)
	assert.Equal(t, "Question 2?", session.CurrentQuestion)
}

func TestSubmitResponse_ParallelArraysStayAligned(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	userId := uuid.New()
	ctx := context.Background()

	started, err := svc.StartSession(ctx, userId, startRequest())
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		_, err := svc.SubmitResponse(ctx, userId, started.SessionId, &dto.SubmitResponseRequest{
			Response: fmt.Sprintf("Answer %d.", i+1),
		})
		require.NoError(t, err)
	}

	session, err := store.Get(ctx, started.SessionId)
	require.NoError(t, err)
	n := len(session.Responses)
	assert.Equal(t, 4, n)
	assert.Len(t, session.Scores, n)
	assert.Len(t, session.Feedback, n)
	assert.Len(t, session.History, n)
	assert.Len(t, session.QuestionsAsked, n+1)
}

func TestSubmitResponse_NotFound(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.SubmitResponse(context.Background(), uuid.New(), uuid.New(), &dto.SubmitResponseRequest{Response: "hi"})
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestSubmitResponse_WrongOwner(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	started, err := svc.StartSession(ctx, uuid.New(), startRequest())
	require.NoError(t, err)

	_, err = svc.SubmitResponse(ctx, uuid.New(), started.SessionId, &dto.SubmitResponseRequest{Response: "hi"})
	require.Error(t, err)
	assert.Equal(t, apperror.KindAuthorization, apperror.KindOf(err))
}

func TestSubmitResponse_CompletedSession(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	userId := uuid.New()
	ctx := context.Background()

	started, err := svc.StartSession(ctx, userId, startRequest())
	require.NoError(t, err)
	_, err = svc.EndSession(ctx, userId, started.SessionId)
	require.NoError(t, err)

	_, err = svc.SubmitResponse(ctx, userId, started.SessionId, &dto.SubmitResponseRequest{Response: "too late"})
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestEndSession(t *testing.T) {
	svc, store, _, dir := newTestService(t)
	userId := uuid.New()
	ctx := context.Background()

	started, err := svc.StartSession(ctx, userId, startRequest())
	require.NoError(t, err)
	_, err = svc.SubmitResponse(ctx, userId, started.SessionId, &dto.SubmitResponseRequest{Response: "First answer."})
	require.NoError(t, err)

	ended, err := svc.EndSession(ctx, userId, started.SessionId)
	require.NoError(t, err)
	assert.Equal(t, "completed", ended.Status)
	assert.InDelta(t, 0.8, ended.AverageScore, 0.001)
	assert.NotEmpty(t, ended.AnalysisURL)

	require.NotNil(t, ended.Analysis)
	assert.Len(t, ended.Analysis.Questions, 2)
	assert.Equal(t, []string{"First answer."}, ended.Analysis.Responses)
	assert.Equal(t, []float64{0.8}, ended.Analysis.Scores)
	assert.Equal(t, []string{"Solid answer."}, ended.Analysis.Feedback)
	assert.InDelta(t, 0.8, ended.Analysis.AverageScore, 0.001)

	raw, err := os.ReadFile(filepath.Join(dir, "analysis", started.SessionId.String()+".json"))
	require.NoError(t, err)
	var analysis entity.Analysis
	require.NoError(t, json.Unmarshal(raw, &analysis))
	assert.Len(t, analysis.Questions, 2)
	assert.Len(t, analysis.Responses, 1)
	assert.InDelta(t, 0.8, analysis.AverageScore, 0.001)

	session, err := store.Get(ctx, started.SessionId)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionStatusCompleted, session.Status)
	assert.Equal(t, ended.AnalysisURL, session.AnalysisURL)
}

func TestEndSession_NoResponses(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	userId := uuid.New()
	ctx := context.Background()

	started, err := svc.StartSession(ctx, userId, startRequest())
	require.NoError(t, err)

	ended, err := svc.EndSession(ctx, userId, started.SessionId)
	require.NoError(t, err)
	assert.Zero(t, ended.AverageScore)
}

func TestEndSession_Idempotent(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	userId := uuid.New()
	ctx := context.Background()

	started, err := svc.StartSession(ctx, userId, startRequest())
	require.NoError(t, err)

	first, err := svc.EndSession(ctx, userId, started.SessionId)
	require.NoError(t, err)
	second, err := svc.EndSession(ctx, userId, started.SessionId)
	require.NoError(t, err)
	assert.Equal(t, first.AnalysisURL, second.AnalysisURL)
	assert.Equal(t, "completed", second.Status)
	require.NotNil(t, second.Analysis)
	assert.Equal(t, first.Analysis.Questions, second.Analysis.Questions)
	assert.Equal(t, first.AverageScore, second.AverageScore)
}

func TestGetSession_HidesQuestionWhenCompleted(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	userId := uuid.New()
	ctx := context.Background()

	started, err := svc.StartSession(ctx, userId, startRequest())
	require.NoError(t, err)

	got, err := svc.GetSession(ctx, userId, started.SessionId)
	require.NoError(t, err)
	assert.Equal(t, "Question 1?", got.CurrentQuestion)

	_, err = svc.EndSession(ctx, userId, started.SessionId)
	require.NoError(t, err)

	got, err = svc.GetSession(ctx, userId, started.SessionId)
	require.NoError(t, err)
	assert.Empty(t, got.CurrentQuestion)
	assert.NotEmpty(t, got.AnalysisURL)
}

func TestListSessions(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	userId := uuid.New()
	ctx := context.Background()

	_, err := svc.StartSession(ctx, userId, startRequest())
	require.NoError(t, err)
	_, err = svc.StartSession(ctx, userId, startRequest())
	require.NoError(t, err)
	_, err = svc.StartSession(ctx, uuid.New(), startRequest())
	require.NoError(t, err)

	sessions, err := svc.ListSessions(ctx, userId)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}
