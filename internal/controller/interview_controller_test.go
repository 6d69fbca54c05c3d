package controller

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ai-interview-coach-be/internal/dto"
	"ai-interview-coach-be/internal/pkg/serverutils"
	"ai-interview-coach-be/internal/repository/memory"
	"ai-interview-coach-be/internal/service"
	"ai-interview-coach-be/pkg/agent"
	"ai-interview-coach-be/pkg/blob"
	"ai-interview-coach-be/pkg/extractor"
	"ai-interview-coach-be/pkg/limiter"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
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
	questions int
}

func (g *fakeGenerator) GenerateQuestion(ctx context.Context, sc agent.SessionContext) (string, error) {
	g.questions++
	return fmt.Sprintf("Question %d?", g.questions), nil
}

func (g *fakeGenerator) ScoreResponse(ctx context.Context, sc agent.SessionContext, question, response string) (float64, error) {
	return 0.75, nil
}

func (g *fakeGenerator) GenerateFeedback(ctx context.Context, sc agent.SessionContext, question, response string, score float64) (string, error) {
	return "Clear and concise.", nil
}

type fakeExtractor struct{}

func (fakeExtractor) ExtractText(ctx context.Context, src extractor.Source) (string, error) {
	return extractor.Normalize(string(src.Data)), nil
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	svc := service.NewInterviewService(
		memory.NewSessionStore(),
		&fakeGenerator{},
		fakeExtractor{},
		blob.NewLocalStore(t.TempDir(), "http://localhost:3000"),
		limiter.NewDailyLimiter(nil, 0),
		nil,
		"SESSION_COMPLETED",
		nil,
		nil,
		nopLogger{},
	)

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewInterviewController(svc).RegisterRoutes(app.Group("/api"))
	return app
}

func authHeader(t *testing.T, userId uuid.UUID) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": userId.String(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("default_secret"))
	require.NoError(t, err)
	return "Bearer " + signed
}

func startSessionBody() string {
	resume := base64.StdEncoding.EncodeToString([]byte("Five years building Go services with Postgres and Redis."))
	body, _ := json.Marshal(dto.StartSessionRequest{
		Role:           "Backend Engineer",
		JobDescription: "Design and operate Go services in production.",
		Resume:         resume,
		ResumeName:     "resume.txt",
	})
	return string(body)
}

func doJSON(t *testing.T, app *fiber.App, method, url, token, body string) *http.Response {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeData(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.True(t, envelope.Success)
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func TestInterviewRoutes_Unauthorized(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/interview/v1/sessions", "", startSessionBody())
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestInterviewRoutes_FullFlow(t *testing.T) {
	app := newTestApp(t)
	token := authHeader(t, uuid.New())

	// Start
	resp := doJSON(t, app, http.MethodPost, "/api/interview/v1/sessions", token, startSessionBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var started dto.StartSessionResponse
	decodeData(t, resp, &started)
	assert.Equal(t, "Question 1?", started.Question)

	// Answer
	url := "/api/interview/v1/sessions/" + started.SessionId.String() + "/responses"
	resp = doJSON(t, app, http.MethodPost, url, token, `{"response":"I would start with pprof."}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var submitted dto.SubmitResponseResponse
	decodeData(t, resp, &submitted)
	assert.Equal(t, "Question 2?", submitted.NextQuestion)
	assert.InDelta(t, 0.75, submitted.Score, 0.001)

	// Inspect
	resp = doJSON(t, app, http.MethodGet, "/api/interview/v1/sessions/"+started.SessionId.String(), token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var session dto.SessionResponse
	decodeData(t, resp, &session)
	assert.Len(t, session.History, 1)

	// End
	resp = doJSON(t, app, http.MethodPost, "/api/interview/v1/sessions/"+started.SessionId.String()+"/end", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var ended dto.EndSessionResponse
	decodeData(t, resp, &ended)
	assert.Equal(t, "completed", ended.Status)
	assert.NotEmpty(t, ended.AnalysisURL)
	require.NotNil(t, ended.Analysis)
	assert.Len(t, ended.Analysis.Responses, 1)
	assert.InDelta(t, 0.75, ended.Analysis.AverageScore, 0.001)

	// Answering after completion conflicts
	resp = doJSON(t, app, http.MethodPost, url, token, `{"response":"too late"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestInterviewRoutes_OwnershipEnforced(t *testing.T) {
	app := newTestApp(t)
	owner := authHeader(t, uuid.New())
	intruder := authHeader(t, uuid.New())

	resp := doJSON(t, app, http.MethodPost, "/api/interview/v1/sessions", owner, startSessionBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var started dto.StartSessionResponse
	decodeData(t, resp, &started)

	resp = doJSON(t, app, http.MethodGet, "/api/interview/v1/sessions/"+started.SessionId.String(), intruder, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestInterviewRoutes_ValidationError(t *testing.T) {
	app := newTestApp(t)
	token := authHeader(t, uuid.New())

	resp := doJSON(t, app, http.MethodPost, "/api/interview/v1/sessions", token, `{"role":"x"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestInterviewRoutes_UnknownSession(t *testing.T) {
	app := newTestApp(t)
	token := authHeader(t, uuid.New())

	resp := doJSON(t, app, http.MethodGet, "/api/interview/v1/sessions/"+uuid.New().String(), token, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
