package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"ai-interview-coach-be/internal/dto"
	"ai-interview-coach-be/internal/entity"
	"ai-interview-coach-be/internal/pkg/apperror"
	"ai-interview-coach-be/internal/pkg/logger"
	"ai-interview-coach-be/internal/repository/contract"
	"ai-interview-coach-be/pkg/agent"
	"ai-interview-coach-be/pkg/blob"
	"ai-interview-coach-be/pkg/events"
	"ai-interview-coach-be/pkg/extractor"
	"ai-interview-coach-be/pkg/limiter"
	pktNats "ai-interview-coach-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// replaceAttempts bounds optimistic-concurrency retries before giving up
// with a conflict error.
const replaceAttempts = 3

// Notifier pushes live interview events to a user's open connections.
type Notifier interface {
	Push(userID uuid.UUID, eventType string, payload map[string]interface{})
}

type IInterviewService interface {
	StartSession(ctx context.Context, userId uuid.UUID, req *dto.StartSessionRequest) (*dto.StartSessionResponse, error)
	SubmitResponse(ctx context.Context, userId, sessionId uuid.UUID, req *dto.SubmitResponseRequest) (*dto.SubmitResponseResponse, error)
	GetSession(ctx context.Context, userId, sessionId uuid.UUID) (*dto.SessionResponse, error)
	ListSessions(ctx context.Context, userId uuid.UUID) ([]*dto.SessionSummaryResponse, error)
	EndSession(ctx context.Context, userId, sessionId uuid.UUID) (*dto.EndSessionResponse, error)
}

type interviewService struct {
	store          contract.SessionStore
	generator      agent.Generator
	extractor      extractor.Extractor
	blobs          blob.Store
	limiter        *limiter.DailyLimiter
	publisher      message.Publisher
	completedTopic string
	eventPublisher *pktNats.Publisher
	notifier       Notifier
	logger         logger.ILogger
}

func NewInterviewService(
	store contract.SessionStore,
	generator agent.Generator,
	docExtractor extractor.Extractor,
	blobs blob.Store,
	dailyLimiter *limiter.DailyLimiter,
	publisher message.Publisher,
	completedTopic string,
	eventPublisher *pktNats.Publisher,
	notifier Notifier,
	log logger.ILogger,
) IInterviewService {
	return &interviewService{
		store:          store,
		generator:      generator,
		extractor:      docExtractor,
		blobs:          blobs,
		limiter:        dailyLimiter,
		publisher:      publisher,
		completedTopic: completedTopic,
		eventPublisher: eventPublisher,
		notifier:       notifier,
		logger:         log,
	}
}

func (s *interviewService) StartSession(ctx context.Context, userId uuid.UUID, req *dto.StartSessionRequest) (*dto.StartSessionResponse, error) {
	resumeText, err := s.resolveResume(ctx, req)
	if err != nil {
		return nil, err
	}

	session := &entity.InterviewSession{
		Id:             uuid.New(),
		UserId:         userId,
		Role:           req.Role,
		JobDescription: req.JobDescription,
		ResumeText:     resumeText,
		Status:         entity.SessionStatusActive,
	}

	question, err := s.generator.GenerateQuestion(ctx, agent.NewSessionContext(session))
	if err != nil {
		return nil, err
	}
	session.CurrentQuestion = question
	session.QuestionsAsked = []string{question}

	if err := s.store.Create(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("interview", "session started", map[string]interface{}{
		"session_id": session.Id.String(),
		"user_id":    userId.String(),
		"role":       session.Role,
	})
	s.publishEvent(ctx, events.TypeSessionStarted, map[string]interface{}{
		"session_id": session.Id.String(),
		"user_id":    userId.String(),
	})

	return &dto.StartSessionResponse{
		SessionId: session.Id,
		Question:  question,
	}, nil
}

// resolveResume turns the request's resume payload into normalized text.
func (s *interviewService) resolveResume(ctx context.Context, req *dto.StartSessionRequest) (string, error) {
	var src extractor.Source
	switch {
	case req.Resume != "":
		data, err := base64.StdEncoding.DecodeString(req.Resume)
		if err != nil {
			return "", apperror.Validation("resume must be base64 encoded")
		}
		src = extractor.Source{Data: data, Filename: req.ResumeName}
	case req.ResumeURL != "":
		src = extractor.Source{URL: req.ResumeURL}
	default:
		return "", apperror.Validation("either resume or resume_url is required")
	}
	return s.extractor.ExtractText(ctx, src)
}

func (s *interviewService) SubmitResponse(ctx context.Context, userId, sessionId uuid.UUID, req *dto.SubmitResponseRequest) (*dto.SubmitResponseResponse, error) {
	session, err := s.loadOwned(ctx, userId, sessionId)
	if err != nil {
		return nil, err
	}
	if session.Status == entity.SessionStatusCompleted {
		return nil, apperror.Conflict("session is already completed")
	}

	usage, allowed, err := s.limiter.Check(ctx, userId.String())
	if err != nil {
		s.logger.Warn("interview", "usage check failed, allowing request", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if !allowed {
		return nil, &dto.LimitExceededError{
			Limit:      usage.Limit,
			Used:       usage.Used,
			ResetAfter: usage.ResetAfter,
		}
	}

	question := session.CurrentQuestion

	// The next question does not depend on the score, so it is generated
	// while the answer is being evaluated.
	type questionResult struct {
		question string
		err      error
	}
	nextCh := make(chan questionResult, 1)
	sc := agent.NewSessionContext(session)
	go func() {
		q, qErr := s.generator.GenerateQuestion(ctx, sc)
		nextCh <- questionResult{question: q, err: qErr}
	}()

	score, err := s.generator.ScoreResponse(ctx, sc, question, req.Response)
	if err != nil {
		<-nextCh
		return nil, err
	}
	feedback, err := s.generator.GenerateFeedback(ctx, sc, question, req.Response, score)
	if err != nil {
		<-nextCh
		return nil, err
	}
	next := <-nextCh
	if next.err != nil {
		return nil, next.err
	}

	turn := entity.InterviewTurn{
		Question:  question,
		Response:  req.Response,
		Score:     score,
		Feedback:  feedback,
		Timestamp: time.Now().UTC(),
	}

	// Persist with optimistic concurrency: on a version conflict the session
	// is re-read and the turn re-applied, as long as the same question is
	// still pending.
	for attempt := 0; ; attempt++ {
		expected := session.Version
		session.Responses = append(session.Responses, turn.Response)
		session.Scores = append(session.Scores, turn.Score)
		session.Feedback = append(session.Feedback, turn.Feedback)
		session.History = append(session.History, turn)
		session.CurrentQuestion = next.question
		session.QuestionsAsked = append(session.QuestionsAsked, next.question)
		session.UpdatedAt = time.Now().UTC()

		err = s.store.Replace(ctx, session, expected)
		if err == nil {
			break
		}
		if err != contract.ErrVersionConflict || attempt >= replaceAttempts-1 {
			if err == contract.ErrVersionConflict {
				return nil, apperror.Conflict("session was modified concurrently")
			}
			return nil, err
		}

		session, err = s.loadOwned(ctx, userId, sessionId)
		if err != nil {
			return nil, err
		}
		if session.Status == entity.SessionStatusCompleted {
			return nil, apperror.Conflict("session is already completed")
		}
		if session.CurrentQuestion != question {
			return nil, apperror.Conflict("session was modified concurrently")
		}
	}

	if err := s.limiter.Increment(ctx, userId.String()); err != nil {
		s.logger.Warn("interview", "usage increment failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	s.publishEvent(ctx, events.TypeResponseScored, map[string]interface{}{
		"session_id": sessionId.String(),
		"user_id":    userId.String(),
		"score":      score,
	})

	return &dto.SubmitResponseResponse{
		NextQuestion: next.question,
		Score:        score,
		Feedback:     feedback,
	}, nil
}

func (s *interviewService) GetSession(ctx context.Context, userId, sessionId uuid.UUID) (*dto.SessionResponse, error) {
	session, err := s.loadOwned(ctx, userId, sessionId)
	if err != nil {
		return nil, err
	}

	history := make([]dto.InterviewTurnDTO, 0, len(session.History))
	for _, turn := range session.History {
		history = append(history, dto.InterviewTurnDTO{
			Question:  turn.Question,
			Response:  turn.Response,
			Score:     turn.Score,
			Feedback:  turn.Feedback,
			Timestamp: turn.Timestamp,
		})
	}

	resp := &dto.SessionResponse{
		SessionId:      session.Id,
		Role:           session.Role,
		Status:         string(session.Status),
		QuestionsAsked: session.QuestionsAsked,
		History:        history,
		AnalysisURL:    session.AnalysisURL,
		CreatedAt:      session.CreatedAt,
		UpdatedAt:      session.UpdatedAt,
	}
	if session.Status == entity.SessionStatusActive {
		resp.CurrentQuestion = session.CurrentQuestion
	}
	return resp, nil
}

func (s *interviewService) ListSessions(ctx context.Context, userId uuid.UUID) ([]*dto.SessionSummaryResponse, error) {
	sessions, err := s.store.FindByUser(ctx, userId)
	if err != nil {
		return nil, err
	}

	summaries := make([]*dto.SessionSummaryResponse, 0, len(sessions))
	for _, session := range sessions {
		summaries = append(summaries, &dto.SessionSummaryResponse{
			SessionId:    session.Id,
			Role:         session.Role,
			Status:       string(session.Status),
			Questions:    len(session.Responses),
			AverageScore: session.AverageScore(),
			CreatedAt:    session.CreatedAt,
		})
	}
	return summaries, nil
}

// EndSession completes a session, uploads the analysis artifact and returns
// the analysis inline. Ending an already completed session rebuilds the
// analysis from the stored record without re-uploading; the payloads are
// identical because completed sessions accept no further responses.
func (s *interviewService) EndSession(ctx context.Context, userId, sessionId uuid.UUID) (*dto.EndSessionResponse, error) {
	session, err := s.loadOwned(ctx, userId, sessionId)
	if err != nil {
		return nil, err
	}

	if session.Status == entity.SessionStatusCompleted {
		return completedResponse(session), nil
	}

	analysis := session.BuildAnalysis()
	payload, err := json.Marshal(analysis)
	if err != nil {
		return nil, err
	}

	analysisURL, err := s.blobs.Put(ctx, fmt.Sprintf("analysis/%s.json", session.Id), payload, "application/json")
	if err != nil {
		return nil, err
	}

	for attempt := 0; ; attempt++ {
		expected := session.Version
		session.Status = entity.SessionStatusCompleted
		session.AnalysisURL = analysisURL
		session.UpdatedAt = time.Now().UTC()

		err = s.store.Replace(ctx, session, expected)
		if err == nil {
			break
		}
		if err != contract.ErrVersionConflict || attempt >= replaceAttempts-1 {
			if err == contract.ErrVersionConflict {
				return nil, apperror.Conflict("session was modified concurrently")
			}
			return nil, err
		}

		session, err = s.loadOwned(ctx, userId, sessionId)
		if err != nil {
			return nil, err
		}
		if session.Status == entity.SessionStatusCompleted {
			return completedResponse(session), nil
		}
	}

	s.logger.Info("interview", "session completed", map[string]interface{}{
		"session_id":    session.Id.String(),
		"user_id":       userId.String(),
		"questions":     len(session.Responses),
		"average_score": analysis.AverageScore,
	})

	s.publishCompleted(sessionId, userId)
	s.publishEvent(ctx, events.TypeSessionCompleted, map[string]interface{}{
		"session_id":    sessionId.String(),
		"user_id":       userId.String(),
		"average_score": analysis.AverageScore,
	})

	return &dto.EndSessionResponse{
		SessionId:    session.Id,
		Status:       string(session.Status),
		AnalysisURL:  analysisURL,
		AverageScore: analysis.AverageScore,
		Analysis:     analysisResponse(analysis),
	}, nil
}

func completedResponse(session *entity.InterviewSession) *dto.EndSessionResponse {
	analysis := session.BuildAnalysis()
	return &dto.EndSessionResponse{
		SessionId:    session.Id,
		Status:       string(session.Status),
		AnalysisURL:  session.AnalysisURL,
		AverageScore: analysis.AverageScore,
		Analysis:     analysisResponse(analysis),
	}
}

func analysisResponse(a *entity.Analysis) *dto.AnalysisResponse {
	return &dto.AnalysisResponse{
		Questions:    a.Questions,
		Responses:    a.Responses,
		Scores:       a.Scores,
		Feedback:     a.Feedback,
		AverageScore: a.AverageScore,
	}
}

// loadOwned fetches a session and enforces ownership.
func (s *interviewService) loadOwned(ctx context.Context, userId, sessionId uuid.UUID) (*entity.InterviewSession, error) {
	session, err := s.store.Get(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NotFound("session not found")
	}
	if session.UserId != userId {
		return nil, apperror.Authorization("session belongs to another user")
	}
	return session, nil
}

func (s *interviewService) publishCompleted(sessionId, userId uuid.UUID) {
	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(dto.SessionCompletedMessage{
		SessionId: sessionId,
		UserId:    userId,
	})
	if err != nil {
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.publisher.Publish(s.completedTopic, msg); err != nil {
		s.logger.Warn("interview", "failed to publish completion message", map[string]interface{}{
			"session_id": sessionId.String(),
			"error":      err.Error(),
		})
	}
}

func (s *interviewService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.notifier != nil {
		if userIdStr, ok := data["user_id"].(string); ok {
			if userId, err := uuid.Parse(userIdStr); err == nil {
				s.notifier.Push(userId, eventType, data)
			}
		}
	}

	if s.eventPublisher == nil {
		return
	}
	event := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn("interview", "failed to publish event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}
