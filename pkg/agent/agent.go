package agent

import (
	"context"

	"ai-interview-coach-be/internal/entity"
)

// SessionContext carries what the generators need to know about a session
// without coupling them to storage.
type SessionContext struct {
	Role           string
	JobDescription string
	ResumeText     string
	AskedQuestions []string
}

func NewSessionContext(s *entity.InterviewSession) SessionContext {
	return SessionContext{
		Role:           s.Role,
		JobDescription: s.JobDescription,
		ResumeText:     s.ResumeText,
		AskedQuestions: s.QuestionsAsked,
	}
}

// Generator produces interview content from a language model.
type Generator interface {
	GenerateQuestion(ctx context.Context, sc SessionContext) (string, error)
	ScoreResponse(ctx context.Context, sc SessionContext, question, response string) (float64, error)
	GenerateFeedback(ctx context.Context, sc SessionContext, question, response string, score float64) (string, error)
}
