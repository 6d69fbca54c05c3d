package dto

import (
	"time"

	"github.com/google/uuid"
)

type StartSessionRequest struct {
	Role           string `json:"role" validate:"required,min=2,max=255"`
	JobDescription string `json:"job_description" validate:"required,min=20"`

	// Exactly one of Resume, ResumeURL is required; Resume holds base64
	// encoded file bytes.
	Resume     string `json:"resume,omitempty" validate:"required_without=ResumeURL"`
	ResumeURL  string `json:"resume_url,omitempty" validate:"omitempty,url"`
	ResumeName string `json:"resume_name,omitempty"`
}

type StartSessionResponse struct {
	SessionId uuid.UUID `json:"session_id"`
	Question  string    `json:"question"`
}

type SubmitResponseRequest struct {
	Response string `json:"response" validate:"required"`
}

type SubmitResponseResponse struct {
	NextQuestion string  `json:"next_question"`
	Score        float64 `json:"score"`
	Feedback     string  `json:"feedback"`
}

type InterviewTurnDTO struct {
	Question  string    `json:"question"`
	Response  string    `json:"response"`
	Score     float64   `json:"score"`
	Feedback  string    `json:"feedback"`
	Timestamp time.Time `json:"timestamp"`
}

type SessionResponse struct {
	SessionId       uuid.UUID          `json:"session_id"`
	Role            string             `json:"role"`
	Status          string             `json:"status"`
	CurrentQuestion string             `json:"current_question,omitempty"`
	QuestionsAsked  []string           `json:"questions_asked"`
	History         []InterviewTurnDTO `json:"history"`
	AnalysisURL     string             `json:"analysis_url,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

type SessionSummaryResponse struct {
	SessionId    uuid.UUID `json:"session_id"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	Questions    int       `json:"questions"`
	AverageScore float64   `json:"average_score"`
	CreatedAt    time.Time `json:"created_at"`
}

type EndSessionResponse struct {
	SessionId    uuid.UUID         `json:"session_id"`
	Status       string            `json:"status"`
	AnalysisURL  string            `json:"analysis_url"`
	AverageScore float64           `json:"average_score"`
	Analysis     *AnalysisResponse `json:"analysis"`
}

type AnalysisResponse struct {
	Questions    []string  `json:"questions"`
	Responses    []string  `json:"responses"`
	Scores       []float64 `json:"scores"`
	Feedback     []string  `json:"feedback"`
	AverageScore float64   `json:"average_score"`
}

// --- Limit Exceeded Error Types ---

// LimitExceededError is a custom error that carries usage details
type LimitExceededError struct {
	Limit      int       `json:"limit"`
	Used       int       `json:"used"`
	ResetAfter time.Time `json:"reset_after"`
}

func (e *LimitExceededError) Error() string {
	return "daily response limit exceeded"
}

// LimitExceededData is the data payload for 429 responses
type LimitExceededData struct {
	Limit      int       `json:"limit"`
	Used       int       `json:"used"`
	ResetAfter time.Time `json:"reset_after"`
}
