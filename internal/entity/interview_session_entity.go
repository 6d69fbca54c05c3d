package entity

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed"
)

// InterviewTurn is one answered question: the composite record kept alongside
// the parallel arrays for convenient bulk retrieval.
type InterviewTurn struct {
	Question  string    `json:"question"`
	Response  string    `json:"response"`
	Score     float64   `json:"score"`
	Feedback  string    `json:"feedback"`
	Timestamp time.Time `json:"timestamp"`
}

// InterviewSession is one candidate's end-to-end interview record.
//
// While the session is active there is always exactly one outstanding
// unanswered question: len(Responses) == len(Scores) == len(Feedback) ==
// len(History) == len(QuestionsAsked)-1. Completion never answers the pending
// question, so the relation holds for the life of the record.
type InterviewSession struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	Role           string
	JobDescription string
	ResumeText     string

	CurrentQuestion string
	QuestionsAsked  []string
	Responses       []string
	Scores          []float64
	Feedback        []string
	History         []InterviewTurn

	Status      SessionStatus
	AnalysisURL string

	// Version supports optimistic concurrency on whole-document replace.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AverageScore is the mean of all recorded scores, 0 when none exist.
func (s *InterviewSession) AverageScore() float64 {
	if len(s.Scores) == 0 {
		return 0
	}
	var sum float64
	for _, sc := range s.Scores {
		sum += sc
	}
	return sum / float64(len(s.Scores))
}

// Analysis is the summary artifact persisted when a session ends.
type Analysis struct {
	Questions    []string  `json:"questions"`
	Responses    []string  `json:"responses"`
	Scores       []float64 `json:"scores"`
	Feedback     []string  `json:"feedback"`
	AverageScore float64   `json:"average_score"`
}

// BuildAnalysis snapshots the session into its final analysis payload.
func (s *InterviewSession) BuildAnalysis() *Analysis {
	return &Analysis{
		Questions:    s.QuestionsAsked,
		Responses:    s.Responses,
		Scores:       s.Scores,
		Feedback:     s.Feedback,
		AverageScore: s.AverageScore(),
	}
}
