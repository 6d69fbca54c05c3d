package mapper

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"ai-interview-coach-be/internal/entity"
	"ai-interview-coach-be/internal/model"
)

type InterviewSessionMapper struct{}

func NewInterviewSessionMapper() *InterviewSessionMapper {
	return &InterviewSessionMapper{}
}

func (m *InterviewSessionMapper) ToEntity(s *model.InterviewSession) (*entity.InterviewSession, error) {
	if s == nil {
		return nil, nil
	}
	e := &entity.InterviewSession{
		Id:              s.Id,
		UserId:          s.UserId,
		Role:            s.Role,
		JobDescription:  s.JobDescription,
		ResumeText:      s.ResumeText,
		CurrentQuestion: s.CurrentQuestion,
		Status:          entity.SessionStatus(s.Status),
		AnalysisURL:     s.AnalysisURL,
		Version:         s.Version,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
	if err := unmarshalColumn(s.QuestionsAsked, &e.QuestionsAsked, "questions_asked"); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(s.Responses, &e.Responses, "responses"); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(s.Scores, &e.Scores, "scores"); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(s.Feedback, &e.Feedback, "feedback"); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(s.History, &e.History, "history"); err != nil {
		return nil, err
	}
	return e, nil
}

func (m *InterviewSessionMapper) ToModel(e *entity.InterviewSession) (*model.InterviewSession, error) {
	if e == nil {
		return nil, nil
	}
	s := &model.InterviewSession{
		Id:              e.Id,
		UserId:          e.UserId,
		Role:            e.Role,
		JobDescription:  e.JobDescription,
		ResumeText:      e.ResumeText,
		CurrentQuestion: e.CurrentQuestion,
		Status:          string(e.Status),
		AnalysisURL:     e.AnalysisURL,
		Version:         e.Version,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
	var err error
	if s.QuestionsAsked, err = marshalColumn(e.QuestionsAsked, "questions_asked"); err != nil {
		return nil, err
	}
	if s.Responses, err = marshalColumn(e.Responses, "responses"); err != nil {
		return nil, err
	}
	if s.Scores, err = marshalColumn(e.Scores, "scores"); err != nil {
		return nil, err
	}
	if s.Feedback, err = marshalColumn(e.Feedback, "feedback"); err != nil {
		return nil, err
	}
	if s.History, err = marshalColumn(e.History, "history"); err != nil {
		return nil, err
	}
	return s, nil
}

func unmarshalColumn(raw datatypes.JSON, dst any, column string) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode %s column: %w", column, err)
	}
	return nil
}

func marshalColumn(src any, column string) (datatypes.JSON, error) {
	b, err := json.Marshal(src)
	if err != nil {
		return nil, fmt.Errorf("encode %s column: %w", column, err)
	}
	return datatypes.JSON(b), nil
}
