package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type InterviewSession struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId         uuid.UUID `gorm:"type:uuid;not null;index"`
	Role           string    `gorm:"type:varchar(255);not null"`
	JobDescription string    `gorm:"type:text;not null"`
	ResumeText     string    `gorm:"type:text;not null"`

	CurrentQuestion string         `gorm:"type:text"`
	QuestionsAsked  datatypes.JSON `gorm:"type:jsonb"`
	Responses       datatypes.JSON `gorm:"type:jsonb"`
	Scores          datatypes.JSON `gorm:"type:jsonb"`
	Feedback        datatypes.JSON `gorm:"type:jsonb"`
	History         datatypes.JSON `gorm:"type:jsonb"`

	Status      string `gorm:"type:varchar(20);not null;default:'active';index"`
	AnalysisURL string `gorm:"type:text"`

	Version   int64     `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (InterviewSession) TableName() string {
	return "interview_sessions"
}
