package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionOwnedBy struct {
	UserID uuid.UUID
}

func (s SessionOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

type WithStatus struct {
	Status string
}

func (s WithStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}
