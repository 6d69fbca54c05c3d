package dto

import "github.com/google/uuid"

// SessionCompletedMessage is the payload published when an interview ends.
type SessionCompletedMessage struct {
	SessionId uuid.UUID `json:"session_id"`
	UserId    uuid.UUID `json:"user_id"`
}
