package unitofwork

import (
	"context"

	"ai-interview-coach-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	SessionStore() contract.SessionStore
}
