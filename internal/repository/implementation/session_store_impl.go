package implementation

import (
	"context"
	"errors"

	"ai-interview-coach-be/internal/entity"
	"ai-interview-coach-be/internal/mapper"
	"ai-interview-coach-be/internal/model"
	"ai-interview-coach-be/internal/repository/contract"
	"ai-interview-coach-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionStoreImpl struct {
	db     *gorm.DB
	mapper *mapper.InterviewSessionMapper
}

func NewSessionStore(db *gorm.DB) contract.SessionStore {
	return &SessionStoreImpl{
		db:     db,
		mapper: mapper.NewInterviewSessionMapper(),
	}
}

func (r *SessionStoreImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SessionStoreImpl) Create(ctx context.Context, session *entity.InterviewSession) error {
	session.Version = 1
	modelSession, err := r.mapper.ToModel(session)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(modelSession).Error; err != nil {
		return err
	}
	created, err := r.mapper.ToEntity(modelSession)
	if err != nil {
		return err
	}
	*session = *created
	return nil
}

func (r *SessionStoreImpl) Get(ctx context.Context, id uuid.UUID) (*entity.InterviewSession, error) {
	var modelSession model.InterviewSession
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&modelSession).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&modelSession)
}

func (r *SessionStoreImpl) Replace(ctx context.Context, session *entity.InterviewSession, expectedVersion int64) error {
	session.Version = expectedVersion + 1
	modelSession, err := r.mapper.ToModel(session)
	if err != nil {
		return err
	}

	res := r.db.WithContext(ctx).
		Model(&model.InterviewSession{}).
		Where("id = ? AND version = ?", session.Id, expectedVersion).
		Select("*").
		Omit("id", "created_at").
		Updates(modelSession)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return contract.ErrVersionConflict
	}
	return nil
}

func (r *SessionStoreImpl) FindByUser(ctx context.Context, userId uuid.UUID) ([]*entity.InterviewSession, error) {
	var modelSessions []*model.InterviewSession
	query := r.applySpecifications(r.db.WithContext(ctx),
		specification.SessionOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err := query.Find(&modelSessions).Error; err != nil {
		return nil, err
	}

	sessions := make([]*entity.InterviewSession, 0, len(modelSessions))
	for _, m := range modelSessions {
		s, err := r.mapper.ToEntity(m)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}
