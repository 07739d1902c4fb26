package session

import (
	"context"

	"github.com/minsukim/ptstudio/go-api-server/internal/model"
	"gorm.io/gorm"
)

type SessionRepository struct{}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{}
}

func (r *SessionRepository) Create(ctx context.Context, db *gorm.DB, session *model.Session) error {
	return db.WithContext(ctx).Create(session).Error
}

func (r *SessionRepository) FindByID(ctx context.Context, db *gorm.DB, id uint32) (*model.Session, error) {
	var session model.Session
	err := db.WithContext(ctx).Where("id = ?", id).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) Save(ctx context.Context, db *gorm.DB, session *model.Session) error {
	return db.WithContext(ctx).Save(session).Error
}

func (r *SessionRepository) Delete(ctx context.Context, db *gorm.DB, id uint32) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&model.Session{}).Error
}

// ListFilter narrows the session listing. Zero values mean "no filter".
type ListFilter struct {
	From      string // YYYY-MM-DD inclusive
	To        string // YYYY-MM-DD inclusive
	TrainerID uint32
	ProgramID uint32
}

func (r *SessionRepository) List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]model.Session, error) {
	query := db.WithContext(ctx).Model(&model.Session{})

	if filter.From != "" {
		query = query.Where("session_date >= ?", filter.From)
	}
	if filter.To != "" {
		query = query.Where("session_date <= ?", filter.To)
	}
	if filter.TrainerID != 0 {
		query = query.Where("trainer_id = ?", filter.TrainerID)
	}
	if filter.ProgramID != 0 {
		query = query.Where("program_id = ?", filter.ProgramID)
	}

	var sessions []model.Session
	err := query.Order("session_date, start_time, id").Find(&sessions).Error
	return sessions, err
}
