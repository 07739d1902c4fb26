// Package auditlog keeps an append-only record of mutating actions.
package auditlog

import (
	"context"

	"github.com/minsukim/ptstudio/go-api-server/internal/model"
	"github.com/minsukim/ptstudio/go-api-server/internal/scope"
	"github.com/minsukim/ptstudio/go-api-server/internal/shared/logger"
	"gorm.io/gorm"
)

// Audit actions.
const (
	ActionCreate   = "create"
	ActionUpdate   = "update"
	ActionDelete   = "delete"
	ActionComplete = "complete"
	ActionRevert   = "revert"
	ActionRestore  = "restore"
)

// Recorder writes audit rows. Recording is best effort: a failed audit write
// is logged but never fails the business operation it describes.
type Recorder struct {
	db *gorm.DB
}

func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

func (r *Recorder) Record(ctx context.Context, caller scope.Caller, action, entity string, entityID uint32, branchID *uint32, detail string) {
	row := model.AuditLog{
		UserID:   caller.UserID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		BranchID: branchID,
		Detail:   detail,
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		logger.FromContext(ctx).Error("감사 로그 기록 실패",
			"error", err,
			"action", action,
			"entity", entity,
			"entity_id", entityID,
		)
	}
}
