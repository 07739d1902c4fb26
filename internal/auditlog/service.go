package auditlog

import (
	"context"
	"fmt"

	"github.com/minsukim/ptstudio/go-api-server/internal/model"
	"github.com/minsukim/ptstudio/go-api-server/internal/scope"
	sharedError "github.com/minsukim/ptstudio/go-api-server/internal/shared/error"
	"gorm.io/gorm"
)

type LogEntry struct {
	ID       uint32  `json:"id"`
	UserID   uint32  `json:"userId"`
	Action   string  `json:"action"`
	Entity   string  `json:"entity"`
	EntityID uint32  `json:"entityId"`
	BranchID *uint32 `json:"branchId,omitempty"`
	Detail   string  `json:"detail,omitempty"`
	LoggedAt string  `json:"loggedAt"`
}

type ListResponse struct {
	Logs []LogEntry `json:"logs"`
}

type LogService struct {
	db *gorm.DB
}

func NewLogService(db *gorm.DB) *LogService {
	return &LogService{db: db}
}

// List returns audit rows visible to the caller: admins see everything,
// managers only rows tagged with one of their branches.
func (s *LogService) List(ctx context.Context, caller scope.Caller, limit int) (*ListResponse, error) {
	if !caller.IsAdmin() && !caller.IsManager() {
		return nil, fmt.Errorf("감사 로그 조회 거부: %w", sharedError.ErrPermissionDenied)
	}

	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query := s.db.WithContext(ctx).Model(&model.AuditLog{}).Order("id DESC").Limit(limit)
	if caller.IsManager() {
		if len(caller.BranchIDs) == 0 {
			return &ListResponse{Logs: []LogEntry{}}, nil
		}
		query = query.Where("branch_id IN ?", caller.BranchIDs)
	}

	var rows []model.AuditLog
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("감사 로그 조회 실패: %w", err)
	}

	resp := &ListResponse{Logs: make([]LogEntry, 0, len(rows))}
	for _, row := range rows {
		resp.Logs = append(resp.Logs, LogEntry{
			ID:       row.ID,
			UserID:   row.UserID,
			Action:   row.Action,
			Entity:   row.Entity,
			EntityID: row.EntityID,
			BranchID: row.BranchID,
			Detail:   row.Detail,
			LoggedAt: row.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return resp, nil
}
