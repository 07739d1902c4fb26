package program

import (
	"context"
	"fmt"

	"github.com/minsukim/ptstudio/go-api-server/internal/model"
	"github.com/minsukim/ptstudio/go-api-server/internal/shared/logger"
	"gorm.io/gorm"
)

// Ledger keeps Program.CompletedSessions and the derived status in sync with
// the session table. The count is always recomputed from completed session
// rows - never incremented - so a recount after any mutation heals stale or
// racy values.
type Ledger struct {
	db                *gorm.DB
	programRepository *ProgramRepository
}

func NewLedger(db *gorm.DB, programRepository *ProgramRepository) *Ledger {
	return &Ledger{db: db, programRepository: programRepository}
}

// Recount recomputes the ledger of one program. Must run inside the same
// transaction as the session mutation that made it stale.
//
// Status rules: reaching the total turns the program 만료; dropping back below
// (revert, session delete) turns it 유효 again. 정지 is a manual state and is
// never overwritten here.
func (l *Ledger) Recount(ctx context.Context, tx *gorm.DB, programID uint32) error {
	count, err := l.programRepository.CountCompletedSessions(ctx, tx, programID)
	if err != nil {
		return fmt.Errorf("완료 세션 집계 실패 programID=%d: %w", programID, err)
	}

	var program model.Program
	if err := tx.WithContext(ctx).Where("id = ?", programID).First(&program).Error; err != nil {
		return fmt.Errorf("프로그램 조회 실패 programID=%d: %w", programID, err)
	}

	if count > program.TotalSessions {
		logger.FromContext(ctx).Warn("완료 세션 수가 총 횟수를 초과",
			"program_id", programID, "count", count, "total", program.TotalSessions)
		count = program.TotalSessions
	}

	status := program.Status
	if status != model.ProgramStatusSuspended {
		if count >= program.TotalSessions {
			status = model.ProgramStatusExpired
		} else {
			status = model.ProgramStatusActive
		}
	}

	if count == program.CompletedSessions && status == program.Status {
		return nil
	}

	err = tx.WithContext(ctx).Model(&model.Program{}).
		Where("id = ?", programID).
		Updates(map[string]any{
			"completed_sessions": count,
			"status":             status,
		}).Error
	if err != nil {
		return fmt.Errorf("장부 갱신 실패 programID=%d: %w", programID, err)
	}
	return nil
}

// ReconcileAll recounts every program. Run by the nightly sweep to repair
// ledgers that drifted (failed recounts, manual DB edits).
func (l *Ledger) ReconcileAll(ctx context.Context) (int, error) {
	var ids []uint32
	if err := l.db.WithContext(ctx).Model(&model.Program{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return 0, fmt.Errorf("프로그램 ID 목록 조회 실패: %w", err)
	}

	fixed := 0
	for _, id := range ids {
		err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var before model.Program
			if err := tx.Where("id = ?", id).First(&before).Error; err != nil {
				return err
			}
			if err := l.Recount(ctx, tx, id); err != nil {
				return err
			}
			var after model.Program
			if err := tx.Where("id = ?", id).First(&after).Error; err != nil {
				return err
			}
			if before.CompletedSessions != after.CompletedSessions || before.Status != after.Status {
				fixed++
			}
			return nil
		})
		if err != nil {
			logger.FromContext(ctx).Error("장부 재조정 실패", "program_id", id, "error", err)
		}
	}
	return fixed, nil
}
