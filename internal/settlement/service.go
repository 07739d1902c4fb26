package settlement

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/minsukim/ptstudio/go-api-server/internal/model"
	"github.com/minsukim/ptstudio/go-api-server/internal/scope"
	sharedError "github.com/minsukim/ptstudio/go-api-server/internal/shared/error"
	"github.com/minsukim/ptstudio/go-api-server/internal/shared/logger"
	"github.com/minsukim/ptstudio/go-api-server/internal/trainer"
	"gorm.io/gorm"
)

// SettlementService aggregates completed sessions into per-trainer payout
// figures. Read-only; the figures are always recomputed from session rows so
// a rate propagation or a revert is reflected immediately.
type SettlementService struct {
	db                *gorm.DB
	trainerRepository *trainer.TrainerRepository
}

func NewSettlementService(db *gorm.DB, trainerRepository *trainer.TrainerRepository) *SettlementService {
	return &SettlementService{
		db:                db,
		trainerRepository: trainerRepository,
	}
}

// Aggregate sums completed sessions per trainer over a date-only inclusive
// range. Every visible active trainer appears even with zero activity; rows
// are sorted by total fee descending, ties keeping trainer-id order.
func (s *SettlementService) Aggregate(ctx context.Context, caller scope.Caller, from, to string, branchID *uint32) (*SettlementResponse, error) {
	if !caller.IsApproved() {
		return nil, fmt.Errorf("정산 조회 거부: %w", sharedError.ErrPermissionDenied)
	}
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	if branchID != nil && !caller.CanViewBranch(*branchID) {
		return nil, fmt.Errorf("정산 지점 조회 거부 branchID=%d: %w", *branchID, sharedError.ErrPermissionDenied)
	}

	trainers, err := s.visibleTrainers(ctx, caller, branchID)
	if err != nil {
		return nil, err
	}

	rows := make([]TrainerSettlement, 0, len(trainers))
	byTrainer := make(map[uint32]*TrainerSettlement, len(trainers))
	for _, t := range trainers {
		rows = append(rows, TrainerSettlement{TrainerID: t.ID, TrainerName: t.Name})
		byTrainer[t.ID] = &rows[len(rows)-1]
	}

	if err := s.accumulate(ctx, caller, byTrainer, from, to, branchID); err != nil {
		return nil, err
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].TotalFee > rows[j].TotalFee })

	logger.FromContext(ctx).Info("정산 집계", "from", from, "to", to, "trainers", len(rows))

	return &SettlementResponse{From: from, To: to, BranchID: branchID, Trainers: rows}, nil
}

// visibleTrainers: 관리자는 전체, 매니저는 담당 지점, 트레이너는 본인만.
// 비활성 트레이너는 명단에서 제외한다.
func (s *SettlementService) visibleTrainers(ctx context.Context, caller scope.Caller, branchID *uint32) ([]model.Trainer, error) {
	all, err := s.trainerRepository.List(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("트레이너 목록 조회 실패: %w", err)
	}

	visible := make([]model.Trainer, 0, len(all))
	for _, t := range all {
		if !t.IsActive {
			continue
		}
		if !caller.CanViewSettlement(t.ID) {
			continue
		}
		if caller.IsManager() && !caller.CanViewTrainer(t.ID, t.BranchIDs()) {
			continue
		}
		if branchID != nil && !serves(t.BranchIDs(), *branchID) {
			continue
		}
		visible = append(visible, t)
	}
	return visible, nil
}

// accumulate adds completed-session counts and fees onto the prepared rows.
// 수기 조정 금액(sessionFee)이 있으면 계산된 수수료 대신 쓴다.
// 매니저는 지점 필터가 없어도 담당 지점의 세션만 합산한다.
func (s *SettlementService) accumulate(ctx context.Context, caller scope.Caller, byTrainer map[uint32]*TrainerSettlement, from, to string, branchID *uint32) error {
	query := s.db.WithContext(ctx).Model(&model.Session{}).
		Where("status = ?", model.SessionStatusCompleted).
		Where("session_date >= ? AND session_date <= ?", from, to)

	switch {
	case branchID != nil:
		query = query.Where("program_id IN (?)",
			s.db.Model(&model.Program{}).Select("id").Where("branch_id = ?", *branchID))
	case caller.IsManager():
		query = query.Where("program_id IN (?)",
			s.db.Model(&model.Program{}).Select("id").Where("branch_id IN ?", caller.BranchIDs))
	}

	var sessions []model.Session
	if err := query.Find(&sessions).Error; err != nil {
		return fmt.Errorf("완료 세션 조회 실패: %w", err)
	}

	for _, row := range sessions {
		agg, ok := byTrainer[row.TrainerID]
		if !ok {
			continue
		}
		fee := row.TrainerFee
		if row.SessionFee != nil {
			fee = *row.SessionFee
		}
		agg.CompletedCount++
		agg.TotalFee += fee
	}
	return nil
}

func validateRange(from, to string) error {
	fromDay, err := time.ParseInLocation("2006-01-02", from, time.Local)
	if err != nil {
		return fmt.Errorf("시작일 파싱 실패 from=%q %w", from, ErrSettlementBadRange)
	}
	toDay, err := time.ParseInLocation("2006-01-02", to, time.Local)
	if err != nil {
		return fmt.Errorf("종료일 파싱 실패 to=%q %w", to, ErrSettlementBadRange)
	}
	if toDay.Before(fromDay) {
		return fmt.Errorf("기간 역전 from=%s to=%s %w", from, to, ErrSettlementBadRange)
	}
	return nil
}

func serves(branchIDs []uint32, branchID uint32) bool {
	for _, id := range branchIDs {
		if id == branchID {
			return true
		}
	}
	return false
}
