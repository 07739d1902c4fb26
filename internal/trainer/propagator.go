package trainer

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/minsukim/ptstudio/go-api-server/internal/model"
	"github.com/minsukim/ptstudio/go-api-server/internal/rate"
	"github.com/minsukim/ptstudio/go-api-server/internal/shared/database"
	"gorm.io/gorm"
)

// feeTolerance below which a stored fee is considered unchanged. 전파는
// 반올림 차이로 인한 무의미한 UPDATE를 만들지 않는다.
const feeTolerance = 0.01

// Propagator rewrites stored session fees after a trainer's branch rate
// changes. Both booked and completed sessions are rewritten; sessions whose
// fee did not come from a branch rate (program fixed fee, per-session fee
// override) are left alone, as are sessions of a branch the trainer no longer
// has a rate for.
type Propagator struct {
	db                *gorm.DB
	trainerRepository *TrainerRepository
}

func NewPropagator(db *gorm.DB, trainerRepository *TrainerRepository) *Propagator {
	return &Propagator{db: db, trainerRepository: trainerRepository}
}

// PropagateTrainer recomputes fees for every session of one trainer.
// Returns the number of sessions rewritten.
func (p *Propagator) PropagateTrainer(ctx context.Context, trainerID uint32) (int, error) {
	trainer, err := p.trainerRepository.FindByID(ctx, p.db, trainerID)
	if err != nil {
		return 0, fmt.Errorf("트레이너 조회 실패 trainerID=%d: %w", trainerID, err)
	}

	sessions, err := p.trainerRepository.ListSessions(ctx, p.db, trainerID)
	if err != nil {
		return 0, fmt.Errorf("세션 목록 조회 실패: %w", err)
	}
	if len(sessions) == 0 {
		return 0, nil
	}

	programs, err := p.loadPrograms(ctx, sessions)
	if err != nil {
		return 0, err
	}

	updated := 0
	err = database.WithTransaction(ctx, p.db, func(tx *gorm.DB) error {
		for i := range sessions {
			s := &sessions[i]

			program, ok := programs[s.ProgramID]
			if !ok {
				continue
			}
			if !rateDerived(program, s.SessionNumber) {
				continue
			}

			branchRate := rate.Resolve(trainer.BranchRates, program.BranchID)
			if branchRate == nil {
				// 요율 미설정 지점의 세션은 건드리지 않는다.
				continue
			}

			fee := rate.ComputeFee(program.UnitPrice, branchRate)
			if math.Abs(fee.Amount-s.TrainerFee) <= feeTolerance &&
				fee.Type == s.FeeType && fee.Rate == s.FeeRate {
				continue
			}

			err := tx.WithContext(ctx).Model(&model.Session{}).
				Where("id = ?", s.ID).
				Updates(map[string]any{
					"trainer_fee": fee.Amount,
					"fee_type":    fee.Type,
					"fee_rate":    fee.Rate,
				}).Error
			if err != nil {
				return fmt.Errorf("세션 수수료 갱신 실패 sessionID=%d: %w", s.ID, err)
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}

// PropagateAsync runs PropagateTrainer in the background after the rate
// change has committed. 실패는 로그로만 남긴다.
func (p *Propagator) PropagateAsync(trainerID uint32) {
	go func() {
		ctx := context.Background()
		updated, err := p.PropagateTrainer(ctx, trainerID)
		if err != nil {
			slog.Error("요율 변경 전파 실패", "trainer_id", trainerID, "error", err)
			return
		}
		slog.Info("요율 변경 전파 완료", "trainer_id", trainerID, "updated_sessions", updated)
	}()
}

func (p *Propagator) loadPrograms(ctx context.Context, sessions []model.Session) (map[uint32]*model.Program, error) {
	seen := make(map[uint32]struct{}, len(sessions))
	ids := make([]uint32, 0, len(sessions))
	for _, s := range sessions {
		if _, ok := seen[s.ProgramID]; ok {
			continue
		}
		seen[s.ProgramID] = struct{}{}
		ids = append(ids, s.ProgramID)
	}

	var programs []model.Program
	err := p.db.WithContext(ctx).
		Preload("SessionFees").
		Where("id IN ?", ids).
		Find(&programs).Error
	if err != nil {
		return nil, fmt.Errorf("프로그램 조회 실패: %w", err)
	}

	byID := make(map[uint32]*model.Program, len(programs))
	for i := range programs {
		byID[programs[i].ID] = &programs[i]
	}
	return byID, nil
}

// rateDerived reports whether the fee of the given session slot came from a
// branch rate, as opposed to a program fixed fee or per-session override.
func rateDerived(program *model.Program, sessionNumber int) bool {
	if program.FixedTrainerFee != nil {
		return false
	}
	for _, f := range program.SessionFees {
		if f.SessionNumber == sessionNumber {
			return false
		}
	}
	return true
}
