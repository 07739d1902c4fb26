package program

import (
	"context"

	"github.com/minsukim/ptstudio/go-api-server/internal/model"
	"gorm.io/gorm"
)

type ProgramRepository struct{}

func NewProgramRepository() *ProgramRepository {
	return &ProgramRepository{}
}

func (r *ProgramRepository) Create(ctx context.Context, db *gorm.DB, program *model.Program) error {
	return db.WithContext(ctx).Create(program).Error
}

func (r *ProgramRepository) FindByID(ctx context.Context, db *gorm.DB, id uint32) (*model.Program, error) {
	var program model.Program
	err := db.WithContext(ctx).
		Preload("Members").
		Preload("Trainers").
		Preload("SessionTrainers").
		Preload("SessionFees").
		Where("id = ?", id).
		First(&program).Error
	if err != nil {
		return nil, err
	}
	return &program, nil
}

func (r *ProgramRepository) List(ctx context.Context, db *gorm.DB) ([]model.Program, error) {
	var programs []model.Program
	err := db.WithContext(ctx).
		Preload("Members").
		Preload("Trainers").
		Preload("SessionTrainers").
		Preload("SessionFees").
		Order("id").
		Find(&programs).Error
	return programs, err
}

func (r *ProgramRepository) ListByBranches(ctx context.Context, db *gorm.DB, branchIDs []uint32) ([]model.Program, error) {
	var programs []model.Program
	err := db.WithContext(ctx).
		Preload("Members").
		Preload("Trainers").
		Preload("SessionTrainers").
		Preload("SessionFees").
		Where("branch_id IN ?", branchIDs).
		Order("id").
		Find(&programs).Error
	return programs, err
}

func (r *ProgramRepository) Save(ctx context.Context, db *gorm.DB, program *model.Program) error {
	return db.WithContext(ctx).
		Omit("Members", "Trainers", "SessionTrainers", "SessionFees").
		Save(program).Error
}

func (r *ProgramRepository) ReplaceMembers(ctx context.Context, db *gorm.DB, programID uint32, memberIDs []uint32) error {
	if err := db.WithContext(ctx).Where("program_id = ?", programID).Delete(&model.ProgramMember{}).Error; err != nil {
		return err
	}
	if len(memberIDs) == 0 {
		return nil
	}

	rows := make([]model.ProgramMember, 0, len(memberIDs))
	for _, id := range memberIDs {
		rows = append(rows, model.ProgramMember{ProgramID: programID, MemberID: id})
	}
	return db.WithContext(ctx).Create(&rows).Error
}

// ReplaceTrainers swaps the ordered trainer list. Position follows slice order.
func (r *ProgramRepository) ReplaceTrainers(ctx context.Context, db *gorm.DB, programID uint32, trainerIDs []uint32) error {
	if err := db.WithContext(ctx).Where("program_id = ?", programID).Delete(&model.ProgramTrainer{}).Error; err != nil {
		return err
	}
	if len(trainerIDs) == 0 {
		return nil
	}

	rows := make([]model.ProgramTrainer, 0, len(trainerIDs))
	for i, id := range trainerIDs {
		rows = append(rows, model.ProgramTrainer{ProgramID: programID, TrainerID: id, Position: i})
	}
	return db.WithContext(ctx).Create(&rows).Error
}

func (r *ProgramRepository) ReplaceSessionTrainers(ctx context.Context, db *gorm.DB, programID uint32, byNumber map[int]uint32) error {
	if err := db.WithContext(ctx).Where("program_id = ?", programID).Delete(&model.ProgramSessionTrainer{}).Error; err != nil {
		return err
	}
	if len(byNumber) == 0 {
		return nil
	}

	rows := make([]model.ProgramSessionTrainer, 0, len(byNumber))
	for number, trainerID := range byNumber {
		rows = append(rows, model.ProgramSessionTrainer{ProgramID: programID, SessionNumber: number, TrainerID: trainerID})
	}
	return db.WithContext(ctx).Create(&rows).Error
}

func (r *ProgramRepository) ReplaceSessionFees(ctx context.Context, db *gorm.DB, programID uint32, byNumber map[int]float64) error {
	if err := db.WithContext(ctx).Where("program_id = ?", programID).Delete(&model.ProgramSessionFee{}).Error; err != nil {
		return err
	}
	if len(byNumber) == 0 {
		return nil
	}

	rows := make([]model.ProgramSessionFee, 0, len(byNumber))
	for number, fee := range byNumber {
		rows = append(rows, model.ProgramSessionFee{ProgramID: programID, SessionNumber: number, Fee: fee})
	}
	return db.WithContext(ctx).Create(&rows).Error
}

// DeleteCascade removes the program with its link rows and every session.
func (r *ProgramRepository) DeleteCascade(ctx context.Context, db *gorm.DB, programID uint32) error {
	deletions := []any{
		&model.Session{},
		&model.ProgramSessionFee{},
		&model.ProgramSessionTrainer{},
		&model.ProgramTrainer{},
		&model.ProgramMember{},
	}
	for _, target := range deletions {
		if err := db.WithContext(ctx).Where("program_id = ?", programID).Delete(target).Error; err != nil {
			return err
		}
	}
	return db.WithContext(ctx).Where("id = ?", programID).Delete(&model.Program{}).Error
}

// CountCompletedSessions counts completed session rows of the program.
// 장부(completedSessions)는 항상 이 값으로 다시 계산된다.
func (r *ProgramRepository) CountCompletedSessions(ctx context.Context, db *gorm.DB, programID uint32) (int, error) {
	var count int64
	err := db.WithContext(ctx).Model(&model.Session{}).
		Where("program_id = ? AND status = ?", programID, model.SessionStatusCompleted).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}
