package trainer

import (
	"context"

	"github.com/minsukim/ptstudio/go-api-server/internal/model"
	"gorm.io/gorm"
)

type TrainerRepository struct{}

func NewTrainerRepository() *TrainerRepository {
	return &TrainerRepository{}
}

func (r *TrainerRepository) Create(ctx context.Context, db *gorm.DB, trainer *model.Trainer) error {
	return db.WithContext(ctx).Create(trainer).Error
}

func (r *TrainerRepository) FindByID(ctx context.Context, db *gorm.DB, id uint32) (*model.Trainer, error) {
	var trainer model.Trainer
	err := db.WithContext(ctx).
		Preload("Branches").
		Preload("BranchRates").
		Where("id = ?", id).
		First(&trainer).Error
	if err != nil {
		return nil, err
	}
	return &trainer, nil
}

func (r *TrainerRepository) List(ctx context.Context, db *gorm.DB) ([]model.Trainer, error) {
	var trainers []model.Trainer
	err := db.WithContext(ctx).
		Preload("Branches").
		Preload("BranchRates").
		Order("id").
		Find(&trainers).Error
	return trainers, err
}

func (r *TrainerRepository) Save(ctx context.Context, db *gorm.DB, trainer *model.Trainer) error {
	return db.WithContext(ctx).
		Omit("Branches", "BranchRates").
		Save(trainer).Error
}

// ReplaceBranches swaps the trainer's branch links for the given set.
func (r *TrainerRepository) ReplaceBranches(ctx context.Context, db *gorm.DB, trainerID uint32, branchIDs []uint32) error {
	if err := db.WithContext(ctx).Where("trainer_id = ?", trainerID).Delete(&model.TrainerBranch{}).Error; err != nil {
		return err
	}

	if len(branchIDs) == 0 {
		return nil
	}

	rows := make([]model.TrainerBranch, 0, len(branchIDs))
	for _, id := range branchIDs {
		rows = append(rows, model.TrainerBranch{TrainerID: trainerID, BranchID: id})
	}
	return db.WithContext(ctx).Create(&rows).Error
}

// ReplaceRates swaps the trainer's rate set. Existing sessions keep their
// recorded fee until the propagation pass rewrites them.
func (r *TrainerRepository) ReplaceRates(ctx context.Context, db *gorm.DB, trainerID uint32, rates []model.TrainerBranchRate) error {
	if err := db.WithContext(ctx).Where("trainer_id = ?", trainerID).Delete(&model.TrainerBranchRate{}).Error; err != nil {
		return err
	}

	if len(rates) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&rates).Error
}

// DetachFromPrograms removes the trainer from every program trainer list.
// 비활성화된 트레이너는 프로그램 담당 목록에서 빠진다.
func (r *TrainerRepository) DetachFromPrograms(ctx context.Context, db *gorm.DB, trainerID uint32) error {
	return db.WithContext(ctx).Where("trainer_id = ?", trainerID).Delete(&model.ProgramTrainer{}).Error
}

// ListSessions returns every session the trainer runs, both booked and
// completed. Used by the rate-change propagation.
func (r *TrainerRepository) ListSessions(ctx context.Context, db *gorm.DB, trainerID uint32) ([]model.Session, error) {
	var sessions []model.Session
	err := db.WithContext(ctx).Where("trainer_id = ?", trainerID).Order("id").Find(&sessions).Error
	return sessions, err
}
