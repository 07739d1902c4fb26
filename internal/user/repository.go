package user

import (
	"context"

	"github.com/minsukim/ptstudio/go-api-server/internal/model"
	"gorm.io/gorm"
)

type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) IsExist(ctx context.Context, db *gorm.DB, email string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&model.User{}).
		Where("email = ?", email).
		Count(&count).Error

	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *UserRepository) Create(ctx context.Context, db *gorm.DB, user *model.User) error {
	return db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*model.User, error) {
	var user model.User
	err := db.WithContext(ctx).Preload("Branches").Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, db *gorm.DB, id uint32) (*model.User, error) {
	var user model.User
	err := db.WithContext(ctx).Preload("Branches").Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context, db *gorm.DB) ([]model.User, error) {
	var users []model.User
	err := db.WithContext(ctx).Preload("Branches").Order("id").Find(&users).Error
	return users, err
}

func (r *UserRepository) UpdateRole(ctx context.Context, db *gorm.DB, userID uint32, role string, trainerID *uint32) error {
	return db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{"role": role, "trainer_id": trainerID}).Error
}

// ReplaceBranches rewrites the manager's branch assignments.
func (r *UserRepository) ReplaceBranches(ctx context.Context, db *gorm.DB, userID uint32, branchIDs []uint32) error {
	if err := db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.UserBranch{}).Error; err != nil {
		return err
	}
	for _, branchID := range branchIDs {
		ub := model.UserBranch{UserID: userID, BranchID: branchID}
		if err := db.WithContext(ctx).Create(&ub).Error; err != nil {
			return err
		}
	}
	return nil
}

// TrainerBranchIDs loads the branches served by a trainer profile.
// trainer 역할 계정의 caller 범위 계산에 사용한다.
func (r *UserRepository) TrainerBranchIDs(ctx context.Context, db *gorm.DB, trainerID uint32) ([]uint32, error) {
	var links []model.TrainerBranch
	if err := db.WithContext(ctx).Where("trainer_id = ?", trainerID).Find(&links).Error; err != nil {
		return nil, err
	}
	ids := make([]uint32, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.BranchID)
	}
	return ids, nil
}
