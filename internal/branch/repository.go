package branch

import (
	"context"

	"github.com/minsukim/ptstudio/go-api-server/internal/model"
	"gorm.io/gorm"
)

type BranchRepository struct{}

func NewBranchRepository() *BranchRepository {
	return &BranchRepository{}
}

func (r *BranchRepository) Create(ctx context.Context, db *gorm.DB, branch *model.Branch) error {
	return db.WithContext(ctx).Create(branch).Error
}

func (r *BranchRepository) FindByID(ctx context.Context, db *gorm.DB, id uint32) (*model.Branch, error) {
	var branch model.Branch
	err := db.WithContext(ctx).Where("id = ?", id).First(&branch).Error
	if err != nil {
		return nil, err
	}
	return &branch, nil
}

func (r *BranchRepository) List(ctx context.Context, db *gorm.DB) ([]model.Branch, error) {
	var branches []model.Branch
	err := db.WithContext(ctx).Order("id").Find(&branches).Error
	return branches, err
}

func (r *BranchRepository) NameExists(ctx context.Context, db *gorm.DB, name string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&model.Branch{}).Where("name = ?", name).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *BranchRepository) Delete(ctx context.Context, db *gorm.DB, id uint32) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&model.Branch{}).Error
}

// IsReferenced reports whether any member, trainer or program still points at
// the branch. 참조 데이터가 있으면 지점 삭제를 거부한다.
func (r *BranchRepository) IsReferenced(ctx context.Context, db *gorm.DB, id uint32) (bool, error) {
	checks := []struct {
		model  interface{}
		column string
	}{
		{&model.Member{}, "branch_id"},
		{&model.TrainerBranch{}, "branch_id"},
		{&model.Program{}, "branch_id"},
	}

	for _, check := range checks {
		var count int64
		if err := db.WithContext(ctx).Model(check.model).Where(check.column+" = ?", id).Count(&count).Error; err != nil {
			return false, err
		}
		if count > 0 {
			return true, nil
		}
	}
	return false, nil
}
