package member

import (
	"context"

	"github.com/minsukim/ptstudio/go-api-server/internal/model"
	"gorm.io/gorm"
)

type MemberRepository struct{}

func NewMemberRepository() *MemberRepository {
	return &MemberRepository{}
}

func (r *MemberRepository) Create(ctx context.Context, db *gorm.DB, member *model.Member) error {
	return db.WithContext(ctx).Create(member).Error
}

func (r *MemberRepository) FindByID(ctx context.Context, db *gorm.DB, id uint32) (*model.Member, error) {
	var member model.Member
	err := db.WithContext(ctx).Where("id = ?", id).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *MemberRepository) List(ctx context.Context, db *gorm.DB) ([]model.Member, error) {
	var members []model.Member
	err := db.WithContext(ctx).Order("id").Find(&members).Error
	return members, err
}

func (r *MemberRepository) ListByBranches(ctx context.Context, db *gorm.DB, branchIDs []uint32) ([]model.Member, error) {
	var members []model.Member
	err := db.WithContext(ctx).Where("branch_id IN ?", branchIDs).Order("id").Find(&members).Error
	return members, err
}

func (r *MemberRepository) ListByAssignedTrainer(ctx context.Context, db *gorm.DB, trainerID uint32) ([]model.Member, error) {
	var members []model.Member
	err := db.WithContext(ctx).Where("assigned_trainer_id = ?", trainerID).Order("id").Find(&members).Error
	return members, err
}

func (r *MemberRepository) Save(ctx context.Context, db *gorm.DB, member *model.Member) error {
	return db.WithContext(ctx).Save(member).Error
}

func (r *MemberRepository) Delete(ctx context.Context, db *gorm.DB, id uint32) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&model.Member{}).Error
}

// HasProgram reports whether the member is enrolled in any program.
func (r *MemberRepository) HasProgram(ctx context.Context, db *gorm.DB, memberID uint32) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&model.ProgramMember{}).Where("member_id = ?", memberID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
