package program

import (
	"context"
	"errors"
	"fmt"

	"github.com/minsukim/ptstudio/go-api-server/internal/auditlog"
	"github.com/minsukim/ptstudio/go-api-server/internal/model"
	"github.com/minsukim/ptstudio/go-api-server/internal/scope"
	sharedError "github.com/minsukim/ptstudio/go-api-server/internal/shared/error"
	"github.com/minsukim/ptstudio/go-api-server/internal/shared/logger"
	"gorm.io/gorm"
)

type PresetRepository struct{}

func NewPresetRepository() *PresetRepository {
	return &PresetRepository{}
}

func (r *PresetRepository) Create(ctx context.Context, db *gorm.DB, preset *model.ProgramPreset) error {
	return db.WithContext(ctx).Create(preset).Error
}

func (r *PresetRepository) FindByID(ctx context.Context, db *gorm.DB, id uint32) (*model.ProgramPreset, error) {
	var preset model.ProgramPreset
	err := db.WithContext(ctx).Where("id = ?", id).First(&preset).Error
	if err != nil {
		return nil, err
	}
	return &preset, nil
}

func (r *PresetRepository) List(ctx context.Context, db *gorm.DB) ([]model.ProgramPreset, error) {
	var presets []model.ProgramPreset
	err := db.WithContext(ctx).Order("id").Find(&presets).Error
	return presets, err
}

func (r *PresetRepository) Save(ctx context.Context, db *gorm.DB, preset *model.ProgramPreset) error {
	return db.WithContext(ctx).Save(preset).Error
}

func (r *PresetRepository) Delete(ctx context.Context, db *gorm.DB, id uint32) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&model.ProgramPreset{}).Error
}

// PresetService manages program templates. A preset with a nil branch is
// usable at every branch and only admins may manage it.
type PresetService struct {
	db               *gorm.DB
	presetRepository *PresetRepository
	audit            *auditlog.Recorder
}

func NewPresetService(db *gorm.DB, presetRepository *PresetRepository, audit *auditlog.Recorder) *PresetService {
	return &PresetService{
		db:               db,
		presetRepository: presetRepository,
		audit:            audit,
	}
}

func (s *PresetService) Create(ctx context.Context, caller scope.Caller, request *PresetRequest) (*PresetResponse, error) {
	if !s.canManage(caller, request.BranchID) {
		return nil, fmt.Errorf("프리셋 생성 거부: %w", sharedError.ErrPermissionDenied)
	}

	preset := &model.ProgramPreset{
		Name:                   request.Name,
		TotalAmount:            request.TotalAmount,
		TotalSessions:          request.TotalSessions,
		BranchID:               request.BranchID,
		DefaultSessionDuration: request.DefaultSessionDuration,
		FixedTrainerFee:        request.FixedTrainerFee,
		SessionFees:            request.SessionFees,
	}
	if err := s.presetRepository.Create(ctx, s.db, preset); err != nil {
		return nil, fmt.Errorf("프리셋 생성 실패: %w", err)
	}

	s.audit.Record(ctx, caller, auditlog.ActionCreate, "program_preset", preset.ID, preset.BranchID, preset.Name)
	logger.FromContext(ctx).Info("프리셋 생성", "preset_id", preset.ID)

	resp := toPresetResponse(preset)
	return &resp, nil
}

func (s *PresetService) List(ctx context.Context, caller scope.Caller) (*ListPresetsResponse, error) {
	if !caller.IsApproved() {
		return nil, fmt.Errorf("프리셋 목록 조회 거부: %w", sharedError.ErrPermissionDenied)
	}

	presets, err := s.presetRepository.List(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("프리셋 목록 조회 실패: %w", err)
	}

	resp := &ListPresetsResponse{Presets: make([]PresetResponse, 0, len(presets))}
	for i := range presets {
		p := &presets[i]
		if p.BranchID != nil && !caller.CanViewBranch(*p.BranchID) {
			continue
		}
		resp.Presets = append(resp.Presets, toPresetResponse(p))
	}
	return resp, nil
}

func (s *PresetService) Update(ctx context.Context, caller scope.Caller, presetID uint32, request *PresetRequest) (*PresetResponse, error) {
	preset, err := s.findManaged(ctx, caller, presetID)
	if err != nil {
		return nil, err
	}
	if !s.canManage(caller, request.BranchID) {
		return nil, fmt.Errorf("프리셋 지점 변경 거부: %w", sharedError.ErrPermissionDenied)
	}

	preset.Name = request.Name
	preset.TotalAmount = request.TotalAmount
	preset.TotalSessions = request.TotalSessions
	preset.BranchID = request.BranchID
	preset.DefaultSessionDuration = request.DefaultSessionDuration
	preset.FixedTrainerFee = request.FixedTrainerFee
	preset.SessionFees = request.SessionFees

	if err := s.presetRepository.Save(ctx, s.db, preset); err != nil {
		return nil, fmt.Errorf("프리셋 수정 실패: %w", err)
	}

	s.audit.Record(ctx, caller, auditlog.ActionUpdate, "program_preset", preset.ID, preset.BranchID, preset.Name)

	resp := toPresetResponse(preset)
	return &resp, nil
}

func (s *PresetService) Delete(ctx context.Context, caller scope.Caller, presetID uint32) error {
	preset, err := s.findManaged(ctx, caller, presetID)
	if err != nil {
		return err
	}

	if err := s.presetRepository.Delete(ctx, s.db, presetID); err != nil {
		return fmt.Errorf("프리셋 삭제 실패: %w", err)
	}

	s.audit.Record(ctx, caller, auditlog.ActionDelete, "program_preset", presetID, preset.BranchID, "")
	return nil
}

func (s *PresetService) findManaged(ctx context.Context, caller scope.Caller, presetID uint32) (*model.ProgramPreset, error) {
	preset, err := s.presetRepository.FindByID(ctx, s.db, presetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("프리셋을 찾을 수 없습니다 presetID=%d %w", presetID, ErrProgramPresetNotFound)
		}
		return nil, fmt.Errorf("프리셋 조회 실패: %w", err)
	}
	if !s.canManage(caller, preset.BranchID) {
		return nil, fmt.Errorf("프리셋 접근 거부 presetID=%d %w", presetID, ErrProgramPresetNotFound)
	}
	return preset, nil
}

// canManage: 전 지점 공용 프리셋(branchID nil)은 관리자 전용, 지점 프리셋은
// 해당 지점 데이터 권한자가 관리한다.
func (s *PresetService) canManage(caller scope.Caller, branchID *uint32) bool {
	if branchID == nil {
		return caller.IsAdmin()
	}
	return caller.CanManageBranchData(*branchID)
}
