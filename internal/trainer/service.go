package trainer

import (
	"context"
	"errors"
	"fmt"

	"github.com/minsukim/ptstudio/go-api-server/internal/auditlog"
	"github.com/minsukim/ptstudio/go-api-server/internal/model"
	"github.com/minsukim/ptstudio/go-api-server/internal/scope"
	"github.com/minsukim/ptstudio/go-api-server/internal/shared/database"
	sharedError "github.com/minsukim/ptstudio/go-api-server/internal/shared/error"
	"github.com/minsukim/ptstudio/go-api-server/internal/shared/logger"
	"github.com/minsukim/ptstudio/go-api-server/internal/shared/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TrainerService struct {
	db                *gorm.DB
	trainerRepository *TrainerRepository
	propagator        *Propagator
	fileStorage       storage.FileStorage // nil when object storage is disabled
	audit             *auditlog.Recorder
}

func NewTrainerService(
	db *gorm.DB,
	trainerRepository *TrainerRepository,
	propagator *Propagator,
	fileStorage storage.FileStorage,
	audit *auditlog.Recorder,
) *TrainerService {
	return &TrainerService{
		db:                db,
		trainerRepository: trainerRepository,
		propagator:        propagator,
		fileStorage:       fileStorage,
		audit:             audit,
	}
}

// Create registers a trainer with branch links and per-branch rates.
func (s *TrainerService) Create(ctx context.Context, caller scope.Caller, request *CreateTrainerRequest) (*TrainerResponse, error) {
	log := logger.FromContext(ctx)

	if !caller.CanManageTrainer(request.BranchIDs) {
		return nil, fmt.Errorf("트레이너 등록 거부: %w", sharedError.ErrPermissionDenied)
	}
	if err := validateRateBranches(request.BranchIDs, request.Rates); err != nil {
		return nil, err
	}

	var created *model.Trainer
	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		trainer := &model.Trainer{
			Name:     request.Name,
			IsActive: true,
			Color:    request.Color,
		}
		if err := s.trainerRepository.Create(ctx, tx, trainer); err != nil {
			return fmt.Errorf("트레이너 등록 실패: %w", err)
		}

		if err := s.trainerRepository.ReplaceBranches(ctx, tx, trainer.ID, request.BranchIDs); err != nil {
			return fmt.Errorf("트레이너 지점 연결 실패: %w", err)
		}
		if err := s.trainerRepository.ReplaceRates(ctx, tx, trainer.ID, toBranchRates(trainer.ID, request.Rates)); err != nil {
			return fmt.Errorf("트레이너 요율 설정 실패: %w", err)
		}

		created = trainer
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, caller, auditlog.ActionCreate, "trainer", created.ID, nil, created.Name)
	log.Info("트레이너 등록", "trainer_id", created.ID, "branches", len(request.BranchIDs))

	return s.respond(ctx, caller, created.ID)
}

// Get returns a trainer within the caller's view scope.
func (s *TrainerService) Get(ctx context.Context, caller scope.Caller, trainerID uint32) (*TrainerResponse, error) {
	trainer, err := s.findVisible(ctx, caller, trainerID)
	if err != nil {
		return nil, err
	}

	resp := toTrainerResponse(trainer, s.photoDownloadURL(ctx, trainer))
	return &resp, nil
}

// List returns the trainers visible to the caller. Inactive trainers are
// included only when includeInactive is set.
func (s *TrainerService) List(ctx context.Context, caller scope.Caller, includeInactive bool) (*ListTrainersResponse, error) {
	if !caller.IsApproved() {
		return nil, fmt.Errorf("트레이너 목록 조회 거부: %w", sharedError.ErrPermissionDenied)
	}

	trainers, err := s.trainerRepository.List(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("트레이너 목록 조회 실패: %w", err)
	}

	resp := &ListTrainersResponse{Trainers: make([]TrainerResponse, 0, len(trainers))}
	for i := range trainers {
		t := &trainers[i]
		if !t.IsActive && !includeInactive {
			continue
		}
		if !caller.CanViewTrainer(t.ID, t.BranchIDs()) {
			continue
		}
		resp.Trainers = append(resp.Trainers, toTrainerResponse(t, s.photoDownloadURL(ctx, t)))
	}
	return resp, nil
}

// Update patches a trainer. Replacing the rate set triggers an asynchronous
// fee re-propagation across the trainer's sessions.
func (s *TrainerService) Update(ctx context.Context, caller scope.Caller, trainerID uint32, request *UpdateTrainerRequest) (*TrainerResponse, error) {
	log := logger.FromContext(ctx)

	ratesChanged := false
	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		trainer, err := s.trainerRepository.FindByID(ctx, tx, trainerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("트레이너를 찾을 수 없습니다 trainerID=%d %w", trainerID, ErrTrainerNotFound)
			}
			return fmt.Errorf("트레이너 조회 실패: %w", err)
		}

		if !caller.CanManageTrainer(trainer.BranchIDs()) {
			return fmt.Errorf("트레이너 수정 거부 trainerID=%d: %w", trainerID, ErrTrainerNotFound)
		}

		branchIDs := trainer.BranchIDs()
		if request.BranchIDs != nil {
			branchIDs = *request.BranchIDs
			if !caller.CanManageTrainer(branchIDs) {
				return fmt.Errorf("트레이너 지점 변경 거부: %w", sharedError.ErrPermissionDenied)
			}
		}
		if request.Rates != nil {
			if err := validateRateBranches(branchIDs, *request.Rates); err != nil {
				return err
			}
		}

		if request.Name != nil {
			trainer.Name = *request.Name
		}
		if request.Color != nil {
			trainer.Color = *request.Color
		}
		if err := s.trainerRepository.Save(ctx, tx, trainer); err != nil {
			return fmt.Errorf("트레이너 수정 실패: %w", err)
		}

		if request.BranchIDs != nil {
			if err := s.trainerRepository.ReplaceBranches(ctx, tx, trainerID, branchIDs); err != nil {
				return fmt.Errorf("트레이너 지점 변경 실패: %w", err)
			}
		}
		if request.Rates != nil {
			if err := s.trainerRepository.ReplaceRates(ctx, tx, trainerID, toBranchRates(trainerID, *request.Rates)); err != nil {
				return fmt.Errorf("트레이너 요율 변경 실패: %w", err)
			}
			ratesChanged = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, caller, auditlog.ActionUpdate, "trainer", trainerID, nil, "")
	log.Info("트레이너 수정", "trainer_id", trainerID, "rates_changed", ratesChanged)

	if ratesChanged {
		s.propagator.PropagateAsync(trainerID)
	}

	return s.respond(ctx, caller, trainerID)
}

// Deactivate soft-deletes a trainer: the row survives (completed sessions keep
// referencing it for settlement) but the trainer leaves every program trainer
// list and disappears from default listings.
func (s *TrainerService) Deactivate(ctx context.Context, caller scope.Caller, trainerID uint32) error {
	log := logger.FromContext(ctx)

	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		trainer, err := s.trainerRepository.FindByID(ctx, tx, trainerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("트레이너를 찾을 수 없습니다 trainerID=%d %w", trainerID, ErrTrainerNotFound)
			}
			return fmt.Errorf("트레이너 조회 실패: %w", err)
		}
		if !caller.CanManageTrainer(trainer.BranchIDs()) {
			return fmt.Errorf("트레이너 비활성화 거부 trainerID=%d: %w", trainerID, ErrTrainerNotFound)
		}

		trainer.IsActive = false
		if err := s.trainerRepository.Save(ctx, tx, trainer); err != nil {
			return fmt.Errorf("트레이너 비활성화 실패: %w", err)
		}
		if err := s.trainerRepository.DetachFromPrograms(ctx, tx, trainerID); err != nil {
			return fmt.Errorf("프로그램 담당 해제 실패: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, caller, auditlog.ActionDelete, "trainer", trainerID, nil, "")
	log.Info("트레이너 비활성화", "trainer_id", trainerID)
	return nil
}

// Restore re-activates a trainer. Program links removed at deactivation are
// NOT restored; programs must be re-assigned by hand.
func (s *TrainerService) Restore(ctx context.Context, caller scope.Caller, trainerID uint32) (*TrainerResponse, error) {
	log := logger.FromContext(ctx)

	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		trainer, err := s.trainerRepository.FindByID(ctx, tx, trainerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("트레이너를 찾을 수 없습니다 trainerID=%d %w", trainerID, ErrTrainerNotFound)
			}
			return fmt.Errorf("트레이너 조회 실패: %w", err)
		}
		if !caller.CanManageTrainer(trainer.BranchIDs()) {
			return fmt.Errorf("트레이너 복구 거부 trainerID=%d: %w", trainerID, ErrTrainerNotFound)
		}

		trainer.IsActive = true
		if err := s.trainerRepository.Save(ctx, tx, trainer); err != nil {
			return fmt.Errorf("트레이너 복구 실패: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, caller, auditlog.ActionRestore, "trainer", trainerID, nil, "")
	log.Info("트레이너 복구", "trainer_id", trainerID)

	return s.respond(ctx, caller, trainerID)
}

// PhotoUploadURL issues a presigned PUT URL for the trainer's profile photo
// and records the object key on the trainer.
func (s *TrainerService) PhotoUploadURL(ctx context.Context, caller scope.Caller, trainerID uint32, request *PhotoUploadURLRequest) (*PhotoUploadURLResponse, error) {
	log := logger.FromContext(ctx)

	if s.fileStorage == nil {
		return nil, fmt.Errorf("error %w", ErrTrainerPhotoDisabled)
	}

	trainer, err := s.findVisible(ctx, caller, trainerID)
	if err != nil {
		return nil, err
	}
	if !caller.CanManageTrainer(trainer.BranchIDs()) {
		return nil, fmt.Errorf("트레이너 사진 변경 거부: %w", sharedError.ErrPermissionDenied)
	}

	objectKey := fmt.Sprintf("trainers/%d/photo-%s%s", trainerID, uuid.NewString(), extensionFor(request.ContentType))
	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, request.ContentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("업로드 URL 생성 실패: %w", err)
	}

	oldKey := trainer.PhotoURL
	trainer.PhotoURL = objectKey
	if err := s.trainerRepository.Save(ctx, s.db, trainer); err != nil {
		return nil, fmt.Errorf("트레이너 사진 키 저장 실패: %w", err)
	}

	if oldKey != "" {
		if err := s.fileStorage.DeleteObject(ctx, oldKey); err != nil {
			log.Warn("이전 사진 삭제 실패", "object_key", oldKey, "error", err)
		}
	}

	log.Info("트레이너 사진 업로드 URL 발급", "trainer_id", trainerID, "object_key", objectKey)
	return &PhotoUploadURLResponse{UploadURL: uploadURL, ObjectKey: objectKey}, nil
}

func (s *TrainerService) findVisible(ctx context.Context, caller scope.Caller, trainerID uint32) (*model.Trainer, error) {
	trainer, err := s.trainerRepository.FindByID(ctx, s.db, trainerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("트레이너를 찾을 수 없습니다 trainerID=%d %w", trainerID, ErrTrainerNotFound)
		}
		return nil, fmt.Errorf("트레이너 조회 실패: %w", err)
	}

	if !caller.CanViewTrainer(trainer.ID, trainer.BranchIDs()) {
		return nil, fmt.Errorf("트레이너 조회 거부 trainerID=%d %w", trainerID, ErrTrainerNotFound)
	}
	return trainer, nil
}

func (s *TrainerService) respond(ctx context.Context, caller scope.Caller, trainerID uint32) (*TrainerResponse, error) {
	trainer, err := s.trainerRepository.FindByID(ctx, s.db, trainerID)
	if err != nil {
		return nil, fmt.Errorf("트레이너 조회 실패: %w", err)
	}
	resp := toTrainerResponse(trainer, s.photoDownloadURL(ctx, trainer))
	return &resp, nil
}

// photoDownloadURL presigns the trainer's photo for display. 실패해도 응답은
// 사진 없이 내려간다.
func (s *TrainerService) photoDownloadURL(ctx context.Context, trainer *model.Trainer) string {
	if s.fileStorage == nil || trainer.PhotoURL == "" {
		return ""
	}
	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, trainer.PhotoURL, storage.DefaultPresignedURLExpiry)
	if err != nil {
		logger.FromContext(ctx).Warn("사진 다운로드 URL 생성 실패", "trainer_id", trainer.ID, "error", err)
		return ""
	}
	return url
}

func validateRateBranches(branchIDs []uint32, rates []TrainerRateRequest) error {
	serves := make(map[uint32]struct{}, len(branchIDs))
	for _, id := range branchIDs {
		serves[id] = struct{}{}
	}
	for _, r := range rates {
		if _, ok := serves[r.BranchID]; !ok {
			return fmt.Errorf("요율 지점 불일치 branchID=%d %w", r.BranchID, ErrTrainerRateBranch)
		}
	}
	return nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
