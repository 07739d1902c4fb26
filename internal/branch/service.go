package branch

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
	"gorm.io/gorm"
)

type BranchService struct {
	db               *gorm.DB
	branchRepository *BranchRepository
	audit            *auditlog.Recorder
}

func NewBranchService(db *gorm.DB, branchRepository *BranchRepository, audit *auditlog.Recorder) *BranchService {
	return &BranchService{
		db:               db,
		branchRepository: branchRepository,
		audit:            audit,
	}
}

// Create registers a new branch. Admin only.
func (s *BranchService) Create(ctx context.Context, caller scope.Caller, request *CreateBranchRequest) (*BranchResponse, error) {
	log := logger.FromContext(ctx)

	if !caller.CanManageBranches() {
		return nil, fmt.Errorf("지점 생성 거부: %w", sharedError.ErrPermissionDenied)
	}

	var created *model.Branch
	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		exists, err := s.branchRepository.NameExists(ctx, tx, request.Name)
		if err != nil {
			return fmt.Errorf("지점명 중복 확인 실패: %w", err)
		}
		if exists {
			return fmt.Errorf("error %w", ErrBranchNameTaken)
		}

		branch := &model.Branch{Name: request.Name}
		if err := s.branchRepository.Create(ctx, tx, branch); err != nil {
			return fmt.Errorf("지점 생성 실패: %w", err)
		}
		created = branch
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, caller, auditlog.ActionCreate, "branch", created.ID, &created.ID, created.Name)
	log.Info("지점 생성", "branch_id", created.ID, "name", created.Name)

	return &BranchResponse{ID: created.ID, Name: created.Name}, nil
}

// List returns branches visible to the caller.
func (s *BranchService) List(ctx context.Context, caller scope.Caller) (*ListBranchesResponse, error) {
	if !caller.IsApproved() {
		return nil, fmt.Errorf("지점 목록 조회 거부: %w", sharedError.ErrPermissionDenied)
	}

	branches, err := s.branchRepository.List(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("지점 목록 조회 실패: %w", err)
	}

	resp := &ListBranchesResponse{Branches: make([]BranchResponse, 0, len(branches))}
	for _, b := range branches {
		if !caller.CanViewBranch(b.ID) {
			continue
		}
		resp.Branches = append(resp.Branches, BranchResponse{ID: b.ID, Name: b.Name})
	}
	return resp, nil
}

// Delete removes a branch. Admin only; refused while members, trainers or
// programs still reference it.
func (s *BranchService) Delete(ctx context.Context, caller scope.Caller, branchID uint32) error {
	log := logger.FromContext(ctx)

	if !caller.CanManageBranches() {
		return fmt.Errorf("지점 삭제 거부: %w", sharedError.ErrPermissionDenied)
	}

	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		if _, err := s.branchRepository.FindByID(ctx, tx, branchID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("지점을 찾을 수 없습니다 branchID=%d %w", branchID, ErrBranchNotFound)
			}
			return fmt.Errorf("지점 조회 실패: %w", err)
		}

		referenced, err := s.branchRepository.IsReferenced(ctx, tx, branchID)
		if err != nil {
			return fmt.Errorf("지점 참조 확인 실패: %w", err)
		}
		if referenced {
			return fmt.Errorf("error %w", ErrBranchReferenced)
		}

		if err := s.branchRepository.Delete(ctx, tx, branchID); err != nil {
			return fmt.Errorf("지점 삭제 실패: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, caller, auditlog.ActionDelete, "branch", branchID, &branchID, "")
	log.Info("지점 삭제", "branch_id", branchID)
	return nil
}
