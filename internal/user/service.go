package user

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

type UserService struct {
	db             *gorm.DB
	userRepository *UserRepository
	audit          *auditlog.Recorder
}

func NewUserService(db *gorm.DB, userRepository *UserRepository, audit *auditlog.Recorder) *UserService {
	return &UserService{
		db:             db,
		userRepository: userRepository,
		audit:          audit,
	}
}

// List returns all accounts. Admin only.
func (s *UserService) List(ctx context.Context, caller scope.Caller) (*ListUsersResponse, error) {
	if !caller.CanManageUsers() {
		return nil, fmt.Errorf("계정 목록 조회 거부: %w", sharedError.ErrPermissionDenied)
	}

	users, err := s.userRepository.List(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("계정 목록 조회 실패: %w", err)
	}

	resp := &ListUsersResponse{Users: make([]UserResponse, 0, len(users))}
	for i := range users {
		resp.Users = append(resp.Users, toUserResponse(&users[i]))
	}
	return resp, nil
}

// AssignRole approves a pending account or changes role/branch assignments.
// Admin only.
func (s *UserService) AssignRole(ctx context.Context, caller scope.Caller, userID uint32, request *AssignRoleRequest) (*UserResponse, error) {
	log := logger.FromContext(ctx)

	if !caller.CanManageUsers() {
		return nil, fmt.Errorf("역할 변경 거부: %w", sharedError.ErrPermissionDenied)
	}

	if request.Role == model.RoleTrainer && request.TrainerID == nil {
		return nil, fmt.Errorf("trainer 역할에는 트레이너 연결이 필요합니다: %w", ErrInvalidRole)
	}

	var updated *model.User
	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		if _, err := s.userRepository.FindByID(ctx, tx, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("계정을 찾을 수 없습니다 userID=%d %w", userID, ErrUserNotFound)
			}
			return fmt.Errorf("계정 조회 실패: %w", err)
		}

		trainerID := request.TrainerID
		if request.Role != model.RoleTrainer {
			trainerID = nil
		}

		if err := s.userRepository.UpdateRole(ctx, tx, userID, request.Role, trainerID); err != nil {
			return fmt.Errorf("역할 변경 실패: %w", err)
		}

		branchIDs := request.BranchIDs
		if request.Role != model.RoleManager {
			branchIDs = nil
		}
		if err := s.userRepository.ReplaceBranches(ctx, tx, userID, branchIDs); err != nil {
			return fmt.Errorf("지점 배정 실패: %w", err)
		}

		u, err := s.userRepository.FindByID(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("계정 재조회 실패: %w", err)
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, caller, auditlog.ActionUpdate, "user", userID, nil,
		fmt.Sprintf("role=%s", request.Role))

	log.Info("계정 역할 변경", "user_id", userID, "role", request.Role)

	resp := toUserResponse(updated)
	return &resp, nil
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		BranchIDs: u.BranchIDs(),
		TrainerID: u.TrainerID,
	}
}
