package member

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

type MemberService struct {
	db               *gorm.DB
	memberRepository *MemberRepository
	audit            *auditlog.Recorder
}

func NewMemberService(db *gorm.DB, memberRepository *MemberRepository, audit *auditlog.Recorder) *MemberService {
	return &MemberService{
		db:               db,
		memberRepository: memberRepository,
		audit:            audit,
	}
}

// Create registers a member at a branch. Trainers cannot create members.
func (s *MemberService) Create(ctx context.Context, caller scope.Caller, request *CreateMemberRequest) (*MemberResponse, error) {
	log := logger.FromContext(ctx)

	if !caller.CanManageBranchData(request.BranchID) {
		return nil, fmt.Errorf("회원 등록 거부 branchID=%d: %w", request.BranchID, sharedError.ErrPermissionDenied)
	}

	member := &model.Member{
		Name:               request.Name,
		Contact:            request.Contact,
		BranchID:           request.BranchID,
		ReferrerID:         request.ReferrerID,
		AssignedTrainerID:  request.AssignedTrainerID,
		ExerciseGoals:      request.ExerciseGoals,
		Motivation:         request.Motivation,
		MedicalHistory:     request.MedicalHistory,
		ExerciseExperience: request.ExerciseExperience,
		PreferredTimes:     request.PreferredTimes,
		Occupation:         request.Occupation,
		Memo:               request.Memo,
	}

	if err := s.memberRepository.Create(ctx, s.db, member); err != nil {
		return nil, fmt.Errorf("회원 등록 실패: %w", err)
	}

	s.audit.Record(ctx, caller, auditlog.ActionCreate, "member", member.ID, &member.BranchID, member.Name)
	log.Info("회원 등록", "member_id", member.ID, "branch_id", member.BranchID)

	resp := toMemberResponse(member)
	return &resp, nil
}

// Get returns a single member within the caller's scope. An out-of-scope id
// is answered with not-found, never with a permission hint.
func (s *MemberService) Get(ctx context.Context, caller scope.Caller, memberID uint32) (*MemberResponse, error) {
	member, err := s.findVisible(ctx, caller, memberID)
	if err != nil {
		return nil, err
	}

	resp := toMemberResponse(member)
	return &resp, nil
}

// List returns the members visible to the caller: all for admins, branch
// members for managers, assigned members only for trainers.
func (s *MemberService) List(ctx context.Context, caller scope.Caller) (*ListMembersResponse, error) {
	var (
		members []model.Member
		err     error
	)

	switch {
	case caller.IsAdmin():
		members, err = s.memberRepository.List(ctx, s.db)
	case caller.IsManager():
		if len(caller.BranchIDs) == 0 {
			members = nil
		} else {
			members, err = s.memberRepository.ListByBranches(ctx, s.db, caller.BranchIDs)
		}
	case caller.IsTrainer():
		members, err = s.memberRepository.ListByAssignedTrainer(ctx, s.db, caller.TrainerID)
	default:
		return nil, fmt.Errorf("회원 목록 조회 거부: %w", sharedError.ErrPermissionDenied)
	}
	if err != nil {
		return nil, fmt.Errorf("회원 목록 조회 실패: %w", err)
	}

	resp := &ListMembersResponse{Members: make([]MemberResponse, 0, len(members))}
	for i := range members {
		resp.Members = append(resp.Members, toMemberResponse(&members[i]))
	}
	return resp, nil
}

// Update patches a member. Trainers cannot update members, only view their
// assigned ones.
func (s *MemberService) Update(ctx context.Context, caller scope.Caller, memberID uint32, request *UpdateMemberRequest) (*MemberResponse, error) {
	log := logger.FromContext(ctx)

	var updated *model.Member
	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		member, err := s.memberRepository.FindByID(ctx, tx, memberID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("회원을 찾을 수 없습니다 memberID=%d %w", memberID, ErrMemberNotFound)
			}
			return fmt.Errorf("회원 조회 실패: %w", err)
		}

		if !caller.CanManageBranchData(member.BranchID) {
			return fmt.Errorf("회원 수정 거부 memberID=%d: %w", memberID, ErrMemberNotFound)
		}

		// 지점 이동은 새 지점에 대한 권한도 필요하다.
		if request.BranchID != nil && *request.BranchID != member.BranchID {
			if !caller.CanManageBranchData(*request.BranchID) {
				return fmt.Errorf("회원 지점 이동 거부 branchID=%d: %w", *request.BranchID, sharedError.ErrPermissionDenied)
			}
			member.BranchID = *request.BranchID
		}

		applyMemberPatch(member, request)

		if err := s.memberRepository.Save(ctx, tx, member); err != nil {
			return fmt.Errorf("회원 수정 실패: %w", err)
		}
		updated = member
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, caller, auditlog.ActionUpdate, "member", updated.ID, &updated.BranchID, updated.Name)
	log.Info("회원 수정", "member_id", updated.ID)

	resp := toMemberResponse(updated)
	return &resp, nil
}

// Delete removes a member. Refused while the member is enrolled in a program.
func (s *MemberService) Delete(ctx context.Context, caller scope.Caller, memberID uint32) error {
	log := logger.FromContext(ctx)

	var branchID uint32
	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		member, err := s.memberRepository.FindByID(ctx, tx, memberID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("회원을 찾을 수 없습니다 memberID=%d %w", memberID, ErrMemberNotFound)
			}
			return fmt.Errorf("회원 조회 실패: %w", err)
		}

		if !caller.CanManageBranchData(member.BranchID) {
			return fmt.Errorf("회원 삭제 거부 memberID=%d: %w", memberID, ErrMemberNotFound)
		}

		enrolled, err := s.memberRepository.HasProgram(ctx, tx, memberID)
		if err != nil {
			return fmt.Errorf("회원 프로그램 확인 실패: %w", err)
		}
		if enrolled {
			return fmt.Errorf("error %w", ErrMemberHasProgram)
		}

		branchID = member.BranchID
		if err := s.memberRepository.Delete(ctx, tx, memberID); err != nil {
			return fmt.Errorf("회원 삭제 실패: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, caller, auditlog.ActionDelete, "member", memberID, &branchID, "")
	log.Info("회원 삭제", "member_id", memberID)
	return nil
}

// findVisible loads a member and applies the caller's view scope. Rejections
// surface as MEMBER_NOT_FOUND so an out-of-scope caller cannot probe ids.
func (s *MemberService) findVisible(ctx context.Context, caller scope.Caller, memberID uint32) (*model.Member, error) {
	member, err := s.memberRepository.FindByID(ctx, s.db, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("회원을 찾을 수 없습니다 memberID=%d %w", memberID, ErrMemberNotFound)
		}
		return nil, fmt.Errorf("회원 조회 실패: %w", err)
	}

	if !caller.CanViewMember(member.BranchID, member.AssignedTrainerID) {
		return nil, fmt.Errorf("회원 조회 거부 memberID=%d %w", memberID, ErrMemberNotFound)
	}
	return member, nil
}

func applyMemberPatch(member *model.Member, request *UpdateMemberRequest) {
	if request.Name != nil {
		member.Name = *request.Name
	}
	if request.Contact != nil {
		member.Contact = *request.Contact
	}
	if request.ReferrerID != nil {
		member.ReferrerID = request.ReferrerID
	}
	if request.AssignedTrainerID != nil {
		member.AssignedTrainerID = request.AssignedTrainerID
	}
	if request.ExerciseGoals != nil {
		member.ExerciseGoals = *request.ExerciseGoals
	}
	if request.Motivation != nil {
		member.Motivation = *request.Motivation
	}
	if request.MedicalHistory != nil {
		member.MedicalHistory = *request.MedicalHistory
	}
	if request.ExerciseExperience != nil {
		member.ExerciseExperience = *request.ExerciseExperience
	}
	if request.PreferredTimes != nil {
		member.PreferredTimes = *request.PreferredTimes
	}
	if request.Occupation != nil {
		member.Occupation = *request.Occupation
	}
	if request.Memo != nil {
		member.Memo = *request.Memo
	}
}
