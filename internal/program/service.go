package program

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

type ProgramService struct {
	db                *gorm.DB
	programRepository *ProgramRepository
	presetRepository  *PresetRepository
	ledger            *Ledger
	audit             *auditlog.Recorder
}

func NewProgramService(
	db *gorm.DB,
	programRepository *ProgramRepository,
	presetRepository *PresetRepository,
	ledger *Ledger,
	audit *auditlog.Recorder,
) *ProgramService {
	return &ProgramService{
		db:                db,
		programRepository: programRepository,
		presetRepository:  presetRepository,
		ledger:            ledger,
		audit:             audit,
	}
}

// Create registers a program of prepaid sessions. The unit price is derived
// from the total amount and session count, never taken from the client.
func (s *ProgramService) Create(ctx context.Context, caller scope.Caller, request *CreateProgramRequest) (*ProgramResponse, error) {
	log := logger.FromContext(ctx)

	if !caller.CanManageBranchData(request.BranchID) {
		return nil, fmt.Errorf("프로그램 등록 거부 branchID=%d: %w", request.BranchID, sharedError.ErrPermissionDenied)
	}

	if request.PresetID != nil {
		if err := s.applyPreset(ctx, request); err != nil {
			return nil, err
		}
	}

	duration := request.DefaultSessionDuration
	if duration == 0 {
		duration = 50
	}

	var created *model.Program
	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		program := &model.Program{
			ProgramName:            request.ProgramName,
			RegistrationType:       model.RegistrationTypeNew,
			RegistrationDate:       request.RegistrationDate,
			PaymentDate:            request.PaymentDate,
			TotalAmount:            request.TotalAmount,
			TotalSessions:          request.TotalSessions,
			UnitPrice:              model.UnitPriceFor(request.TotalAmount, request.TotalSessions),
			CompletedSessions:      0,
			Status:                 model.ProgramStatusActive,
			BranchID:               request.BranchID,
			DefaultSessionDuration: duration,
			FixedTrainerFee:        request.FixedTrainerFee,
			Memo:                   request.Memo,
		}
		if err := s.programRepository.Create(ctx, tx, program); err != nil {
			return fmt.Errorf("프로그램 등록 실패: %w", err)
		}

		if err := s.replaceLinks(ctx, tx, program.ID, request.MemberIDs, request.TrainerIDs, request.SessionTrainers, request.SessionFees); err != nil {
			return err
		}

		created = program
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, caller, auditlog.ActionCreate, "program", created.ID, &created.BranchID, created.ProgramName)
	log.Info("프로그램 등록", "program_id", created.ID, "total_sessions", created.TotalSessions, "unit_price", created.UnitPrice)

	return s.respond(ctx, created.ID)
}

func (s *ProgramService) Get(ctx context.Context, caller scope.Caller, programID uint32) (*ProgramResponse, error) {
	program, err := s.findVisible(ctx, caller, programID)
	if err != nil {
		return nil, err
	}

	resp := toProgramResponse(program)
	return &resp, nil
}

func (s *ProgramService) List(ctx context.Context, caller scope.Caller) (*ListProgramsResponse, error) {
	var (
		programs []model.Program
		err      error
	)

	switch {
	case caller.IsAdmin():
		programs, err = s.programRepository.List(ctx, s.db)
	case caller.IsManager():
		if len(caller.BranchIDs) == 0 {
			programs = nil
		} else {
			programs, err = s.programRepository.ListByBranches(ctx, s.db, caller.BranchIDs)
		}
	case caller.IsTrainer():
		// 트레이너는 소속 지점 전체를 받아 담당 프로그램만 남긴다.
		programs, err = s.programRepository.ListByBranches(ctx, s.db, caller.BranchIDs)
	default:
		return nil, fmt.Errorf("프로그램 목록 조회 거부: %w", sharedError.ErrPermissionDenied)
	}
	if err != nil {
		return nil, fmt.Errorf("프로그램 목록 조회 실패: %w", err)
	}

	resp := &ListProgramsResponse{Programs: make([]ProgramResponse, 0, len(programs))}
	for i := range programs {
		p := &programs[i]
		if !caller.CanViewProgram(p.BranchID, p.TrainerIDs()) {
			continue
		}
		resp.Programs = append(resp.Programs, toProgramResponse(p))
	}
	return resp, nil
}

// Update patches a program. Amount or session-count changes recompute the
// unit price and re-run the ledger recount, which may flip the status.
func (s *ProgramService) Update(ctx context.Context, caller scope.Caller, programID uint32, request *UpdateProgramRequest) (*ProgramResponse, error) {
	log := logger.FromContext(ctx)

	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		program, err := s.programRepository.FindByID(ctx, tx, programID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("프로그램을 찾을 수 없습니다 programID=%d %w", programID, ErrProgramNotFound)
			}
			return fmt.Errorf("프로그램 조회 실패: %w", err)
		}
		if !caller.CanManageBranchData(program.BranchID) {
			return fmt.Errorf("프로그램 수정 거부 programID=%d: %w", programID, ErrProgramNotFound)
		}

		pricingChanged := applyProgramPatch(program, request)

		if err := s.programRepository.Save(ctx, tx, program); err != nil {
			return fmt.Errorf("프로그램 수정 실패: %w", err)
		}

		if request.MemberIDs != nil {
			if err := s.programRepository.ReplaceMembers(ctx, tx, programID, *request.MemberIDs); err != nil {
				return fmt.Errorf("프로그램 회원 변경 실패: %w", err)
			}
		}
		if request.TrainerIDs != nil {
			if err := s.programRepository.ReplaceTrainers(ctx, tx, programID, *request.TrainerIDs); err != nil {
				return fmt.Errorf("프로그램 트레이너 변경 실패: %w", err)
			}
		}
		if request.SessionTrainers != nil {
			if err := s.programRepository.ReplaceSessionTrainers(ctx, tx, programID, *request.SessionTrainers); err != nil {
				return fmt.Errorf("회차별 담당 변경 실패: %w", err)
			}
		}
		if request.SessionFees != nil {
			if err := s.programRepository.ReplaceSessionFees(ctx, tx, programID, *request.SessionFees); err != nil {
				return fmt.Errorf("회차별 수수료 변경 실패: %w", err)
			}
		}

		// 총액/횟수/상태가 바뀌면 장부를 다시 계산한다.
		if pricingChanged || request.Status != nil {
			if err := s.ledger.Recount(ctx, tx, programID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, caller, auditlog.ActionUpdate, "program", programID, nil, "")
	log.Info("프로그램 수정", "program_id", programID)

	return s.respond(ctx, programID)
}

// Delete removes a program together with every one of its sessions. Completed
// sessions vanish from settlements as well; the audit row is what remains.
func (s *ProgramService) Delete(ctx context.Context, caller scope.Caller, programID uint32) error {
	log := logger.FromContext(ctx)

	var branchID uint32
	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		program, err := s.programRepository.FindByID(ctx, tx, programID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("프로그램을 찾을 수 없습니다 programID=%d %w", programID, ErrProgramNotFound)
			}
			return fmt.Errorf("프로그램 조회 실패: %w", err)
		}
		if !caller.CanManageBranchData(program.BranchID) {
			return fmt.Errorf("프로그램 삭제 거부 programID=%d: %w", programID, ErrProgramNotFound)
		}

		branchID = program.BranchID
		if err := s.programRepository.DeleteCascade(ctx, tx, programID); err != nil {
			return fmt.Errorf("프로그램 삭제 실패: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, caller, auditlog.ActionDelete, "program", programID, &branchID, "")
	log.Info("프로그램 삭제", "program_id", programID)
	return nil
}

// ReRegister clones an expired program as a fresh 재등록 program: same
// members, trainers and fee setup, reset ledger, new id. The original stays
// untouched for history.
func (s *ProgramService) ReRegister(ctx context.Context, caller scope.Caller, programID uint32, request *ReRegisterProgramRequest) (*ProgramResponse, error) {
	log := logger.FromContext(ctx)

	var created *model.Program
	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		original, err := s.programRepository.FindByID(ctx, tx, programID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("프로그램을 찾을 수 없습니다 programID=%d %w", programID, ErrProgramNotFound)
			}
			return fmt.Errorf("프로그램 조회 실패: %w", err)
		}
		if !caller.CanManageBranchData(original.BranchID) {
			return fmt.Errorf("프로그램 재등록 거부 programID=%d: %w", programID, ErrProgramNotFound)
		}
		if original.Status != model.ProgramStatusExpired {
			return fmt.Errorf("error %w", ErrProgramNotExpired)
		}

		totalAmount := original.TotalAmount
		if request.TotalAmount != nil {
			totalAmount = *request.TotalAmount
		}
		totalSessions := original.TotalSessions
		if request.TotalSessions != nil {
			totalSessions = *request.TotalSessions
		}

		clone := &model.Program{
			ProgramName:            original.ProgramName,
			RegistrationType:       model.RegistrationTypeRenew,
			RegistrationDate:       request.RegistrationDate,
			PaymentDate:            request.PaymentDate,
			TotalAmount:            totalAmount,
			TotalSessions:          totalSessions,
			UnitPrice:              model.UnitPriceFor(totalAmount, totalSessions),
			CompletedSessions:      0,
			Status:                 model.ProgramStatusActive,
			BranchID:               original.BranchID,
			DefaultSessionDuration: original.DefaultSessionDuration,
			FixedTrainerFee:        original.FixedTrainerFee,
			Memo:                   original.Memo,
		}
		if err := s.programRepository.Create(ctx, tx, clone); err != nil {
			return fmt.Errorf("프로그램 재등록 실패: %w", err)
		}

		sessionTrainers := make(map[int]uint32, len(original.SessionTrainers))
		for _, st := range original.SessionTrainers {
			sessionTrainers[st.SessionNumber] = st.TrainerID
		}
		sessionFees := make(map[int]float64, len(original.SessionFees))
		for _, sf := range original.SessionFees {
			sessionFees[sf.SessionNumber] = sf.Fee
		}

		if err := s.replaceLinks(ctx, tx, clone.ID, original.MemberIDs(), orderedTrainerIDs(original), sessionTrainers, sessionFees); err != nil {
			return err
		}

		created = clone
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, caller, auditlog.ActionCreate, "program", created.ID, &created.BranchID, "재등록 원본="+fmt.Sprint(programID))
	log.Info("프로그램 재등록", "program_id", created.ID, "origin_program_id", programID)

	return s.respond(ctx, created.ID)
}

func (s *ProgramService) findVisible(ctx context.Context, caller scope.Caller, programID uint32) (*model.Program, error) {
	program, err := s.programRepository.FindByID(ctx, s.db, programID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("프로그램을 찾을 수 없습니다 programID=%d %w", programID, ErrProgramNotFound)
		}
		return nil, fmt.Errorf("프로그램 조회 실패: %w", err)
	}

	if !caller.CanViewProgram(program.BranchID, program.TrainerIDs()) {
		return nil, fmt.Errorf("프로그램 조회 거부 programID=%d %w", programID, ErrProgramNotFound)
	}
	return program, nil
}

func (s *ProgramService) respond(ctx context.Context, programID uint32) (*ProgramResponse, error) {
	program, err := s.programRepository.FindByID(ctx, s.db, programID)
	if err != nil {
		return nil, fmt.Errorf("프로그램 조회 실패: %w", err)
	}
	resp := toProgramResponse(program)
	return &resp, nil
}

func (s *ProgramService) replaceLinks(ctx context.Context, tx *gorm.DB, programID uint32, memberIDs, trainerIDs []uint32, sessionTrainers map[int]uint32, sessionFees map[int]float64) error {
	if err := s.programRepository.ReplaceMembers(ctx, tx, programID, memberIDs); err != nil {
		return fmt.Errorf("프로그램 회원 연결 실패: %w", err)
	}
	if err := s.programRepository.ReplaceTrainers(ctx, tx, programID, trainerIDs); err != nil {
		return fmt.Errorf("프로그램 트레이너 연결 실패: %w", err)
	}
	if err := s.programRepository.ReplaceSessionTrainers(ctx, tx, programID, sessionTrainers); err != nil {
		return fmt.Errorf("회차별 담당 설정 실패: %w", err)
	}
	if err := s.programRepository.ReplaceSessionFees(ctx, tx, programID, sessionFees); err != nil {
		return fmt.Errorf("회차별 수수료 설정 실패: %w", err)
	}
	return nil
}

// applyPreset fills fee-related fields the request left empty from the preset.
// 금액/횟수는 항상 명시 입력을 요구한다.
func (s *ProgramService) applyPreset(ctx context.Context, request *CreateProgramRequest) error {
	preset, err := s.presetRepository.FindByID(ctx, s.db, *request.PresetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("프리셋을 찾을 수 없습니다 presetID=%d %w", *request.PresetID, ErrProgramPresetNotFound)
		}
		return fmt.Errorf("프리셋 조회 실패: %w", err)
	}
	if preset.BranchID != nil && *preset.BranchID != request.BranchID {
		return fmt.Errorf("프리셋 지점 불일치 presetID=%d %w", preset.ID, ErrProgramPresetNotFound)
	}

	if request.DefaultSessionDuration == 0 && preset.DefaultSessionDuration != nil {
		request.DefaultSessionDuration = *preset.DefaultSessionDuration
	}
	if request.FixedTrainerFee == nil && preset.FixedTrainerFee != nil {
		fee := *preset.FixedTrainerFee
		request.FixedTrainerFee = &fee
	}
	if len(request.SessionFees) == 0 && len(preset.SessionFees) > 0 {
		request.SessionFees = make(map[int]float64, len(preset.SessionFees))
		for number, fee := range preset.SessionFees {
			request.SessionFees[number] = fee
		}
	}
	return nil
}

// applyProgramPatch mutates the loaded program and reports whether pricing
// (total amount / total sessions) changed.
func applyProgramPatch(program *model.Program, request *UpdateProgramRequest) bool {
	if request.ProgramName != nil {
		program.ProgramName = *request.ProgramName
	}
	if request.RegistrationDate != nil {
		program.RegistrationDate = *request.RegistrationDate
	}
	if request.PaymentDate != nil {
		program.PaymentDate = *request.PaymentDate
	}
	if request.Status != nil {
		program.Status = *request.Status
	}
	if request.DefaultSessionDuration != nil {
		program.DefaultSessionDuration = *request.DefaultSessionDuration
	}
	if request.FixedTrainerFee != nil {
		program.FixedTrainerFee = request.FixedTrainerFee
	}
	if request.ClearFixedTrainerFee {
		program.FixedTrainerFee = nil
	}
	if request.Memo != nil {
		program.Memo = *request.Memo
	}

	pricingChanged := false
	if request.TotalAmount != nil && *request.TotalAmount != program.TotalAmount {
		program.TotalAmount = *request.TotalAmount
		pricingChanged = true
	}
	if request.TotalSessions != nil && *request.TotalSessions != program.TotalSessions {
		program.TotalSessions = *request.TotalSessions
		pricingChanged = true
	}
	if pricingChanged {
		program.UnitPrice = model.UnitPriceFor(program.TotalAmount, program.TotalSessions)
	}
	return pricingChanged
}
