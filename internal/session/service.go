package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/minsukim/ptstudio/go-api-server/internal/auditlog"
	"github.com/minsukim/ptstudio/go-api-server/internal/model"
	"github.com/minsukim/ptstudio/go-api-server/internal/program"
	"github.com/minsukim/ptstudio/go-api-server/internal/rate"
	"github.com/minsukim/ptstudio/go-api-server/internal/scope"
	"github.com/minsukim/ptstudio/go-api-server/internal/shared/database"
	sharedError "github.com/minsukim/ptstudio/go-api-server/internal/shared/error"
	"github.com/minsukim/ptstudio/go-api-server/internal/shared/logger"
	"github.com/minsukim/ptstudio/go-api-server/internal/trainer"
	"gorm.io/gorm"
)

type SessionService struct {
	db                *gorm.DB
	sessionRepository *SessionRepository
	programRepository *program.ProgramRepository
	trainerRepository *trainer.TrainerRepository
	ledger            *program.Ledger
	audit             *auditlog.Recorder

	now func() time.Time // 완료 시각 게이트, 테스트에서 고정한다
}

func NewSessionService(
	db *gorm.DB,
	sessionRepository *SessionRepository,
	programRepository *program.ProgramRepository,
	trainerRepository *trainer.TrainerRepository,
	ledger *program.Ledger,
	audit *auditlog.Recorder,
) *SessionService {
	return &SessionService{
		db:                db,
		sessionRepository: sessionRepository,
		programRepository: programRepository,
		trainerRepository: trainerRepository,
		ledger:            ledger,
		audit:             audit,
		now:               time.Now,
	}
}

// Book creates one session row per attending member, all sharing the same
// session number, date and trainer. Members that cannot be booked (not
// enrolled in the program, insert failure) are reported back; the rows that
// did succeed are kept.
func (s *SessionService) Book(ctx context.Context, caller scope.Caller, request *BookSessionRequest) (*BookSessionResponse, error) {
	log := logger.FromContext(ctx)

	var (
		booked []model.Session
		failed []uint32
	)

	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		prog, err := s.programRepository.FindByID(ctx, tx, request.ProgramID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("프로그램을 찾을 수 없습니다 programID=%d %w", request.ProgramID, ErrSessionNotFound)
			}
			return fmt.Errorf("프로그램 조회 실패: %w", err)
		}

		trainerID := resolveSlotTrainer(prog, request.SessionNumber, request.TrainerID)
		if !caller.CanMutateSession(trainerID, prog.BranchID, prog.TrainerIDs()) {
			return fmt.Errorf("세션 예약 거부 programID=%d: %w", request.ProgramID, sharedError.ErrPermissionDenied)
		}
		if prog.Status != model.ProgramStatusActive {
			return fmt.Errorf("error %w", ErrSessionProgramClosed)
		}

		fee, err := s.feeForSlot(ctx, tx, prog, request.SessionNumber, trainerID)
		if err != nil {
			return err
		}

		duration := request.Duration
		if duration == 0 {
			duration = prog.DefaultSessionDuration
		}

		enrolled := make(map[uint32]struct{}, len(prog.Members))
		for _, m := range prog.Members {
			enrolled[m.MemberID] = struct{}{}
		}

		for _, memberID := range request.MemberIDs {
			if _, ok := enrolled[memberID]; !ok {
				failed = append(failed, memberID)
				continue
			}

			row := model.Session{
				ProgramID:         prog.ID,
				SessionNumber:     request.SessionNumber,
				TrainerID:         trainerID,
				Date:              request.Date,
				StartTime:         request.StartTime,
				Duration:          duration,
				Status:            model.SessionStatusBooked,
				AttendedMemberIDs: []uint32{memberID},
				TrainerFee:        fee.Amount,
				FeeType:           fee.Type,
				FeeRate:           fee.Rate,
			}
			if err := s.sessionRepository.Create(ctx, tx, &row); err != nil {
				log.Warn("세션 예약 실패", "program_id", prog.ID, "member_id", memberID, "error", err)
				failed = append(failed, memberID)
				continue
			}
			booked = append(booked, row)
		}

		if len(booked) == 0 {
			return fmt.Errorf("error %w", ErrSessionMembersInvalid)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, row := range booked {
		s.audit.Record(ctx, caller, auditlog.ActionCreate, "session", row.ID, nil, fmt.Sprintf("프로그램 %d %d회차", row.ProgramID, row.SessionNumber))
	}
	log.Info("세션 예약", "program_id", request.ProgramID, "session_number", request.SessionNumber,
		"booked", len(booked), "failed", len(failed))

	resp := &BookSessionResponse{
		Sessions:        make([]SessionResponse, 0, len(booked)),
		FailedMemberIDs: failed,
	}
	for i := range booked {
		resp.Sessions = append(resp.Sessions, toSessionResponse(&booked[i]))
	}
	return resp, nil
}

func (s *SessionService) Get(ctx context.Context, caller scope.Caller, sessionID uint32) (*SessionResponse, error) {
	session, _, err := s.findVisible(ctx, caller, sessionID)
	if err != nil {
		return nil, err
	}

	resp := toSessionResponse(session)
	return &resp, nil
}

// List returns sessions in the date range, scope-filtered. 지점 필터는
// 세션이 속한 프로그램의 지점으로 판정한다.
func (s *SessionService) List(ctx context.Context, caller scope.Caller, filter ListFilter, branchID uint32) (*ListSessionsResponse, error) {
	if !caller.IsApproved() {
		return nil, fmt.Errorf("세션 목록 조회 거부: %w", sharedError.ErrPermissionDenied)
	}

	sessions, err := s.sessionRepository.List(ctx, s.db, filter)
	if err != nil {
		return nil, fmt.Errorf("세션 목록 조회 실패: %w", err)
	}

	programs, err := s.loadPrograms(ctx, sessions)
	if err != nil {
		return nil, err
	}

	resp := &ListSessionsResponse{Sessions: make([]SessionResponse, 0, len(sessions))}
	for i := range sessions {
		row := &sessions[i]
		prog, ok := programs[row.ProgramID]
		if !ok {
			continue
		}
		if branchID != 0 && prog.BranchID != branchID {
			continue
		}
		if !caller.CanViewSession(row.TrainerID, prog.BranchID, prog.TrainerIDs()) {
			continue
		}
		resp.Sessions = append(resp.Sessions, toSessionResponse(row))
	}
	return resp, nil
}

// Update edits a booked session. The fee is recomputed only when the trainer
// changed; date or time moves keep the stored fee.
func (s *SessionService) Update(ctx context.Context, caller scope.Caller, sessionID uint32, request *UpdateSessionRequest) (*SessionResponse, error) {
	log := logger.FromContext(ctx)

	var updated *model.Session
	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		session, prog, err := s.findMutable(ctx, tx, caller, sessionID)
		if err != nil {
			return err
		}
		if session.IsCompleted() {
			return fmt.Errorf("error %w", ErrSessionEditCompleted)
		}

		if request.Date != nil {
			session.Date = *request.Date
		}
		if request.StartTime != nil {
			session.StartTime = *request.StartTime
		}
		if request.Duration != nil {
			session.Duration = *request.Duration
		}
		if request.AttendedMemberIDs != nil {
			if err := validateEnrolled(prog, *request.AttendedMemberIDs); err != nil {
				return err
			}
			session.AttendedMemberIDs = *request.AttendedMemberIDs
		}

		if request.TrainerID != nil && *request.TrainerID != session.TrainerID {
			if !caller.CanMutateSession(*request.TrainerID, prog.BranchID, prog.TrainerIDs()) {
				return fmt.Errorf("세션 담당 변경 거부: %w", sharedError.ErrPermissionDenied)
			}
			session.TrainerID = *request.TrainerID

			fee, err := s.feeForSlot(ctx, tx, prog, session.SessionNumber, session.TrainerID)
			if err != nil {
				return err
			}
			session.TrainerFee = fee.Amount
			session.FeeType = fee.Type
			session.FeeRate = fee.Rate
		}

		if err := s.sessionRepository.Save(ctx, tx, session); err != nil {
			return fmt.Errorf("세션 수정 실패: %w", err)
		}
		updated = session
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, caller, auditlog.ActionUpdate, "session", sessionID, nil, "")
	log.Info("세션 수정", "session_id", sessionID)

	resp := toSessionResponse(updated)
	return &resp, nil
}

// Complete marks a session done. Hard gate: the scheduled start must have
// passed. The stored fee is preserved; SessionFee is an optional manual
// adjustment that settlements prefer over the computed fee.
func (s *SessionService) Complete(ctx context.Context, caller scope.Caller, sessionID uint32, request *CompleteSessionRequest) (*SessionResponse, error) {
	log := logger.FromContext(ctx)

	var completed *model.Session
	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		session, prog, err := s.findMutable(ctx, tx, caller, sessionID)
		if err != nil {
			return err
		}
		if session.IsCompleted() {
			return fmt.Errorf("error %w", ErrSessionAlreadyDone)
		}

		startsAt, err := session.StartsAt()
		if err != nil {
			return err
		}
		now := s.now()
		if now.Before(startsAt) {
			return fmt.Errorf("세션 시작 전 완료 시도 sessionID=%d startsAt=%s %w",
				sessionID, startsAt.Format("2006-01-02 15:04"), ErrSessionNotStarted)
		}

		if request.AttendedMemberIDs != nil {
			if err := validateEnrolled(prog, *request.AttendedMemberIDs); err != nil {
				return err
			}
			session.AttendedMemberIDs = *request.AttendedMemberIDs
		}
		session.SessionFee = request.SessionFee
		session.Status = model.SessionStatusCompleted
		session.CompletedAt = &now

		if err := s.sessionRepository.Save(ctx, tx, session); err != nil {
			return fmt.Errorf("세션 완료 처리 실패: %w", err)
		}
		if err := s.ledger.Recount(ctx, tx, session.ProgramID); err != nil {
			return err
		}
		completed = session
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, caller, auditlog.ActionComplete, "session", sessionID, nil, "")
	log.Info("세션 완료", "session_id", sessionID, "program_id", completed.ProgramID)

	resp := toSessionResponse(completed)
	return &resp, nil
}

// Revert puts a completed session back to booked. Admin only; the manual
// SessionFee adjustment is discarded and the ledger recounted.
func (s *SessionService) Revert(ctx context.Context, caller scope.Caller, sessionID uint32) (*SessionResponse, error) {
	log := logger.FromContext(ctx)

	if !caller.CanRevertSession() {
		return nil, fmt.Errorf("세션 되돌리기 거부: %w", sharedError.ErrPermissionDenied)
	}

	var reverted *model.Session
	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		session, err := s.sessionRepository.FindByID(ctx, tx, sessionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("세션을 찾을 수 없습니다 sessionID=%d %w", sessionID, ErrSessionNotFound)
			}
			return fmt.Errorf("세션 조회 실패: %w", err)
		}
		if !session.IsCompleted() {
			return fmt.Errorf("error %w", ErrSessionNotCompleted)
		}

		session.Status = model.SessionStatusBooked
		session.CompletedAt = nil
		session.SessionFee = nil

		// Save는 nil 포인터 컬럼을 지우지 않으므로 명시적으로 NULL을 쓴다.
		err = tx.WithContext(ctx).Model(&model.Session{}).
			Where("id = ?", sessionID).
			Updates(map[string]any{
				"status":       model.SessionStatusBooked,
				"completed_at": nil,
				"session_fee":  nil,
			}).Error
		if err != nil {
			return fmt.Errorf("세션 되돌리기 실패: %w", err)
		}
		if err := s.ledger.Recount(ctx, tx, session.ProgramID); err != nil {
			return err
		}
		reverted = session
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, caller, auditlog.ActionRevert, "session", sessionID, nil, "")
	log.Info("세션 되돌리기", "session_id", sessionID)

	resp := toSessionResponse(reverted)
	return &resp, nil
}

// Delete removes a session in either status and recounts the ledger.
func (s *SessionService) Delete(ctx context.Context, caller scope.Caller, sessionID uint32) error {
	log := logger.FromContext(ctx)

	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		session, _, err := s.findMutable(ctx, tx, caller, sessionID)
		if err != nil {
			return err
		}

		if err := s.sessionRepository.Delete(ctx, tx, sessionID); err != nil {
			return fmt.Errorf("세션 삭제 실패: %w", err)
		}
		if err := s.ledger.Recount(ctx, tx, session.ProgramID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, caller, auditlog.ActionDelete, "session", sessionID, nil, "")
	log.Info("세션 삭제", "session_id", sessionID)
	return nil
}

func (s *SessionService) findVisible(ctx context.Context, caller scope.Caller, sessionID uint32) (*model.Session, *model.Program, error) {
	session, err := s.sessionRepository.FindByID(ctx, s.db, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("세션을 찾을 수 없습니다 sessionID=%d %w", sessionID, ErrSessionNotFound)
		}
		return nil, nil, fmt.Errorf("세션 조회 실패: %w", err)
	}

	prog, err := s.programRepository.FindByID(ctx, s.db, session.ProgramID)
	if err != nil {
		return nil, nil, fmt.Errorf("프로그램 조회 실패: %w", err)
	}

	if !caller.CanViewSession(session.TrainerID, prog.BranchID, prog.TrainerIDs()) {
		return nil, nil, fmt.Errorf("세션 조회 거부 sessionID=%d %w", sessionID, ErrSessionNotFound)
	}
	return session, prog, nil
}

func (s *SessionService) findMutable(ctx context.Context, tx *gorm.DB, caller scope.Caller, sessionID uint32) (*model.Session, *model.Program, error) {
	session, err := s.sessionRepository.FindByID(ctx, tx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("세션을 찾을 수 없습니다 sessionID=%d %w", sessionID, ErrSessionNotFound)
		}
		return nil, nil, fmt.Errorf("세션 조회 실패: %w", err)
	}

	prog, err := s.programRepository.FindByID(ctx, tx, session.ProgramID)
	if err != nil {
		return nil, nil, fmt.Errorf("프로그램 조회 실패: %w", err)
	}

	if !caller.CanMutateSession(session.TrainerID, prog.BranchID, prog.TrainerIDs()) {
		return nil, nil, fmt.Errorf("세션 접근 거부 sessionID=%d %w", sessionID, ErrSessionNotFound)
	}
	return session, prog, nil
}

// feeForSlot computes the fee to record on a session row.
// 우선순위: 회차별 수수료 오버라이드 > 프로그램 고정 수수료 > 지점 요율.
func (s *SessionService) feeForSlot(ctx context.Context, tx *gorm.DB, prog *model.Program, sessionNumber int, trainerID uint32) (rate.Fee, error) {
	for _, sf := range prog.SessionFees {
		if sf.SessionNumber == sessionNumber {
			return rate.FixedFee(sf.Fee), nil
		}
	}
	if prog.FixedTrainerFee != nil {
		return rate.FixedFee(*prog.FixedTrainerFee), nil
	}

	t, err := s.trainerRepository.FindByID(ctx, tx, trainerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 트레이너 요율을 찾을 수 없으면 기본 배분으로 계산한다.
			return rate.ComputeFee(prog.UnitPrice, nil), nil
		}
		return rate.Fee{}, fmt.Errorf("트레이너 조회 실패 trainerID=%d: %w", trainerID, err)
	}
	return rate.ComputeFee(prog.UnitPrice, rate.Resolve(t.BranchRates, prog.BranchID)), nil
}

func (s *SessionService) loadPrograms(ctx context.Context, sessions []model.Session) (map[uint32]*model.Program, error) {
	seen := make(map[uint32]struct{}, len(sessions))
	ids := make([]uint32, 0, len(sessions))
	for _, row := range sessions {
		if _, ok := seen[row.ProgramID]; ok {
			continue
		}
		seen[row.ProgramID] = struct{}{}
		ids = append(ids, row.ProgramID)
	}
	if len(ids) == 0 {
		return map[uint32]*model.Program{}, nil
	}

	var programs []model.Program
	err := s.db.WithContext(ctx).
		Preload("Trainers").
		Where("id IN ?", ids).
		Find(&programs).Error
	if err != nil {
		return nil, fmt.Errorf("프로그램 조회 실패: %w", err)
	}

	byID := make(map[uint32]*model.Program, len(programs))
	for i := range programs {
		byID[programs[i].ID] = &programs[i]
	}
	return byID, nil
}

// resolveSlotTrainer picks the trainer for a session slot.
// 우선순위: 명시 지정 > 회차별 담당 > 대표(첫 번째) 트레이너.
func resolveSlotTrainer(prog *model.Program, sessionNumber int, explicit *uint32) uint32 {
	if explicit != nil {
		return *explicit
	}
	for _, st := range prog.SessionTrainers {
		if st.SessionNumber == sessionNumber {
			return st.TrainerID
		}
	}

	trainers := make([]model.ProgramTrainer, len(prog.Trainers))
	copy(trainers, prog.Trainers)
	sort.Slice(trainers, func(i, j int) bool { return trainers[i].Position < trainers[j].Position })
	if len(trainers) > 0 {
		return trainers[0].TrainerID
	}
	return 0
}

func validateEnrolled(prog *model.Program, memberIDs []uint32) error {
	enrolled := make(map[uint32]struct{}, len(prog.Members))
	for _, m := range prog.Members {
		enrolled[m.MemberID] = struct{}{}
	}
	for _, id := range memberIDs {
		if _, ok := enrolled[id]; !ok {
			return fmt.Errorf("프로그램 미등록 회원 memberID=%d %w", id, ErrSessionMembersInvalid)
		}
	}
	return nil
}
