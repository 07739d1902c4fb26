package session

import (
	"context"
	"testing"
	"time"

	"github.com/minsukim/ptstudio/go-api-server/internal/auditlog"
	"github.com/minsukim/ptstudio/go-api-server/internal/model"
	"github.com/minsukim/ptstudio/go-api-server/internal/program"
	"github.com/minsukim/ptstudio/go-api-server/internal/scope"
	sharedError "github.com/minsukim/ptstudio/go-api-server/internal/shared/error"
	"github.com/minsukim/ptstudio/go-api-server/internal/shared/testutil"
	"github.com/minsukim/ptstudio/go-api-server/internal/trainer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	service *SessionService

	branchID  uint32
	trainerID uint32
	programID uint32
	memberIDs []uint32
}

func adminCaller() scope.Caller {
	return scope.Caller{UserID: 1, Role: model.RoleAdmin}
}

// newFixture seeds 지점 1곳, 요율 50% 트레이너, 회원 2명, 유효 프로그램
// (회당 단가 100,000원).
func newFixture(t *testing.T, totalSessions int) *fixture {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() {
		testutil.CleanupTestDB(t, db)
	})

	branch := model.Branch{Name: "강남점"}
	require.NoError(t, db.Create(&branch).Error)

	coach := model.Trainer{Name: "박코치", IsActive: true, Color: "#FF5733"}
	require.NoError(t, db.Create(&coach).Error)
	require.NoError(t, db.Create(&model.TrainerBranch{TrainerID: coach.ID, BranchID: branch.ID}).Error)
	require.NoError(t, db.Create(&model.TrainerBranchRate{
		TrainerID: coach.ID, BranchID: branch.ID,
		RateType: model.RateTypePercentage, RateValue: 0.5,
	}).Error)

	m1 := model.Member{Name: "이영희", Contact: "010-1111-2222", BranchID: branch.ID}
	m2 := model.Member{Name: "최철수", Contact: "010-3333-4444", BranchID: branch.ID}
	require.NoError(t, db.Create(&m1).Error)
	require.NoError(t, db.Create(&m2).Error)

	prog := model.Program{
		ProgramName:            "PT 10회",
		RegistrationType:       model.RegistrationTypeNew,
		RegistrationDate:       "2026-01-05",
		TotalAmount:            float64(totalSessions) * 100000,
		TotalSessions:          totalSessions,
		UnitPrice:              100000,
		Status:                 model.ProgramStatusActive,
		BranchID:               branch.ID,
		DefaultSessionDuration: 50,
	}
	require.NoError(t, db.Create(&prog).Error)
	require.NoError(t, db.Create(&model.ProgramMember{ProgramID: prog.ID, MemberID: m1.ID}).Error)
	require.NoError(t, db.Create(&model.ProgramMember{ProgramID: prog.ID, MemberID: m2.ID}).Error)
	require.NoError(t, db.Create(&model.ProgramTrainer{ProgramID: prog.ID, TrainerID: coach.ID, Position: 0}).Error)

	programRepo := program.NewProgramRepository()
	service := NewSessionService(
		db,
		NewSessionRepository(),
		programRepo,
		trainer.NewTrainerRepository(),
		program.NewLedger(db, programRepo),
		auditlog.NewRecorder(db),
	)

	return &fixture{
		db:        db,
		service:   service,
		branchID:  branch.ID,
		trainerID: coach.ID,
		programID: prog.ID,
		memberIDs: []uint32{m1.ID, m2.ID},
	}
}

func (f *fixture) loadProgram(t *testing.T) model.Program {
	t.Helper()
	var prog model.Program
	require.NoError(t, f.db.Where("id = ?", f.programID).First(&prog).Error)
	return prog
}

func TestBook_MultiMemberPartialFailure(t *testing.T) {
	// Given: 회원 2명이 등록된 프로그램
	f := newFixture(t, 10)

	// When: 등록 회원 2명 + 미등록 회원 1명으로 예약
	response, err := f.service.Book(context.Background(), adminCaller(), &BookSessionRequest{
		ProgramID:     f.programID,
		SessionNumber: 1,
		Date:          "2026-03-02",
		StartTime:     "10:00",
		MemberIDs:     []uint32{f.memberIDs[0], f.memberIDs[1], 999},
	})

	// Then: 성공분 2건 유지, 실패 회원 보고
	require.NoError(t, err)
	assert.Len(t, response.Sessions, 2)
	assert.Equal(t, []uint32{999}, response.FailedMemberIDs)

	// 수수료: 단가 100,000 x 50% = 50,000
	for _, s := range response.Sessions {
		assert.Equal(t, float64(50000), s.TrainerFee)
		assert.Equal(t, model.RateTypePercentage, s.FeeType)
		assert.Equal(t, 0.5, s.StoredRate)
		assert.Equal(t, model.SessionStatusBooked, s.Status)
		assert.Equal(t, 50, s.Duration) // 프로그램 기본값
	}
}

func TestBook_FixedFeeProgramRendersLegacyRate(t *testing.T) {
	// Given: 고정 수수료 30,000원 프로그램
	f := newFixture(t, 10)
	fixed := float64(30000)
	require.NoError(t, f.db.Model(&model.Program{}).
		Where("id = ?", f.programID).
		Update("fixed_trainer_fee", fixed).Error)

	// When
	response, err := f.service.Book(context.Background(), adminCaller(), &BookSessionRequest{
		ProgramID:     f.programID,
		SessionNumber: 1,
		Date:          "2026-03-02",
		StartTime:     "10:00",
		MemberIDs:     []uint32{f.memberIDs[0]},
	})

	// Then: 요율 대신 고정 금액, 구 클라이언트 표기는 -1
	require.NoError(t, err)
	require.Len(t, response.Sessions, 1)
	assert.Equal(t, fixed, response.Sessions[0].TrainerFee)
	assert.Equal(t, model.RateTypeFixed, response.Sessions[0].FeeType)
	assert.Equal(t, float64(-1), response.Sessions[0].StoredRate)
}

func TestBook_ClosedProgramRefused(t *testing.T) {
	// Given: 정지된 프로그램
	f := newFixture(t, 10)
	require.NoError(t, f.db.Model(&model.Program{}).
		Where("id = ?", f.programID).
		Update("status", model.ProgramStatusSuspended).Error)

	// When
	_, err := f.service.Book(context.Background(), adminCaller(), &BookSessionRequest{
		ProgramID:     f.programID,
		SessionNumber: 1,
		Date:          "2026-03-02",
		StartTime:     "10:00",
		MemberIDs:     []uint32{f.memberIDs[0]},
	})

	// Then
	assert.ErrorIs(t, err, ErrSessionProgramClosed)
}

func TestComplete_TimeGate(t *testing.T) {
	// Given: 아직 시작하지 않은 세션
	f := newFixture(t, 10)
	f.service.now = func() time.Time {
		return time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)
	}

	response, err := f.service.Book(context.Background(), adminCaller(), &BookSessionRequest{
		ProgramID:     f.programID,
		SessionNumber: 1,
		Date:          "2026-03-02",
		StartTime:     "10:00",
		MemberIDs:     []uint32{f.memberIDs[0]},
	})
	require.NoError(t, err)
	sessionID := response.Sessions[0].ID

	// When: 시작 1시간 전에 완료 시도
	_, err = f.service.Complete(context.Background(), adminCaller(), sessionID, &CompleteSessionRequest{})

	// Then: 시간 게이트에 걸린다
	assert.ErrorIs(t, err, ErrSessionNotStarted)

	// When: 시작 시각 이후에는 완료된다
	f.service.now = func() time.Time {
		return time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local)
	}
	completed, err := f.service.Complete(context.Background(), adminCaller(), sessionID, &CompleteSessionRequest{})
	require.NoError(t, err)
	assert.Equal(t, model.SessionStatusCompleted, completed.Status)
	assert.NotNil(t, completed.CompletedAt)
}

func TestComplete_RecountsLedgerAndExpires(t *testing.T) {
	// Given: 총 2회 프로그램에 2건 예약
	f := newFixture(t, 2)
	f.service.now = func() time.Time {
		return time.Date(2026, 3, 2, 12, 0, 0, 0, time.Local)
	}

	response, err := f.service.Book(context.Background(), adminCaller(), &BookSessionRequest{
		ProgramID:     f.programID,
		SessionNumber: 1,
		Date:          "2026-03-02",
		StartTime:     "10:00",
		MemberIDs:     f.memberIDs,
	})
	require.NoError(t, err)
	require.Len(t, response.Sessions, 2)

	// When: 1건 완료
	_, err = f.service.Complete(context.Background(), adminCaller(), response.Sessions[0].ID, &CompleteSessionRequest{})
	require.NoError(t, err)

	// Then: 장부 1, 아직 유효
	prog := f.loadProgram(t)
	assert.Equal(t, 1, prog.CompletedSessions)
	assert.Equal(t, model.ProgramStatusActive, prog.Status)

	// When: 나머지 1건 완료
	_, err = f.service.Complete(context.Background(), adminCaller(), response.Sessions[1].ID, &CompleteSessionRequest{})
	require.NoError(t, err)

	// Then: 총 횟수 도달, 만료
	prog = f.loadProgram(t)
	assert.Equal(t, 2, prog.CompletedSessions)
	assert.Equal(t, model.ProgramStatusExpired, prog.Status)
}

func TestRevert_RoundTrip(t *testing.T) {
	// Given: 만료까지 완료된 프로그램
	f := newFixture(t, 1)
	f.service.now = func() time.Time {
		return time.Date(2026, 3, 2, 12, 0, 0, 0, time.Local)
	}

	response, err := f.service.Book(context.Background(), adminCaller(), &BookSessionRequest{
		ProgramID:     f.programID,
		SessionNumber: 1,
		Date:          "2026-03-02",
		StartTime:     "10:00",
		MemberIDs:     []uint32{f.memberIDs[0]},
	})
	require.NoError(t, err)
	sessionID := response.Sessions[0].ID

	adjusted := float64(45000)
	_, err = f.service.Complete(context.Background(), adminCaller(), sessionID, &CompleteSessionRequest{SessionFee: &adjusted})
	require.NoError(t, err)
	require.Equal(t, model.ProgramStatusExpired, f.loadProgram(t).Status)

	// When: 관리자가 되돌린다
	reverted, err := f.service.Revert(context.Background(), adminCaller(), sessionID)
	require.NoError(t, err)

	// Then: booked로 복귀, 수기 조정 금액과 완료 시각 삭제, 프로그램 재활성화
	assert.Equal(t, model.SessionStatusBooked, reverted.Status)
	assert.Nil(t, reverted.CompletedAt)
	assert.Nil(t, reverted.SessionFee)

	prog := f.loadProgram(t)
	assert.Equal(t, 0, prog.CompletedSessions)
	assert.Equal(t, model.ProgramStatusActive, prog.Status)

	// When: 다시 완료하면 원래 상태로 돌아온다
	_, err = f.service.Complete(context.Background(), adminCaller(), sessionID, &CompleteSessionRequest{})
	require.NoError(t, err)
	prog = f.loadProgram(t)
	assert.Equal(t, 1, prog.CompletedSessions)
	assert.Equal(t, model.ProgramStatusExpired, prog.Status)
}

func TestRevert_RequiresAdmin(t *testing.T) {
	// Given: 트레이너 본인의 완료 세션
	f := newFixture(t, 10)
	f.service.now = func() time.Time {
		return time.Date(2026, 3, 2, 12, 0, 0, 0, time.Local)
	}

	trainerCaller := scope.Caller{
		UserID:    2,
		Role:      model.RoleTrainer,
		TrainerID: f.trainerID,
		BranchIDs: []uint32{f.branchID},
	}

	response, err := f.service.Book(context.Background(), trainerCaller, &BookSessionRequest{
		ProgramID:     f.programID,
		SessionNumber: 1,
		Date:          "2026-03-02",
		StartTime:     "10:00",
		MemberIDs:     []uint32{f.memberIDs[0]},
	})
	require.NoError(t, err)
	sessionID := response.Sessions[0].ID

	_, err = f.service.Complete(context.Background(), trainerCaller, sessionID, &CompleteSessionRequest{})
	require.NoError(t, err)

	// When: 트레이너가 되돌리기를 시도
	_, err = f.service.Revert(context.Background(), trainerCaller, sessionID)

	// Then: 본인 세션이어도 거부된다
	assert.ErrorIs(t, err, sharedError.ErrPermissionDenied)
}

func TestDelete_RecountsLedger(t *testing.T) {
	// Given: 완료 세션 1건
	f := newFixture(t, 10)
	f.service.now = func() time.Time {
		return time.Date(2026, 3, 2, 12, 0, 0, 0, time.Local)
	}

	response, err := f.service.Book(context.Background(), adminCaller(), &BookSessionRequest{
		ProgramID:     f.programID,
		SessionNumber: 1,
		Date:          "2026-03-02",
		StartTime:     "10:00",
		MemberIDs:     []uint32{f.memberIDs[0]},
	})
	require.NoError(t, err)
	sessionID := response.Sessions[0].ID

	_, err = f.service.Complete(context.Background(), adminCaller(), sessionID, &CompleteSessionRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, f.loadProgram(t).CompletedSessions)

	// When: 완료 세션 삭제
	require.NoError(t, f.service.Delete(context.Background(), adminCaller(), sessionID))

	// Then: 장부가 다시 줄어든다
	assert.Equal(t, 0, f.loadProgram(t).CompletedSessions)
}

func TestUpdate_TrainerChangeRecomputesFee(t *testing.T) {
	// Given: 고정 20,000원 요율의 두 번째 트레이너
	f := newFixture(t, 10)

	second := model.Trainer{Name: "정코치", IsActive: true, Color: "#3366FF"}
	require.NoError(t, f.db.Create(&second).Error)
	require.NoError(t, f.db.Create(&model.TrainerBranch{TrainerID: second.ID, BranchID: f.branchID}).Error)
	require.NoError(t, f.db.Create(&model.TrainerBranchRate{
		TrainerID: second.ID, BranchID: f.branchID,
		RateType: model.RateTypeFixed, RateValue: 20000,
	}).Error)

	response, err := f.service.Book(context.Background(), adminCaller(), &BookSessionRequest{
		ProgramID:     f.programID,
		SessionNumber: 1,
		Date:          "2026-03-02",
		StartTime:     "10:00",
		MemberIDs:     []uint32{f.memberIDs[0]},
	})
	require.NoError(t, err)
	sessionID := response.Sessions[0].ID
	require.Equal(t, float64(50000), response.Sessions[0].TrainerFee)

	// When: 담당 트레이너 교체
	updated, err := f.service.Update(context.Background(), adminCaller(), sessionID, &UpdateSessionRequest{
		TrainerID: &second.ID,
	})

	// Then: 새 트레이너의 요율로 재계산
	require.NoError(t, err)
	assert.Equal(t, second.ID, updated.TrainerID)
	assert.Equal(t, float64(20000), updated.TrainerFee)
	assert.Equal(t, model.RateTypeFixed, updated.FeeType)
	assert.Equal(t, float64(-1), updated.StoredRate)
}
