package program_test

import (
	"context"
	"testing"

	"github.com/minsukim/ptstudio/go-api-server/internal/auditlog"
	"github.com/minsukim/ptstudio/go-api-server/internal/model"
	"github.com/minsukim/ptstudio/go-api-server/internal/program"
	"github.com/minsukim/ptstudio/go-api-server/internal/scope"
	"github.com/minsukim/ptstudio/go-api-server/internal/shared/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type programFixture struct {
	db      *gorm.DB
	service *program.ProgramService

	branchID  uint32
	trainerID uint32
	memberIDs []uint32
}

func newProgramFixture(t *testing.T) *programFixture {
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

	m1 := model.Member{Name: "이영희", Contact: "010-1111-2222", BranchID: branch.ID}
	m2 := model.Member{Name: "최철수", Contact: "010-3333-4444", BranchID: branch.ID}
	require.NoError(t, db.Create(&m1).Error)
	require.NoError(t, db.Create(&m2).Error)

	programRepo := program.NewProgramRepository()
	service := program.NewProgramService(
		db,
		programRepo,
		program.NewPresetRepository(),
		program.NewLedger(db, programRepo),
		auditlog.NewRecorder(db),
	)

	return &programFixture{
		db:        db,
		service:   service,
		branchID:  branch.ID,
		trainerID: coach.ID,
		memberIDs: []uint32{m1.ID, m2.ID},
	}
}

func programAdmin() scope.Caller {
	return scope.Caller{UserID: 1, Role: model.RoleAdmin}
}

func (f *programFixture) createProgram(t *testing.T, totalAmount float64, totalSessions int) *program.ProgramResponse {
	t.Helper()

	response, err := f.service.Create(context.Background(), programAdmin(), &program.CreateProgramRequest{
		ProgramName:      "PT 회원권",
		RegistrationDate: "2026-01-05",
		TotalAmount:      totalAmount,
		TotalSessions:    totalSessions,
		BranchID:         f.branchID,
		MemberIDs:        f.memberIDs,
		TrainerIDs:       []uint32{f.trainerID},
	})
	require.NoError(t, err)
	return response
}

func (f *programFixture) completeSessions(t *testing.T, programID uint32, count int) {
	t.Helper()
	for i := 0; i < count; i++ {
		row := model.Session{
			ProgramID:     programID,
			SessionNumber: i + 1,
			TrainerID:     f.trainerID,
			Date:          "2026-02-02",
			StartTime:     "10:00",
			Duration:      50,
			Status:        model.SessionStatusCompleted,
			TrainerFee:    50000,
			FeeType:       model.RateTypePercentage,
			FeeRate:       0.5,
		}
		require.NoError(t, f.db.Create(&row).Error)
	}
}

func TestCreateProgram_DerivesUnitPrice(t *testing.T) {
	// Given / When: 총액 1,200,000원 10회 프로그램 등록
	f := newProgramFixture(t)
	response := f.createProgram(t, 1200000, 10)

	// Then: 단가는 서버가 계산한다
	assert.Equal(t, float64(120000), response.UnitPrice)
	assert.Equal(t, model.ProgramStatusActive, response.Status)
	assert.Equal(t, model.RegistrationTypeNew, response.RegistrationType)
	assert.Equal(t, 0, response.CompletedSessions)
	assert.Equal(t, f.trainerID, response.TrainerID)
	assert.ElementsMatch(t, f.memberIDs, response.MemberIDs)
	assert.Equal(t, 50, response.DefaultSessionDuration) // 기본값
}

func TestCreateProgram_AppliesPreset(t *testing.T) {
	// Given: 고정 수수료 30,000원 / 60분 프리셋
	f := newProgramFixture(t)

	fixed := float64(30000)
	duration := 60
	preset := model.ProgramPreset{
		Name:                   "바디프로필 10회",
		TotalAmount:            1000000,
		TotalSessions:          10,
		DefaultSessionDuration: &duration,
		FixedTrainerFee:        &fixed,
	}
	require.NoError(t, f.db.Create(&preset).Error)

	// When: 프리셋을 지정하고 금액/횟수는 명시 입력
	response, err := f.service.Create(context.Background(), programAdmin(), &program.CreateProgramRequest{
		ProgramName:      "바디프로필 10회",
		RegistrationDate: "2026-01-05",
		TotalAmount:      900000,
		TotalSessions:    10,
		BranchID:         f.branchID,
		MemberIDs:        f.memberIDs[:1],
		TrainerIDs:       []uint32{f.trainerID},
		PresetID:         &preset.ID,
	})

	// Then: 수수료 설정은 프리셋에서, 금액은 요청에서 온다
	require.NoError(t, err)
	require.NotNil(t, response.FixedTrainerFee)
	assert.Equal(t, fixed, *response.FixedTrainerFee)
	assert.Equal(t, duration, response.DefaultSessionDuration)
	assert.Equal(t, float64(900000), response.TotalAmount)
	assert.Equal(t, float64(90000), response.UnitPrice)
}

func TestUpdateProgram_PricingChangeRecounts(t *testing.T) {
	// Given: 10회 중 2회 완료된 프로그램
	f := newProgramFixture(t)
	created := f.createProgram(t, 1000000, 10)
	f.completeSessions(t, created.ID, 2)

	// When: 총 횟수를 2회로 줄인다
	two := 2
	response, err := f.service.Update(context.Background(), programAdmin(), created.ID, &program.UpdateProgramRequest{
		TotalSessions: &two,
	})

	// Then: 단가 재계산, 장부 재집계로 만료 전환
	require.NoError(t, err)
	assert.Equal(t, float64(500000), response.UnitPrice)
	assert.Equal(t, 2, response.CompletedSessions)
	assert.Equal(t, model.ProgramStatusExpired, response.Status)

	// When: 다시 10회로 늘린다
	ten := 10
	response, err = f.service.Update(context.Background(), programAdmin(), created.ID, &program.UpdateProgramRequest{
		TotalSessions: &ten,
	})

	// Then: 유효로 복귀
	require.NoError(t, err)
	assert.Equal(t, model.ProgramStatusActive, response.Status)
}

func TestUpdateProgram_SuspensionSurvivesRecount(t *testing.T) {
	// Given: 수동 정지된 프로그램
	f := newProgramFixture(t)
	created := f.createProgram(t, 1000000, 10)

	suspended := model.ProgramStatusSuspended
	_, err := f.service.Update(context.Background(), programAdmin(), created.ID, &program.UpdateProgramRequest{
		Status: &suspended,
	})
	require.NoError(t, err)

	// When: 금액 변경으로 장부 재집계가 돈다
	amount := float64(800000)
	response, err := f.service.Update(context.Background(), programAdmin(), created.ID, &program.UpdateProgramRequest{
		TotalAmount: &amount,
	})

	// Then: 정지는 자동으로 풀리지 않는다
	require.NoError(t, err)
	assert.Equal(t, model.ProgramStatusSuspended, response.Status)
	assert.Equal(t, float64(80000), response.UnitPrice)
}

func TestReRegister_RequiresExpired(t *testing.T) {
	// Given: 아직 유효한 프로그램
	f := newProgramFixture(t)
	created := f.createProgram(t, 1000000, 10)

	// When
	_, err := f.service.ReRegister(context.Background(), programAdmin(), created.ID, &program.ReRegisterProgramRequest{
		RegistrationDate: "2026-04-01",
	})

	// Then
	assert.ErrorIs(t, err, program.ErrProgramNotExpired)
}

func TestReRegister_ClonesWithFreshLedger(t *testing.T) {
	// Given: 만료까지 소진된 프로그램
	f := newProgramFixture(t)
	created := f.createProgram(t, 1000000, 2)
	f.completeSessions(t, created.ID, 2)
	require.NoError(t, f.db.Model(&model.Program{}).
		Where("id = ?", created.ID).
		Updates(map[string]any{"completed_sessions": 2, "status": model.ProgramStatusExpired}).Error)

	// When: 횟수만 20회로 바꿔 재등록
	twenty := 20
	clone, err := f.service.ReRegister(context.Background(), programAdmin(), created.ID, &program.ReRegisterProgramRequest{
		RegistrationDate: "2026-04-01",
		TotalSessions:    &twenty,
	})

	// Then: 새 ID, 재등록 유형, 초기화된 장부, 구성원 승계
	require.NoError(t, err)
	assert.NotEqual(t, created.ID, clone.ID)
	assert.Equal(t, model.RegistrationTypeRenew, clone.RegistrationType)
	assert.Equal(t, model.ProgramStatusActive, clone.Status)
	assert.Equal(t, 0, clone.CompletedSessions)
	assert.Equal(t, 20, clone.TotalSessions)
	assert.Equal(t, float64(50000), clone.UnitPrice) // 1,000,000 / 20
	assert.ElementsMatch(t, created.MemberIDs, clone.MemberIDs)
	assert.Equal(t, created.TrainerIDs, clone.TrainerIDs)

	// 원본은 이력으로 그대로 남는다
	var original model.Program
	require.NoError(t, f.db.Where("id = ?", created.ID).First(&original).Error)
	assert.Equal(t, model.ProgramStatusExpired, original.Status)
	assert.Equal(t, 2, original.CompletedSessions)
}
