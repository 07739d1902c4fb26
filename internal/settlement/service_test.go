package settlement_test

import (
	"context"
	"testing"

	"github.com/minsukim/ptstudio/go-api-server/internal/model"
	"github.com/minsukim/ptstudio/go-api-server/internal/scope"
	"github.com/minsukim/ptstudio/go-api-server/internal/settlement"
	"github.com/minsukim/ptstudio/go-api-server/internal/shared/testutil"
	"github.com/minsukim/ptstudio/go-api-server/internal/trainer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type settlementFixture struct {
	db      *gorm.DB
	service *settlement.SettlementService

	branchID uint32
}

func newSettlementFixture(t *testing.T) *settlementFixture {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() {
		testutil.CleanupTestDB(t, db)
	})

	branch := model.Branch{Name: "강남점"}
	require.NoError(t, db.Create(&branch).Error)

	return &settlementFixture{
		db:       db,
		service:  settlement.NewSettlementService(db, trainer.NewTrainerRepository()),
		branchID: branch.ID,
	}
}

func (f *settlementFixture) createTrainer(t *testing.T, name string, branchID uint32) uint32 {
	t.Helper()

	coach := model.Trainer{Name: name, IsActive: true, Color: "#FF5733"}
	require.NoError(t, f.db.Create(&coach).Error)
	require.NoError(t, f.db.Create(&model.TrainerBranch{TrainerID: coach.ID, BranchID: branchID}).Error)
	return coach.ID
}

func (f *settlementFixture) createProgram(t *testing.T, branchID uint32) uint32 {
	t.Helper()

	prog := model.Program{
		ProgramName:      "PT 10회",
		RegistrationType: model.RegistrationTypeNew,
		RegistrationDate: "2026-01-05",
		TotalAmount:      1000000,
		TotalSessions:    10,
		UnitPrice:        100000,
		Status:           model.ProgramStatusActive,
		BranchID:         branchID,
	}
	require.NoError(t, f.db.Create(&prog).Error)
	return prog.ID
}

func (f *settlementFixture) createCompleted(t *testing.T, programID, trainerID uint32, date string, fee float64, sessionFee *float64) {
	t.Helper()

	row := model.Session{
		ProgramID:     programID,
		SessionNumber: 1,
		TrainerID:     trainerID,
		Date:          date,
		StartTime:     "10:00",
		Duration:      50,
		Status:        model.SessionStatusCompleted,
		TrainerFee:    fee,
		FeeType:       model.RateTypePercentage,
		FeeRate:       0.5,
		SessionFee:    sessionFee,
	}
	require.NoError(t, f.db.Create(&row).Error)
}

func settlementAdmin() scope.Caller {
	return scope.Caller{UserID: 1, Role: model.RoleAdmin}
}

func TestAggregate_SortsByTotalFeeDesc(t *testing.T) {
	// Given: 수수료 합계가 다른 트레이너 둘과 실적 없는 트레이너 하나
	f := newSettlementFixture(t)
	low := f.createTrainer(t, "박코치", f.branchID)
	high := f.createTrainer(t, "정코치", f.branchID)
	idle := f.createTrainer(t, "한코치", f.branchID)

	programID := f.createProgram(t, f.branchID)
	f.createCompleted(t, programID, low, "2026-03-02", 50000, nil)
	f.createCompleted(t, programID, high, "2026-03-03", 50000, nil)
	f.createCompleted(t, programID, high, "2026-03-04", 50000, nil)

	// When
	response, err := f.service.Aggregate(context.Background(), settlementAdmin(), "2026-03-01", "2026-03-31", nil)

	// Then: 합계 내림차순, 실적 없는 트레이너도 0원으로 포함
	require.NoError(t, err)
	require.Len(t, response.Trainers, 3)

	assert.Equal(t, high, response.Trainers[0].TrainerID)
	assert.Equal(t, float64(100000), response.Trainers[0].TotalFee)
	assert.Equal(t, 2, response.Trainers[0].CompletedCount)

	assert.Equal(t, low, response.Trainers[1].TrainerID)
	assert.Equal(t, float64(50000), response.Trainers[1].TotalFee)

	assert.Equal(t, idle, response.Trainers[2].TrainerID)
	assert.Equal(t, float64(0), response.Trainers[2].TotalFee)
	assert.Equal(t, 0, response.Trainers[2].CompletedCount)
}

func TestAggregate_PrefersManualSessionFee(t *testing.T) {
	// Given: 완료 시 45,000원으로 수기 조정된 세션
	f := newSettlementFixture(t)
	coach := f.createTrainer(t, "박코치", f.branchID)
	programID := f.createProgram(t, f.branchID)

	adjusted := float64(45000)
	f.createCompleted(t, programID, coach, "2026-03-02", 50000, &adjusted)
	f.createCompleted(t, programID, coach, "2026-03-03", 50000, nil)

	// When
	response, err := f.service.Aggregate(context.Background(), settlementAdmin(), "2026-03-01", "2026-03-31", nil)

	// Then: 조정 금액이 계산 수수료를 대체한다
	require.NoError(t, err)
	require.Len(t, response.Trainers, 1)
	assert.Equal(t, float64(95000), response.Trainers[0].TotalFee)
	assert.Equal(t, 2, response.Trainers[0].CompletedCount)
}

func TestAggregate_DateRangeInclusive(t *testing.T) {
	// Given: 기간 경계 안팎의 완료 세션
	f := newSettlementFixture(t)
	coach := f.createTrainer(t, "박코치", f.branchID)
	programID := f.createProgram(t, f.branchID)

	f.createCompleted(t, programID, coach, "2026-02-28", 50000, nil) // 기간 밖
	f.createCompleted(t, programID, coach, "2026-03-01", 50000, nil) // 시작일
	f.createCompleted(t, programID, coach, "2026-03-31", 50000, nil) // 종료일
	f.createCompleted(t, programID, coach, "2026-04-01", 50000, nil) // 기간 밖

	// When
	response, err := f.service.Aggregate(context.Background(), settlementAdmin(), "2026-03-01", "2026-03-31", nil)

	// Then: 양 끝 날짜 포함, 밖은 제외
	require.NoError(t, err)
	require.Len(t, response.Trainers, 1)
	assert.Equal(t, 2, response.Trainers[0].CompletedCount)
	assert.Equal(t, float64(100000), response.Trainers[0].TotalFee)
}

func TestAggregate_BranchFilter(t *testing.T) {
	// Given: 두 지점에서 활동하는 트레이너
	f := newSettlementFixture(t)
	other := model.Branch{Name: "판교점"}
	require.NoError(t, f.db.Create(&other).Error)

	coach := f.createTrainer(t, "박코치", f.branchID)
	require.NoError(t, f.db.Create(&model.TrainerBranch{TrainerID: coach, BranchID: other.ID}).Error)

	mainProgram := f.createProgram(t, f.branchID)
	otherProgram := f.createProgram(t, other.ID)
	f.createCompleted(t, mainProgram, coach, "2026-03-02", 50000, nil)
	f.createCompleted(t, otherProgram, coach, "2026-03-03", 60000, nil)

	// When: 강남점만 집계
	response, err := f.service.Aggregate(context.Background(), settlementAdmin(), "2026-03-01", "2026-03-31", &f.branchID)

	// Then: 해당 지점 프로그램의 세션만 합산된다
	require.NoError(t, err)
	require.Len(t, response.Trainers, 1)
	assert.Equal(t, 1, response.Trainers[0].CompletedCount)
	assert.Equal(t, float64(50000), response.Trainers[0].TotalFee)
}

func TestAggregate_ManagerScopedToOwnBranches(t *testing.T) {
	// Given: 담당 지점과 타 지점 양쪽에서 활동하는 트레이너
	f := newSettlementFixture(t)
	other := model.Branch{Name: "판교점"}
	require.NoError(t, f.db.Create(&other).Error)

	coach := f.createTrainer(t, "박코치", f.branchID)
	require.NoError(t, f.db.Create(&model.TrainerBranch{TrainerID: coach, BranchID: other.ID}).Error)

	managedProgram := f.createProgram(t, f.branchID)
	unmanagedProgram := f.createProgram(t, other.ID)
	f.createCompleted(t, managedProgram, coach, "2026-03-02", 30000, nil)
	f.createCompleted(t, unmanagedProgram, coach, "2026-03-03", 50000, nil)

	manager := scope.Caller{UserID: 3, Role: model.RoleManager, BranchIDs: []uint32{f.branchID}}

	// When: 지점 필터 없이 전체 집계
	response, err := f.service.Aggregate(context.Background(), manager, "2026-03-01", "2026-03-31", nil)

	// Then: 타 지점 세션은 합산되지 않는다
	require.NoError(t, err)
	require.Len(t, response.Trainers, 1)
	assert.Equal(t, coach, response.Trainers[0].TrainerID)
	assert.Equal(t, 1, response.Trainers[0].CompletedCount)
	assert.Equal(t, float64(30000), response.Trainers[0].TotalFee)
}

func TestAggregate_TrainerSeesOnlySelf(t *testing.T) {
	// Given: 트레이너 둘의 실적
	f := newSettlementFixture(t)
	me := f.createTrainer(t, "박코치", f.branchID)
	peer := f.createTrainer(t, "정코치", f.branchID)

	programID := f.createProgram(t, f.branchID)
	f.createCompleted(t, programID, me, "2026-03-02", 50000, nil)
	f.createCompleted(t, programID, peer, "2026-03-03", 60000, nil)

	caller := scope.Caller{UserID: 2, Role: model.RoleTrainer, TrainerID: me, BranchIDs: []uint32{f.branchID}}

	// When
	response, err := f.service.Aggregate(context.Background(), caller, "2026-03-01", "2026-03-31", nil)

	// Then: 본인 행만 내려간다
	require.NoError(t, err)
	require.Len(t, response.Trainers, 1)
	assert.Equal(t, me, response.Trainers[0].TrainerID)
	assert.Equal(t, float64(50000), response.Trainers[0].TotalFee)
}

func TestAggregate_BadRange(t *testing.T) {
	f := newSettlementFixture(t)

	// 종료일이 시작일보다 앞서는 경우
	_, err := f.service.Aggregate(context.Background(), settlementAdmin(), "2026-03-31", "2026-03-01", nil)
	assert.ErrorIs(t, err, settlement.ErrSettlementBadRange)

	// 날짜 형식 오류
	_, err = f.service.Aggregate(context.Background(), settlementAdmin(), "03-01-2026", "2026-03-31", nil)
	assert.ErrorIs(t, err, settlement.ErrSettlementBadRange)
}
