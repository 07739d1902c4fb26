package trainer_test

import (
	"context"
	"testing"

	"github.com/minsukim/ptstudio/go-api-server/internal/model"
	"github.com/minsukim/ptstudio/go-api-server/internal/shared/testutil"
	"github.com/minsukim/ptstudio/go-api-server/internal/trainer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type propagatorFixture struct {
	db         *gorm.DB
	propagator *trainer.Propagator

	branchID  uint32
	trainerID uint32
}

func newPropagatorFixture(t *testing.T) *propagatorFixture {
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

	return &propagatorFixture{
		db:         db,
		propagator: trainer.NewPropagator(db, trainer.NewTrainerRepository()),
		branchID:   branch.ID,
		trainerID:  coach.ID,
	}
}

func (f *propagatorFixture) createProgram(t *testing.T, branchID uint32, fixedFee *float64) uint32 {
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
		FixedTrainerFee:  fixedFee,
	}
	require.NoError(t, f.db.Create(&prog).Error)
	require.NoError(t, f.db.Create(&model.ProgramTrainer{ProgramID: prog.ID, TrainerID: f.trainerID, Position: 0}).Error)
	return prog.ID
}

func (f *propagatorFixture) createSession(t *testing.T, programID uint32, number int, status string, fee float64, feeType string, feeRate float64) uint32 {
	t.Helper()

	row := model.Session{
		ProgramID:     programID,
		SessionNumber: number,
		TrainerID:     f.trainerID,
		Date:          "2026-03-02",
		StartTime:     "10:00",
		Duration:      50,
		Status:        status,
		TrainerFee:    fee,
		FeeType:       feeType,
		FeeRate:       feeRate,
	}
	require.NoError(t, f.db.Create(&row).Error)
	return row.ID
}

func (f *propagatorFixture) loadSession(t *testing.T, id uint32) model.Session {
	t.Helper()
	var row model.Session
	require.NoError(t, f.db.Where("id = ?", id).First(&row).Error)
	return row
}

func (f *propagatorFixture) changeRate(t *testing.T, rateType string, rateValue float64) {
	t.Helper()
	err := f.db.Model(&model.TrainerBranchRate{}).
		Where("trainer_id = ? AND branch_id = ?", f.trainerID, f.branchID).
		Updates(map[string]any{"rate_type": rateType, "rate_value": rateValue}).Error
	require.NoError(t, err)
}

func TestPropagateTrainer_RewritesBookedAndCompleted(t *testing.T) {
	// Given: 요율 50%로 기록된 예약/완료 세션
	f := newPropagatorFixture(t)
	programID := f.createProgram(t, f.branchID, nil)
	bookedID := f.createSession(t, programID, 1, model.SessionStatusBooked, 50000, model.RateTypePercentage, 0.5)
	completedID := f.createSession(t, programID, 2, model.SessionStatusCompleted, 50000, model.RateTypePercentage, 0.5)

	// When: 요율을 60%로 변경하고 전파
	f.changeRate(t, model.RateTypePercentage, 0.6)
	updated, err := f.propagator.PropagateTrainer(context.Background(), f.trainerID)

	// Then: 완료 여부와 무관하게 둘 다 재계산된다
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	for _, id := range []uint32{bookedID, completedID} {
		row := f.loadSession(t, id)
		assert.Equal(t, float64(60000), row.TrainerFee)
		assert.Equal(t, model.RateTypePercentage, row.FeeType)
		assert.Equal(t, 0.6, row.FeeRate)
	}
}

func TestPropagateTrainer_SkipsNonRateDerivedFees(t *testing.T) {
	// Given: 고정 수수료 프로그램, 회차별 오버라이드, 요율 미설정 지점
	f := newPropagatorFixture(t)

	fixed := float64(30000)
	fixedProgramID := f.createProgram(t, f.branchID, &fixed)
	fixedSessionID := f.createSession(t, fixedProgramID, 1, model.SessionStatusBooked, 30000, model.RateTypeFixed, 0)

	overrideProgramID := f.createProgram(t, f.branchID, nil)
	require.NoError(t, f.db.Create(&model.ProgramSessionFee{
		ProgramID: overrideProgramID, SessionNumber: 3, Fee: 70000,
	}).Error)
	overrideSessionID := f.createSession(t, overrideProgramID, 3, model.SessionStatusBooked, 70000, model.RateTypeFixed, 0)

	otherBranch := model.Branch{Name: "판교점"}
	require.NoError(t, f.db.Create(&otherBranch).Error)
	require.NoError(t, f.db.Create(&model.TrainerBranch{TrainerID: f.trainerID, BranchID: otherBranch.ID}).Error)
	noRateProgramID := f.createProgram(t, otherBranch.ID, nil)
	noRateSessionID := f.createSession(t, noRateProgramID, 1, model.SessionStatusBooked, 50000, model.RateTypePercentage, 0.5)

	// When
	f.changeRate(t, model.RateTypePercentage, 0.6)
	updated, err := f.propagator.PropagateTrainer(context.Background(), f.trainerID)

	// Then: 요율에서 나오지 않은 수수료는 그대로 둔다
	require.NoError(t, err)
	assert.Equal(t, 0, updated)

	assert.Equal(t, float64(30000), f.loadSession(t, fixedSessionID).TrainerFee)
	assert.Equal(t, float64(70000), f.loadSession(t, overrideSessionID).TrainerFee)
	assert.Equal(t, float64(50000), f.loadSession(t, noRateSessionID).TrainerFee)
}

func TestPropagateTrainer_Idempotent(t *testing.T) {
	// Given: 이미 전파가 끝난 세션
	f := newPropagatorFixture(t)
	programID := f.createProgram(t, f.branchID, nil)
	f.createSession(t, programID, 1, model.SessionStatusBooked, 50000, model.RateTypePercentage, 0.5)

	f.changeRate(t, model.RateTypeFixed, 40000)
	updated, err := f.propagator.PropagateTrainer(context.Background(), f.trainerID)
	require.NoError(t, err)
	require.Equal(t, 1, updated)

	// When: 같은 요율로 한 번 더 전파
	updated, err = f.propagator.PropagateTrainer(context.Background(), f.trainerID)

	// Then: 다시 쓸 세션이 없다
	require.NoError(t, err)
	assert.Equal(t, 0, updated)
}
