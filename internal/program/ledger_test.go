package program_test

import (
	"context"
	"testing"

	"github.com/minsukim/ptstudio/go-api-server/internal/model"
	"github.com/minsukim/ptstudio/go-api-server/internal/program"
	"github.com/minsukim/ptstudio/go-api-server/internal/shared/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newLedger(t *testing.T) (*gorm.DB, *program.Ledger) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() {
		testutil.CleanupTestDB(t, db)
	})
	return db, program.NewLedger(db, program.NewProgramRepository())
}

func seedLedgerProgram(t *testing.T, db *gorm.DB, totalSessions, completed int, status string) uint32 {
	t.Helper()

	prog := model.Program{
		ProgramName:      "PT 회원권",
		RegistrationType: model.RegistrationTypeNew,
		RegistrationDate: "2026-01-05",
		TotalAmount:      float64(totalSessions) * 100000,
		TotalSessions:    totalSessions,
		UnitPrice:        100000,
		Status:           status,
		BranchID:         1,
	}
	require.NoError(t, db.Create(&prog).Error)

	for i := 0; i < completed; i++ {
		row := model.Session{
			ProgramID:     prog.ID,
			SessionNumber: i + 1,
			TrainerID:     1,
			Date:          "2026-02-02",
			StartTime:     "10:00",
			Duration:      50,
			Status:        model.SessionStatusCompleted,
			TrainerFee:    50000,
			FeeType:       model.RateTypePercentage,
			FeeRate:       0.5,
		}
		require.NoError(t, db.Create(&row).Error)
	}
	return prog.ID
}

func loadLedgerProgram(t *testing.T, db *gorm.DB, id uint32) model.Program {
	t.Helper()
	var prog model.Program
	require.NoError(t, db.Where("id = ?", id).First(&prog).Error)
	return prog
}

func TestRecount_ExpiresAtTotal(t *testing.T) {
	db, ledger := newLedger(t)
	programID := seedLedgerProgram(t, db, 2, 2, model.ProgramStatusActive)

	require.NoError(t, ledger.Recount(context.Background(), db, programID))

	prog := loadLedgerProgram(t, db, programID)
	assert.Equal(t, 2, prog.CompletedSessions)
	assert.Equal(t, model.ProgramStatusExpired, prog.Status)
}

func TestRecount_CapsCountAtTotal(t *testing.T) {
	// 총 횟수보다 완료 세션이 많은 비정상 데이터
	db, ledger := newLedger(t)
	programID := seedLedgerProgram(t, db, 2, 3, model.ProgramStatusActive)

	require.NoError(t, ledger.Recount(context.Background(), db, programID))

	prog := loadLedgerProgram(t, db, programID)
	assert.Equal(t, 2, prog.CompletedSessions)
	assert.Equal(t, model.ProgramStatusExpired, prog.Status)
}

func TestRecount_NeverOverwritesSuspension(t *testing.T) {
	db, ledger := newLedger(t)
	programID := seedLedgerProgram(t, db, 10, 10, model.ProgramStatusSuspended)

	require.NoError(t, ledger.Recount(context.Background(), db, programID))

	prog := loadLedgerProgram(t, db, programID)
	assert.Equal(t, 10, prog.CompletedSessions)
	assert.Equal(t, model.ProgramStatusSuspended, prog.Status)
}

func TestReconcileAll_RepairsDriftedLedgers(t *testing.T) {
	// Given: 장부가 어긋난 프로그램과 정상 프로그램
	db, ledger := newLedger(t)
	driftedID := seedLedgerProgram(t, db, 10, 3, model.ProgramStatusActive)
	require.NoError(t, db.Model(&model.Program{}).
		Where("id = ?", driftedID).
		Update("completed_sessions", 7).Error)

	healthyID := seedLedgerProgram(t, db, 10, 2, model.ProgramStatusActive)
	require.NoError(t, db.Model(&model.Program{}).
		Where("id = ?", healthyID).
		Update("completed_sessions", 2).Error)

	// When
	fixed, err := ledger.ReconcileAll(context.Background())

	// Then: 어긋난 쪽만 고친다
	require.NoError(t, err)
	assert.Equal(t, 1, fixed)
	assert.Equal(t, 3, loadLedgerProgram(t, db, driftedID).CompletedSessions)
	assert.Equal(t, 2, loadLedgerProgram(t, db, healthyID).CompletedSessions)
}
