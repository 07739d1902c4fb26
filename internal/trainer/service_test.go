package trainer_test

import (
	"context"
	"testing"

	"github.com/minsukim/ptstudio/go-api-server/internal/auditlog"
	"github.com/minsukim/ptstudio/go-api-server/internal/model"
	"github.com/minsukim/ptstudio/go-api-server/internal/scope"
	"github.com/minsukim/ptstudio/go-api-server/internal/shared/testutil"
	"github.com/minsukim/ptstudio/go-api-server/internal/trainer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTrainerService(t *testing.T) (*gorm.DB, *trainer.TrainerService, uint32) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() {
		testutil.CleanupTestDB(t, db)
	})

	branch := model.Branch{Name: "강남점"}
	require.NoError(t, db.Create(&branch).Error)

	repo := trainer.NewTrainerRepository()
	service := trainer.NewTrainerService(db, repo, trainer.NewPropagator(db, repo), nil, auditlog.NewRecorder(db))
	return db, service, branch.ID
}

func trainerAdmin() scope.Caller {
	return scope.Caller{UserID: 1, Role: model.RoleAdmin}
}

func TestCreateTrainer_WithRates(t *testing.T) {
	// Given / When: 지점 요율과 함께 등록
	_, service, branchID := newTrainerService(t)

	response, err := service.Create(context.Background(), trainerAdmin(), &trainer.CreateTrainerRequest{
		Name:      "박코치",
		Color:     "#FF5733",
		BranchIDs: []uint32{branchID},
		Rates: []trainer.TrainerRateRequest{
			{BranchID: branchID, RateType: model.RateTypeFixed, RateValue: 30000},
		},
	})

	// Then: 고정 금액 요율은 구 클라이언트 표기 -1로 내려간다
	require.NoError(t, err)
	assert.True(t, response.IsActive)
	assert.Equal(t, []uint32{branchID}, response.BranchIDs)
	require.Len(t, response.Rates, 1)
	assert.Equal(t, model.RateTypeFixed, response.Rates[0].RateType)
	assert.Equal(t, float64(30000), response.Rates[0].RateValue)
	assert.Equal(t, float64(-1), response.Rates[0].LegacyRate)
}

func TestCreateTrainer_RateOnUnservedBranch(t *testing.T) {
	// Given: 소속되지 않은 지점에 대한 요율
	_, service, branchID := newTrainerService(t)

	// When
	_, err := service.Create(context.Background(), trainerAdmin(), &trainer.CreateTrainerRequest{
		Name:      "박코치",
		Color:     "#FF5733",
		BranchIDs: []uint32{branchID},
		Rates: []trainer.TrainerRateRequest{
			{BranchID: branchID + 1, RateType: model.RateTypePercentage, RateValue: 0.5},
		},
	})

	// Then
	assert.ErrorIs(t, err, trainer.ErrTrainerRateBranch)
}

func TestDeactivate_DetachesFromPrograms(t *testing.T) {
	// Given: 프로그램을 담당 중인 트레이너
	db, service, branchID := newTrainerService(t)

	created, err := service.Create(context.Background(), trainerAdmin(), &trainer.CreateTrainerRequest{
		Name:      "박코치",
		Color:     "#FF5733",
		BranchIDs: []uint32{branchID},
	})
	require.NoError(t, err)

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
	require.NoError(t, db.Create(&prog).Error)
	require.NoError(t, db.Create(&model.ProgramTrainer{ProgramID: prog.ID, TrainerID: created.ID, Position: 0}).Error)

	// When: 비활성화
	require.NoError(t, service.Deactivate(context.Background(), trainerAdmin(), created.ID))

	// Then: 담당 연결이 풀리고 기본 목록에서 빠진다
	var links int64
	require.NoError(t, db.Model(&model.ProgramTrainer{}).Where("trainer_id = ?", created.ID).Count(&links).Error)
	assert.Equal(t, int64(0), links)

	listed, err := service.List(context.Background(), trainerAdmin(), false)
	require.NoError(t, err)
	assert.Empty(t, listed.Trainers)

	// When: 복구
	restored, err := service.Restore(context.Background(), trainerAdmin(), created.ID)
	require.NoError(t, err)
	assert.True(t, restored.IsActive)

	// Then: 담당 연결은 자동으로 되살아나지 않는다
	require.NoError(t, db.Model(&model.ProgramTrainer{}).Where("trainer_id = ?", created.ID).Count(&links).Error)
	assert.Equal(t, int64(0), links)
}

func TestPhotoUploadURL_DisabledStorage(t *testing.T) {
	// Given: 오브젝트 스토리지 미설정 환경
	_, service, branchID := newTrainerService(t)

	created, err := service.Create(context.Background(), trainerAdmin(), &trainer.CreateTrainerRequest{
		Name:      "박코치",
		Color:     "#FF5733",
		BranchIDs: []uint32{branchID},
	})
	require.NoError(t, err)

	// When
	_, err = service.PhotoUploadURL(context.Background(), trainerAdmin(), created.ID, &trainer.PhotoUploadURLRequest{
		ContentType: "image/jpeg",
	})

	// Then
	assert.ErrorIs(t, err, trainer.ErrTrainerPhotoDisabled)
}
