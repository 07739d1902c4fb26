package rate_test

import (
	"testing"

	"github.com/minsukim/ptstudio/go-api-server/internal/model"
	"github.com/minsukim/ptstudio/go-api-server/internal/rate"
	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	rates := []model.TrainerBranchRate{
		{TrainerID: 1, BranchID: 10, RateType: model.RateTypePercentage, RateValue: 0.4},
		{TrainerID: 1, BranchID: 20, RateType: model.RateTypeFixed, RateValue: 25000},
	}

	t.Run("percentage rate", func(t *testing.T) {
		r := rate.Resolve(rates, 10)
		assert.NotNil(t, r)
		assert.Equal(t, model.RateTypePercentage, r.Type)
		assert.Equal(t, 0.4, r.Value)
	})

	t.Run("fixed rate", func(t *testing.T) {
		r := rate.Resolve(rates, 20)
		assert.NotNil(t, r)
		assert.Equal(t, model.RateTypeFixed, r.Type)
		assert.Equal(t, 25000.0, r.Value)
	})

	t.Run("no entry for branch", func(t *testing.T) {
		assert.Nil(t, rate.Resolve(rates, 99))
	})
}

func TestComputeFee_Percentage(t *testing.T) {
	fee := rate.ComputeFee(100000, &rate.BranchRate{Type: model.RateTypePercentage, Value: 0.4})

	assert.Equal(t, 40000.0, fee.Amount)
	assert.Equal(t, model.RateTypePercentage, fee.Type)
	assert.Equal(t, 0.4, fee.Rate)
	assert.Equal(t, 0.4, fee.LegacyRate())
}

func TestComputeFee_PercentageRounds(t *testing.T) {
	// 33,333 * 0.4 = 13,333.2 → 13,333
	fee := rate.ComputeFee(33333, &rate.BranchRate{Type: model.RateTypePercentage, Value: 0.4})
	assert.Equal(t, 13333.0, fee.Amount)
}

func TestComputeFee_FixedIgnoresUnitPrice(t *testing.T) {
	r := &rate.BranchRate{Type: model.RateTypeFixed, Value: 20000}

	for _, unitPrice := range []float64{0, 50000, 100000} {
		fee := rate.ComputeFee(unitPrice, r)
		assert.Equal(t, 20000.0, fee.Amount)
		assert.Equal(t, model.RateTypeFixed, fee.Type)
		assert.Equal(t, -1.0, fee.LegacyRate())
	}
}

func TestComputeFee_NilRateFallsBack(t *testing.T) {
	fee := rate.ComputeFee(100000, nil)

	assert.Equal(t, 50000.0, fee.Amount)
	assert.Equal(t, model.RateTypePercentage, fee.Type)
	assert.Equal(t, rate.DefaultFallbackShare, fee.Rate)
}
