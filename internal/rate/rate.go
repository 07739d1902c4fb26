// Package rate resolves a trainer's branch compensation rule and computes
// the trainer fee for a session. Both operations are pure and must be
// re-invoked whenever the unit price or the rate changes - results are never
// cached.
package rate

import (
	"math"

	"github.com/minsukim/ptstudio/go-api-server/internal/model"
)

// DefaultFallbackShare is applied when a trainer has no rate entry for a
// branch (legacy data, or the trainer was unassigned after booking).
// 설정 누락에 대한 방어값이며 비즈니스 규칙이 아니다.
const DefaultFallbackShare = 0.5

// BranchRate is one resolved compensation rule.
type BranchRate struct {
	Type  string  // model.RateTypePercentage | model.RateTypeFixed
	Value float64 // fraction for percentage, KRW amount for fixed
}

// Fee is the result of a fee computation, carried onto the session.
type Fee struct {
	Amount float64
	Type   string
	Rate   float64 // meaningful for percentage fees only
}

// LegacyRate renders the stored rate for legacy clients: -1 means fixed fee.
func (f Fee) LegacyRate() float64 {
	if f.Type == model.RateTypeFixed {
		return -1
	}
	return f.Rate
}

// Resolve looks up the trainer's rate for the branch. Returns nil when the
// trainer has no entry for that branch; callers decide the fallback policy
// (ComputeFee falls back, the rate-change propagation skips).
func Resolve(rates []model.TrainerBranchRate, branchID uint32) *BranchRate {
	for _, r := range rates {
		if r.BranchID == branchID {
			return &BranchRate{Type: r.RateType, Value: r.RateValue}
		}
	}
	return nil
}

// ComputeFee computes the trainer fee for one session of a program with the
// given unit price.
func ComputeFee(unitPrice float64, r *BranchRate) Fee {
	if r == nil {
		return Fee{
			Amount: unitPrice * DefaultFallbackShare,
			Type:   model.RateTypePercentage,
			Rate:   DefaultFallbackShare,
		}
	}

	if r.Type == model.RateTypeFixed {
		return Fee{Amount: r.Value, Type: model.RateTypeFixed}
	}

	return Fee{
		Amount: math.Round(unitPrice * r.Value),
		Type:   model.RateTypePercentage,
		Rate:   r.Value,
	}
}

// FixedFee wraps a manually fixed amount (program fixed fee or per-session
// override) as a Fee.
func FixedFee(amount float64) Fee {
	return Fee{Amount: amount, Type: model.RateTypeFixed}
}
