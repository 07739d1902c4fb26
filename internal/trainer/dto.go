package trainer

import (
	"github.com/minsukim/ptstudio/go-api-server/internal/model"
)

type TrainerRateRequest struct {
	BranchID  uint32  `json:"branchId" binding:"required"`
	RateType  string  `json:"rateType" binding:"required,oneof=percentage fixed"`
	RateValue float64 `json:"rateValue" binding:"gte=0"`
}

type CreateTrainerRequest struct {
	Name      string               `json:"name" binding:"required,min=1,max=100"`
	Color     string               `json:"color" binding:"required,hexcolor"`
	BranchIDs []uint32             `json:"branchIds" binding:"required,min=1"`
	Rates     []TrainerRateRequest `json:"rates" binding:"omitempty,dive"`
}

// UpdateTrainerRequest is a patch: nil fields are left untouched. Sending
// Rates replaces the whole rate set and triggers fee re-propagation for
// this trainer's sessions.
type UpdateTrainerRequest struct {
	Name      *string               `json:"name" binding:"omitempty,min=1,max=100"`
	Color     *string               `json:"color" binding:"omitempty,hexcolor"`
	BranchIDs *[]uint32             `json:"branchIds" binding:"omitempty,min=1"`
	Rates     *[]TrainerRateRequest `json:"rates" binding:"omitempty,dive"`
}

type TrainerRateResponse struct {
	BranchID  uint32  `json:"branchId"`
	RateType  string  `json:"rateType"`
	RateValue float64 `json:"rateValue"`
	// LegacyRate: 비율은 소수값, 고정 금액은 -1 (구 클라이언트 호환)
	LegacyRate float64 `json:"legacyRate"`
}

type TrainerResponse struct {
	ID        uint32                `json:"id"`
	Name      string                `json:"name"`
	IsActive  bool                  `json:"isActive"`
	Color     string                `json:"color"`
	PhotoURL  string                `json:"photoUrl,omitempty"`
	BranchIDs []uint32              `json:"branchIds"`
	Rates     []TrainerRateResponse `json:"rates"`
}

type ListTrainersResponse struct {
	Trainers []TrainerResponse `json:"trainers"`
}

type PhotoUploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required,oneof=image/jpeg image/png image/webp"`
}

type PhotoUploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

func toTrainerResponse(t *model.Trainer, photoURL string) TrainerResponse {
	rates := make([]TrainerRateResponse, 0, len(t.BranchRates))
	for _, r := range t.BranchRates {
		legacy := r.RateValue
		if r.RateType == model.RateTypeFixed {
			legacy = -1
		}
		rates = append(rates, TrainerRateResponse{
			BranchID:   r.BranchID,
			RateType:   r.RateType,
			RateValue:  r.RateValue,
			LegacyRate: legacy,
		})
	}

	return TrainerResponse{
		ID:        t.ID,
		Name:      t.Name,
		IsActive:  t.IsActive,
		Color:     t.Color,
		PhotoURL:  photoURL,
		BranchIDs: t.BranchIDs(),
		Rates:     rates,
	}
}

func toBranchRates(trainerID uint32, requests []TrainerRateRequest) []model.TrainerBranchRate {
	rows := make([]model.TrainerBranchRate, 0, len(requests))
	for _, r := range requests {
		rows = append(rows, model.TrainerBranchRate{
			TrainerID: trainerID,
			BranchID:  r.BranchID,
			RateType:  r.RateType,
			RateValue: r.RateValue,
		})
	}
	return rows
}
