package settlement

// TrainerSettlement is one trainer's aggregate for the period. 완료 세션이
// 없는 트레이너도 0원으로 포함된다.
type TrainerSettlement struct {
	TrainerID      uint32  `json:"trainerId"`
	TrainerName    string  `json:"trainerName"`
	CompletedCount int     `json:"completedCount"`
	TotalFee       float64 `json:"totalFee"`
}

type SettlementResponse struct {
	From     string              `json:"from"`
	To       string              `json:"to"`
	BranchID *uint32             `json:"branchId,omitempty"`
	Trainers []TrainerSettlement `json:"trainers"`
}
