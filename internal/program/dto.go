package program

import (
	"sort"

	"github.com/minsukim/ptstudio/go-api-server/internal/model"
)

type CreateProgramRequest struct {
	ProgramName      string `json:"programName" binding:"required,min=1,max=200"`
	RegistrationDate string `json:"registrationDate" binding:"required,dateymd"`
	PaymentDate      string `json:"paymentDate" binding:"omitempty,dateymd"`

	TotalAmount   float64 `json:"totalAmount" binding:"gte=0"`
	TotalSessions int     `json:"totalSessions" binding:"required,gt=0"`

	BranchID               uint32   `json:"branchId" binding:"required"`
	MemberIDs              []uint32 `json:"memberIds" binding:"required,min=1"`
	TrainerIDs             []uint32 `json:"trainerIds" binding:"required,min=1"`
	DefaultSessionDuration int      `json:"defaultSessionDuration" binding:"omitempty,gt=0"`
	FixedTrainerFee        *float64 `json:"fixedTrainerFee" binding:"omitempty,gte=0"`
	Memo                   string   `json:"memo" binding:"omitempty,max=1000"`

	// 회차별 담당/수수료 오버라이드
	SessionTrainers map[int]uint32  `json:"sessionTrainers"`
	SessionFees     map[int]float64 `json:"sessionFees"`

	PresetID *uint32 `json:"presetId"` // 설정 시 프리셋 값으로 미입력 필드를 채운다
}

// UpdateProgramRequest is a patch. TotalAmount/TotalSessions changes recompute
// the unit price; Status accepts 유효/정지 only (만료 is ledger-driven).
type UpdateProgramRequest struct {
	ProgramName      *string `json:"programName" binding:"omitempty,min=1,max=200"`
	RegistrationDate *string `json:"registrationDate" binding:"omitempty,dateymd"`
	PaymentDate      *string `json:"paymentDate" binding:"omitempty,dateymd"`

	TotalAmount   *float64 `json:"totalAmount" binding:"omitempty,gte=0"`
	TotalSessions *int     `json:"totalSessions" binding:"omitempty,gt=0"`
	Status        *string  `json:"status" binding:"omitempty,oneof=유효 정지"`

	MemberIDs              *[]uint32 `json:"memberIds" binding:"omitempty,min=1"`
	TrainerIDs             *[]uint32 `json:"trainerIds" binding:"omitempty,min=1"`
	DefaultSessionDuration *int      `json:"defaultSessionDuration" binding:"omitempty,gt=0"`
	FixedTrainerFee        *float64  `json:"fixedTrainerFee" binding:"omitempty,gte=0"`
	ClearFixedTrainerFee   bool      `json:"clearFixedTrainerFee"`
	Memo                   *string   `json:"memo" binding:"omitempty,max=1000"`

	SessionTrainers *map[int]uint32  `json:"sessionTrainers"`
	SessionFees     *map[int]float64 `json:"sessionFees"`
}

type ReRegisterProgramRequest struct {
	RegistrationDate string `json:"registrationDate" binding:"required,dateymd"`
	PaymentDate      string `json:"paymentDate" binding:"omitempty,dateymd"`

	// 미입력 시 원 프로그램의 값을 그대로 쓴다.
	TotalAmount   *float64 `json:"totalAmount" binding:"omitempty,gte=0"`
	TotalSessions *int     `json:"totalSessions" binding:"omitempty,gt=0"`
}

type ProgramResponse struct {
	ID               uint32 `json:"id"`
	ProgramName      string `json:"programName"`
	RegistrationType string `json:"registrationType"`
	RegistrationDate string `json:"registrationDate"`
	PaymentDate      string `json:"paymentDate,omitempty"`

	TotalAmount       float64 `json:"totalAmount"`
	TotalSessions     int     `json:"totalSessions"`
	UnitPrice         float64 `json:"unitPrice"`
	CompletedSessions int     `json:"completedSessions"`
	Status            string  `json:"status"`

	BranchID               uint32   `json:"branchId"`
	MemberIDs              []uint32 `json:"memberIds"`
	TrainerIDs             []uint32 `json:"trainerIds"`
	TrainerID              uint32   `json:"trainerId"` // 구 클라이언트 호환: 대표(첫 번째) 트레이너
	DefaultSessionDuration int      `json:"defaultSessionDuration"`
	FixedTrainerFee        *float64 `json:"fixedTrainerFee"`
	Memo                   string   `json:"memo,omitempty"`

	SessionTrainers map[int]uint32  `json:"sessionTrainers,omitempty"`
	SessionFees     map[int]float64 `json:"sessionFees,omitempty"`
}

type ListProgramsResponse struct {
	Programs []ProgramResponse `json:"programs"`
}

type PresetRequest struct {
	Name          string  `json:"name" binding:"required,min=1,max=200"`
	TotalAmount   float64 `json:"totalAmount" binding:"gte=0"`
	TotalSessions int     `json:"totalSessions" binding:"required,gt=0"`

	BranchID               *uint32         `json:"branchId"`
	DefaultSessionDuration *int            `json:"defaultSessionDuration" binding:"omitempty,gt=0"`
	FixedTrainerFee        *float64        `json:"fixedTrainerFee" binding:"omitempty,gte=0"`
	SessionFees            map[int]float64 `json:"sessionFees"`
}

type PresetResponse struct {
	ID            uint32  `json:"id"`
	Name          string  `json:"name"`
	TotalAmount   float64 `json:"totalAmount"`
	TotalSessions int     `json:"totalSessions"`

	BranchID               *uint32         `json:"branchId"`
	DefaultSessionDuration *int            `json:"defaultSessionDuration"`
	FixedTrainerFee        *float64        `json:"fixedTrainerFee"`
	SessionFees            map[int]float64 `json:"sessionFees,omitempty"`
}

type ListPresetsResponse struct {
	Presets []PresetResponse `json:"presets"`
}

func toProgramResponse(p *model.Program) ProgramResponse {
	trainerIDs := orderedTrainerIDs(p)

	var primary uint32
	if len(trainerIDs) > 0 {
		primary = trainerIDs[0]
	}

	sessionTrainers := make(map[int]uint32, len(p.SessionTrainers))
	for _, st := range p.SessionTrainers {
		sessionTrainers[st.SessionNumber] = st.TrainerID
	}
	sessionFees := make(map[int]float64, len(p.SessionFees))
	for _, sf := range p.SessionFees {
		sessionFees[sf.SessionNumber] = sf.Fee
	}

	return ProgramResponse{
		ID:                     p.ID,
		ProgramName:            p.ProgramName,
		RegistrationType:       p.RegistrationType,
		RegistrationDate:       p.RegistrationDate,
		PaymentDate:            p.PaymentDate,
		TotalAmount:            p.TotalAmount,
		TotalSessions:          p.TotalSessions,
		UnitPrice:              p.UnitPrice,
		CompletedSessions:      p.CompletedSessions,
		Status:                 p.Status,
		BranchID:               p.BranchID,
		MemberIDs:              p.MemberIDs(),
		TrainerIDs:             trainerIDs,
		TrainerID:              primary,
		DefaultSessionDuration: p.DefaultSessionDuration,
		FixedTrainerFee:        p.FixedTrainerFee,
		Memo:                   p.Memo,
		SessionTrainers:        sessionTrainers,
		SessionFees:            sessionFees,
	}
}

// orderedTrainerIDs sorts the trainer list by position so that index 0 is the
// primary trainer regardless of row insertion order.
func orderedTrainerIDs(p *model.Program) []uint32 {
	trainers := make([]model.ProgramTrainer, len(p.Trainers))
	copy(trainers, p.Trainers)
	sort.Slice(trainers, func(i, j int) bool { return trainers[i].Position < trainers[j].Position })

	ids := make([]uint32, 0, len(trainers))
	for _, t := range trainers {
		ids = append(ids, t.TrainerID)
	}
	return ids
}

func toPresetResponse(p *model.ProgramPreset) PresetResponse {
	return PresetResponse{
		ID:                     p.ID,
		Name:                   p.Name,
		TotalAmount:            p.TotalAmount,
		TotalSessions:          p.TotalSessions,
		BranchID:               p.BranchID,
		DefaultSessionDuration: p.DefaultSessionDuration,
		FixedTrainerFee:        p.FixedTrainerFee,
		SessionFees:            p.SessionFees,
	}
}
