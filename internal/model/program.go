package model

import "math"

// Program status values (한국어 상태값은 기존 운영 데이터와 호환).
const (
	ProgramStatusActive    = "유효"
	ProgramStatusSuspended = "정지"
	ProgramStatusExpired   = "만료"
)

// Program registration types.
const (
	RegistrationTypeNew   = "신규"
	RegistrationTypeRenew = "재등록"
)

// Program is a purchased block of prepaid sessions for one or more members.
//
// Invariants:
//   - UnitPrice == round(TotalAmount / TotalSessions), 0 when TotalSessions == 0
//   - 0 <= CompletedSessions <= TotalSessions
//   - Status becomes 만료 when CompletedSessions reaches TotalSessions
//
// CompletedSessions is always recomputed by counting completed sessions
// (program.LedgerRecount), never incremented, so it heals itself after races
// or partially failed updates.
type Program struct {
	ID uint32 `gorm:"column:id;primaryKey;autoIncrement"`

	ProgramName      string `gorm:"column:program_name;type:VARCHAR2(200);not null"`
	RegistrationType string `gorm:"column:registration_type;type:VARCHAR2(20);not null"` // 신규 | 재등록
	RegistrationDate string `gorm:"column:registration_date;type:VARCHAR2(10);not null"` // YYYY-MM-DD
	PaymentDate      string `gorm:"column:payment_date;type:VARCHAR2(10)"`

	TotalAmount       float64 `gorm:"column:total_amount;not null"`
	TotalSessions     int     `gorm:"column:total_sessions;not null"`
	UnitPrice         float64 `gorm:"column:unit_price;not null"`
	CompletedSessions int     `gorm:"column:completed_sessions;not null;default:0"`
	Status            string  `gorm:"column:status;type:VARCHAR2(10);not null"` // 유효 | 정지 | 만료

	BranchID               uint32   `gorm:"column:branch_id;not null;index"`
	DefaultSessionDuration int      `gorm:"column:default_session_duration;not null;default:50"` // 분
	FixedTrainerFee        *float64 `gorm:"column:fixed_trainer_fee"`                            // 설정 시 요율 대신 사용
	Memo                   string   `gorm:"column:memo;type:VARCHAR2(1000)"`

	Members         []ProgramMember         `gorm:"foreignKey:ProgramID"`
	Trainers        []ProgramTrainer        `gorm:"foreignKey:ProgramID"`
	SessionTrainers []ProgramSessionTrainer `gorm:"foreignKey:ProgramID"`
	SessionFees     []ProgramSessionFee     `gorm:"foreignKey:ProgramID"`

	BaseEntity
}

func (*Program) TableName() string {
	return "program"
}

// ProgramMember links a program to a participating member.
type ProgramMember struct {
	ID        uint32 `gorm:"column:id;primaryKey;autoIncrement"`
	ProgramID uint32 `gorm:"column:program_id;not null;uniqueIndex:idx_program_member"`
	MemberID  uint32 `gorm:"column:member_id;not null;uniqueIndex:idx_program_member"`
}

func (*ProgramMember) TableName() string {
	return "program_member"
}

// ProgramTrainer is the ordered trainer list of a program. Position 0 is the
// primary trainer; the legacy single-trainer field exists only at the DTO
// boundary, derived from position 0.
type ProgramTrainer struct {
	ID        uint32 `gorm:"column:id;primaryKey;autoIncrement"`
	ProgramID uint32 `gorm:"column:program_id;not null;uniqueIndex:idx_program_trainer"`
	TrainerID uint32 `gorm:"column:trainer_id;not null;uniqueIndex:idx_program_trainer"`
	Position  int    `gorm:"column:position;not null"`
}

func (*ProgramTrainer) TableName() string {
	return "program_trainer"
}

// ProgramSessionTrainer pins a specific session number to a trainer,
// overriding the default trainer for that slot.
type ProgramSessionTrainer struct {
	ID            uint32 `gorm:"column:id;primaryKey;autoIncrement"`
	ProgramID     uint32 `gorm:"column:program_id;not null;uniqueIndex:idx_program_session_trainer"`
	SessionNumber int    `gorm:"column:session_number;not null;uniqueIndex:idx_program_session_trainer"`
	TrainerID     uint32 `gorm:"column:trainer_id;not null"`
}

func (*ProgramSessionTrainer) TableName() string {
	return "program_session_trainer"
}

// ProgramSessionFee overrides the trainer fee for a specific session number.
type ProgramSessionFee struct {
	ID            uint32  `gorm:"column:id;primaryKey;autoIncrement"`
	ProgramID     uint32  `gorm:"column:program_id;not null;uniqueIndex:idx_program_session_fee"`
	SessionNumber int     `gorm:"column:session_number;not null;uniqueIndex:idx_program_session_fee"`
	Fee           float64 `gorm:"column:fee;not null"`
}

func (*ProgramSessionFee) TableName() string {
	return "program_session_fee"
}

// UnitPriceFor computes the per-session unit price of a program.
func UnitPriceFor(totalAmount float64, totalSessions int) float64 {
	if totalSessions <= 0 {
		return 0
	}
	return math.Round(totalAmount / float64(totalSessions))
}

// TrainerIDs returns the ordered trainer ids of the program.
func (p *Program) TrainerIDs() []uint32 {
	ids := make([]uint32, 0, len(p.Trainers))
	for _, t := range p.Trainers {
		ids = append(ids, t.TrainerID)
	}
	return ids
}

// HasTrainer reports whether the trainer is listed on the program.
func (p *Program) HasTrainer(trainerID uint32) bool {
	for _, t := range p.Trainers {
		if t.TrainerID == trainerID {
			return true
		}
	}
	return false
}

// MemberIDs returns the participating member ids.
func (p *Program) MemberIDs() []uint32 {
	ids := make([]uint32, 0, len(p.Members))
	for _, m := range p.Members {
		ids = append(ids, m.MemberID)
	}
	return ids
}
