package model

// ProgramPreset is a template used to prefill a new program.
// A nil BranchID means the preset is usable at any branch.
type ProgramPreset struct {
	ID uint32 `gorm:"column:id;primaryKey;autoIncrement"`

	Name          string  `gorm:"column:name;type:VARCHAR2(200);not null"`
	TotalAmount   float64 `gorm:"column:total_amount;not null"`
	TotalSessions int     `gorm:"column:total_sessions;not null"`

	BranchID               *uint32             `gorm:"column:branch_id;index"`
	DefaultSessionDuration *int                `gorm:"column:default_session_duration"`
	FixedTrainerFee        *float64            `gorm:"column:fixed_trainer_fee"`
	SessionFees            map[int]float64     `gorm:"column:session_fees;serializer:json"`

	BaseEntity
}

func (*ProgramPreset) TableName() string {
	return "program_preset"
}
