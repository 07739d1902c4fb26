package model

// Rate type values stored on TrainerBranchRate and Session.
const (
	RateTypePercentage = "percentage" // 단가 대비 비율 (0.5 = 50%)
	RateTypeFixed      = "fixed"      // 세션당 고정 금액
)

// Trainer is a coach. A trainer may serve several branches, each with its own
// independent compensation rate (TrainerBranchRate).
type Trainer struct {
	ID uint32 `gorm:"column:id;primaryKey;autoIncrement"`

	Name     string `gorm:"column:name;type:VARCHAR2(100);not null"`
	IsActive bool   `gorm:"column:is_active;not null;default:true"`
	Color    string `gorm:"column:color;type:VARCHAR2(20);not null"` // 일정표 표시 색상
	PhotoURL string `gorm:"column:photo_url;type:VARCHAR2(500)"`

	Branches    []TrainerBranch     `gorm:"foreignKey:TrainerID"`
	BranchRates []TrainerBranchRate `gorm:"foreignKey:TrainerID"`

	BaseEntity
}

func (*Trainer) TableName() string {
	return "trainer"
}

// TrainerBranch links a trainer to a branch they serve.
type TrainerBranch struct {
	ID        uint32 `gorm:"column:id;primaryKey;autoIncrement"`
	TrainerID uint32 `gorm:"column:trainer_id;not null;uniqueIndex:idx_trainer_branch"`
	BranchID  uint32 `gorm:"column:branch_id;not null;uniqueIndex:idx_trainer_branch"`
}

func (*TrainerBranch) TableName() string {
	return "trainer_branch"
}

// TrainerBranchRate is the compensation rule for one (trainer, branch) pair.
// RateValue is a fraction for percentage rates and a KRW amount for fixed rates.
type TrainerBranchRate struct {
	ID        uint32  `gorm:"column:id;primaryKey;autoIncrement"`
	TrainerID uint32  `gorm:"column:trainer_id;not null;uniqueIndex:idx_trainer_branch_rate"`
	BranchID  uint32  `gorm:"column:branch_id;not null;uniqueIndex:idx_trainer_branch_rate"`
	RateType  string  `gorm:"column:rate_type;type:VARCHAR2(20);not null"`
	RateValue float64 `gorm:"column:rate_value;not null"`
}

func (*TrainerBranchRate) TableName() string {
	return "trainer_branch_rate"
}

// BranchIDs returns the ids of all branches the trainer serves.
func (t *Trainer) BranchIDs() []uint32 {
	ids := make([]uint32, 0, len(t.Branches))
	for _, b := range t.Branches {
		ids = append(ids, b.BranchID)
	}
	return ids
}
