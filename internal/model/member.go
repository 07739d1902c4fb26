package model

// Member is a studio client. A member belongs to exactly one branch;
// AssignedTrainerID is advisory only (default trainer for new programs).
type Member struct {
	ID uint32 `gorm:"column:id;primaryKey;autoIncrement"`

	Name     string `gorm:"column:name;type:VARCHAR2(100);not null"`    // 이름
	Contact  string `gorm:"column:contact;type:VARCHAR2(100);not null"` // 연락처
	BranchID uint32 `gorm:"column:branch_id;not null;index"`

	ReferrerID        *uint32 `gorm:"column:referrer_id"`         // 소개해 준 회원
	AssignedTrainerID *uint32 `gorm:"column:assigned_trainer_id"` // 담당 트레이너 (advisory)

	ExerciseGoals      []string `gorm:"column:exercise_goals;serializer:json"`
	Motivation         string   `gorm:"column:motivation;type:VARCHAR2(500)"`
	MedicalHistory     string   `gorm:"column:medical_history;type:VARCHAR2(1000)"`
	ExerciseExperience string   `gorm:"column:exercise_experience;type:VARCHAR2(500)"`
	PreferredTimes     []string `gorm:"column:preferred_times;serializer:json"` // 선호 시간대
	Occupation         string   `gorm:"column:occupation;type:VARCHAR2(100)"`
	Memo               string   `gorm:"column:memo;type:VARCHAR2(1000)"`

	BaseEntity
}

func (*Member) TableName() string {
	return "member"
}
