package model

// AuditLog is an append-only record of a mutating action. Rows are never
// updated or deleted by the application.
type AuditLog struct {
	ID uint32 `gorm:"column:id;primaryKey;autoIncrement"`

	UserID   uint32  `gorm:"column:user_id;not null;index"`
	Action   string  `gorm:"column:action;type:VARCHAR2(50);not null"` // create | update | delete | complete | revert ...
	Entity   string  `gorm:"column:entity;type:VARCHAR2(50);not null"`
	EntityID uint32  `gorm:"column:entity_id;not null"`
	BranchID *uint32 `gorm:"column:branch_id;index"`
	Detail   string  `gorm:"column:detail;type:VARCHAR2(1000)"`

	BaseEntity
}

func (*AuditLog) TableName() string {
	return "audit_log"
}
