package model

// Branch represents one studio location. Members, trainers and programs all
// hang off a branch; deletion is refused while anything still references it.
type Branch struct {
	ID   uint32 `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;type:VARCHAR2(100);not null;uniqueIndex:idx_branch_name"` // 지점명 (unique)

	BaseEntity
}

func (*Branch) TableName() string {
	return "branch"
}
