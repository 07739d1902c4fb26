package model

// User roles. 가입 직후에는 unassigned 상태로 관리자 승인을 기다린다.
const (
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleTrainer    = "trainer"
	RoleUnassigned = "unassigned"
)

// User is a login account. Managers get branch assignments (UserBranch);
// trainer accounts are linked to their trainer profile via TrainerID.
type User struct {
	ID uint32 `gorm:"column:id;primaryKey;autoIncrement"`

	Email    string `gorm:"column:email;type:VARCHAR2(255);not null;uniqueIndex:idx_user_email"`
	Name     string `gorm:"column:name;type:VARCHAR2(100);not null"`
	Password string `gorm:"column:password;type:VARCHAR2(60);not null"` // bcrypt 해시

	Role      string  `gorm:"column:role;type:VARCHAR2(20);not null;default:unassigned"`
	TrainerID *uint32 `gorm:"column:trainer_id"` // role=trainer일 때 트레이너 프로필

	Branches []UserBranch `gorm:"foreignKey:UserID"`

	BaseEntity
}

func (*User) TableName() string {
	return "app_user"
}

// UserBranch assigns a branch to a manager account.
type UserBranch struct {
	ID       uint32 `gorm:"column:id;primaryKey;autoIncrement"`
	UserID   uint32 `gorm:"column:user_id;not null;uniqueIndex:idx_user_branch"`
	BranchID uint32 `gorm:"column:branch_id;not null;uniqueIndex:idx_user_branch"`
}

func (*UserBranch) TableName() string {
	return "app_user_branch"
}

// BranchIDs returns the assigned branch ids.
func (u *User) BranchIDs() []uint32 {
	ids := make([]uint32, 0, len(u.Branches))
	for _, b := range u.Branches {
		ids = append(ids, b.BranchID)
	}
	return ids
}
