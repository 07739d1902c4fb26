package user

type UserResponse struct {
	ID        uint32   `json:"id"`
	Email     string   `json:"email"`
	Name      string   `json:"name"`
	Role      string   `json:"role"`
	BranchIDs []uint32 `json:"branchIds"`
	TrainerID *uint32  `json:"trainerId,omitempty"`
}

type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// AssignRoleRequest approves a pending account or changes an existing one.
// role=trainer이면 trainerId가, role=manager이면 branchIds가 필요하다.
type AssignRoleRequest struct {
	Role      string   `json:"role" binding:"required,oneof=admin manager trainer unassigned"`
	BranchIDs []uint32 `json:"branchIds"`
	TrainerID *uint32  `json:"trainerId"`
}
