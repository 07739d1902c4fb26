// Package scope implements role-based visibility and mutation rules.
// Every core operation receives an explicit Caller instead of reading a
// global "current user", so these rules stay pure and testable.
//
// The same rule is applied whether the caller is listing, viewing a detail,
// or attempting a mutation: an entity outside scope is rejected even when
// its id is known.
package scope

// Caller identifies the authenticated user for scope decisions.
// BranchIDs holds the manager's assigned branches, or - for trainer
// accounts - the branches the linked trainer serves. TrainerID is 0 unless
// the account is linked to a trainer profile.
type Caller struct {
	UserID    uint32
	Role      string // model.RoleAdmin | RoleManager | RoleTrainer | RoleUnassigned
	BranchIDs []uint32
	TrainerID uint32
}

const (
	roleAdmin   = "admin"
	roleManager = "manager"
	roleTrainer = "trainer"
)

func (c Caller) IsAdmin() bool   { return c.Role == roleAdmin }
func (c Caller) IsManager() bool { return c.Role == roleManager }
func (c Caller) IsTrainer() bool { return c.Role == roleTrainer }

// IsApproved reports whether the account has been granted any role.
// 승인 전(unassigned) 계정은 아무것도 볼 수 없다.
func (c Caller) IsApproved() bool {
	return c.IsAdmin() || c.IsManager() || c.IsTrainer()
}

func (c Caller) hasBranch(branchID uint32) bool {
	for _, id := range c.BranchIDs {
		if id == branchID {
			return true
		}
	}
	return false
}

func (c Caller) sharesAnyBranch(branchIDs []uint32) bool {
	for _, id := range branchIDs {
		if c.hasBranch(id) {
			return true
		}
	}
	return false
}

// CanViewBranch: admins see all branches, managers and trainers only their own.
func (c Caller) CanViewBranch(branchID uint32) bool {
	if c.IsAdmin() {
		return true
	}
	if c.IsManager() || c.IsTrainer() {
		return c.hasBranch(branchID)
	}
	return false
}

// CanManageBranchData: may the caller mutate branch-scoped data
// (members, programs, presets)? Trainers cannot.
func (c Caller) CanManageBranchData(branchID uint32) bool {
	if c.IsAdmin() {
		return true
	}
	return c.IsManager() && c.hasBranch(branchID)
}

// CanManageBranches: branch create/delete is admin-only.
func (c Caller) CanManageBranches() bool {
	return c.IsAdmin()
}

// CanManageUsers: account approval and role assignment is admin-only.
// Managers must not manage other managers.
func (c Caller) CanManageUsers() bool {
	return c.IsAdmin()
}

// CanViewMember: trainers only see members assigned to them; managers see
// members of their branches.
func (c Caller) CanViewMember(branchID uint32, assignedTrainerID *uint32) bool {
	if c.IsAdmin() {
		return true
	}
	if c.IsManager() {
		return c.hasBranch(branchID)
	}
	if c.IsTrainer() {
		return assignedTrainerID != nil && *assignedTrainerID == c.TrainerID
	}
	return false
}

// CanViewTrainer: trainers see themselves plus trainers sharing a branch
// (needed for schedule display).
func (c Caller) CanViewTrainer(trainerID uint32, trainerBranchIDs []uint32) bool {
	if c.IsAdmin() {
		return true
	}
	if c.IsManager() {
		return c.sharesAnyBranch(trainerBranchIDs)
	}
	if c.IsTrainer() {
		return trainerID == c.TrainerID || c.sharesAnyBranch(trainerBranchIDs)
	}
	return false
}

// CanManageTrainer: trainer create/update/delete is for admins and managers
// of a shared branch.
func (c Caller) CanManageTrainer(trainerBranchIDs []uint32) bool {
	if c.IsAdmin() {
		return true
	}
	return c.IsManager() && c.sharesAnyBranch(trainerBranchIDs)
}

// CanViewProgram: trainers see programs that list them.
func (c Caller) CanViewProgram(branchID uint32, programTrainerIDs []uint32) bool {
	if c.IsAdmin() {
		return true
	}
	if c.IsManager() {
		return c.hasBranch(branchID)
	}
	if c.IsTrainer() {
		for _, id := range programTrainerIDs {
			if id == c.TrainerID {
				return true
			}
		}
	}
	return false
}

// CanViewSession: trainers see sessions they run, or sessions of programs
// that list them (multi-trainer programs).
func (c Caller) CanViewSession(sessionTrainerID uint32, branchID uint32, programTrainerIDs []uint32) bool {
	if c.IsAdmin() {
		return true
	}
	if c.IsManager() {
		return c.hasBranch(branchID)
	}
	if c.IsTrainer() {
		if sessionTrainerID == c.TrainerID {
			return true
		}
		for _, id := range programTrainerIDs {
			if id == c.TrainerID {
				return true
			}
		}
	}
	return false
}

// CanMutateSession: booking, editing, completing and deleting a session.
// Trainers may act on their own sessions only.
func (c Caller) CanMutateSession(sessionTrainerID uint32, branchID uint32, programTrainerIDs []uint32) bool {
	if c.IsAdmin() {
		return true
	}
	if c.IsManager() {
		return c.hasBranch(branchID)
	}
	if c.IsTrainer() {
		return c.CanViewSession(sessionTrainerID, branchID, programTrainerIDs)
	}
	return false
}

// CanRevertSession: reverting a completed session back to booked is
// admin-only.
func (c Caller) CanRevertSession() bool {
	return c.IsAdmin()
}

// CanViewSettlement: trainers may only see their own settlement figures.
func (c Caller) CanViewSettlement(trainerID uint32) bool {
	if c.IsAdmin() || c.IsManager() {
		return true
	}
	return c.IsTrainer() && trainerID == c.TrainerID
}

// CanViewAuditLog: admins see everything, managers their branches.
func (c Caller) CanViewAuditLog(branchID *uint32) bool {
	if c.IsAdmin() {
		return true
	}
	if c.IsManager() {
		return branchID != nil && c.hasBranch(*branchID)
	}
	return false
}
