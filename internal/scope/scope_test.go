package scope_test

import (
	"testing"

	"github.com/minsukim/ptstudio/go-api-server/internal/model"
	"github.com/minsukim/ptstudio/go-api-server/internal/scope"
	"github.com/stretchr/testify/assert"
)

func admin() scope.Caller {
	return scope.Caller{UserID: 1, Role: model.RoleAdmin}
}

func manager(branchIDs ...uint32) scope.Caller {
	return scope.Caller{UserID: 2, Role: model.RoleManager, BranchIDs: branchIDs}
}

func trainer(trainerID uint32, branchIDs ...uint32) scope.Caller {
	return scope.Caller{UserID: 3, Role: model.RoleTrainer, TrainerID: trainerID, BranchIDs: branchIDs}
}

func unassigned() scope.Caller {
	return scope.Caller{UserID: 4, Role: model.RoleUnassigned}
}

func TestAdminSeesEverything(t *testing.T) {
	c := admin()

	assert.True(t, c.CanViewBranch(99))
	assert.True(t, c.CanManageBranches())
	assert.True(t, c.CanViewMember(5, nil))
	assert.True(t, c.CanViewProgram(5, nil))
	assert.True(t, c.CanViewSession(7, 5, nil))
	assert.True(t, c.CanRevertSession())
	assert.True(t, c.CanViewSettlement(42))
}

func TestManagerScopedToBranches(t *testing.T) {
	c := manager(10, 20)

	assert.True(t, c.CanViewBranch(10))
	assert.False(t, c.CanViewBranch(30))

	assert.True(t, c.CanManageBranchData(20))
	assert.False(t, c.CanManageBranchData(30))

	// 지점 생성/삭제 및 계정 관리는 관리자 전용
	assert.False(t, c.CanManageBranches())
	assert.False(t, c.CanManageUsers())
	assert.False(t, c.CanRevertSession())

	assert.True(t, c.CanViewTrainer(7, []uint32{20, 30}))
	assert.False(t, c.CanViewTrainer(7, []uint32{30, 40}))

	assert.True(t, c.CanViewAuditLog(ptr(uint32(10))))
	assert.False(t, c.CanViewAuditLog(ptr(uint32(30))))
	assert.False(t, c.CanViewAuditLog(nil))
}

func TestTrainerScope(t *testing.T) {
	self := uint32(7)
	c := trainer(self, 10)

	t.Run("members only when assigned to self", func(t *testing.T) {
		assert.True(t, c.CanViewMember(10, &self))
		other := uint32(8)
		assert.False(t, c.CanViewMember(10, &other))
		// 같은 지점이라도 담당이 아니면 보이지 않는다
		assert.False(t, c.CanViewMember(10, nil))
	})

	t.Run("co-branch trainers visible for schedules", func(t *testing.T) {
		assert.True(t, c.CanViewTrainer(self, []uint32{10}))
		assert.True(t, c.CanViewTrainer(8, []uint32{10, 20}))
		assert.False(t, c.CanViewTrainer(8, []uint32{20}))
		assert.False(t, c.CanManageTrainer([]uint32{10}))
	})

	t.Run("programs only when listed as trainer", func(t *testing.T) {
		assert.True(t, c.CanViewProgram(10, []uint32{3, self}))
		assert.False(t, c.CanViewProgram(10, []uint32{3, 4}))
		// id를 알고 있어도 범위 밖 프로그램은 거부
		assert.False(t, c.CanViewProgram(20, []uint32{3}))
	})

	t.Run("sessions own or via program trainer list", func(t *testing.T) {
		assert.True(t, c.CanViewSession(self, 10, nil))
		assert.True(t, c.CanViewSession(8, 10, []uint32{self}))
		assert.False(t, c.CanViewSession(8, 10, []uint32{8, 9}))
	})

	t.Run("settlement only for self", func(t *testing.T) {
		assert.True(t, c.CanViewSettlement(self))
		assert.False(t, c.CanViewSettlement(8))
	})

	assert.False(t, c.CanRevertSession())
	assert.False(t, c.CanViewAuditLog(ptr(uint32(10))))
}

func TestUnassignedHasNoAccess(t *testing.T) {
	c := unassigned()

	assert.False(t, c.IsApproved())
	assert.False(t, c.CanViewBranch(1))
	assert.False(t, c.CanViewMember(1, nil))
	assert.False(t, c.CanViewProgram(1, []uint32{1}))
	assert.False(t, c.CanViewSession(1, 1, []uint32{1}))
	assert.False(t, c.CanViewSettlement(1))
}

func ptr[T any](v T) *T { return &v }
