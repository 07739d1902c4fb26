package branch

import (
	"net/http"

	sharedError "github.com/minsukim/ptstudio/go-api-server/internal/shared/error"
)

const (
	branchNotFound   = "BRANCH_NOT_FOUND"   // errInfo
	branchReferenced = "BRANCH_REFERENCED"  // errInfo
	branchNameTaken  = "BRANCH_NAME_TAKEN"  // errInfo
)

var (
	ErrBranchNotFound   = sharedError.NewDomainError(branchNotFound)
	ErrBranchReferenced = sharedError.NewDomainError(branchReferenced)
	ErrBranchNameTaken  = sharedError.NewDomainError(branchNameTaken)
)

func init() {
	sharedError.RegisterDomainErrorResponse(branchNotFound, sharedError.ErrorResponse{
		Status:  http.StatusNotFound,
		Code:    "BRANCH-001",
		Message: "지점을 찾을 수 없습니다.",
	})

	sharedError.RegisterDomainErrorResponse(branchReferenced, sharedError.ErrorResponse{
		Status:  http.StatusConflict,
		Code:    "BRANCH-002",
		Message: "지점에 등록된 회원/트레이너/프로그램이 있어 삭제할 수 없습니다.",
	})

	sharedError.RegisterDomainErrorResponse(branchNameTaken, sharedError.ErrorResponse{
		Status:  http.StatusConflict,
		Code:    "BRANCH-003",
		Message: "이미 존재하는 지점명입니다.",
	})
}
