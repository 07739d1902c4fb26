package member

import (
	"net/http"

	sharedError "github.com/minsukim/ptstudio/go-api-server/internal/shared/error"
)

const (
	memberNotFound   = "MEMBER_NOT_FOUND"   // errInfo
	memberHasProgram = "MEMBER_HAS_PROGRAM" // errInfo
)

var (
	ErrMemberNotFound   = sharedError.NewDomainError(memberNotFound)
	ErrMemberHasProgram = sharedError.NewDomainError(memberHasProgram)
)

func init() {
	sharedError.RegisterDomainErrorResponse(memberNotFound, sharedError.ErrorResponse{
		Status:  http.StatusNotFound,
		Code:    "MEMBER-001",
		Message: "회원을 찾을 수 없습니다.",
	})

	sharedError.RegisterDomainErrorResponse(memberHasProgram, sharedError.ErrorResponse{
		Status:  http.StatusConflict,
		Code:    "MEMBER-002",
		Message: "회원이 등록된 프로그램이 있어 삭제할 수 없습니다.",
	})
}
