package session

import (
	"net/http"

	sharedError "github.com/minsukim/ptstudio/go-api-server/internal/shared/error"
)

const (
	sessionNotFound       = "SESSION_NOT_FOUND"       // errInfo
	sessionProgramClosed  = "SESSION_PROGRAM_CLOSED"  // errInfo
	sessionNotStarted     = "SESSION_NOT_STARTED"     // errInfo
	sessionAlreadyDone    = "SESSION_ALREADY_DONE"    // errInfo
	sessionNotCompleted   = "SESSION_NOT_COMPLETED"   // errInfo
	sessionMembersInvalid = "SESSION_MEMBERS_INVALID" // errInfo
	sessionEditCompleted  = "SESSION_EDIT_COMPLETED"  // errInfo
)

var (
	ErrSessionNotFound       = sharedError.NewDomainError(sessionNotFound)
	ErrSessionProgramClosed  = sharedError.NewDomainError(sessionProgramClosed)
	ErrSessionNotStarted     = sharedError.NewDomainError(sessionNotStarted)
	ErrSessionAlreadyDone    = sharedError.NewDomainError(sessionAlreadyDone)
	ErrSessionNotCompleted   = sharedError.NewDomainError(sessionNotCompleted)
	ErrSessionMembersInvalid = sharedError.NewDomainError(sessionMembersInvalid)
	ErrSessionEditCompleted  = sharedError.NewDomainError(sessionEditCompleted)
)

func init() {
	sharedError.RegisterDomainErrorResponse(sessionNotFound, sharedError.ErrorResponse{
		Status:  http.StatusNotFound,
		Code:    "SESSION-001",
		Message: "세션을 찾을 수 없습니다.",
	})

	sharedError.RegisterDomainErrorResponse(sessionProgramClosed, sharedError.ErrorResponse{
		Status:  http.StatusConflict,
		Code:    "SESSION-002",
		Message: "유효 상태의 프로그램만 예약할 수 있습니다.",
	})

	sharedError.RegisterDomainErrorResponse(sessionNotStarted, sharedError.ErrorResponse{
		Status:  http.StatusPreconditionFailed,
		Code:    "SESSION-003",
		Message: "세션 시작 시각 전에는 완료 처리할 수 없습니다.",
	})

	sharedError.RegisterDomainErrorResponse(sessionAlreadyDone, sharedError.ErrorResponse{
		Status:  http.StatusConflict,
		Code:    "SESSION-004",
		Message: "이미 완료된 세션입니다.",
	})

	sharedError.RegisterDomainErrorResponse(sessionNotCompleted, sharedError.ErrorResponse{
		Status:  http.StatusConflict,
		Code:    "SESSION-005",
		Message: "완료되지 않은 세션은 되돌릴 수 없습니다.",
	})

	sharedError.RegisterDomainErrorResponse(sessionMembersInvalid, sharedError.ErrorResponse{
		Status:  http.StatusBadRequest,
		Code:    "SESSION-006",
		Message: "예약 가능한 회원이 없습니다.",
	})

	sharedError.RegisterDomainErrorResponse(sessionEditCompleted, sharedError.ErrorResponse{
		Status:  http.StatusConflict,
		Code:    "SESSION-007",
		Message: "완료된 세션은 수정할 수 없습니다. 먼저 되돌려 주세요.",
	})
}
