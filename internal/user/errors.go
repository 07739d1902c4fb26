package user

import (
	"net/http"

	sharedError "github.com/minsukim/ptstudio/go-api-server/internal/shared/error"
)

const (
	userAlreadyExists = "USER_ALREADY_EXISTS" // errInfo
	userNotFound      = "USER_NOT_FOUND"      // errInfo
	invalidRole       = "INVALID_ROLE"        // errInfo
)

var (
	ErrUserAlreadyExists = sharedError.NewDomainError(userAlreadyExists)
	ErrUserNotFound      = sharedError.NewDomainError(userNotFound)
	ErrInvalidRole       = sharedError.NewDomainError(invalidRole)
)

func init() {
	sharedError.RegisterDomainErrorResponse(userNotFound, sharedError.ErrorResponse{
		Status:  http.StatusNotFound,
		Code:    "USER-001",
		Message: "계정을 찾을 수 없습니다.",
	})

	sharedError.RegisterDomainErrorResponse(userAlreadyExists, sharedError.ErrorResponse{
		Status:  http.StatusConflict,
		Code:    "USER-002",
		Message: "이미 가입된 사용자입니다.",
	})

	sharedError.RegisterDomainErrorResponse(invalidRole, sharedError.ErrorResponse{
		Status:  http.StatusBadRequest,
		Code:    "USER-003",
		Message: "유효하지 않은 역할입니다.",
	})
}
