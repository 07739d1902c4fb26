package program

import (
	"net/http"

	sharedError "github.com/minsukim/ptstudio/go-api-server/internal/shared/error"
)

const (
	programNotFound       = "PROGRAM_NOT_FOUND"        // errInfo
	programBadStatus      = "PROGRAM_BAD_STATUS"       // errInfo
	programNotExpired     = "PROGRAM_NOT_EXPIRED"      // errInfo
	programPresetNotFound = "PROGRAM_PRESET_NOT_FOUND" // errInfo
)

var (
	ErrProgramNotFound       = sharedError.NewDomainError(programNotFound)
	ErrProgramBadStatus      = sharedError.NewDomainError(programBadStatus)
	ErrProgramNotExpired     = sharedError.NewDomainError(programNotExpired)
	ErrProgramPresetNotFound = sharedError.NewDomainError(programPresetNotFound)
)

func init() {
	sharedError.RegisterDomainErrorResponse(programNotFound, sharedError.ErrorResponse{
		Status:  http.StatusNotFound,
		Code:    "PROGRAM-001",
		Message: "프로그램을 찾을 수 없습니다.",
	})

	sharedError.RegisterDomainErrorResponse(programBadStatus, sharedError.ErrorResponse{
		Status:  http.StatusBadRequest,
		Code:    "PROGRAM-002",
		Message: "만료 상태는 직접 변경할 수 없습니다.",
	})

	sharedError.RegisterDomainErrorResponse(programNotExpired, sharedError.ErrorResponse{
		Status:  http.StatusConflict,
		Code:    "PROGRAM-003",
		Message: "만료되지 않은 프로그램은 재등록할 수 없습니다.",
	})

	sharedError.RegisterDomainErrorResponse(programPresetNotFound, sharedError.ErrorResponse{
		Status:  http.StatusNotFound,
		Code:    "PROGRAM-004",
		Message: "프로그램 프리셋을 찾을 수 없습니다.",
	})
}
