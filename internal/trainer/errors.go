package trainer

import (
	"net/http"

	sharedError "github.com/minsukim/ptstudio/go-api-server/internal/shared/error"
)

const (
	trainerNotFound      = "TRAINER_NOT_FOUND"      // errInfo
	trainerRateBranch    = "TRAINER_RATE_BRANCH"    // errInfo
	trainerPhotoDisabled = "TRAINER_PHOTO_DISABLED" // errInfo
)

var (
	ErrTrainerNotFound      = sharedError.NewDomainError(trainerNotFound)
	ErrTrainerRateBranch    = sharedError.NewDomainError(trainerRateBranch)
	ErrTrainerPhotoDisabled = sharedError.NewDomainError(trainerPhotoDisabled)
)

func init() {
	sharedError.RegisterDomainErrorResponse(trainerNotFound, sharedError.ErrorResponse{
		Status:  http.StatusNotFound,
		Code:    "TRAINER-001",
		Message: "트레이너를 찾을 수 없습니다.",
	})

	sharedError.RegisterDomainErrorResponse(trainerRateBranch, sharedError.ErrorResponse{
		Status:  http.StatusBadRequest,
		Code:    "TRAINER-002",
		Message: "요율은 트레이너가 소속된 지점에만 설정할 수 있습니다.",
	})

	sharedError.RegisterDomainErrorResponse(trainerPhotoDisabled, sharedError.ErrorResponse{
		Status:  http.StatusServiceUnavailable,
		Code:    "TRAINER-003",
		Message: "사진 저장소가 설정되지 않았습니다.",
	})
}
