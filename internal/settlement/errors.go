package settlement

import (
	"net/http"

	sharedError "github.com/minsukim/ptstudio/go-api-server/internal/shared/error"
)

const settlementBadRange = "SETTLEMENT_BAD_RANGE" // errInfo

var ErrSettlementBadRange = sharedError.NewDomainError(settlementBadRange)

func init() {
	sharedError.RegisterDomainErrorResponse(settlementBadRange, sharedError.ErrorResponse{
		Status:  http.StatusBadRequest,
		Code:    "SETTLE-001",
		Message: "조회 기간이 올바르지 않습니다.",
	})
}
