package settlement

import (
	"net/http"
	"strconv"

	sharedContext "github.com/minsukim/ptstudio/go-api-server/internal/shared/context"
	sharedError "github.com/minsukim/ptstudio/go-api-server/internal/shared/error"
	"github.com/minsukim/ptstudio/go-api-server/internal/shared/handler"
	"github.com/gin-gonic/gin"
)

type SettlementHandler struct {
	settlementService *SettlementService
}

func NewSettlementHandler(settlementService *SettlementService) *SettlementHandler {
	return &SettlementHandler{
		settlementService: settlementService,
	}
}

func (h *SettlementHandler) Aggregate(c *gin.Context) {
	caller, ok := sharedContext.RequireCaller(c)
	if !ok {
		return
	}

	from := c.Query("from")
	to := c.Query("to")

	var branchID *uint32
	if v := c.Query("branchId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			c.JSON(sharedError.InvalidRequest.Status, sharedError.InvalidRequest)
			return
		}
		b := uint32(id)
		branchID = &b
	}

	response, err := h.settlementService.Aggregate(c.Request.Context(), caller, from, to, branchID)
	if err != nil {
		handler.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
