package auditlog

import (
	"net/http"
	"strconv"

	sharedContext "github.com/minsukim/ptstudio/go-api-server/internal/shared/context"
	"github.com/minsukim/ptstudio/go-api-server/internal/shared/handler"
	"github.com/gin-gonic/gin"
)

type LogHandler struct {
	logService *LogService
}

func NewLogHandler(logService *LogService) *LogHandler {
	return &LogHandler{logService: logService}
}

func (h *LogHandler) List(c *gin.Context) {
	caller, ok := sharedContext.RequireCaller(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	response, err := h.logService.List(c.Request.Context(), caller, limit)
	if err != nil {
		handler.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
