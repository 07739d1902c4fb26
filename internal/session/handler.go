package session

import (
	"net/http"
	"strconv"

	sharedContext "github.com/minsukim/ptstudio/go-api-server/internal/shared/context"
	sharedError "github.com/minsukim/ptstudio/go-api-server/internal/shared/error"
	"github.com/minsukim/ptstudio/go-api-server/internal/shared/handler"
	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	sessionService *SessionService
}

func NewSessionHandler(sessionService *SessionService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
	}
}

func (h *SessionHandler) Book(c *gin.Context) {
	caller, ok := sharedContext.RequireCaller(c)
	if !ok {
		return
	}

	var request BookSessionRequest
	if !handler.BindJSON(c, &request) {
		return
	}

	response, err := h.sessionService.Book(c.Request.Context(), caller, &request)
	if err != nil {
		handler.HandleServiceError(c, err)
		return
	}

	// 일부 회원 예약 실패 시에도 성공분은 유지된다 (207 아님, 본문으로 전달)
	c.JSON(http.StatusCreated, response)
}

func (h *SessionHandler) Get(c *gin.Context) {
	caller, ok := sharedContext.RequireCaller(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	response, err := h.sessionService.Get(c.Request.Context(), caller, id)
	if err != nil {
		handler.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *SessionHandler) List(c *gin.Context) {
	caller, ok := sharedContext.RequireCaller(c)
	if !ok {
		return
	}

	filter := ListFilter{
		From: c.Query("from"),
		To:   c.Query("to"),
	}
	if v := c.Query("trainerId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			c.JSON(sharedError.InvalidRequest.Status, sharedError.InvalidRequest)
			return
		}
		filter.TrainerID = uint32(id)
	}
	if v := c.Query("programId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			c.JSON(sharedError.InvalidRequest.Status, sharedError.InvalidRequest)
			return
		}
		filter.ProgramID = uint32(id)
	}

	var branchID uint32
	if v := c.Query("branchId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			c.JSON(sharedError.InvalidRequest.Status, sharedError.InvalidRequest)
			return
		}
		branchID = uint32(id)
	}

	response, err := h.sessionService.List(c.Request.Context(), caller, filter, branchID)
	if err != nil {
		handler.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *SessionHandler) Update(c *gin.Context) {
	caller, ok := sharedContext.RequireCaller(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var request UpdateSessionRequest
	if !handler.BindJSON(c, &request) {
		return
	}

	response, err := h.sessionService.Update(c.Request.Context(), caller, id, &request)
	if err != nil {
		handler.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *SessionHandler) Complete(c *gin.Context) {
	caller, ok := sharedContext.RequireCaller(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var request CompleteSessionRequest
	if !handler.BindJSON(c, &request) {
		return
	}

	response, err := h.sessionService.Complete(c.Request.Context(), caller, id, &request)
	if err != nil {
		handler.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *SessionHandler) Revert(c *gin.Context) {
	caller, ok := sharedContext.RequireCaller(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	response, err := h.sessionService.Revert(c.Request.Context(), caller, id)
	if err != nil {
		handler.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *SessionHandler) Delete(c *gin.Context) {
	caller, ok := sharedContext.RequireCaller(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.sessionService.Delete(c.Request.Context(), caller, id); err != nil {
		handler.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

func parseIDParam(c *gin.Context) (uint32, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(sharedError.InvalidRequest.Status, sharedError.InvalidRequest)
		return 0, false
	}
	return uint32(id), true
}
