package trainer

import (
	"net/http"
	"strconv"

	sharedContext "github.com/minsukim/ptstudio/go-api-server/internal/shared/context"
	sharedError "github.com/minsukim/ptstudio/go-api-server/internal/shared/error"
	"github.com/minsukim/ptstudio/go-api-server/internal/shared/handler"
	"github.com/gin-gonic/gin"
)

type TrainerHandler struct {
	trainerService *TrainerService
}

func NewTrainerHandler(trainerService *TrainerService) *TrainerHandler {
	return &TrainerHandler{
		trainerService: trainerService,
	}
}

func (h *TrainerHandler) Create(c *gin.Context) {
	caller, ok := sharedContext.RequireCaller(c)
	if !ok {
		return
	}

	var request CreateTrainerRequest
	if !handler.BindJSON(c, &request) {
		return
	}

	response, err := h.trainerService.Create(c.Request.Context(), caller, &request)
	if err != nil {
		handler.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *TrainerHandler) Get(c *gin.Context) {
	caller, ok := sharedContext.RequireCaller(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	response, err := h.trainerService.Get(c.Request.Context(), caller, id)
	if err != nil {
		handler.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *TrainerHandler) List(c *gin.Context) {
	caller, ok := sharedContext.RequireCaller(c)
	if !ok {
		return
	}

	includeInactive := c.Query("includeInactive") == "true"

	response, err := h.trainerService.List(c.Request.Context(), caller, includeInactive)
	if err != nil {
		handler.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *TrainerHandler) Update(c *gin.Context) {
	caller, ok := sharedContext.RequireCaller(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var request UpdateTrainerRequest
	if !handler.BindJSON(c, &request) {
		return
	}

	response, err := h.trainerService.Update(c.Request.Context(), caller, id, &request)
	if err != nil {
		handler.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *TrainerHandler) Deactivate(c *gin.Context) {
	caller, ok := sharedContext.RequireCaller(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.trainerService.Deactivate(c.Request.Context(), caller, id); err != nil {
		handler.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

func (h *TrainerHandler) Restore(c *gin.Context) {
	caller, ok := sharedContext.RequireCaller(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	response, err := h.trainerService.Restore(c.Request.Context(), caller, id)
	if err != nil {
		handler.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *TrainerHandler) PhotoUploadURL(c *gin.Context) {
	caller, ok := sharedContext.RequireCaller(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var request PhotoUploadURLRequest
	if !handler.BindJSON(c, &request) {
		return
	}

	response, err := h.trainerService.PhotoUploadURL(c.Request.Context(), caller, id, &request)
	if err != nil {
		handler.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func parseIDParam(c *gin.Context) (uint32, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(sharedError.InvalidRequest.Status, sharedError.InvalidRequest)
		return 0, false
	}
	return uint32(id), true
}
