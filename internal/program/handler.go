package program

import (
	"net/http"
	"strconv"

	sharedContext "github.com/minsukim/ptstudio/go-api-server/internal/shared/context"
	sharedError "github.com/minsukim/ptstudio/go-api-server/internal/shared/error"
	"github.com/minsukim/ptstudio/go-api-server/internal/shared/handler"
	"github.com/gin-gonic/gin"
)

type ProgramHandler struct {
	programService *ProgramService
	presetService  *PresetService
}

func NewProgramHandler(programService *ProgramService, presetService *PresetService) *ProgramHandler {
	return &ProgramHandler{
		programService: programService,
		presetService:  presetService,
	}
}

func (h *ProgramHandler) Create(c *gin.Context) {
	caller, ok := sharedContext.RequireCaller(c)
	if !ok {
		return
	}

	var request CreateProgramRequest
	if !handler.BindJSON(c, &request) {
		return
	}

	response, err := h.programService.Create(c.Request.Context(), caller, &request)
	if err != nil {
		handler.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *ProgramHandler) Get(c *gin.Context) {
	caller, ok := sharedContext.RequireCaller(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	response, err := h.programService.Get(c.Request.Context(), caller, id)
	if err != nil {
		handler.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *ProgramHandler) List(c *gin.Context) {
	caller, ok := sharedContext.RequireCaller(c)
	if !ok {
		return
	}

	response, err := h.programService.List(c.Request.Context(), caller)
	if err != nil {
		handler.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *ProgramHandler) Update(c *gin.Context) {
	caller, ok := sharedContext.RequireCaller(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var request UpdateProgramRequest
	if !handler.BindJSON(c, &request) {
		return
	}

	response, err := h.programService.Update(c.Request.Context(), caller, id, &request)
	if err != nil {
		handler.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *ProgramHandler) Delete(c *gin.Context) {
	caller, ok := sharedContext.RequireCaller(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.programService.Delete(c.Request.Context(), caller, id); err != nil {
		handler.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

func (h *ProgramHandler) ReRegister(c *gin.Context) {
	caller, ok := sharedContext.RequireCaller(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var request ReRegisterProgramRequest
	if !handler.BindJSON(c, &request) {
		return
	}

	response, err := h.programService.ReRegister(c.Request.Context(), caller, id, &request)
	if err != nil {
		handler.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *ProgramHandler) CreatePreset(c *gin.Context) {
	caller, ok := sharedContext.RequireCaller(c)
	if !ok {
		return
	}

	var request PresetRequest
	if !handler.BindJSON(c, &request) {
		return
	}

	response, err := h.presetService.Create(c.Request.Context(), caller, &request)
	if err != nil {
		handler.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *ProgramHandler) ListPresets(c *gin.Context) {
	caller, ok := sharedContext.RequireCaller(c)
	if !ok {
		return
	}

	response, err := h.presetService.List(c.Request.Context(), caller)
	if err != nil {
		handler.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *ProgramHandler) UpdatePreset(c *gin.Context) {
	caller, ok := sharedContext.RequireCaller(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var request PresetRequest
	if !handler.BindJSON(c, &request) {
		return
	}

	response, err := h.presetService.Update(c.Request.Context(), caller, id, &request)
	if err != nil {
		handler.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *ProgramHandler) DeletePreset(c *gin.Context) {
	caller, ok := sharedContext.RequireCaller(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.presetService.Delete(c.Request.Context(), caller, id); err != nil {
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
