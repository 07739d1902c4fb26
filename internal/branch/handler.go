package branch

import (
	"net/http"
	"strconv"

	sharedContext "github.com/minsukim/ptstudio/go-api-server/internal/shared/context"
	sharedError "github.com/minsukim/ptstudio/go-api-server/internal/shared/error"
	"github.com/minsukim/ptstudio/go-api-server/internal/shared/handler"
	"github.com/gin-gonic/gin"
)

type BranchHandler struct {
	branchService *BranchService
}

func NewBranchHandler(branchService *BranchService) *BranchHandler {
	return &BranchHandler{
		branchService: branchService,
	}
}

func (h *BranchHandler) Create(c *gin.Context) {
	caller, ok := sharedContext.RequireCaller(c)
	if !ok {
		return
	}

	var request CreateBranchRequest
	if !handler.BindJSON(c, &request) {
		return
	}

	response, err := h.branchService.Create(c.Request.Context(), caller, &request)
	if err != nil {
		handler.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *BranchHandler) List(c *gin.Context) {
	caller, ok := sharedContext.RequireCaller(c)
	if !ok {
		return
	}

	response, err := h.branchService.List(c.Request.Context(), caller)
	if err != nil {
		handler.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *BranchHandler) Delete(c *gin.Context) {
	caller, ok := sharedContext.RequireCaller(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(sharedError.InvalidRequest.Status, sharedError.InvalidRequest)
		return
	}

	if err := h.branchService.Delete(c.Request.Context(), caller, uint32(id)); err != nil {
		handler.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}
