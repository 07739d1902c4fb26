package member

import (
	"net/http"
	"strconv"

	sharedContext "github.com/minsukim/ptstudio/go-api-server/internal/shared/context"
	sharedError "github.com/minsukim/ptstudio/go-api-server/internal/shared/error"
	"github.com/minsukim/ptstudio/go-api-server/internal/shared/handler"
	"github.com/gin-gonic/gin"
)

type MemberHandler struct {
	memberService *MemberService
}

func NewMemberHandler(memberService *MemberService) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
	}
}

func (h *MemberHandler) Create(c *gin.Context) {
	caller, ok := sharedContext.RequireCaller(c)
	if !ok {
		return
	}

	var request CreateMemberRequest
	if !handler.BindJSON(c, &request) {
		return
	}

	response, err := h.memberService.Create(c.Request.Context(), caller, &request)
	if err != nil {
		handler.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *MemberHandler) Get(c *gin.Context) {
	caller, ok := sharedContext.RequireCaller(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	response, err := h.memberService.Get(c.Request.Context(), caller, id)
	if err != nil {
		handler.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *MemberHandler) List(c *gin.Context) {
	caller, ok := sharedContext.RequireCaller(c)
	if !ok {
		return
	}

	response, err := h.memberService.List(c.Request.Context(), caller)
	if err != nil {
		handler.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *MemberHandler) Update(c *gin.Context) {
	caller, ok := sharedContext.RequireCaller(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var request UpdateMemberRequest
	if !handler.BindJSON(c, &request) {
		return
	}

	response, err := h.memberService.Update(c.Request.Context(), caller, id, &request)
	if err != nil {
		handler.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *MemberHandler) Delete(c *gin.Context) {
	caller, ok := sharedContext.RequireCaller(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.memberService.Delete(c.Request.Context(), caller, id); err != nil {
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
