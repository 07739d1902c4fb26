package auth

import (
	"net/http"

	sharedContext "github.com/minsukim/ptstudio/go-api-server/internal/shared/context"
	"github.com/minsukim/ptstudio/go-api-server/internal/shared/handler"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *AuthService
}

func NewAuthHandler(authService *AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

func (a *AuthHandler) Login(c *gin.Context) {
	var request LoginRequest

	// Parse and validate JSON request
	if !handler.BindJSON(c, &request) {
		return
	}

	response, err := a.authService.Login(c.Request.Context(), &request)
	if err != nil {
		handler.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (a *AuthHandler) Signup(c *gin.Context) {
	var request SignupRequest

	// Parse and validate JSON request
	if !handler.BindJSON(c, &request) {
		return
	}

	err := a.authService.Signup(c.Request.Context(), &request)
	if err != nil {
		handler.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{})
}

func (a *AuthHandler) Me(c *gin.Context) {
	userID, ok := sharedContext.RequireUserID(c)
	if !ok {
		return
	}

	response, err := a.authService.Me(c.Request.Context(), userID)
	if err != nil {
		handler.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
