package context

import (
	"net/http"
	"strconv"

	sharedError "github.com/minsukim/ptstudio/go-api-server/internal/shared/error"
	"github.com/minsukim/ptstudio/go-api-server/internal/shared/logger"
	"github.com/minsukim/ptstudio/go-api-server/internal/scope"
	"github.com/gin-gonic/gin"
)

// Context keys for storing user authentication information
const (
	UserIDKey    = "user_id"
	UserEmailKey = "user_email"
	CallerKey    = "caller"
)

func GetUserID(c *gin.Context) (uint32, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}

	idStr, ok := userID.(string)
	if !ok {
		return 0, false
	}

	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		return 0, false
	}

	return uint32(id), true
}

// RequireUserID retrieves the authenticated user's ID from the Gin context.
// If the user ID is not found, automatically sends an authentication error response.
func RequireUserID(c *gin.Context) (uint32, bool) {
	userID, ok := GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, sharedError.ErrorResponse{
			Status:  http.StatusUnauthorized,
			Code:    "AUTH-000",
			Message: "로그인을 해주세요.",
		})
		c.Abort()
		logger.FromContext(c.Request.Context()).Error("[API] context에 사용자 ID가 존재하지 않습니다.")
		return 0, false
	}
	return userID, true
}

// SetCaller stores the resolved caller scope in the Gin context.
func SetCaller(c *gin.Context, caller scope.Caller) {
	c.Set(CallerKey, caller)
}

func GetCaller(c *gin.Context) (scope.Caller, bool) {
	v, exists := c.Get(CallerKey)
	if !exists {
		return scope.Caller{}, false
	}
	caller, ok := v.(scope.Caller)
	return caller, ok
}

// RequireCaller retrieves the caller scope resolved by the identity
// middleware. Missing caller means the middleware chain is misconfigured;
// respond as unauthenticated.
func RequireCaller(c *gin.Context) (scope.Caller, bool) {
	caller, ok := GetCaller(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, sharedError.ErrorResponse{
			Status:  http.StatusUnauthorized,
			Code:    "AUTH-000",
			Message: "로그인을 해주세요.",
		})
		c.Abort()
		logger.FromContext(c.Request.Context()).Error("[API] context에 caller 정보가 존재하지 않습니다.")
		return scope.Caller{}, false
	}
	return caller, true
}
