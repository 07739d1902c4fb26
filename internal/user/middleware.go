package user

import (
	"errors"
	"net/http"

	"github.com/minsukim/ptstudio/go-api-server/internal/model"
	"github.com/minsukim/ptstudio/go-api-server/internal/scope"
	sharedContext "github.com/minsukim/ptstudio/go-api-server/internal/shared/context"
	sharedError "github.com/minsukim/ptstudio/go-api-server/internal/shared/error"
	"github.com/minsukim/ptstudio/go-api-server/internal/shared/logger"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CallerMiddleware resolves the authenticated account into a scope.Caller and
// stores it in the request context. Runs after the JWT middleware.
//
// Role과 지점 배정은 토큰이 아니라 매 요청 DB에서 읽는다. 관리자가 역할을
// 바꾸면 즉시 반영되어야 하기 때문.
func CallerMiddleware(db *gorm.DB, userRepository *UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := sharedContext.RequireUserID(c)
		if !ok {
			return
		}

		ctx := c.Request.Context()
		log := logger.FromContext(ctx)

		u, err := userRepository.FindByID(ctx, db, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// 토큰은 유효하지만 계정이 삭제된 경우
				c.JSON(http.StatusUnauthorized, sharedError.ErrorResponse{
					Status:  http.StatusUnauthorized,
					Code:    "AUTH-000",
					Message: "로그인을 해주세요.",
				})
				c.Abort()
				return
			}
			log.Error("caller 조회 실패", "error", err, "user_id", userID)
			c.JSON(sharedError.InternalServerError.Status, sharedError.InternalServerError)
			c.Abort()
			return
		}

		caller := scope.Caller{
			UserID: u.ID,
			Role:   u.Role,
		}

		switch u.Role {
		case model.RoleManager:
			caller.BranchIDs = u.BranchIDs()
		case model.RoleTrainer:
			if u.TrainerID != nil {
				caller.TrainerID = *u.TrainerID
				branchIDs, err := userRepository.TrainerBranchIDs(ctx, db, *u.TrainerID)
				if err != nil {
					log.Error("트레이너 지점 조회 실패", "error", err, "trainer_id", *u.TrainerID)
					c.JSON(sharedError.InternalServerError.Status, sharedError.InternalServerError)
					c.Abort()
					return
				}
				caller.BranchIDs = branchIDs
			}
		}

		sharedContext.SetCaller(c, caller)
		c.Next()
	}
}
