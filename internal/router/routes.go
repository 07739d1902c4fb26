package router

import (
	"log/slog"

	"github.com/minsukim/ptstudio/go-api-server/internal/auditlog"
	"github.com/minsukim/ptstudio/go-api-server/internal/auth"
	"github.com/minsukim/ptstudio/go-api-server/internal/branch"
	"github.com/minsukim/ptstudio/go-api-server/internal/config"
	"github.com/minsukim/ptstudio/go-api-server/internal/jobs"
	"github.com/minsukim/ptstudio/go-api-server/internal/member"
	"github.com/minsukim/ptstudio/go-api-server/internal/meta"
	"github.com/minsukim/ptstudio/go-api-server/internal/program"
	"github.com/minsukim/ptstudio/go-api-server/internal/session"
	"github.com/minsukim/ptstudio/go-api-server/internal/settlement"
	"github.com/minsukim/ptstudio/go-api-server/internal/shared/database"
	"github.com/minsukim/ptstudio/go-api-server/internal/shared/middleware"
	"github.com/minsukim/ptstudio/go-api-server/internal/shared/storage"
	"github.com/minsukim/ptstudio/go-api-server/internal/shared/token"
	"github.com/minsukim/ptstudio/go-api-server/internal/trainer"
	"github.com/minsukim/ptstudio/go-api-server/internal/user"
	"github.com/gin-gonic/gin"
)

// Setup wires all application routes using dependency injection and returns
// the background-job scheduler for the caller to start.
func Setup(router *gin.Engine, cfg *config.Config, db *database.DB) *jobs.Scheduler {
	// Meta handler (health check)
	metaHandler := meta.NewHandler(cfg, db)
	router.GET("/health", metaHandler.Health)

	// repository
	userRepository := user.NewUserRepository()
	branchRepository := branch.NewBranchRepository()
	memberRepository := member.NewMemberRepository()
	trainerRepository := trainer.NewTrainerRepository()
	programRepository := program.NewProgramRepository()
	presetRepository := program.NewPresetRepository()
	sessionRepository := session.NewSessionRepository()

	// shared services
	tokenManager := token.NewJWTManager(cfg)
	audit := auditlog.NewRecorder(db.DB)
	ledger := program.NewLedger(db.DB, programRepository)
	propagator := trainer.NewPropagator(db.DB, trainerRepository)

	var fileStorage storage.FileStorage
	if cfg.S3.Enabled {
		fs, err := storage.NewS3Storage(cfg.S3)
		if err != nil {
			// 사진 기능 없이 기동한다
			slog.Error("S3 스토리지 초기화 실패", "error", err)
		} else {
			fileStorage = fs
		}
	}

	// service
	authService := auth.NewAuthService(db.DB, userRepository, tokenManager)
	userService := user.NewUserService(db.DB, userRepository, audit)
	branchService := branch.NewBranchService(db.DB, branchRepository, audit)
	memberService := member.NewMemberService(db.DB, memberRepository, audit)
	trainerService := trainer.NewTrainerService(db.DB, trainerRepository, propagator, fileStorage, audit)
	programService := program.NewProgramService(db.DB, programRepository, presetRepository, ledger, audit)
	presetService := program.NewPresetService(db.DB, presetRepository, audit)
	sessionService := session.NewSessionService(db.DB, sessionRepository, programRepository, trainerRepository, ledger, audit)
	settlementService := settlement.NewSettlementService(db.DB, trainerRepository)
	logService := auditlog.NewLogService(db.DB)

	// handler
	authHandler := auth.NewAuthHandler(authService)
	userHandler := user.NewUserHandler(userService)
	branchHandler := branch.NewBranchHandler(branchService)
	memberHandler := member.NewMemberHandler(memberService)
	trainerHandler := trainer.NewTrainerHandler(trainerService)
	programHandler := program.NewProgramHandler(programService, presetService)
	sessionHandler := session.NewSessionHandler(sessionService)
	settlementHandler := settlement.NewSettlementHandler(settlementService)
	logHandler := auditlog.NewLogHandler(logService)

	// API v1 routes
	authV1 := router.Group("/api/v1/auth")
	{
		authV1.POST("/signup", authHandler.Signup)
		authV1.POST("/login", authHandler.Login)
	}

	// 인증 필요 + 매 요청 DB에서 역할/지점을 읽어 Caller를 구성한다
	apiV1 := router.Group("/api/v1")
	apiV1.Use(middleware.JWT(cfg), user.CallerMiddleware(db.DB, userRepository))
	{
		apiV1.GET("/users/me", authHandler.Me)
		apiV1.GET("/users", userHandler.List)
		apiV1.PUT("/users/:id/role", userHandler.AssignRole)

		apiV1.POST("/branches", branchHandler.Create)
		apiV1.GET("/branches", branchHandler.List)
		apiV1.DELETE("/branches/:id", branchHandler.Delete)

		apiV1.POST("/members", memberHandler.Create)
		apiV1.GET("/members", memberHandler.List)
		apiV1.GET("/members/:id", memberHandler.Get)
		apiV1.PATCH("/members/:id", memberHandler.Update)
		apiV1.DELETE("/members/:id", memberHandler.Delete)

		apiV1.POST("/trainers", trainerHandler.Create)
		apiV1.GET("/trainers", trainerHandler.List)
		apiV1.GET("/trainers/:id", trainerHandler.Get)
		apiV1.PATCH("/trainers/:id", trainerHandler.Update)
		apiV1.DELETE("/trainers/:id", trainerHandler.Deactivate)
		apiV1.POST("/trainers/:id/restore", trainerHandler.Restore)
		apiV1.POST("/trainers/:id/photo-upload-url", trainerHandler.PhotoUploadURL)

		apiV1.POST("/programs", programHandler.Create)
		apiV1.GET("/programs", programHandler.List)
		apiV1.GET("/programs/:id", programHandler.Get)
		apiV1.PATCH("/programs/:id", programHandler.Update)
		apiV1.DELETE("/programs/:id", programHandler.Delete)
		apiV1.POST("/programs/:id/re-register", programHandler.ReRegister)

		apiV1.POST("/program-presets", programHandler.CreatePreset)
		apiV1.GET("/program-presets", programHandler.ListPresets)
		apiV1.PUT("/program-presets/:id", programHandler.UpdatePreset)
		apiV1.DELETE("/program-presets/:id", programHandler.DeletePreset)

		apiV1.POST("/sessions", sessionHandler.Book)
		apiV1.GET("/sessions", sessionHandler.List)
		apiV1.GET("/sessions/:id", sessionHandler.Get)
		apiV1.PATCH("/sessions/:id", sessionHandler.Update)
		apiV1.POST("/sessions/:id/complete", sessionHandler.Complete)
		apiV1.POST("/sessions/:id/revert", sessionHandler.Revert)
		apiV1.DELETE("/sessions/:id", sessionHandler.Delete)

		apiV1.GET("/settlements", settlementHandler.Aggregate)

		apiV1.GET("/audit-logs", logHandler.List)
	}

	return jobs.NewScheduler(cfg.Scheduler, ledger)
}
