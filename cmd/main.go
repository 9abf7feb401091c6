package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/kwizify/config"
	"github.com/lshigami/kwizify/database"
	_ "github.com/lshigami/kwizify/docs"
	attemptctrl "github.com/lshigami/kwizify/internal/controller/attempt"
	authctrl "github.com/lshigami/kwizify/internal/controller/auth"
	quizctrl "github.com/lshigami/kwizify/internal/controller/quiz"
	"github.com/lshigami/kwizify/internal/cache"
	"github.com/lshigami/kwizify/internal/dto"
	"github.com/lshigami/kwizify/internal/logger"
	"github.com/lshigami/kwizify/internal/middleware"
	"github.com/lshigami/kwizify/internal/repository"
	"github.com/lshigami/kwizify/internal/service"
	"github.com/lshigami/kwizify/internal/validation"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Kwizify API
// @version 1.0
// @description Quiz authoring from documents, quiz attempts and grading.
// @host localhost:8000
// @BasePath /
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		fx.NopLogger,

		// Core
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			cache.NewQuizCache,
			NewGinEngine,
		),

		// Repositories
		fx.Provide(
			repository.NewUserRepository,
			repository.NewQuizRepository,
			repository.NewQuestionRepository,
			repository.NewOptionRepository,
			repository.NewQuizAttemptRepository,
			repository.NewAnswerRepository,
		),

		// Services
		fx.Provide(
			service.NewAuthService,
			service.NewQuizCatalogService,
			service.NewAttemptService,
			service.NewDocumentService,
			service.NewKeywordService,
			service.NewQuestionGenerator,
			service.NewQuizAuthoringService,
		),

		// Controllers
		fx.Provide(
			authctrl.NewAuthController,
			quizctrl.NewQuizController,
			attemptctrl.NewAttemptController,
		),

		fx.Invoke(validation.Register),
		fx.Invoke(AutoMigrateDB),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")

	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Error during shutdown")
	}
}

func NewGinEngine(cfg *config.Config) *gin.Engine {
	if cfg.Server.GinMode != "" {
		gin.SetMode(cfg.Server.GinMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		requestID, _ := param.Keys[middleware.ContextRequestID].(string)
		log.Info().
			Str("request_id", requestID).
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	origins := cfg.Server.CORSAllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowAll := len(origins) == 1 && origins[0] == "*"
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID},
		AllowCredentials: !allowAll,
		MaxAge:           12 * time.Hour,
	}
	if allowAll {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}
	r.Use(cors.New(corsConfig))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	db *gorm.DB,
	authService service.AuthService,
	authCtrl *authctrl.AuthController,
	quizCtrl *quizctrl.QuizController,
	attemptCtrl *attemptctrl.AttemptController,
) {
	router.GET("/health", healthHandler(db))

	authCtrl.RegisterRoutes(router)

	api := router.Group("/api/v1", middleware.JWTAuth(authService))
	quizCtrl.RegisterRoutes(api)
	attemptCtrl.RegisterRoutes(api)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Kwizify API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

// healthHandler godoc
// @Summary Liveness and database check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} dto.ErrorResponse
// @Router /health [get]
func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
			err = sqlDB.PingContext(pingCtx)
			cancel()
		}
		if err != nil {
			log.Warn().Err(err).Msg("Health check: database unreachable")
			ctx.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Message: "database unreachable"})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func AutoMigrateDB(db *gorm.DB) error {
	return database.AutoMigrate(db)
}
