package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/ieltsprep/config"
	"github.com/lshigami/ieltsprep/database"
	_ "github.com/lshigami/ieltsprep/docs"
	"github.com/lshigami/ieltsprep/internal/controller"
	adminctrl "github.com/lshigami/ieltsprep/internal/controller/admin"
	userctrl "github.com/lshigami/ieltsprep/internal/controller/user"
	"github.com/lshigami/ieltsprep/internal/grader"
	"github.com/lshigami/ieltsprep/internal/logger"
	"github.com/lshigami/ieltsprep/internal/normalizer"
	"github.com/lshigami/ieltsprep/internal/registry"
	"github.com/lshigami/ieltsprep/internal/repository"
	"github.com/lshigami/ieltsprep/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title IELTS Practice API
// @version 1.0
// @description Ingest IELTS listening, reading and writing tests, take them, and grade them automatically or by hand.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(cfg.Log.Level, cfg.Log.Pretty)

	app := fx.New(
		fx.Supply(cfg),

		fx.Provide(
			database.NewDatabase,
			NewGinEngine,
			NewRegistry,
			normalizer.New,
			NewGrader,
		),

		// Repositories Layer
		fx.Provide(
			repository.NewTrackRepository,
			repository.NewSectionRepository,
			repository.NewQuestionRepository,
			repository.NewSubmissionRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewBandConverterService,
			service.NewGeminiLLMService,
			service.NewTrackIngestService,
			service.NewAdminTrackService,
			service.NewUserTrackService,
			service.NewQuestionAdminService,
			service.NewSubmissionService,
			service.NewManualGradingService,
		),

		// API Controllers Layer
		fx.Provide(
			adminctrl.NewAdminTrackController,
			adminctrl.NewAdminGradingController,
			userctrl.NewUserTrackController,
		),

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
		log.Error().Err(err).Msg("Failed to stop application cleanly")
	}
}

// NewRegistry builds the question type registry once; it is read-only after.
func NewRegistry(cfg *config.Config) *registry.Registry {
	return registry.New(registry.WithArticles(cfg.Grading.Articles...))
}

func NewGrader(cfg *config.Config, reg *registry.Registry) *grader.Grader {
	return grader.New(reg, grader.WithWorkers(cfg.Grading.Workers))
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
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

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	db *gorm.DB,
	adminTrackCtrl *adminctrl.AdminTrackController,
	adminGradingCtrl *adminctrl.AdminGradingController,
	userTrackCtrl *userctrl.UserTrackController,
) {
	router.GET("/healthz", controller.Healthz(db))

	adminAPIGroup := router.Group("/api/v1/admin")
	{
		tracks := adminAPIGroup.Group("/tracks")
		tracks.POST("", adminTrackCtrl.IngestTrack)
		tracks.POST("/validate", adminTrackCtrl.ValidateTrack)
		tracks.POST("/draft", adminTrackCtrl.GenerateDraft)
		tracks.GET("", adminTrackCtrl.GetTracks)
		tracks.GET("/:track_id", adminTrackCtrl.GetTrackDetails)
		tracks.PUT("/:track_id/status", adminTrackCtrl.UpdateTrackStatus)
		tracks.DELETE("/:track_id", adminTrackCtrl.DeleteTrack)

		adminAPIGroup.PATCH("/questions/:question_id", adminTrackCtrl.UpdateQuestion)
		adminAPIGroup.DELETE("/questions/:question_id", adminTrackCtrl.DeleteQuestion)

		adminAPIGroup.GET("/grading/queue", adminGradingCtrl.GetPendingQueue)
		adminAPIGroup.POST("/submissions/:submission_id/grades", adminGradingCtrl.ApplyGrades)
		adminAPIGroup.POST("/submissions/:submission_id/regrade", adminGradingCtrl.Regrade)
	}

	userAPIGroup := router.Group("/api/v1")
	{
		userAPIGroup.GET("/tracks", userTrackCtrl.GetActiveTracks)
		userAPIGroup.GET("/tracks/:track_id", userTrackCtrl.GetTrackDetails)
		userAPIGroup.POST("/tracks/:track_id/submissions", userTrackCtrl.StartSubmission)
		userAPIGroup.GET("/tracks/:track_id/submissions", userTrackCtrl.GetSubmissions)

		userAPIGroup.POST("/submissions", userTrackCtrl.SubmitDocument)
		userAPIGroup.GET("/submissions/:submission_id", userTrackCtrl.GetSubmission)
		userAPIGroup.PUT("/submissions/:submission_id/answers", userTrackCtrl.SaveAnswers)
		userAPIGroup.POST("/submissions/:submission_id/submit", userTrackCtrl.Submit)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("IELTS API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			return server.Shutdown(ctx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	if err := database.AutoMigrate(db); err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
