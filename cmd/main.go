package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jasonlvhit/gocron"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/symposium-hq/sympro/config"
	"github.com/symposium-hq/sympro/database"
	_ "github.com/symposium-hq/sympro/docs" // Swagger docs
	adminctrl "github.com/symposium-hq/sympro/internal/controller/admin"
	authctrl "github.com/symposium-hq/sympro/internal/controller/auth"
	userctrl "github.com/symposium-hq/sympro/internal/controller/user"
	"github.com/symposium-hq/sympro/internal/controller/middleware"
	"github.com/symposium-hq/sympro/internal/logger"
	"github.com/symposium-hq/sympro/internal/model"
	"github.com/symposium-hq/sympro/internal/repository"
	"github.com/symposium-hq/sympro/internal/service"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Symposium Management API
// @version 1.0
// @description API for symposium events with proctored test rounds, violation tracking, scoring, leaderboards and reports.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
		),

		fx.Provide(
			repository.NewUserRepository,
			repository.NewEventRepository,
			repository.NewRuleRepository,
			repository.NewRoundRepository,
			repository.NewQuestionRepository,
			repository.NewParticipantRepository,
			repository.NewTestAttemptRepository,
			repository.NewAnswerRepository,
			repository.NewReportRepository,
		),

		fx.Provide(
			service.NewAuthService,
			service.NewEventService,
			service.NewRoundService,
			service.NewRulesService,
			service.NewAttemptService,
			service.NewAnswerService,
			service.NewViolationService,
			service.NewLeaderboardService,
			service.NewReportService,
			service.NewSweeperService,
		),

		fx.Provide(
			authctrl.NewAuthController,
			adminctrl.NewEventController,
			adminctrl.NewRoundController,
			adminctrl.NewReportController,
			userctrl.NewAttemptController,
			userctrl.NewRoundController,
		),

		fx.Invoke(AutoMigrateDB),
		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(StartSweeper),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer wires the API routes and manages the HTTP
// server lifecycle through fx hooks.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	authService service.AuthService,
	authController *authctrl.AuthController,
	eventController *adminctrl.EventController,
	roundController *adminctrl.RoundController,
	reportController *adminctrl.ReportController,
	attemptController *userctrl.AttemptController,
	userRoundController *userctrl.RoundController,
) {
	api := router.Group("/api/v1")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authController.Register)
		authGroup.POST("/login", authController.Login)
		authGroup.GET("/me", middleware.Authenticate(authService), authController.Me)
	}

	// Administrative surface: event/round/question management and reports.
	admin := api.Group("/admin")
	admin.Use(
		middleware.Authenticate(authService),
		middleware.RequireRoles(model.RoleSuperAdmin, model.RoleEventAdmin, model.RoleRegistrationCommittee),
	)
	{
		admin.POST("/events", eventController.CreateEvent)
		admin.GET("/events", eventController.ListEvents)
		admin.GET("/events/:event_id", eventController.GetEvent)
		admin.PUT("/events/:event_id", eventController.UpdateEvent)
		admin.DELETE("/events/:event_id", eventController.DeleteEvent)
		admin.PUT("/events/:event_id/rules", eventController.UpsertEventRules)
		admin.POST("/events/:event_id/participants", eventController.RegisterParticipant)
		admin.GET("/events/:event_id/participants", eventController.ListParticipants)

		admin.POST("/events/:event_id/rounds", roundController.CreateRound)
		admin.GET("/events/:event_id/rounds", roundController.ListRounds)
		admin.GET("/rounds/:round_id", roundController.GetRound)
		admin.PUT("/rounds/:round_id", roundController.UpdateRound)
		admin.DELETE("/rounds/:round_id", roundController.DeleteRound)
		admin.PUT("/rounds/:round_id/rules", roundController.UpsertRoundRules)
		admin.POST("/rounds/:round_id/questions", roundController.CreateQuestion)
		admin.GET("/rounds/:round_id/questions", roundController.ListQuestions)
		admin.PUT("/questions/:question_id", roundController.UpdateQuestion)
		admin.DELETE("/questions/:question_id", roundController.DeleteQuestion)

		admin.POST("/events/:event_id/reports", reportController.GenerateEventReport)
		admin.POST("/reports/symposium", reportController.GenerateSymposiumReport)
		admin.GET("/reports", reportController.ListReports)
		admin.GET("/reports/:report_id", reportController.GetReport)
	}

	// Participant-facing surface: taking tests and reading standings.
	user := api.Group("")
	user.Use(middleware.Authenticate(authService))
	{
		user.POST("/rounds/:round_id/attempts", attemptController.StartAttempt)
		user.GET("/rounds/:round_id/rules", userRoundController.GetEffectiveRules)
		user.GET("/rounds/:round_id/leaderboard", userRoundController.RoundLeaderboard)
		user.GET("/events/:event_id/leaderboard", userRoundController.EventLeaderboard)

		user.GET("/attempts/mine", attemptController.ListMyAttempts)
		user.GET("/attempts/:attempt_id", attemptController.GetAttempt)
		user.POST("/attempts/:attempt_id/answers", attemptController.SaveAnswer)
		user.POST("/attempts/:attempt_id/violations", attemptController.LogViolation)
		user.POST("/attempts/:attempt_id/submit", attemptController.SubmitAttempt)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Symposium API server starting on port %s", cfg.Server.Port)
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
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

// StartSweeper schedules the overdue-attempt reconciliation job.
func StartSweeper(lc fx.Lifecycle, cfg *config.Config, sweeper service.SweeperService) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			gocron.Every(cfg.Sweeper.IntervalSeconds).Seconds().Do(func() {
				if err := sweeper.ReconcileOverdue(); err != nil {
					log.Error().Err(err).Msg("Overdue attempt sweep failed")
				}
			})
			go func() {
				<-gocron.Start()
			}()
			log.Info().Uint64("intervalSeconds", cfg.Sweeper.IntervalSeconds).Msg("Overdue attempt sweeper started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			gocron.Clear()
			return nil
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.User{},
		&model.Event{},
		&model.EventRules{},
		&model.Round{},
		&model.RoundRules{},
		&model.Question{},
		&model.Participant{},
		&model.TestAttempt{},
		&model.Answer{},
		&model.Report{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
