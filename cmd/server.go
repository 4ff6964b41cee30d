package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/pte-scorer/config"
	"github.com/lshigami/pte-scorer/database"
	_ "github.com/lshigami/pte-scorer/docs"
	adminctrl "github.com/lshigami/pte-scorer/internal/controller/admin"
	userctrl "github.com/lshigami/pte-scorer/internal/controller/user"
	"github.com/lshigami/pte-scorer/internal/llm"
	"github.com/lshigami/pte-scorer/internal/middleware"
	"github.com/lshigami/pte-scorer/internal/quota"
	"github.com/lshigami/pte-scorer/internal/repository"
	"github.com/lshigami/pte-scorer/internal/scoring"
	"github.com/lshigami/pte-scorer/internal/service"
	"github.com/lshigami/pte-scorer/internal/tracing"
	"github.com/lshigami/pte-scorer/internal/transcription"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var serverModule = fx.Options(
	fx.Provide(
		database.NewDatabase,
		NewGinEngine,
	),

	fx.Provide(
		repository.NewQuestionRepository,
		repository.NewAttemptRepository,
		repository.NewUserTierRepository,
	),

	// External providers, each closed on shutdown.
	fx.Provide(
		provideTranscriber,
		provideStructuredModel,
		provideLedger,
		provideScorer,
	),

	fx.Provide(
		service.NewScoreConverterService,
		service.NewScoringService,
		service.NewAttemptService,
		service.NewQuestionService,
		service.NewUsageService,
	),

	fx.Provide(
		middleware.NewAuth,
		middleware.NewRateLimiter,
		userctrl.NewScoringController,
		adminctrl.NewQuestionController,
	),

	fx.Invoke(initTracing),
	fx.Invoke(AutoMigrateDB),
	fx.Invoke(RegisterRoutesAndStartServer),
)

func provideTranscriber(lc fx.Lifecycle, cfg *config.Config) (transcription.Transcriber, error) {
	t, closeFn, err := transcription.NewFromConfig(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{OnStop: func(context.Context) error { return closeFn() }})
	return t, nil
}

func provideStructuredModel(lc fx.Lifecycle, cfg *config.Config) (llm.StructuredModel, error) {
	m, closeFn, err := llm.NewFromConfig(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{OnStop: func(context.Context) error { return closeFn() }})
	return m, nil
}

func provideLedger(lc fx.Lifecycle, cfg *config.Config, db *gorm.DB, tiers repository.UserTierRepository) (quota.Ledger, error) {
	ledger, closeFn, err := quota.NewFromConfig(context.Background(), cfg, db, tiers)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{OnStop: func(context.Context) error { return closeFn() }})
	return ledger, nil
}

func provideScorer(m llm.StructuredModel, cfg *config.Config) scoring.Scorer {
	rubric := scoring.NewRubricClient(m, cfg.LLM.MaxConcurrency, cfg.LLM.Timeout)
	return scoring.NewRouter(rubric, scoring.NewChoiceScorer())
}

func initTracing(lc fx.Lifecycle, cfg *config.Config) error {
	shutdown, err := tracing.Init(cfg)
	if err != nil {
		return err
	}
	lc.Append(fx.Hook{OnStop: shutdown})
	return nil
}

func NewGinEngine(cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		requestID, _ := param.Keys[middleware.ContextRequestID].(string)
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("request_id", requestID).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Admin-Token", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: false,
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
	auth *middleware.Auth,
	limiter *middleware.RateLimiter,
	scoringCtrl *userctrl.ScoringController,
	questionCtrl *adminctrl.QuestionController,
) {
	adminAPIGroup := router.Group("/api/v1/admin", auth.RequireAdmin())
	questionCtrl.RegisterRoutes(adminAPIGroup)

	userAPIGroup := router.Group("/api/v1", auth.RequireUser(), limiter.Middleware(), middleware.RequestTimeout(cfg.Server.RequestLimit))
	scoringCtrl.RegisterRoutes(userAPIGroup)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Handlers stop at RequestLimit; the margin leaves room to write the response.
		WriteTimeout: cfg.Server.RequestLimit + 30*time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Scoring API server starting on port %s", cfg.Server.Port)
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

// AutoMigrateDB keeps the schema current on every start; `migrate` does the same without serving.
func AutoMigrateDB(db *gorm.DB) error {
	return database.AutoMigrate(db)
}
