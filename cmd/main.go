package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/examprep/config"
	_ "github.com/lshigami/examprep/docs"
	adminctrl "github.com/lshigami/examprep/internal/controller/admin"
	userctrl "github.com/lshigami/examprep/internal/controller/user"
	"github.com/lshigami/examprep/internal/database"
	"github.com/lshigami/examprep/internal/evaluator"
	"github.com/lshigami/examprep/internal/kvstore"
	"github.com/lshigami/examprep/internal/logger"
	"github.com/lshigami/examprep/internal/middleware"
	"github.com/lshigami/examprep/internal/payment"
	"github.com/lshigami/examprep/internal/repository"
	"github.com/lshigami/examprep/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
)

// @title Exam Prep API
// @version 1.0
// @description Mock-test catalog with membership gating, attempt ceilings and payments.
// @contact.name API Support
// @contact.email support@example.com
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			kvstore.NewStore,
			func(store kvstore.Store) *evaluator.Evaluator { return evaluator.New(store) },
			payment.NewHostedCheckout,
			NewGinEngine,
		),

		fx.Provide(
			repository.NewCategoryRepository,
			repository.NewTestRepository,
			repository.NewQuestionRepository,
			repository.NewPlanRepository,
			repository.NewUserRepository,
			repository.NewPurchaseRepository,
			repository.NewAttemptLogRepository,
			repository.NewTestResultRepository,
			repository.NewFavoriteRepository,
			repository.NewBannerRepository,
			repository.NewNotificationRepository,
		),

		fx.Provide(
			service.NewUserService,
			service.NewMembershipService,
			service.NewPersonalizationService,
			service.NewCatalogService,
			service.NewSessionService,
			service.NewPurchaseService,
			service.NewExplanationService,
			service.NewAdminCatalogService,
			service.NewAdminUserService,
			service.NewAdminContentService,
		),

		fx.Provide(
			userctrl.NewGuestController,
			userctrl.NewCatalogController,
			userctrl.NewSessionController,
			userctrl.NewMembershipController,
			userctrl.NewPersonalizationController,
			adminctrl.NewAdminCatalogController,
			adminctrl.NewAdminUserController,
			adminctrl.NewAdminContentController,
		),

		fx.Invoke(func(cfg *config.Config) { logger.Init(cfg.Log.Level, cfg.Log.Pretty) }),
		fx.Invoke(database.AutoMigrate),
		fx.Invoke(RegisterRoutes),
		fx.Invoke(StartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Shutdown did not complete cleanly")
	}
}

func NewGinEngine(cfg *config.Config) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	default:
		gin.SetMode(gin.DebugMode)
	}

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

	origins := cfg.Server.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.GuestHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: len(origins) != 1 || origins[0] != "*",
		MaxAge:           12 * time.Hour,
	}))

	// http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/healthz", func(ctx *gin.Context) { ctx.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	return r
}

type routeParams struct {
	fx.In

	Router *gin.Engine
	Config *config.Config
	Users  service.UserService

	Guests       *userctrl.GuestController
	Catalog      *userctrl.CatalogController
	Sessions     *userctrl.SessionController
	Membership   *userctrl.MembershipController
	Personal     *userctrl.PersonalizationController
	AdminCatalog *adminctrl.AdminCatalogController
	AdminUsers   *adminctrl.AdminUserController
	AdminContent *adminctrl.AdminContentController
}

func RegisterRoutes(p routeParams) {
	public := p.Router.Group("/api/v1")
	p.Guests.RegisterRoutes(public)

	api := p.Router.Group("/api/v1", middleware.Auth(p.Config.Auth.JWTSecret, p.Users))
	p.Catalog.RegisterRoutes(api)
	p.Sessions.RegisterRoutes(api)
	p.Membership.RegisterRoutes(api)
	p.Personal.RegisterRoutes(api)

	admin := api.Group("/admin", middleware.RequireAdmin())
	p.AdminCatalog.RegisterRoutes(admin)
	p.AdminUsers.RegisterRoutes(admin)
	p.AdminContent.RegisterRoutes(admin)
}

func StartServer(lc fx.Lifecycle, router *gin.Engine, cfg *config.Config) {
	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Exam prep API starting on port %s", cfg.Server.Port)
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
