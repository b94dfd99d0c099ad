package handler

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/scholarhub-api/internal/middleware"
	"github.com/noah-isme/scholarhub-api/internal/service"
	"github.com/noah-isme/scholarhub-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/scholarhub-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/scholarhub-api/pkg/middleware/requestid"
)

// RouterConfig carries everything the HTTP surface needs.
type RouterConfig struct {
	APIPrefix      string
	AllowedOrigins []string
	EnableDocs     bool
	TokenRate      int

	Logger  *zap.Logger
	Metrics *service.MetricsService
	Gate    *middleware.Gate

	Health       *HealthHandler
	Auth         *AuthHandler
	Users        *UserHandler
	Scholarships *ScholarshipHandler
	Applications *ApplicationHandler
	Reviews      *ReviewHandler
	Analytics    *AnalyticsHandler
	Payments     *PaymentHandler
}

// NewRouter builds the gin engine with the canonical route table.
func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(corsmiddleware.New(cfg.AllowedOrigins))
	r.Use(middleware.Metrics(cfg.Metrics))
	r.Use(middleware.ResponseMeta())

	r.GET("/health", cfg.Health.Health)
	r.GET("/ready", cfg.Health.Ready)
	r.GET("/metrics", cfg.Health.Prometheus)
	if cfg.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	gate := cfg.Gate
	token := gate.Token()
	self := gate.Require(middleware.RequireSelf(middleware.QueryEmail))
	admin := gate.Require(middleware.RequireAdmin())
	moderator := gate.Require(middleware.RequireModerator())

	api := r.Group(cfg.APIPrefix)

	api.POST("/jwt", middleware.NewIPRateLimiter(cfg.TokenRate, log).Handler(), cfg.Auth.Issue)

	api.GET("/users/role/:email", cfg.Users.Role)
	api.POST("/users", cfg.Users.Upsert)
	api.GET("/user/profile", self, cfg.Users.Profile)
	api.GET("/users/profile", self, cfg.Users.Profile)
	api.PATCH("/users/profile", self, cfg.Users.UpdateProfile)
	api.GET("/users", admin, cfg.Users.List)
	api.PATCH("/users/role/:id", admin, cfg.Users.UpdateRole)
	api.DELETE("/users/:id", admin, cfg.Users.Delete)

	api.POST("/create-payment-intent", cfg.Payments.CreateIntent)

	api.POST("/applications", cfg.Applications.Create)
	api.GET("/dashboard/my-applications", self, cfg.Applications.ListMine)
	api.GET("/applications/pending", moderator, cfg.Applications.ListPending)
	api.GET("/moderator/pending-applications", moderator, cfg.Applications.ListPending)
	api.PATCH("/applications/status/:id", moderator, cfg.Applications.UpdateStatus)
	api.DELETE("/applications/:id", admin, cfg.Applications.Delete)

	api.GET("/all-scholarships", cfg.Scholarships.Search)
	api.GET("/scholarships/all", cfg.Scholarships.Search)
	api.GET("/scholarships/:id", cfg.Scholarships.Get)
	api.GET("/all-scholarships/:id", cfg.Scholarships.Get)
	api.POST("/add-scholarships", moderator, cfg.Scholarships.Create)
	api.GET("/add-scholarships", moderator, cfg.Scholarships.ListPosted)
	api.POST("/addScholars", moderator, cfg.Scholarships.Create)
	api.GET("/addScholars", moderator, cfg.Scholarships.ListPosted)
	api.PATCH("/scholarships/:id", moderator, cfg.Scholarships.Update)
	api.PUT("/addScholars/:id", moderator, cfg.Scholarships.Update)
	api.DELETE("/scholarships/:id", moderator, cfg.Scholarships.Delete)
	api.DELETE("/addScholars/:id", moderator, cfg.Scholarships.Delete)

	api.POST("/reviews", token, cfg.Reviews.Create)
	api.GET("/reviews/:id", cfg.Reviews.ListByScholarship)
	api.GET("/reviews/single/:id", cfg.Reviews.Get)
	api.GET("/reviews/scholarship/:id", cfg.Reviews.ListByScholarship)
	api.GET("/latest-reviews", cfg.Reviews.Latest)
	api.GET("/dashboard/my-reviews", self, cfg.Reviews.ListMine)
	api.PATCH("/reviews/:id", token, cfg.Reviews.Update)
	api.DELETE("/reviews/:id", token, cfg.Reviews.Delete)

	api.GET("/analytics/platform-stats", cfg.Analytics.PlatformStats)
	api.GET("/analytics/platform-stats/export", admin, cfg.Analytics.Export)

	return r
}
