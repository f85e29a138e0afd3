package routes

import (
	"fmt"
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joshua-takyi/tampabay/internal/container"
	"github.com/joshua-takyi/tampabay/internal/handlers"
	"github.com/joshua-takyi/tampabay/internal/metrics"
	"github.com/joshua-takyi/tampabay/internal/middleware"
	"github.com/joshua-takyi/tampabay/internal/models"
)

func init() {
	// Request bodies with fields the DTOs do not declare are rejected.
	binding.EnableDecoderDisallowUnknownFields = true
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := models.RegisterValidations(v); err != nil {
			panic(err)
		}
	}
}

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) (*gin.Engine, error) {
	cfg := container.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	tmpl, err := handlers.LoadTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID", "X-Session-ID"},
		ExposeHeaders:    []string{"Content-Length", "Location", "X-Request-ID"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	if cfg.EnableMetrics {
		r.Use(metrics.Middleware())
	}
	if cfg.SentryDSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	r.Use(middleware.ErrorHandler())
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":        "OK",
			"service":       "tampabay-api",
			"view_tracking": container.ViewService.Enabled(),
		})
	})
	if cfg.EnableMetrics {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	secureCookies := cfg.IsProduction()
	auth := middleware.AuthMiddleware(container.Tokens)
	optionalAuth := middleware.OptionalAuth(container.Tokens)

	api := r.Group("/api")
	{
		api.POST("/Users", handlers.CreateUser(container.UserService))
		api.POST("/Sessions", handlers.AuthenticateUser(container.UserService, secureCookies))
		api.GET("/Users/me", auth, handlers.GetCurrentUser(container.UserService))
		api.GET("/Users/me/views", auth, handlers.GetMyViews(container.ViewService))

		events := api.Group("/Events")
		events.GET("", handlers.ListEvents(container.EventService))
		events.GET("/:id", optionalAuth, handlers.GetEvent(container.EventService, container.ViewService))
		events.POST("", auth, handlers.CreateEvent(container.EventService))
		events.PUT("/:id", auth, handlers.UpdateEvent(container.EventService))
		events.DELETE("/:id", auth, handlers.DeleteEvent(container.EventService))
		events.GET("/:id/views", auth, handlers.GetEventViews(container.ViewService))

		reviews := api.Group("/Reviews", auth)
		reviews.POST("", handlers.CreateReview(container.ReviewService))
		reviews.DELETE("/:id", handlers.DeleteReview(container.ReviewService))
	}

	pages := r.Group("/", optionalAuth)
	{
		pages.GET("/", handlers.IndexPage(container.EventService))
		pages.GET("/events/:id", handlers.EventPage(container.EventService, container.ViewService))
		pages.GET("/signup", handlers.SignUpPage())
		pages.POST("/signup", handlers.SignUpForm(container.UserService))
		pages.GET("/signin", handlers.SignInPage())
		pages.POST("/signin", handlers.SignInForm(container.UserService, secureCookies))
		pages.POST("/signout", handlers.SignOut(secureCookies))
	}

	return r, nil
}
