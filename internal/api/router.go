package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/appshelf/appshelf/internal/api/handlers"
	"github.com/appshelf/appshelf/internal/api/middleware"
	"github.com/appshelf/appshelf/internal/app"
	"github.com/appshelf/appshelf/internal/core/auth"
)

type Router struct {
	engine         *gin.Engine
	app            *app.App
	log            zerolog.Logger
	latency        func() time.Duration
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter builds the HTTP surface over a. latency is read on every
// request; nil disables the simulated delay.
func NewRouter(a *app.App, log zerolog.Logger, latency func() time.Duration) *Router {
	if latency == nil {
		latency = func() time.Duration { return 0 }
	}
	return &Router{
		app:            a,
		log:            log,
		latency:        latency,
		authMiddleware: middleware.NewAuthMiddleware(a.Auth),
	}
}

func (r *Router) Setup(mode string) *gin.Engine {
	gin.SetMode(mode)
	r.engine = gin.New()
	r.engine.Use(gin.Recovery())
	r.engine.Use(middleware.RequestLogger(r.log))
	r.engine.Use(middleware.ErrorHandler(r.log))
	r.engine.Use(middleware.SimulatedLatencyFunc(r.latency, "/api/health"))

	r.setupRoutes()
	return r.engine
}

func (r *Router) setupRoutes() {
	a := r.app
	api := r.engine.Group("/api")
	authn := r.authMiddleware.Authenticate()

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Auth routes
	authHandler := handlers.NewAuthHandler(a.Auth)
	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/forgot-password", authHandler.ForgotPassword)
		authRoutes.GET("/me", authn, authHandler.Me)
		authRoutes.POST("/refresh", authn, authHandler.Refresh)
	}

	// Catalog
	catalog := handlers.NewCatalogHandler(a.Public)
	api.GET("/collections", catalog.List)
	api.GET("/collections/:name", catalog.Get)

	withLog := handlers.WithHandlerLogger(r.log)

	// Collections with their extra operations
	articles := handlers.NewCollectionHandler(a.News.Store(), withLog).Register(api, authn)
	{
		h := handlers.NewArticleHandler(a.News)
		articles.GET("/breaking", h.Breaking)
		articles.POST("/:id/view", h.View)
		articles.POST("/:id/bookmark", authn, h.Bookmark)
	}

	handlers.NewCollectionHandler(a.Categories, withLog).Register(api, authn)

	products := handlers.NewCollectionHandler(a.Products.Store(), withLog).Register(api, authn)
	{
		h := handlers.NewProductHandler(a.Products)
		products.POST("/:id/adjust", authn, h.Adjust)
	}

	tasks := handlers.NewCollectionHandler(a.Tasks.Store(), withLog, handlers.WithOwner("userId", "")).Register(api, authn)
	{
		h := handlers.NewTaskHandler(a.Tasks)
		tasks.GET("/stats", h.Stats)
	}

	notes := handlers.NewCollectionHandler(a.Notes.Store(), withLog).Register(api, authn)
	{
		h := handlers.NewNoteHandler(a.Notes)
		notes.POST("/:id/pin", authn, h.Pin)
	}

	todos := handlers.NewCollectionHandler(a.Todos.Store(), withLog).Register(api, authn)
	{
		h := handlers.NewTodoHandler(a.Todos)
		todos.POST("/clear-completed", authn, h.ClearCompleted)
		todos.POST("/:id/toggle", authn, h.Toggle)
	}

	surveys := handlers.NewCollectionHandler(a.Surveys.Store(), withLog, handlers.WithOwner("surveyorId", "surveyorName")).Register(api, authn)
	{
		h := handlers.NewSurveyHandler(a.Surveys)
		surveys.GET("/by-surveyor/:surveyorId", h.BySurveyor)
	}

	farmSurveys := handlers.NewCollectionHandler(a.FarmSurveys.Store(), withLog, handlers.WithOwner("userId", "")).Register(api, authn)
	{
		h := handlers.NewFarmSurveyHandler(a.FarmSurveys)
		farmSurveys.POST("/:id/submit", authn, h.Submit)
		farmSurveys.POST("/:id/verify", authn, h.Verify)
	}

	// Admin routes
	adminHandler := handlers.NewAdminHandler(a.Auth, r.log)
	admin := api.Group("/admin", authn, r.authMiddleware.RequireRole(auth.RoleAdmin))
	{
		admin.GET("/users", adminHandler.ListUsers)
		admin.GET("/users/:userId", adminHandler.GetUserDetail)
		admin.PUT("/users/:userId", adminHandler.UpdateUser)
		admin.DELETE("/users/:userId", adminHandler.DeleteUser)
		admin.POST("/users/:userId/promote", adminHandler.PromoteUser)
		admin.POST("/users/:userId/demote", adminHandler.DemoteUser)
	}
}
