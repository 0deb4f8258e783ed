package http

import (
	"github.com/gin-gonic/gin"

	"github.com/avolkau/bookcatalog/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	// Session runs after CSRF so session context isn't overwritten by
	// CSRF's request replacement
	router.Use(cfg.SessionManager.SessionLoadSave())

	if cfg.TemplatesPath != "" {
		router.LoadHTMLGlob(cfg.TemplatesPath + "/*.html")
	}
	if cfg.StaticPath != "" {
		router.Static("/static", cfg.StaticPath)
	}

	// Public auth routes: index, login, logout, register, username check
	authController := auth.NewAuthController(cfg.AuthService, cfg.SessionManager)
	authController.RegisterRoutes(router)

	booksController := NewBooksController(cfg.BookStore, cfg.ReviewStore, cfg.RatingsClient, cfg.SessionManager)

	// Session-gated catalog routes
	private := router.Group("")
	private.Use(cfg.AuthMiddleware.RequireSession())
	private.GET("/search", booksController.SearchPage)
	private.GET("/search_isbn", booksController.SearchISBN)
	private.POST("/search_isbn", booksController.SearchISBN)
	private.GET("/search_author", booksController.SearchAuthor)
	private.POST("/search_author", booksController.SearchAuthor)
	private.GET("/search_title", booksController.SearchTitle)
	private.POST("/search_title", booksController.SearchTitle)
	private.POST("/book", booksController.BookDetail)
	private.GET("/book/:isbn", booksController.BookByISBN)
	private.POST("/rate", booksController.RateBook)

	// Public JSON API
	apiController := NewAPIController(cfg.BookStore, cfg.ReviewStore)
	router.GET("/api/:isbn", apiController.GetBook)

	// Health endpoints
	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	return router
}
