package http

import (
	"github.com/avolkau/bookcatalog/internal/auth"
	"github.com/avolkau/bookcatalog/internal/database"
)

// RouterConfig contains all dependencies and configuration needed to
// create the HTTP router. Session and database handles are passed here
// explicitly instead of living in process-wide globals, so tests can
// build isolated routers.
type RouterConfig struct {
	// Core dependencies
	Database    *database.Database
	BookStore   BookStore
	ReviewStore ReviewStore

	// External ratings service
	RatingsClient RatingsClient

	// Authentication
	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	AuthMiddleware *auth.Middleware
	CSRFSecret     []byte
	SecureCookies  bool

	// UI paths
	TemplatesPath string
	StaticPath    string

	// Application info
	Version string
}
