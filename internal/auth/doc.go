// Package auth provides authentication for the application: bcrypt password
// hashing, server-side sessions, CSRF protection and the login/registration
// HTTP controllers.
//
// # Configuration
//
//	AUTH_SESSION_SECRET=<hex-32-bytes>  # Auto-generated if empty
//	AUTH_SESSION_LIFETIME=24h           # Session duration
//	AUTH_BCRYPT_COST=12                 # bcrypt cost factor
//	AUTH_SECURE_COOKIES=true            # HTTPS-only cookies
//
// # Usage
//
// Initialize authentication in entrypoint:
//
//	authService := auth.NewService(userRepo, cfg.Auth)
//	sessionManager, _ := auth.NewSessionManager(sqlDB, cfg.Auth)
//	router.Use(sessionManager.SessionLoadSave())
//
// Gate routes and extract the user in handlers:
//
//	group.Use(authMiddleware.RequireSession())
//	userID := auth.GetUserID(c)
package auth
