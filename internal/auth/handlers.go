package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AuthController handles registration, login, logout and the username
// availability check.
type AuthController struct {
	service        *Service
	sessionManager *SessionManager
}

// NewAuthController creates a new authentication controller.
func NewAuthController(service *Service, sessionManager *SessionManager) *AuthController {
	return &AuthController{
		service:        service,
		sessionManager: sessionManager,
	}
}

// RegisterRoutes registers authentication routes on the router.
func (ac *AuthController) RegisterRoutes(router *gin.Engine) {
	router.GET("/", ac.Index)
	router.GET("/login", ac.LoginPage)
	router.POST("/login", ac.Login)
	router.GET("/logout", ac.Logout)
	router.GET("/register", ac.RegisterPage)
	router.POST("/register", ac.Register)
	router.GET("/check", ac.Check)
	router.POST("/check", ac.Check)
}

// Index routes to the search page for logged-in users and to the login
// page for everyone else.
func (ac *AuthController) Index(c *gin.Context) {
	if ac.sessionManager.IsAuthenticated(c.Request) {
		c.Redirect(http.StatusFound, "/search")
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

// LoginPage renders the login form. Any existing session is dropped on
// entry, matching the POST handler.
func (ac *AuthController) LoginPage(c *gin.Context) {
	_ = ac.sessionManager.DestroySession(c.Request)

	c.HTML(http.StatusOK, "login.html", gin.H{
		"Title":     "Login",
		"CSRFToken": GetCSRFToken(c),
	})
}

// Login handles the login form submission. The same error message covers
// unknown usernames and wrong passwords.
func (ac *AuthController) Login(c *gin.Context) {
	_ = ac.sessionManager.DestroySession(c.Request)

	username := c.PostForm("username")
	password := c.PostForm("password")

	if username == "" {
		ac.renderError(c, http.StatusBadRequest, ErrUsernameRequired.Error())
		return
	}
	if password == "" {
		ac.renderError(c, http.StatusBadRequest, ErrPasswordRequired.Error())
		return
	}

	user, err := ac.service.Authenticate(username, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			ac.renderError(c, http.StatusUnauthorized, ErrInvalidCredentials.Error())
			return
		}
		ac.renderError(c, http.StatusInternalServerError, "login failed")
		return
	}

	if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
		ac.renderError(c, http.StatusInternalServerError, "failed to create session")
		return
	}

	c.Redirect(http.StatusFound, "/search")
}

// Logout destroys the session and redirects to the home route.
func (ac *AuthController) Logout(c *gin.Context) {
	_ = ac.sessionManager.DestroySession(c.Request)
	c.Redirect(http.StatusFound, "/")
}

// RegisterPage renders the registration form.
func (ac *AuthController) RegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{
		"Title":     "Register",
		"CSRFToken": GetCSRFToken(c),
	})
}

// Register handles the registration form submission. Each missing field
// gets its own error message; duplicate usernames lose at the database
// constraint and surface as a conflict.
func (ac *AuthController) Register(c *gin.Context) {
	username := c.PostForm("set_username")
	password := c.PostForm("set_password")
	confirmPassword := c.PostForm("confirm_password")

	user, err := ac.service.Register(username, password, confirmPassword)
	if err != nil {
		switch {
		case errors.Is(err, ErrUsernameRequired),
			errors.Is(err, ErrPasswordRequired),
			errors.Is(err, ErrConfirmPasswordRequired),
			errors.Is(err, ErrPasswordMismatch):
			ac.renderError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrUserExists):
			ac.renderError(c, http.StatusConflict, ErrUserExists.Error())
		default:
			ac.renderError(c, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
		ac.renderError(c, http.StatusInternalServerError, "failed to create session")
		return
	}

	ac.sessionManager.Flash(c.Request, "Registration successful")
	c.Redirect(http.StatusFound, "/search")
}

// Check reports username availability for live front-end validation:
// false when the name is taken, true when available. The lookup loads all
// usernames and scans linearly, so it is O(number of users) per call.
func (ac *AuthController) Check(c *gin.Context) {
	username := c.Query("username")

	available, err := ac.service.UsernameAvailable(username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check username"})
		return
	}

	c.JSON(http.StatusOK, available)
}

func (ac *AuthController) renderError(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", gin.H{
		"Title":   "Error",
		"Message": message,
	})
}
