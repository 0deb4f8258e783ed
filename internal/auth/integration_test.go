package auth

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/avolkau/bookcatalog/internal/config"
	"github.com/avolkau/bookcatalog/internal/database/users"
	"github.com/avolkau/bookcatalog/internal/entities"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *Service, *SessionManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.AutoMigrate(&entities.User{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get SQL DB: %v", err)
	}

	cfg := config.Auth{
		SessionLifetime: 24 * time.Hour,
		BcryptCost:      4,
		SecureCookies:   false,
	}

	svc := NewService(users.NewRepository(db), cfg)

	sm, err := NewSessionManager(sqlDB, cfg)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}

	middleware := NewMiddleware(sm)

	router := gin.New()
	router.SetHTMLTemplate(template.Must(template.New("").Parse(`
		{{define "login.html"}}login{{end}}
		{{define "register.html"}}register{{end}}
		{{define "error.html"}}{{.Message}}{{end}}
		{{define "search.html"}}search{{end}}`)))
	router.Use(sm.SessionLoadSave())

	NewAuthController(svc, sm).RegisterRoutes(router)

	router.GET("/search", middleware.RequireSession(), func(c *gin.Context) {
		c.HTML(http.StatusOK, "search.html", gin.H{"UserID": GetUserID(c)})
	})

	return router, svc, sm
}

func postForm(router *gin.Engine, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// sessionCookie extracts the session cookie from the recorder's Set-Cookie
// header. The header is written after the body, so Result() misses it.
func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	setCookie := w.Header().Get("Set-Cookie")
	if setCookie == "" {
		t.Fatal("no Set-Cookie header in response")
	}

	header := http.Header{}
	header.Add("Set-Cookie", setCookie)
	resp := http.Response{Header: header}
	for _, c := range resp.Cookies() {
		if c.Name == "session" {
			return c
		}
	}
	t.Fatalf("no session cookie in Set-Cookie header: %s", setCookie)
	return nil
}

func TestIntegration_RegisterLoginFlow(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	// Register
	w := postForm(router, "/register", url.Values{
		"set_username":     {"alice"},
		"set_password":     {"password123"},
		"confirm_password": {"password123"},
	}, nil)

	if w.Code != http.StatusFound {
		t.Fatalf("register returned %d, expected 302: %s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/search" {
		t.Errorf("register redirected to %s, expected /search", loc)
	}

	// Registration establishes a session
	cookie := sessionCookie(t, w)
	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	req.AddCookie(cookie)
	searchW := httptest.NewRecorder()
	router.ServeHTTP(searchW, req)

	if searchW.Code != http.StatusOK {
		t.Errorf("search with fresh session returned %d, expected 200", searchW.Code)
	}
}

func TestIntegration_RegisterPasswordMismatch(t *testing.T) {
	router, svc, _ := setupTestRouter(t)

	w := postForm(router, "/register", url.Values{
		"set_username":     {"alice"},
		"set_password":     {"password123"},
		"confirm_password": {"different456"},
	}, nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for mismatched passwords, got %d", w.Code)
	}

	// No account row was created
	available, err := svc.UsernameAvailable("alice")
	if err != nil {
		t.Fatal(err)
	}
	if !available {
		t.Error("failed registration should not create a user")
	}
}

func TestIntegration_RegisterDuplicateUsername(t *testing.T) {
	router, svc, _ := setupTestRouter(t)

	if _, err := svc.Register("alice", "password123", "password123"); err != nil {
		t.Fatal(err)
	}

	w := postForm(router, "/register", url.Values{
		"set_username":     {"alice"},
		"set_password":     {"otherpass"},
		"confirm_password": {"otherpass"},
	}, nil)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate username, got %d", w.Code)
	}
}

func TestIntegration_LoginEstablishesSession(t *testing.T) {
	router, svc, _ := setupTestRouter(t)

	if _, err := svc.Register("alice", "password123", "password123"); err != nil {
		t.Fatal(err)
	}

	w := postForm(router, "/login", url.Values{
		"username": {"alice"},
		"password": {"password123"},
	}, nil)

	if w.Code != http.StatusFound {
		t.Fatalf("login returned %d, expected 302: %s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/search" {
		t.Errorf("login redirected to %s, expected /search", loc)
	}

	cookie := sessionCookie(t, w)
	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	req.AddCookie(cookie)
	searchW := httptest.NewRecorder()
	router.ServeHTTP(searchW, req)

	if searchW.Code != http.StatusOK {
		t.Errorf("search with session returned %d, expected 200", searchW.Code)
	}
}

func TestIntegration_LoginBadCredentials(t *testing.T) {
	router, svc, _ := setupTestRouter(t)

	if _, err := svc.Register("alice", "password123", "password123"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		username string
		password string
		want     int
	}{
		{"wrong password", "alice", "wrongpassword", http.StatusUnauthorized},
		{"unknown username", "nobody", "password123", http.StatusUnauthorized},
		{"missing username", "", "password123", http.StatusBadRequest},
		{"missing password", "alice", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postForm(router, "/login", url.Values{
				"username": {tt.username},
				"password": {tt.password},
			}, nil)

			if w.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}

func TestIntegration_FailedLoginGrantsNoSession(t *testing.T) {
	router, svc, _ := setupTestRouter(t)

	if _, err := svc.Register("alice", "password123", "password123"); err != nil {
		t.Fatal(err)
	}

	w := postForm(router, "/login", url.Values{
		"username": {"alice"},
		"password": {"wrongpassword"},
	}, nil)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	// Without a session cookie the search page redirects to login
	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	searchW := httptest.NewRecorder()
	router.ServeHTTP(searchW, req)

	if searchW.Code != http.StatusFound {
		t.Errorf("expected redirect without session, got %d", searchW.Code)
	}
	if loc := searchW.Header().Get("Location"); loc != "/login" {
		t.Errorf("expected redirect to /login, got %s", loc)
	}
}

func TestIntegration_LogoutDestroysSession(t *testing.T) {
	router, svc, _ := setupTestRouter(t)

	if _, err := svc.Register("alice", "password123", "password123"); err != nil {
		t.Fatal(err)
	}

	loginW := postForm(router, "/login", url.Values{
		"username": {"alice"},
		"password": {"password123"},
	}, nil)
	cookie := sessionCookie(t, loginW)

	// Logout with the session cookie
	logoutReq := httptest.NewRequest(http.MethodGet, "/logout", nil)
	logoutReq.AddCookie(cookie)
	logoutW := httptest.NewRecorder()
	router.ServeHTTP(logoutW, logoutReq)

	if logoutW.Code != http.StatusFound {
		t.Fatalf("logout returned %d, expected 302", logoutW.Code)
	}
	if loc := logoutW.Header().Get("Location"); loc != "/" {
		t.Errorf("logout redirected to %s, expected /", loc)
	}

	// The old session no longer opens the search page
	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Errorf("expected redirect after logout, got %d", w.Code)
	}
}

func TestIntegration_IndexRouting(t *testing.T) {
	router, svc, _ := setupTestRouter(t)

	// Anonymous visitors land on the login page
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Errorf("anonymous / redirected to %s, expected /login", loc)
	}

	// Logged-in visitors land on the search page
	if _, err := svc.Register("alice", "password123", "password123"); err != nil {
		t.Fatal(err)
	}
	loginW := postForm(router, "/login", url.Values{
		"username": {"alice"},
		"password": {"password123"},
	}, nil)
	cookie := sessionCookie(t, loginW)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if loc := w.Header().Get("Location"); loc != "/search" {
		t.Errorf("authenticated / redirected to %s, expected /search", loc)
	}
}

func TestIntegration_CheckUsernameAvailability(t *testing.T) {
	router, svc, _ := setupTestRouter(t)

	if _, err := svc.Register("alice", "password123", "password123"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		username string
		want     string
	}{
		{"taken username", "alice", "false"},
		{"available username", "bob", "true"},
		{"different case is available", "Alice", "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/check?username="+tt.username, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("check returned %d, expected 200", w.Code)
			}
			if got := strings.TrimSpace(w.Body.String()); got != tt.want {
				t.Errorf("check body = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestIntegration_ProtectedAPIRequestsGet401(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for JSON request without session, got %d", w.Code)
	}
}
