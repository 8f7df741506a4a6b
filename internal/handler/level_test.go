package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/DaniilYevlanov/serverwok/internal/config"
	"github.com/DaniilYevlanov/serverwok/internal/database"
	"github.com/DaniilYevlanov/serverwok/internal/router"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: gin.TestMode},
		JWT: config.JWTConfig{
			Secret:      "test-secret",
			Issuer:      "test",
			ExpireHours: 1,
		},
		Security: config.SecurityConfig{BcryptCost: 4},
		// Web left empty: no templates or static files in tests
	}

	return router.SetupRouter(cfg, db)
}

func postForm(t *testing.T, r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(t *testing.T, r *gin.Engine, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return body
}

func registerAndLogin(t *testing.T, r *gin.Engine, username, password string) *http.Cookie {
	t.Helper()

	form := url.Values{"username": {username}, "password": {password}}

	w := postForm(t, r, "/api/register", form)
	if w.Code != http.StatusFound {
		t.Fatalf("register: status = %d, want 302 (body %q)", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Fatalf("register: redirect to %q, want /login", loc)
	}

	w = postForm(t, r, "/api/login", form)
	if w.Code != http.StatusFound {
		t.Fatalf("login: status = %d, want 302 (body %q)", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/profile" {
		t.Fatalf("login: redirect to %q, want /profile", loc)
	}

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "token" && cookie.Value != "" {
			if !cookie.HttpOnly {
				t.Error("session cookie is not http-only")
			}
			return cookie
		}
	}
	t.Fatal("login did not set the token cookie")
	return nil
}

// Full walk through the API: register, login, complete a level, reject the
// repeat, reset, and see the level open again.
func TestLevelProgressionScenario(t *testing.T) {
	r := newTestServer(t)
	cookie := registerAndLogin(t, r, "alice", "pw123")

	// fresh user: ten open levels
	w := get(t, r, "/api/user-levels", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("user-levels: status = %d, want 200", w.Code)
	}
	body := decodeJSON(t, w)
	levels, ok := body["levels"].([]interface{})
	if !ok || len(levels) != 10 {
		t.Fatalf("user-levels: got %v, want 10 levels", body["levels"])
	}

	// complete level 1
	w = postJSON(t, r, "/api/complete-level", map[string]interface{}{
		"level":          1,
		"completionTime": "00.45",
	}, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("complete-level: status = %d, body %q", w.Code, w.Body.String())
	}
	body = decodeJSON(t, w)
	if body["completionTime"] != "00.45" {
		t.Errorf("completionTime = %v, want 00.45", body["completionTime"])
	}
	if date, _ := body["completionDate"].(string); date == "" {
		t.Error("completionDate missing in response")
	}

	// the level now shows as completed with the stored time
	w = get(t, r, "/api/user-levels", cookie)
	body = decodeJSON(t, w)
	first := body["levels"].([]interface{})[0].(map[string]interface{})
	if first["completed"] != true {
		t.Error("level 1 not completed after complete-level")
	}
	if first["completionTime"] != "00.45" {
		t.Errorf("level 1 completionTime = %v, want 00.45", first["completionTime"])
	}

	// repeating the completion is rejected and changes nothing
	w = postJSON(t, r, "/api/complete-level", map[string]interface{}{
		"level":          1,
		"completionTime": "00.10",
	}, cookie)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("repeat complete-level: status = %d, want 400", w.Code)
	}

	w = get(t, r, "/api/user-levels", cookie)
	body = decodeJSON(t, w)
	first = body["levels"].([]interface{})[0].(map[string]interface{})
	if first["completionTime"] != "00.45" {
		t.Errorf("completionTime changed by rejected repeat: %v", first["completionTime"])
	}

	// reset and the level is open again
	w = postJSON(t, r, "/api/reset-levels", map[string]interface{}{}, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("reset-levels: status = %d, body %q", w.Code, w.Body.String())
	}

	w = get(t, r, "/api/user-levels", cookie)
	body = decodeJSON(t, w)
	first = body["levels"].([]interface{})[0].(map[string]interface{})
	if first["completed"] != false {
		t.Error("level 1 still completed after reset")
	}
}

func TestCompleteLevel_InvalidNumberOverAPI(t *testing.T) {
	r := newTestServer(t)
	cookie := registerAndLogin(t, r, "alice", "pw123")

	for _, level := range []int{0, 11} {
		w := postJSON(t, r, "/api/complete-level", map[string]interface{}{
			"level":          level,
			"completionTime": "00.10",
		}, cookie)
		if w.Code != http.StatusBadRequest {
			t.Errorf("complete-level(%d): status = %d, want 400", level, w.Code)
		}
	}
}

func TestRegister_DuplicateOverAPI(t *testing.T) {
	r := newTestServer(t)
	form := url.Values{"username": {"alice"}, "password": {"pw123"}}

	if w := postForm(t, r, "/api/register", form); w.Code != http.StatusFound {
		t.Fatalf("first register: status = %d, want 302", w.Code)
	}
	w := postForm(t, r, "/api/register", form)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register: status = %d, want 400", w.Code)
	}
	if body := decodeJSON(t, w); body["error"] == "" {
		t.Error("duplicate register: no error message")
	}
}

func TestLogin_BadCredentialsOverAPI(t *testing.T) {
	r := newTestServer(t)
	registerAndLogin(t, r, "alice", "pw123")

	w := postForm(t, r, "/api/login", url.Values{
		"username": {"alice"},
		"password": {"wrong"},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad login: status = %d, want 400", w.Code)
	}
}

func TestSessionGate(t *testing.T) {
	r := newTestServer(t)

	// API routes answer 401 without a session
	w := get(t, r, "/api/user-levels", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("user-levels without session: status = %d, want 401", w.Code)
	}

	// page routes redirect to the login page
	w = get(t, r, "/profile", nil)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/login" {
		t.Errorf("profile without session: status = %d, location %q, want 302 /login",
			w.Code, w.Header().Get("Location"))
	}

	// a forged token must not pass
	w = get(t, r, "/api/user-levels", &http.Cookie{Name: "token", Value: "forged"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("forged token: status = %d, want 401", w.Code)
	}
}

func TestProblemEndpoint(t *testing.T) {
	r := newTestServer(t)
	cookie := registerAndLogin(t, r, "alice", "pw123")

	w := get(t, r, "/api/problem", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("problem: status = %d, want 200", w.Code)
	}

	body := decodeJSON(t, w)
	for _, field := range []string{"a", "op", "b", "answer"} {
		if _, ok := body[field]; !ok {
			t.Errorf("problem response missing %q", field)
		}
	}
}

func TestLogout(t *testing.T) {
	r := newTestServer(t)
	registerAndLogin(t, r, "alice", "pw123")

	w := get(t, r, "/logout", nil)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/" {
		t.Fatalf("logout: status = %d, location %q, want 302 /", w.Code, w.Header().Get("Location"))
	}

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "token" && cookie.MaxAge >= 0 {
			t.Error("logout did not expire the token cookie")
		}
	}
}
