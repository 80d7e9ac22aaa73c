package app

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/simp-lee/jwt"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubModule records whether it was asked to register.
type stubModule struct {
	registered bool
}

func (m *stubModule) RegisterRoutes(public, authed *gin.RouterGroup) {
	m.registered = true
	public.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	authed.GET("/secret", func(c *gin.Context) { c.String(http.StatusOK, "secret") })
}

// stubJWTService implements jwt.Service; every token is invalid.
type stubJWTService struct{}

func (stubJWTService) GenerateToken(string, []string, time.Duration) (string, error) {
	return "", nil
}
func (stubJWTService) ValidateToken(string) (*jwt.Token, error) { return nil, nil }
func (stubJWTService) ValidateAndParse(string) (*jwt.Token, error) {
	return nil, errors.New("invalid token")
}
func (stubJWTService) ParseToken(string) (*jwt.Token, error)                    { return nil, nil }
func (stubJWTService) RefreshToken(string) (string, error)                      { return "", nil }
func (stubJWTService) RefreshTokenExtend(string, time.Duration) (string, error) { return "", nil }
func (stubJWTService) RevokeToken(string) error                                 { return nil }
func (stubJWTService) IsTokenRevoked(string) bool                               { return false }
func (stubJWTService) RevokeAllUserTokens(string) error                         { return nil }
func (stubJWTService) Close()                                                   {}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	return db
}

func testEngine(t *testing.T, deps *RouteDeps) *gin.Engine {
	t.Helper()
	r := gin.New()
	if err := RegisterRoutes(r, deps); err != nil {
		t.Fatalf("RegisterRoutes: %v", err)
	}
	return r
}

func TestRegisterRoutesValidation(t *testing.T) {
	mod := &stubModule{}

	if err := RegisterRoutes(nil, &RouteDeps{Modules: []Module{mod}, JWTService: stubJWTService{}}); err == nil {
		t.Error("expected error for nil router")
	}
	if err := RegisterRoutes(gin.New(), nil); err == nil {
		t.Error("expected error for nil deps")
	}
	if err := RegisterRoutes(gin.New(), &RouteDeps{JWTService: stubJWTService{}}); err == nil {
		t.Error("expected error for empty module list")
	}
	if err := RegisterRoutes(gin.New(), &RouteDeps{Modules: []Module{mod}}); err == nil {
		t.Error("expected error for missing jwt service")
	}
	if err := RegisterRoutes(gin.New(), &RouteDeps{Modules: []Module{nil}, JWTService: stubJWTService{}}); err == nil {
		t.Error("expected error for nil module")
	}
}

func TestRegisterRoutesMountsModules(t *testing.T) {
	mod := &stubModule{}
	r := testEngine(t, &RouteDeps{
		Modules:    []Module{mod},
		DB:         testDB(t),
		JWTService: stubJWTService{},
	})

	if !mod.registered {
		t.Fatal("module was not registered")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	if w.Code != http.StatusOK || w.Body.String() != "pong" {
		t.Errorf("public route not mounted: %d %q", w.Code, w.Body.String())
	}

	// The authenticated group must sit behind the auth middleware.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/secret", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for protected route, got %d", w.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	r := testEngine(t, &RouteDeps{
		Modules:    []Module{&stubModule{}},
		DB:         testDB(t),
		JWTService: stubJWTService{},
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Status     string            `json:"status"`
		Components map[string]string `json:"components"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "ok" || body.Components["database"] != "ok" {
		t.Errorf("unexpected health body %+v", body)
	}
}

func TestHealthEndpointDegraded(t *testing.T) {
	r := testEngine(t, &RouteDeps{
		Modules:    []Module{&stubModule{}},
		DB:         nil,
		JWTService: stubJWTService{},
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestNoRouteReturnsJSON(t *testing.T) {
	r := testEngine(t, &RouteDeps{
		Modules:    []Module{&stubModule{}},
		DB:         testDB(t),
		JWTService: stubJWTService{},
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/no/such/path", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("expected JSON 404, got content type %q", ct)
	}
}
