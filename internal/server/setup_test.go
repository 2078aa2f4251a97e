package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"apexfund/internal/logger"
	"apexfund/internal/repository"
	"apexfund/internal/services"
	"apexfund/internal/testutil"
	"apexfund/internal/validator"
)

const testHookKey = "hook-key"

// testApp holds the full application stack for flow tests.
type testApp struct {
	Store  *services.PortfolioStore
	Auth   *services.AuthService
	Router *gin.Engine
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupApp creates the full stack on gorm adapters backed by an isolated
// in-memory SQLite database.
func setupApp(t *testing.T, requireAuth bool) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	store := services.NewPortfolioStore(repository.NewGormHoldingRepository(db), decimal.NewFromInt(50000))
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}
	auth := services.NewAuthService("test-secret", time.Hour, 24*time.Hour)
	snapshots := services.NewSnapshotService(store, repository.NewGormSnapshotRepository(db))

	router := NewRouter(Deps{
		Portfolio:   store,
		Auth:        auth,
		Snapshots:   snapshots,
		Currency:    "USD",
		RequireAuth: requireAuth,
		HookKey:     testHookKey,
	})
	return &testApp{Store: store, Auth: auth, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// login signs in and returns the session token.
func (app *testApp) login(t *testing.T, email string) string {
	t.Helper()
	rec := app.request("POST", "/api/v1/auth/login", fmt.Sprintf(`{"email":%q,"password":"secret1"}`, email), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["token"].(string)
}

// addCoin adds a holding and returns its id.
func (app *testApp) addCoin(t *testing.T, name string, purchase, current int, token string) string {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"purchase_price":%d,"current_value":%d}`, name, purchase, current)
	rec := app.request("POST", "/api/v1/holdings", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add coin failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["holding"].(map[string]interface{})["id"].(string)
}

// hookRequest records a snapshot through the scheduler hook.
func (app *testApp) hookRequest(apiKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/v1/hooks/snapshots", http.NoBody)
	req.Header.Set("X-API-Key", apiKey)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}
