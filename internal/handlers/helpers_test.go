package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"apexfund/internal/models"
	"apexfund/internal/pagination"
	"apexfund/internal/repository"
	"apexfund/internal/services"
	"apexfund/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

// --- mock portfolio service ---

type mockPortfolioService struct {
	addHoldingFn      func(ctx context.Context, in services.AddHoldingInput) (*models.Holding, error)
	getHoldingFn      func(id string) (*models.Holding, error)
	deleteHoldingFn   func(ctx context.Context, id string) error
	markSoldFn        func(ctx context.Context, id string, in services.MarkSoldInput) (*models.Holding, error)
	markUnsoldFn      func(ctx context.Context, id string) (*models.Holding, error)
	setCashReservesFn func(ctx context.Context, in services.UpdateCashInput) (decimal.Decimal, error)
	cashReservesFn    func() decimal.Decimal
	listHoldingsFn    func(filter models.HoldingFilter) ([]models.Holding, error)
	computeSummaryFn  func() *services.PortfolioSummary
	subscribeFn       func(fn func([]models.Holding)) *repository.Subscription
	unsubscribeFn     func(sub *repository.Subscription)
}

var _ services.PortfolioServicer = (*mockPortfolioService)(nil)

func (m *mockPortfolioService) AddHolding(ctx context.Context, in services.AddHoldingInput) (*models.Holding, error) {
	if m.addHoldingFn != nil {
		return m.addHoldingFn(ctx, in)
	}
	return &models.Holding{}, nil
}

func (m *mockPortfolioService) GetHolding(id string) (*models.Holding, error) {
	if m.getHoldingFn != nil {
		return m.getHoldingFn(id)
	}
	return &models.Holding{}, nil
}

func (m *mockPortfolioService) DeleteHolding(ctx context.Context, id string) error {
	if m.deleteHoldingFn != nil {
		return m.deleteHoldingFn(ctx, id)
	}
	return nil
}

func (m *mockPortfolioService) MarkSold(ctx context.Context, id string, in services.MarkSoldInput) (*models.Holding, error) {
	if m.markSoldFn != nil {
		return m.markSoldFn(ctx, id, in)
	}
	return &models.Holding{}, nil
}

func (m *mockPortfolioService) MarkUnsold(ctx context.Context, id string) (*models.Holding, error) {
	if m.markUnsoldFn != nil {
		return m.markUnsoldFn(ctx, id)
	}
	return &models.Holding{}, nil
}

func (m *mockPortfolioService) SetCashReserves(ctx context.Context, in services.UpdateCashInput) (decimal.Decimal, error) {
	if m.setCashReservesFn != nil {
		return m.setCashReservesFn(ctx, in)
	}
	return *in.Amount, nil
}

func (m *mockPortfolioService) CashReserves() decimal.Decimal {
	if m.cashReservesFn != nil {
		return m.cashReservesFn()
	}
	return decimal.Zero
}

func (m *mockPortfolioService) ListHoldings(filter models.HoldingFilter) ([]models.Holding, error) {
	if m.listHoldingsFn != nil {
		return m.listHoldingsFn(filter)
	}
	return []models.Holding{}, nil
}

func (m *mockPortfolioService) ComputeSummary() *services.PortfolioSummary {
	if m.computeSummaryFn != nil {
		return m.computeSummaryFn()
	}
	return services.Summarize(nil, decimal.Zero)
}

func (m *mockPortfolioService) Subscribe(fn func([]models.Holding)) *repository.Subscription {
	if m.subscribeFn != nil {
		return m.subscribeFn(fn)
	}
	return &repository.Subscription{}
}

func (m *mockPortfolioService) Unsubscribe(sub *repository.Subscription) {
	if m.unsubscribeFn != nil {
		m.unsubscribeFn(sub)
	}
}

// --- mock snapshot service ---

type mockSnapshotService struct {
	recordFn func(ctx context.Context) (*models.PortfolioSnapshot, error)
	listFn   func(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.PortfolioSnapshot], error)
}

var _ services.SnapshotServicer = (*mockSnapshotService)(nil)

func (m *mockSnapshotService) Record(ctx context.Context) (*models.PortfolioSnapshot, error) {
	if m.recordFn != nil {
		return m.recordFn(ctx)
	}
	return &models.PortfolioSnapshot{}, nil
}

func (m *mockSnapshotService) List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.PortfolioSnapshot], error) {
	if m.listFn != nil {
		return m.listFn(ctx, page)
	}
	resp := pagination.NewPageResponse([]models.PortfolioSnapshot{}, 1, 20, 0)
	return &resp, nil
}

// --- request helpers ---

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

// errorFields returns the field names listed in a validation error response.
func errorFields(t *testing.T, result map[string]interface{}) []string {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	raw, _ := errObj["fields"].([]interface{})
	names := make([]string, 0, len(raw))
	for _, f := range raw {
		names = append(names, f.(map[string]interface{})["field"].(string))
	}
	return names
}

func morgan(id string) *models.Holding {
	return &models.Holding{
		Base:          models.Base{ID: id},
		Name:          "1879-CC Morgan Dollar",
		PurchasePrice: decimal.NewFromInt(1200),
		CurrentValue:  decimal.NewFromInt(1500),
		ROI:           decimal.NewFromInt(25),
		Status:        models.SaleStatusNotSold,
	}
}

func doRequestWithHeader(r *gin.Engine, method, path, key, value string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, http.NoBody)
	req.Header.Set(key, value)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}
