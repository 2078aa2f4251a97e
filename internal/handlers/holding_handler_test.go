package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "apexfund/internal/errors"
	"apexfund/internal/models"
	"apexfund/internal/repository"
	"apexfund/internal/services"
)

func setupHoldingRouter(handler *HoldingHandler) *gin.Engine {
	r := gin.New()
	r.GET("/holdings", handler.ListHoldings)
	r.POST("/holdings", handler.AddHolding)
	r.GET("/holdings/stream", handler.Stream)
	r.GET("/holdings/:id", handler.GetHolding)
	r.DELETE("/holdings/:id", handler.DeleteHolding)
	r.POST("/holdings/:id/sale", handler.MarkSold)
	r.DELETE("/holdings/:id/sale", handler.MarkUnsold)
	return r
}

func TestHoldingHandler_ListHoldings(t *testing.T) {
	t.Run("returns_200_with_filter", func(t *testing.T) {
		var gotFilter models.HoldingFilter
		svc := &mockPortfolioService{
			listHoldingsFn: func(filter models.HoldingFilter) ([]models.Holding, error) {
				gotFilter = filter
				return []models.Holding{*morgan("h1")}, nil
			},
		}
		r := setupHoldingRouter(NewHoldingHandler(svc, "USD"))

		rec := doRequest(r, "GET", "/holdings?status=unsold", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotFilter != models.HoldingFilterUnsold {
			t.Errorf("expected unsold filter, got %q", gotFilter)
		}
		result := parseJSON(t, rec)
		if result["count"].(float64) != 1 {
			t.Errorf("expected count=1, got %v", result["count"])
		}
		first := result["holdings"].([]interface{})[0].(map[string]interface{})
		if first["roi"] != "25" {
			t.Errorf("expected roi 25, got %v", first["roi"])
		}
	})

	t.Run("returns_400_on_unknown_status", func(t *testing.T) {
		r := setupHoldingRouter(NewHoldingHandler(&mockPortfolioService{}, "USD"))

		rec := doRequest(r, "GET", "/holdings?status=lost", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		assertErrorCode(t, result, "VALIDATION_FAILED")
		if fields := errorFields(t, result); len(fields) != 1 || fields[0] != "status" {
			t.Errorf("expected status field error, got %v", fields)
		}
	})
}

func TestHoldingHandler_AddHolding(t *testing.T) {
	t.Run("returns_201_on_success", func(t *testing.T) {
		var got services.AddHoldingInput
		svc := &mockPortfolioService{
			addHoldingFn: func(_ context.Context, in services.AddHoldingInput) (*models.Holding, error) {
				got = in
				return morgan("h1"), nil
			},
		}
		r := setupHoldingRouter(NewHoldingHandler(svc, "USD"))

		rec := doRequest(r, "POST", "/holdings",
			`{"name":"1879-CC Morgan Dollar","purchase_price":1200,"current_value":"1500","grade":"MS-63"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.PurchasePrice == nil || !got.PurchasePrice.Equal(decimal.NewFromInt(1200)) {
			t.Errorf("expected purchase price 1200, got %v", got.PurchasePrice)
		}
		if got.CurrentValue == nil || !got.CurrentValue.Equal(decimal.NewFromInt(1500)) {
			t.Errorf("expected current value 1500, got %v", got.CurrentValue)
		}
		result := parseJSON(t, rec)
		if result["message"] != "New coin added to your collection" {
			t.Errorf("unexpected message %v", result["message"])
		}
		holding := result["holding"].(map[string]interface{})
		if holding["id"] != "h1" {
			t.Errorf("expected id h1, got %v", holding["id"])
		}
	})

	t.Run("returns_400_with_field_errors", func(t *testing.T) {
		r := setupHoldingRouter(NewHoldingHandler(&mockPortfolioService{}, "USD"))

		rec := doRequest(r, "POST", "/holdings", `{"description":"no name or prices"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		assertErrorCode(t, result, "VALIDATION_FAILED")
		fields := map[string]bool{}
		for _, f := range errorFields(t, result) {
			fields[f] = true
		}
		for _, want := range []string{"name", "purchase_price", "current_value"} {
			if !fields[want] {
				t.Errorf("expected field error for %s, got %v", want, fields)
			}
		}
	})

	t.Run("accepts_negative_amounts", func(t *testing.T) {
		r := setupHoldingRouter(NewHoldingHandler(&mockPortfolioService{}, "USD"))

		rec := doRequest(r, "POST", "/holdings", `{"name":"Damaged Cent","purchase_price":-5,"current_value":-1}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns_400_on_non_numeric_amount", func(t *testing.T) {
		r := setupHoldingRouter(NewHoldingHandler(&mockPortfolioService{}, "USD"))

		rec := doRequest(r, "POST", "/holdings", `{"name":"x","purchase_price":"abc","current_value":1}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns_500_on_store_failure", func(t *testing.T) {
		svc := &mockPortfolioService{
			addHoldingFn: func(context.Context, services.AddHoldingInput) (*models.Holding, error) {
				return nil, apperrors.ErrInternalServer
			},
		}
		r := setupHoldingRouter(NewHoldingHandler(svc, "USD"))

		rec := doRequest(r, "POST", "/holdings", `{"name":"x","purchase_price":1,"current_value":1}`)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d: %s", rec.Code, rec.Body.String())
		}
		assertErrorCode(t, parseJSON(t, rec), "INTERNAL_ERROR")
	})
}

func TestHoldingHandler_GetHolding(t *testing.T) {
	svc := &mockPortfolioService{
		getHoldingFn: func(id string) (*models.Holding, error) {
			if id == "h1" {
				return morgan("h1"), nil
			}
			return nil, apperrors.ErrHoldingNotFound
		},
	}
	r := setupHoldingRouter(NewHoldingHandler(svc, "USD"))

	rec := doRequest(r, "GET", "/holdings/h1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(r, "GET", "/holdings/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
	assertErrorCode(t, parseJSON(t, rec), "HOLDING_NOT_FOUND")
}

func TestHoldingHandler_DeleteHolding(t *testing.T) {
	var deleted string
	svc := &mockPortfolioService{
		deleteHoldingFn: func(_ context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	r := setupHoldingRouter(NewHoldingHandler(svc, "USD"))

	rec := doRequest(r, "DELETE", "/holdings/h9", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if deleted != "h9" {
		t.Errorf("expected delete of h9, got %q", deleted)
	}
	if parseJSON(t, rec)["message"] != "Coin has been deleted" {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestHoldingHandler_MarkSold(t *testing.T) {
	t.Run("returns_200_with_formatted_price", func(t *testing.T) {
		svc := &mockPortfolioService{
			markSoldFn: func(_ context.Context, id string, in services.MarkSoldInput) (*models.Holding, error) {
				h := morgan(id)
				h.MarkSold(*in.SoldPrice, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
				return h, nil
			},
		}
		r := setupHoldingRouter(NewHoldingHandler(svc, "USD"))

		rec := doRequest(r, "POST", "/holdings/h1/sale", `{"sold_price":1800}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["message"] != "Coin marked as sold for $1,800.00" {
			t.Errorf("unexpected message %v", result["message"])
		}
		if result["holding"].(map[string]interface{})["status"] != "sold" {
			t.Errorf("expected sold status, got %v", result["holding"])
		}
	})

	t.Run("returns_400_without_price", func(t *testing.T) {
		r := setupHoldingRouter(NewHoldingHandler(&mockPortfolioService{}, "USD"))

		rec := doRequest(r, "POST", "/holdings/h1/sale", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
		assertErrorCode(t, parseJSON(t, rec), "VALIDATION_FAILED")
	})

	t.Run("returns_409_when_already_sold", func(t *testing.T) {
		svc := &mockPortfolioService{
			markSoldFn: func(context.Context, string, services.MarkSoldInput) (*models.Holding, error) {
				return nil, apperrors.ErrHoldingAlreadySold
			},
		}
		r := setupHoldingRouter(NewHoldingHandler(svc, "USD"))

		rec := doRequest(r, "POST", "/holdings/h1/sale", `{"sold_price":1800}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
		}
		assertErrorCode(t, parseJSON(t, rec), "HOLDING_ALREADY_SOLD")
	})
}

func TestHoldingHandler_MarkUnsold(t *testing.T) {
	svc := &mockPortfolioService{
		markUnsoldFn: func(_ context.Context, id string) (*models.Holding, error) {
			if id != "h1" {
				return nil, apperrors.ErrHoldingNotFound
			}
			return morgan(id), nil
		},
	}
	r := setupHoldingRouter(NewHoldingHandler(svc, "USD"))

	rec := doRequest(r, "DELETE", "/holdings/h1/sale", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if parseJSON(t, rec)["message"] != "Coin marked as not sold" {
		t.Errorf("unexpected body %s", rec.Body.String())
	}

	rec = doRequest(r, "DELETE", "/holdings/nope/sale", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHoldingHandler_Stream(t *testing.T) {
	listener := make(chan func([]models.Holding), 1)
	unsubscribed := make(chan struct{})
	svc := &mockPortfolioService{
		subscribeFn: func(fn func([]models.Holding)) *repository.Subscription {
			listener <- fn
			return &repository.Subscription{}
		},
		unsubscribeFn: func(*repository.Subscription) { close(unsubscribed) },
	}
	r := setupHoldingRouter(NewHoldingHandler(svc, "USD"))

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest("GET", "/holdings/stream", http.NoBody).WithContext(ctx)
	rec := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		r.ServeHTTP(rec, req)
		close(done)
	}()

	var publish func([]models.Holding)
	select {
	case publish = <-listener:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not subscribe")
	}
	publish([]models.Holding{*morgan("h1")})

	// Give the handler a moment to forward the update before disconnecting.
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not stop after client disconnect")
	}
	select {
	case <-unsubscribed:
	default:
		t.Error("expected listener to be removed")
	}

	body := rec.Body.String()
	if got := strings.Count(body, "event:holdings"); got != 2 {
		t.Errorf("expected initial and update events, got %d in %q", got, body)
	}
	if !strings.Contains(body, `"id":"h1"`) {
		t.Errorf("expected pushed holding in stream, got %q", body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Errorf("expected event-stream content type, got %q", ct)
	}
}
