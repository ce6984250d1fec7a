package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kedai_pos_backend/internal/config"
	"kedai_pos_backend/internal/models"
	"kedai_pos_backend/internal/repositories"
	"kedai_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPIN = "2468"

type testServer struct {
	engine *gin.Engine
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repositories.NewStore(repositories.NewMemoryBackend())
	require.NoError(t, store.Load(context.Background()))
	jwtManager, err := utils.NewJWTManager("router-test-secret", time.Hour)
	require.NoError(t, err)

	loc := time.FixedZone("MYT", 8*60*60)
	now := time.Date(2026, 10, 18, 14, 30, 0, 0, loc)
	deps := Dependencies{
		Config: config.Config{
			VendorRateLimit: "2-M",
			ConfirmationTTL: 5 * time.Minute,
			Location:        loc,
		},
		Store: store,
		JWT:   jwtManager,
		Now:   func() time.Time { return now },
	}

	engine := gin.New()
	svc := NewServices(deps)
	require.NoError(t, Setup(engine, deps, svc))
	require.NoError(t, svc.Auth.EnsureOperatorPIN(context.Background(), testPIN))

	ts := &testServer{engine: engine}
	w := ts.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"pin": testPIN})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var auth models.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &auth))
	ts.token = auth.AccessToken
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if ts.token != "" {
		req.Header.Set("Authorization", "Bearer "+ts.token)
	}
	w := httptest.NewRecorder()
	ts.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type errorBody struct {
	Error utils.APIError `json:"error"`
}

func (ts *testServer) createItem(t *testing.T, name string, cost, price string, stock int) models.MenuItem {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/api/v1/menu-items", map[string]interface{}{
		"name":          name,
		"vendor":        "Pak Abu",
		"cost_price":    cost,
		"selling_price": price,
		"stock":         stock,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.MenuItem](t, w)
}

func TestHealthIsPublic(t *testing.T) {
	ts := newTestServer(t)
	ts.token = ""

	w := ts.do(t, http.MethodGet, "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]interface{}](t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "memory", body["backend"])
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	ts := newTestServer(t)
	ts.token = ""

	w := ts.do(t, http.MethodGet, "/api/v1/menu-items", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"pin": "0000"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCashCheckoutOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	item := ts.createItem(t, "Nasi Lemak", "2.00", "5.00", 10)

	w := ts.do(t, http.MethodPost, "/api/v1/carts", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	cart := decode[models.CartView](t, w)

	w = ts.do(t, http.MethodPost, "/api/v1/carts/"+cart.ID+"/items", map[string]interface{}{"item_id": item.ID, "quantity": 3})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cart = decode[models.CartView](t, w)
	assert.True(t, decimal.NewFromInt(15).Equal(cart.Total))

	w = ts.do(t, http.MethodPost, "/api/v1/carts/"+cart.ID+"/checkout", map[string]interface{}{
		"payment_method":  "Cash",
		"amount_received": "20",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sale := decode[models.Sale](t, w)
	assert.True(t, decimal.NewFromInt(15).Equal(sale.Total))
	assert.True(t, decimal.NewFromInt(9).Equal(sale.Profit))
	require.NotNil(t, sale.Change)
	assert.True(t, decimal.NewFromInt(5).Equal(*sale.Change))

	w = ts.do(t, http.MethodGet, "/api/v1/menu-items/"+item.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 7, decode[models.MenuItem](t, w).Stock)

	w = ts.do(t, http.MethodGet, "/api/v1/sales/"+sale.ID+"/receipt", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Baki")
	assert.Contains(t, w.Body.String(), "RM5.00")

	w = ts.do(t, http.MethodGet, "/api/v1/reports/daily", nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[models.DailySummary](t, w)
	assert.Equal(t, 1, summary.TransactionCount)
	assert.True(t, decimal.NewFromInt(15).Equal(summary.Revenue))
}

func TestCheckoutErrorsMapToStatusCodes(t *testing.T) {
	ts := newTestServer(t)
	item := ts.createItem(t, "Teh Tarik", "1.00", "2.50", 2)

	cart := decode[models.CartView](t, ts.do(t, http.MethodPost, "/api/v1/carts", nil))

	w := ts.do(t, http.MethodPost, "/api/v1/carts/"+cart.ID+"/checkout", map[string]string{"payment_method": "E-Wallet"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, utils.ErrCodeEmptyCart, decode[errorBody](t, w).Error.Code)

	w = ts.do(t, http.MethodPost, "/api/v1/carts/"+cart.ID+"/items", map[string]interface{}{"item_id": "missing"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, http.MethodPost, "/api/v1/carts/"+cart.ID+"/items", map[string]interface{}{"item_id": item.ID, "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodPost, "/api/v1/carts/"+cart.ID+"/checkout", map[string]interface{}{
		"payment_method":  "Cash",
		"amount_received": "4",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, utils.ErrCodeInsufficientPayment, decode[errorBody](t, w).Error.Code)

	w = ts.do(t, http.MethodGet, "/api/v1/carts/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetQuantityAboveStockWarns(t *testing.T) {
	ts := newTestServer(t)
	item := ts.createItem(t, "Kuih", "0.50", "1.00", 3)
	cart := decode[models.CartView](t, ts.do(t, http.MethodPost, "/api/v1/carts", nil))

	w := ts.do(t, http.MethodPut, "/api/v1/carts/"+cart.ID+"/items/"+item.ID, map[string]int{"quantity": 9})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	view := decode[models.CartView](t, w)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 3, view.Items[0].Quantity)
	assert.NotEmpty(t, view.Warning)
}

func TestDeleteMenuItemNeedsConfirmation(t *testing.T) {
	ts := newTestServer(t)
	item := ts.createItem(t, "Roti Canai", "0.80", "1.50", 5)

	w := ts.do(t, http.MethodDelete, "/api/v1/menu-items/"+item.ID, nil)
	require.Equal(t, http.StatusAccepted, w.Code)
	action := decode[models.PendingAction](t, w)
	assert.Equal(t, models.ActionDeleteItem, action.Kind)

	w = ts.do(t, http.MethodGet, "/api/v1/menu-items/"+item.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodPost, "/api/v1/confirmations/"+action.ID+"/confirm", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = ts.do(t, http.MethodGet, "/api/v1/menu-items/"+item.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, http.MethodPost, "/api/v1/confirmations/"+action.ID+"/confirm", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInventoryExportHeaders(t *testing.T) {
	ts := newTestServer(t)
	ts.createItem(t, "Nasi Lemak", "2.00", "5.00", 10)

	w := ts.do(t, http.MethodGet, "/api/v1/inventory/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "inventori_2026-10-18.csv")
	assert.Contains(t, w.Body.String(), "Nasi Lemak")

	w = ts.do(t, http.MethodGet, "/api/v1/reports/daily/export", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, utils.ErrCodeNoSales, decode[errorBody](t, w).Error.Code)
}

func TestInventoryBulkAddFromRawBody(t *testing.T) {
	ts := newTestServer(t)
	csvBody := "name,vendor,costPrice,sellingPrice,stock\nMilo Ais,,1.20,3.00,12\n"

	req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory/bulk", strings.NewReader(csvBody))
	req.Header.Set("Content-Type", "text/csv")
	req.Header.Set("Authorization", "Bearer "+ts.token)
	w := httptest.NewRecorder()
	ts.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = ts.do(t, http.MethodGet, "/api/v1/menu-items?search=milo", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[struct {
		Total int `json:"total"`
	}](t, w)
	assert.Equal(t, 1, body.Total)
}

func TestVendorPortalSubmitAndApprove(t *testing.T) {
	ts := newTestServer(t)
	operatorToken := ts.token
	ts.token = ""

	w := ts.do(t, http.MethodPost, "/api/v1/vendor/submissions", map[string]string{
		"vendor":     "Mak Cik Kiah",
		"name":       "Karipap",
		"cost_price": "0.60",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sub := decode[models.VendorSubmission](t, w)

	ts.token = operatorToken
	w = ts.do(t, http.MethodGet, "/api/v1/submissions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), sub.ID)

	w = ts.do(t, http.MethodPost, "/api/v1/submissions/"+sub.ID+"/approve", map[string]interface{}{
		"selling_price": "1.50",
		"stock":         20,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	item := decode[models.MenuItem](t, w)
	assert.Equal(t, "Karipap", item.Name)
	assert.Equal(t, 20, item.Stock)
}

func TestVendorPortalIsRateLimited(t *testing.T) {
	ts := newTestServer(t)
	ts.token = ""
	body := map[string]string{"vendor": "Ah Seng", "name": "Popiah", "cost_price": "1.00"}

	assert.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/v1/vendor/submissions", body).Code)
	assert.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/v1/vendor/submissions", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, ts.do(t, http.MethodPost, "/api/v1/vendor/submissions", body).Code)
}

func TestSettingsAndPINChange(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPut, "/api/v1/settings/brand-name", map[string]string{"brand_name": "Kedai Kopi Ali"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = ts.do(t, http.MethodGet, "/api/v1/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Kedai Kopi Ali")

	w = ts.do(t, http.MethodPut, "/api/v1/settings/pin", map[string]string{"current_pin": testPIN, "new_pin": "13579"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	ts.token = ""
	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"pin": testPIN}).Code)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"pin": "13579"}).Code)
}

func TestSalesListingWithHugePage(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/v1/sales?page=4611686018427387904&page_size=1000000", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode[map[string]interface{}](t, w)
	assert.EqualValues(t, utils.MaxPageSize, body["page_size"])
}
