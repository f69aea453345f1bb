package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	billingdomain "github.com/smallbiznis/estate/internal/billing/domain"
	billingrepo "github.com/smallbiznis/estate/internal/billing/repository"
	billingservice "github.com/smallbiznis/estate/internal/billing/service"
	"github.com/smallbiznis/estate/internal/clock"
	"github.com/smallbiznis/estate/internal/config"
	householdrepo "github.com/smallbiznis/estate/internal/household/repository"
	householdservice "github.com/smallbiznis/estate/internal/household/service"
	"github.com/smallbiznis/estate/internal/migration"
	"github.com/smallbiznis/estate/internal/observability"
	paymentrepo "github.com/smallbiznis/estate/internal/payment/repository"
	paymentservice "github.com/smallbiznis/estate/internal/payment/service"
	searchdomain "github.com/smallbiznis/estate/internal/search/domain"
	searchrepo "github.com/smallbiznis/estate/internal/search/repository"
	searchservice "github.com/smallbiznis/estate/internal/search/service"
	utilityrepo "github.com/smallbiznis/estate/internal/utility/repository"
	utilityservice "github.com/smallbiznis/estate/internal/utility/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// now is 2024-05-10 in UTC; "yesterday" below is 2024-05-09.
var now = time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migration.AutoMigrate(db))

	node, err := snowflake.NewNode(7)
	require.NoError(t, err)
	clk := clock.NewFakeClock(now)
	log := zap.NewNop()
	lifecycle := billingrepo.Provide()

	return NewServer(ServerParams{
		Gin: NewEngine(observability.Config{}, nil),
		Cfg: config.Config{AppName: "estate"},
		Log: log,
		BillingSvc: billingservice.New(billingservice.Params{
			DB: db, Log: log, Clock: clk, Repo: lifecycle,
		}),
		PaymentSvc: paymentservice.New(paymentservice.Params{
			DB: db, Log: log, GenID: node, Clock: clk, Repo: paymentrepo.Provide(), Lifecycle: lifecycle,
		}),
		UtilitySvc: utilityservice.New(utilityservice.Params{
			DB: db, Log: log, GenID: node, Clock: clk, Repo: utilityrepo.Provide(), Lifecycle: lifecycle,
		}),
		HouseholdSvc: householdservice.New(householdservice.Params{
			DB: db, Log: log, GenID: node, Clock: clk, Cfg: config.Config{AppName: "estate"},
			Repo: householdrepo.Provide(), Payments: paymentrepo.Provide(),
		}),
		SearchSvc: searchservice.New(searchservice.Params{
			DB: db, Log: log, Repo: searchrepo.Provide(),
		}),
	})
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type dataEnvelope struct {
	Data map[string]any `json:"data"`
}

func createHousehold(t *testing.T, s *Server, unit, owner string) string {
	t.Helper()
	w := do(t, s, http.MethodPost, "/api/households", map[string]any{"unit": unit, "owner_name": owner})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[dataEnvelope](t, w).Data["id"].(string)
}

func createPayment(t *testing.T, s *Server, householdID, amount, due string) string {
	t.Helper()
	w := do(t, s, http.MethodPost, "/api/payments", map[string]any{
		"household_id": householdID,
		"amount":       amount,
		"due_date":     due,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[dataEnvelope](t, w).Data["id"].(string)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCorrelationHeaderRoundTrip(t *testing.T) {
	s := newTestServer(t)
	inbound := "01HZX3V8Q6J2K9M4N5P7R8S9T0"

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Correlation-Id", inbound)
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	assert.Equal(t, inbound, w.Header().Get("X-Correlation-Id"))

	w = do(t, s, http.MethodGet, "/health", nil)
	assert.NotEmpty(t, w.Header().Get("X-Correlation-Id"))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestUpdateOverduePaymentsScenario(t *testing.T) {
	s := newTestServer(t)
	householdID := createHousehold(t, s, "101", "Budi Santoso")
	paymentID := createPayment(t, s, householdID, "50", "2024-05-09")
	createPayment(t, s, householdID, "20", "2024-05-10")

	w := do(t, s, http.MethodPost, "/api/payments/update-overdue", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[overdueResponse](t, w)
	assert.Equal(t, int64(1), resp.Count)
	assert.NotEmpty(t, resp.Message)

	w = do(t, s, http.MethodGet, "/api/payments/update-overdue", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(0), decode[overdueResponse](t, w).Count)

	w = do(t, s, http.MethodGet, "/api/payments/"+paymentID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "overdue", decode[dataEnvelope](t, w).Data["status"])
}

func TestUpdateOverdueUtilities(t *testing.T) {
	s := newTestServer(t)
	householdID := createHousehold(t, s, "102", "Sari")

	w := do(t, s, http.MethodPost, "/api/utilities", map[string]any{
		"household_id": householdID,
		"type":         "water",
		"period_start": "2024-04-01",
		"period_end":   "2024-04-30",
		"due_date":     "2024-05-05",
		"amount":       "75.5",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, s, http.MethodPost, "/api/utilities/update-overdue", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), decode[overdueResponse](t, w).Count)

	// Payments are an independent machine.
	w = do(t, s, http.MethodPost, "/api/payments/update-overdue", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(0), decode[overdueResponse](t, w).Count)
}

func TestGetHouseholdIncludesResidentsAndBalance(t *testing.T) {
	s := newTestServer(t)
	householdID := createHousehold(t, s, "101", "Budi Santoso")
	createPayment(t, s, householdID, "50", "2024-05-20")
	paidID := createPayment(t, s, householdID, "30", "2024-05-01")

	w := do(t, s, http.MethodPost, "/api/payments/"+paidID+"/pay", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	for _, name := range []string{"Budi", "Ani"} {
		w = do(t, s, http.MethodPost, "/api/households/"+householdID+"/members", map[string]any{"name": name})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w = do(t, s, http.MethodGet, "/api/households/"+householdID, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode[map[string]any](t, w)
	assert.Equal(t, "101", body["unit"])
	assert.Equal(t, float64(2), body["residents"])
	assert.Equal(t, "50", body["balance"])
}

func TestHouseholdBalanceEndpoint(t *testing.T) {
	s := newTestServer(t)
	householdID := createHousehold(t, s, "103", "Dewi")

	w := do(t, s, http.MethodGet, "/api/households/"+householdID+"/balance", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, householdID, body["household_id"])
	assert.Equal(t, "0", body["balance"])
}

func TestHouseholdStatementIsPDF(t *testing.T) {
	s := newTestServer(t)
	householdID := createHousehold(t, s, "104", "Rudi")
	createPayment(t, s, householdID, "125000", "2024-04-01")

	w := do(t, s, http.MethodGet, "/api/households/"+householdID+"/statement", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "statement-104-20240510.pdf")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

func TestHouseholdStatementFilenameIsQuoted(t *testing.T) {
	s := newTestServer(t)
	householdID := createHousehold(t, s, `B "7"; x=1`, "Rudi")

	w := do(t, s, http.MethodGet, "/api/households/"+householdID+"/statement", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	disposition, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "attachment", disposition)
	assert.Equal(t, `statement-B "7"; x=1-20240510.pdf`, params["filename"])
	assert.NotContains(t, params, "x")
}

func TestRecordPaymentAcceptsEmptyChunkedBody(t *testing.T) {
	s := newTestServer(t)
	householdID := createHousehold(t, s, "109", "Wati")
	paymentID := createPayment(t, s, householdID, "50", "2024-05-20")

	req := httptest.NewRequest(http.MethodPost, "/api/payments/"+paymentID+"/pay", strings.NewReader(""))
	req.ContentLength = -1
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "paid", decode[dataEnvelope](t, w).Data["status"])
}

func TestRecordPaymentRejectsMalformedBody(t *testing.T) {
	s := newTestServer(t)
	householdID := createHousehold(t, s, "110", "Wati")
	paymentID := createPayment(t, s, householdID, "50", "2024-05-20")

	req := httptest.NewRequest(http.MethodPost, "/api/payments/"+paymentID+"/pay", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func TestRecordPaymentTwiceConflicts(t *testing.T) {
	s := newTestServer(t)
	householdID := createHousehold(t, s, "105", "Joko")
	paymentID := createPayment(t, s, householdID, "10", "2024-05-01")

	w := do(t, s, http.MethodPost, "/api/payments/"+paymentID+"/pay", map[string]any{"paid_date": "2024-05-08"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "paid", decode[dataEnvelope](t, w).Data["status"])

	w = do(t, s, http.MethodPost, "/api/payments/"+paymentID+"/pay", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "conflict", decode[errorResponse](t, w).Error.Type)
}

func TestValidationAndNotFound(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodPost, "/api/payments", map[string]any{"household_id": "nope", "amount": "1", "due_date": "2024-05-01"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode[errorResponse](t, w)
	assert.Equal(t, "validation_error", resp.Error.Type)
	require.Len(t, resp.Error.Errors, 1)
	assert.Equal(t, "invalid_household_id", resp.Error.Errors[0].Code)
	assert.Equal(t, "household_id", resp.Error.Errors[0].Field)

	w = do(t, s, http.MethodGet, "/api/households/123456", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, s, http.MethodPost, "/api/payments", map[string]any{"household_id": "123456", "amount": "1", "due_date": "2024-05-01"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, s, http.MethodGet, "/api/households/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDuplicateUnitConflicts(t *testing.T) {
	s := newTestServer(t)
	createHousehold(t, s, "106", "A")

	w := do(t, s, http.MethodPost, "/api/households", map[string]any{"unit": "106", "owner_name": "B"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSearchScenario(t *testing.T) {
	s := newTestServer(t)
	householdID := createHousehold(t, s, "101", "Budi Santoso")
	w := do(t, s, http.MethodPost, "/api/households/"+householdID+"/parking-slots", map[string]any{
		"slot_number":   "P-101",
		"license_plate": "B 1234 XYZ",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, s, http.MethodGet, "/api/search?q=101", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[struct {
		Results []searchdomain.Result `json:"results"`
	}](t, w)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, searchdomain.TypeHousehold, resp.Results[0].Type)
	assert.Equal(t, "Unit 101", resp.Results[0].Title)
	assert.Equal(t, searchdomain.TypeParking, resp.Results[1].Type)
}

func TestSearchShortQueryReturnsEmptyArray(t *testing.T) {
	s := newTestServer(t)
	for _, q := range []string{"", "a"} {
		w := do(t, s, http.MethodGet, "/api/search?q="+q, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"results":[]}`, w.Body.String())
	}
}

type failingSearch struct{}

func (failingSearch) Search(context.Context, string) ([]searchdomain.Result, error) {
	return nil, searchdomain.ErrSearchUnavailable
}

func TestSearchFailureDegradesToEmpty(t *testing.T) {
	s := newTestServer(t)
	s.searchSvc = failingSearch{}

	w := do(t, s, http.MethodGet, "/api/search?q=budi", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"results":[]}`, w.Body.String())
}

type failingSweep struct{}

func (failingSweep) Sweep(ctx context.Context, kind billingdomain.Kind) (billingdomain.SweepResult, error) {
	return failingSweep{}.SweepAsOf(ctx, kind, time.Time{})
}

func (failingSweep) SweepAsOf(_ context.Context, kind billingdomain.Kind, _ time.Time) (billingdomain.SweepResult, error) {
	return billingdomain.SweepResult{}, fmt.Errorf("%w: sweep %s: %w", billingdomain.ErrStoreUnavailable, kind, errors.New("connection refused"))
}

func TestSweepStoreFailureIsServiceUnavailable(t *testing.T) {
	s := newTestServer(t)
	s.billingSvc = failingSweep{}

	w := do(t, s, http.MethodPost, "/api/payments/update-overdue", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "service_unavailable", decode[errorResponse](t, w).Error.Type)
}

func TestListPaymentsFiltersByStatus(t *testing.T) {
	s := newTestServer(t)
	householdID := createHousehold(t, s, "107", "Tono")
	createPayment(t, s, householdID, "10", "2024-05-01")
	createPayment(t, s, householdID, "20", "2024-06-01")
	do(t, s, http.MethodPost, "/api/payments/update-overdue", nil)

	w := do(t, s, http.MethodGet, "/api/payments?status=overdue&household_id="+householdID, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[struct {
		Data []map[string]any `json:"data"`
	}](t, w)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "10", resp.Data[0]["amount"])
}

func TestFeeCategoryEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodPost, "/api/fee-categories", map[string]any{
		"name":           "Maintenance Fee",
		"default_amount": "150000",
		"frequency":      "monthly",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "maintenance-fee", decode[dataEnvelope](t, w).Data["code"])

	w = do(t, s, http.MethodPost, "/api/fee-categories", map[string]any{"name": "Maintenance Fee", "frequency": "monthly"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, s, http.MethodGet, "/api/fee-categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestMapError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{billingdomain.ErrInvalidKind, http.StatusBadRequest},
		{billingdomain.ErrInvalidTransition, http.StatusConflict},
		{fmt.Errorf("%w: sweep payments: boom", billingdomain.ErrStoreUnavailable), http.StatusServiceUnavailable},
		{gorm.ErrRecordNotFound, http.StatusNotFound},
		{invalidRequestError(), http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
		{nil, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		status, _ := mapError(tc.err)
		assert.Equal(t, tc.status, status, "%v", tc.err)
	}
}
