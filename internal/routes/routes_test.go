package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/config"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/testutil"
)

const secret = "segredo-de-teste"

type api struct {
	t     *testing.T
	r     *gin.Engine
	db    *gorm.DB
	fx    testutil.Fixture
	token string
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.OpenDB(t)
	fx := testutil.SeedBarber(t, db, "joao")

	cfg := &config.Config{JWTSecret: secret, SlotStepMinutes: 15, PublicRatePerMin: 600}

	r, err := NewEngine(cfg, nil)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	RegisterRoutes(r, cfg, Infra{
		DB:      db,
		Limiter: middleware.NewIPRateLimiter(cfg.PublicRatePerMin, nil),
	})

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": fx.Barber.ID}).
		SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	return &api{t: t, r: r, db: db, fx: fx, token: token}
}

func (a *api) do(method, path string, body any, auth bool) *httptest.ResponseRecorder {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			a.t.Fatalf("encode: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return v
}

func expect(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status = %d, want %d: %s", w.Code, status, w.Body.String())
	}
}

// segunda-feira bem no futuro
const monday = "2099-01-05"

func TestPublicBookingFlow(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodGet, "/api/public/joao/services", nil, false)
	expect(t, w, http.StatusOK)

	path := fmt.Sprintf("/api/public/joao/availability?date=%s&service_id=%d", monday, a.fx.Service.ID)
	w = a.do(http.MethodGet, path, nil, false)
	expect(t, w, http.StatusOK)
	avail := decode[struct {
		Slots []struct {
			Start string `json:"start"`
			End   string `json:"end"`
		} `json:"slots"`
	}](t, w)
	if len(avail.Slots) == 0 || avail.Slots[0].Start != "09:00" {
		t.Fatalf("unexpected slots: %+v", avail.Slots)
	}

	booking := map[string]any{
		"client_name":  "Cliente",
		"client_phone": "11999990000",
		"service_id":   a.fx.Service.ID,
		"date":         monday,
		"start_time":   "09:00",
	}
	w = a.do(http.MethodPost, "/api/public/joao/appointments", booking, false)
	expect(t, w, http.StatusCreated)
	created := decode[struct {
		ID     uint   `json:"id"`
		Status string `json:"status"`
	}](t, w)
	if created.Status != "pending" {
		t.Fatalf("status = %s", created.Status)
	}

	booking["start_time"] = "09:15"
	w = a.do(http.MethodPost, "/api/public/joao/appointments", booking, false)
	expect(t, w, http.StatusConflict)
	if e := decode[map[string]string](t, w); e["error_code"] != "slot_unavailable" {
		t.Fatalf("error_code = %s", e["error_code"])
	}

	w = a.do(http.MethodPost, "/api/public/ninguem/appointments", booking, false)
	expect(t, w, http.StatusNotFound)

	booking["start_time"] = "09:30"
	booking["client_phone"] = "abc"
	w = a.do(http.MethodPost, "/api/public/joao/appointments", booking, false)
	expect(t, w, http.StatusBadRequest)

	// confirmação pelo barbeiro gera exatamente uma receita
	confirm := fmt.Sprintf("/api/me/appointments/%d/confirm", created.ID)
	expect(t, a.do(http.MethodPatch, confirm, nil, true), http.StatusOK)
	expect(t, a.do(http.MethodPatch, confirm, nil, true), http.StatusOK)

	w = a.do(http.MethodGet, "/api/me/transactions?type=income", nil, true)
	expect(t, w, http.StatusOK)
	txs := decode[struct {
		Total int `json:"total"`
	}](t, w)
	if txs.Total != 1 {
		t.Fatalf("expected 1 income, got %d", txs.Total)
	}

	w = a.do(http.MethodPatch, fmt.Sprintf("/api/me/appointments/%d", created.ID), map[string]any{"status": "pending"}, true)
	expect(t, w, http.StatusBadRequest)

	w = a.do(http.MethodPatch, fmt.Sprintf("/api/me/appointments/%d/cancel", created.ID), nil, true)
	expect(t, w, http.StatusOK)

	booking["start_time"] = "09:00"
	booking["client_phone"] = "11999990000"
	w = a.do(http.MethodPost, "/api/public/joao/appointments", booking, false)
	expect(t, w, http.StatusCreated)

	w = a.do(http.MethodGet, "/api/me/appointments?date="+monday, nil, true)
	expect(t, w, http.StatusOK)
	list := decode[struct {
		Total int `json:"total"`
		Data  []struct {
			StartTime string `json:"start_time"`
			EndTime   string `json:"end_time"`
			Status    string `json:"status"`
		} `json:"data"`
	}](t, w)
	if list.Total != 2 || list.Data[0].EndTime != "09:30" {
		t.Fatalf("unexpected listing: %+v", list)
	}
}

func TestSecuredRoutesRequireToken(t *testing.T) {
	a := newAPI(t)

	for _, path := range []string{
		"/api/me/appointments",
		"/api/me/working-hours",
		"/api/me/transactions",
		"/api/me/audit-logs",
	} {
		expect(t, a.do(http.MethodGet, path, nil, false), http.StatusUnauthorized)
	}
}

func TestCalendarRules(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodPost, "/api/me/blocked-intervals", map[string]any{
		"date": monday, "start_time": "09:00", "end_time": "12:00", "reason": "médico",
	}, true)
	expect(t, w, http.StatusCreated)
	blocked := decode[models.BlockedInterval](t, w)

	w = a.do(http.MethodPost, "/api/me/blocked-intervals", map[string]any{
		"date": monday, "start_time": "12:00", "end_time": "11:00",
	}, true)
	expect(t, w, http.StatusBadRequest)

	w = a.do(http.MethodGet, "/api/me/availability?duration=30&date="+monday, nil, true)
	expect(t, w, http.StatusOK)
	avail := decode[struct {
		Slots []struct {
			Start string `json:"start"`
		} `json:"slots"`
	}](t, w)
	if len(avail.Slots) == 0 || avail.Slots[0].Start != "12:00" {
		t.Fatalf("blocked morning still offered: %+v", avail.Slots)
	}

	expect(t, a.do(http.MethodDelete, fmt.Sprintf("/api/me/blocked-intervals/%d", blocked.ID), nil, true), http.StatusNoContent)
	expect(t, a.do(http.MethodDelete, fmt.Sprintf("/api/me/blocked-intervals/%d", blocked.ID), nil, true), http.StatusNotFound)

	// só segunda, das 10 às 12
	w = a.do(http.MethodPut, "/api/me/working-hours", map[string]any{
		"days": []map[string]any{
			{"weekday": 1, "active": true, "start_time": "10:00", "end_time": "12:00"},
			{"weekday": 0, "active": false},
		},
	}, true)
	expect(t, w, http.StatusOK)

	w = a.do(http.MethodPut, "/api/me/working-hours", map[string]any{
		"days": []map[string]any{
			{"weekday": 1, "active": true, "start_time": "10:00", "end_time": "12:00"},
			{"weekday": 1, "active": true, "start_time": "13:00", "end_time": "18:00"},
		},
	}, true)
	expect(t, w, http.StatusBadRequest)

	w = a.do(http.MethodGet, "/api/me/working-hours", nil, true)
	expect(t, w, http.StatusOK)
	hours := decode[[]models.WorkingHours](t, w)
	if len(hours) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(hours))
	}

	w = a.do(http.MethodGet, "/api/me/availability?duration=60&date="+monday, nil, true)
	expect(t, w, http.StatusOK)
	avail = decode[struct {
		Slots []struct {
			Start string `json:"start"`
		} `json:"slots"`
	}](t, w)
	if len(avail.Slots) != 5 || avail.Slots[0].Start != "10:00" || avail.Slots[4].Start != "11:00" {
		t.Fatalf("unexpected slots: %+v", avail.Slots)
	}

	// terça ficou sem expediente
	w = a.do(http.MethodGet, "/api/me/availability?duration=60&date=2099-01-06", nil, true)
	expect(t, w, http.StatusOK)
	if s := decode[struct {
		Slots []any `json:"slots"`
	}](t, w); len(s.Slots) != 0 {
		t.Fatalf("expected empty tuesday")
	}
}

func TestManualTransactionsAPI(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodPost, "/api/me/transactions", map[string]any{
		"type": "expense", "amount": 35.5, "description": "Toalhas", "date": "2099-01-02",
	}, true)
	expect(t, w, http.StatusCreated)
	tx := decode[models.Transaction](t, w)

	w = a.do(http.MethodPatch, fmt.Sprintf("/api/me/transactions/%d", tx.ID), map[string]any{
		"type": "expense", "amount": 40, "description": "Toalhas", "date": "2099-01-02",
	}, true)
	expect(t, w, http.StatusOK)

	w = a.do(http.MethodPost, "/api/me/transactions", map[string]any{
		"type": "gift", "amount": 10, "description": "x", "date": "2099-01-02",
	}, true)
	expect(t, w, http.StatusBadRequest)

	expect(t, a.do(http.MethodDelete, fmt.Sprintf("/api/me/transactions/%d", tx.ID), nil, true), http.StatusNoContent)
	expect(t, a.do(http.MethodDelete, fmt.Sprintf("/api/me/transactions/%d", tx.ID), nil, true), http.StatusNotFound)
}

func TestAuditTrail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.OpenDB(t)
	fx := testutil.SeedBarber(t, db, "joao")
	cfg := &config.Config{JWTSecret: secret}

	dispatcher := audit.NewDispatcher(audit.New(db), nil)

	r, err := NewEngine(cfg, nil)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	RegisterRoutes(r, cfg, Infra{DB: db, Audit: dispatcher})

	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": fx.Barber.ID}).
		SignedString([]byte(secret))
	a := &api{t: t, r: r, db: db, fx: fx, token: token}

	w := a.do(http.MethodPost, "/api/me/appointments", map[string]any{
		"client_name":  "Cliente",
		"client_phone": "11999990000",
		"service_id":   fx.Service.ID,
		"date":         monday,
		"start_time":   "10:00",
	}, true)
	expect(t, w, http.StatusCreated)
	requestID := w.Header().Get(middleware.HeaderRequestID)

	dispatcher.Close()

	w = a.do(http.MethodGet, "/api/me/audit-logs?request_id="+requestID, nil, true)
	expect(t, w, http.StatusOK)
	out := decode[struct {
		Total int64             `json:"total"`
		Logs  []models.AuditLog `json:"logs"`
	}](t, w)
	if out.Total != 1 || out.Logs[0].Action != "appointment_created" {
		t.Fatalf("unexpected audit logs: %+v", out)
	}
}

func TestPublicRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := testutil.OpenDB(t)
	testutil.SeedBarber(t, db, "joao")

	// 6/min dá rajada de 1
	cfg := &config.Config{JWTSecret: secret, SlotStepMinutes: 15, PublicRatePerMin: 6}
	r, err := NewEngine(cfg, nil)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	RegisterRoutes(r, cfg, Infra{
		DB:      db,
		Limiter: middleware.NewIPRateLimiter(cfg.PublicRatePerMin, nil),
	})

	hit := func(forwarded string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/public/joao/services", nil)
		req.RemoteAddr = "203.0.113.7:40000"
		req.Header.Set("X-Forwarded-For", forwarded)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := hit("198.51.100.1"); code != http.StatusOK {
		t.Fatalf("first request: status %d", code)
	}
	if code := hit("198.51.100.2"); code != http.StatusTooManyRequests {
		t.Fatalf("forged X-Forwarded-For bypassed the limit: status %d", code)
	}
}

func TestTrustedProxyForwardedForIsHonored(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{TrustedProxies: "203.0.113.0/24"}
	r, err := NewEngine(cfg, nil)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	var seen string
	r.GET("/ip", func(c *gin.Context) { seen = c.ClientIP() })

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.RemoteAddr = "203.0.113.7:40000"
	req.Header.Set("X-Forwarded-For", "198.51.100.9")
	r.ServeHTTP(httptest.NewRecorder(), req)

	if seen != "198.51.100.9" {
		t.Fatalf("client ip = %q, want forwarded address", seen)
	}
}

func TestInvalidTrustedProxyFailsFast(t *testing.T) {
	if _, err := NewEngine(&config.Config{TrustedProxies: "not-an-ip"}, nil); err == nil {
		t.Fatal("expected error for invalid proxy entry")
	}
}

func TestSlotCheckAndBillingAPI(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodPost, "/api/me/appointments", map[string]any{
		"client_name":  "Cliente",
		"client_phone": "11999990000",
		"service_id":   a.fx.Service.ID,
		"date":         monday,
		"start_time":   "09:00",
	}, true)
	expect(t, w, http.StatusCreated)
	ap := decode[models.Appointment](t, w)

	check := func(start string) bool {
		path := fmt.Sprintf("/api/me/availability/check?date=%s&start_time=%s&service_id=%d", monday, start, a.fx.Service.ID)
		w := a.do(http.MethodGet, path, nil, true)
		expect(t, w, http.StatusOK)
		return decode[struct {
			Bookable bool `json:"bookable"`
		}](t, w).Bookable
	}
	if check("09:15") {
		t.Fatal("09:15 overlaps the booking")
	}
	if !check("09:30") {
		t.Fatal("09:30 should be bookable")
	}
	expect(t, a.do(http.MethodGet, "/api/me/availability/check?date="+monday, nil, true), http.StatusBadRequest)

	lines := map[string]any{"lines": []map[string]any{
		{"description": "Barba", "amount": 30},
		{"description": "Sobrancelha", "amount": 15},
	}}
	path := fmt.Sprintf("/api/me/appointments/%d/income-lines", ap.ID)

	expect(t, a.do(http.MethodPost, path, lines, true), http.StatusBadRequest)

	expect(t, a.do(http.MethodPatch, fmt.Sprintf("/api/me/appointments/%d/confirm", ap.ID), nil, true), http.StatusOK)

	w = a.do(http.MethodPost, path, lines, true)
	expect(t, w, http.StatusOK)
	if got := decode[struct {
		Created int `json:"created"`
	}](t, w).Created; got != 2 {
		t.Fatalf("created = %d, want 2", got)
	}

	w = a.do(http.MethodGet, "/api/me/transactions?type=income", nil, true)
	expect(t, w, http.StatusOK)
	txs := decode[struct {
		Total   int               `json:"total"`
		Filters map[string]string `json:"filters"`
	}](t, w)
	if txs.Total != 3 || txs.Filters["type"] != "income" {
		t.Fatalf("unexpected ledger listing: %+v", txs)
	}

	expect(t, a.do(http.MethodPost, path, map[string]any{"lines": []any{}}, true), http.StatusBadRequest)
}
