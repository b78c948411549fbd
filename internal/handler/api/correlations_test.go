package api

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"LagScan/internal/domain/models"
	"LagScan/internal/repository"
	"LagScan/pkg/cache"

	"github.com/labstack/echo/v4"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestAPI(t *testing.T) (*echo.Echo, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	h := NewCorrelationHandler(nil, store, cache.NewMemoryCache(), time.Minute)
	e := echo.New()
	h.RegisterRoutes(e)
	return e, store
}

func seedPair(store *repository.MemoryStore, base, quote string, results []models.LagResult) {
	pair := models.Pair{Base: base, Quote: quote}
	status := models.PairStatusOK
	if len(results) == 0 {
		status = models.PairStatusEmpty
	}
	store.Put(models.PairReport{
		Pair:       pair,
		Status:     status,
		Results:    len(results),
		Duration:   5 * time.Millisecond,
		ComputedAt: time.Date(2024, 10, 10, 12, 0, 0, 0, time.UTC),
	}, results)
}

func doGet(t *testing.T, e *echo.Echo, target string) envelope {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("http status = %d", rec.Code)
	}
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func TestPairsEndpoint(t *testing.T) {
	e, store := newTestAPI(t)
	ts := time.Date(2024, 10, 10, 10, 0, 7, 0, time.UTC)
	seedPair(store, "A", "B", []models.LagResult{{Timestamp: ts, Correlation: 0.9, Lag: 3}})
	seedPair(store, "B", "A", nil)

	env := doGet(t, e, "/api/pairs")
	if env.Status != http.StatusOK {
		t.Fatalf("envelope status = %d", env.Status)
	}
	var data struct {
		Rows  []pairReportDTO `json:"rows"`
		Total int64           `json:"total"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Total != 2 || len(data.Rows) != 2 {
		t.Fatalf("rows = %d total = %d, want 2", len(data.Rows), data.Total)
	}
	if data.Rows[0].Pair != "A/B" || data.Rows[0].Status != models.PairStatusOK {
		t.Errorf("row[0] = %+v", data.Rows[0])
	}
	if data.Rows[1].Pair != "B/A" || data.Rows[1].Status != models.PairStatusEmpty {
		t.Errorf("row[1] = %+v", data.Rows[1])
	}
}

func TestCorrelationEndpoint(t *testing.T) {
	e, store := newTestAPI(t)
	base := time.Date(2024, 10, 10, 10, 0, 0, 0, time.UTC)
	results := []models.LagResult{
		{Timestamp: base, Correlation: 0.75, Lag: 2},
		{Timestamp: base.Add(time.Second), Correlation: math.NaN(), Lag: 0},
		{Timestamp: base.Add(2 * time.Second), Correlation: -0.5, Lag: 7},
	}
	seedPair(store, "A", "B", results)

	env := doGet(t, e, "/api/correlation?base=A&quote=B")
	if env.Status != http.StatusOK {
		t.Fatalf("envelope status = %d", env.Status)
	}
	var data struct {
		Pair  string        `json:"pair"`
		Rows  []lagPointDTO `json:"rows"`
		Total int           `json:"total"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Pair != "A/B" || data.Total != 3 {
		t.Fatalf("pair = %q total = %d", data.Pair, data.Total)
	}
	if data.Rows[0].Correlation == nil || *data.Rows[0].Correlation != 0.75 {
		t.Errorf("row[0] correlation = %v", data.Rows[0].Correlation)
	}
	// undefined correlations serialize as null
	if data.Rows[1].Correlation != nil {
		t.Errorf("row[1] correlation = %v, want null", *data.Rows[1].Correlation)
	}
	if data.Rows[2].Lag != 7 {
		t.Errorf("row[2] lag = %d", data.Rows[2].Lag)
	}
}

func TestCorrelationEndpointFilters(t *testing.T) {
	e, store := newTestAPI(t)
	base := time.Date(2024, 10, 10, 10, 0, 0, 0, time.UTC)
	var results []models.LagResult
	for i := 0; i < 10; i++ {
		results = append(results, models.LagResult{
			Timestamp:   base.Add(time.Duration(i) * time.Second),
			Correlation: float64(i) / 10,
			Lag:         i,
		})
	}
	seedPair(store, "A", "B", results)

	env := doGet(t, e, "/api/correlation?base=A&quote=B&from=2024-10-10T10:00:03Z&to=2024-10-10T10:00:06Z")
	var data struct {
		Rows  []lagPointDTO `json:"rows"`
		Total int           `json:"total"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Total != 4 {
		t.Fatalf("total = %d, want 4", data.Total)
	}
	if data.Rows[0].Lag != 3 || data.Rows[3].Lag != 6 {
		t.Errorf("range = [%d, %d], want [3, 6]", data.Rows[0].Lag, data.Rows[3].Lag)
	}

	// limit keeps the most recent rows
	env = doGet(t, e, "/api/correlation?base=A&quote=B&limit=2")
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Total != 2 || data.Rows[0].Lag != 8 || data.Rows[1].Lag != 9 {
		t.Fatalf("limited rows = %+v", data.Rows)
	}
}

func TestCorrelationEndpointUnknownPair(t *testing.T) {
	e, _ := newTestAPI(t)
	env := doGet(t, e, "/api/correlation?base=A&quote=B")
	if env.Status != http.StatusNotFound {
		t.Fatalf("envelope status = %d, want 404", env.Status)
	}
}

func TestCorrelationEndpointValidation(t *testing.T) {
	e, store := newTestAPI(t)
	seedPair(store, "A", "B", nil)

	cases := []struct {
		name   string
		target string
	}{
		{"missing quote", "/api/correlation?base=A"},
		{"same instrument", "/api/correlation?base=A&quote=A"},
		{"limit too large", "/api/correlation?base=A&quote=B&limit=200000"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := doGet(t, e, tc.target)
			if env.Status != http.StatusBadRequest {
				t.Fatalf("envelope status = %d, want 400", env.Status)
			}
		})
	}
}
