package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/wakala/dwh/internal/domain"
	"github.com/wakala/dwh/internal/metrics"
	"github.com/wakala/dwh/internal/repository"
)

type HandlersSuite struct {
	suite.Suite
	db     *repository.DB
	store  *repository.Store
	router http.Handler
	day    domain.Date
}

func TestHandlersSuite(t *testing.T) {
	suite.Run(t, new(HandlersSuite))
}

func (s *HandlersSuite) SetupTest() {
	db, err := repository.Open("sqlite", ":memory:")
	s.Require().NoError(err)
	s.db = db
	s.store = repository.NewStore(db)
	s.router = NewRouter(s.store, metrics.New())
	s.day = domain.Date{Year: 2024, Month: time.November, Day: 1}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := s.store.Ratios.Insert(ctx, domain.RatioRow{
			Date:       s.day.AddDays(i),
			N1_0:       decimal.NewNullDecimal(decimal.RequireFromString("0.05")),
			Standards:  domain.DefaultStandards(),
			RecordedAt: s.day.AddDays(i + 1).Start(),
		})
		s.Require().NoError(err)
	}
}

func (s *HandlersSuite) TearDownTest() {
	s.db.Close()
}

func (s *HandlersSuite) get(path string) (*httptest.ResponseRecorder, map[string]any) {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var body map[string]any
	if rec.Header().Get("Content-Type") == "application/json" {
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func (s *HandlersSuite) TestHealthz() {
	rec, body := s.get("/healthz")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("ok", body["status"])
}

func (s *HandlersSuite) TestListRatios() {
	rec, body := s.get("/api/v1/ratios")
	s.Equal(http.StatusOK, rec.Code)
	s.EqualValues(3, body["total"])

	rec, body = s.get("/api/v1/ratios?from=2024-11-02&to=2024-11-02")
	s.Equal(http.StatusOK, rec.Code)
	s.EqualValues(1, body["total"])
	ratios := body["ratios"].([]any)
	row := ratios[0].(map[string]any)
	s.Equal("2024-11-02", row["date"])
	s.Nil(row["n1_1"])

	rec, _ = s.get("/api/v1/ratios?from=yesterday")
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlersSuite) TestGetRatio() {
	rec, body := s.get("/api/v1/ratios/2024-11-01")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("2024-11-01", body["date"])
	s.Equal("0.05", body["n1_0"])

	rec, _ = s.get("/api/v1/ratios/2025-01-01")
	s.Equal(http.StatusNotFound, rec.Code)

	rec, _ = s.get("/api/v1/ratios/01-11-2024")
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlersSuite) TestListAggregatesEmpty() {
	rec, body := s.get("/api/v1/aggregates")
	s.Equal(http.StatusOK, rec.Code)
	s.EqualValues(0, body["total"])
	s.Equal([]any{}, body["aggregates"])
}

func (s *HandlersSuite) TestGetWatermarks() {
	_, err := s.store.Banks.InsertStaging(context.Background(), domain.BankRecord{
		Bank:       domain.Bank{Name: "Severny"},
		RecordedAt: s.day.Start(),
	})
	s.Require().NoError(err)

	rec, body := s.get("/api/v1/watermarks")
	s.Equal(http.StatusOK, rec.Code)
	staging := body["staging"].(map[string]any)
	bank := staging["bank"].(map[string]any)
	s.Equal(true, bank["valid"])
	clients := staging["clients"].(map[string]any)
	s.Equal(false, clients["valid"])
	s.Contains(body, "warehouse")
}

func (s *HandlersSuite) TestMetricsEndpoint() {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	s.Equal(http.StatusOK, rec.Code)
}
