package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/simaogato/stockplan-backend/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SendsTokenAndQuery(t *testing.T) {
	var gotAuth, gotQuery, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(api.ProjectionResponse{PlanID: "p1", Months: 12})
	}))
	defer srv.Close()

	c := New(srv.URL+"/", "secret")
	resp, err := c.ProjectPlan(context.Background(), "p1", 12, true)

	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "/api/plans/p1/projection", gotPath)
	assert.Equal(t, "baseline=true&months=12", gotQuery)
	assert.Equal(t, 12, resp.Months)
}

func TestClient_CreatePlanBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req api.CreatePlanRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if !assert.Len(t, req.Stocks, 1) {
			return
		}
		assert.Equal(t, "Tech", req.Name)
		assert.True(t, decimal.RequireFromString("1.5").Equal(req.Stocks[0].MonthlyGrowthRatePercent))

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(api.Plan{ID: "new", Name: req.Name})
	}))
	defer srv.Close()

	plan, err := New(srv.URL, "t").CreatePlan(context.Background(), api.CreatePlanRequest{
		Name:   "Tech",
		Stocks: []api.CreateStock{{Symbol: "AAPL", MonthlyGrowthRatePercent: decimal.RequireFromString("1.5")}},
	})

	require.NoError(t, err)
	assert.Equal(t, "new", plan.ID)
}

func TestClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(api.ErrorResponse{Error: "plan not found: 123"})
	}))
	defer srv.Close()

	_, err := New(srv.URL, "t").GetPlan(context.Background(), "123")

	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "plan not found: 123", apiErr.Message)
	assert.True(t, IsNotFound(err))
}

func TestClient_APIErrorWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := New(srv.URL, "t").DeletePlan(context.Background(), "x")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
	assert.False(t, IsNotFound(err))
}

func TestClient_DeleteNoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	assert.NoError(t, New(srv.URL, "t").DeletePlan(context.Background(), "x"))
}

func TestClient_ListPlansOmitsDefaults(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(api.PlanListResponse{})
	}))
	defer srv.Close()

	_, err := New(srv.URL, "t").ListPlans(context.Background(), ListPlansOptions{Search: "growth"})

	require.NoError(t, err)
	assert.Equal(t, "search=growth", gotQuery)
}
