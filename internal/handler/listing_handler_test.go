package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/RaymondAhuren/swedru-konnect/internal/domain"
	"github.com/RaymondAhuren/swedru-konnect/internal/listing"
	"github.com/RaymondAhuren/swedru-konnect/internal/testutil"

	"github.com/go-chi/chi/v5"
)

func newListingHandler(api *testutil.MockProductAPI) (*ListingHandler, *listing.Manager) {
	m := listing.NewManager(api, 10)
	return NewListingHandler(m, api), m
}

func TestListingHandler_Get(t *testing.T) {
	h, m := newListingHandler(&testutil.MockProductAPI{})
	defer m.Close()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/listings", nil)
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var snap listing.Snapshot
	if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
		t.Fatalf("Failed to decode snapshot: %v", err)
	}
	if snap.Pagination.Page != 1 || snap.Pagination.Limit != 10 {
		t.Errorf("Unexpected initial pagination: %+v", snap.Pagination)
	}
}

func TestListingHandler_UpdateFilters_Success(t *testing.T) {
	api := &testutil.MockProductAPI{
		ListProductsFunc: func(ctx context.Context, q domain.ListQuery) (*domain.ListingPage, error) {
			return &domain.ListingPage{
				Products:   testutil.NewTestProducts(2),
				Total:      2,
				TotalPages: 1,
			}, nil
		},
	}
	h, m := newListingHandler(api)
	defer m.Close()

	req := httptest.NewRequest(http.MethodPut, "/api/v1/listings/filters",
		strings.NewReader(`{"category":"phones","condition":"used"}`))
	rec := httptest.NewRecorder()
	h.UpdateFilters(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var snap listing.Snapshot
	if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
		t.Fatalf("Failed to decode snapshot: %v", err)
	}
	if snap.Filters.Category != "phones" || snap.Filters.Condition != "used" {
		t.Errorf("Unexpected filters: %+v", snap.Filters)
	}
	if snap.Pagination.Page != 1 {
		t.Errorf("Expected page 1, got %d", snap.Pagination.Page)
	}
	if len(snap.Products) != 2 {
		t.Errorf("Expected 2 products, got %d", len(snap.Products))
	}
}

func TestListingHandler_UpdateFilters_UnknownCategory(t *testing.T) {
	api := &testutil.MockProductAPI{}
	h, m := newListingHandler(api)
	defer m.Close()

	req := httptest.NewRequest(http.MethodPut, "/api/v1/listings/filters",
		strings.NewReader(`{"category":"spaceships"}`))
	rec := httptest.NewRecorder()
	h.UpdateFilters(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown category, got %d", rec.Code)
	}
	if api.ListCalls != 0 {
		t.Errorf("Expected no fetch for rejected patch, got %d", api.ListCalls)
	}
}

func TestListingHandler_UpdateFilters_FetchFailureStillReturnsSnapshot(t *testing.T) {
	api := &testutil.MockProductAPI{
		ListProductsFunc: func(ctx context.Context, q domain.ListQuery) (*domain.ListingPage, error) {
			return nil, errors.New("connection refused")
		},
	}
	h, m := newListingHandler(api)
	defer m.Close()

	req := httptest.NewRequest(http.MethodPut, "/api/v1/listings/filters",
		strings.NewReader(`{"search":"galaxy"}`))
	rec := httptest.NewRecorder()
	h.UpdateFilters(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 with error recorded in snapshot, got %d", rec.Code)
	}

	var snap listing.Snapshot
	if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
		t.Fatalf("Failed to decode snapshot: %v", err)
	}
	if snap.Error == "" {
		t.Error("Expected error message in snapshot")
	}
}

func TestListingHandler_SetPage(t *testing.T) {
	h, m := newListingHandler(&testutil.MockProductAPI{})
	defer m.Close()

	req := httptest.NewRequest(http.MethodPut, "/api/v1/listings/page",
		strings.NewReader(`{"page":3}`))
	rec := httptest.NewRecorder()
	h.SetPage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if got := m.Snapshot().Pagination.Page; got != 3 {
		t.Errorf("Expected page 3, got %d", got)
	}
}

func TestListingHandler_SetPage_Invalid(t *testing.T) {
	h, m := newListingHandler(&testutil.MockProductAPI{})
	defer m.Close()

	req := httptest.NewRequest(http.MethodPut, "/api/v1/listings/page",
		strings.NewReader(`{"page":0}`))
	rec := httptest.NewRecorder()
	h.SetPage(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestListingHandler_Search_Accepted(t *testing.T) {
	h, m := newListingHandler(&testutil.MockProductAPI{})
	defer m.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/listings/search",
		strings.NewReader(`{"query":"galaxy"}`))
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Errorf("Expected 202, got %d", rec.Code)
	}
}

func TestListingHandler_GetProduct_Success(t *testing.T) {
	product := testutil.NewTestProduct(testutil.WithProductID("p42"))
	api := &testutil.MockProductAPI{
		GetProductFunc: func(ctx context.Context, id string) (*domain.Product, error) {
			if id != "p42" {
				return nil, domain.ErrProductNotFound
			}
			return &product, nil
		},
	}
	h, m := newListingHandler(api)
	defer m.Close()

	r := chi.NewRouter()
	r.Get("/api/v1/products/{id}", h.GetProduct)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/p42", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]domain.Product
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp["data"].ID != "p42" {
		t.Errorf("Unexpected product: %+v", resp["data"])
	}
}

func TestListingHandler_GetProduct_NotFound(t *testing.T) {
	h, m := newListingHandler(&testutil.MockProductAPI{})
	defer m.Close()

	r := chi.NewRouter()
	r.Get("/api/v1/products/{id}", h.GetProduct)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/missing", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestListingHandler_GetProduct_BackendDown(t *testing.T) {
	api := &testutil.MockProductAPI{
		GetProductFunc: func(ctx context.Context, id string) (*domain.Product, error) {
			return nil, errors.New("connection refused")
		},
	}
	h, m := newListingHandler(api)
	defer m.Close()

	r := chi.NewRouter()
	r.Get("/api/v1/products/{id}", h.GetProduct)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/p1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("Expected 502, got %d", rec.Code)
	}
}

func TestListingHandler_ReviewListings(t *testing.T) {
	api := &testutil.MockProductAPI{
		ListProductsFunc: func(ctx context.Context, q domain.ListQuery) (*domain.ListingPage, error) {
			if q.Filters.IsApproved != "false" {
				t.Errorf("Expected isApproved=false filter, got %q", q.Filters.IsApproved)
			}
			return &domain.ListingPage{
				Products:   testutil.NewTestProducts(1),
				Total:      1,
				TotalPages: 1,
			}, nil
		},
	}
	h, m := newListingHandler(api)
	defer m.Close()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/review/listings", nil)
	rec := httptest.NewRecorder()
	h.ReviewListings(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp struct {
		Data  []domain.Product `json:"data"`
		Total int              `json:"total"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Data) != 1 || resp.Total != 1 {
		t.Errorf("Unexpected response: %+v", resp)
	}
}
