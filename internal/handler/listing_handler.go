package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/RaymondAhuren/swedru-konnect/internal/domain"
	"github.com/RaymondAhuren/swedru-konnect/internal/listing"

	"github.com/go-chi/chi/v5"
)

// ListingHandler maps view intents onto the listing query manager and
// passes single-product lookups through to the backend.
type ListingHandler struct {
	listings *listing.Manager
	products domain.ProductAPI
}

// NewListingHandler creates a new listing handler
func NewListingHandler(listings *listing.Manager, products domain.ProductAPI) *ListingHandler {
	return &ListingHandler{
		listings: listings,
		products: products,
	}
}

// Get returns the current listing query snapshot
func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.listings.Snapshot())
}

// UpdateFilters merges a filter patch and refetches. The page reset to 1
// happens inside the manager, atomically with the merge.
func (h *ListingHandler) UpdateFilters(w http.ResponseWriter, r *http.Request) {
	var patch domain.FilterPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, `{"error":"Invalid request body"}`, http.StatusBadRequest)
		return
	}

	if patch.Category != nil && *patch.Category != "" {
		tmp := domain.Filters{Category: *patch.Category}
		for _, key := range tmp.CategorySet() {
			if !domain.ValidCategory(key) {
				http.Error(w, `{"error":"Unknown category: `+key+`"}`, http.StatusBadRequest)
				return
			}
		}
	}

	// A fetch failure still returns the snapshot: the manager keeps the
	// last good products and records the error for the view to display.
	_ = h.listings.UpdateFilters(r.Context(), patch)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.listings.Snapshot())
}

// PageRequest represents a page-change intent
type PageRequest struct {
	Page int `json:"page"`
}

// SetPage moves to another page without touching filters
func (h *ListingHandler) SetPage(w http.ResponseWriter, r *http.Request) {
	var req PageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Page < 1 {
		http.Error(w, `{"error":"Page must be at least 1"}`, http.StatusBadRequest)
		return
	}

	_ = h.listings.GoToPage(r.Context(), req.Page)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.listings.Snapshot())
}

// SearchRequest represents a search-text change
type SearchRequest struct {
	Query string `json:"query"`
}

// Search applies a debounced search-text change. The response is the
// immediate snapshot; the refetch lands on the state feed once the input
// settles.
func (h *ListingHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"Invalid request body"}`, http.StatusBadRequest)
		return
	}

	h.listings.SearchDebounced(req.Query)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(h.listings.Snapshot())
}

// GetProduct fetches one product's details from the backend
func (h *ListingHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, `{"error":"Product ID required"}`, http.StatusBadRequest)
		return
	}

	product, err := h.products.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			http.Error(w, `{"message":"Product not found"}`, http.StatusNotFound)
			return
		}
		http.Error(w, `{"message":"`+domain.ErrorMessage(err, "Failed to fetch product")+`"}`, http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]*domain.Product{"data": product})
}

// ReviewListings returns products still pending approval. Reached only
// through RequireRole("admin"); the role itself comes from the backend.
func (h *ListingHandler) ReviewListings(w http.ResponseWriter, r *http.Request) {
	page, err := h.products.ListProducts(r.Context(), domain.ListQuery{
		Page:    1,
		Limit:   50,
		Filters: domain.Filters{IsApproved: "false"},
	})
	if err != nil {
		http.Error(w, `{"message":"`+domain.ErrorMessage(err, "Failed to fetch pending listings")+`"}`, http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"data":       page.Products,
		"total":      page.Total,
		"totalPages": page.TotalPages,
	})
}
