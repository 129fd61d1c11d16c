package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/RaymondAhuren/swedru-konnect/internal/domain"
	"github.com/RaymondAhuren/swedru-konnect/internal/observability"
)

// ListProducts runs a filtered, paginated listing query. Empty filter
// values are omitted from the query string entirely.
func (c *Client) ListProducts(ctx context.Context, q domain.ListQuery) (*domain.ListingPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("limit", strconv.Itoa(q.Limit))
	if q.Filters.Search != "" {
		params.Set("search", q.Filters.Search)
	}
	if q.Filters.Category != "" {
		params.Set("category", q.Filters.Category)
	}
	if q.Filters.Condition != "" {
		params.Set("condition", q.Filters.Condition)
	}
	if q.Filters.IsApproved != "" {
		params.Set("isApproved", q.Filters.IsApproved)
	}

	start := time.Now()
	env, err := c.doJSON(ctx, http.MethodGet, "/products?"+params.Encode(), nil)
	observability.ObserveBackendRequest("products_list", start, err)
	if err != nil {
		return nil, err
	}

	page := &domain.ListingPage{
		Total:      env.Total,
		TotalPages: env.TotalPages,
	}
	if records := env.records(); len(records) > 0 && string(records) != "null" {
		if err := json.Unmarshal(records, &page.Products); err != nil {
			return nil, fmt.Errorf("malformed products payload: %w", err)
		}
	}
	if page.Products == nil {
		page.Products = []domain.Product{}
	}
	if page.TotalPages < 1 {
		page.TotalPages = 1
	}
	return page, nil
}

// GetProduct fetches a single product by id
func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	start := time.Now()
	env, err := c.doJSON(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil)
	observability.ObserveBackendRequest("products_get", start, err)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}

	records := env.records()
	if len(records) == 0 || string(records) == "null" {
		return nil, domain.ErrProductNotFound
	}

	var product domain.Product
	if err := json.Unmarshal(records, &product); err != nil {
		return nil, fmt.Errorf("malformed product payload: %w", err)
	}
	return &product, nil
}
