package domain

import (
	"context"
	"strings"
)

// Filters narrows the listing query. Category holds a comma-joined set of
// category keys; empty string means no constraint.
type Filters struct {
	Search     string `json:"search"`
	Category   string `json:"category"`
	Condition  string `json:"condition"`
	IsApproved string `json:"isApproved"`
}

// Active reports whether any constraint is set
func (f Filters) Active() bool {
	return strings.TrimSpace(f.Search) != "" || f.Category != "" ||
		f.Condition != "" || f.IsApproved != ""
}

// CategorySet returns the category keys as a slice
func (f Filters) CategorySet() []string {
	if f.Category == "" {
		return nil
	}
	parts := strings.Split(f.Category, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// FilterPatch is a partial filter update. Nil fields are left untouched,
// giving shallow-merge semantics.
type FilterPatch struct {
	Search     *string `json:"search,omitempty"`
	Category   *string `json:"category,omitempty"`
	Condition  *string `json:"condition,omitempty"`
	IsApproved *string `json:"isApproved,omitempty"`
}

// Apply merges the patch into f
func (p FilterPatch) Apply(f *Filters) {
	if p.Search != nil {
		f.Search = *p.Search
	}
	if p.Category != nil {
		f.Category = *p.Category
	}
	if p.Condition != nil {
		f.Condition = *p.Condition
	}
	if p.IsApproved != nil {
		f.IsApproved = *p.IsApproved
	}
}

// Pagination is the page window of the current listing query
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ListQuery is the full query sent to the backend products endpoint
type ListQuery struct {
	Page    int
	Limit   int
	Filters Filters
}

// ListingPage is the result of one products fetch
type ListingPage struct {
	Products   []Product
	Total      int
	TotalPages int
}

// AuthAPI is the slice of the backend the session manager depends on
type AuthAPI interface {
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	RefreshToken(ctx context.Context) error
	CurrentUser(ctx context.Context) (*User, error)
}

// ProductAPI is the slice of the backend the listing manager depends on
type ProductAPI interface {
	ListProducts(ctx context.Context, q ListQuery) (*ListingPage, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
}
