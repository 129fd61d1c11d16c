// Package testutil provides shared test utilities, mocks, and fixtures
// for testing the storefront gateway.
package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/RaymondAhuren/swedru-konnect/internal/domain"
)

// Common test errors
var (
	ErrMockNotImplemented = errors.New("mock function not implemented")
)

// MockAuthAPI implements domain.AuthAPI for testing
type MockAuthAPI struct {
	mu sync.Mutex

	// Function overrides - set these to customize behavior
	LoginFunc        func(ctx context.Context, email, password string) error
	LogoutFunc       func(ctx context.Context) error
	RefreshTokenFunc func(ctx context.Context) error
	CurrentUserFunc  func(ctx context.Context) (*domain.User, error)

	// Call counters
	LoginCalls   int
	LogoutCalls  int
	RefreshCalls int
	CurrentCalls int
}

func (m *MockAuthAPI) Login(ctx context.Context, email, password string) error {
	m.mu.Lock()
	m.LoginCalls++
	m.mu.Unlock()
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return ErrMockNotImplemented
}

func (m *MockAuthAPI) Logout(ctx context.Context) error {
	m.mu.Lock()
	m.LogoutCalls++
	m.mu.Unlock()
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx)
	}
	return nil
}

func (m *MockAuthAPI) RefreshToken(ctx context.Context) error {
	m.mu.Lock()
	m.RefreshCalls++
	m.mu.Unlock()
	if m.RefreshTokenFunc != nil {
		return m.RefreshTokenFunc(ctx)
	}
	return nil
}

func (m *MockAuthAPI) CurrentUser(ctx context.Context) (*domain.User, error) {
	m.mu.Lock()
	m.CurrentCalls++
	m.mu.Unlock()
	if m.CurrentUserFunc != nil {
		return m.CurrentUserFunc(ctx)
	}
	return nil, ErrMockNotImplemented
}

// Calls returns the current call counters under the lock.
func (m *MockAuthAPI) Calls() (login, logout, refresh, current int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.LoginCalls, m.LogoutCalls, m.RefreshCalls, m.CurrentCalls
}

// MockProductAPI implements domain.ProductAPI for testing
type MockProductAPI struct {
	mu sync.Mutex

	ListProductsFunc func(ctx context.Context, q domain.ListQuery) (*domain.ListingPage, error)
	GetProductFunc   func(ctx context.Context, id string) (*domain.Product, error)

	ListCalls int
	GetCalls  int

	// Queries records every ListQuery seen, in order
	Queries []domain.ListQuery
}

func (m *MockProductAPI) ListProducts(ctx context.Context, q domain.ListQuery) (*domain.ListingPage, error) {
	m.mu.Lock()
	m.ListCalls++
	m.Queries = append(m.Queries, q)
	m.mu.Unlock()
	if m.ListProductsFunc != nil {
		return m.ListProductsFunc(ctx, q)
	}
	return &domain.ListingPage{Products: []domain.Product{}, TotalPages: 1}, nil
}

func (m *MockProductAPI) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	m.mu.Lock()
	m.GetCalls++
	m.mu.Unlock()
	if m.GetProductFunc != nil {
		return m.GetProductFunc(ctx, id)
	}
	return nil, domain.ErrProductNotFound
}

// LastQuery returns the most recent ListQuery, or false when none were made.
func (m *MockProductAPI) LastQuery() (domain.ListQuery, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Queries) == 0 {
		return domain.ListQuery{}, false
	}
	return m.Queries[len(m.Queries)-1], true
}

// AuthExpiredError is a test error that satisfies domain.IsAuthExpired
// and carries a backend message, like a real backend rejection.
type AuthExpiredError struct{ Msg string }

func (e *AuthExpiredError) Error() string          { return e.Msg }
func (e *AuthExpiredError) AuthExpired() bool      { return true }
func (e *AuthExpiredError) BackendMessage() string { return e.Msg }
