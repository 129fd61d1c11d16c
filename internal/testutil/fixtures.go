package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/RaymondAhuren/swedru-konnect/internal/domain"
)

var idCounter atomic.Int64

// nextID generates a unique ID for test fixtures
func nextID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, idCounter.Add(1))
}

// UserOptions allows customizing user fixture creation
type UserOptions struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Role      string
}

// NewTestUser creates a test user with sensible defaults
// Pass options to override specific fields
func NewTestUser(opts ...func(*UserOptions)) *domain.User {
	o := &UserOptions{
		ID:        nextID("user"),
		FirstName: "Ama",
		LastName:  "Mensah",
		Role:      domain.RoleUser,
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.Email == "" {
		o.Email = fmt.Sprintf("%s@example.com", o.ID)
	}

	return &domain.User{
		ID:        o.ID,
		FirstName: o.FirstName,
		LastName:  o.LastName,
		Email:     o.Email,
		Role:      o.Role,
	}
}

// WithUserID sets the user ID
func WithUserID(id string) func(*UserOptions) {
	return func(o *UserOptions) { o.ID = id }
}

// WithUserEmail sets the user email
func WithUserEmail(email string) func(*UserOptions) {
	return func(o *UserOptions) { o.Email = email }
}

// WithUserRole sets the user role
func WithUserRole(role string) func(*UserOptions) {
	return func(o *UserOptions) { o.Role = role }
}

// ProductOptions allows customizing product fixture creation
type ProductOptions struct {
	ID        string
	Title     string
	Price     float64
	Category  string
	Condition string
	Seller    string
}

// NewTestProduct creates a test product with sensible defaults
func NewTestProduct(opts ...func(*ProductOptions)) domain.Product {
	o := &ProductOptions{
		ID:        nextID("product"),
		Title:     "Samsung Galaxy A54",
		Price:     2400,
		Category:  "phones",
		Condition: domain.ConditionUsed,
		Seller:    "Kofi Asante",
	}

	for _, opt := range opts {
		opt(o)
	}

	return domain.Product{
		ID:          o.ID,
		Title:       o.Title,
		Description: "Clean, lightly used, boxed.",
		Price:       o.Price,
		Category:    o.Category,
		Condition:   o.Condition,
		Location:    "Swedru",
		Slug:        o.ID,
		Seller:      &domain.SellerSummary{FullName: o.Seller},
		IsApproved:  true,
		CreatedAt:   time.Now(),
	}
}

// WithProductID sets the product ID
func WithProductID(id string) func(*ProductOptions) {
	return func(o *ProductOptions) { o.ID = id }
}

// WithProductTitle sets the product title
func WithProductTitle(title string) func(*ProductOptions) {
	return func(o *ProductOptions) { o.Title = title }
}

// WithProductCategory sets the product category
func WithProductCategory(category string) func(*ProductOptions) {
	return func(o *ProductOptions) { o.Category = category }
}

// NewTestProducts creates n distinct test products
func NewTestProducts(n int) []domain.Product {
	products := make([]domain.Product, 0, n)
	for i := 0; i < n; i++ {
		products = append(products, NewTestProduct())
	}
	return products
}
