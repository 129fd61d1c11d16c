package domain

import "time"

// Product conditions accepted by the backend
const (
	ConditionNew  = "new"
	ConditionUsed = "used"
)

// Categories is the fixed category catalog of the marketplace
var Categories = []string{
	"phones",
	"laptops",
	"accessories",
	"fashions",
	"electronics",
	"others",
}

// ValidCategory reports whether key is part of the catalog
func ValidCategory(key string) bool {
	for _, c := range Categories {
		if c == key {
			return true
		}
	}
	return false
}

// Product is a single classified-ad record as returned by the backend.
// Products are backend-owned; the gateway never mutates them.
type Product struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Price       float64        `json:"price"`
	Images      []string       `json:"images"`
	Condition   string         `json:"condition"`
	Category    string         `json:"category"`
	Location    string         `json:"location"`
	Seller      *SellerSummary `json:"user,omitempty"`
	Slug        string         `json:"slug"`
	IsApproved  bool           `json:"isApproved"`
	CreatedAt   time.Time      `json:"createdAt"`

	// Gadget details, present only for phones and laptops
	Brand         string `json:"brand,omitempty"`
	Model         string `json:"model,omitempty"`
	RAM           string `json:"ram,omitempty"`
	Storage       string `json:"storage,omitempty"`
	BatteryHealth string `json:"batteryHealth,omitempty"`
}
