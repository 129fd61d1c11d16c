package domain

// User roles as reported by the backend. The gateway never decides roles,
// it only branches on the value it is told.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents the authenticated marketplace account
type User struct {
	ID              string `json:"id"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phoneNumber"`
	Role            string `json:"role"`
	PhotoURL        string `json:"photoUrl,omitempty"`
	IsTrustedSeller bool   `json:"isTrustedSeller"`
}

// FullName returns the display name for the user
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsAdmin reports whether the backend assigned the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// SellerSummary is the seller card attached to a product
type SellerSummary struct {
	FullName        string `json:"fullName"`
	Photo           string `json:"photo,omitempty"`
	IsTrustedSeller bool   `json:"isTrustedSeller"`
	PhoneNumber     string `json:"phoneNumber"`
}
