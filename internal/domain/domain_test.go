package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestUser_FullName(t *testing.T) {
	cases := []struct {
		first, last, want string
	}{
		{"Ama", "Mensah", "Ama Mensah"},
		{"Ama", "", "Ama"},
		{"", "Mensah", "Mensah"},
		{"", "", ""},
	}
	for _, tt := range cases {
		u := User{FirstName: tt.first, LastName: tt.last}
		if got := u.FullName(); got != tt.want {
			t.Errorf("FullName(%q, %q) = %q, want %q", tt.first, tt.last, got, tt.want)
		}
	}
}

func TestUser_IsAdmin(t *testing.T) {
	regular := User{Role: RoleUser}
	if regular.IsAdmin() {
		t.Error("Regular user must not be admin")
	}
	admin := User{Role: RoleAdmin}
	if !admin.IsAdmin() {
		t.Error("Admin role must be admin")
	}
}

func TestValidCategory(t *testing.T) {
	for _, c := range Categories {
		if !ValidCategory(c) {
			t.Errorf("Expected %q to be valid", c)
		}
	}
	if ValidCategory("spaceships") {
		t.Error("Expected unknown category rejected")
	}
	if ValidCategory("") {
		t.Error("Expected empty category rejected")
	}
}

func TestFilters_Active(t *testing.T) {
	if (Filters{}).Active() {
		t.Error("Empty filters must be inactive")
	}
	if (Filters{Search: "   "}).Active() {
		t.Error("Whitespace search must be inactive")
	}
	if !(Filters{Search: "galaxy"}).Active() {
		t.Error("Search filter must be active")
	}
	if !(Filters{Category: "phones"}).Active() {
		t.Error("Category filter must be active")
	}
	if !(Filters{IsApproved: "false"}).Active() {
		t.Error("Approval filter must be active")
	}
}

func TestFilters_CategorySet(t *testing.T) {
	f := Filters{Category: "phones, laptops ,,accessories"}
	got := f.CategorySet()
	want := []string{"phones", "laptops", "accessories"}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, got)
			break
		}
	}

	if (Filters{}).CategorySet() != nil {
		t.Error("Empty category must yield nil set")
	}
}

func TestFilterPatch_Apply(t *testing.T) {
	search := "galaxy"
	empty := ""

	f := Filters{Search: "old", Category: "phones", Condition: "used"}
	FilterPatch{Search: &search, Condition: &empty}.Apply(&f)

	if f.Search != "galaxy" {
		t.Errorf("Expected search replaced, got %q", f.Search)
	}
	if f.Category != "phones" {
		t.Errorf("Expected nil field untouched, got %q", f.Category)
	}
	if f.Condition != "" {
		t.Errorf("Expected explicit empty to clear, got %q", f.Condition)
	}
}

type expiredErr struct{ expired bool }

func (e *expiredErr) Error() string     { return "backend said no" }
func (e *expiredErr) AuthExpired() bool { return e.expired }

func TestIsAuthExpired(t *testing.T) {
	if IsAuthExpired(nil) {
		t.Error("nil error must not be expired")
	}
	if !IsAuthExpired(ErrSessionExpired) {
		t.Error("ErrSessionExpired must classify as expired")
	}
	if !IsAuthExpired(fmt.Errorf("wrapped: %w", ErrSessionExpired)) {
		t.Error("Wrapped sentinel must classify as expired")
	}
	if !IsAuthExpired(&expiredErr{expired: true}) {
		t.Error("Capability errors must classify as expired")
	}
	if IsAuthExpired(&expiredErr{expired: false}) {
		t.Error("Capability returning false must not classify as expired")
	}
	if IsAuthExpired(errors.New("timeout")) {
		t.Error("Plain errors must not classify as expired")
	}
}

type msgErr struct{ msg string }

func (e *msgErr) Error() string          { return "boom" }
func (e *msgErr) BackendMessage() string { return e.msg }

func TestErrorMessage(t *testing.T) {
	if got := ErrorMessage(&msgErr{msg: "Invalid credentials"}, "fallback"); got != "Invalid credentials" {
		t.Errorf("Expected backend message, got %q", got)
	}
	if got := ErrorMessage(&msgErr{}, "fallback"); got != "fallback" {
		t.Errorf("Expected fallback for empty message, got %q", got)
	}
	if got := ErrorMessage(errors.New("boom"), "fallback"); got != "fallback" {
		t.Errorf("Expected fallback for plain errors, got %q", got)
	}
}
