package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/RaymondAhuren/swedru-konnect/internal/domain"
	"github.com/RaymondAhuren/swedru-konnect/internal/session"
	"github.com/RaymondAhuren/swedru-konnect/internal/testutil"
)

type fakeSession struct {
	snap    session.Snapshot
	touches int
}

func (f *fakeSession) Snapshot() session.Snapshot { return f.snap }
func (f *fakeSession) Touch()                     { f.touches++ }

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestActivity_TouchesOnEveryRequest(t *testing.T) {
	sess := &fakeSession{}
	h := Activity(sess)(okHandler())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/listings", nil)
		h.ServeHTTP(httptest.NewRecorder(), req)
	}

	if sess.touches != 3 {
		t.Errorf("Expected 3 touches, got %d", sess.touches)
	}
}

func TestRequireAuth_Anonymous(t *testing.T) {
	sess := &fakeSession{snap: session.Snapshot{State: session.StateAnonymous}}
	h := RequireAuth(sess)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}

func TestRequireAuth_AttachesUser(t *testing.T) {
	user := testutil.NewTestUser()
	sess := &fakeSession{snap: session.Snapshot{
		State: session.StateAuthenticated,
		User:  user,
	}}

	var got *domain.User
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetUser(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	h := RequireAuth(sess)(inner)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if got == nil || got.ID != user.ID {
		t.Errorf("Expected user attached to context, got: %+v", got)
	}
}

func TestRequireRole_Matrix(t *testing.T) {
	admin := testutil.NewTestUser(testutil.WithUserRole(domain.RoleAdmin))
	regular := testutil.NewTestUser(testutil.WithUserRole(domain.RoleUser))

	cases := []struct {
		name     string
		user     *domain.User
		expected int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"regular user", regular, http.StatusForbidden},
		{"admin", admin, http.StatusOK},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			snap := session.Snapshot{State: session.StateAnonymous}
			if tt.user != nil {
				snap = session.Snapshot{State: session.StateAuthenticated, User: tt.user}
			}
			h := RequireRole(&fakeSession{snap: snap}, domain.RoleAdmin)(okHandler())

			req := httptest.NewRequest(http.MethodGet, "/api/v1/review/listings", nil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, rec.Code)
			}
		})
	}
}

func TestGetUser_MissingFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := GetUser(req.Context()); ok {
		t.Error("Expected no user on a bare context")
	}
}
