package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rdua-dev/sadhana-tracker/internal/models"
)

// MockUserRepo satisfies UserRepository for role checks
type MockUserRepo struct {
	user *models.User
	err  error
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return m.user, m.err
}

func nextRecorder(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddleware_MissingToken(t *testing.T) {
	tm := newTestTokenManager()

	req := httptest.NewRequest("GET", "/sadhna/get-sadhna", nil)
	w := httptest.NewRecorder()

	nextCalled := false
	Middleware(tm)(nextRecorder(&nextCalled)).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if nextCalled {
		t.Errorf("expected next handler not to be called")
	}
}

func TestMiddleware_BearerToken(t *testing.T) {
	tm := newTestTokenManager()
	token, err := tm.GenerateSessionToken("user-123")
	if err != nil {
		t.Fatalf("unexpected error generating token: %v", err)
	}

	req := httptest.NewRequest("GET", "/sadhna/get-sadhna", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	var gotClaims *models.TokenClaims
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims = GetUserFromContext(r)
		w.WriteHeader(http.StatusOK)
	})

	Middleware(tm)(handler).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotClaims == nil || gotClaims.UserID != "user-123" {
		t.Errorf("expected claims for user-123 in context, got %+v", gotClaims)
	}
}

func TestMiddleware_RawTokenHeader(t *testing.T) {
	tm := newTestTokenManager()
	token, err := tm.GenerateSessionToken("user-123")
	if err != nil {
		t.Fatalf("unexpected error generating token: %v", err)
	}

	req := httptest.NewRequest("GET", "/sadhna/get-sadhna", nil)
	req.Header.Set("Authorization", token)
	w := httptest.NewRecorder()

	nextCalled := false
	Middleware(tm)(nextRecorder(&nextCalled)).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for schemeless token, got %d", w.Code)
	}
	if !nextCalled {
		t.Errorf("expected next handler to be called")
	}
}

func TestMiddleware_CookieToken(t *testing.T) {
	tm := newTestTokenManager()
	token, err := tm.GenerateSessionToken("user-456")
	if err != nil {
		t.Fatalf("unexpected error generating token: %v", err)
	}

	req := httptest.NewRequest("GET", "/sadhna/get-sadhna", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: token})
	w := httptest.NewRecorder()

	nextCalled := false
	Middleware(tm)(nextRecorder(&nextCalled)).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200 via cookie token, got %d", w.Code)
	}
	if !nextCalled {
		t.Errorf("expected next handler to be called")
	}
}

func TestMiddleware_MalformedAuthorizationHeader(t *testing.T) {
	tm := newTestTokenManager()

	req := httptest.NewRequest("GET", "/sadhna/get-sadhna", nil)
	req.Header.Set("Authorization", "Token abc123")
	w := httptest.NewRecorder()

	nextCalled := false
	Middleware(tm)(nextRecorder(&nextCalled)).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for malformed header, got %d", w.Code)
	}
}

func TestRequireRoles_AllowsMatchingRole(t *testing.T) {
	tm := newTestTokenManager()
	repo := &MockUserRepo{user: &models.User{ID: "user-123", Role: models.RoleAdmin}}

	token, _ := tm.GenerateSessionToken("user-123")
	req := httptest.NewRequest("GET", "/user/getAllUsers", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	nextCalled := false
	chain := Middleware(tm)(RequireRoles(repo, models.RoleAdmin, models.RoleSuperadmin)(nextRecorder(&nextCalled)))
	chain.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for admin, got %d", w.Code)
	}
	if !nextCalled {
		t.Errorf("expected next handler to be called")
	}
}

func TestRequireRoles_ForbidsOtherRole(t *testing.T) {
	tm := newTestTokenManager()
	repo := &MockUserRepo{user: &models.User{ID: "user-123", Role: models.RoleUser}}

	token, _ := tm.GenerateSessionToken("user-123")
	req := httptest.NewRequest("GET", "/user/getAllUsers", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	nextCalled := false
	chain := Middleware(tm)(RequireRoles(repo, models.RoleAdmin, models.RoleSuperadmin)(nextRecorder(&nextCalled)))
	chain.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for plain user, got %d", w.Code)
	}
	if nextCalled {
		t.Errorf("expected next handler not to be called")
	}
}

func TestRequireRoles_UserDeleted(t *testing.T) {
	tm := newTestTokenManager()
	repo := &MockUserRepo{err: models.ErrNotFound}

	token, _ := tm.GenerateSessionToken("user-gone")
	req := httptest.NewRequest("GET", "/user/getAllUsers", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	nextCalled := false
	chain := Middleware(tm)(RequireRoles(repo, models.RoleAdmin)(nextRecorder(&nextCalled)))
	chain.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 when user no longer exists, got %d", w.Code)
	}
}

func TestAuthCookie_SetAndClear(t *testing.T) {
	w := httptest.NewRecorder()
	SetAuthCookie(w, "token-value", 10*24*time.Hour, CookieConfig{Secure: true, SameSite: "strict"})

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != AuthCookieName || c.Value != "token-value" {
		t.Errorf("unexpected cookie %s=%s", c.Name, c.Value)
	}
	if !c.HttpOnly || !c.Secure {
		t.Errorf("expected httpOnly secure cookie")
	}

	w = httptest.NewRecorder()
	ClearAuthCookie(w, CookieConfig{Secure: true, SameSite: "strict"})
	cookies = w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge != -1 {
		t.Errorf("expected clearing cookie with MaxAge -1")
	}
}
