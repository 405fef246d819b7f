package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func testIssuer() *TokenIssuer {
	return NewTokenIssuer([]byte("test-secret"), "cuidartek-test", time.Hour)
}

func TestTokenIssuer_MintAndParse(t *testing.T) {
	issuer := testIssuer()
	uid := uuid.New()
	token, err := issuer.Mint(uid, RoleDoctor)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	actor, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if actor.ID != uid || actor.Role != RoleDoctor {
		t.Errorf("got actor %+v", actor)
	}
}

func TestTokenIssuer_RejectsWrongSecret(t *testing.T) {
	token, _ := testIssuer().Mint(uuid.New(), RolePatient)
	other := NewTokenIssuer([]byte("other-secret"), "cuidartek-test", time.Hour)
	if _, err := other.Parse(token); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestTokenIssuer_RejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer([]byte("test-secret"), "cuidartek-test", -time.Minute)
	token, _ := issuer.Mint(uuid.New(), RolePatient)
	if _, err := issuer.Parse(token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestMiddleware_SetsActor(t *testing.T) {
	issuer := testIssuer()
	uid := uuid.New()
	token, _ := issuer.Mint(uid, RolePatient)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := Middleware(issuer)(func(c echo.Context) error {
		actor := ActorFromContext(c.Request().Context())
		if actor.ID != uid || actor.Role != RolePatient {
			t.Errorf("actor not propagated: %+v", actor)
		}
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMiddleware_MissingHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	h := Middleware(testIssuer())(func(c echo.Context) error { return nil })
	err := h(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	run := func(actor Actor, roles ...Role) error {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithActor(req.Context(), actor))
		c := e.NewContext(req, httptest.NewRecorder())
		return RequireRole(roles...)(next)(c)
	}

	if err := run(Actor{ID: uuid.New(), Role: RoleDoctor}, RoleDoctor); err != nil {
		t.Errorf("doctor should pass doctor gate: %v", err)
	}
	if err := run(Actor{ID: uuid.New(), Role: RoleAdmin}, RoleDoctor); err != nil {
		t.Errorf("admin should pass every gate: %v", err)
	}
	err := run(Actor{ID: uuid.New(), Role: RolePatient}, RoleDoctor)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusForbidden {
		t.Errorf("patient should be rejected with 403, got %v", err)
	}
	// No actor on context fails closed.
	if err := run(Actor{}, RolePatient); err == nil {
		t.Error("zero actor should be rejected")
	}
}
