package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eduislas84/CuidarTek-Api/internal/platform/auth"
)

func TestRequestID_GeneratesNew(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := RequestID()(func(c echo.Context) error {
		rid, _ := c.Get("request_id").(string)
		if rid == "" {
			t.Error("expected request_id to be generated")
		}
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("expected X-Request-ID response header")
	}
}

func TestRequestID_PreservesExisting(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-custom")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := RequestID()(func(c echo.Context) error {
		if rid, _ := c.Get("request_id").(string); rid != "req-custom" {
			t.Errorf("expected req-custom, got %s", rid)
		}
		return c.NoContent(http.StatusOK)
	})
	h(c)
	if got := rec.Header().Get(RequestIDHeader); got != "req-custom" {
		t.Errorf("expected req-custom in response header, got %s", got)
	}
}

func TestLogger_IncludesActor(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	actor := auth.Actor{ID: uuid.New(), Role: auth.RolePatient}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/messages", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	h := Logger(logger)(func(c echo.Context) error {
		// The auth middleware swaps the request context in the same way.
		c.SetRequest(c.Request().WithContext(auth.WithActor(c.Request().Context(), actor)))
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if line["user_id"] != actor.ID.String() {
		t.Errorf("user_id: got %v", line["user_id"])
	}
	if line["role"] != "patient" {
		t.Errorf("role: got %v", line["role"])
	}
}

func TestLogger_AnonymousRequestOmitsActor(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), httptest.NewRecorder())
	h := Logger(logger)(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if _, ok := line["user_id"]; ok {
		t.Error("anonymous request should not log a user_id")
	}
}

func TestRecovery_ConvertsPanic(t *testing.T) {
	logger := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	h := Recovery(logger)(func(c echo.Context) error {
		panic("boom")
	})
	err := h(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 HTTPError, got %v", err)
	}
}

func TestAudit_RecordsAPIAccess(t *testing.T) {
	logger := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	actor := auth.Actor{ID: uuid.New(), Role: auth.RoleDoctor}

	var recorded []AccessEntry
	recorder := AccessRecorderFunc(func(entry AccessEntry) error {
		recorded = append(recorded, entry)
		return nil
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients/abc", nil)
	req = req.WithContext(auth.WithActor(req.Context(), actor))
	c := e.NewContext(req, httptest.NewRecorder())
	c.Set("request_id", "req-abc")

	h := Audit(logger, recorder)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(recorded) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(recorded))
	}
	entry := recorded[0]
	if entry.UserID != actor.ID.String() {
		t.Errorf("user id: got %s", entry.UserID)
	}
	if entry.Role != "doctor" || entry.Action != "read" || entry.Resource != "patients" {
		t.Errorf("unexpected entry: %+v", entry)
	}
	if entry.RequestID != "req-abc" {
		t.Errorf("request id: got %s", entry.RequestID)
	}
}

func TestAudit_SkipsNonAPIPaths(t *testing.T) {
	logger := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	called := false
	recorder := AccessRecorderFunc(func(AccessEntry) error {
		called = true
		return nil
	})

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), httptest.NewRecorder())
	h := Audit(logger, recorder)(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	h(c)
	if called {
		t.Error("health endpoint should not be audited")
	}
}

func TestAudit_RecorderFailureDoesNotFailRequest(t *testing.T) {
	logger := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	recorder := AccessRecorderFunc(func(AccessEntry) error {
		return fmt.Errorf("store down")
	})

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil), httptest.NewRecorder())
	h := Audit(logger, recorder)(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	if err := h(c); err != nil {
		t.Fatalf("recorder failure must not fail the request: %v", err)
	}
}

func TestMethodToAction(t *testing.T) {
	cases := map[string]string{
		http.MethodGet:    "read",
		http.MethodPost:   "create",
		http.MethodPut:    "update",
		http.MethodPatch:  "update",
		http.MethodDelete: "delete",
	}
	for method, want := range cases {
		if got := methodToAction(method); got != want {
			t.Errorf("%s: got %s, want %s", method, got, want)
		}
	}
}
