package carelink

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/eduislas84/CuidarTek-Api/internal/platform/auth"
)

func newRequestContext(e *echo.Echo, actor auth.Actor, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req = req.WithContext(auth.WithActor(req.Context(), actor))
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandler_RequestLink(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	e := echo.New()

	body := fmt.Sprintf(`{"patient_id":%q,"doctor_id":%q}`, f.patientID, f.doctorActor.ID)
	c, rec := newRequestContext(e, f.patientActor, http.MethodPost, "/api/v1/care-links", body)

	if err := h.requestLink(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var link CareLink
	if err := json.Unmarshal(rec.Body.Bytes(), &link); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if link.Status != StatusPending {
		t.Errorf("expected pending status, got %s", link.Status)
	}
	if link.PatientID != f.patientID || link.DoctorID != f.doctorActor.ID {
		t.Error("response does not carry the requested pair")
	}
}

func TestHandler_RequestLink_MissingIDs(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	e := echo.New()

	c, _ := newRequestContext(e, f.patientActor, http.MethodPost, "/api/v1/care-links", `{}`)

	err := h.requestLink(c)
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", he.Code)
	}
}

func TestHandler_Decide_WrongDoctor(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	e := echo.New()

	link, err := f.svc.RequestLink(context.Background(), f.patientActor, f.patientID, f.doctorActor.ID, nil)
	if err != nil {
		t.Fatalf("request link: %v", err)
	}

	other := f.addDoctor("Dr. Paz")
	c, _ := newRequestContext(e, other, http.MethodPost, "/api/v1/care-links/"+link.ID.String()+"/decision", `{"decision":"approve"}`)
	c.SetParamNames("id")
	c.SetParamValues(link.ID.String())

	err = h.decide(c)
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if he.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", he.Code)
	}
}

func TestHandler_Decide_Approve(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	e := echo.New()

	link, err := f.svc.RequestLink(context.Background(), f.patientActor, f.patientID, f.doctorActor.ID, nil)
	if err != nil {
		t.Fatalf("request link: %v", err)
	}

	c, rec := newRequestContext(e, f.doctorActor, http.MethodPost, "/api/v1/care-links/"+link.ID.String()+"/decision", `{"decision":"approve"}`)
	c.SetParamNames("id")
	c.SetParamValues(link.ID.String())

	if err := h.decide(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var decided CareLink
	if err := json.Unmarshal(rec.Body.Bytes(), &decided); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if decided.Status != StatusActive {
		t.Errorf("expected active status, got %s", decided.Status)
	}
}

func TestHandler_End_BadID(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	e := echo.New()

	c, _ := newRequestContext(e, f.patientActor, http.MethodPost, "/api/v1/care-links/not-a-uuid/end", "")
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := h.end(c)
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", he.Code)
	}
}

func TestHandler_ListPatientDoctors_ForbiddenForStranger(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	e := echo.New()

	stranger := auth.Actor{ID: f.doctorActor.ID, Role: auth.RolePatient}
	c, _ := newRequestContext(e, stranger, http.MethodGet, "/api/v1/patients/"+f.patientID.String()+"/doctors", "")
	c.SetParamNames("id")
	c.SetParamValues(f.patientID.String())

	err := h.listPatientDoctors(c)
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if he.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", he.Code)
	}
}
