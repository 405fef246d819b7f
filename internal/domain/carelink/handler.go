package carelink

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/eduislas84/CuidarTek-Api/internal/platform/apperror"
	"github.com/eduislas84/CuidarTek-Api/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(g *echo.Group) {
	g.POST("/care-links", h.requestLink, auth.RequireRole(auth.RolePatient))
	g.POST("/care-links/:id/decision", h.decide, auth.RequireRole(auth.RoleDoctor))
	g.POST("/care-links/:id/end", h.end)
	g.DELETE("/care-links/:id", h.deleteLink, auth.RequireRole(auth.RoleAdmin))

	g.GET("/patients/:id/doctors", h.listPatientDoctors)
	g.GET("/doctors/:id/requests", h.listDoctorRequests, auth.RequireRole(auth.RoleDoctor))
	g.GET("/doctors/:id/patients", h.listDoctorPatients, auth.RequireRole(auth.RoleDoctor))
}

func (h *Handler) requestLink(c echo.Context) error {
	actor := auth.ActorFromContext(c.Request().Context())
	var in struct {
		PatientID uuid.UUID `json:"patient_id"`
		DoctorID  uuid.UUID `json:"doctor_id"`
		Notes     *string   `json:"notes"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if in.PatientID == uuid.Nil || in.DoctorID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "patient_id and doctor_id are required")
	}
	link, err := h.svc.RequestLink(c.Request().Context(), actor, in.PatientID, in.DoctorID, in.Notes)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, link)
}

func (h *Handler) decide(c echo.Context) error {
	actor := auth.ActorFromContext(c.Request().Context())
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid link id")
	}
	var in struct {
		Decision Decision `json:"decision"`
		Notes    *string  `json:"notes"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	link, err := h.svc.Decide(c.Request().Context(), actor, id, in.Decision, in.Notes)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, link)
}

func (h *Handler) end(c echo.Context) error {
	actor := auth.ActorFromContext(c.Request().Context())
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid link id")
	}
	link, err := h.svc.End(c.Request().Context(), actor, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, link)
}

func (h *Handler) deleteLink(c echo.Context) error {
	actor := auth.ActorFromContext(c.Request().Context())
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid link id")
	}
	if err := h.svc.DeleteRelationship(c.Request().Context(), actor, id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) listPatientDoctors(c echo.Context) error {
	actor := auth.ActorFromContext(c.Request().Context())
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	links, err := h.svc.ListActiveForPatient(c.Request().Context(), actor, patientID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, links)
}

func (h *Handler) listDoctorRequests(c echo.Context) error {
	actor := auth.ActorFromContext(c.Request().Context())
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	links, err := h.svc.ListPendingForDoctor(c.Request().Context(), actor, doctorID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, links)
}

func (h *Handler) listDoctorPatients(c echo.Context) error {
	actor := auth.ActorFromContext(c.Request().Context())
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	links, err := h.svc.ListActiveForDoctor(c.Request().Context(), actor, doctorID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, links)
}

func httpError(err error) error {
	return echo.NewHTTPError(apperror.HTTPStatus(err), err.Error())
}
