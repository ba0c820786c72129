package visits

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/internal/platform/httperr"
	"github.com/hms/hms/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/visits", h.Create, auth.Require(auth.ResourceMedicalVisit, auth.ActionCreate))
	api.GET("/visits", h.List, auth.Require(auth.ResourceMedicalVisit, auth.ActionList))
	api.GET("/visits/:patientId", h.ListForPatient, auth.Require(auth.ResourceMedicalVisit, auth.ActionRead))
}

type createRequest struct {
	PatientID    string    `json:"patientId" validate:"required,uuid"`
	Diagnosis    string    `json:"diagnosis" validate:"required"`
	Prescription string    `json:"prescription" validate:"required"`
	Notes        string    `json:"notes"`
	VisitDate    time.Time `json:"visitDate"`
}

func (h *Handler) Create(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Conflict("Invalid request body")
	}
	if err := httperr.ValidateStruct(req); err != nil {
		return err
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return httperr.Conflict("Invalid patient id")
	}

	actor, _ := auth.ActorFromContext(c.Request().Context())
	d, err := h.svc.Create(c.Request().Context(), actor, CreateInput{
		PatientID:    patientID,
		Diagnosis:    req.Diagnosis,
		Prescription: req.Prescription,
		Notes:        req.Notes,
		VisitDate:    req.VisitDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) List(c echo.Context) error {
	actor, _ := auth.ActorFromContext(c.Request().Context())
	p := pagination.FromContext(c)

	visits, total, err := h.svc.List(c.Request().Context(), actor, p.Limit, p.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(visits, total, p.Limit, p.Offset))
}

func (h *Handler) ListForPatient(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		return httperr.Conflict("Invalid patient id")
	}

	actor, _ := auth.ActorFromContext(c.Request().Context())
	p := pagination.FromContext(c)

	visits, total, err := h.svc.ListForPatient(c.Request().Context(), actor, patientID, p.Limit, p.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(visits, total, p.Limit, p.Offset))
}
