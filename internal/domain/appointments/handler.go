package appointments

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
	api.POST("/appointments", h.Create, auth.Require(auth.ResourceAppointment, auth.ActionCreate))
	api.GET("/appointments", h.List, auth.Require(auth.ResourceAppointment, auth.ActionList))
	api.GET("/appointments/:id", h.Get, auth.Require(auth.ResourceAppointment, auth.ActionRead))
	api.PUT("/appointments/:id", h.Update, auth.Require(auth.ResourceAppointment, auth.ActionUpdate))
	api.DELETE("/appointments/:id", h.Delete, auth.Require(auth.ResourceAppointment, auth.ActionDelete))
}

type createRequest struct {
	PatientID       string    `json:"patientId" validate:"required,uuid"`
	DoctorID        string    `json:"doctorId" validate:"required,uuid"`
	AppointmentDate time.Time `json:"appointmentDate" validate:"required"`
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
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return httperr.Conflict("Invalid doctor id")
	}

	actor, _ := auth.ActorFromContext(c.Request().Context())
	d, err := h.svc.Create(c.Request().Context(), actor, CreateInput{
		PatientID:       patientID,
		DoctorID:        doctorID,
		AppointmentDate: req.AppointmentDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) List(c echo.Context) error {
	actor, _ := auth.ActorFromContext(c.Request().Context())
	p := pagination.FromContext(c)

	appts, total, err := h.svc.List(c.Request().Context(), actor, p.Limit, p.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(appts, total, p.Limit, p.Offset))
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Conflict("Invalid appointment id")
	}

	actor, _ := auth.ActorFromContext(c.Request().Context())
	d, err := h.svc.Get(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

type updateRequest struct {
	Status string `json:"status" validate:"required,oneof=Scheduled Completed Cancelled"`
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Conflict("Invalid appointment id")
	}

	var req updateRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Conflict("Invalid request body")
	}
	if err := httperr.ValidateStruct(req); err != nil {
		return err
	}

	actor, _ := auth.ActorFromContext(c.Request().Context())
	d, err := h.svc.Update(c.Request().Context(), actor, id, Status(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Conflict("Invalid appointment id")
	}

	actor, _ := auth.ActorFromContext(c.Request().Context())
	if err := h.svc.Delete(c.Request().Context(), actor, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Appointment removed"})
}
