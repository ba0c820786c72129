package patients

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/domain/identity"
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
	api.POST("/patients", h.Onboard, auth.Require(auth.ResourcePatientRecord, auth.ActionCreate))
	api.GET("/patients", h.List, auth.Require(auth.ResourcePatientRecord, auth.ActionList))
	api.GET("/patients/:id", h.Get, auth.Require(auth.ResourcePatientRecord, auth.ActionRead))
	api.PUT("/patients/:id", h.Update, auth.Require(auth.ResourcePatientRecord, auth.ActionUpdate))
}

type onboardRequest struct {
	Name           string   `json:"name" validate:"required"`
	Email          string   `json:"email" validate:"required,email"`
	Password       string   `json:"password" validate:"required,min=6"`
	Age            *int     `json:"age" validate:"required,gte=0,lte=150"`
	Gender         string   `json:"gender" validate:"required,oneof=Male Female Other"`
	BloodGroup     string   `json:"bloodGroup" validate:"required,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	ContactNumber  string   `json:"contactNumber" validate:"required"`
	Address        string   `json:"address" validate:"required"`
	MedicalHistory []string `json:"medicalHistory"`
	Allergies      []string `json:"allergies"`
}

func (h *Handler) Onboard(c echo.Context) error {
	var req onboardRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Conflict("Invalid request body")
	}
	if err := httperr.ValidateStruct(req); err != nil {
		return err
	}

	user, rec, err := h.svc.Onboard(c.Request().Context(), OnboardInput{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		Age:            *req.Age,
		Gender:         req.Gender,
		BloodGroup:     req.BloodGroup,
		ContactNumber:  req.ContactNumber,
		Address:        req.Address,
		MedicalHistory: req.MedicalHistory,
		Allergies:      req.Allergies,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, onboardResponse{
		Message:       "Patient registered successfully",
		User:          user,
		PatientRecord: rec,
	})
}

// onboardResponse keeps the account and the record as separate keys. The
// user marshals without its password digest.
type onboardResponse struct {
	Message       string         `json:"message"`
	User          *identity.User `json:"user"`
	PatientRecord *PatientRecord `json:"patientRecord"`
}

func (h *Handler) List(c echo.Context) error {
	p := pagination.FromContext(c)
	records, total, err := h.svc.List(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(records, total, p.Limit, p.Offset))
}

func (h *Handler) Get(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Conflict("Invalid patient id")
	}

	actor, _ := auth.ActorFromContext(c.Request().Context())
	d, err := h.svc.Get(c.Request().Context(), actor, patientID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

type updateRequest struct {
	Age           *int    `json:"age" validate:"omitempty,gte=0,lte=150"`
	Gender        *string `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	BloodGroup    *string `json:"bloodGroup" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	ContactNumber *string `json:"contactNumber" validate:"omitempty,min=1"`
	Address       *string `json:"address" validate:"omitempty,min=1"`
}

func (h *Handler) Update(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Conflict("Invalid patient id")
	}

	var req updateRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Conflict("Invalid request body")
	}
	if err := httperr.ValidateStruct(req); err != nil {
		return err
	}

	d, err := h.svc.Update(c.Request().Context(), patientID, UpdateInput{
		Age:           req.Age,
		Gender:        req.Gender,
		BloodGroup:    req.BloodGroup,
		ContactNumber: req.ContactNumber,
		Address:       req.Address,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}
