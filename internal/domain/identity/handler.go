package identity

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/internal/platform/httperr"
	"github.com/hms/hms/pkg/pagination"
)

type Handler struct {
	svc    *Service
	tokens *auth.TokenIssuer
}

func NewHandler(svc *Service, tokens *auth.TokenIssuer) *Handler {
	return &Handler{svc: svc, tokens: tokens}
}

// RegisterRoutes mounts user management endpoints on the authenticated API
// group. Every route is admin-only per the policy matrix.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/users", h.Create, auth.Require(auth.ResourceUser, auth.ActionCreate))
	api.GET("/users", h.List, auth.Require(auth.ResourceUser, auth.ActionList))
	api.GET("/users/:id", h.Get, auth.Require(auth.ResourceUser, auth.ActionRead))
	api.PUT("/users/:id", h.Update, auth.Require(auth.ResourceUser, auth.ActionUpdate))
	api.DELETE("/users/:id", h.Delete, auth.Require(auth.ResourceUser, auth.ActionDelete))
}

// RegisterAuthRoutes mounts login on the public group and the current-user
// endpoint on the authenticated group.
func (h *Handler) RegisterAuthRoutes(public, authed *echo.Group) {
	public.POST("/auth/login", h.Login)
	authed.GET("/auth/me", h.Me)
}

type createRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=admin doctor receptionist patient"`
}

func (h *Handler) Create(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Conflict("Invalid request body")
	}
	if err := httperr.ValidateStruct(req); err != nil {
		return err
	}

	role, _ := auth.ParseRole(req.Role)
	u, err := h.svc.Create(c.Request().Context(), CreateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, u)
}

func (h *Handler) List(c echo.Context) error {
	p := pagination.FromContext(c)
	users, total, err := h.svc.List(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(users, total, p.Limit, p.Offset))
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Conflict("Invalid user id")
	}
	u, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

type updateRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1"`
	Email *string `json:"email" validate:"omitempty,email"`
	Role  *string `json:"role" validate:"omitempty,oneof=admin doctor receptionist patient"`
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Conflict("Invalid user id")
	}

	var req updateRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Conflict("Invalid request body")
	}
	if err := httperr.ValidateStruct(req); err != nil {
		return err
	}

	in := UpdateInput{Name: req.Name, Email: req.Email}
	if req.Role != nil {
		role, _ := auth.ParseRole(*req.Role)
		in.Role = &role
	}

	u, err := h.svc.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Conflict("Invalid user id")
	}

	actor, _ := auth.ActorFromContext(c.Request().Context())
	if err := h.svc.Delete(c.Request().Context(), actor, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "User removed"})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Conflict("Invalid request body")
	}
	if err := httperr.ValidateStruct(req); err != nil {
		return err
	}

	u, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	token, err := h.tokens.Issue(auth.Actor{ID: u.ID, Role: u.Role, Name: u.Name})
	if err != nil {
		return httperr.Internal(err)
	}
	return c.JSON(http.StatusOK, loginResponse{Token: token, User: u})
}

func (h *Handler) Me(c echo.Context) error {
	actor, ok := auth.ActorFromContext(c.Request().Context())
	if !ok {
		return httperr.Unauthorized("")
	}
	u, err := h.svc.Get(c.Request().Context(), actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}
