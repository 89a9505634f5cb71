package account

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hms/hms/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes wires the public user endpoints and the super-admin
// directory endpoints. The admin group is expected to carry the
// super_admin role check already.
func (h *Handler) RegisterRoutes(public, admin *echo.Group) {
	public.POST("/users/register", h.Register)
	public.POST("/users/login", h.Login)
	public.GET("/users", h.ListUsers)

	admin.POST("/doctors", h.CreateDoctor)
	admin.GET("/doctors", h.ListDoctors)
	admin.DELETE("/doctors/:id", h.DeleteDoctor)
	admin.POST("/patients", h.CreatePatient)
	admin.GET("/patients", h.ListPatients)
	admin.DELETE("/patients/:id", h.DeletePatient)
}

func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, ErrInvalid), errors.Is(err, ErrEmailTaken), errors.Is(err, ErrBadCredentials):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "something went wrong")
	}
}

func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	u, err := h.svc.Register(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, u)
}

func (h *Handler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	token, u, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  u,
	})
}

func (h *Handler) ListUsers(c echo.Context) error {
	role := c.QueryParam("role")
	if role == "" {
		role = RoleDoctor
	}
	pg := pagination.FromContext(c)
	users, total, err := h.svc.ListByRole(c.Request().Context(), role, pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(users, total, pg.Limit, pg.Offset))
}

func (h *Handler) CreateDoctor(c echo.Context) error {
	return h.createAccount(c, RoleDoctor)
}

func (h *Handler) CreatePatient(c echo.Context) error {
	return h.createAccount(c, RolePatient)
}

func (h *Handler) createAccount(c echo.Context, role string) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	u, err := h.svc.CreateAccount(c.Request().Context(), role, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, u)
}

func (h *Handler) ListDoctors(c echo.Context) error {
	return h.listAccounts(c, RoleDoctor)
}

func (h *Handler) ListPatients(c echo.Context) error {
	return h.listAccounts(c, RolePatient)
}

func (h *Handler) listAccounts(c echo.Context, role string) error {
	pg := pagination.FromContext(c)
	users, total, err := h.svc.ListByRole(c.Request().Context(), role, pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(users, total, pg.Limit, pg.Offset))
}

func (h *Handler) DeleteDoctor(c echo.Context) error {
	return h.deleteAccount(c, RoleDoctor)
}

func (h *Handler) DeletePatient(c echo.Context) error {
	return h.deleteAccount(c, RolePatient)
}

func (h *Handler) deleteAccount(c echo.Context, role string) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteAccount(c.Request().Context(), id, role); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "deleted"})
}
