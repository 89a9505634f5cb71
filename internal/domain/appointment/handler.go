package appointment

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/auth"
)

// Directory resolves user ids to display details for decorating
// appointment listings. Implemented by the account service via an
// adapter in cmd/hms-server.
type Directory interface {
	Lookup(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]DirectoryEntry, error)
}

// DirectoryEntry is the subset of a user record a listing needs.
type DirectoryEntry struct {
	Name           string
	Specialization string
}

type Handler struct {
	svc *Service
	dir Directory
}

func NewHandler(svc *Service, dir Directory) *Handler {
	return &Handler{svc: svc, dir: dir}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/appointments/available", h.AvailableSlots)
	api.GET("/appointments", h.List)
	api.POST("/appointments/book", h.Book, auth.RequireRole(auth.RolePatient))
	api.PATCH("/appointments/:id", h.UpdateStatus, auth.RequireRole(auth.RoleDoctor))
	api.DELETE("/appointments/:id", h.Delete, auth.RequireRole(auth.RoleSuperAdmin))
}

func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, ErrInvalid):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrSlotTaken):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "something went wrong")
	}
}

func callerID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "unknown caller")
	}
	return id, nil
}

func (h *Handler) AvailableSlots(c echo.Context) error {
	doctorID, err := uuid.Parse(c.QueryParam("doctor_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor_id")
	}
	date, err := time.Parse(time.RFC3339, c.QueryParam("date"))
	if err != nil {
		// Accept a bare calendar day as well.
		date, err = time.Parse("2006-01-02", c.QueryParam("date"))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date")
		}
	}

	slots, err := h.svc.AvailableSlots(c.Request().Context(), doctorID, date)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, slots)
}

func (h *Handler) Book(c echo.Context) error {
	var req struct {
		DoctorID string `json:"doctorId"`
		Slot     string `json:"slot"`
		Symptoms string `json:"symptoms"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	patientID, err := callerID(c)
	if err != nil {
		return err
	}
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctorId")
	}
	slot, err := time.Parse(time.RFC3339, req.Slot)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid slot")
	}

	a, err := h.svc.Book(c.Request().Context(), doctorID, patientID, slot, req.Symptoms)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) List(c echo.Context) error {
	caller, err := callerID(c)
	if err != nil {
		return err
	}
	role := auth.RoleFromContext(c.Request().Context())

	scope := c.QueryParam("scope")
	if scope == "" {
		scope = ScopeAll
	}

	appts, err := h.svc.List(c.Request().Context(), caller, role, scope)
	if err != nil {
		return httpError(err)
	}

	views, err := h.decorate(c.Request().Context(), appts)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, views)
}

// decorate joins each appointment with the counterpart party's display
// name (and the doctor's specialization).
func (h *Handler) decorate(ctx context.Context, appts []*Appointment) ([]*View, error) {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, a := range appts {
		for _, id := range []uuid.UUID{a.DoctorID, a.PatientID} {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	entries, err := h.dir.Lookup(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]*View, len(appts))
	for i, a := range appts {
		v := &View{Appointment: a}
		if e, ok := entries[a.DoctorID]; ok {
			v.DoctorName = e.Name
			v.DoctorSpecialization = e.Specialization
		}
		if e, ok := entries[a.PatientID]; ok {
			v.PatientName = e.Name
		}
		views[i] = v
	}
	return views, nil
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	caller, err := callerID(c)
	if err != nil {
		return err
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	a, err := h.svc.UpdateStatus(c.Request().Context(), id, caller, req.Status)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	role := auth.RoleFromContext(c.Request().Context())

	if err := h.svc.Delete(c.Request().Context(), id, role); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "appointment deleted"})
}
