package handler

// Admin surface: user management, manual location management and dashboard
// stats.  Every route here sits behind JWTAuth plus RequireRole("admin").

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/marcoyuen/culturemap/internal/config"
	"github.com/marcoyuen/culturemap/internal/repository"
	"github.com/marcoyuen/culturemap/internal/utils"
)

type AdminHandler struct {
	Cfg       config.Config
	Users     *repository.UserRepo
	Locations *repository.LocationRepo
	Events    *repository.EventRepo
}

func NewAdminHandler(cfg config.Config, u *repository.UserRepo, loc *repository.LocationRepo, ev *repository.EventRepo) *AdminHandler {
	return &AdminHandler{Cfg: cfg, Users: u, Locations: loc, Events: ev}
}

// adminUser is a user record with the password hash stripped.
type adminUser struct {
	ID        uint64    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func toAdminUser(u repository.User) adminUser {
	return adminUser{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt}
}

// ListUsers returns all accounts without password hashes.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.Users.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]adminUser, 0, len(users))
	for _, u := range users {
		out = append(out, toAdminUser(u))
	}
	return c.JSON(http.StatusOK, out)
}

type adminUserReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// CreateUser creates an account with an arbitrary role.
func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req adminUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password required"})
	}
	if req.Role == "" {
		req.Role = "user"
	}
	id, err := h.Users.Create(c.Request().Context(), req.Username, req.Email, req.Password, req.Role, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "user already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, adminUser{ID: id, Username: req.Username, Email: req.Email, Role: req.Role})
}

// UpdateUser applies the non-empty fields; a new password is re-hashed.
func (h *AdminHandler) UpdateUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req adminUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	hash := ""
	if req.Password != "" {
		hash, err = utils.HashPassword(req.Password, h.Cfg.BcryptCost)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash error"})
		}
	}
	ctx := c.Request().Context()
	if err := h.Users.Update(ctx, id, req.Username, req.Role, hash); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		case errors.Is(err, repository.ErrUsernameExists):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "user already exists"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toAdminUser(u))
}

// DeleteUser removes an account.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Users.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "User deleted"})
}

// ListLocations returns every location, unfiltered.
func (h *AdminHandler) ListLocations(c echo.Context) error {
	locations, err := h.Locations.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if locations == nil {
		locations = []repository.Location{}
	}
	return c.JSON(http.StatusOK, locations)
}

type adminLocationReq struct {
	VenueID     *string  `json:"venueId"`
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// CreateLocation inserts a manually curated location.
func (h *AdminHandler) CreateLocation(c echo.Context) error {
	var req adminLocationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.VenueID == nil || *req.VenueID == "" || req.Name == nil || *req.Name == "" ||
		req.Latitude == nil || req.Longitude == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "all required fields must be provided"})
	}
	loc := repository.Location{
		VenueID:   *req.VenueID,
		Name:      *req.Name,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
	}
	if req.Description != nil {
		loc.Description = *req.Description
	}
	if err := h.Locations.Create(c.Request().Context(), &loc); err != nil {
		if errors.Is(err, repository.ErrVenueExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "venue id already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, loc)
}

// UpdateLocation applies the provided fields to an existing location.
func (h *AdminHandler) UpdateLocation(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req adminLocationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx := c.Request().Context()
	loc, err := h.Locations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "location not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if req.VenueID != nil {
		loc.VenueID = *req.VenueID
	}
	if req.Name != nil {
		loc.Name = *req.Name
	}
	if req.Description != nil {
		loc.Description = *req.Description
	}
	if req.Latitude != nil {
		loc.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		loc.Longitude = *req.Longitude
	}
	if err := h.Locations.Update(ctx, &loc); err != nil {
		if errors.Is(err, repository.ErrVenueExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "venue id already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, loc)
}

// DeleteLocation removes a location and, through the FK cascade, all of its
// events.
func (h *AdminHandler) DeleteLocation(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Locations.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "location not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Location and associated events deleted"})
}

// Stats summarizes catalog sizes for the dashboard.
func (h *AdminHandler) Stats(c echo.Context) error {
	ctx := c.Request().Context()
	users, err := h.Users.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	locations, err := h.Locations.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	events, err := h.Events.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"users":       users,
		"locations":   locations,
		"events":      events,
		"lastUpdated": time.Now().UTC(),
	})
}
