package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/marcoyuen/culturemap/internal/feed"
	"github.com/marcoyuen/culturemap/internal/repository"
)

// EventHandler serves event browsing plus the admin event CRUD.
type EventHandler struct {
	Events    *repository.EventRepo
	Locations *repository.LocationRepo
}

func NewEventHandler(ev *repository.EventRepo, loc *repository.LocationRepo) *EventHandler {
	return &EventHandler{Events: ev, Locations: loc}
}

// ByLocation lists all events of one location.
func (h *EventHandler) ByLocation(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("locationId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	events, err := h.Events.ListByLocation(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if events == nil {
		events = []repository.Event{}
	}
	return c.JSON(http.StatusOK, events)
}

// randomEvent is an event with its owning location attached.
type randomEvent struct {
	repository.Event
	Location repository.Location `json:"location"`
}

// Random picks one event at random for the "surprise me" page.
func (h *EventHandler) Random(c echo.Context) error {
	ev, loc, err := h.Events.Random(c.Request().Context())
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no events available"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, randomEvent{Event: ev, Location: loc})
}

type eventReq struct {
	LocationID  *uint64 `json:"locationId"`
	EventID     *string `json:"eventId"`
	Title       *string `json:"title"`
	Date        *string `json:"date"`
	Description *string `json:"description"`
	Presenter   *string `json:"presenter"`
	Price       *string `json:"price"`
	AgeLimit    *string `json:"ageLimit"`
	URL         *string `json:"url"`
}

// Create inserts an event on behalf of an admin.
func (h *EventHandler) Create(c echo.Context) error {
	var req eventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.LocationID == nil || req.Title == nil || *req.Title == "" || req.EventID == nil || *req.EventID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "location, title and eventId required"})
	}
	ctx := c.Request().Context()
	if _, err := h.Locations.GetByID(ctx, *req.LocationID); err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "location not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	ev := repository.Event{
		LocationID: *req.LocationID,
		EventID:    *req.EventID,
		Title:      *req.Title,
		Date:       strOr(req.Date, feed.DefaultDate),
		Price:      strOr(req.Price, feed.DefaultPrice),
		AgeLimit:   strOr(req.AgeLimit, feed.DefaultAgeLimit),
	}
	if req.Description != nil {
		ev.Description = *req.Description
	}
	if req.Presenter != nil {
		ev.Presenter = *req.Presenter
	}
	if req.URL != nil {
		ev.URL = *req.URL
	}
	if err := h.Events.Create(ctx, &ev); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, ev)
}

// Update applies the provided fields to an existing event.
func (h *EventHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req eventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx := c.Request().Context()
	ev, err := h.Events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	if req.LocationID != nil {
		ev.LocationID = *req.LocationID
	}
	if req.EventID != nil {
		ev.EventID = *req.EventID
	}
	if req.Title != nil {
		ev.Title = *req.Title
	}
	if req.Date != nil {
		ev.Date = *req.Date
	}
	if req.Description != nil {
		ev.Description = *req.Description
	}
	if req.Presenter != nil {
		ev.Presenter = *req.Presenter
	}
	if req.Price != nil {
		ev.Price = *req.Price
	}
	if req.AgeLimit != nil {
		ev.AgeLimit = *req.AgeLimit
	}
	if req.URL != nil {
		ev.URL = *req.URL
	}
	if err := h.Events.Update(ctx, &ev); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, ev)
}

// Delete removes one event.
func (h *EventHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Events.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Event deleted"})
}

func strOr(p *string, def string) string {
	if p != nil && *p != "" {
		return *p
	}
	return def
}
