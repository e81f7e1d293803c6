// Package handler exposes the HTTP handlers of the venue directory API.
// This file covers the location browsing endpoints: listing with filtering
// and sorting, keyword search, detail with events, and per-user likes.
package handler

import (
	"errors"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/marcoyuen/culturemap/internal/repository"
)

// Reference point used by distance filtering and sorting when the client
// does not supply one (Central, Hong Kong).
const (
	defaultRefLat = 22.3
	defaultRefLng = 114.2
)

// LocationHandler aggregates the repositories backing the location routes.
type LocationHandler struct {
	Locations *repository.LocationRepo
	Events    *repository.EventRepo
	Likes     *repository.LikeRepo
}

func NewLocationHandler(loc *repository.LocationRepo, ev *repository.EventRepo, likes *repository.LikeRepo) *LocationHandler {
	return &LocationHandler{Locations: loc, Events: ev, Likes: likes}
}

// List returns the catalog, optionally filtered by keyword and distance and
// sorted by name, event count or distance to a reference point.  The
// catalog holds at most ten rows, so filtering in memory is cheaper than
// pushing the geometry into SQL.
func (h *LocationHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	locations, err := h.Locations.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	refLat := floatQuery(c, "lat", defaultRefLat)
	refLng := floatQuery(c, "lng", defaultRefLng)

	if keyword := c.QueryParam("keyword"); keyword != "" {
		locations = filterByKeyword(locations, keyword)
	}
	if d := c.QueryParam("distance"); d != "" {
		if km, err := strconv.ParseFloat(d, 64); err == nil {
			locations = filterByDistance(locations, km, refLat, refLng)
		}
	}
	sortLocations(locations, c.QueryParam("sort"), refLat, refLng)

	if locations == nil {
		locations = []repository.Location{}
	}
	return c.JSON(http.StatusOK, locations)
}

// Search matches a free-text query against name and description.
func (h *LocationHandler) Search(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "search query required"})
	}
	locations, err := h.Locations.Search(c.Request().Context(), q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if locations == nil {
		locations = []repository.Location{}
	}
	return c.JSON(http.StatusOK, locations)
}

// locationDetail is a location plus its events.
type locationDetail struct {
	repository.Location
	Events []repository.Event `json:"events"`
}

// Get returns one location together with all of its events.
func (h *LocationHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	loc, err := h.Locations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "location not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	events, err := h.Events.ListByLocation(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if events == nil {
		events = []repository.Event{}
	}
	return c.JSON(http.StatusOK, locationDetail{Location: loc, Events: events})
}

// Like records a like for the authenticated user.
func (h *LocationHandler) Like(c echo.Context) error {
	return likeLocation(c, c.Param("id"), h.Locations, h.Likes)
}

// Unlike removes the authenticated user's like.
func (h *LocationHandler) Unlike(c echo.Context) error {
	return unlikeLocation(c, c.Param("id"), h.Locations, h.Likes)
}

// LikeStatus reports whether the authenticated user has liked the location.
func (h *LocationHandler) LikeStatus(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	liked, err := h.Likes.Exists(c.Request().Context(), currentUserID(c), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"hasLiked": liked})
}

// ----- pure helpers, exercised directly by tests -----

func filterByKeyword(locations []repository.Location, keyword string) []repository.Location {
	keyword = strings.ToLower(keyword)
	out := locations[:0]
	for _, l := range locations {
		if strings.Contains(strings.ToLower(l.Name), keyword) {
			out = append(out, l)
		}
	}
	return out
}

// filterByDistance keeps locations within km kilometers of the reference
// point, using the same flat-earth approximation as the distance sort
// (1 degree ≈ 111 km).  Good enough at city scale.
func filterByDistance(locations []repository.Location, km, refLat, refLng float64) []repository.Location {
	maxDeg := km * 1000 / 111000
	out := locations[:0]
	for _, l := range locations {
		if math.Hypot(l.Latitude-refLat, l.Longitude-refLng) <= maxDeg {
			out = append(out, l)
		}
	}
	return out
}

func sortLocations(locations []repository.Location, mode string, refLat, refLng float64) {
	switch mode {
	case "distance":
		sort.SliceStable(locations, func(i, j int) bool {
			di := math.Hypot(locations[i].Latitude-refLat, locations[i].Longitude-refLng)
			dj := math.Hypot(locations[j].Latitude-refLat, locations[j].Longitude-refLng)
			return di < dj
		})
	case "events":
		sort.SliceStable(locations, func(i, j int) bool {
			return locations[i].EventCount > locations[j].EventCount
		})
	default: // name
		sort.SliceStable(locations, func(i, j int) bool {
			return strings.ToLower(locations[i].Name) < strings.ToLower(locations[j].Name)
		})
	}
}

func floatQuery(c echo.Context, name string, def float64) float64 {
	if v := c.QueryParam(name); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

// currentUserID reads the user id injected by the JWT middleware.
func currentUserID(c echo.Context) uint64 {
	if id, ok := c.Get("user_id").(uint64); ok {
		return id
	}
	return 0
}
