package handler

// The like endpoints exist twice in the public API for historical reasons:
// under /api/locations/:id/like and under /api/likes/:locationId.  Both
// route sets share the helpers below.

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/marcoyuen/culturemap/internal/repository"
)

// LikeHandler serves the /api/likes route set.
type LikeHandler struct {
	Locations *repository.LocationRepo
	Likes     *repository.LikeRepo
}

func NewLikeHandler(loc *repository.LocationRepo, likes *repository.LikeRepo) *LikeHandler {
	return &LikeHandler{Locations: loc, Likes: likes}
}

func (h *LikeHandler) Like(c echo.Context) error {
	return likeLocation(c, c.Param("locationId"), h.Locations, h.Likes)
}

func (h *LikeHandler) Unlike(c echo.Context) error {
	return unlikeLocation(c, c.Param("locationId"), h.Locations, h.Likes)
}

func (h *LikeHandler) Check(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("locationId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	liked, err := h.Likes.Exists(c.Request().Context(), currentUserID(c), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"isLiked": liked})
}

func likeLocation(c echo.Context, param string, locations *repository.LocationRepo, likes *repository.LikeRepo) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseUint(param, 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := locations.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "location not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := likes.Create(ctx, currentUserID(c), id); err != nil {
		if errors.Is(err, repository.ErrAlreadyLiked) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "already liked"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	count, err := locations.AdjustFavoriteCount(ctx, id, 1)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "favoriteCount": count})
}

func unlikeLocation(c echo.Context, param string, locations *repository.LocationRepo, likes *repository.LikeRepo) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseUint(param, 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := locations.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "location not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := likes.Delete(ctx, currentUserID(c), id); err != nil {
		if errors.Is(err, repository.ErrLikeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "like not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	count, err := locations.AdjustFavoriteCount(ctx, id, -1)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "favoriteCount": count})
}
