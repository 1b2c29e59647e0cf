package reviewmodule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cinelog/cinelog/internal/api"
	"github.com/cinelog/cinelog/internal/auth"
	"github.com/cinelog/cinelog/internal/logger"
	"github.com/cinelog/cinelog/internal/middleware"
)

// Handler serves the review and watchlist HTTP endpoints.
type Handler struct {
	repo *Repository
}

// NewHandler creates a review handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func bindReviewInput(c *gin.Context) (ReviewInput, bool) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondWithValidationError(c, "invalid request format", err.Error())
		return ReviewInput{}, false
	}

	input := ReviewInput{Rating: req.Rating, Comment: req.Comment}
	if appErr := input.Validate(); appErr != nil {
		api.RespondWithError(c, appErr)
		return ReviewInput{}, false
	}
	return input, true
}

func paramID(c *gin.Context, name, resource string) (uint32, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		api.RespondWithNotFound(c, resource, c.Param(name))
		return 0, false
	}
	return uint32(id), true
}

// ListReviews handles GET /movies/:id/reviews, newest first.
func (h *Handler) ListReviews(c *gin.Context) {
	movieID, ok := paramID(c, "id", "movie")
	if !ok {
		return
	}

	reviews, err := h.repo.ListReviews(c.Request.Context(), movieID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			api.RespondWithNotFound(c, "movie", c.Param("id"))
			return
		}
		api.RespondWithInternalError(c, "failed to list reviews", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

// UpsertReview handles POST /movies/:id/reviews. Submitting a review for an
// already-reviewed movie updates the existing row; the owner is always the
// authenticated caller, never client-supplied.
func (h *Handler) UpsertReview(c *gin.Context) {
	movieID, ok := paramID(c, "id", "movie")
	if !ok {
		return
	}
	input, ok := bindReviewInput(c)
	if !ok {
		return
	}

	user := middleware.CurrentUser(c)
	review, created, err := h.repo.UpsertReview(c.Request.Context(), user.ID, movieID, input)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			api.RespondWithNotFound(c, "movie", c.Param("id"))
			return
		}
		api.RespondWithInternalError(c, "failed to save review", err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, review)
}

// GetReview handles GET /reviews/:id.
func (h *Handler) GetReview(c *gin.Context) {
	id, ok := paramID(c, "id", "review")
	if !ok {
		return
	}

	review, err := h.repo.GetReview(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			api.RespondWithNotFound(c, "review", c.Param("id"))
			return
		}
		api.RespondWithInternalError(c, "failed to load review", err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// UpdateReview handles PUT /reviews/:id. Only the owner may change a
// review's content.
func (h *Handler) UpdateReview(c *gin.Context) {
	id, ok := paramID(c, "id", "review")
	if !ok {
		return
	}

	review, err := h.repo.GetReview(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			api.RespondWithNotFound(c, "review", c.Param("id"))
			return
		}
		api.RespondWithInternalError(c, "failed to load review", err)
		return
	}

	if !auth.CanModifyReview(middleware.CurrentUser(c), review) {
		api.RespondWithForbidden(c, "only the review owner may edit it")
		return
	}

	input, ok := bindReviewInput(c)
	if !ok {
		return
	}
	if err := h.repo.UpdateReview(c.Request.Context(), review, input); err != nil {
		api.RespondWithInternalError(c, "failed to update review", err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// DeleteReview handles DELETE /reviews/:id. The owner and staff may delete.
func (h *Handler) DeleteReview(c *gin.Context) {
	id, ok := paramID(c, "id", "review")
	if !ok {
		return
	}

	review, err := h.repo.GetReview(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			api.RespondWithNotFound(c, "review", c.Param("id"))
			return
		}
		api.RespondWithInternalError(c, "failed to load review", err)
		return
	}

	user := middleware.CurrentUser(c)
	if !auth.CanDeleteReview(user, review) {
		api.RespondWithForbidden(c, "only the review owner or staff may delete it")
		return
	}

	if err := h.repo.DeleteReview(c.Request.Context(), id); err != nil {
		api.RespondWithInternalError(c, "failed to delete review", err)
		return
	}

	logger.Info("review deleted",
		logger.Uint("review_id", id),
		logger.Uint("deleted_by", user.ID),
	)
	c.JSON(http.StatusOK, gin.H{"message": "review deleted"})
}

// ToggleWatchlist handles POST /watchlist/:movieID/toggle. The response
// reports the resulting membership state.
func (h *Handler) ToggleWatchlist(c *gin.Context) {
	movieID, ok := paramID(c, "movieID", "movie")
	if !ok {
		return
	}

	user := middleware.CurrentUser(c)
	inWatchlist, err := h.repo.ToggleWatchlist(c.Request.Context(), user.ID, movieID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			api.RespondWithNotFound(c, "movie", c.Param("movieID"))
			return
		}
		api.RespondWithInternalError(c, "failed to toggle watchlist", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"movie_id":     movieID,
		"in_watchlist": inWatchlist,
	})
}

// GetWatchlist handles GET /watchlist for the authenticated user.
func (h *Handler) GetWatchlist(c *gin.Context) {
	user := middleware.CurrentUser(c)

	entries, err := h.repo.ListWatchlist(c.Request.Context(), user.ID)
	if err != nil {
		api.RespondWithInternalError(c, "failed to load watchlist", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"watchlist": entries,
		"count":     len(entries),
	})
}
