package cataloguemodule

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cinelog/cinelog/internal/api"
	"github.com/cinelog/cinelog/internal/database"
	"github.com/cinelog/cinelog/internal/logger"
	"github.com/cinelog/cinelog/internal/storage"
	"github.com/cinelog/cinelog/internal/types"
)

// Handler serves the catalogue HTTP endpoints.
type Handler struct {
	repo    *Repository
	posters *storage.PosterStore
}

// NewHandler creates a catalogue handler. posters may be nil when poster
// storage is not configured.
func NewHandler(repo *Repository, posters *storage.PosterStore) *Handler {
	return &Handler{repo: repo, posters: posters}
}

// movieRequest is the JSON payload for creating or updating a movie.
type movieRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Actor        string `json:"actor"`
	Duration     int    `json:"duration"`
	DeliveryMode string `json:"delivery_mode"`
	Keywords     string `json:"keywords"`
	ReleaseDate  string `json:"release_date"` // YYYY-MM-DD
	IsFeatured   bool   `json:"is_featured"`
	IsTrending   bool   `json:"is_trending"`
}

func (req *movieRequest) toInput() (MovieInput, error) {
	releaseDate, err := time.Parse("2006-01-02", req.ReleaseDate)
	if err != nil {
		return MovieInput{}, err
	}
	return MovieInput{
		Name:         req.Name,
		Description:  req.Description,
		Actor:        req.Actor,
		Duration:     req.Duration,
		DeliveryMode: database.DeliveryMode(req.DeliveryMode),
		Keywords:     req.Keywords,
		ReleaseDate:  releaseDate,
		IsFeatured:   req.IsFeatured,
		IsTrending:   req.IsTrending,
	}, nil
}

// bindMovieInput parses and validates the movie payload, responding with
// field-level messages on failure.
func bindMovieInput(c *gin.Context) (MovieInput, bool) {
	var req movieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondWithValidationError(c, "invalid request format", err.Error())
		return MovieInput{}, false
	}

	input, err := req.toInput()
	if err != nil {
		api.RespondWithValidationError(c, "invalid movie data", "release_date must use YYYY-MM-DD format")
		return MovieInput{}, false
	}
	if appErr := input.Validate(); appErr != nil {
		api.RespondWithError(c, appErr)
		return MovieInput{}, false
	}
	return input, true
}

func posterStorageUnavailable() *types.AppError {
	return types.NewAppError(types.ErrorCodePosterStorage,
		"poster storage is not configured", http.StatusServiceUnavailable)
}

func movieID(c *gin.Context) (uint32, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		api.RespondWithNotFound(c, "movie", c.Param("id"))
		return 0, false
	}
	return uint32(id), true
}

// ListMovies handles GET /movies.
//
// Query parameters:
//   - search: free text over name, actor, keywords, description
//   - delivery_mode: THEATER or STREAMING
//   - min_rating: minimum average rating (malformed values are ignored)
//   - year_from, year_to: release-year range (malformed values are ignored)
//   - sort: newest, oldest, best_rated, worst_rated, most_reviewed, least_reviewed
//   - page: 1-based page number, 6 movies per page
func (h *Handler) ListMovies(c *gin.Context) {
	filters := ParseFilters(c.Request.URL.Query())

	movies, pagination, err := h.repo.ListMovies(c.Request.Context(), filters)
	if err != nil {
		api.RespondWithInternalError(c, "failed to list movies", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"movies":     movies,
		"pagination": pagination,
	})
}

// GetMovie handles GET /movies/:id, returning the movie with its profile
// and review aggregates.
func (h *Handler) GetMovie(c *gin.Context) {
	id, ok := movieID(c)
	if !ok {
		return
	}

	movie, err := h.repo.GetMovie(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			api.RespondWithNotFound(c, "movie", c.Param("id"))
			return
		}
		api.RespondWithInternalError(c, "failed to load movie", err)
		return
	}

	c.JSON(http.StatusOK, movie)
}

// CreateMovie handles POST /movies (staff only). The movie and its profile
// are created in one transaction and both are returned.
func (h *Handler) CreateMovie(c *gin.Context) {
	input, ok := bindMovieInput(c)
	if !ok {
		return
	}

	movie, profile, err := h.repo.CreateMovie(c.Request.Context(), input)
	if err != nil {
		api.RespondWithInternalError(c, "failed to create movie", err)
		return
	}

	logger.Info("movie created",
		logger.Uint("movie_id", movie.ID),
		logger.String("name", movie.Name),
	)
	movie.Profile = profile
	c.JSON(http.StatusCreated, movie)
}

// UpdateMovie handles PUT /movies/:id (staff only).
func (h *Handler) UpdateMovie(c *gin.Context) {
	id, ok := movieID(c)
	if !ok {
		return
	}
	input, ok := bindMovieInput(c)
	if !ok {
		return
	}

	movie, profile, err := h.repo.UpdateMovie(c.Request.Context(), id, input)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			api.RespondWithNotFound(c, "movie", c.Param("id"))
			return
		}
		api.RespondWithInternalError(c, "failed to update movie", err)
		return
	}

	movie.Profile = profile
	c.JSON(http.StatusOK, movie)
}

// DeleteMovie handles DELETE /movies/:id (staff only). The profile,
// reviews, and watchlist entries cascade; the poster object is removed
// best-effort afterwards.
func (h *Handler) DeleteMovie(c *gin.Context) {
	id, ok := movieID(c)
	if !ok {
		return
	}

	posterKey, err := h.repo.DeleteMovie(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			api.RespondWithNotFound(c, "movie", c.Param("id"))
			return
		}
		api.RespondWithInternalError(c, "failed to delete movie", err)
		return
	}

	if h.posters != nil && posterKey != "" {
		h.posters.Remove(c.Request.Context(), posterKey)
	}

	logger.Info("movie deleted", logger.Uint("movie_id", id))
	c.JSON(http.StatusOK, gin.H{"message": "movie deleted"})
}

// UploadPoster handles POST /movies/:id/poster (staff only, multipart form
// with a "poster" file). A previous poster object is deleted after the new
// key is recorded.
func (h *Handler) UploadPoster(c *gin.Context) {
	if h.posters == nil {
		api.RespondWithError(c, posterStorageUnavailable())
		return
	}

	id, ok := movieID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("poster")
	if err != nil {
		api.RespondWithValidationError(c, "poster file is required", err.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		api.RespondWithInternalError(c, "failed to read poster upload", err)
		return
	}
	defer file.Close()

	key := storage.ObjectKey(id, fileHeader.Filename)
	contentType := fileHeader.Header.Get("Content-Type")
	if err := h.posters.Put(c.Request.Context(), key, file, fileHeader.Size, contentType); err != nil {
		api.RespondWithInternalError(c, "failed to store poster", err)
		return
	}

	previous, err := h.repo.SetPoster(c.Request.Context(), id, key)
	if err != nil {
		h.posters.Remove(c.Request.Context(), key)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			api.RespondWithNotFound(c, "movie", c.Param("id"))
			return
		}
		api.RespondWithInternalError(c, "failed to record poster", err)
		return
	}
	if previous != "" && previous != key {
		h.posters.Remove(c.Request.Context(), previous)
	}

	c.JSON(http.StatusOK, gin.H{"poster_path": key})
}
