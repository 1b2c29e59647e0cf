package cataloguemodule

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/cinelog/cinelog/internal/database"
	"github.com/cinelog/cinelog/internal/types"
)

// avgRatingExpr computes a movie's average rating rounded to one decimal
// place, reporting 0 for movies with no reviews.
const avgRatingExpr = "COALESCE(ROUND(AVG(reviews.rating), 1), 0)"

// MovieSummary is a movie annotated with its review aggregates.
type MovieSummary struct {
	database.Movie
	AvgRating   float64 `json:"avg_rating"`
	ReviewCount int64   `json:"review_count"`
}

// Pagination describes the page of results returned by ListMovies.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
	Total      int64 `json:"total"`
}

// MovieInput carries validated fields for creating or updating a movie and
// its profile.
type MovieInput struct {
	Name         string
	Description  string
	Actor        string
	Duration     int
	DeliveryMode database.DeliveryMode
	Keywords     string
	ReleaseDate  time.Time
	IsFeatured   bool
	IsTrending   bool
}

// Validate applies the catalog's input rules, collecting field-level
// messages. It normalizes the delivery mode to upper case.
func (in *MovieInput) Validate() *types.AppError {
	var err *types.AppError
	fail := func(field, message string) {
		if err == nil {
			err = types.NewValidationError("invalid movie data")
		}
		err.WithField(field, message)
	}

	if strings.TrimSpace(in.Name) == "" {
		fail("name", "movie name cannot be blank")
	}
	if in.Duration <= 0 {
		fail("duration", "duration must be greater than 0 minutes")
	}
	in.DeliveryMode = database.DeliveryMode(strings.ToUpper(string(in.DeliveryMode)))
	if !in.DeliveryMode.Valid() {
		fail("delivery_mode", "delivery mode must be either THEATER or STREAMING")
	}
	if in.ReleaseDate.After(endOfToday()) {
		fail("release_date", "release date cannot be in the future")
	}
	return err
}

func endOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
}

// Repository provides catalog persistence over gorm.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a catalog repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// aggregated builds the annotated movie query: movies joined with review
// aggregates, filtered but not yet ordered or paginated.
func (r *Repository) aggregated(f MovieFilters) *gorm.DB {
	q := r.db.Model(&database.Movie{}).
		Select("movies.*, "+avgRatingExpr+" AS avg_rating, COUNT(reviews.id) AS review_count").
		Joins("LEFT JOIN reviews ON reviews.movie_id = movies.id").
		Group("movies.id")

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where(
			"movies.name LIKE ? OR movies.actor LIKE ? OR movies.keywords LIKE ? OR movies.description LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	if f.DeliveryMode != "" {
		q = q.Where("movies.delivery_mode = ?", f.DeliveryMode)
	}
	// Year bounds use date comparisons so the query stays portable across
	// sqlite and postgres.
	if f.YearFrom != nil {
		q = q.Where("movies.release_date >= ?", time.Date(*f.YearFrom, 1, 1, 0, 0, 0, 0, time.UTC))
	}
	if f.YearTo != nil {
		q = q.Where("movies.release_date < ?", time.Date(*f.YearTo+1, 1, 1, 0, 0, 0, 0, time.UTC))
	}
	if f.MinRating != nil {
		q = q.Having(avgRatingExpr+" >= ?", *f.MinRating)
	}
	return q
}

// orderClause maps a sort key to a deterministic ORDER BY. All rating and
// review-count sorts tie-break by review count descending, then by id;
// newest/oldest order by release date alone.
func orderClause(sort string) string {
	switch sort {
	case SortOldest:
		return "movies.release_date ASC"
	case SortBestRated:
		return "avg_rating DESC, review_count DESC, movies.id ASC"
	case SortWorstRated:
		return "avg_rating ASC, review_count DESC, movies.id ASC"
	case SortMostReviewed:
		return "review_count DESC, movies.id ASC"
	case SortLeastReviewed:
		return "review_count ASC, movies.id ASC"
	default:
		return "movies.release_date DESC"
	}
}

// ListMovies returns one page of annotated, filtered, sorted movies.
func (r *Repository) ListMovies(ctx context.Context, f MovieFilters) ([]MovieSummary, Pagination, error) {
	base := r.aggregated(f).WithContext(ctx)

	var total int64
	if err := r.db.WithContext(ctx).Table("(?) AS filtered", base.Session(&gorm.Session{})).Count(&total).Error; err != nil {
		return nil, Pagination{}, fmt.Errorf("failed to count movies: %w", err)
	}

	page := f.Page
	if page < 1 {
		page = 1
	}

	var movies []MovieSummary
	err := base.
		Order(orderClause(f.Sort)).
		Limit(PageSize).
		Offset((page - 1) * PageSize).
		Scan(&movies).Error
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("failed to list movies: %w", err)
	}

	totalPages := int((total + PageSize - 1) / PageSize)
	return movies, Pagination{
		Page:       page,
		PageSize:   PageSize,
		TotalPages: totalPages,
		Total:      total,
	}, nil
}

// GetMovie returns one movie with aggregates and its profile.
func (r *Repository) GetMovie(ctx context.Context, id uint32) (*MovieSummary, error) {
	var movie MovieSummary
	result := r.aggregated(MovieFilters{}).WithContext(ctx).
		Where("movies.id = ?", id).
		Scan(&movie)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to load movie %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var profile database.MovieProfile
	if err := r.db.WithContext(ctx).Where("movie_id = ?", id).First(&profile).Error; err == nil {
		movie.Profile = &profile
	}
	return &movie, nil
}

// CreateMovie inserts a movie and its profile in one transaction; a failure
// after the movie write rolls back both.
func (r *Repository) CreateMovie(ctx context.Context, in MovieInput) (*database.Movie, *database.MovieProfile, error) {
	movie := &database.Movie{
		Name:         in.Name,
		Description:  in.Description,
		Actor:        in.Actor,
		Duration:     in.Duration,
		DeliveryMode: in.DeliveryMode,
		Keywords:     in.Keywords,
		ReleaseDate:  in.ReleaseDate,
	}
	var profile *database.MovieProfile

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(movie).Error; err != nil {
			return err
		}
		profile = &database.MovieProfile{
			MovieID:    movie.ID,
			IsFeatured: in.IsFeatured,
			IsTrending: in.IsTrending,
		}
		return tx.Create(profile).Error
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create movie: %w", err)
	}
	return movie, profile, nil
}

// UpdateMovie updates a movie and its profile flags in one transaction.
func (r *Repository) UpdateMovie(ctx context.Context, id uint32, in MovieInput) (*database.Movie, *database.MovieProfile, error) {
	var movie database.Movie
	var profile database.MovieProfile

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&movie, id).Error; err != nil {
			return err
		}

		movie.Name = in.Name
		movie.Description = in.Description
		movie.Actor = in.Actor
		movie.Duration = in.Duration
		movie.DeliveryMode = in.DeliveryMode
		movie.Keywords = in.Keywords
		movie.ReleaseDate = in.ReleaseDate
		if err := tx.Save(&movie).Error; err != nil {
			return err
		}

		// Movies always own a profile; recreate it if a migration ever
		// left one behind.
		if err := tx.Where("movie_id = ?", id).First(&profile).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			profile = database.MovieProfile{MovieID: id}
		}
		profile.IsFeatured = in.IsFeatured
		profile.IsTrending = in.IsTrending
		return tx.Save(&profile).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &movie, &profile, nil
}

// DeleteMovie removes a movie with its profile, reviews, and watchlist
// entries, returning the poster object key for best-effort cleanup by the
// caller.
func (r *Repository) DeleteMovie(ctx context.Context, id uint32) (string, error) {
	var posterKey string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var movie database.Movie
		if err := tx.First(&movie, id).Error; err != nil {
			return err
		}

		var profile database.MovieProfile
		if err := tx.Where("movie_id = ?", id).First(&profile).Error; err == nil {
			posterKey = profile.PosterPath
		}

		if err := tx.Where("movie_id = ?", id).Delete(&database.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("movie_id = ?", id).Delete(&database.Watchlist{}).Error; err != nil {
			return err
		}
		if err := tx.Where("movie_id = ?", id).Delete(&database.MovieProfile{}).Error; err != nil {
			return err
		}
		return tx.Delete(&database.Movie{}, id).Error
	})
	if err != nil {
		return "", err
	}
	return posterKey, nil
}

// SetPoster records a new poster object key on the movie's profile and
// returns the previous key so the caller can delete the old object.
func (r *Repository) SetPoster(ctx context.Context, movieID uint32, key string) (string, error) {
	var profile database.MovieProfile
	if err := r.db.WithContext(ctx).Where("movie_id = ?", movieID).First(&profile).Error; err != nil {
		return "", err
	}

	previous := profile.PosterPath
	profile.PosterPath = key
	if err := r.db.WithContext(ctx).Save(&profile).Error; err != nil {
		return "", err
	}
	return previous, nil
}
