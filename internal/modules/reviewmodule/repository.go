package reviewmodule

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/cinelog/cinelog/internal/database"
	"github.com/cinelog/cinelog/internal/types"
)

// ReviewInput carries a rating and comment for a movie review.
type ReviewInput struct {
	Rating  int
	Comment string
}

// Validate applies the review input rules.
func (in *ReviewInput) Validate() *types.AppError {
	var err *types.AppError
	fail := func(field, message string) {
		if err == nil {
			err = types.NewValidationError("invalid review data")
		}
		err.WithField(field, message)
	}

	if in.Rating < 1 || in.Rating > 5 {
		fail("rating", "rating must be between 1 and 5")
	}
	if strings.TrimSpace(in.Comment) == "" {
		fail("comment", "comment cannot be blank")
	}
	return err
}

// Repository provides review and watchlist persistence over gorm.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a review repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// UpsertReview creates or updates the user's review for a movie. The lookup
// is a best-effort optimization; the composite unique index is the
// authoritative guard, and a duplicate-key failure from a concurrent insert
// is converted into an update rather than surfaced.
func (r *Repository) UpsertReview(ctx context.Context, userID, movieID uint32, in ReviewInput) (*database.Review, bool, error) {
	var movie database.Movie
	if err := r.db.WithContext(ctx).First(&movie, movieID).Error; err != nil {
		return nil, false, err
	}

	var review database.Review
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		First(&review).Error
	if err == nil {
		review.Rating = in.Rating
		review.Comment = in.Comment
		if err := r.db.WithContext(ctx).Save(&review).Error; err != nil {
			return nil, false, fmt.Errorf("failed to update review: %w", err)
		}
		return &review, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	review = database.Review{
		UserID:  userID,
		MovieID: movieID,
		Rating:  in.Rating,
		Comment: in.Comment,
	}
	err = r.db.WithContext(ctx).Create(&review).Error
	if err == nil {
		return &review, true, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, false, fmt.Errorf("failed to create review: %w", err)
	}

	// Lost the race against a concurrent insert for the same (user, movie);
	// fall through to updating the row that won.
	var existing database.Review
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		First(&existing).Error; err != nil {
		return nil, false, err
	}
	existing.Rating = in.Rating
	existing.Comment = in.Comment
	if err := r.db.WithContext(ctx).Save(&existing).Error; err != nil {
		return nil, false, fmt.Errorf("failed to update review: %w", err)
	}
	return &existing, false, nil
}

// GetReview loads a single review.
func (r *Repository) GetReview(ctx context.Context, id uint32) (*database.Review, error) {
	var review database.Review
	if err := r.db.WithContext(ctx).First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// UpdateReview overwrites the review's rating and comment.
func (r *Repository) UpdateReview(ctx context.Context, review *database.Review, in ReviewInput) error {
	review.Rating = in.Rating
	review.Comment = in.Comment
	return r.db.WithContext(ctx).Save(review).Error
}

// DeleteReview removes a review.
func (r *Repository) DeleteReview(ctx context.Context, id uint32) error {
	result := r.db.WithContext(ctx).Delete(&database.Review{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListReviews returns a movie's reviews, newest first, with reviewer info.
func (r *Repository) ListReviews(ctx context.Context, movieID uint32) ([]database.Review, error) {
	var movie database.Movie
	if err := r.db.WithContext(ctx).First(&movie, movieID).Error; err != nil {
		return nil, err
	}

	var reviews []database.Review
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("movie_id = ?", movieID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

// ToggleWatchlist flips the user's watchlist membership for a movie:
// present rows are removed, absent ones created. Neither branch errors;
// the returned bool reports the resulting state.
func (r *Repository) ToggleWatchlist(ctx context.Context, userID, movieID uint32) (bool, error) {
	var movie database.Movie
	if err := r.db.WithContext(ctx).First(&movie, movieID).Error; err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Delete(&database.Watchlist{})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return false, nil
	}

	entry := database.Watchlist{UserID: userID, MovieID: movieID}
	err := r.db.WithContext(ctx).Create(&entry).Error
	if err == nil {
		return true, nil
	}
	// A concurrent toggle created the row first; membership holds either way.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true, nil
	}
	return false, fmt.Errorf("failed to add watchlist entry: %w", err)
}

// ListWatchlist returns the user's watchlist, most recently added first,
// with movies preloaded.
func (r *Repository) ListWatchlist(ctx context.Context, userID uint32) ([]database.Watchlist, error) {
	var entries []database.Watchlist
	err := r.db.WithContext(ctx).
		Preload("Movie").
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list watchlist: %w", err)
	}
	return entries, nil
}
