package database

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// DeliveryMode enum for movies.delivery_mode.
type DeliveryMode string

const (
	DeliveryModeTheater   DeliveryMode = "THEATER"
	DeliveryModeStreaming DeliveryMode = "STREAMING"
)

func (d DeliveryMode) Value() (driver.Value, error) {
	return string(d), nil
}

func (d *DeliveryMode) Scan(value interface{}) error {
	if value == nil {
		*d = ""
		return nil
	}
	switch s := value.(type) {
	case string:
		*d = DeliveryMode(s)
	case []byte:
		*d = DeliveryMode(s)
	default:
		return fmt.Errorf("cannot scan %T into DeliveryMode", value)
	}
	return nil
}

// Valid reports whether the mode is one of the known delivery modes.
func (d DeliveryMode) Valid() bool {
	return d == DeliveryModeTheater || d == DeliveryModeStreaming
}

// User represents an account in the system.
type User struct {
	ID           uint32    `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"index" json:"email,omitempty"`
	PasswordHash string    `gorm:"not null" json:"-"`
	IsStaff      bool      `gorm:"not null;default:false" json:"is_staff"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Session records an issued login token. A session row must exist for a
// token to be accepted, so logout invalidates tokens before their signed
// expiry.
type Session struct {
	ID        uint32    `gorm:"primaryKey" json:"id"`
	UserID    uint32    `gorm:"not null;index" json:"user_id"`
	Token     string    `gorm:"uniqueIndex;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Movie represents a catalog entry.
type Movie struct {
	ID           uint32       `gorm:"primaryKey" json:"id"`
	Name         string       `gorm:"not null;index" json:"name"`
	Description  string       `gorm:"type:text" json:"description"`
	Actor        string       `gorm:"index" json:"actor"` // lead actor
	Duration     int          `gorm:"not null" json:"duration"` // minutes
	DeliveryMode DeliveryMode `gorm:"type:text;not null;index" json:"delivery_mode"`
	Keywords     string       `json:"keywords"`
	ReleaseDate  time.Time    `gorm:"not null;index" json:"release_date"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	Profile *MovieProfile `gorm:"constraint:OnDelete:CASCADE" json:"profile,omitempty"`
}

// MovieProfile holds presentation metadata for a movie. Every movie owns
// exactly one profile, created in the same transaction as the movie.
type MovieProfile struct {
	ID         uint32    `gorm:"primaryKey" json:"id"`
	MovieID    uint32    `gorm:"uniqueIndex;not null" json:"movie_id"`
	PosterPath string    `json:"poster_path,omitempty"` // object key in poster storage
	IsFeatured bool      `gorm:"not null;default:false" json:"is_featured"`
	IsTrending bool      `gorm:"not null;default:false" json:"is_trending"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Review is a user's rating and comment for a movie. At most one review may
// exist per (user, movie); the composite unique index is the authoritative
// guard against duplicates.
type Review struct {
	ID        uint32    `gorm:"primaryKey" json:"id"`
	UserID    uint32    `gorm:"not null;uniqueIndex:idx_reviews_user_movie" json:"user_id"`
	MovieID   uint32    `gorm:"not null;uniqueIndex:idx_reviews_user_movie;index" json:"movie_id"`
	Rating    int       `gorm:"not null" json:"rating"` // 1..5
	Comment   string    `gorm:"type:text;not null" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

// Watchlist marks a movie as saved by a user, unique per (user, movie).
type Watchlist struct {
	ID      uint32    `gorm:"primaryKey" json:"id"`
	UserID  uint32    `gorm:"not null;uniqueIndex:idx_watchlist_user_movie" json:"user_id"`
	MovieID uint32    `gorm:"not null;uniqueIndex:idx_watchlist_user_movie;index" json:"movie_id"`
	AddedAt time.Time `gorm:"autoCreateTime" json:"added_at"`

	Movie *Movie `gorm:"constraint:OnDelete:CASCADE" json:"movie,omitempty"`
}
