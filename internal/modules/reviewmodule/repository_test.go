package reviewmodule

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/cinelog/cinelog/internal/database"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Each pooled connection to an unshared :memory: database sees its own
	// empty database; the shared-cache DSN keeps every connection (including
	// the one the injected raw SQL in the race tests runs on) on one database.
	// The counter keeps databases distinct across tests and reruns (-count>1),
	// since a named in-memory database survives while any connection is open.
	dsn := fmt.Sprintf("file:reviewmodule_test_%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *database.User {
	t.Helper()

	user := &database.User{Username: username, PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedMovie(t *testing.T, db *gorm.DB, name string) *database.Movie {
	t.Helper()

	movie := &database.Movie{
		Name:         name,
		Duration:     100,
		DeliveryMode: database.DeliveryModeTheater,
		ReleaseDate:  time.Date(2010, 7, 16, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(movie).Error)
	return movie
}

func TestUpsertReviewKeepsSingleRow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "alice")
	movie := seedMovie(t, db, "Inception")

	review, created, err := repo.UpsertReview(ctx, user.ID, movie.ID, ReviewInput{Rating: 4, Comment: "good"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 4, review.Rating)

	updated, created, err := repo.UpsertReview(ctx, user.ID, movie.ID, ReviewInput{Rating: 2, Comment: "changed my mind"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, review.ID, updated.ID)
	assert.Equal(t, 2, updated.Rating)
	assert.Equal(t, "changed my mind", updated.Comment)

	var count int64
	db.Model(&database.Review{}).
		Where("user_id = ? AND movie_id = ?", user.ID, movie.ID).
		Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestUpsertReviewMovieNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	user := seedUser(t, db, "alice")
	_, _, err := repo.UpsertReview(context.Background(), user.ID, 9999, ReviewInput{Rating: 3, Comment: "ok"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestReviewUniqueIndexEnforced(t *testing.T) {
	db := setupTestDB(t)

	user := seedUser(t, db, "alice")
	movie := seedMovie(t, db, "Inception")

	require.NoError(t, db.Create(&database.Review{
		UserID: user.ID, MovieID: movie.ID, Rating: 4, Comment: "first",
	}).Error)
	err := db.Create(&database.Review{
		UserID: user.ID, MovieID: movie.ID, Rating: 5, Comment: "second",
	}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

// injectBeforeCreate registers a one-shot callback that runs right before
// the next insert into table, simulating a concurrent request winning the
// race. The injected work uses raw SQL so it bypasses create callbacks.
func injectBeforeCreate(t *testing.T, db *gorm.DB, table string, inject func()) {
	t.Helper()

	fired := false
	err := db.Callback().Create().Before("gorm:create").Register("inject_conflicting_insert", func(tx *gorm.DB) {
		if fired || tx.Statement.Table != table {
			return
		}
		fired = true
		inject()
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Callback().Create().Remove("inject_conflicting_insert")
	})
}

func TestUpsertReviewLostInsertRaceFallsBackToUpdate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "alice")
	movie := seedMovie(t, db, "Inception")

	injectBeforeCreate(t, db, "reviews", func() {
		now := time.Now()
		require.NoError(t, db.Exec(
			"INSERT INTO reviews (user_id, movie_id, rating, comment, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
			user.ID, movie.ID, 5, "got there first", now, now,
		).Error)
	})

	review, created, err := repo.UpsertReview(ctx, user.ID, movie.ID, ReviewInput{Rating: 2, Comment: "second opinion"})
	require.NoError(t, err)
	assert.False(t, created, "losing the insert race must report an update")
	assert.Equal(t, 2, review.Rating)
	assert.Equal(t, "second opinion", review.Comment)

	var count int64
	db.Model(&database.Review{}).
		Where("user_id = ? AND movie_id = ?", user.ID, movie.ID).
		Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestToggleWatchlistLostInsertRaceKeepsMembership(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	user := seedUser(t, db, "alice")
	movie := seedMovie(t, db, "Inception")

	injectBeforeCreate(t, db, "watchlists", func() {
		require.NoError(t, db.Exec(
			"INSERT INTO watchlists (user_id, movie_id, added_at) VALUES (?, ?, ?)",
			user.ID, movie.ID, time.Now(),
		).Error)
	})

	inList, err := repo.ToggleWatchlist(context.Background(), user.ID, movie.ID)
	require.NoError(t, err)
	assert.True(t, inList, "membership holds whichever toggle won")

	var count int64
	db.Model(&database.Watchlist{}).
		Where("user_id = ? AND movie_id = ?", user.ID, movie.ID).
		Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestDifferentUsersCanReviewSameMovie(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	movie := seedMovie(t, db, "Inception")

	_, created, err := repo.UpsertReview(ctx, alice.ID, movie.ID, ReviewInput{Rating: 5, Comment: "great"})
	require.NoError(t, err)
	assert.True(t, created)

	_, created, err = repo.UpsertReview(ctx, bob.ID, movie.ID, ReviewInput{Rating: 2, Comment: "meh"})
	require.NoError(t, err)
	assert.True(t, created)

	reviews, err := repo.ListReviews(ctx, movie.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 2)
}

func TestListReviewsPreloadsUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	user := seedUser(t, db, "alice")
	movie := seedMovie(t, db, "Inception")
	_, _, err := repo.UpsertReview(context.Background(), user.ID, movie.ID, ReviewInput{Rating: 5, Comment: "great"})
	require.NoError(t, err)

	reviews, err := repo.ListReviews(context.Background(), movie.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	require.NotNil(t, reviews[0].User)
	assert.Equal(t, "alice", reviews[0].User.Username)
}

func TestListReviewsMovieNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	_, err := repo.ListReviews(context.Background(), 9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteReview(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "alice")
	movie := seedMovie(t, db, "Inception")
	review, _, err := repo.UpsertReview(ctx, user.ID, movie.ID, ReviewInput{Rating: 3, Comment: "ok"})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteReview(ctx, review.ID))
	assert.ErrorIs(t, repo.DeleteReview(ctx, review.ID), gorm.ErrRecordNotFound)
}

func TestToggleWatchlistRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "alice")
	movie := seedMovie(t, db, "Inception")

	inList, err := repo.ToggleWatchlist(ctx, user.ID, movie.ID)
	require.NoError(t, err)
	assert.True(t, inList)

	entries, err := repo.ListWatchlist(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].Movie)
	assert.Equal(t, "Inception", entries[0].Movie.Name)

	// Toggling again returns to the original state.
	inList, err = repo.ToggleWatchlist(ctx, user.ID, movie.ID)
	require.NoError(t, err)
	assert.False(t, inList)

	entries, err = repo.ListWatchlist(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestToggleWatchlistMovieNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	user := seedUser(t, db, "alice")
	_, err := repo.ToggleWatchlist(context.Background(), user.ID, 9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestReviewInputValidate(t *testing.T) {
	valid := ReviewInput{Rating: 3, Comment: "fine"}
	assert.Nil(t, valid.Validate())

	tooLow := ReviewInput{Rating: 0, Comment: "fine"}
	err := tooLow.Validate()
	require.NotNil(t, err)
	assert.Contains(t, err.Fields, "rating")

	tooHigh := ReviewInput{Rating: 6, Comment: "fine"}
	err = tooHigh.Validate()
	require.NotNil(t, err)
	assert.Contains(t, err.Fields, "rating")

	blank := ReviewInput{Rating: 3, Comment: "   "}
	err = blank.Validate()
	require.NotNil(t, err)
	assert.Contains(t, err.Fields, "comment")
}
