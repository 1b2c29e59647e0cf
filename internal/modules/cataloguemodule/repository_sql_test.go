package cataloguemodule

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return db, mock
}

// The list query must aggregate in SQL, not in application code: one count
// over the filtered subquery, then one page query with the LEFT JOIN,
// GROUP BY, and rounded average.
func TestListMoviesQueryShape(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM \(SELECT movies\.\*, COALESCE\(ROUND\(AVG\(reviews\.rating\), 1\), 0\) AS avg_rating, COUNT\(reviews\.id\) AS review_count FROM "movies" LEFT JOIN reviews ON reviews\.movie_id = movies\.id GROUP BY movies\.id\) AS filtered`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery(`SELECT movies\.\*, COALESCE\(ROUND\(AVG\(reviews\.rating\), 1\), 0\) AS avg_rating, COUNT\(reviews\.id\) AS review_count FROM "movies" LEFT JOIN reviews ON reviews\.movie_id = movies\.id GROUP BY movies\.id ORDER BY avg_rating DESC, review_count DESC, movies\.id ASC LIMIT .+`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "avg_rating", "review_count"}).
			AddRow(1, "Inception", 4.5, 12))

	movies, pagination, err := repo.ListMovies(context.Background(), MovieFilters{Sort: SortBestRated, Page: 1})
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "Inception", movies[0].Name)
	assert.Equal(t, 4.5, movies[0].AvgRating)
	assert.Equal(t, int64(12), movies[0].ReviewCount)
	assert.Equal(t, int64(1), pagination.Total)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// Rating filters belong in HAVING, over the aggregate, not WHERE.
func TestListMoviesMinRatingUsesHaving(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM \(.+HAVING COALESCE\(ROUND\(AVG\(reviews\.rating\), 1\), 0\) >= .+\) AS filtered`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT .+ FROM "movies" LEFT JOIN reviews .+ HAVING COALESCE\(ROUND\(AVG\(reviews\.rating\), 1\), 0\) >= .+ ORDER BY movies\.release_date DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "avg_rating", "review_count"}))

	min := 4.0
	movies, _, err := repo.ListMovies(context.Background(), MovieFilters{MinRating: &min})
	require.NoError(t, err)
	assert.Empty(t, movies)

	assert.NoError(t, mock.ExpectationsWereMet())
}
