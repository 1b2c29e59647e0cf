package cataloguemodule

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinelog/cinelog/internal/database"
)

func TestParseFiltersDefaults(t *testing.T) {
	f := ParseFilters(url.Values{})

	assert.Empty(t, f.Search)
	assert.Empty(t, f.DeliveryMode)
	assert.Nil(t, f.MinRating)
	assert.Nil(t, f.YearFrom)
	assert.Nil(t, f.YearTo)
	assert.Equal(t, SortNewest, f.Sort)
	assert.Equal(t, 1, f.Page)
}

func TestParseFiltersValues(t *testing.T) {
	f := ParseFilters(url.Values{
		"search":        {"  inception  "},
		"delivery_mode": {"streaming"},
		"min_rating":    {"4.0"},
		"year_from":     {"2000"},
		"year_to":       {"2010"},
		"sort":          {"best_rated"},
		"page":          {"3"},
	})

	assert.Equal(t, "inception", f.Search)
	assert.Equal(t, database.DeliveryModeStreaming, f.DeliveryMode)
	require.NotNil(t, f.MinRating)
	assert.Equal(t, 4.0, *f.MinRating)
	require.NotNil(t, f.YearFrom)
	assert.Equal(t, 2000, *f.YearFrom)
	require.NotNil(t, f.YearTo)
	assert.Equal(t, 2010, *f.YearTo)
	assert.Equal(t, SortBestRated, f.Sort)
	assert.Equal(t, 3, f.Page)
}

// Malformed numeric filters are dropped, never surfaced as errors.
func TestParseFiltersMalformedInput(t *testing.T) {
	f := ParseFilters(url.Values{
		"delivery_mode": {"DVD"},
		"min_rating":    {"high"},
		"year_from":     {"nineteen-eighty"},
		"year_to":       {""},
		"sort":          {"alphabetical"},
		"page":          {"-2"},
	})

	assert.Empty(t, f.DeliveryMode)
	assert.Nil(t, f.MinRating)
	assert.Nil(t, f.YearFrom)
	assert.Nil(t, f.YearTo)
	assert.Equal(t, SortNewest, f.Sort)
	assert.Equal(t, 1, f.Page)
}
