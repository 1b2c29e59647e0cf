package cataloguemodule

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/cinelog/cinelog/internal/database"
)

// PageSize is the fixed number of movies per catalog page.
const PageSize = 6

// Sort keys accepted by the movie list.
const (
	SortNewest        = "newest"
	SortOldest        = "oldest"
	SortBestRated     = "best_rated"
	SortWorstRated    = "worst_rated"
	SortMostReviewed  = "most_reviewed"
	SortLeastReviewed = "least_reviewed"
)

// MovieFilters captures the list query parameters. Numeric filters are nil
// when absent or malformed; malformed input is dropped, never an error.
type MovieFilters struct {
	Search       string
	DeliveryMode database.DeliveryMode
	MinRating    *float64
	YearFrom     *int
	YearTo       *int
	Sort         string
	Page         int
}

// ParseFilters extracts movie list filters from URL query parameters.
func ParseFilters(values url.Values) MovieFilters {
	f := MovieFilters{
		Search: strings.TrimSpace(values.Get("search")),
		Sort:   values.Get("sort"),
		Page:   1,
	}

	if mode := database.DeliveryMode(strings.ToUpper(values.Get("delivery_mode"))); mode.Valid() {
		f.DeliveryMode = mode
	}
	if v := values.Get("min_rating"); v != "" {
		if rating, err := strconv.ParseFloat(v, 64); err == nil {
			f.MinRating = &rating
		}
	}
	if v := values.Get("year_from"); v != "" {
		if year, err := strconv.Atoi(v); err == nil {
			f.YearFrom = &year
		}
	}
	if v := values.Get("year_to"); v != "" {
		if year, err := strconv.Atoi(v); err == nil {
			f.YearTo = &year
		}
	}
	if v := values.Get("page"); v != "" {
		if page, err := strconv.Atoi(v); err == nil && page > 0 {
			f.Page = page
		}
	}

	switch f.Sort {
	case SortNewest, SortOldest, SortBestRated, SortWorstRated, SortMostReviewed, SortLeastReviewed:
	default:
		f.Sort = SortNewest
	}

	return f
}
