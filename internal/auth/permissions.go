package auth

import "github.com/cinelog/cinelog/internal/database"

// Capability predicates over (actor, resource). Handlers call these and
// translate a deny into a 403, never a redirect.

// CanManageCatalog reports whether the user may create, update, or delete
// movies.
func CanManageCatalog(u *database.User) bool {
	return u != nil && u.IsStaff
}

// CanModifyReview reports whether the user may update the review. Only the
// owner may change a review's content.
func CanModifyReview(u *database.User, r *database.Review) bool {
	return u != nil && r != nil && u.ID == r.UserID
}

// CanDeleteReview reports whether the user may delete the review. The owner
// and staff may delete.
func CanDeleteReview(u *database.User, r *database.Review) bool {
	if u == nil || r == nil {
		return false
	}
	return u.ID == r.UserID || u.IsStaff
}
