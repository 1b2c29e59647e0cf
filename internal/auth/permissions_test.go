package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cinelog/cinelog/internal/database"
)

func TestCanManageCatalog(t *testing.T) {
	staff := &database.User{ID: 1, IsStaff: true}
	regular := &database.User{ID: 2}

	assert.True(t, CanManageCatalog(staff))
	assert.False(t, CanManageCatalog(regular))
	assert.False(t, CanManageCatalog(nil))
}

func TestCanModifyReview(t *testing.T) {
	owner := &database.User{ID: 1}
	staff := &database.User{ID: 2, IsStaff: true}
	other := &database.User{ID: 3}
	review := &database.Review{ID: 10, UserID: 1}

	assert.True(t, CanModifyReview(owner, review))
	assert.False(t, CanModifyReview(staff, review), "staff may not edit someone else's review")
	assert.False(t, CanModifyReview(other, review))
	assert.False(t, CanModifyReview(nil, review))
	assert.False(t, CanModifyReview(owner, nil))
}

func TestCanDeleteReview(t *testing.T) {
	owner := &database.User{ID: 1}
	staff := &database.User{ID: 2, IsStaff: true}
	other := &database.User{ID: 3}
	review := &database.Review{ID: 10, UserID: 1}

	assert.True(t, CanDeleteReview(owner, review))
	assert.True(t, CanDeleteReview(staff, review))
	assert.False(t, CanDeleteReview(other, review))
	assert.False(t, CanDeleteReview(nil, review))
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter22")
	assert.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.NoError(t, VerifyPassword(hash, "hunter22"))
	assert.Error(t, VerifyPassword(hash, "wrong"))
}
