// Package middleware provides gin middleware for the catalog service.
package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cinelog/cinelog/internal/api"
	"github.com/cinelog/cinelog/internal/auth"
	"github.com/cinelog/cinelog/internal/database"
	"github.com/cinelog/cinelog/internal/types"
)

const userContextKey = "current_user"

// AuthTokenCookie is the cookie mirroring the bearer token for browser
// clients. Its max age matches auth.TokenMaxAge.
const AuthTokenCookie = "auth_token"

// Auth authenticates requests from a signed session token carried in the
// Authorization header or the auth_token cookie.
type Auth struct {
	db     *gorm.DB
	secret string
}

// NewAuth creates the auth middleware.
func NewAuth(db *gorm.DB, secret string) *Auth {
	return &Auth{db: db, secret: secret}
}

// RequireUser rejects requests without a valid, unexpired session token
// backed by a live session row. Expiry invalidates the session and forces
// re-authentication.
func (a *Auth) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, appErr := a.authenticate(c)
		if appErr != nil {
			api.RespondWithError(c, appErr)
			c.Abort()
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

// RequireStaff behaves like RequireUser and additionally rejects non-staff
// users with a forbidden result, not a redirect.
func (a *Auth) RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, appErr := a.authenticate(c)
		if appErr != nil {
			api.RespondWithError(c, appErr)
			c.Abort()
			return
		}
		if !auth.CanManageCatalog(user) {
			api.RespondWithForbidden(c, "staff access required")
			c.Abort()
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

// OptionalUser resolves the current user when a valid token is present but
// lets anonymous requests through.
func (a *Auth) OptionalUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, appErr := a.authenticate(c); appErr == nil {
			c.Set(userContextKey, user)
		}
		c.Next()
	}
}

func (a *Auth) authenticate(c *gin.Context) (*database.User, *types.AppError) {
	token := extractToken(c)
	if token == "" {
		return nil, types.NewUnauthorizedError(types.ErrorCodeUnauthorized, "authentication required")
	}

	userID, err := auth.ValidateToken(a.secret, token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			// Drop the stale session row so the token cannot linger in
			// the store past its signed lifetime.
			a.db.Where("token = ?", token).Delete(&database.Session{})
			return nil, types.NewUnauthorizedError(types.ErrorCodeSessionExpired, "session expired, please login again")
		}
		return nil, types.NewUnauthorizedError(types.ErrorCodeSessionInvalid, "invalid session token")
	}

	var session database.Session
	if err := a.db.Where("token = ?", token).First(&session).Error; err != nil {
		return nil, types.NewUnauthorizedError(types.ErrorCodeSessionInvalid, "session no longer active")
	}

	var user database.User
	if err := a.db.First(&user, userID).Error; err != nil {
		return nil, types.NewUnauthorizedError(types.ErrorCodeSessionInvalid, "unknown user")
	}
	return &user, nil
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie(AuthTokenCookie); err == nil {
		return cookie
	}
	return ""
}

// CurrentUser returns the authenticated user set by the auth middleware,
// or nil for anonymous requests.
func CurrentUser(c *gin.Context) *database.User {
	if v, ok := c.Get(userContextKey); ok {
		if user, ok := v.(*database.User); ok {
			return user
		}
	}
	return nil
}
