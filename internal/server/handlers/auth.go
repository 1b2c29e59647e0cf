// Package handlers provides top-level HTTP handlers for authentication and
// service administration.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cinelog/cinelog/internal/api"
	"github.com/cinelog/cinelog/internal/auth"
	"github.com/cinelog/cinelog/internal/database"
	"github.com/cinelog/cinelog/internal/logger"
	"github.com/cinelog/cinelog/internal/middleware"
	"github.com/cinelog/cinelog/internal/types"
)

// AuthHandler serves registration, login, and logout.
type AuthHandler struct {
	db     *gorm.DB
	secret string
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(db *gorm.DB, secret string) *AuthHandler {
	return &AuthHandler{db: db, secret: secret}
}

type registerRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	Email     string `json:"email"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles POST /auth/register, creating a non-staff account and
// issuing a session token.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondWithValidationError(c, "invalid request format", err.Error())
		return
	}

	if appErr := validateRegistration(&req); appErr != nil {
		api.RespondWithError(c, appErr)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		api.RespondWithInternalError(c, "failed to hash password", err)
		return
	}

	user := database.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := h.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			api.RespondWithError(c, types.NewValidationError("invalid registration data").
				WithField("username", "username is already taken"))
			return
		}
		api.RespondWithInternalError(c, "failed to create user", err)
		return
	}

	token, appErr := h.openSession(c, user.ID)
	if appErr != nil {
		api.RespondWithError(c, appErr)
		return
	}

	logger.Info("user registered",
		logger.Uint("user_id", user.ID),
		logger.String("username", user.Username),
	)
	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  user,
	})
}

// Login handles POST /auth/login, verifying credentials and issuing a
// session token mirrored in the auth_token cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondWithValidationError(c, "invalid request format", err.Error())
		return
	}

	var user database.User
	if err := h.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		respondBadCredentials(c)
		return
	}
	if err := auth.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		respondBadCredentials(c)
		return
	}

	token, appErr := h.openSession(c, user.ID)
	if appErr != nil {
		api.RespondWithError(c, appErr)
		return
	}

	logger.Info("user logged in", logger.Uint("user_id", user.ID))
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// Logout handles POST /auth/logout, deleting the session row so the token
// is rejected before its signed expiry, and clearing the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := bearerOrCookieToken(c)
	if token != "" {
		h.db.Where("token = ?", token).Delete(&database.Session{})
	}
	clearTokenCookie(c)

	c.JSON(http.StatusOK, gin.H{"message": "successfully logged out"})
}

// openSession issues a signed token, records the session row, and mirrors
// the token in a cookie with matching max age.
func (h *AuthHandler) openSession(c *gin.Context, userID uint32) (string, *types.AppError) {
	token, err := auth.CreateToken(h.secret, userID)
	if err != nil {
		return "", types.NewInternalError("failed to create session token", err)
	}
	if err := h.db.Create(&database.Session{UserID: userID, Token: token}).Error; err != nil {
		return "", types.NewInternalError("failed to record session", err)
	}

	c.SetCookie(middleware.AuthTokenCookie, token, int(auth.TokenMaxAge.Seconds()), "/", "", false, true)
	return token, nil
}

func validateRegistration(req *registerRequest) *types.AppError {
	var err *types.AppError
	fail := func(field, message string) {
		if err == nil {
			err = types.NewValidationError("invalid registration data")
		}
		err.WithField(field, message)
	}

	if strings.TrimSpace(req.Username) == "" {
		fail("username", "username cannot be blank")
	}
	if len(req.Password) < 4 {
		fail("password", "password must be at least 4 characters")
	}
	if req.Password != req.Password2 {
		fail("password", "passwords must match")
	}
	return err
}

func respondBadCredentials(c *gin.Context) {
	api.RespondWithError(c, types.NewUnauthorizedError(
		types.ErrorCodeUnauthorized, "invalid username or password"))
}

func bearerOrCookieToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie(middleware.AuthTokenCookie); err == nil {
		return cookie
	}
	return ""
}

func clearTokenCookie(c *gin.Context) {
	c.SetCookie(middleware.AuthTokenCookie, "", -1, "/", "", false, true)
}
