package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/briefhub-dev/briefhub/internal/auth"
	"github.com/briefhub-dev/briefhub/internal/models"
)

const (
	bearerPrefix = "Bearer "
)

var (
	ErrMissingAuthHeader = errors.New("missing authorization header")
	ErrInvalidAuthFormat = errors.New("invalid authorization header format")
	ErrEmptyToken        = errors.New("empty token")
	ErrInvalidToken      = errors.New("invalid token")
	ErrWrongDomain       = errors.New("token issued for a different domain")
	ErrAccountNotFound   = errors.New("account not found")
)

func setSession(c *gin.Context, sessionData *auth.SessionData) {
	c.Set("session", sessionData)
}

// GetSessionData returns the authenticated session attached to the request
func GetSessionData(c *gin.Context) (*auth.SessionData, bool) {
	session, exists := c.Get("session")
	if !exists {
		return nil, false
	}

	sessionData, ok := session.(*auth.SessionData)
	return sessionData, ok
}

func extractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingAuthHeader
	}

	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", ErrInvalidAuthFormat
	}

	token := strings.TrimPrefix(authHeader, bearerPrefix)
	if token == "" {
		return "", ErrEmptyToken
	}

	return token, nil
}

// respondWithDetail aborts the request with a {"detail": ...} error body,
// the error shape every client of this API expects
func respondWithDetail(c *gin.Context, log zerolog.Logger, statusCode int, err error, detail string) {
	log.Warn().Err(err).Msg(detail)
	c.JSON(statusCode, gin.H{"detail": detail})
	c.Abort()
}

func validateRequestToken(c *gin.Context) (*auth.JWTClaims, error) {
	token, err := extractBearerToken(c.GetHeader("Authorization"))
	if err != nil {
		return nil, err
	}
	return auth.ValidateToken(token)
}

// UserAuthMiddleware validates user-domain JWT tokens and loads the account
func UserAuthMiddleware(db *gorm.DB, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := validateRequestToken(c)
		if err != nil {
			respondWithDetail(c, log, http.StatusUnauthorized, err, "Could not validate credentials")
			return
		}

		if claims.UserType != auth.UserTypeUser {
			respondWithDetail(c, log, http.StatusForbidden, ErrWrongDomain, "User token required")
			return
		}

		var user models.User
		if err := db.Where("id = ?", claims.UserID).First(&user).Error; err != nil {
			respondWithDetail(c, log, http.StatusUnauthorized, ErrAccountNotFound, "Could not validate credentials")
			return
		}
		if !user.IsActive {
			respondWithDetail(c, log, http.StatusForbidden, errors.New("inactive account"), "Account is deactivated")
			return
		}

		setSession(c, &auth.SessionData{
			UserID:   user.ID,
			Username: user.Nickname,
			Email:    user.Email,
			IsAdmin:  user.IsAdmin,
			UserType: auth.UserTypeUser,
		})

		c.Next()
	}
}

// AdminAuthMiddleware validates admin-domain JWT tokens and loads the admin
// account. User tokens never pass, even when the user has the admin flag;
// the two credential domains are independent.
func AdminAuthMiddleware(db *gorm.DB, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := validateRequestToken(c)
		if err != nil {
			respondWithDetail(c, log, http.StatusUnauthorized, err, "Could not validate credentials")
			return
		}

		if claims.UserType != auth.UserTypeAdmin {
			respondWithDetail(c, log, http.StatusForbidden, ErrWrongDomain, "Admin token required")
			return
		}

		var admin models.AdminUser
		if err := db.Where("id = ?", claims.UserID).First(&admin).Error; err != nil {
			respondWithDetail(c, log, http.StatusUnauthorized, ErrAccountNotFound, "Could not validate credentials")
			return
		}

		setSession(c, &auth.SessionData{
			UserID:   admin.ID,
			Username: admin.Username,
			IsAdmin:  true,
			UserType: auth.UserTypeAdmin,
		})

		c.Next()
	}
}
