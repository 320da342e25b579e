package server

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/briefhub-dev/briefhub/internal/auth"
	"github.com/briefhub-dev/briefhub/internal/models"
)

// SetupRequest represents the first-run setup request
type SetupRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// RegisterRequest represents a user self-registration request
type RegisterRequest struct {
	Nickname    string `json:"nickname" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	PhoneNumber string `json:"phone_number"`
}

// TokenResponse is the OAuth2-style login response both domains return
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// @Summary First-run setup
// @Description Creates the first admin account (only works if no admins exist)
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} TokenResponse
// @Router /setup [post]
func (s *Server) setupFirstAdmin(c *gin.Context) {
	var req SetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	var count int64
	if err := s.db.Model(&models.AdminUser{}).Count(&count).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to count admin users")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"detail": "Setup already completed"})
		return
	}

	// Generate JWT secret (64 hex characters = 32 bytes of randomness)
	jwtSecretBytes := make([]byte, 32)
	if _, err := rand.Read(jwtSecretBytes); err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate JWT secret")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to initialize system"})
		return
	}
	jwtSecret := hex.EncodeToString(jwtSecretBytes)

	conf := &models.Config{JWTSecret: jwtSecret}
	if err := s.db.Create(conf).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create config")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to initialize system"})
		return
	}

	auth.InitializeJWT(jwtSecret)

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create admin"})
		return
	}

	admin := &models.AdminUser{
		Username:     req.Username,
		PasswordHash: passwordHash,
	}
	if err := s.db.Create(admin).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create first admin")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create admin"})
		return
	}

	token, err := auth.GenerateAdminToken(admin.ID, admin.Username)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate token")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to generate token"})
		return
	}

	s.logger.Info().Str("admin_id", admin.ID).Str("username", admin.Username).Msg("First admin created")

	c.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// @Summary Register
// @Description Creates a new end-user account
// @Tags auth
// @Accept json
// @Produce json
// @Success 201 {object} models.User
// @Router /auth/register [post]
func (s *Server) registerUser(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	if err := s.validator.Var(req.Nickname, "nickname"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Nickname contains invalid characters"})
		return
	}
	if req.PhoneNumber != "" {
		if err := s.validator.Var(req.PhoneNumber, "phone"); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Phone number must be 12 to 14 digits"})
			return
		}
	}

	var existing models.User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"detail": "Email already registered"})
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create user"})
		return
	}

	user := &models.User{
		Nickname:     req.Nickname,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: passwordHash,
		IsActive:     true,
	}
	if err := s.db.Create(user).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create user")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create user"})
		return
	}

	s.logger.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("User registered")
	c.JSON(http.StatusCreated, user)
}

// @Summary User login
// @Description Authenticate an end-user with form-encoded email and password
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Success 200 {object} TokenResponse
// @Router /auth/login/user [post]
func (s *Server) loginUser(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")
	if email == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "email and password are required"})
		return
	}

	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid email or password"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find user")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
		return
	}

	if err := auth.VerifyPassword(password, user.PasswordHash); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid email or password"})
		return
	}

	if !user.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"detail": "Account is deactivated"})
		return
	}

	token, err := auth.GenerateUserToken(user.ID, user.Nickname, user.Email, user.IsAdmin)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate token")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to generate token"})
		return
	}

	now := time.Now()
	s.db.Model(&user).Update("last_login", &now)

	s.logger.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("User logged in")
	c.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// @Summary Admin login
// @Description Authenticate an administrator with form-encoded username and password
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Success 200 {object} TokenResponse
// @Router /auth/login/admin [post]
func (s *Server) loginAdmin(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	if username == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "username and password are required"})
		return
	}

	var admin models.AdminUser
	if err := s.db.Where("username = ?", username).First(&admin).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid username or password"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find admin")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
		return
	}

	if err := auth.VerifyPassword(password, admin.PasswordHash); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid username or password"})
		return
	}

	token, err := auth.GenerateAdminToken(admin.ID, admin.Username)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate token")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to generate token"})
		return
	}

	now := time.Now()
	s.db.Model(&admin).Update("last_login", &now)

	s.logger.Info().Str("admin_id", admin.ID).Str("username", admin.Username).Msg("Admin logged in")
	c.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}
