package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/briefhub-dev/briefhub/internal/auth"
	"github.com/briefhub-dev/briefhub/internal/models"
)

// CreateAdminUserRequest creates a new administrator account
type CreateAdminUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// UpdateAdminUserRequest is a partial update of an administrator account
type UpdateAdminUserRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

// @Summary List admin users
// @Tags admin_users
// @Produce json
// @Success 200 {array} models.AdminUser
// @Router /admin_users [get]
func (s *Server) listAdminUsers(c *gin.Context) {
	var admins []models.AdminUser
	if err := s.db.Order("created_at ASC").Find(&admins).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list admin users")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to list admin users"})
		return
	}

	c.JSON(http.StatusOK, admins)
}

// @Summary Create admin user
// @Tags admin_users
// @Accept json
// @Produce json
// @Success 201 {object} models.AdminUser
// @Router /admin_users [post]
func (s *Server) createAdminUser(c *gin.Context) {
	var req CreateAdminUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	var existing models.AdminUser
	if err := s.db.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"detail": "Username already taken"})
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create admin user"})
		return
	}

	admin := &models.AdminUser{
		Username:     req.Username,
		PasswordHash: passwordHash,
	}
	if err := s.db.Create(admin).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create admin user")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create admin user"})
		return
	}

	s.logger.Info().Str("admin_id", admin.ID).Str("username", admin.Username).Msg("Admin user created")
	c.JSON(http.StatusCreated, admin)
}

// @Summary Get own admin profile
// @Tags admin_users
// @Produce json
// @Success 200 {object} models.AdminUser
// @Router /admin_users/me [get]
func (s *Server) getOwnAdminProfile(c *gin.Context) {
	session, _ := GetSessionData(c)

	var admin models.AdminUser
	if err := models.FindByID(s.db, session.UserID, &admin); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Admin user not found"})
		return
	}

	c.JSON(http.StatusOK, admin)
}

// @Summary Get admin user
// @Tags admin_users
// @Produce json
// @Success 200 {object} models.AdminUser
// @Router /admin_users/{id} [get]
func (s *Server) getAdminUser(c *gin.Context) {
	var admin models.AdminUser
	if err := models.FindByID(s.db, c.Param("id"), &admin); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Admin user not found"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to load admin user")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, admin)
}

// @Summary Update admin user
// @Tags admin_users
// @Accept json
// @Produce json
// @Success 200 {object} models.AdminUser
// @Router /admin_users/{id} [put]
func (s *Server) updateAdminUser(c *gin.Context) {
	var req UpdateAdminUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	var admin models.AdminUser
	if err := models.FindByID(s.db, c.Param("id"), &admin); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Admin user not found"})
		return
	}

	updates := map[string]any{}
	if req.Username != nil && *req.Username != "" {
		updates["username"] = *req.Username
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to hash password")
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update admin user"})
			return
		}
		updates["password_hash"] = hash
	}

	if len(updates) > 0 {
		if err := s.db.Model(&admin).Updates(updates).Error; err != nil {
			s.logger.Error().Err(err).Msg("Failed to update admin user")
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update admin user"})
			return
		}
	}

	c.JSON(http.StatusOK, admin)
}

// @Summary Delete admin user
// @Tags admin_users
// @Produce json
// @Router /admin_users/{id} [delete]
func (s *Server) deleteAdminUser(c *gin.Context) {
	session, _ := GetSessionData(c)

	if session.UserID == c.Param("id") {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Cannot delete your own admin account"})
		return
	}

	var admin models.AdminUser
	if err := models.FindByID(s.db, c.Param("id"), &admin); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Admin user not found"})
		return
	}

	if err := s.db.Delete(&admin).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to delete admin user")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to delete admin user"})
		return
	}

	s.logger.Info().Str("admin_id", admin.ID).Msg("Admin user deleted")
	c.JSON(http.StatusOK, gin.H{"message": "Admin user deleted"})
}
