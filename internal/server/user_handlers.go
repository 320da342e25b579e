package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/briefhub-dev/briefhub/internal/auth"
	"github.com/briefhub-dev/briefhub/internal/models"
)

// UpdateProfileRequest is a partial update of the caller's own profile
type UpdateProfileRequest struct {
	Nickname    *string `json:"nickname"`
	PhoneNumber *string `json:"phone_number"`
	Password    *string `json:"password"`
}

// UpdateUserRequest is an admin-side partial update of a user account
type UpdateUserRequest struct {
	Nickname      *string `json:"nickname"`
	PhoneNumber   *string `json:"phone_number"`
	EmailVerified *bool   `json:"email_verified"`
	IsActive      *bool   `json:"is_active"`
	IsAdmin       *bool   `json:"is_admin"`
}

// @Summary Get own profile
// @Tags users
// @Produce json
// @Success 200 {object} models.User
// @Router /users/me [get]
func (s *Server) getOwnProfile(c *gin.Context) {
	session, _ := GetSessionData(c)

	var user models.User
	if err := models.FindByID(s.db, session.UserID, &user); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} models.User
// @Router /users/me [put]
func (s *Server) updateOwnProfile(c *gin.Context) {
	session, _ := GetSessionData(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	var user models.User
	if err := models.FindByID(s.db, session.UserID, &user); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
		return
	}

	updates := map[string]any{}
	if req.Nickname != nil && *req.Nickname != "" {
		if err := s.validator.Var(*req.Nickname, "nickname"); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Nickname contains invalid characters"})
			return
		}
		updates["nickname"] = *req.Nickname
	}
	if req.PhoneNumber != nil {
		if *req.PhoneNumber != "" {
			if err := s.validator.Var(*req.PhoneNumber, "phone"); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"detail": "Phone number must be 12 to 14 digits"})
				return
			}
		}
		updates["phone_number"] = *req.PhoneNumber
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to hash password")
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update profile"})
			return
		}
		updates["password_hash"] = hash
	}

	if len(updates) > 0 {
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			s.logger.Error().Err(err).Msg("Failed to update profile")
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update profile"})
			return
		}
	}

	c.JSON(http.StatusOK, user)
}

// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} models.User
// @Router /users [get]
func (s *Server) listUsers(c *gin.Context) {
	var users []models.User
	if err := s.db.Order("created_at DESC").Find(&users).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list users")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to list users"})
		return
	}

	c.JSON(http.StatusOK, users)
}

// @Summary Get user
// @Tags users
// @Produce json
// @Success 200 {object} models.User
// @Router /users/{id} [get]
func (s *Server) getUser(c *gin.Context) {
	var user models.User
	if err := models.FindByID(s.db, c.Param("id"), &user); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to load user")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary Update user
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} models.User
// @Router /users/{id} [put]
func (s *Server) updateUser(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	var user models.User
	if err := models.FindByID(s.db, c.Param("id"), &user); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
		return
	}

	updates := map[string]any{}
	if req.Nickname != nil && *req.Nickname != "" {
		updates["nickname"] = *req.Nickname
	}
	if req.PhoneNumber != nil {
		if *req.PhoneNumber != "" {
			if err := s.validator.Var(*req.PhoneNumber, "phone"); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"detail": "Phone number must be 12 to 14 digits"})
				return
			}
		}
		updates["phone_number"] = *req.PhoneNumber
	}
	if req.EmailVerified != nil {
		updates["email_verified"] = *req.EmailVerified
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.IsAdmin != nil {
		updates["is_admin"] = *req.IsAdmin
	}

	if len(updates) > 0 {
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			s.logger.Error().Err(err).Msg("Failed to update user")
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update user"})
			return
		}
	}

	c.JSON(http.StatusOK, user)
}

// @Summary Delete user
// @Tags users
// @Produce json
// @Router /users/{id} [delete]
func (s *Server) deleteUser(c *gin.Context) {
	var user models.User
	if err := models.FindByID(s.db, c.Param("id"), &user); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
		return
	}

	if err := s.db.Delete(&user).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to delete user")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to delete user"})
		return
	}

	s.logger.Info().Str("user_id", user.ID).Msg("User deleted")
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
