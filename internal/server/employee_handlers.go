package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/briefhub-dev/briefhub/internal/models"
)

// UpdateEmployeeRequest is a partial update of an AI employee persona
type UpdateEmployeeRequest struct {
	Role         *string `json:"role"`
	Email        *string `json:"email"`
	SystemPrompt *string `json:"system_prompt"`
	Model        *string `json:"model"`
	IsActive     *bool   `json:"is_active"`
}

// ConnectionTestResult reports one employee's AI provider check
type ConnectionTestResult struct {
	Employee string `json:"employee"`
	OK       bool   `json:"ok"`
	Error    string `json:"error,omitempty"`
}

// @Summary List employees
// @Tags employees
// @Produce json
// @Success 200 {array} models.Employee
// @Router /employees [get]
func (s *Server) listEmployees(c *gin.Context) {
	var roster []models.Employee
	if err := s.db.Order("name ASC").Find(&roster).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list employees")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to list employees"})
		return
	}

	c.JSON(http.StatusOK, roster)
}

// @Summary Get employee
// @Tags employees
// @Produce json
// @Success 200 {object} models.Employee
// @Router /employees/{id} [get]
func (s *Server) getEmployee(c *gin.Context) {
	var employee models.Employee
	if err := models.FindByID(s.db, c.Param("id"), &employee); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Employee not found"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to load employee")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, employee)
}

// @Summary Update employee
// @Description The roster is fixed: personas can be tuned but not created or deleted
// @Tags employees
// @Accept json
// @Produce json
// @Success 200 {object} models.Employee
// @Router /employees/{id} [put]
func (s *Server) updateEmployee(c *gin.Context) {
	var req UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	var employee models.Employee
	if err := models.FindByID(s.db, c.Param("id"), &employee); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Employee not found"})
		return
	}

	updates := map[string]any{}
	if req.Role != nil && *req.Role != "" {
		updates["role"] = *req.Role
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.SystemPrompt != nil && *req.SystemPrompt != "" {
		updates["system_prompt"] = *req.SystemPrompt
	}
	if req.Model != nil {
		updates["model"] = *req.Model
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(&employee).Updates(updates).Error; err != nil {
			s.logger.Error().Err(err).Msg("Failed to update employee")
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update employee"})
			return
		}
	}

	c.JSON(http.StatusOK, employee)
}

// @Summary Test AI connections
// @Description Pings the AI provider once per active employee persona
// @Tags employees
// @Produce json
// @Success 200 {array} ConnectionTestResult
// @Router /employees/test_ai_connections [get]
func (s *Server) testAIConnections(c *gin.Context) {
	var roster []models.Employee
	if err := s.db.Where("is_active = ?", true).Order("name ASC").Find(&roster).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list employees")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to list employees"})
		return
	}

	results := make([]ConnectionTestResult, 0, len(roster))
	for _, employee := range roster {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		err := s.aiClient.Ping(ctx, employee.Model)
		cancel()

		result := ConnectionTestResult{Employee: employee.Name, OK: err == nil}
		if err != nil {
			result.Error = err.Error()
			s.logger.Warn().Err(err).Str("employee", employee.Name).Msg("AI connection test failed")
		}
		results = append(results, result)
	}

	c.JSON(http.StatusOK, results)
}
