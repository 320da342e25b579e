package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"github.com/briefhub-dev/briefhub/internal/briefings"
	"github.com/briefhub-dev/briefhub/internal/models"
	"github.com/briefhub-dev/briefhub/internal/tasks"
)

// CreateBriefingRequest starts a new briefing
type CreateBriefingRequest struct {
	Title   string         `json:"title" binding:"required"`
	Content models.JSONMap `json:"content"`
}

// UpdateBriefingRequest is a partial update of a briefing
type UpdateBriefingRequest struct {
	Title   *string        `json:"title"`
	Content models.JSONMap `json:"content"`
}

// ChatRequest is one user message to an AI employee
type ChatRequest struct {
	UserMessage string `json:"user_message" binding:"required"`
}

// ChatResponse is the employee's reply
type ChatResponse struct {
	Reply             string `json:"reply"`
	InterviewComplete bool   `json:"interview_complete"`
}

// respondBriefingError maps service errors onto the API's error contract
func (s *Server) respondBriefingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, briefings.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Briefing not found"})
	case errors.Is(err, briefings.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"detail": "You do not have access to this briefing"})
	case errors.Is(err, briefings.ErrDuplicateTitle):
		c.JSON(http.StatusConflict, gin.H{"detail": "A briefing with this title already exists"})
	case errors.Is(err, briefings.ErrNotCompilable):
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Briefing has no conversation to compile"})
	default:
		s.logger.Error().Err(err).Msg("Briefing operation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
	}
}

// @Summary Create briefing
// @Tags briefings
// @Accept json
// @Produce json
// @Success 201 {object} models.Briefing
// @Router /briefings [post]
func (s *Server) createBriefing(c *gin.Context) {
	session, _ := GetSessionData(c)

	var req CreateBriefingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	briefing, err := s.briefingsService.Create(session.UserID, req.Title, req.Content)
	if err != nil {
		s.respondBriefingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, briefing)
}

// @Summary List briefings
// @Tags briefings
// @Produce json
// @Success 200 {array} models.Briefing
// @Router /briefings [get]
func (s *Server) listBriefings(c *gin.Context) {
	session, _ := GetSessionData(c)

	list, err := s.briefingsService.ListForUser(session.UserID)
	if err != nil {
		s.respondBriefingError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// @Summary Get briefing with conversation history
// @Tags briefings
// @Produce json
// @Success 200 {object} models.Briefing
// @Router /briefings/{id} [get]
func (s *Server) getBriefing(c *gin.Context) {
	session, _ := GetSessionData(c)

	briefing, err := s.briefingsService.GetForUser(session.UserID, c.Param("id"))
	if err != nil {
		s.respondBriefingError(c, err)
		return
	}

	c.JSON(http.StatusOK, briefing)
}

// @Summary Update briefing
// @Tags briefings
// @Accept json
// @Produce json
// @Success 200 {object} models.Briefing
// @Router /briefings/{id} [put]
func (s *Server) updateBriefing(c *gin.Context) {
	session, _ := GetSessionData(c)

	var req UpdateBriefingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	briefing, err := s.briefingsService.Update(session.UserID, c.Param("id"), req.Title, req.Content)
	if err != nil {
		s.respondBriefingError(c, err)
		return
	}

	c.JSON(http.StatusOK, briefing)
}

// @Summary Delete briefing
// @Tags briefings
// @Produce json
// @Router /briefings/{id} [delete]
func (s *Server) deleteBriefing(c *gin.Context) {
	session, _ := GetSessionData(c)

	if err := s.briefingsService.Delete(session.UserID, c.Param("id")); err != nil {
		s.respondBriefingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Briefing deleted"})
}

// @Summary Chat with an AI employee
// @Tags briefings
// @Accept json
// @Produce json
// @Success 200 {object} ChatResponse
// @Router /briefings/{id}/chat/{employee_name} [post]
func (s *Server) chatWithEmployee(c *gin.Context) {
	session, _ := GetSessionData(c)

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	result, err := s.briefingsService.Chat(
		c.Request.Context(), session.UserID, c.Param("id"), c.Param("employee_name"), req.UserMessage)
	if err != nil {
		if errors.Is(err, briefings.ErrNotFound) || errors.Is(err, briefings.ErrNotOwner) {
			s.respondBriefingError(c, err)
			return
		}
		s.logger.Error().Err(err).Msg("Chat failed")
		c.JSON(http.StatusBadGateway, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, ChatResponse{
		Reply:             result.Reply,
		InterviewComplete: result.InterviewComplete,
	})
}

// @Summary Compile briefing
// @Description Marks the briefing as compiling and enqueues the compile task;
// poll the briefing until its status reaches completed or compile_failed
// @Tags briefings
// @Produce json
// @Success 202 {object} models.Briefing
// @Router /briefings/{id}/compile [post]
func (s *Server) compileBriefing(c *gin.Context) {
	session, _ := GetSessionData(c)

	briefing, err := s.briefingsService.MarkCompiling(session.UserID, c.Param("id"))
	if err != nil {
		s.respondBriefingError(c, err)
		return
	}

	task, err := tasks.NewCompileBriefingTask(briefing.ID)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to create compile task")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to enqueue compilation"})
		return
	}
	if _, err := s.asynqClient.Enqueue(task, asynq.Queue("critical")); err != nil {
		s.logger.Error().Err(err).Msg("Failed to enqueue compile task")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to enqueue compilation"})
		return
	}

	s.logger.Info().Str("briefing_id", briefing.ID).Msg("Compile task enqueued")
	c.JSON(http.StatusAccepted, briefing)
}
