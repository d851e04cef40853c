package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mddrc-dev/training-service/internal/services"
	"github.com/mddrc-dev/training-service/internal/utils"
	"github.com/mddrc-dev/training-service/internal/validator"
)

type FeedbackHandler struct {
	BaseHandler
	feedbackService services.FeedbackService
	validator       *validator.Validator
}

func NewFeedbackHandler(
	feedbackService services.FeedbackService,
	validator *validator.Validator,
	logger utils.Logger,
) *FeedbackHandler {
	return &FeedbackHandler{
		BaseHandler:     NewBaseHandler(logger),
		feedbackService: feedbackService,
		validator:       validator,
	}
}

// CreateTemplate creates a feedback form template for a program
// @Summary Create feedback template
// @Tags feedback
// @Accept json
// @Produce json
// @Param template body services.FeedbackTemplateRequest true "Template data"
// @Success 201 {object} models.FeedbackTemplate
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /feedback-templates [post]
func (h *FeedbackHandler) CreateTemplate(c *gin.Context) {
	var req services.FeedbackTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	template, err := h.feedbackService.CreateTemplate(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, template)
}

// DeleteTemplate removes a feedback template
// @Summary Delete feedback template
// @Tags feedback
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /feedback-templates/{id} [delete]
func (h *FeedbackHandler) DeleteTemplate(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == "" {
		return
	}

	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	if err := h.feedbackService.DeleteTemplate(c.Request.Context(), id, actor); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Template deleted successfully"})
}

// GetTemplateForSession returns the feedback form for a session's program
// @Summary Get session feedback template
// @Tags feedback
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.FeedbackTemplate
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/feedback-template [get]
func (h *FeedbackHandler) GetTemplateForSession(c *gin.Context) {
	sessionID := h.parseIDParam(c, "id")
	if sessionID == "" {
		return
	}

	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	template, err := h.feedbackService.GetTemplateForSession(c.Request.Context(), sessionID, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, template)
}

// SubmitFeedback stores a participant's course feedback
// @Summary Submit feedback
// @Tags feedback
// @Accept json
// @Produce json
// @Param feedback body services.SubmitFeedbackRequest true "Feedback data"
// @Success 201 {object} models.CourseFeedback
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /feedback [post]
func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	var req services.SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	feedback, err := h.feedbackService.Submit(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, feedback)
}

// ListFeedback lists a session's feedback submissions
// @Summary List session feedback
// @Tags feedback
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/feedback [get]
func (h *FeedbackHandler) ListFeedback(c *gin.Context) {
	sessionID := h.parseIDParam(c, "id")
	if sessionID == "" {
		return
	}

	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	feedback, err := h.feedbackService.ListForSession(c.Request.Context(), sessionID, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"feedback": feedback, "total": len(feedback)})
}
