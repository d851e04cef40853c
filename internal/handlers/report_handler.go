package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mddrc-dev/training-service/internal/models"
	"github.com/mddrc-dev/training-service/internal/repositories"
	"github.com/mddrc-dev/training-service/internal/services"
	"github.com/mddrc-dev/training-service/internal/utils"
	"github.com/mddrc-dev/training-service/internal/validator"
)

type ReportHandler struct {
	BaseHandler
	reportService services.ReportService
	validator     *validator.Validator
}

func NewReportHandler(
	reportService services.ReportService,
	validator *validator.Validator,
	logger utils.Logger,
) *ReportHandler {
	return &ReportHandler{
		BaseHandler:   NewBaseHandler(logger),
		reportService: reportService,
		validator:     validator,
	}
}

// SaveReport saves a training report draft or submits it
// @Summary Save training report
// @Description Saves report photos and notes, optionally submitting the report
// @Tags reports
// @Accept json
// @Produce json
// @Param report body services.ReportRequest true "Report data"
// @Success 200 {object} models.TrainingReport
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /reports [post]
func (h *ReportHandler) SaveReport(c *gin.Context) {
	var req services.ReportRequest
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

	report, err := h.reportService.Save(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetReport returns a session's training report
// @Summary Get session report
// @Tags reports
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.TrainingReport
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/report [get]
func (h *ReportHandler) GetReport(c *gin.Context) {
	sessionID := h.parseIDParam(c, "id")
	if sessionID == "" {
		return
	}

	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	report, err := h.reportService.GetBySession(c.Request.Context(), sessionID, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// ListReports lists training reports visible to the caller
// @Summary List reports
// @Tags reports
// @Produce json
// @Param status query string false "Filter by status"
// @Param session_id query string false "Filter by session"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Router /reports [get]
func (h *ReportHandler) ListReports(c *gin.Context) {
	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	filters := repositories.ReportFilters{}
	filters.Limit, filters.Offset = h.parsePagination(c)
	if status := c.Query("status"); status != "" {
		s := models.ReportStatus(status)
		filters.Status = &s
	}
	if sessionID := c.Query("session_id"); sessionID != "" {
		filters.SessionID = &sessionID
	}

	reports, total, err := h.reportService.List(c.Request.Context(), filters, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports, "total": total})
}
