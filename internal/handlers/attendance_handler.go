package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mddrc-dev/training-service/internal/services"
	"github.com/mddrc-dev/training-service/internal/utils"
	"github.com/mddrc-dev/training-service/internal/validator"
)

type AttendanceHandler struct {
	BaseHandler
	attendanceService services.AttendanceService
	validator         *validator.Validator
}

func NewAttendanceHandler(
	attendanceService services.AttendanceService,
	validator *validator.Validator,
	logger utils.Logger,
) *AttendanceHandler {
	return &AttendanceHandler{
		BaseHandler:       NewBaseHandler(logger),
		attendanceService: attendanceService,
		validator:         validator,
	}
}

// ClockIn records the caller's clock-in for today
// @Summary Clock in
// @Tags attendance
// @Accept json
// @Produce json
// @Param request body services.ClockRequest true "Session reference"
// @Success 200 {object} models.Attendance
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /attendance/clock-in [post]
func (h *AttendanceHandler) ClockIn(c *gin.Context) {
	var req services.ClockRequest
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

	record, err := h.attendanceService.ClockIn(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// ClockOut records the caller's clock-out for today
// @Summary Clock out
// @Tags attendance
// @Accept json
// @Produce json
// @Param request body services.ClockRequest true "Session reference"
// @Success 200 {object} models.Attendance
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /attendance/clock-out [post]
func (h *AttendanceHandler) ClockOut(c *gin.Context) {
	var req services.ClockRequest
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

	record, err := h.attendanceService.ClockOut(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// GetSessionAttendance lists a session's attendance with aggregates
// @Summary Get session attendance
// @Tags attendance
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.AttendanceResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/attendance [get]
func (h *AttendanceHandler) GetSessionAttendance(c *gin.Context) {
	sessionID := h.parseIDParam(c, "id")
	if sessionID == "" {
		return
	}

	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	resp, err := h.attendanceService.GetSessionAttendance(c.Request.Context(), sessionID, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetMyAttendance lists the caller's attendance records for a session
// @Summary Get my attendance
// @Tags attendance
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/my-attendance [get]
func (h *AttendanceHandler) GetMyAttendance(c *gin.Context) {
	sessionID := h.parseIDParam(c, "id")
	if sessionID == "" {
		return
	}

	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	records, err := h.attendanceService.GetMyAttendance(c.Request.Context(), sessionID, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"attendance": records, "total": len(records)})
}
