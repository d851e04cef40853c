package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mddrc-dev/training-service/internal/models"
	"github.com/mddrc-dev/training-service/internal/repositories"
	"github.com/mddrc-dev/training-service/internal/services"
	"github.com/mddrc-dev/training-service/internal/utils"
	"github.com/mddrc-dev/training-service/internal/validator"
)

type SessionHandler struct {
	BaseHandler
	sessionService services.SessionService
	validator      *validator.Validator
}

func NewSessionHandler(
	sessionService services.SessionService,
	validator *validator.Validator,
	logger utils.Logger,
) *SessionHandler {
	return &SessionHandler{
		BaseHandler:    NewBaseHandler(logger),
		sessionService: sessionService,
		validator:      validator,
	}
}

// CreateSession creates a training session with its roster
// @Summary Create session
// @Description Creates a session, enrolling participants and supervisors by email
// @Tags sessions
// @Accept json
// @Produce json
// @Param session body services.CreateSessionRequest true "Session data"
// @Success 201 {object} services.SessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /sessions [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req services.CreateSessionRequest
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

	h.LogRequest(c, "Creating session", "program_id", req.ProgramID)

	session, err := h.sessionService.Create(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

// GetSession retrieves a session by ID
// @Summary Get session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.SessionResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == "" {
		return
	}

	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	session, err := h.sessionService.GetByID(c.Request.Context(), id, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// UpdateSession updates session details
// @Summary Update session
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param session body services.UpdateSessionRequest true "Fields to update"
// @Success 200 {object} services.SessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id} [put]
func (h *SessionHandler) UpdateSession(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.UpdateSessionRequest
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

	session, err := h.sessionService.Update(c.Request.Context(), id, &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// DeleteSession removes a session and its dependent records
// @Summary Delete session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id} [delete]
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == "" {
		return
	}

	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	if err := h.sessionService.Delete(c.Request.Context(), id, actor); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Session deleted successfully"})
}

// ToggleSessionStatus flips a session between active and inactive
// @Summary Toggle session status
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.Session
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/toggle-status [post]
func (h *SessionHandler) ToggleSessionStatus(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == "" {
		return
	}

	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	session, err := h.sessionService.ToggleStatus(c.Request.Context(), id, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// ListSessions lists sessions scoped by the caller's role
// @Summary List sessions
// @Tags sessions
// @Produce json
// @Param status query string false "Filter by status"
// @Param company_id query string false "Filter by company"
// @Param program_id query string false "Filter by program"
// @Param date_from query string false "Start date (YYYY-MM-DD)"
// @Param date_to query string false "End date (YYYY-MM-DD)"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} services.SessionListResponse
// @Failure 403 {object} ErrorResponse
// @Router /sessions [get]
func (h *SessionHandler) ListSessions(c *gin.Context) {
	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	filters := repositories.SessionFilters{}
	filters.Limit, filters.Offset = h.parsePagination(c)
	if status := c.Query("status"); status != "" {
		s := models.SessionStatus(status)
		filters.Status = &s
	}
	if companyID := c.Query("company_id"); companyID != "" {
		filters.CompanyID = &companyID
	}
	if programID := c.Query("program_id"); programID != "" {
		filters.ProgramID = &programID
	}
	if from := c.Query("date_from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filters.DateFrom = &t
		}
	}
	if to := c.Query("date_to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			filters.DateTo = &t
		}
	}

	resp, err := h.sessionService.List(c.Request.Context(), filters, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListMySessions lists the sessions the caller belongs to
// @Summary List my sessions
// @Tags sessions
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /my-sessions [get]
func (h *SessionHandler) ListMySessions(c *gin.Context) {
	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	sessions, err := h.sessionService.ListMine(c.Request.Context(), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": sessions, "total": len(sessions)})
}

// GetParticipants lists a session's full roster
// @Summary Get session participants
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/participants [get]
func (h *SessionHandler) GetParticipants(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == "" {
		return
	}

	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	participants, err := h.sessionService.GetParticipants(c.Request.Context(), id, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"participants": participants, "total": len(participants)})
}

// GetAssignedParticipants lists the caller's slice of the roster
// @Summary Get assigned participants
// @Description Returns the trainer's deterministic share of the session roster
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/assigned-participants [get]
func (h *SessionHandler) GetAssignedParticipants(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == "" {
		return
	}

	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	participants, err := h.sessionService.GetAssignedParticipants(c.Request.Context(), id, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"participants": participants, "total": len(participants)})
}

// GetStatus returns the per-gate release and completion rollup
// @Summary Get session status rollup
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.SessionStatusResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/status [get]
func (h *SessionHandler) GetStatus(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == "" {
		return
	}

	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	status, err := h.sessionService.GetStatus(c.Request.Context(), id, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// GetResultsSummary returns per-participant results with aggregates
// @Summary Get session results summary
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.ResultsSummaryResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/results [get]
func (h *SessionHandler) GetResultsSummary(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == "" {
		return
	}

	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	summary, err := h.sessionService.GetResultsSummary(c.Request.Context(), id, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// SubmitChiefComments stores the chief trainer's session comments
// @Summary Submit chief comments
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param comments body services.ChiefCommentsRequest true "Comments"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/chief-comments [post]
func (h *SessionHandler) SubmitChiefComments(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.ChiefCommentsRequest
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

	if err := h.sessionService.SubmitChiefComments(c.Request.Context(), id, &req, actor); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Chief comments submitted successfully"})
}
