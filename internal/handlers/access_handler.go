package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mddrc-dev/training-service/internal/models"
	"github.com/mddrc-dev/training-service/internal/services"
	"github.com/mddrc-dev/training-service/internal/utils"
	"github.com/mddrc-dev/training-service/internal/validator"
)

// AccessHandler serves participant feature gates and certificates.
type AccessHandler struct {
	BaseHandler
	accessService services.AccessService
	validator     *validator.Validator
}

func NewAccessHandler(
	accessService services.AccessService,
	validator *validator.Validator,
	logger utils.Logger,
) *AccessHandler {
	return &AccessHandler{
		BaseHandler:   NewBaseHandler(logger),
		accessService: accessService,
		validator:     validator,
	}
}

// GetMyAccess returns the caller's gate states for a session
// @Summary Get my access
// @Tags access
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.ParticipantAccess
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/my-access [get]
func (h *AccessHandler) GetMyAccess(c *gin.Context) {
	sessionID := h.parseIDParam(c, "id")
	if sessionID == "" {
		return
	}

	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	access, err := h.accessService.GetMyAccess(c.Request.Context(), sessionID, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, access)
}

// ListAccess lists gate states for every participant in a session
// @Summary List session access
// @Tags access
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/access [get]
func (h *AccessHandler) ListAccess(c *gin.Context) {
	sessionID := h.parseIDParam(c, "id")
	if sessionID == "" {
		return
	}

	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	records, err := h.accessService.ListForSession(c.Request.Context(), sessionID, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"access": records, "total": len(records)})
}

// UpdateGate opens or closes one gate for one participant
// @Summary Update participant gate
// @Tags access
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param participant_id path string true "Participant ID"
// @Param gate body services.UpdateAccessRequest true "Gate and target state"
// @Success 200 {object} models.ParticipantAccess
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/access/{participant_id} [put]
func (h *AccessHandler) UpdateGate(c *gin.Context) {
	sessionID := h.parseIDParam(c, "id")
	if sessionID == "" {
		return
	}
	participantID := h.parseIDParam(c, "participant_id")
	if participantID == "" {
		return
	}

	var req services.UpdateAccessRequest
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

	access, err := h.accessService.UpdateGate(c.Request.Context(), sessionID, participantID, &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, access)
}

// BulkToggleGate toggles one gate for a list of participants
// @Summary Bulk toggle gate
// @Description Applies the toggle per participant and reports each outcome
// @Tags access
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param toggle body services.BulkToggleRequest true "Gate, state and participant IDs"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /sessions/{id}/access/bulk [post]
func (h *AccessHandler) BulkToggleGate(c *gin.Context) {
	sessionID := h.parseIDParam(c, "id")
	if sessionID == "" {
		return
	}

	var req services.BulkToggleRequest
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

	outcomes, err := h.accessService.BulkToggle(c.Request.Context(), sessionID, &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"outcomes": outcomes})
}

type releaseGateRequest struct {
	Gate string `json:"gate" binding:"required"`
}

// ReleaseGate opens one gate for every participant in a session
// @Summary Release gate
// @Tags access
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param gate body releaseGateRequest true "Gate to release"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /sessions/{id}/access/release [post]
func (h *AccessHandler) ReleaseGate(c *gin.Context) {
	sessionID := h.parseIDParam(c, "id")
	if sessionID == "" {
		return
	}

	var req releaseGateRequest
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

	gate := models.AccessGate(req.Gate)
	if !gate.Valid() {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Unknown gate: " + req.Gate,
		})
		return
	}

	if err := h.accessService.ReleaseGate(c.Request.Context(), sessionID, gate, actor); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Gate released successfully"})
}

// UploadCertificate records a certificate URL for a participant
// @Summary Upload certificate
// @Tags certificates
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param certificate body services.UploadCertificateRequest true "Certificate data"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /sessions/{id}/certificates [post]
func (h *AccessHandler) UploadCertificate(c *gin.Context) {
	sessionID := h.parseIDParam(c, "id")
	if sessionID == "" {
		return
	}

	var req services.UploadCertificateRequest
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

	if err := h.accessService.UploadCertificate(c.Request.Context(), sessionID, &req, actor); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Certificate uploaded successfully"})
}

// CheckEligibility evaluates certificate eligibility for a participant
// @Summary Check eligibility
// @Tags certificates
// @Produce json
// @Param id path string true "Session ID"
// @Param participant_id path string true "Participant ID"
// @Success 200 {object} services.EligibilityResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/participants/{participant_id}/eligibility [get]
func (h *AccessHandler) CheckEligibility(c *gin.Context) {
	sessionID := h.parseIDParam(c, "id")
	if sessionID == "" {
		return
	}
	participantID := h.parseIDParam(c, "participant_id")
	if participantID == "" {
		return
	}

	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	resp, err := h.accessService.CheckEligibility(c.Request.Context(), sessionID, participantID, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DownloadCertificate returns the certificate URL when eligible
// @Summary Download certificate
// @Tags certificates
// @Produce json
// @Param id path string true "Session ID"
// @Param participant_id path string true "Participant ID"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/participants/{participant_id}/certificate [get]
func (h *AccessHandler) DownloadCertificate(c *gin.Context) {
	sessionID := h.parseIDParam(c, "id")
	if sessionID == "" {
		return
	}
	participantID := h.parseIDParam(c, "participant_id")
	if participantID == "" {
		return
	}

	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	url, err := h.accessService.DownloadCertificate(c.Request.Context(), sessionID, participantID, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"certificate_url": url})
}

// ListCertificates lists uploaded certificates across sessions
// @Summary List certificates
// @Tags certificates
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Router /certificates [get]
func (h *AccessHandler) ListCertificates(c *gin.Context) {
	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	limit, offset := h.parsePagination(c)

	records, total, err := h.accessService.ListCertificates(c.Request.Context(), limit, offset, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"certificates": records, "total": total})
}
