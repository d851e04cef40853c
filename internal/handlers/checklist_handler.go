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

type ChecklistHandler struct {
	BaseHandler
	checklistService services.ChecklistService
	validator        *validator.Validator
}

func NewChecklistHandler(
	checklistService services.ChecklistService,
	validator *validator.Validator,
	logger utils.Logger,
) *ChecklistHandler {
	return &ChecklistHandler{
		BaseHandler:      NewBaseHandler(logger),
		checklistService: checklistService,
		validator:        validator,
	}
}

// CreateTemplate creates a checklist template for a program
// @Summary Create checklist template
// @Tags checklists
// @Accept json
// @Produce json
// @Param template body services.ChecklistTemplateRequest true "Template data"
// @Success 201 {object} models.ChecklistTemplate
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /checklist-templates [post]
func (h *ChecklistHandler) CreateTemplate(c *gin.Context) {
	var req services.ChecklistTemplateRequest
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

	template, err := h.checklistService.CreateTemplate(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, template)
}

// UpdateTemplate updates a checklist template
// @Summary Update checklist template
// @Tags checklists
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param template body services.ChecklistTemplateRequest true "Template data"
// @Success 200 {object} models.ChecklistTemplate
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /checklist-templates/{id} [put]
func (h *ChecklistHandler) UpdateTemplate(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.ChecklistTemplateRequest
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

	template, err := h.checklistService.UpdateTemplate(c.Request.Context(), id, &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, template)
}

// DeleteTemplate removes a checklist template
// @Summary Delete checklist template
// @Tags checklists
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /checklist-templates/{id} [delete]
func (h *ChecklistHandler) DeleteTemplate(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == "" {
		return
	}

	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	if err := h.checklistService.DeleteTemplate(c.Request.Context(), id, actor); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Template deleted successfully"})
}

// GetTemplateForSession returns the checklist template for a session's program
// @Summary Get session checklist template
// @Tags checklists
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.ChecklistTemplate
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/checklist-template [get]
func (h *ChecklistHandler) GetTemplateForSession(c *gin.Context) {
	sessionID := h.parseIDParam(c, "id")
	if sessionID == "" {
		return
	}

	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	template, err := h.checklistService.GetTemplateForSession(c.Request.Context(), sessionID, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, template)
}

// SubmitChecklist stores a participant's vehicle checklist
// @Summary Submit checklist
// @Tags checklists
// @Accept json
// @Produce json
// @Param checklist body services.SubmitChecklistRequest true "Checklist data"
// @Success 201 {object} models.VehicleChecklist
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /checklists [post]
func (h *ChecklistHandler) SubmitChecklist(c *gin.Context) {
	var req services.SubmitChecklistRequest
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

	checklist, err := h.checklistService.Submit(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, checklist)
}

// SubmitTrainerChecklist stores a trainer's inspection checklist
// @Summary Submit trainer checklist
// @Description Records a trainer's inspection of a participant's vehicle
// @Tags checklists
// @Accept json
// @Produce json
// @Param checklist body services.TrainerChecklistRequest true "Inspection data"
// @Success 201 {object} models.VehicleChecklist
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /checklists/trainer [post]
func (h *ChecklistHandler) SubmitTrainerChecklist(c *gin.Context) {
	var req services.TrainerChecklistRequest
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

	checklist, err := h.checklistService.SubmitTrainerChecklist(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, checklist)
}

// VerifyChecklist marks a checklist completed or rejected
// @Summary Verify checklist
// @Tags checklists
// @Accept json
// @Produce json
// @Param id path string true "Checklist ID"
// @Param verdict body services.VerifyChecklistRequest true "Verification verdict"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /checklists/{id}/verify [post]
func (h *ChecklistHandler) VerifyChecklist(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.VerifyChecklistRequest
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

	if err := h.checklistService.Verify(c.Request.Context(), id, &req, actor); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Checklist verified successfully"})
}

// ListChecklists lists a session's submitted checklists
// @Summary List session checklists
// @Tags checklists
// @Produce json
// @Param id path string true "Session ID"
// @Param participant_id query string false "Filter by participant"
// @Param status query string false "Filter by verification status"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/checklists [get]
func (h *ChecklistHandler) ListChecklists(c *gin.Context) {
	sessionID := h.parseIDParam(c, "id")
	if sessionID == "" {
		return
	}

	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	filters := repositories.ChecklistFilters{}
	filters.Limit, filters.Offset = h.parsePagination(c)
	if participantID := c.Query("participant_id"); participantID != "" {
		filters.ParticipantID = &participantID
	}
	if status := c.Query("status"); status != "" {
		s := models.VerificationStatus(status)
		filters.Status = &s
	}

	checklists, total, err := h.checklistService.ListForSession(c.Request.Context(), sessionID, filters, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"checklists": checklists, "total": total})
}

// SubmitVehicleDetails stores a participant's vehicle details
// @Summary Submit vehicle details
// @Tags checklists
// @Accept json
// @Produce json
// @Param details body services.VehicleDetailsRequest true "Vehicle details"
// @Success 200 {object} models.VehicleDetails
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /vehicle-details [post]
func (h *ChecklistHandler) SubmitVehicleDetails(c *gin.Context) {
	var req services.VehicleDetailsRequest
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

	details, err := h.checklistService.SubmitVehicleDetails(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

// GetVehicleDetails returns a participant's vehicle details for a session
// @Summary Get vehicle details
// @Tags checklists
// @Produce json
// @Param id path string true "Session ID"
// @Param participant_id path string true "Participant ID"
// @Success 200 {object} models.VehicleDetails
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/participants/{participant_id}/vehicle-details [get]
func (h *ChecklistHandler) GetVehicleDetails(c *gin.Context) {
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

	details, err := h.checklistService.GetVehicleDetails(c.Request.Context(), sessionID, participantID, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}
