package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mddrc-dev/training-service/internal/models"
	"github.com/mddrc-dev/training-service/internal/services"
	"github.com/mddrc-dev/training-service/internal/utils"
	"github.com/mddrc-dev/training-service/internal/validator"
)

type TestHandler struct {
	BaseHandler
	testService services.TestService
	validator   *validator.Validator
}

func NewTestHandler(
	testService services.TestService,
	validator *validator.Validator,
	logger utils.Logger,
) *TestHandler {
	return &TestHandler{
		BaseHandler: NewBaseHandler(logger),
		testService: testService,
		validator:   validator,
	}
}

// CreateTest creates or replaces a program's test
// @Summary Create test
// @Description Creates a test for a program, replacing any existing test of the same type
// @Tags tests
// @Accept json
// @Produce json
// @Param test body services.CreateTestRequest true "Test data"
// @Success 201 {object} models.Test
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /tests [post]
func (h *TestHandler) CreateTest(c *gin.Context) {
	var req services.CreateTestRequest
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

	test, err := h.testService.CreateTest(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, test)
}

// DeleteTest removes a test
// @Summary Delete test
// @Tags tests
// @Produce json
// @Param id path string true "Test ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /tests/{id} [delete]
func (h *TestHandler) DeleteTest(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == "" {
		return
	}

	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	if err := h.testService.DeleteTest(c.Request.Context(), id, actor); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Test deleted successfully"})
}

// GetTestForParticipant delivers a test with answers stripped
// @Summary Get test for participant
// @Description Returns the session's test in a shuffled order with answers removed
// @Tags tests
// @Produce json
// @Param id path string true "Session ID"
// @Param type path string true "Test type (pre_test or post_test)"
// @Success 200 {object} services.TestForParticipant
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/tests/{type} [get]
func (h *TestHandler) GetTestForParticipant(c *gin.Context) {
	sessionID := h.parseIDParam(c, "id")
	if sessionID == "" {
		return
	}
	testType := models.TestType(c.Param("type"))

	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	test, err := h.testService.GetTestForParticipant(c.Request.Context(), sessionID, testType, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, test)
}

// SubmitTest scores and stores a test submission
// @Summary Submit test
// @Tags tests
// @Accept json
// @Produce json
// @Param submission body services.SubmitTestRequest true "Answers in delivery order"
// @Success 201 {object} services.TestResultResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /tests/submit [post]
func (h *TestHandler) SubmitTest(c *gin.Context) {
	var req services.SubmitTestRequest
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

	result, err := h.testService.SubmitTest(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// GetResults lists a participant's test attempts for a session
// @Summary Get test results
// @Tags tests
// @Produce json
// @Param id path string true "Session ID"
// @Param participant_id path string true "Participant ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/participants/{participant_id}/results [get]
func (h *TestHandler) GetResults(c *gin.Context) {
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

	results, err := h.testService.GetResults(c.Request.Context(), sessionID, participantID, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results, "total": len(results)})
}
