package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mddrc-dev/training-service/internal/services"
	"github.com/mddrc-dev/training-service/internal/utils"
	"github.com/mddrc-dev/training-service/internal/validator"
)

// CatalogHandler serves the company and training program catalogues.
type CatalogHandler struct {
	BaseHandler
	catalogService services.CatalogService
	validator      *validator.Validator
}

func NewCatalogHandler(
	catalogService services.CatalogService,
	validator *validator.Validator,
	logger utils.Logger,
) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler:    NewBaseHandler(logger),
		catalogService: catalogService,
		validator:      validator,
	}
}

// ===== COMPANIES =====

// CreateCompany creates a client company
// @Summary Create company
// @Tags companies
// @Accept json
// @Produce json
// @Param company body services.CompanyRequest true "Company data"
// @Success 201 {object} models.Company
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /companies [post]
func (h *CatalogHandler) CreateCompany(c *gin.Context) {
	var req services.CompanyRequest
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

	company, err := h.catalogService.CreateCompany(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, company)
}

// UpdateCompany updates a client company
// @Summary Update company
// @Tags companies
// @Accept json
// @Produce json
// @Param id path string true "Company ID"
// @Param company body services.CompanyRequest true "Company data"
// @Success 200 {object} models.Company
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /companies/{id} [put]
func (h *CatalogHandler) UpdateCompany(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.CompanyRequest
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

	company, err := h.catalogService.UpdateCompany(c.Request.Context(), id, &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, company)
}

// DeleteCompany removes a client company
// @Summary Delete company
// @Tags companies
// @Produce json
// @Param id path string true "Company ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /companies/{id} [delete]
func (h *CatalogHandler) DeleteCompany(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == "" {
		return
	}

	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	if err := h.catalogService.DeleteCompany(c.Request.Context(), id, actor); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Company deleted successfully"})
}

// ListCompanies lists client companies
// @Summary List companies
// @Tags companies
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} SuccessResponse
// @Router /companies [get]
func (h *CatalogHandler) ListCompanies(c *gin.Context) {
	limit, offset := h.parsePagination(c)

	companies, total, err := h.catalogService.ListCompanies(c.Request.Context(), limit, offset)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"companies": companies, "total": total})
}

// ===== PROGRAMS =====

// CreateProgram creates a training program
// @Summary Create program
// @Tags programs
// @Accept json
// @Produce json
// @Param program body services.ProgramRequest true "Program data"
// @Success 201 {object} models.Program
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /programs [post]
func (h *CatalogHandler) CreateProgram(c *gin.Context) {
	var req services.ProgramRequest
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

	program, err := h.catalogService.CreateProgram(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, program)
}

// UpdateProgram updates a training program
// @Summary Update program
// @Tags programs
// @Accept json
// @Produce json
// @Param id path string true "Program ID"
// @Param program body services.ProgramRequest true "Program data"
// @Success 200 {object} models.Program
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /programs/{id} [put]
func (h *CatalogHandler) UpdateProgram(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.ProgramRequest
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

	program, err := h.catalogService.UpdateProgram(c.Request.Context(), id, &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, program)
}

// DeleteProgram removes a training program
// @Summary Delete program
// @Tags programs
// @Produce json
// @Param id path string true "Program ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /programs/{id} [delete]
func (h *CatalogHandler) DeleteProgram(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == "" {
		return
	}

	actor := h.currentUser(c)
	if actor == nil {
		return
	}

	if err := h.catalogService.DeleteProgram(c.Request.Context(), id, actor); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Program deleted successfully"})
}

// GetProgram retrieves a training program
// @Summary Get program
// @Tags programs
// @Produce json
// @Param id path string true "Program ID"
// @Success 200 {object} models.Program
// @Failure 404 {object} ErrorResponse
// @Router /programs/{id} [get]
func (h *CatalogHandler) GetProgram(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == "" {
		return
	}

	program, err := h.catalogService.GetProgram(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, program)
}

// ListPrograms lists training programs
// @Summary List programs
// @Tags programs
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} SuccessResponse
// @Router /programs [get]
func (h *CatalogHandler) ListPrograms(c *gin.Context) {
	limit, offset := h.parsePagination(c)

	programs, total, err := h.catalogService.ListPrograms(c.Request.Context(), limit, offset)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"programs": programs, "total": total})
}
