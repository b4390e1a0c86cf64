package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brunodmn/escola-admin-api/internal/service"
	appErrors "github.com/brunodmn/escola-admin-api/pkg/errors"
	"github.com/brunodmn/escola-admin-api/pkg/response"
)

// ClassHandler wires HTTP endpoints to the class service.
type ClassHandler struct {
	service *service.ClassService
	exports *service.ExportService
}

// NewClassHandler creates a new handler.
func NewClassHandler(svc *service.ClassService, exports *service.ExportService) *ClassHandler {
	return &ClassHandler{service: svc, exports: exports}
}

// List godoc
// @Summary List classes
// @Description List the classes visible to the caller
// @Tags Classes
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /classes [get]
func (h *ClassHandler) List(c *gin.Context) {
	classes, err := h.service.List(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"message": "Turmas obtidas com sucesso!", "classes": classes})
}

// Get godoc
// @Summary Get class
// @Description Fetch one class by id
// @Tags Classes
// @Produce json
// @Param id path int true "Class ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /classes/{id} [get]
func (h *ClassHandler) Get(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	class, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"message": "Turma obtida com sucesso!", "class": class})
}

// Create godoc
// @Summary Create class
// @Description Register a class, admin only
// @Tags Classes
// @Accept json
// @Produce json
// @Param payload body service.ClassRequest true "Class payload"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /classes [post]
func (h *ClassHandler) Create(c *gin.Context) {
	var req service.ClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Dados da turma inválidos."))
		return
	}

	class, err := h.service.Create(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"message": "Turma criada com sucesso!", "class": class})
}

// Update godoc
// @Summary Update class
// @Description Update a class, admin only
// @Tags Classes
// @Accept json
// @Produce json
// @Param id path int true "Class ID"
// @Param payload body service.ClassRequest true "Class payload"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /classes/{id} [put]
func (h *ClassHandler) Update(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req service.ClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Dados da turma inválidos."))
		return
	}

	class, err := h.service.Update(c.Request.Context(), claimsFromContext(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"message": "Turma atualizada com sucesso!", "class": class})
}

// Delete godoc
// @Summary Delete class
// @Description Remove a class, admin only
// @Tags Classes
// @Produce json
// @Param id path int true "Class ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /classes/{id} [delete]
func (h *ClassHandler) Delete(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), claimsFromContext(c), id); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"message": "Turma excluída com sucesso!"})
}

// RosterPDF godoc
// @Summary Class roster PDF
// @Description Download the enrollment list of a class as PDF
// @Tags Classes
// @Produce application/pdf
// @Param id path int true "Class ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string
// @Router /classes/{id}/roster.pdf [get]
func (h *ClassHandler) RosterPDF(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	pdf, filename, err := h.exports.ClassRosterPDF(c.Request.Context(), claimsFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
