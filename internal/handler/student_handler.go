package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brunodmn/escola-admin-api/internal/service"
	appErrors "github.com/brunodmn/escola-admin-api/pkg/errors"
	"github.com/brunodmn/escola-admin-api/pkg/response"
)

// StudentHandler wires HTTP endpoints to the student service.
type StudentHandler struct {
	service *service.StudentService
	exports *service.ExportService
}

// NewStudentHandler creates a new handler.
func NewStudentHandler(svc *service.StudentService, exports *service.ExportService) *StudentHandler {
	return &StudentHandler{service: svc, exports: exports}
}

// List godoc
// @Summary List students
// @Description List the students visible to the caller
// @Tags Students
// @Produce json
// @Success 200 {array} models.Student
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	students, err := h.service.List(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, students)
}

// Get godoc
// @Summary Get student
// @Description Fetch one student with enrolled classes
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} models.Student
// @Failure 404 {object} map[string]string
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	student, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, student)
}

// Create godoc
// @Summary Create student
// @Description Register a student with enrollments, admin only
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body service.StudentRequest true "Student payload"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req service.StudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Dados do estudante inválidos."))
		return
	}

	student, err := h.service.Create(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"message": "Estudante criado com sucesso!", "student": student})
}

// Update godoc
// @Summary Update student
// @Description Update a student and replace its enrollments, admin only
// @Tags Students
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param payload body service.StudentRequest true "Student payload"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req service.StudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Dados do estudante inválidos."))
		return
	}

	student, err := h.service.Update(c.Request.Context(), claimsFromContext(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"message": "Estudante atualizado com sucesso!", "student": student})
}

// Delete godoc
// @Summary Delete student
// @Description Remove a student, admin only
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), claimsFromContext(c), id); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"message": "Estudante excluído com sucesso!"})
}

// ExportCSV godoc
// @Summary Export students CSV
// @Description Download the students visible to the caller as CSV
// @Tags Students
// @Produce text/csv
// @Success 200 {file} binary
// @Router /students/export.csv [get]
func (h *StudentHandler) ExportCSV(c *gin.Context) {
	csv, err := h.exports.StudentsCSV(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="estudantes.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", csv)
}
