package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/practicas/core/internal/ports"
)

// StudentHandler handles student-related requests
type StudentHandler struct {
	studentService ports.StudentService
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(studentService ports.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

// ListStudents godoc
// @Summary List students
// @Description List students, optionally filtered by career, name, level and active flag
// @Tags estudiantes
// @Produce json
// @Param carrera query string false "Career (case-insensitive)"
// @Param nombre query string false "Name substring"
// @Param nivel query int false "Exact level"
// @Param activo query bool false "Active flag"
// @Success 200 {array} entities.Student
// @Failure 400 {object} ErrorResponse
// @Router /estudiantes [get]
func (h *StudentHandler) ListStudents(c echo.Context) error {
	var filter ports.StudentFilter
	if err := bindQuery(c, &filter); err != nil {
		return err
	}

	students, err := h.studentService.ListStudents(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, students)
}

// SearchByMajor godoc
// @Summary Search students by career
// @Tags estudiantes
// @Produce json
// @Param carrera query string true "Career (case-insensitive)"
// @Success 200 {array} entities.Student
// @Failure 400 {object} ErrorResponse
// @Router /estudiantes/buscar/carrera [get]
func (h *StudentHandler) SearchByMajor(c echo.Context) error {
	major, err := requireQuery(c, "carrera")
	if err != nil {
		return err
	}

	students, err := h.studentService.ListStudents(c.Request().Context(), ports.StudentFilter{Major: major})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, students)
}

// GetStudent godoc
// @Summary Get student by ID
// @Tags estudiantes
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} entities.Student
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /estudiantes/{id} [get]
func (h *StudentHandler) GetStudent(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	student, err := h.studentService.GetStudent(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, student)
}

// CreateStudent godoc
// @Summary Create a student
// @Description Enrolls a student at level 1 with no points
// @Tags estudiantes
// @Accept json
// @Produce json
// @Param request body ports.CreateStudentRequest true "Student data"
// @Success 201 {object} entities.Student
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /estudiantes [post]
func (h *StudentHandler) CreateStudent(c echo.Context) error {
	var req ports.CreateStudentRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	student, err := h.studentService.CreateStudent(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, student)
}

// UpdateStudent godoc
// @Summary Update a student
// @Description Merges the supplied fields onto the student
// @Tags estudiantes
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param request body ports.UpdateStudentRequest true "Fields to change"
// @Success 200 {object} entities.Student
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /estudiantes/{id} [patch]
func (h *StudentHandler) UpdateStudent(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req ports.UpdateStudentRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	student, err := h.studentService.UpdateStudent(c.Request().Context(), id, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, student)
}

// DeleteStudent godoc
// @Summary Delete a student
// @Tags estudiantes
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} entities.Student
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /estudiantes/{id} [delete]
func (h *StudentHandler) DeleteStudent(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	student, err := h.studentService.DeleteStudent(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, student)
}

// LevelUp godoc
// @Summary Level up a student
// @Description Spends level*100 points to raise the student one level
// @Tags estudiantes
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} entities.Student
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /estudiantes/{id}/subir-nivel [post]
func (h *StudentHandler) LevelUp(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	student, err := h.studentService.LevelUp(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, student)
}
