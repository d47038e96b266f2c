package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rahulm/classtrack/internal/app/models"
	"github.com/rahulm/classtrack/internal/app/models/dto"
	"github.com/rahulm/classtrack/internal/app/services"
	"github.com/rahulm/classtrack/internal/middleware"
	"github.com/rahulm/classtrack/internal/pkg/apperrors"
)

// StudentController handles student record operations
type StudentController struct {
	studentService services.StudentService
	logger         zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService, logger zerolog.Logger) *StudentController {
	return &StudentController{
		studentService: studentService,
		logger:         logger,
	}
}

func parseIDParam(ctx *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewBadRequestError("invalid student id")
	}
	return id, nil
}

// GetStudent returns one student by id, 404 when absent.
func (c *StudentController) GetStudent(ctx *gin.Context) {
	id, err := parseIDParam(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	student, err := c.studentService.GetStudent(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, student)
}

// ListStudents returns all students.
func (c *StudentController) ListStudents(ctx *gin.Context) {
	students, err := c.studentService.ListStudents(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if students == nil {
		students = []*models.Student{}
	}
	ctx.JSON(http.StatusOK, students)
}

// UpdateByUsername updates a student's attendance and merges a single
// subject's score into the marks map.
func (c *StudentController) UpdateByUsername(ctx *gin.Context) {
	var req dto.UpdateByUsernameRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("invalid request body"))
		return
	}

	if err := c.studentService.UpdateByUsername(ctx.Request.Context(), &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Updated successfully"})
}

// DeleteStudent removes a student and its paired logins.
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	id, err := parseIDParam(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.studentService.DeleteStudent(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Deleted successfully"})
}

// AdminStats returns dashboard counters.
func (c *StudentController) AdminStats(ctx *gin.Context) {
	stats, err := c.studentService.AdminStats(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, stats)
}

// ExportStudents streams the roster as an XLSX workbook.
func (c *StudentController) ExportStudents(ctx *gin.Context) {
	f, err := c.studentService.ExportStudents(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	filename := fmt.Sprintf("students-%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	ctx.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(ctx.Writer); err != nil {
		c.logger.Error().Err(err).Msg("Failed to stream roster export")
	}
}
