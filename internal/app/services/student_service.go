package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/rahulm/classtrack/internal/app/models"
	"github.com/rahulm/classtrack/internal/app/models/dto"
	"github.com/rahulm/classtrack/internal/export"
	"github.com/rahulm/classtrack/internal/pkg/apperrors"
)

type studentService struct {
	students StudentStore
	users    UserStore
	tx       TxRunner
	logger   zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(students StudentStore, users UserStore, tx TxRunner, logger zerolog.Logger) StudentService {
	return &studentService{
		students: students,
		users:    users,
		tx:       tx,
		logger:   logger,
	}
}

// GetStudent fetches one student with deserialized marks.
func (s *studentService) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	return s.students.GetByID(ctx, id)
}

// ListStudents fetches all students with deserialized marks.
func (s *studentService) ListStudents(ctx context.Context) ([]*models.Student, error) {
	return s.students.GetAll(ctx)
}

// UpdateByUsername updates a student's attendance and, when subject and score
// are both present, overwrites that single subject's score while keeping the
// rest of the marks map.
func (s *studentService) UpdateByUsername(ctx context.Context, req *dto.UpdateByUsernameRequest) error {
	username := normalizeUsername(req.Username)
	if username == "" {
		return apperrors.NewBadRequestError("username is required")
	}
	if strings.TrimSpace(req.Attendance) == "" {
		return apperrors.NewBadRequestError("attendance is required")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	student, err := s.students.GetByID(ctx, user.StudentID)
	if err != nil {
		return err
	}

	marks := student.Marks
	if marks == nil {
		marks = models.Marks{}
	}
	if req.Subject != "" && req.Marks != nil {
		marks[req.Subject] = *req.Marks
	}

	if err := s.students.UpdateAttendanceMarks(ctx, student.ID, strings.TrimSpace(req.Attendance), marks); err != nil {
		return fmt.Errorf("error updating student %q: %w", username, err)
	}
	return nil
}

// DeleteStudent removes a student row and every login referencing it, in one
// transaction.
func (s *studentService) DeleteStudent(ctx context.Context, id int64) error {
	err := s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		deleted, err := s.students.Delete(ctx, tx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return apperrors.ErrStudentNotFound
		}
		return s.users.DeleteByStudentID(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int64("studentId", id).Msg("Student deleted")
	return nil
}

// AdminStats computes dashboard counters. Attendance values are parsed by
// their leading digits; non-numeric values count as 0, zero students yields
// an average of 0.
func (s *studentService) AdminStats(ctx context.Context) (*dto.AdminStatsResponse, error) {
	totalStudents, err := s.students.Count(ctx)
	if err != nil {
		return nil, err
	}

	totalStaff, err := s.users.CountByRole(ctx, models.RoleStaff)
	if err != nil {
		return nil, err
	}

	values, err := s.students.AttendanceValues(ctx)
	if err != nil {
		return nil, err
	}

	avg := 0
	if len(values) > 0 {
		sum := 0
		for _, v := range values {
			sum += parseLeadingInt(v)
		}
		avg = int(math.Round(float64(sum) / float64(len(values))))
	}

	return &dto.AdminStatsResponse{
		TotalStudents: totalStudents,
		TotalStaff:    totalStaff,
		AvgAttendance: avg,
	}, nil
}

// ExportStudents builds an XLSX roster of all students.
func (s *studentService) ExportStudents(ctx context.Context) (*excelize.File, error) {
	students, err := s.students.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return export.StudentsWorkbook(students)
}
