// Package services holds the application's business logic.
package services

import (
	"context"
	"io"

	"github.com/jackc/pgx/v5"
	"github.com/xuri/excelize/v2"

	"github.com/rahulm/classtrack/internal/app/models"
	"github.com/rahulm/classtrack/internal/app/models/dto"
	"github.com/rahulm/classtrack/internal/db"
)

// StudentStore is the student persistence surface the services depend on.
// Methods taking a pgx.Tx run inside that transaction when it is non-nil.
type StudentStore interface {
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	GetAll(ctx context.Context) ([]*models.Student, error)
	Create(ctx context.Context, tx pgx.Tx, s *models.Student) (int64, error)
	UpsertByUsername(ctx context.Context, tx pgx.Tx, s *models.Student) (int64, error)
	UpdateAttendanceMarks(ctx context.Context, id int64, attendance string, marks models.Marks) error
	Delete(ctx context.Context, tx pgx.Tx, id int64) (bool, error)
	Count(ctx context.Context) (int64, error)
	AttendanceValues(ctx context.Context) ([]string, error)
}

// UserStore is the login persistence surface the services depend on.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameExists(ctx context.Context, tx pgx.Tx, username string) (bool, error)
	Create(ctx context.Context, tx pgx.Tx, user *models.User) (int64, error)
	DeleteByStudentID(ctx context.Context, tx pgx.Tx, studentID int64) error
	CountByRole(ctx context.Context, role models.Role) (int64, error)
}

// TxRunner executes a function inside a single database transaction.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn db.TransactionFn) error
}

// AuthService handles logins, registration and staff provisioning.
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Register(ctx context.Context, req *dto.RegisterRequest) error
	CreateStaff(ctx context.Context, req *dto.CreateStaffRequest) error
	GetUser(ctx context.Context, username string) (*dto.UserInfo, error)
}

// StudentService exposes record queries and mutations.
type StudentService interface {
	GetStudent(ctx context.Context, id int64) (*models.Student, error)
	ListStudents(ctx context.Context) ([]*models.Student, error)
	UpdateByUsername(ctx context.Context, req *dto.UpdateByUsernameRequest) error
	DeleteStudent(ctx context.Context, id int64) error
	AdminStats(ctx context.Context) (*dto.AdminStatsResponse, error)
	ExportStudents(ctx context.Context) (*excelize.File, error)
}

// IngestService merges uploaded CSV rosters into the record store.
type IngestService interface {
	ImportCSV(ctx context.Context, r io.Reader) (*ImportSummary, error)
}

// ImportSummary reports the outcome of one CSV batch. Processed counts rows
// inserted or updated; Skipped counts rows missing username or name; Failed
// counts rows that errored and were isolated from the rest of the batch.
type ImportSummary struct {
	Processed int
	Skipped   int
	Failed    int
}
