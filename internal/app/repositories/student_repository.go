package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rahulm/classtrack/internal/app/models"
	"github.com/rahulm/classtrack/internal/pkg/apperrors"
)

// StudentRepository handles student table access.
type StudentRepository struct {
	db *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{db: db}
}

// q returns the transaction when one is supplied, the pool otherwise.
func (r *StudentRepository) q(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.db
}

const studentColumns = `id, username, name, phone, email, parent_name, parent_phone,
	year, government_id, address, attendance, marks, created_at, updated_at`

func scanStudent(row pgx.Row) (*models.Student, error) {
	s := &models.Student{}
	var rawMarks string
	err := row.Scan(
		&s.ID, &s.Username, &s.Name, &s.Phone, &s.Email, &s.ParentName, &s.ParentPhone,
		&s.Year, &s.GovernmentID, &s.Address, &s.Attendance, &rawMarks, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.Marks, err = models.DecodeMarks(rawMarks)
	if err != nil {
		return nil, fmt.Errorf("error decoding marks for student %d: %w", s.ID, err)
	}
	return s, nil
}

// GetByID retrieves a student by primary key.
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+studentColumns+`
		FROM students
		WHERE id = $1`, id)

	s, err := scanStudent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error fetching student: %w", err)
	}
	return s, nil
}

// GetAll retrieves all students.
func (r *StudentRepository) GetAll(ctx context.Context) ([]*models.Student, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+studentColumns+`
		FROM students
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning student: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	return students, nil
}

// Create inserts a new student row and returns its id.
func (r *StudentRepository) Create(ctx context.Context, tx pgx.Tx, s *models.Student) (int64, error) {
	rawMarks, err := models.EncodeMarks(s.Marks)
	if err != nil {
		return 0, fmt.Errorf("error encoding marks: %w", err)
	}

	var id int64
	err = r.q(tx).QueryRow(ctx, `
		INSERT INTO students (username, name, phone, email, parent_name, parent_phone,
			year, government_id, address, attendance, marks)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		s.Username, s.Name, s.Phone, s.Email, s.ParentName, s.ParentPhone,
		s.Year, s.GovernmentID, s.Address, s.Attendance, rawMarks).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error creating student: %w", err)
	}
	return id, nil
}

// UpsertByUsername inserts a student keyed by username, or overwrites every
// non-key field of the existing row. Marks are deliberately left untouched on
// conflict: imports never overwrite scores.
func (r *StudentRepository) UpsertByUsername(ctx context.Context, tx pgx.Tx, s *models.Student) (int64, error) {
	var id int64
	err := r.q(tx).QueryRow(ctx, `
		INSERT INTO students (username, name, phone, email, parent_name, parent_phone,
			year, government_id, address, attendance, marks)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, '{}')
		ON CONFLICT (username) DO UPDATE SET
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			parent_name = EXCLUDED.parent_name,
			parent_phone = EXCLUDED.parent_phone,
			year = EXCLUDED.year,
			government_id = EXCLUDED.government_id,
			address = EXCLUDED.address,
			attendance = EXCLUDED.attendance,
			updated_at = NOW()
		RETURNING id`,
		s.Username, s.Name, s.Phone, s.Email, s.ParentName, s.ParentPhone,
		s.Year, s.GovernmentID, s.Address, s.Attendance).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error upserting student %q: %w", s.Username, err)
	}
	return id, nil
}

// UpdateAttendanceMarks persists a new attendance value together with the
// merged marks map in a single statement.
func (r *StudentRepository) UpdateAttendanceMarks(ctx context.Context, id int64, attendance string, marks models.Marks) error {
	rawMarks, err := models.EncodeMarks(marks)
	if err != nil {
		return fmt.Errorf("error encoding marks: %w", err)
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE students
		SET attendance = $1, marks = $2, updated_at = NOW()
		WHERE id = $3`,
		attendance, rawMarks, id)
	if err != nil {
		return fmt.Errorf("error updating student %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// Delete removes a student row. Returns whether a row was deleted.
func (r *StudentRepository) Delete(ctx context.Context, tx pgx.Tx, id int64) (bool, error) {
	tag, err := r.q(tx).Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("error deleting student %d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

// Count returns the number of student rows.
func (r *StudentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}
	return count, nil
}

// AttendanceValues returns the raw attendance column of every student.
func (r *StudentRepository) AttendanceValues(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT attendance FROM students`)
	if err != nil {
		return nil, fmt.Errorf("error fetching attendance values: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("error scanning attendance value: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error fetching attendance values: %w", err)
	}
	return values, nil
}
