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

// UserRepository handles users (login) table access.
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) q(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.db
}

// GetByUsername retrieves a login by its normalized username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRow(ctx, `
		SELECT id, username, password, role, student_id, created_at
		FROM users
		WHERE username = $1`,
		username).Scan(
		&user.ID, &user.Username, &user.Password, &user.Role, &user.StudentID, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error fetching user: %w", err)
	}
	return user, nil
}

// UsernameExists checks whether a login with this username exists.
func (r *UserRepository) UsernameExists(ctx context.Context, tx pgx.Tx, username string) (bool, error) {
	var exists bool
	err := r.q(tx).QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`,
		username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking username: %w", err)
	}
	return exists, nil
}

// Create inserts a new login row and returns its id.
func (r *UserRepository) Create(ctx context.Context, tx pgx.Tx, user *models.User) (int64, error) {
	var id int64
	err := r.q(tx).QueryRow(ctx, `
		INSERT INTO users (username, password, role, student_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		user.Username, user.Password, user.Role, user.StudentID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error creating user: %w", err)
	}
	return id, nil
}

// DeleteByStudentID removes every login referencing a student row.
func (r *UserRepository) DeleteByStudentID(ctx context.Context, tx pgx.Tx, studentID int64) error {
	_, err := r.q(tx).Exec(ctx, `DELETE FROM users WHERE student_id = $1 AND role = $2`,
		studentID, models.RoleStudent)
	if err != nil {
		return fmt.Errorf("error deleting logins for student %d: %w", studentID, err)
	}
	return nil
}

// CountByRole counts logins with the given role.
func (r *UserRepository) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting %s users: %w", role, err)
	}
	return count, nil
}
