package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/rahulm/classtrack/internal/app/models"
	"github.com/rahulm/classtrack/internal/app/models/dto"
	"github.com/rahulm/classtrack/internal/metrics"
	"github.com/rahulm/classtrack/internal/pkg/apperrors"
	"github.com/rahulm/classtrack/internal/pkg/auth"
	"github.com/rahulm/classtrack/internal/pkg/dberrors"
)

type authService struct {
	students   StudentStore
	users      UserStore
	tx         TxRunner
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(students StudentStore, users UserStore, tx TxRunner, jwtService *auth.JWTService, logger zerolog.Logger) AuthService {
	return &authService{
		students:   students,
		users:      users,
		tx:         tx,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Login verifies credentials and issues an access token. Failures are
// indistinguishable to the caller: an unknown username and a wrong password
// both come back as ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	username := normalizeUsername(req.Username)
	if username == "" || req.Password == "" {
		return nil, apperrors.NewBadRequestError("username and password are required")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			metrics.FailedLogins.Inc()
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error fetching user for login: %w", err)
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		metrics.FailedLogins.Inc()
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwtService.GenerateToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}

	return &dto.LoginResponse{
		Success:   true,
		Token:     token,
		ExpiresIn: expiresIn,
		User: &dto.UserInfo{
			ID:        user.ID,
			Username:  user.Username,
			Role:      string(user.Role),
			StudentID: user.StudentID,
		},
	}, nil
}

// Register creates a student record and its paired login in one transaction,
// so a crash mid-way never leaves an orphan student behind.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) error {
	name := strings.TrimSpace(req.Name)
	username := normalizeUsername(req.Username)
	if name == "" || username == "" || req.Password == "" {
		return apperrors.NewBadRequestError("name, username and password are required")
	}

	exists, err := s.users.UsernameExists(ctx, nil, username)
	if err != nil {
		return fmt.Errorf("error checking username: %w", err)
	}
	if exists {
		return apperrors.ErrUserAlreadyExists
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		studentID, err := s.students.Create(ctx, tx, &models.Student{
			Username:   username,
			Name:       name,
			Attendance: "0%",
			Marks:      models.Marks{},
		})
		if err != nil {
			return err
		}
		_, err = s.users.Create(ctx, tx, &models.User{
			Username:  username,
			Password:  hashed,
			Role:      models.RoleStudent,
			StudentID: studentID,
		})
		return err
	})
	if err != nil {
		// Lost the uniqueness race after the exists check.
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrUserAlreadyExists
		}
		return fmt.Errorf("error registering student: %w", err)
	}

	s.logger.Info().Str("username", username).Msg("Student registered")
	return nil
}

// CreateStaff creates a staff login with no paired student record.
func (s *authService) CreateStaff(ctx context.Context, req *dto.CreateStaffRequest) error {
	username := normalizeUsername(req.Username)
	if username == "" || req.Password == "" {
		return apperrors.NewBadRequestError("username and password are required")
	}

	exists, err := s.users.UsernameExists(ctx, nil, username)
	if err != nil {
		return fmt.Errorf("error checking username: %w", err)
	}
	if exists {
		return apperrors.ErrUserAlreadyExists
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	_, err = s.users.Create(ctx, nil, &models.User{
		Username:  username,
		Password:  hashed,
		Role:      models.RoleStaff,
		StudentID: models.NoStudent,
	})
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrUserAlreadyExists
		}
		return fmt.Errorf("error creating staff user: %w", err)
	}

	s.logger.Info().Str("username", username).Msg("Staff account created")
	return nil
}

// GetUser returns the public view of a login.
func (s *authService) GetUser(ctx context.Context, username string) (*dto.UserInfo, error) {
	user, err := s.users.GetByUsername(ctx, normalizeUsername(username))
	if err != nil {
		return nil, err
	}
	return &dto.UserInfo{
		ID:        user.ID,
		Username:  user.Username,
		Role:      string(user.Role),
		StudentID: user.StudentID,
	}, nil
}
