package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/rahulm/classtrack/internal/app/models"
	"github.com/rahulm/classtrack/internal/metrics"
	"github.com/rahulm/classtrack/internal/pkg/apperrors"
	"github.com/rahulm/classtrack/internal/pkg/auth"
)

// csvColumns maps recognized header names (trimmed, lowercased, BOM-stripped)
// to student fields. Unrecognized columns are ignored.
var csvColumns = map[string]bool{
	"username": true, "name": true, "phone": true, "email": true,
	"parentname": true, "parentphone": true, "year": true,
	"aadhaar": true, "address": true, "attendance": true,
}

type ingestService struct {
	students        StudentStore
	users           UserStore
	tx              TxRunner
	defaultPassword string
	logger          zerolog.Logger
}

// NewIngestService creates the CSV ingestion service. defaultPassword is
// assigned (hashed) to every login the import provisions.
func NewIngestService(students StudentStore, users UserStore, tx TxRunner, defaultPassword string, logger zerolog.Logger) IngestService {
	return &ingestService{
		students:        students,
		users:           users,
		tx:              tx,
		defaultPassword: defaultPassword,
		logger:          logger,
	}
}

// ImportCSV reads a student roster and merges it row by row. Each row runs in
// its own transaction: the student upsert and the login provisioning commit
// together or not at all. Row failures are logged and isolated; the batch
// continues. Re-importing the same file is idempotent and never touches marks.
func (s *ingestService) ImportCSV(ctx context.Context, r io.Reader) (*ImportSummary, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &ImportSummary{}, nil
		}
		return nil, apperrors.NewBadRequestError("could not read csv header")
	}

	cols := map[string]int{}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF")))
		if csvColumns[h] {
			cols[h] = i
		}
	}
	if _, ok := cols["username"]; !ok {
		return nil, apperrors.NewBadRequestError("csv is missing a username column")
	}
	if _, ok := cols["name"]; !ok {
		return nil, apperrors.NewBadRequestError("csv is missing a name column")
	}

	// One hash for the whole batch; every provisioned login gets the same
	// default password.
	hashed, err := auth.HashPassword(s.defaultPassword)
	if err != nil {
		return nil, fmt.Errorf("error hashing default password: %w", err)
	}

	summary := &ImportSummary{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			s.logger.Warn().Err(err).Msg("Skipping malformed csv row")
			summary.Failed++
			metrics.FailedRows.Inc()
			continue
		}

		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		username := normalizeUsername(field("username"))
		name := field("name")
		if username == "" || name == "" {
			summary.Skipped++
			metrics.SkippedRows.Inc()
			continue
		}

		attendance := field("attendance")
		if attendance == "" {
			attendance = "0"
		}

		student := &models.Student{
			Username:     username,
			Name:         name,
			Phone:        field("phone"),
			Email:        field("email"),
			ParentName:   field("parentname"),
			ParentPhone:  field("parentphone"),
			Year:         field("year"),
			GovernmentID: field("aadhaar"),
			Address:      field("address"),
			Attendance:   attendance,
		}

		err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
			studentID, err := s.students.UpsertByUsername(ctx, tx, student)
			if err != nil {
				return err
			}
			return s.ensureLogin(ctx, tx, studentID, username, hashed)
		})
		if err != nil {
			s.logger.Warn().Err(err).Str("username", username).Msg("Failed to import csv row")
			summary.Failed++
			metrics.FailedRows.Inc()
			continue
		}

		summary.Processed++
		metrics.ImportedRows.Inc()
	}

	s.logger.Info().
		Int("processed", summary.Processed).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Msg("CSV import finished")
	return summary, nil
}

// ensureLogin provisions a student-role login for the given student if none
// exists yet. Idempotent: an existing login is a no-op. A lost uniqueness
// race against a concurrent import aborts this row's transaction and is
// retried on the next import.
func (s *ingestService) ensureLogin(ctx context.Context, tx pgx.Tx, studentID int64, username, hashedPassword string) error {
	exists, err := s.users.UsernameExists(ctx, tx, username)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	_, err = s.users.Create(ctx, tx, &models.User{
		Username:  username,
		Password:  hashedPassword,
		Role:      models.RoleStudent,
		StudentID: studentID,
	})
	return err
}
