package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/rahulm/classtrack/internal/app/models"
	"github.com/rahulm/classtrack/internal/app/models/dto"
	"github.com/rahulm/classtrack/internal/pkg/apperrors"
)

func newStudentFixture() (*fakeStudentStore, *fakeUserStore, StudentService) {
	students := newFakeStudentStore()
	users := newFakeUserStore()
	svc := NewStudentService(students, users, fakeTxRunner{}, zerolog.Nop())
	return students, users, svc
}

func seedStudent(t *testing.T, students *fakeStudentStore, users *fakeUserStore, username, attendance string, marks models.Marks) int64 {
	t.Helper()
	ctx := context.Background()
	id, err := students.Create(ctx, nil, &models.Student{
		Username:   username,
		Name:       "Student " + username,
		Attendance: attendance,
		Marks:      marks,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := users.Create(ctx, nil, &models.User{
		Username:  username,
		Password:  "hash",
		Role:      models.RoleStudent,
		StudentID: id,
	}); err != nil {
		t.Fatal(err)
	}
	return id
}

func floatPtr(f float64) *float64 { return &f }

func TestUpdateByUsernameMergesSingleSubject(t *testing.T) {
	students, users, svc := newStudentFixture()
	id := seedStudent(t, students, users, "asha", "80%", models.Marks{"math": 70, "science": 88})

	err := svc.UpdateByUsername(context.Background(), &dto.UpdateByUsernameRequest{
		Username:   "ASHA",
		Attendance: " 90% ",
		Subject:    "math",
		Marks:      floatPtr(95),
	})
	if err != nil {
		t.Fatal(err)
	}

	got, _ := students.GetByID(context.Background(), id)
	if got.Attendance != "90%" {
		t.Errorf("attendance = %q, want 90%%", got.Attendance)
	}
	if got.Marks["math"] != 95 {
		t.Errorf("math = %v, want 95", got.Marks["math"])
	}
	if got.Marks["science"] != 88 {
		t.Error("untouched subject was lost")
	}
}

func TestUpdateByUsernameAttendanceOnly(t *testing.T) {
	students, users, svc := newStudentFixture()
	id := seedStudent(t, students, users, "asha", "80%", models.Marks{"math": 70})

	err := svc.UpdateByUsername(context.Background(), &dto.UpdateByUsernameRequest{
		Username:   "asha",
		Attendance: "85%",
	})
	if err != nil {
		t.Fatal(err)
	}

	got, _ := students.GetByID(context.Background(), id)
	if got.Attendance != "85%" || got.Marks["math"] != 70 {
		t.Errorf("unexpected state after attendance-only update: %+v", got)
	}
}

func TestUpdateByUsernameValidation(t *testing.T) {
	students, users, svc := newStudentFixture()
	seedStudent(t, students, users, "asha", "80%", nil)

	tests := []struct {
		name string
		req  dto.UpdateByUsernameRequest
		want error
	}{
		{"missing username", dto.UpdateByUsernameRequest{Attendance: "80%"}, apperrors.ErrBadRequest},
		{"missing attendance", dto.UpdateByUsernameRequest{Username: "asha"}, apperrors.ErrBadRequest},
		{"unknown user", dto.UpdateByUsernameRequest{Username: "nobody", Attendance: "80%"}, apperrors.ErrUserNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.UpdateByUsername(context.Background(), &tt.req); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDeleteStudentRemovesLogins(t *testing.T) {
	students, users, svc := newStudentFixture()
	id := seedStudent(t, students, users, "asha", "80%", nil)

	if err := svc.DeleteStudent(context.Background(), id); err != nil {
		t.Fatal(err)
	}

	if _, err := students.GetByID(context.Background(), id); !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Error("student row still present")
	}
	if _, err := users.GetByUsername(context.Background(), "asha"); !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Error("paired login still present")
	}
}

func TestDeleteStudentNotFound(t *testing.T) {
	_, _, svc := newStudentFixture()
	if err := svc.DeleteStudent(context.Background(), 42); !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Errorf("got %v, want ErrStudentNotFound", err)
	}
}

func TestAdminStats(t *testing.T) {
	students, users, svc := newStudentFixture()
	seedStudent(t, students, users, "a", "80%", nil)
	seedStudent(t, students, users, "b", "junk", nil)
	seedStudent(t, students, users, "c", "90", nil)
	if _, err := users.Create(context.Background(), nil, &models.User{
		Username: "teach", Password: "hash", Role: models.RoleStaff, StudentID: models.NoStudent,
	}); err != nil {
		t.Fatal(err)
	}

	stats, err := svc.AdminStats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalStudents != 3 {
		t.Errorf("totalStudents = %d, want 3", stats.TotalStudents)
	}
	if stats.TotalStaff != 1 {
		t.Errorf("totalStaff = %d, want 1", stats.TotalStaff)
	}
	// round((80 + 0 + 90) / 3) = 57
	if stats.AvgAttendance != 57 {
		t.Errorf("avgAttendance = %d, want 57", stats.AvgAttendance)
	}
}

func TestAdminStatsNoStudents(t *testing.T) {
	_, _, svc := newStudentFixture()
	stats, err := svc.AdminStats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalStudents != 0 || stats.AvgAttendance != 0 {
		t.Errorf("unexpected stats for empty store: %+v", stats)
	}
}

func TestExportStudents(t *testing.T) {
	students, users, svc := newStudentFixture()
	seedStudent(t, students, users, "asha", "80%", models.Marks{"math": 90})

	f, err := svc.ExportStudents(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	rows, err := f.GetRows("Students")
	if err != nil {
		t.Fatal(err)
	}
	// Header plus one data row.
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[1][0] != "asha" {
		t.Errorf("username cell = %q, want asha", rows[1][0])
	}
}
