package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/rahulm/classtrack/internal/app/models"
	"github.com/rahulm/classtrack/internal/app/models/dto"
	"github.com/rahulm/classtrack/internal/pkg/apperrors"
)

type stubStudentService struct {
	student  *models.Student
	students []*models.Student
	stats    *dto.AdminStatsResponse
	err      error
}

func (s *stubStudentService) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	return s.student, s.err
}

func (s *stubStudentService) ListStudents(ctx context.Context) ([]*models.Student, error) {
	return s.students, s.err
}

func (s *stubStudentService) UpdateByUsername(ctx context.Context, req *dto.UpdateByUsernameRequest) error {
	return s.err
}

func (s *stubStudentService) DeleteStudent(ctx context.Context, id int64) error {
	return s.err
}

func (s *stubStudentService) AdminStats(ctx context.Context) (*dto.AdminStatsResponse, error) {
	return s.stats, s.err
}

func (s *stubStudentService) ExportStudents(ctx context.Context) (*excelize.File, error) {
	if s.err != nil {
		return nil, s.err
	}
	return excelize.NewFile(), nil
}

func newStudentRouter(stub *stubStudentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	ctrl := NewStudentController(stub, zerolog.Nop())
	router.GET("/student/:id", ctrl.GetStudent)
	router.GET("/students", ctrl.ListStudents)
	router.DELETE("/deleteStudent/:id", ctrl.DeleteStudent)
	router.GET("/adminStats", ctrl.AdminStats)
	router.GET("/exportStudents", ctrl.ExportStudents)
	return router
}

func doRequest(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetStudentEndpoint(t *testing.T) {
	stub := &stubStudentService{student: &models.Student{
		ID: 7, Username: "asha", Name: "Asha Rao", Marks: models.Marks{"math": 90},
	}}
	w := doRequest(newStudentRouter(stub), http.MethodGet, "/student/7")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var got models.Student
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Username != "asha" || got.Marks["math"] != 90 {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestGetStudentEndpointErrors(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		stub       *stubStudentService
		wantStatus int
	}{
		{"not found", "/student/9", &stubStudentService{err: apperrors.ErrStudentNotFound}, http.StatusNotFound},
		{"bad id", "/student/abc", &stubStudentService{}, http.StatusBadRequest},
		{"zero id", "/student/0", &stubStudentService{}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(newStudentRouter(tt.stub), http.MethodGet, tt.path)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestListStudentsEndpointEmpty(t *testing.T) {
	w := doRequest(newStudentRouter(&stubStudentService{}), http.MethodGet, "/students")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	// A nil slice still serializes as [], never null.
	if body := w.Body.String(); body != "[]" {
		t.Errorf("body = %q, want []", body)
	}
}

func TestDeleteStudentEndpoint(t *testing.T) {
	w := doRequest(newStudentRouter(&stubStudentService{}), http.MethodDelete, "/deleteStudent/3")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	w = doRequest(newStudentRouter(&stubStudentService{err: apperrors.ErrStudentNotFound}), http.MethodDelete, "/deleteStudent/3")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestAdminStatsEndpoint(t *testing.T) {
	stub := &stubStudentService{stats: &dto.AdminStatsResponse{
		TotalStudents: 3, TotalStaff: 1, AvgAttendance: 57,
	}}
	w := doRequest(newStudentRouter(stub), http.MethodGet, "/adminStats")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var got dto.AdminStatsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got != (dto.AdminStatsResponse{TotalStudents: 3, TotalStaff: 1, AvgAttendance: 57}) {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestExportStudentsEndpointHeaders(t *testing.T) {
	w := doRequest(newStudentRouter(&stubStudentService{}), http.MethodGet, "/exportStudents")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "students-") || !strings.Contains(cd, ".xlsx") {
		t.Errorf("Content-Disposition = %q", cd)
	}
}
