package dto

// UpdateByUsernameRequest is the body of POST /updateByUsername. Subject and
// Marks are optional; when both are present the subject's score is overwritten,
// the rest of the marks map is kept as is.
type UpdateByUsernameRequest struct {
	Username   string   `json:"username"`
	Attendance string   `json:"attendance"`
	Subject    string   `json:"subject,omitempty"`
	Marks      *float64 `json:"marks,omitempty"`
}

// MessageResponse is the generic {message} reply used by mutation endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// AdminStatsResponse is the body of GET /adminStats.
type AdminStatsResponse struct {
	TotalStudents int64 `json:"totalStudents"`
	TotalStaff    int64 `json:"totalStaff"`
	AvgAttendance int   `json:"avgAttendance"`
}
