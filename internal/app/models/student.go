package models

import (
	"encoding/json"
	"time"
)

// Marks maps a subject name to a score. Stored serialized as JSON text;
// the repository is the only place that encodes or decodes it.
type Marks map[string]float64

// EncodeMarks serializes marks for storage. A nil map encodes as "{}".
func EncodeMarks(m Marks) (string, error) {
	if m == nil {
		m = Marks{}
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// DecodeMarks deserializes a stored marks blob. Empty input yields an empty map.
func DecodeMarks(raw string) (Marks, error) {
	if raw == "" {
		return Marks{}, nil
	}
	var m Marks
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = Marks{}
	}
	return m, nil
}

// Student defines a row in the 'students' table. Username is unique and
// immutable once the row exists.
type Student struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Name         string    `json:"name" db:"name"`
	Phone        string    `json:"phone" db:"phone"`
	Email        string    `json:"email" db:"email"`
	ParentName   string    `json:"parentName" db:"parent_name"`
	ParentPhone  string    `json:"parentPhone" db:"parent_phone"`
	Year         string    `json:"year" db:"year"`
	GovernmentID string    `json:"governmentId" db:"government_id"`
	Address      string    `json:"address" db:"address"`
	Attendance   string    `json:"attendance" db:"attendance"`
	Marks        Marks     `json:"marks" db:"marks"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
