package models

import "time"

// Role is the access level of a login.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStaff   Role = "staff"
	RoleStudent Role = "student"
)

// NoStudent is the student_id sentinel for admin and staff logins.
const NoStudent int64 = 0

// User defines a login row in the 'users' table. Student-role users reference
// exactly one student row via StudentID; admin and staff carry NoStudent.
type User struct {
	ID        int64     `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Password  string    `json:"-" db:"password"` // bcrypt hash, excluded from JSON
	Role      Role      `json:"role" db:"role"`
	StudentID int64     `json:"studentId" db:"student_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
