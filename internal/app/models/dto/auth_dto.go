package dto

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserInfo is the public view of a login. The password hash never appears here.
type UserInfo struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	StudentID int64  `json:"studentId"`
}

// LoginResponse is the body of a POST /login reply, success or failure.
type LoginResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message,omitempty"`
	Token     string    `json:"token,omitempty"`
	ExpiresIn int       `json:"expiresIn,omitempty"`
	User      *UserInfo `json:"user,omitempty"`
}

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterResponse is the body of a POST /register reply.
type RegisterResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// CreateStaffRequest is the body of POST /createStaff.
type CreateStaffRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
