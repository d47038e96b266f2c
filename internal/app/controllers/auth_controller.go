// Package controllers handles HTTP request handling
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rahulm/classtrack/internal/app/models/dto"
	"github.com/rahulm/classtrack/internal/app/services"
	"github.com/rahulm/classtrack/internal/middleware"
	"github.com/rahulm/classtrack/internal/pkg/apperrors"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService services.AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// Login authenticates a user and issues an access token. Unknown usernames
// and wrong passwords get the same generic rejection.
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.LoginResponse{
			Success: false,
			Message: "username and password are required",
		})
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			c.logger.Warn().Str("username", req.Username).Msg("Login rejected")
			ctx.JSON(http.StatusUnauthorized, dto.LoginResponse{
				Success: false,
				Message: "invalid username or password",
			})
			return
		}
		c.logger.Error().Err(err).Msg("Login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("username", resp.User.Username).Msg("User logged in")
	ctx.JSON(http.StatusOK, resp)
}

// Register creates a student record with a paired login.
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.RegisterResponse{
			Success: false,
			Message: "invalid request body",
		})
		return
	}

	if err := c.authService.Register(ctx.Request.Context(), &req); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUserAlreadyExists):
			ctx.JSON(http.StatusConflict, dto.RegisterResponse{
				Success: false,
				Message: "user already exists",
			})
		case errors.Is(err, apperrors.ErrBadRequest):
			ctx.JSON(http.StatusBadRequest, dto.RegisterResponse{
				Success: false,
				Message: err.Error(),
			})
		default:
			c.logger.Error().Err(err).Msg("Registration failed")
			middleware.HandleAPIError(ctx, err)
		}
		return
	}

	ctx.JSON(http.StatusCreated, dto.RegisterResponse{Success: true})
}

// CreateStaff creates a staff login with no paired student.
func (c *AuthController) CreateStaff(ctx *gin.Context) {
	var req dto.CreateStaffRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("invalid request body"))
		return
	}

	if err := c.authService.CreateStaff(ctx.Request.Context(), &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.MessageResponse{Message: "Staff account created"})
}

// Me returns the authenticated caller's public profile.
func (c *AuthController) Me(ctx *gin.Context) {
	username := ctx.GetString("username")
	if username == "" {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenInvalid)
		return
	}

	user, err := c.authService.GetUser(ctx.Request.Context(), username)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, user)
}
