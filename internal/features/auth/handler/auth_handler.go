package handler

import (
	"errors"
	"net/http"

	"shipment-portal/internal/core/httpclient"
	"shipment-portal/internal/core/logger"
	"shipment-portal/internal/core/validate"
	"shipment-portal/internal/features/auth/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler handles HTTP requests for login and logout.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token and role.
type LoginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// MessageResponse carries a single confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// Login godoc
// @Summary Log in
// @Description Authenticates against the upstream and opens a session
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Email and password"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body",
			RayID:   rayID(c),
		})
	}

	if failures := validate.Check(req.Email, validate.Required(), validate.Email()); !failures.OK() {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: validate.Message(validate.FieldEmail, failures),
			RayID:   rayID(c),
		})
	}
	if failures := validate.Check(req.Password, validate.Required(), validate.Password()); !failures.OK() {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: validate.Message(validate.FieldPassword, failures),
			RayID:   rayID(c),
		})
	}

	session, err := h.authService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		var apiErr *httpclient.APIError
		if errors.As(err, &apiErr) {
			return c.Status(apiErr.StatusCode).JSON(ErrorResponse{
				Message: apiErr.Message,
				RayID:   rayID(c),
			})
		}

		logger.Get().Error("Login failed", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: validate.SomethingWentWrong,
			RayID:   rayID(c),
		})
	}

	return c.JSON(LoginResponse{
		Token: session.Token,
		Role:  session.Role,
	})
}

// Logout godoc
// @Summary Log out
// @Description Clears the caller's session
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	session := sessionFromCtx(c)
	if session == nil {
		return c.Status(http.StatusUnauthorized).JSON(ErrorResponse{
			Message: "Authentication required",
			RayID:   rayID(c),
		})
	}

	if err := h.authService.Logout(c.Context(), session.Token); err != nil {
		logger.Get().Error("Logout failed", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: validate.SomethingWentWrong,
			RayID:   rayID(c),
		})
	}

	return c.JSON(MessageResponse{Message: "Logged out successfully"})
}

// rayID returns the request correlation ID when the middleware provided one.
func rayID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}
