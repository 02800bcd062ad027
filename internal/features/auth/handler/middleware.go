package handler

import (
	"net/http"
	"strings"

	"shipment-portal/internal/core/logger"
	"shipment-portal/internal/core/validate"
	"shipment-portal/internal/features/auth/domain"
	"shipment-portal/internal/features/auth/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// sessionLocalKey is where the guard stores the resolved session for
// downstream handlers.
const sessionLocalKey = "session"

const adminOnlyMessage = "This feature is available for admin users only"

// Middleware provides the route guards. Guarding here is access control for
// the gateway surface; the upstream still enforces its own rules.
type Middleware struct {
	authService *service.AuthService
}

// NewMiddleware creates a new Middleware.
func NewMiddleware(authService *service.AuthService) *Middleware {
	return &Middleware{
		authService: authService,
	}
}

// RequireAuth admits only requests carrying a known bearer token. The
// resolved session is stored in the request locals.
func (m *Middleware) RequireAuth(c *fiber.Ctx) error {
	session, err := m.resolve(c)
	if err != nil {
		logger.Get().Error("Session lookup failed", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: validate.SomethingWentWrong,
			RayID:   rayID(c),
		})
	}
	if session == nil {
		return c.Status(http.StatusUnauthorized).JSON(ErrorResponse{
			Message: "Authentication required",
			RayID:   rayID(c),
		})
	}

	c.Locals(sessionLocalKey, session)
	return c.Next()
}

// RequireAdmin admits only authenticated sessions with the admin role.
func (m *Middleware) RequireAdmin(c *fiber.Ctx) error {
	session, err := m.resolve(c)
	if err != nil {
		logger.Get().Error("Session lookup failed", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: validate.SomethingWentWrong,
			RayID:   rayID(c),
		})
	}
	if session == nil {
		return c.Status(http.StatusUnauthorized).JSON(ErrorResponse{
			Message: "Authentication required",
			RayID:   rayID(c),
		})
	}
	if !session.IsAdmin() {
		return c.Status(http.StatusForbidden).JSON(ErrorResponse{
			Message: adminOnlyMessage,
			RayID:   rayID(c),
		})
	}

	c.Locals(sessionLocalKey, session)
	return c.Next()
}

// resolve turns the Authorization header into a session, or nil when the
// request carries no known token.
func (m *Middleware) resolve(c *fiber.Ctx) (*domain.Session, error) {
	token := bearerToken(c.Get(fiber.HeaderAuthorization))
	if token == "" {
		return nil, nil
	}
	return m.authService.SessionFromToken(c.Context(), token)
}

// sessionFromCtx returns the session a guard stored, or nil on unguarded
// routes.
func sessionFromCtx(c *fiber.Ctx) *domain.Session {
	session, _ := c.Locals(sessionLocalKey).(*domain.Session)
	return session
}

// bearerToken extracts the token from an "Authorization: Bearer ..." header.
func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
