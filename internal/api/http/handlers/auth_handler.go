package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-kit/user-service/internal/api/dto"
	"github.com/campus-kit/user-service/internal/service"
	apperrors "github.com/campus-kit/user-service/pkg/util"
)

// AuthHandler exposes registration, login and token validation endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	token, exp, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.AuthResponse{Token: token, ExpiresAt: exp})
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}
	if len(req.Password) < 8 || len(req.Password) > 16 {
		return apperrors.NewValidationError("password must be 8-16 characters", map[string]any{"field": "password"})
	}

	token, exp, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Name:     req.Name,
		LastName: req.LastName,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		CelPhone: req.CelPhone,
	})
	if err != nil {
		return err
	}

	return c.JSON(dto.AuthResponse{Token: token, ExpiresAt: exp})
}

// ValidateToken handles POST /auth/validate-token. The response is a bare
// status: 200 when the bearer token checks out, 403 otherwise, with no hint
// about which check failed.
func (h *AuthHandler) ValidateToken(c *fiber.Ctx) error {
	if h.auth.Validate(c.UserContext(), c.Get(fiber.HeaderAuthorization)) {
		return c.SendStatus(http.StatusOK)
	}
	return c.SendStatus(http.StatusForbidden)
}

// ValidateTokenRole handles POST /auth/validate-token/:role.
func (h *AuthHandler) ValidateTokenRole(c *fiber.Ctx) error {
	role := c.Params("role")
	if h.auth.ValidateRole(c.UserContext(), role, c.Get(fiber.HeaderAuthorization)) {
		return c.SendStatus(http.StatusOK)
	}
	return c.SendStatus(http.StatusForbidden)
}
