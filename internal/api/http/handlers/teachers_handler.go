package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-kit/user-service/internal/api/dto"
	"github.com/campus-kit/user-service/internal/auth"
	"github.com/campus-kit/user-service/internal/service"
	apperrors "github.com/campus-kit/user-service/pkg/util"
)

// TeachersHandler exposes teacher profile endpoints.
type TeachersHandler struct {
	teachers *service.TeacherService
}

// NewTeachersHandler constructs handler.
func NewTeachersHandler(teacherService *service.TeacherService) *TeachersHandler {
	return &TeachersHandler{teachers: teacherService}
}

// Me handles GET /teacher/me.
func (h *TeachersHandler) Me(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	profile, err := h.teachers.GetProfile(c.UserContext(), identity.Subject)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

// PatchMe handles PATCH /teacher/me.
func (h *TeachersHandler) PatchMe(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.TeacherPatchRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	profile, err := h.teachers.Patch(c.UserContext(), identity.Subject, service.TeacherPatch{
		Name:     req.Name,
		LastName: req.LastName,
		CelPhone: req.CelPhone,
	})
	if err != nil {
		return err
	}
	return c.JSON(profile)
}
