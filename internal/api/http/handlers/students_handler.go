package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-kit/user-service/internal/api/dto"
	"github.com/campus-kit/user-service/internal/auth"
	"github.com/campus-kit/user-service/internal/domain"
	"github.com/campus-kit/user-service/internal/service"
	apperrors "github.com/campus-kit/user-service/pkg/util"
)

// StudentsHandler exposes student profile endpoints.
type StudentsHandler struct {
	students *service.StudentService
}

// NewStudentsHandler constructs handler.
func NewStudentsHandler(studentService *service.StudentService) *StudentsHandler {
	return &StudentsHandler{students: studentService}
}

// Me handles GET /student/me.
func (h *StudentsHandler) Me(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	profile, err := h.students.GetProfile(c.UserContext(), identity.Subject)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

// PatchMe handles PATCH /student/me.
func (h *StudentsHandler) PatchMe(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.StudentPatchRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Emotion != nil {
		if _, ok := parseEmotion(*req.Emotion); !ok {
			return apperrors.NewValidationError("unknown emotion", map[string]any{"emotion": *req.Emotion})
		}
		normalized := strings.ToUpper(*req.Emotion)
		req.Emotion = &normalized
	}

	profile, err := h.students.Patch(c.UserContext(), identity.Subject, service.StudentPatch{
		Name:     req.Name,
		LastName: req.LastName,
		CelPhone: req.CelPhone,
		Emotion:  req.Emotion,
	})
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

// IDs handles POST /student/ids, resolving student ids from emails for
// sibling services.
func (h *StudentsHandler) IDs(c *fiber.Ctx) error {
	var req dto.StudentIDsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if len(req.Emails) == 0 {
		return apperrors.NewValidationError("emails required", nil)
	}

	ids, err := h.students.IDsByEmails(c.UserContext(), req.Emails)
	if err != nil {
		return err
	}
	return c.JSON(dto.StudentIDsResponse{StudentsID: ids})
}

// AddPoints handles POST /student/:id/points.
func (h *StudentsHandler) AddPoints(c *fiber.Ctx) error {
	var req dto.AddPointsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Points <= 0 {
		return apperrors.NewValidationError("points must be positive", map[string]any{"points": req.Points})
	}

	profile, err := h.students.AddPoints(c.UserContext(), c.Params("id"), req.Points)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

func parseEmotion(raw string) (domain.Emotion, bool) {
	switch domain.Emotion(strings.ToUpper(raw)) {
	case domain.EmotionHappy, domain.EmotionNeutral, domain.EmotionSad, domain.EmotionStress:
		return domain.Emotion(strings.ToUpper(raw)), true
	default:
		return "", false
	}
}
