package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/case-portal/internal/api/dto"
	"github.com/spec-kit/case-portal/internal/auth"
	"github.com/spec-kit/case-portal/internal/service"
	apperrors "github.com/spec-kit/case-portal/pkg/util"
)

// AccessRequestsHandler exposes the user side of the access-request ledger.
type AccessRequestsHandler struct {
	access *service.AccessService
}

// NewAccessRequestsHandler constructs handler.
func NewAccessRequestsHandler(access *service.AccessService) *AccessRequestsHandler {
	return &AccessRequestsHandler{access: access}
}

// Submit handles POST /cases/:caseID/access-requests. One request per
// (user, case) pair, ever; a denied request blocks resubmission for good.
func (h *AccessRequestsHandler) Submit(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.SubmitAccessRequestRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	var note *string
	if trimmed := strings.TrimSpace(req.Note); trimmed != "" {
		note = &trimmed
	}

	created, err := h.access.Submit(c.Context(), principal.User, c.Params("caseID"), note)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewAccessRequestResponse(*created)})
}

// Mine handles GET /access-requests, the caller's own request history.
func (h *AccessRequestsHandler) Mine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	requests, err := h.access.ListForUser(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAccessRequestResponses(requests)})
}
