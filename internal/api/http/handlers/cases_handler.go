package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/case-portal/internal/api/dto"
	"github.com/spec-kit/case-portal/internal/auth"
	"github.com/spec-kit/case-portal/internal/service"
	apperrors "github.com/spec-kit/case-portal/pkg/util"
)

// CasesHandler manages case endpoints for authenticated users and admins.
type CasesHandler struct {
	cases  *service.CaseService
	access *service.AccessService
}

// NewCasesHandler constructs handler.
func NewCasesHandler(cases *service.CaseService, access *service.AccessService) *CasesHandler {
	return &CasesHandler{cases: cases, access: access}
}

// CreateCase handles POST /cases (admin only).
func (h *CasesHandler) CreateCase(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateCaseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	created, err := h.cases.CreateCase(c.Context(), principal.User, service.CaseCreateInput{
		Title:           req.Title,
		Category:        req.Category,
		LocationTag:     req.LocationTag,
		Status:          req.Status,
		PersonName:      req.PersonName,
		PersonPhotoURL:  req.PersonPhotoURL,
		ReasonSummary:   req.ReasonSummary,
		SummaryPublic:   req.SummaryPublic,
		SummaryInternal: req.SummaryInternal,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": caseDetail(created, false, true)})
}

// ListCases handles GET /cases (admin only).
func (h *CasesHandler) ListCases(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)

	cases, err := h.cases.List(c.Context(), principal.User, limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.CaseSummary, 0, len(cases))
	for i := range cases {
		items = append(items, caseSummary(&cases[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetCase handles GET /cases/:caseID. Viewing a case as a non-admin joins
// the viewer to its participant registry when not already a member.
func (h *CasesHandler) GetCase(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	view, err := h.access.ViewCase(c.Context(), principal.User, c.Params("caseID"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": caseDetail(view.Case, view.Joined, principal.User.IsAdmin())})
}

// UpdateStatus handles PATCH /cases/:caseID/status (admin only). The new
// status overwrites the old unconditionally.
func (h *CasesHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateCaseStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.cases.SetStatus(c.Context(), principal.User, c.Params("caseID"), req.Status); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": req.Status}})
}

func queryInt(c *fiber.Ctx, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
