package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/case-portal/internal/api/dto"
	"github.com/spec-kit/case-portal/internal/auth"
	"github.com/spec-kit/case-portal/internal/service"
	apperrors "github.com/spec-kit/case-portal/pkg/util"
)

// AdminHandler groups the admin-only endpoints: the access-request review
// queue, report moderation, role promotion and the audit trail.
type AdminHandler struct {
	access  *service.AccessService
	reports *service.ReportService
	audits  *service.AuditService
	users   *service.AuthService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(access *service.AccessService, reports *service.ReportService, audits *service.AuditService, users *service.AuthService) *AdminHandler {
	return &AdminHandler{access: access, reports: reports, audits: audits, users: users}
}

// PendingAccessRequests handles GET /admin/access-requests.
func (h *AdminHandler) PendingAccessRequests(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	requests, err := h.access.ListPending(c.Context(), principal.User)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAccessRequestResponses(requests)})
}

// ApproveAccessRequest handles POST /admin/access-requests/:requestID/approve.
// Approval flips the request to approved and grants participation in the
// same transaction.
func (h *AdminHandler) ApproveAccessRequest(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.access.Approve(c.Context(), principal.User, c.Params("requestID")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"approved": true}})
}

// DenyAccessRequest handles POST /admin/access-requests/:requestID/deny.
func (h *AdminHandler) DenyAccessRequest(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.access.Deny(c.Context(), principal.User, c.Params("requestID")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"denied": true}})
}

// ListReports handles GET /admin/reports.
func (h *AdminHandler) ListReports(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)

	reports, err := h.reports.ListAll(c.Context(), principal.User, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewReportResponses(reports)})
}

// UpdateReportStatus handles PATCH /admin/reports/:reportID/status.
func (h *AdminHandler) UpdateReportStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateReportStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.reports.UpdateStatus(c.Context(), principal.User, c.Params("reportID"), req.Status); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": req.Status}})
}

// PromoteUser handles POST /admin/users/promote. The identifier may be an
// email, an email local part or a full name.
func (h *AdminHandler) PromoteUser(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.PromoteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	promoted, err := h.users.PromoteUserToAdmin(c.Context(), principal.User, req.Identifier)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"user": userResponse(promoted)}})
}

// AuditLogs handles GET /admin/audit-logs.
func (h *AdminHandler) AuditLogs(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	limit := queryInt(c, "limit", 200)
	entries, err := h.audits.ListRecent(c.Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAuditEntryResponses(entries)})
}
