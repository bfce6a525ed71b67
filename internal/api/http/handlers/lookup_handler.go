package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/case-portal/internal/api/dto"
	"github.com/spec-kit/case-portal/internal/auth"
	"github.com/spec-kit/case-portal/internal/ratelimit"
	"github.com/spec-kit/case-portal/internal/service"
	apperrors "github.com/spec-kit/case-portal/pkg/util"
)

// LookupHandler serves the unauthenticated case lookup. Lookups are rate
// limited per case id so the sequential id space cannot be enumerated
// quickly.
type LookupHandler struct {
	cases   *service.CaseService
	limiter *ratelimit.Limiter
}

// NewLookupHandler constructs handler.
func NewLookupHandler(cases *service.CaseService, limiter *ratelimit.Limiter) *LookupHandler {
	return &LookupHandler{cases: cases, limiter: limiter}
}

// Lookup handles GET /lookup?case_id=ICE-2026-000123. A missing case yields
// found=false with 200 rather than an error, so probes cannot distinguish
// throttling tiers from response codes alone.
func (h *LookupHandler) Lookup(c *fiber.Ctx) error {
	caseID := strings.ToUpper(strings.TrimSpace(c.Query("case_id")))
	if caseID == "" {
		return apperrors.NewValidationError("case_id query parameter required", nil)
	}

	res, err := h.limiter.Allow(c.Context(), "lookup:"+caseID)
	if err != nil {
		return err
	}
	if !res.Allowed {
		return apperrors.NewRateLimited("too many lookups for this case id, slow down")
	}

	_, authenticated := auth.PrincipalFromContext(c)

	view, err := h.cases.PublicLookup(c.Context(), caseID, authenticated)
	if err != nil {
		var domainErr *apperrors.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == apperrors.CodeNotFound {
			return c.JSON(fiber.Map{"data": dto.PublicCaseResponse{Found: false}})
		}
		return err
	}

	return c.JSON(fiber.Map{"data": dto.PublicCaseResponse{
		Found:         true,
		CaseID:        view.PublicID,
		Status:        view.Status,
		LocationTag:   view.LocationTag,
		SummaryPublic: view.SummaryPublic,
		CanChat:       view.CanChat,
	}})
}
