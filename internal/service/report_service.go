package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/case-portal/internal/domain"
	"github.com/spec-kit/case-portal/internal/events"
	"github.com/spec-kit/case-portal/internal/repository"
	apperrors "github.com/spec-kit/case-portal/pkg/util"
)

const reportRefPrefix = "REP"

// ReportService owns citizen incident reports and their moderation.
type ReportService struct {
	reports    repository.ReportRepository
	cases      repository.CaseRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// ReportCreateInput describes the submission payload.
type ReportCreateInput struct {
	ReportType       string
	LocationTag      *string
	IncidentDatetime *time.Time
	Description      string
	RelatedCaseID    string
	Consent          bool
}

// NewReportService constructs the service.
func NewReportService(reports repository.ReportRepository, cases repository.CaseRepository, dispatcher events.Dispatcher) *ReportService {
	return &ReportService{
		reports:    reports,
		cases:      cases,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// Create files a report with a generated REP-<year>-<seq> reference. A
// related case id that does not resolve is dropped silently rather than
// rejecting the submission.
func (s *ReportService) Create(ctx context.Context, user *domain.User, input ReportCreateInput) (*domain.Report, error) {
	if strings.TrimSpace(input.ReportType) == "" || strings.TrimSpace(input.Description) == "" {
		return nil, apperrors.NewValidationError("report type and description are required", nil)
	}
	if !input.Consent {
		return nil, apperrors.NewValidationError("you must consent to the terms to submit a report", nil)
	}

	year := s.now().Year()
	prefix := fmt.Sprintf("%s-%d-", reportRefPrefix, year)
	count, err := s.reports.CountByRefPrefix(ctx, prefix)
	if err != nil {
		return nil, err
	}
	ref := fmt.Sprintf("%s%06d", prefix, count+1)

	var relatedCaseID *string
	if strings.TrimSpace(input.RelatedCaseID) != "" {
		c, err := s.cases.GetByPublicID(ctx, input.RelatedCaseID)
		if err == nil {
			relatedCaseID = &c.ID
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}

	report := &domain.Report{
		Ref:              ref,
		UserID:           user.ID,
		RelatedCaseID:    relatedCaseID,
		ReportType:       strings.TrimSpace(input.ReportType),
		LocationTag:      input.LocationTag,
		IncidentDatetime: input.IncidentDatetime,
		Description:      strings.TrimSpace(input.Description),
		Status:           domain.ReportStatusReceived,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}

	if err := publish(ctx, s.dispatcher, events.Event{
		Type:        events.EventReportSubmitted,
		ActorUserID: user.ID,
		TargetType:  "report",
		TargetID:    target(report.ID),
		Meta:        map[string]any{"report_ref": report.Ref},
	}); err != nil {
		return nil, err
	}
	return report, nil
}

// ListForUser returns the caller's own reports, newest first.
func (s *ReportService) ListForUser(ctx context.Context, userID string) ([]domain.Report, error) {
	return s.reports.ListByUser(ctx, userID)
}

// ListAll returns reports for the admin moderation queue.
func (s *ReportService) ListAll(ctx context.Context, actor *domain.User, limit, offset int) ([]domain.Report, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("administrator role required")
	}
	return s.reports.ListAll(ctx, limit, offset)
}

// UpdateStatus overwrites a report's moderation status.
func (s *ReportService) UpdateStatus(ctx context.Context, actor *domain.User, reportID string, status domain.ReportStatus) error {
	if !actor.IsAdmin() {
		return apperrors.NewForbidden("administrator role required")
	}
	if err := s.reports.SetStatus(ctx, reportID, status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("report", nil)
		}
		return err
	}
	return publish(ctx, s.dispatcher, events.Event{
		Type:        events.EventReportStatusUpdated,
		ActorUserID: actor.ID,
		TargetType:  "report",
		TargetID:    target(reportID),
		Meta:        map[string]any{"status": status},
	})
}
