package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/case-portal/internal/domain"
	"github.com/spec-kit/case-portal/internal/events"
)

// In-memory repository fakes backing the service tests.

type fakeCaseRepo struct {
	cases     map[string]*domain.Case
	createErr error
}

func newFakeCaseRepo() *fakeCaseRepo {
	return &fakeCaseRepo{cases: make(map[string]*domain.Case)}
}

func (r *fakeCaseRepo) Create(_ context.Context, c *domain.Case) error {
	if r.createErr != nil {
		err := r.createErr
		r.createErr = nil
		return err
	}
	for _, existing := range r.cases {
		if existing.PublicID == c.PublicID {
			return &pgconn.PgError{Code: "23505"}
		}
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	clone := *c
	r.cases[c.ID] = &clone
	return nil
}

func (r *fakeCaseRepo) GetByID(_ context.Context, id string) (*domain.Case, error) {
	c, ok := r.cases[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *c
	return &clone, nil
}

func (r *fakeCaseRepo) GetByPublicID(_ context.Context, publicID string) (*domain.Case, error) {
	needle := strings.ToUpper(strings.TrimSpace(publicID))
	for _, c := range r.cases {
		if strings.ToUpper(c.PublicID) == needle {
			clone := *c
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCaseRepo) LatestPublicIDForYearPrefix(_ context.Context, prefix string) (string, error) {
	var ids []string
	for _, c := range r.cases {
		if strings.HasPrefix(c.PublicID, prefix) {
			ids = append(ids, c.PublicID)
		}
	}
	if len(ids) == 0 {
		return "", pgx.ErrNoRows
	}
	sort.Strings(ids)
	return ids[len(ids)-1], nil
}

func (r *fakeCaseRepo) SetStatus(_ context.Context, id string, status domain.CaseStatus) error {
	c, ok := r.cases[id]
	if !ok {
		return pgx.ErrNoRows
	}
	c.Status = status
	c.UpdatedAt = time.Now()
	return nil
}

func (r *fakeCaseRepo) List(_ context.Context, limit, offset int) ([]domain.Case, error) {
	out := make([]domain.Case, 0, len(r.cases))
	for _, c := range r.cases {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PublicID < out[j].PublicID })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

type fakeAccessRequestRepo struct {
	requests     map[string]*domain.AccessRequest
	participants *fakeParticipantRepo
}

func newFakeAccessRequestRepo(participants *fakeParticipantRepo) *fakeAccessRequestRepo {
	return &fakeAccessRequestRepo{
		requests:     make(map[string]*domain.AccessRequest),
		participants: participants,
	}
}

func (r *fakeAccessRequestRepo) Create(_ context.Context, req *domain.AccessRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	req.CreatedAt = time.Now()
	clone := *req
	r.requests[req.ID] = &clone
	return nil
}

func (r *fakeAccessRequestRepo) GetByCaseAndUser(_ context.Context, caseID, userID string) (*domain.AccessRequest, error) {
	for _, req := range r.requests {
		if req.CaseID == caseID && req.UserID == userID {
			clone := *req
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeAccessRequestRepo) Approve(ctx context.Context, requestID, reviewerID string, at time.Time) (bool, error) {
	req, ok := r.requests[requestID]
	if !ok || req.Status != domain.AccessRequestPending {
		return false, nil
	}
	req.Status = domain.AccessRequestApproved
	req.ReviewedBy = &reviewerID
	req.ReviewedAt = &at
	if r.participants != nil {
		if err := r.participants.Ensure(ctx, req.CaseID, req.UserID); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (r *fakeAccessRequestRepo) Deny(_ context.Context, requestID, reviewerID string, at time.Time) (bool, error) {
	req, ok := r.requests[requestID]
	if !ok || req.Status != domain.AccessRequestPending {
		return false, nil
	}
	req.Status = domain.AccessRequestDenied
	req.ReviewedBy = &reviewerID
	req.ReviewedAt = &at
	return true, nil
}

func (r *fakeAccessRequestRepo) ListPending(_ context.Context) ([]domain.AccessRequest, error) {
	var out []domain.AccessRequest
	for _, req := range r.requests {
		if req.Status == domain.AccessRequestPending {
			out = append(out, *req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeAccessRequestRepo) ListByUser(_ context.Context, userID string) ([]domain.AccessRequest, error) {
	var out []domain.AccessRequest
	for _, req := range r.requests {
		if req.UserID == userID {
			out = append(out, *req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type fakeParticipantRepo struct {
	members map[string]map[string]bool
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{members: make(map[string]map[string]bool)}
}

func (r *fakeParticipantRepo) Ensure(_ context.Context, caseID, userID string) error {
	if r.members[caseID] == nil {
		r.members[caseID] = make(map[string]bool)
	}
	r.members[caseID][userID] = true
	return nil
}

func (r *fakeParticipantRepo) Exists(_ context.Context, caseID, userID string) (bool, error) {
	return r.members[caseID][userID], nil
}

func (r *fakeParticipantRepo) CountByCase(_ context.Context, caseID string) (int, error) {
	return len(r.members[caseID]), nil
}

type fakeMessageRepo struct {
	messages []domain.Message
}

func (r *fakeMessageRepo) Create(_ context.Context, msg *domain.Message, att *domain.Attachment) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	msg.CreatedAt = time.Now()
	if att != nil {
		att.ID = uuid.NewString()
		att.MessageID = msg.ID
		msg.Attachment = att
	}
	r.messages = append(r.messages, *msg)
	return nil
}

func (r *fakeMessageRepo) ListByCase(_ context.Context, caseID string, includeInternal bool) ([]domain.Message, error) {
	var out []domain.Message
	for _, m := range r.messages {
		if m.CaseID != caseID {
			continue
		}
		if m.IsInternalNote && !includeInternal {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == strings.ToLower(email) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) FindByIdentifier(_ context.Context, identifier string) (*domain.User, error) {
	needle := strings.ToLower(identifier)
	for _, u := range r.users {
		local := u.Email
		if at := strings.Index(local, "@"); at > 0 {
			local = local[:at]
		}
		if strings.ToLower(u.Email) == needle || strings.ToLower(local) == needle || strings.ToLower(u.FullName) == needle {
			clone := *u
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) SetRole(_ context.Context, id string, role domain.Role) error {
	u, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.Role = role
	return nil
}

type fakeReportRepo struct {
	reports []domain.Report
}

func (r *fakeReportRepo) Create(_ context.Context, report *domain.Report) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	report.CreatedAt = time.Now()
	r.reports = append(r.reports, *report)
	return nil
}

func (r *fakeReportRepo) CountByRefPrefix(_ context.Context, prefix string) (int, error) {
	count := 0
	for _, rep := range r.reports {
		if strings.HasPrefix(rep.Ref, prefix) {
			count++
		}
	}
	return count, nil
}

func (r *fakeReportRepo) ListByUser(_ context.Context, userID string) ([]domain.Report, error) {
	var out []domain.Report
	for _, rep := range r.reports {
		if rep.UserID == userID {
			out = append(out, rep)
		}
	}
	return out, nil
}

func (r *fakeReportRepo) ListAll(_ context.Context, limit, offset int) ([]domain.Report, error) {
	out := append([]domain.Report{}, r.reports...)
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeReportRepo) SetStatus(_ context.Context, id string, status domain.ReportStatus) error {
	for i := range r.reports {
		if r.reports[i].ID == id {
			r.reports[i].Status = status
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeAuditRepo struct {
	entries   []domain.AuditEntry
	createErr error
}

func (r *fakeAuditRepo) Create(_ context.Context, entry *domain.AuditEntry) error {
	if r.createErr != nil {
		return r.createErr
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAuditRepo) ListRecent(_ context.Context, limit int) ([]domain.AuditEntry, error) {
	out := append([]domain.AuditEntry{}, r.entries...)
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// recordingDispatcher captures published events for assertions.
type recordingDispatcher struct {
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) lastType() events.EventType {
	if len(d.published) == 0 {
		return ""
	}
	return d.published[len(d.published)-1].Type
}

func adminUser() *domain.User {
	return &domain.User{ID: uuid.NewString(), FullName: "Admin", Email: "admin@example.com", Role: domain.RoleAdmin}
}

func regularUser() *domain.User {
	return &domain.User{ID: uuid.NewString(), FullName: "Citizen", Email: "citizen@example.com", Role: domain.RoleUser}
}
