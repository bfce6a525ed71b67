package service

import (
	"context"
	"testing"

	"github.com/spec-kit/case-portal/internal/domain"
	"github.com/spec-kit/case-portal/internal/events"
	apperrors "github.com/spec-kit/case-portal/pkg/util"
)

// TestCaseLifecycle walks the whole engine end to end: an admin opens a
// case, a citizen finds it, requests access, is approved, chats, and the
// thread locks for them when the case closes.
func TestCaseLifecycle(t *testing.T) {
	ctx := context.Background()

	cases := newFakeCaseRepo()
	participants := newFakeParticipantRepo()
	requests := newFakeAccessRequestRepo(participants)
	messages := &fakeMessageRepo{}
	audits := &fakeAuditRepo{}

	dispatcher := events.NewInMemoryDispatcher()
	NewAuditService(audits).RegisterHandlers(dispatcher)

	caseSvc := NewCaseService(cases, dispatcher)
	caseSvc.now = fixedTime
	accessSvc := NewAccessService(requests, participants, cases, dispatcher)
	accessSvc.now = fixedTime
	messageSvc := NewMessageService(messages, participants, cases, dispatcher)

	admin := adminUser()
	citizen := regularUser()

	created, err := caseSvc.CreateCase(ctx, admin, CaseCreateInput{
		Title:      "Detained after traffic stop",
		Category:   "detention",
		PersonName: "S. Example",
	})
	if err != nil {
		t.Fatalf("CreateCase: %v", err)
	}
	if created.PublicID != "ICE-2026-000001" {
		t.Fatalf("public id = %q, want ICE-2026-000001", created.PublicID)
	}

	// Anonymous lookup works; chat stays gated behind sign-in.
	view, err := caseSvc.PublicLookup(ctx, created.PublicID, false)
	if err != nil {
		t.Fatalf("PublicLookup: %v", err)
	}
	if view.CanChat {
		t.Error("anonymous lookup must not offer chat")
	}

	// The citizen cannot post before being granted access.
	if _, err := messageSvc.Post(ctx, citizen, created.PublicID, "hello?", false, nil); err == nil {
		t.Fatal("outsider post should be rejected")
	}

	req, err := accessSvc.Submit(ctx, citizen, created.PublicID, nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := accessSvc.Approve(ctx, admin, req.ID); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	// Approved citizen chats; admin can now reply.
	if _, err := messageSvc.Post(ctx, citizen, created.PublicID, "Where is he held?", false, nil); err != nil {
		t.Fatalf("citizen Post: %v", err)
	}
	if _, err := messageSvc.Post(ctx, admin, created.PublicID, "Checking with the facility.", false, nil); err != nil {
		t.Fatalf("admin Post: %v", err)
	}
	if _, err := messageSvc.Post(ctx, admin, created.PublicID, "Verify before sharing.", true, nil); err != nil {
		t.Fatalf("admin internal Post: %v", err)
	}

	_, visible, err := messageSvc.List(ctx, citizen, created.PublicID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(visible) != 2 {
		t.Fatalf("citizen sees %d messages, want 2", len(visible))
	}

	// Closing the case locks the thread for the citizen but not the admin.
	if err := caseSvc.SetStatus(ctx, admin, created.PublicID, domain.CaseStatusClosed); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	_, err = messageSvc.Post(ctx, citizen, created.PublicID, "any news?", false, nil)
	assertCode(t, err, apperrors.CodeInvalidState)
	if _, err := messageSvc.Post(ctx, admin, created.PublicID, "Released this morning.", false, nil); err != nil {
		t.Fatalf("admin Post on closed case: %v", err)
	}

	// Every step left an audit entry.
	wantActions := []string{
		"create_case",
		"submit_access_request",
		"approve_access",
		"send_message",
		"send_message",
		"send_message",
		"update_status",
		"send_message",
	}
	if len(audits.entries) != len(wantActions) {
		t.Fatalf("audit entries = %d, want %d", len(audits.entries), len(wantActions))
	}
	for i, want := range wantActions {
		if audits.entries[i].Action != want {
			t.Errorf("audit[%d] = %q, want %q", i, audits.entries[i].Action, want)
		}
	}
}
