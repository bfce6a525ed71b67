package service

import (
	"context"
	"testing"

	"github.com/spec-kit/case-portal/internal/domain"
	apperrors "github.com/spec-kit/case-portal/pkg/util"
)

type accessFixture struct {
	svc          *AccessService
	cases        *fakeCaseRepo
	requests     *fakeAccessRequestRepo
	participants *fakeParticipantRepo
	dispatcher   *recordingDispatcher
	admin        *domain.User
	caseRecord   *domain.Case
}

func newAccessFixture(t *testing.T) *accessFixture {
	t.Helper()

	cases := newFakeCaseRepo()
	participants := newFakeParticipantRepo()
	requests := newFakeAccessRequestRepo(participants)
	dispatcher := &recordingDispatcher{}

	admin := adminUser()
	caseSvc := newCaseServiceForTest(cases, dispatcher)
	caseRecord, err := caseSvc.CreateCase(context.Background(), admin, CaseCreateInput{
		Title:      "Detained during workplace raid",
		Category:   "detention",
		PersonName: "M. Example",
	})
	if err != nil {
		t.Fatalf("seed case: %v", err)
	}

	svc := NewAccessService(requests, participants, cases, dispatcher)
	svc.now = fixedTime

	return &accessFixture{
		svc:          svc,
		cases:        cases,
		requests:     requests,
		participants: participants,
		dispatcher:   dispatcher,
		admin:        admin,
		caseRecord:   caseRecord,
	}
}

func TestSubmitAccessRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending request", func(t *testing.T) {
		f := newAccessFixture(t)
		user := regularUser()

		req, err := f.svc.Submit(ctx, user, f.caseRecord.PublicID, nil)
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		if req.Status != domain.AccessRequestPending {
			t.Errorf("status = %q, want pending", req.Status)
		}
		if f.dispatcher.lastType() != "submit_access_request" {
			t.Errorf("last event = %q, want submit_access_request", f.dispatcher.lastType())
		}
	})

	t.Run("any prior request blocks resubmission", func(t *testing.T) {
		for _, status := range []domain.AccessRequestStatus{
			domain.AccessRequestPending,
			domain.AccessRequestApproved,
			domain.AccessRequestDenied,
		} {
			t.Run(string(status), func(t *testing.T) {
				f := newAccessFixture(t)
				user := regularUser()

				req, err := f.svc.Submit(ctx, user, f.caseRecord.PublicID, nil)
				if err != nil {
					t.Fatalf("Submit: %v", err)
				}
				f.requests.requests[req.ID].Status = status

				_, err = f.svc.Submit(ctx, user, f.caseRecord.PublicID, nil)
				assertCode(t, err, apperrors.CodeConflict)
			})
		}
	})

	t.Run("existing participant cannot request", func(t *testing.T) {
		f := newAccessFixture(t)
		user := regularUser()
		if err := f.participants.Ensure(ctx, f.caseRecord.ID, user.ID); err != nil {
			t.Fatalf("Ensure: %v", err)
		}

		_, err := f.svc.Submit(ctx, user, f.caseRecord.PublicID, nil)
		assertCode(t, err, apperrors.CodeConflict)
	})

	t.Run("unknown case yields not found", func(t *testing.T) {
		f := newAccessFixture(t)

		_, err := f.svc.Submit(ctx, regularUser(), "ICE-2026-999999", nil)
		assertCode(t, err, apperrors.CodeNotFound)
	})
}

func TestApproveAndDeny(t *testing.T) {
	ctx := context.Background()

	t.Run("approve grants participation", func(t *testing.T) {
		f := newAccessFixture(t)
		user := regularUser()
		req, err := f.svc.Submit(ctx, user, f.caseRecord.PublicID, nil)
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}

		if err := f.svc.Approve(ctx, f.admin, req.ID); err != nil {
			t.Fatalf("Approve: %v", err)
		}
		member, err := f.participants.Exists(ctx, f.caseRecord.ID, user.ID)
		if err != nil {
			t.Fatalf("Exists: %v", err)
		}
		if !member {
			t.Error("approved requester should be a participant")
		}
	})

	t.Run("double approve fails and keeps one participant", func(t *testing.T) {
		f := newAccessFixture(t)
		user := regularUser()
		req, _ := f.svc.Submit(ctx, user, f.caseRecord.PublicID, nil)

		if err := f.svc.Approve(ctx, f.admin, req.ID); err != nil {
			t.Fatalf("first Approve: %v", err)
		}
		err := f.svc.Approve(ctx, f.admin, req.ID)
		assertCode(t, err, apperrors.CodeInvalidState)

		count, _ := f.participants.CountByCase(ctx, f.caseRecord.ID)
		if count != 1 {
			t.Errorf("participants = %d, want 1", count)
		}
	})

	t.Run("denied request can never be approved", func(t *testing.T) {
		f := newAccessFixture(t)
		user := regularUser()
		req, _ := f.svc.Submit(ctx, user, f.caseRecord.PublicID, nil)

		if err := f.svc.Deny(ctx, f.admin, req.ID); err != nil {
			t.Fatalf("Deny: %v", err)
		}
		err := f.svc.Approve(ctx, f.admin, req.ID)
		assertCode(t, err, apperrors.CodeInvalidState)

		member, _ := f.participants.Exists(ctx, f.caseRecord.ID, user.ID)
		if member {
			t.Error("denied requester must not become a participant")
		}
	})

	t.Run("non-admin cannot review", func(t *testing.T) {
		f := newAccessFixture(t)
		req, _ := f.svc.Submit(ctx, regularUser(), f.caseRecord.PublicID, nil)

		assertCode(t, f.svc.Approve(ctx, regularUser(), req.ID), apperrors.CodeForbidden)
		assertCode(t, f.svc.Deny(ctx, regularUser(), req.ID), apperrors.CodeForbidden)
	})
}

func TestViewCase(t *testing.T) {
	ctx := context.Background()

	t.Run("non-admin is joined exactly once", func(t *testing.T) {
		f := newAccessFixture(t)
		user := regularUser()

		view, err := f.svc.ViewCase(ctx, user, f.caseRecord.PublicID)
		if err != nil {
			t.Fatalf("ViewCase: %v", err)
		}
		if !view.Joined {
			t.Error("first view should join the viewer")
		}

		view, err = f.svc.ViewCase(ctx, user, f.caseRecord.PublicID)
		if err != nil {
			t.Fatalf("second ViewCase: %v", err)
		}
		if view.Joined {
			t.Error("repeat view must not rejoin")
		}
		count, _ := f.participants.CountByCase(ctx, f.caseRecord.ID)
		if count != 1 {
			t.Errorf("participants = %d, want 1", count)
		}
	})

	t.Run("admin is never inserted", func(t *testing.T) {
		f := newAccessFixture(t)

		view, err := f.svc.ViewCase(ctx, f.admin, f.caseRecord.PublicID)
		if err != nil {
			t.Fatalf("ViewCase: %v", err)
		}
		if view.Joined {
			t.Error("admin view must not join")
		}
		count, _ := f.participants.CountByCase(ctx, f.caseRecord.ID)
		if count != 0 {
			t.Errorf("participants = %d, want 0", count)
		}
	})
}

func TestCanAccessCase(t *testing.T) {
	ctx := context.Background()
	f := newAccessFixture(t)
	user := regularUser()

	ok, err := f.svc.CanAccessCase(ctx, f.admin, f.caseRecord.ID)
	if err != nil || !ok {
		t.Errorf("admin access = (%v, %v), want (true, nil)", ok, err)
	}

	ok, err = f.svc.CanAccessCase(ctx, user, f.caseRecord.ID)
	if err != nil || ok {
		t.Errorf("outsider access = (%v, %v), want (false, nil)", ok, err)
	}

	_ = f.participants.Ensure(ctx, f.caseRecord.ID, user.ID)
	ok, err = f.svc.CanAccessCase(ctx, user, f.caseRecord.ID)
	if err != nil || !ok {
		t.Errorf("participant access = (%v, %v), want (true, nil)", ok, err)
	}
}
