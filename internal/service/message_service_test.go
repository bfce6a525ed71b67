package service

import (
	"context"
	"testing"

	"github.com/spec-kit/case-portal/internal/domain"
	apperrors "github.com/spec-kit/case-portal/pkg/util"
)

type messageFixture struct {
	svc          *MessageService
	cases        *fakeCaseRepo
	messages     *fakeMessageRepo
	participants *fakeParticipantRepo
	admin        *domain.User
	caseRecord   *domain.Case
}

func newMessageFixture(t *testing.T) *messageFixture {
	t.Helper()

	cases := newFakeCaseRepo()
	participants := newFakeParticipantRepo()
	messages := &fakeMessageRepo{}
	dispatcher := &recordingDispatcher{}

	admin := adminUser()
	caseSvc := newCaseServiceForTest(cases, dispatcher)
	caseRecord, err := caseSvc.CreateCase(context.Background(), admin, CaseCreateInput{
		Title:      "Family separated at border",
		Category:   "family",
		PersonName: "R. Example",
	})
	if err != nil {
		t.Fatalf("seed case: %v", err)
	}

	return &messageFixture{
		svc:          NewMessageService(messages, participants, cases, dispatcher),
		cases:        cases,
		messages:     messages,
		participants: participants,
		admin:        admin,
		caseRecord:   caseRecord,
	}
}

func (f *messageFixture) join(t *testing.T, user *domain.User) {
	t.Helper()
	if err := f.participants.Ensure(context.Background(), f.caseRecord.ID, user.ID); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
}

func (f *messageFixture) setStatus(status domain.CaseStatus) {
	f.cases.cases[f.caseRecord.ID].Status = status
}

func TestPostMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("participant posts on open case", func(t *testing.T) {
		f := newMessageFixture(t)
		user := regularUser()
		f.join(t, user)

		msg, err := f.svc.Post(ctx, user, f.caseRecord.PublicID, "Any update on the hearing?", false, nil)
		if err != nil {
			t.Fatalf("Post: %v", err)
		}
		if msg.SenderRole != domain.RoleUser {
			t.Errorf("sender role = %q, want user", msg.SenderRole)
		}
	})

	t.Run("unknown case yields not found", func(t *testing.T) {
		f := newMessageFixture(t)
		_, err := f.svc.Post(ctx, f.admin, "ICE-2026-999999", "hello", false, nil)
		assertCode(t, err, apperrors.CodeNotFound)
	})

	t.Run("closed case rejects non-admin before other checks", func(t *testing.T) {
		f := newMessageFixture(t)
		user := regularUser()
		f.join(t, user)
		f.setStatus(domain.CaseStatusClosed)

		_, err := f.svc.Post(ctx, user, f.caseRecord.PublicID, "still there?", false, nil)
		assertCode(t, err, apperrors.CodeInvalidState)
	})

	t.Run("closed case still accepts admin", func(t *testing.T) {
		f := newMessageFixture(t)
		f.join(t, regularUser())
		f.setStatus(domain.CaseStatusClosed)

		if _, err := f.svc.Post(ctx, f.admin, f.caseRecord.PublicID, "closing note", false, nil); err != nil {
			t.Fatalf("Post: %v", err)
		}
	})

	t.Run("internal note requires admin", func(t *testing.T) {
		f := newMessageFixture(t)
		user := regularUser()
		f.join(t, user)

		_, err := f.svc.Post(ctx, user, f.caseRecord.PublicID, "note", true, nil)
		assertCode(t, err, apperrors.CodeForbidden)
	})

	t.Run("admin cannot initiate on empty case", func(t *testing.T) {
		f := newMessageFixture(t)

		_, err := f.svc.Post(ctx, f.admin, f.caseRecord.PublicID, "anyone here?", false, nil)
		assertCode(t, err, apperrors.CodeInvalidState)
	})

	t.Run("non-participant is rejected", func(t *testing.T) {
		f := newMessageFixture(t)

		_, err := f.svc.Post(ctx, regularUser(), f.caseRecord.PublicID, "let me in", false, nil)
		assertCode(t, err, apperrors.CodeForbidden)
	})

	t.Run("empty body without attachment is rejected", func(t *testing.T) {
		f := newMessageFixture(t)
		user := regularUser()
		f.join(t, user)

		_, err := f.svc.Post(ctx, user, f.caseRecord.PublicID, "   ", false, nil)
		assertCode(t, err, apperrors.CodeValidationFailed)
	})

	t.Run("attachment-only message gets placeholder body", func(t *testing.T) {
		f := newMessageFixture(t)
		user := regularUser()
		f.join(t, user)

		msg, err := f.svc.Post(ctx, user, f.caseRecord.PublicID, "", false, &AttachmentInput{
			FileURL:  "https://files.example.com/photo.jpg",
			FileName: "photo.jpg",
			MimeType: "image/jpeg",
		})
		if err != nil {
			t.Fatalf("Post: %v", err)
		}
		if msg.Body != domain.AttachmentPlaceholder {
			t.Errorf("body = %q, want %q", msg.Body, domain.AttachmentPlaceholder)
		}
		if msg.Attachment == nil {
			t.Fatal("attachment missing from stored message")
		}
	})
}

func TestListMessages(t *testing.T) {
	ctx := context.Background()

	t.Run("internal notes never reach non-admins", func(t *testing.T) {
		f := newMessageFixture(t)
		user := regularUser()
		f.join(t, user)

		if _, err := f.svc.Post(ctx, user, f.caseRecord.PublicID, "public question", false, nil); err != nil {
			t.Fatalf("Post public: %v", err)
		}
		if _, err := f.svc.Post(ctx, f.admin, f.caseRecord.PublicID, "internal assessment", true, nil); err != nil {
			t.Fatalf("Post internal: %v", err)
		}

		_, msgs, err := f.svc.List(ctx, user, f.caseRecord.PublicID)
		if err != nil {
			t.Fatalf("List as user: %v", err)
		}
		if len(msgs) != 1 {
			t.Fatalf("user sees %d messages, want 1", len(msgs))
		}
		if msgs[0].IsInternalNote {
			t.Error("user listing contains an internal note")
		}

		_, msgs, err = f.svc.List(ctx, f.admin, f.caseRecord.PublicID)
		if err != nil {
			t.Fatalf("List as admin: %v", err)
		}
		if len(msgs) != 2 {
			t.Fatalf("admin sees %d messages, want 2", len(msgs))
		}
	})

	t.Run("listing never joins the caller", func(t *testing.T) {
		f := newMessageFixture(t)
		user := regularUser()

		_, _, err := f.svc.List(ctx, user, f.caseRecord.PublicID)
		assertCode(t, err, apperrors.CodeForbidden)

		count, _ := f.participants.CountByCase(ctx, f.caseRecord.ID)
		if count != 0 {
			t.Errorf("participants = %d, want 0 after denied listing", count)
		}
	})
}
