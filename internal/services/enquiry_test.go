package services

import (
	"context"
	"reflect"
	"testing"

	"exoticafarms/internal/domain"
	"exoticafarms/internal/repository"
	apperrors "exoticafarms/pkg/errors"
)

const visitMetadata = `{"date":"2025-06-01","time":"morning","visitors":"4","purpose":"Educational"}`

func newEnquiryFixture(t *testing.T, strict bool) (*EnquiryService, repository.EnquiryRepository, *fakeNotifier) {
	t.Helper()
	repo := repository.NewEnquiryRepository(openTestDB(t))
	n := &fakeNotifier{}
	return NewEnquiryService(repo, n, strict), repo, n
}

func submitVisit(t *testing.T, svc *EnquiryService) *domain.Enquiry {
	t.Helper()
	e, err := svc.SubmitFarmVisit(context.Background(), FarmVisitSubmission{
		Name:     "Asha",
		Email:    " Asha@Example.com ",
		Phone:    "9876543210",
		Message:  "School trip",
		Metadata: visitMetadata,
	})
	if err != nil {
		t.Fatalf("submit farm visit: %v", err)
	}
	return e
}

func TestSubmitContact(t *testing.T) {
	svc, repo, n := newEnquiryFixture(t, false)

	e, err := svc.SubmitContact(context.Background(), ContactSubmission{
		Name: "Ravi", Email: "ravi@example.com", Message: "Do you deliver?",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	stored, err := repo.GetByID(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Type != domain.EnquiryTypeContact || stored.Status != domain.StatusPending || stored.IsContacted {
		t.Fatalf("stored = %+v", stored)
	}
	if stored.Phone != nil || len(stored.Metadata) != 0 {
		t.Fatalf("contact should carry no phone or metadata: %+v", stored)
	}
	if got, want := n.ops(), []string{"admin:CONTACT", "ack"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("notifications = %v, want %v", got, want)
	}
}

func TestSubmitValidation(t *testing.T) {
	svc, repo, n := newEnquiryFixture(t, false)
	ctx := context.Background()

	contactCases := []ContactSubmission{
		{Email: "a@example.com", Message: "m"},
		{Name: "Ravi", Email: "not-an-email", Message: "m"},
		{Name: "Ravi", Email: "a@example.com"},
		{Name: "Ravi", Email: "a@example.com", Message: "m", Phone: "call me maybe"},
	}
	for _, in := range contactCases {
		if _, err := svc.SubmitContact(ctx, in); !apperrors.IsValidation(err) {
			t.Errorf("SubmitContact(%+v) err = %v, want validation", in, err)
		}
	}

	visitCases := []FarmVisitSubmission{
		{Name: "Asha", Email: "a@example.com", Metadata: visitMetadata},
		{Name: "Asha", Email: "a@example.com", Phone: "9876543210", Metadata: ""},
		{Name: "Asha", Email: "a@example.com", Phone: "9876543210", Metadata: `{"date":"soon"}`},
	}
	for _, in := range visitCases {
		if _, err := svc.SubmitFarmVisit(ctx, in); !apperrors.IsValidation(err) {
			t.Errorf("SubmitFarmVisit(%+v) err = %v, want validation", in, err)
		}
	}

	list, err := repo.List(ctx, "", domain.FilterAll)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 || len(n.calls) != 0 {
		t.Fatalf("invalid submissions left rows=%d notifications=%d", len(list), len(n.calls))
	}
}

func TestFarmVisitMetadataRoundTrip(t *testing.T) {
	svc, _, n := newEnquiryFixture(t, false)
	e := submitVisit(t, svc)

	got, err := svc.Get(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Email != "asha@example.com" {
		t.Fatalf("email not normalized: %s", got.Email)
	}
	visit, err := got.Visit()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := &domain.VisitDetails{Date: "2025-06-01", Time: domain.SlotMorning, Visitors: 4, Purpose: domain.PurposeEducational}
	if !reflect.DeepEqual(visit, want) {
		t.Fatalf("visit = %+v, want %+v", visit, want)
	}
	encoded, _ := visit.Encode()
	if string(encoded) != visitMetadata {
		t.Fatalf("re-encoded = %s", encoded)
	}
	if got, want := n.ops(), []string{"admin:FARM_VISIT", "visit:RECEIVED"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("notifications = %v, want %v", got, want)
	}
}

func TestApproveAndRejectScenario(t *testing.T) {
	svc, _, n := newEnquiryFixture(t, false)
	ctx := context.Background()

	approved := submitVisit(t, svc)
	if _, err := svc.Approve(ctx, approved.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	got, _ := svc.Get(ctx, approved.ID)
	if got.Status != domain.StatusApproved {
		t.Fatalf("status = %s", got.Status)
	}

	rejected := submitVisit(t, svc)
	if _, err := svc.Reject(ctx, rejected.ID, "Fully booked"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	got, _ = svc.Get(ctx, rejected.ID)
	if got.Status != domain.StatusRejected || got.RejectionReason == nil || *got.RejectionReason != "Fully booked" {
		t.Fatalf("rejected record = %+v", got)
	}
	if got.IsContacted {
		t.Fatal("rejection must not touch isContacted")
	}

	last := n.calls[len(n.calls)-1]
	if last.op != "visit" || last.kind != string(VisitRejected) || last.reason != "Fully booked" {
		t.Fatalf("last notification = %+v", last)
	}
}

func TestPermissiveTransitionsAllowRepeats(t *testing.T) {
	svc, _, _ := newEnquiryFixture(t, false)
	ctx := context.Background()
	e := submitVisit(t, svc)

	if _, err := svc.Approve(ctx, e.ID); err != nil {
		t.Fatalf("first approve: %v", err)
	}
	if _, err := svc.Approve(ctx, e.ID); err != nil {
		t.Fatalf("repeat approve should be accepted: %v", err)
	}
	if _, err := svc.Reject(ctx, e.ID, "Changed plans"); err != nil {
		t.Fatalf("reject after approve should be accepted: %v", err)
	}
	got, _ := svc.Approve(ctx, e.ID)
	if got.RejectionReason != nil {
		t.Fatal("approval should clear the rejection reason")
	}
}

func TestStrictTransitionsRefuseDecidedRecords(t *testing.T) {
	svc, _, n := newEnquiryFixture(t, true)
	ctx := context.Background()
	e := submitVisit(t, svc)

	if _, err := svc.Approve(ctx, e.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	before := len(n.calls)
	if _, err := svc.Reject(ctx, e.ID, "Too late"); !apperrors.IsConflict(err) {
		t.Fatalf("reject after approve err = %v, want conflict", err)
	}
	if len(n.calls) != before {
		t.Fatal("refused transition must not notify")
	}
	got, _ := svc.Get(ctx, e.ID)
	if got.Status != domain.StatusApproved {
		t.Fatalf("status changed to %s", got.Status)
	}
}

func TestRejectRequiresReason(t *testing.T) {
	svc, _, n := newEnquiryFixture(t, false)
	ctx := context.Background()
	e := submitVisit(t, svc)
	before := len(n.calls)

	for _, reason := range []string{"", "   "} {
		if _, err := svc.Reject(ctx, e.ID, reason); !apperrors.IsValidation(err) {
			t.Fatalf("reject(%q) err = %v, want validation", reason, err)
		}
	}
	got, _ := svc.Get(ctx, e.ID)
	if got.Status != domain.StatusPending || got.RejectionReason != nil {
		t.Fatalf("record mutated: %+v", got)
	}
	if len(n.calls) != before {
		t.Fatal("validation failure must not notify")
	}
}

func TestReplyGatesIsContacted(t *testing.T) {
	svc, _, n := newEnquiryFixture(t, false)
	ctx := context.Background()
	e := submitVisit(t, svc)

	n.replyErr = errSMTPDown
	err := svc.Reply(ctx, e.ID, ReplyInput{Message: "We have a slot on Sunday"})
	if err == nil {
		t.Fatal("expected reply failure")
	}
	got, _ := svc.Get(ctx, e.ID)
	if got.IsContacted {
		t.Fatal("isContacted flipped although the email failed")
	}

	n.replyErr = nil
	if err := svc.Reply(ctx, e.ID, ReplyInput{Message: "We have a slot on Sunday"}); err != nil {
		t.Fatalf("reply: %v", err)
	}
	got, _ = svc.Get(ctx, e.ID)
	if !got.IsContacted || got.Status != domain.StatusPending {
		t.Fatalf("after reply: %+v", got)
	}

	if err := svc.Reply(ctx, e.ID, ReplyInput{Message: "  "}); !apperrors.IsValidation(err) {
		t.Fatalf("empty reply err = %v, want validation", err)
	}
}

func TestMarkContactedIsSilent(t *testing.T) {
	svc, _, n := newEnquiryFixture(t, false)
	ctx := context.Background()
	e := submitVisit(t, svc)
	before := len(n.calls)

	if err := svc.MarkContacted(ctx, e.ID); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if len(n.calls) != before {
		t.Fatal("markContacted must not notify")
	}
	list, err := svc.List(ctx, domain.EnquiryTypeFarmVisit, domain.FilterCommunicating)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.Enquiries) != 1 || list.Counts.Communicating != 1 || list.Counts.Pending != 0 {
		t.Fatalf("list = %+v", list)
	}
}

func TestDeleteMakesRecordUnreachable(t *testing.T) {
	svc, _, _ := newEnquiryFixture(t, false)
	ctx := context.Background()
	e := submitVisit(t, svc)

	if err := svc.Delete(ctx, e.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	checks := map[string]error{
		"delete":    svc.Delete(ctx, e.ID),
		"contacted": svc.MarkContacted(ctx, e.ID),
		"reply":     svc.Reply(ctx, e.ID, ReplyInput{Message: "hi"}),
	}
	_, checks["get"] = svc.Get(ctx, e.ID)
	_, checks["approve"] = svc.Approve(ctx, e.ID)
	_, checks["reject"] = svc.Reject(ctx, e.ID, "gone")
	for op, err := range checks {
		if !apperrors.IsNotFound(err) {
			t.Errorf("%s after delete err = %v, want not found", op, err)
		}
	}
}

func TestListRejectsUnknownType(t *testing.T) {
	svc, _, _ := newEnquiryFixture(t, false)
	if _, err := svc.List(context.Background(), "newsletter", domain.FilterAll); !apperrors.IsValidation(err) {
		t.Fatalf("err = %v, want validation", err)
	}
}
