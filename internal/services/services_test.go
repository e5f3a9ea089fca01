package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"go.uber.org/goleak"
	"gorm.io/gorm"

	"exoticafarms/internal/config"
	"exoticafarms/internal/database"
	"exoticafarms/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(&config.DatabaseConfig{URL: "sqlite:///" + filepath.Join(t.TempDir(), "services.db")})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []Email
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, msg Email) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type phoneMessage struct{ phone, text string }

type fakeMessenger struct {
	mu   sync.Mutex
	sent []phoneMessage
	err  error
}

func (f *fakeMessenger) Send(ctx context.Context, phone, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, phoneMessage{phone, text})
	return nil
}

type notifyCall struct {
	op     string
	kind   string
	id     string
	reason string
}

// fakeNotifier records calls; replyErr is returned by SendDirectReply.
type fakeNotifier struct {
	calls    []notifyCall
	replyErr error
}

func (f *fakeNotifier) NotifyAdmin(ctx context.Context, kind EnquiryKind, e *domain.Enquiry) {
	f.calls = append(f.calls, notifyCall{op: "admin", kind: string(kind), id: e.ID})
}

func (f *fakeNotifier) AcknowledgeEnquiry(ctx context.Context, e *domain.Enquiry) {
	f.calls = append(f.calls, notifyCall{op: "ack", id: e.ID})
}

func (f *fakeNotifier) NotifyVisitStatus(ctx context.Context, update VisitUpdate, e *domain.Enquiry, reason string) {
	f.calls = append(f.calls, notifyCall{op: "visit", kind: string(update), id: e.ID, reason: reason})
}

func (f *fakeNotifier) SendDirectReply(ctx context.Context, email, name, subject, body string) error {
	f.calls = append(f.calls, notifyCall{op: "reply", kind: subject})
	return f.replyErr
}

func (f *fakeNotifier) ops() []string {
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.op
		if c.kind != "" && c.op != "reply" {
			out[i] += ":" + c.kind
		}
	}
	return out
}

var errSMTPDown = errors.New("smtp: connection refused")
