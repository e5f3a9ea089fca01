package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"exoticafarms/internal/config"
)

func TestBuildMessage(t *testing.T) {
	raw := string(buildMessage("Exotica Farms", "farm@example.com", Email{
		To:       "guest@example.com",
		Subject:  "Farm Visit Confirmed",
		HTMLBody: "<p>See you soon</p>",
		TextBody: "See you soon",
	}))

	for _, want := range []string{
		"From: Exotica Farms <farm@example.com>\r\n",
		"To: guest@example.com\r\n",
		"Subject: Farm Visit Confirmed\r\n",
		"MIME-Version: 1.0\r\n",
		"Content-Type: text/plain; charset=UTF-8",
		"Content-Type: text/html; charset=UTF-8",
		"<p>See you soon</p>",
	} {
		if !strings.Contains(raw, want) {
			t.Errorf("message missing %q", want)
		}
	}
	if !strings.HasSuffix(raw, "--\r\n") {
		t.Error("closing boundary missing")
	}
}

func TestBuildMessageWithoutTextPart(t *testing.T) {
	raw := string(buildMessage("", "farm@example.com", Email{To: "a@b.c", Subject: "s", HTMLBody: "<b>x</b>"}))
	if strings.Contains(raw, "text/plain") {
		t.Fatal("unexpected plain part")
	}
	if !strings.Contains(raw, "From: farm@example.com\r\n") {
		t.Fatal("bare sender expected")
	}
}

func TestDisabledMailerIsSilent(t *testing.T) {
	m := NewSMTPMailer(&config.EmailConfig{Enabled: false})
	if m.IsEnabled() {
		t.Fatal("mailer should be disabled")
	}
	if err := m.Send(context.Background(), Email{To: "a@b.c", Subject: "hi"}); err != nil {
		t.Fatalf("disabled send: %v", err)
	}
}

func TestEnabledMailerRequiresCredentials(t *testing.T) {
	m := NewSMTPMailer(&config.EmailConfig{Enabled: true, SMTPHost: "smtp.example.com"})
	if err := m.Send(context.Background(), Email{To: "a@b.c"}); err == nil {
		t.Fatal("expected configuration error")
	}
}

func TestNewMessenger(t *testing.T) {
	m, err := NewMessenger(&config.WhatsAppConfig{Provider: "console"})
	if err != nil {
		t.Fatalf("console: %v", err)
	}
	if _, ok := m.(ConsoleMessenger); !ok {
		t.Fatalf("console provider = %T", m)
	}
	if err := m.Send(context.Background(), "+91 98765 43210", "hello"); err != nil {
		t.Fatalf("console send: %v", err)
	}
	if _, err := NewMessenger(&config.WhatsAppConfig{Provider: "pigeon"}); err == nil {
		t.Fatal("expected unsupported provider error")
	}
}

func TestGatewayMessenger(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"message":"ok"}`))
	}))
	defer srv.Close()

	m, err := NewMessenger(&config.WhatsAppConfig{Provider: "gateway", APIURL: srv.URL})
	if err != nil {
		t.Fatalf("gateway: %v", err)
	}
	if err := m.Send(context.Background(), "9876543210", "Your visit is confirmed"); err != nil {
		t.Fatalf("send: %v", err)
	}
	m.(*GatewayMessenger).client.HTTPClient.CloseIdleConnections()
}
