package services

import (
	"context"
	"fmt"
	"html/template"
	"log"
	"strings"

	"exoticafarms/internal/domain"
	"exoticafarms/internal/metrics"
)

// EnquiryKind names the admin notification variant.
type EnquiryKind string

const (
	KindContact   EnquiryKind = "CONTACT"
	KindFarmVisit EnquiryKind = "FARM_VISIT"
)

// VisitUpdate names the visitor-facing status message.
type VisitUpdate string

const (
	VisitReceived VisitUpdate = "RECEIVED"
	VisitApproved VisitUpdate = "APPROVED"
	VisitRejected VisitUpdate = "REJECTED"
)

const (
	DefaultReplySubject = "Re: Your Enquiry at Exotica Farms"
	noReasonGiven       = "No specific reason provided."
)

// Notifier sends the transactional messages of the enquiry workflow.
//
// NotifyAdmin, AcknowledgeEnquiry and NotifyVisitStatus are best effort:
// failures are logged and never returned. SendDirectReply reports delivery
// failure because the caller must not record contact that did not happen.
type Notifier interface {
	NotifyAdmin(ctx context.Context, kind EnquiryKind, e *domain.Enquiry)
	AcknowledgeEnquiry(ctx context.Context, e *domain.Enquiry)
	NotifyVisitStatus(ctx context.Context, update VisitUpdate, e *domain.Enquiry, reason string)
	SendDirectReply(ctx context.Context, email, name, subject, body string) error
}

// Dispatcher is the Notifier backed by a Mailer and a Messenger.
type Dispatcher struct {
	mailer     Mailer
	messenger  Messenger
	adminEmail string
}

// NewDispatcher creates a dispatcher that sends admin alerts to adminEmail.
func NewDispatcher(mailer Mailer, messenger Messenger, adminEmail string) *Dispatcher {
	return &Dispatcher{mailer: mailer, messenger: messenger, adminEmail: adminEmail}
}

var _ Notifier = (*Dispatcher)(nil)

func (d *Dispatcher) NotifyAdmin(ctx context.Context, kind EnquiryKind, e *domain.Enquiry) {
	data := struct {
		Heading string
		Enquiry *domain.Enquiry
		Visit   *domain.VisitDetails
	}{Heading: "CONTACT", Enquiry: e}

	subject := fmt.Sprintf("New Exotica Farms Enquiry - %s", e.Name)
	if kind == KindFarmVisit {
		data.Heading = "FARM VISIT"
		subject = fmt.Sprintf("New Exotica Farms Farm Visit Request - %s", e.Name)
		visit, err := e.Visit()
		if err != nil {
			log.Printf("[NOTIFY] Admin notification for enquiry %s: unreadable visit details: %v", e.ID, err)
		}
		data.Visit = visit
	}

	body, err := render("admin", data)
	if err != nil {
		log.Printf("[NOTIFY] CRITICAL: failed to render admin notification for enquiry %s: %v", e.ID, err)
		return
	}
	err = d.mailer.Send(ctx, Email{To: d.adminEmail, Subject: subject, HTMLBody: body})
	metrics.RecordNotification("email", "admin_"+strings.ToLower(string(kind)), err)
	if err != nil {
		log.Printf("[NOTIFY] CRITICAL: failed to send admin notification for enquiry %s. Check SMTP settings: %v", e.ID, err)
		return
	}
	log.Printf("[NOTIFY] Admin notified of %s enquiry %s", kind, e.ID)
}

func (d *Dispatcher) AcknowledgeEnquiry(ctx context.Context, e *domain.Enquiry) {
	body, err := render("ack", e)
	if err != nil {
		log.Printf("[NOTIFY] Failed to render acknowledgement for enquiry %s: %v", e.ID, err)
	} else {
		err = d.mailer.Send(ctx, Email{
			To:       e.Email,
			Subject:  "Your enquiry has been received – Exotica Farms",
			HTMLBody: body,
		})
		metrics.RecordNotification("email", "acknowledge", err)
		if err != nil {
			log.Printf("[NOTIFY] Failed to send acknowledgement email for enquiry %s: %v", e.ID, err)
		}
	}

	d.sendPhone(ctx, "acknowledge", e.PhoneNumber(), fmt.Sprintf(
		"Hello %s, thank you for contacting Exotica Farms. We have received your enquiry and will get back to you soon.", e.Name))
}

type visitMessage struct {
	Name     string
	Title    string
	Body     string
	Reason   string
	Color    string
	Date     string
	Time     string
	Visitors string
}

func (d *Dispatcher) NotifyVisitStatus(ctx context.Context, update VisitUpdate, e *domain.Enquiry, reason string) {
	msg := visitMessage{Name: e.Name, Date: "TBD", Time: "TBD", Visitors: "N/A", Color: "#2e7d32"}
	visit, err := e.Visit()
	if err != nil {
		log.Printf("[NOTIFY] Visit update for enquiry %s: unreadable visit details: %v", e.ID, err)
	}
	if visit != nil {
		msg.Date = visit.Date
		msg.Time = visit.Time.Label()
		msg.Visitors = fmt.Sprintf("%d", visit.Visitors)
	}

	var subject string
	switch update {
	case VisitReceived:
		subject = "Farm Visit Request Received - Exotica Farms"
		msg.Title = "Request Received Successfully!"
		msg.Body = "We have received your request to visit Exotica Farms. Our team is reviewing it, and we will get back to you shortly with an approval on this email and WhatsApp."
	case VisitApproved:
		subject = "Farm Visit Request Approved! - Exotica Farms"
		msg.Title = "Your Request is Approved!"
		msg.Body = fmt.Sprintf("Good news! Your visit to Exotica Farms on %s has been approved. We are looking forward to hosting you.", msg.Date)
		msg.Color = "#1565c0"
	case VisitRejected:
		subject = "Farm Visit Request Update - Exotica Farms"
		msg.Title = "Update on Your Request"
		msg.Body = "Thank you for your interest. Unfortunately, we cannot accommodate your visit at this time."
		msg.Reason = strings.TrimSpace(reason)
		if msg.Reason == "" {
			msg.Reason = noReasonGiven
		}
		msg.Color = "#c62828"
	default:
		log.Printf("[NOTIFY] Unknown visit update %q for enquiry %s", update, e.ID)
		return
	}

	kind := "visit_" + strings.ToLower(string(update))
	body, err := render("visit", msg)
	if err != nil {
		log.Printf("[NOTIFY] Failed to render visit update for enquiry %s: %v", e.ID, err)
	} else {
		err = d.mailer.Send(ctx, Email{To: e.Email, Subject: subject, HTMLBody: body})
		metrics.RecordNotification("email", kind, err)
		if err != nil {
			log.Printf("[NOTIFY] Failed to send visit update email for enquiry %s: %v", e.ID, err)
		}
	}

	text := msg.Title + "\n\n" + msg.Body
	if msg.Reason != "" {
		text += "\n\nNote from Admin: " + msg.Reason
	}
	d.sendPhone(ctx, kind, e.PhoneNumber(), text+"\n\n- Exotica Farms")
}

func (d *Dispatcher) SendDirectReply(ctx context.Context, email, name, subject, body string) error {
	if strings.TrimSpace(subject) == "" {
		subject = DefaultReplySubject
	}
	rendered, err := renderReplyBody(body)
	if err != nil {
		return fmt.Errorf("render reply: %w", err)
	}
	page, err := render("reply", struct {
		Name string
		Body template.HTML
	}{Name: name, Body: rendered})
	if err != nil {
		return fmt.Errorf("render reply: %w", err)
	}

	err = d.mailer.Send(ctx, Email{To: email, Subject: subject, HTMLBody: page, TextBody: body})
	metrics.RecordNotification("email", "direct_reply", err)
	if err != nil {
		log.Printf("[NOTIFY] Failed to send direct reply to %s: %v", email, err)
		return err
	}
	log.Printf("[NOTIFY] Direct reply sent to %s", email)
	return nil
}

// sendPhone is a no-op without a phone number.
func (d *Dispatcher) sendPhone(ctx context.Context, kind, phone, text string) {
	if strings.TrimSpace(phone) == "" {
		return
	}
	err := d.messenger.Send(ctx, phone, text)
	metrics.RecordNotification("whatsapp", kind, err)
	if err != nil {
		log.Printf("[NOTIFY] Failed to send WhatsApp message to %s: %v", phone, err)
	}
}
