package server

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"

	goahttp "goa.design/goa/v3/http"

	"exoticafarms/internal/domain"
	"exoticafarms/internal/services"
	apperrors "exoticafarms/pkg/errors"
)

// envelope is the body of every JSON response.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type handlers struct {
	svc Services
	mux goahttp.Muxer
}

// encode writes v with the negotiated encoder. Encoding failures are logged;
// the status line has already gone out by then.
func encode(w http.ResponseWriter, r *http.Request, status int, v any) {
	enc := goahttp.ResponseEncoder(r.Context(), w)
	w.WriteHeader(status)
	if err := enc.Encode(v); err != nil {
		log.Printf("[ERROR] encode response for %s %s: %v", r.Method, r.URL.Path, err)
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body envelope) {
	encode(w, r, status, body)
}

func writeOK(w http.ResponseWriter, r *http.Request, data any) {
	writeJSON(w, r, http.StatusOK, envelope{Success: true, Data: data})
}

func writeCreated(w http.ResponseWriter, r *http.Request, message string, data any) {
	writeJSON(w, r, http.StatusCreated, envelope{Success: true, Message: message, Data: data})
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	se := services.ToServiceError(err)
	if se.Fault {
		log.Printf("[ERROR] %s %s: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, r, services.StatusCode(se), envelope{Success: false, Error: se.Message})
}

// decode reads a JSON body into v. An empty body is allowed when optional.
func decode(r *http.Request, v any, optional bool) error {
	err := goahttp.RequestDecoder(r).Decode(v)
	if err == nil || (optional && errors.Is(err, io.EOF)) {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrCodeValidation, "Invalid request body", err)
}

func (h *handlers) id(r *http.Request) string {
	return h.mux.Vars(r)["id"]
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	res, ok := h.svc.Health.Check(r.Context())
	status := http.StatusOK
	if !ok {
		status = http.StatusServiceUnavailable
	}
	encode(w, r, status, res)
}

// Public

func (h *handlers) submitContact(w http.ResponseWriter, r *http.Request) {
	var in services.ContactSubmission
	if err := decode(r, &in, false); err != nil {
		writeError(w, r, err)
		return
	}
	e, err := h.svc.Enquiries.SubmitContact(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCreated(w, r, "Thank you for your message. We will get back to you soon.", e)
}

func (h *handlers) submitFarmVisit(w http.ResponseWriter, r *http.Request) {
	var in services.FarmVisitSubmission
	if err := decode(r, &in, false); err != nil {
		writeError(w, r, err)
		return
	}
	e, err := h.svc.Enquiries.SubmitFarmVisit(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCreated(w, r, "Your visit request has been received.", e)
}

func (h *handlers) submitTestimonial(w http.ResponseWriter, r *http.Request) {
	var in services.TestimonialSubmission
	if err := decode(r, &in, false); err != nil {
		writeError(w, r, err)
		return
	}
	t, err := h.svc.Testimonials.Submit(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCreated(w, r, "Thank you! Your review will appear once approved.", t)
}

func (h *handlers) listPublicTestimonials(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Testimonials.ListPublic(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, list)
}

// Session

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *handlers) loginPage(w http.ResponseWriter, r *http.Request) {
	// Only reached without a valid session; the gate redirects otherwise.
	writeOK(w, r, map[string]bool{"authenticated": false})
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decode(r, &in, false); err != nil {
		writeError(w, r, err)
		return
	}
	sess, err := h.svc.Auth.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	http.SetCookie(w, h.svc.Auth.SessionCookie(sess))
	writeJSON(w, r, http.StatusOK, envelope{Success: true, Data: map[string]any{"expiresAt": sess.Expires}})
}

func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.svc.Auth.LogoutCookie())
	writeOK(w, r, nil)
}

func (h *handlers) dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Dashboard.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, stats)
}

// Enquiries

func (h *handlers) listEnquiries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.svc.Enquiries.List(r.Context(), domain.EnquiryType(q.Get("type")), domain.ParseEnquiryFilter(q.Get("status")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, list)
}

func (h *handlers) getEnquiry(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.Enquiries.Get(r.Context(), h.id(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, e)
}

func (h *handlers) approveEnquiry(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.Enquiries.Approve(r.Context(), h.id(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, e)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (h *handlers) rejectEnquiry(w http.ResponseWriter, r *http.Request) {
	var in rejectRequest
	if err := decode(r, &in, true); err != nil {
		writeError(w, r, err)
		return
	}
	e, err := h.svc.Enquiries.Reject(r.Context(), h.id(r), in.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, e)
}

func (h *handlers) markContacted(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Enquiries.MarkContacted(r.Context(), h.id(r)); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, nil)
}

func (h *handlers) replyEnquiry(w http.ResponseWriter, r *http.Request) {
	var in services.ReplyInput
	if err := decode(r, &in, true); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Enquiries.Reply(r.Context(), h.id(r), in); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, envelope{Success: true, Message: "Reply sent"})
}

func (h *handlers) deleteEnquiry(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Enquiries.Delete(r.Context(), h.id(r)); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, nil)
}

// Testimonials

func (h *handlers) listAllTestimonials(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Testimonials.ListAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, list)
}

func (h *handlers) createTestimonial(w http.ResponseWriter, r *http.Request) {
	var in services.TestimonialSubmission
	if err := decode(r, &in, false); err != nil {
		writeError(w, r, err)
		return
	}
	t, err := h.svc.Testimonials.AdminCreate(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCreated(w, r, "Testimonial published", t)
}

func (h *handlers) approveTestimonial(w http.ResponseWriter, r *http.Request) {
	h.testimonialAction(w, r, h.svc.Testimonials.Approve)
}

func (h *handlers) rejectTestimonial(w http.ResponseWriter, r *http.Request) {
	h.testimonialAction(w, r, h.svc.Testimonials.Reject)
}

func (h *handlers) deleteTestimonial(w http.ResponseWriter, r *http.Request) {
	h.testimonialAction(w, r, h.svc.Testimonials.Delete)
}

func (h *handlers) testimonialAction(w http.ResponseWriter, r *http.Request, act func(ctx context.Context, id string) error) {
	if err := act(r.Context(), h.id(r)); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, nil)
}
