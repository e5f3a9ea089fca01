package server

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goahttp "goa.design/goa/v3/http"
	"goa.design/goa/v3/http/middleware"

	"exoticafarms/internal/config"
	"exoticafarms/internal/metrics"
	"exoticafarms/internal/services"
)

// Services are the application services served over HTTP.
type Services struct {
	Health       *services.HealthService
	Auth         *services.AuthService
	Enquiries    *services.EnquiryService
	Testimonials *services.TestimonialService
	Dashboard    *services.DashboardService
}

// New mounts every route on a goa muxer and wraps it in the middleware
// chain: gzip -> security headers -> CORS -> request id -> logging ->
// Prometheus -> request context -> admin gate -> mux.
func New(cfg *config.Config, svc Services) http.Handler {
	mux := goahttp.NewMuxer()
	h := &handlers{svc: svc, mux: mux}

	mux.Handle(http.MethodGet, "/health", h.health)

	mux.Handle(http.MethodPost, "/api/v1/contact", h.submitContact)
	mux.Handle(http.MethodPost, "/api/v1/farm-visits", h.submitFarmVisit)
	mux.Handle(http.MethodGet, "/api/v1/testimonials", h.listPublicTestimonials)
	mux.Handle(http.MethodPost, "/api/v1/testimonials", h.submitTestimonial)

	mux.Handle(http.MethodGet, "/admin/login", h.loginPage)
	mux.Handle(http.MethodPost, "/admin/login", h.login)
	mux.Handle(http.MethodPost, "/admin/logout", h.logout)
	mux.Handle(http.MethodGet, "/admin/dashboard", h.dashboard)

	mux.Handle(http.MethodGet, "/admin/enquiries", h.listEnquiries)
	mux.Handle(http.MethodGet, "/admin/enquiries/{id}", h.getEnquiry)
	mux.Handle(http.MethodPost, "/admin/enquiries/{id}/approve", h.approveEnquiry)
	mux.Handle(http.MethodPost, "/admin/enquiries/{id}/reject", h.rejectEnquiry)
	mux.Handle(http.MethodPost, "/admin/enquiries/{id}/contacted", h.markContacted)
	mux.Handle(http.MethodPost, "/admin/enquiries/{id}/reply", h.replyEnquiry)
	mux.Handle(http.MethodDelete, "/admin/enquiries/{id}", h.deleteEnquiry)

	mux.Handle(http.MethodGet, "/admin/testimonials", h.listAllTestimonials)
	mux.Handle(http.MethodPost, "/admin/testimonials", h.createTestimonial)
	mux.Handle(http.MethodPost, "/admin/testimonials/{id}/approve", h.approveTestimonial)
	mux.Handle(http.MethodPost, "/admin/testimonials/{id}/reject", h.rejectTestimonial)
	mux.Handle(http.MethodDelete, "/admin/testimonials/{id}", h.deleteTestimonial)

	// /metrics goes to Prometheus, everything else to the goa mux
	var root http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			promhttp.Handler().ServeHTTP(w, r)
			return
		}
		mux.ServeHTTP(w, r)
	})

	root = services.AdminGate(svc.Auth)(root)
	root = middleware.PopulateRequestContext()(root)
	root = metrics.PrometheusMiddleware(root)
	root = requestLogging(root)
	root = middleware.RequestID(middleware.UseXRequestIDHeaderOption(true))(root)
	root = setupCORS(root, cfg)
	root = setupSecurityHeaders(root, cfg)
	return gzhttp.GzipHandler(root)
}
