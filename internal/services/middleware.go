package services

import (
	"context"
	"net/http"
	"strings"
)

const (
	AdminPrefix   = "/admin"
	LoginPath     = "/admin/login"
	DashboardPath = "/admin/dashboard"
)

type contextKey string

const adminIDKey contextKey = "adminID"

// AdminIDFromContext returns the authenticated admin id, if any.
func AdminIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(adminIDKey).(string)
	return id, ok && id != ""
}

func isAdminPath(path string) bool {
	return path == AdminPrefix || strings.HasPrefix(path, AdminPrefix+"/")
}

// AdminGate guards the administrative area. Without a valid session every
// admin path except the login page redirects to the login page; with one,
// the login page redirects to the dashboard. Missing, tampered and expired
// cookies are treated the same.
func AdminGate(auth *AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isAdminPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			var adminID string
			if c, err := r.Cookie(auth.CookieName()); err == nil {
				if id, err := auth.Authenticate(c.Value); err == nil {
					adminID = id
				}
			}

			isLogin := strings.TrimSuffix(r.URL.Path, "/") == LoginPath
			switch {
			case isLogin && adminID != "":
				http.Redirect(w, r, DashboardPath, http.StatusSeeOther)
				return
			case isLogin:
				next.ServeHTTP(w, r)
				return
			case adminID == "":
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), adminIDKey, adminID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
