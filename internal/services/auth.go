package services

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"exoticafarms/internal/config"
	"exoticafarms/internal/domain"
	"exoticafarms/internal/metrics"
	"exoticafarms/internal/repository"
	"exoticafarms/internal/util"
	apperrors "exoticafarms/pkg/errors"
)

const invalidCredentials = "Invalid credentials"

// Session is an issued admin session.
type Session struct {
	Token   string
	Expires time.Time
}

// AuthService handles admin login, logout and session checks. Sessions are
// stateless: validity is whatever the sealed cookie says.
type AuthService struct {
	admins   repository.AdminRepository
	sessions *util.SessionManager
	cfg      config.AuthConfig
	secure   bool
}

// NewAuthService creates an auth service. secure marks cookies Secure and
// should be set outside development.
func NewAuthService(admins repository.AdminRepository, sessions *util.SessionManager, cfg config.AuthConfig, secure bool) *AuthService {
	return &AuthService{admins: admins, sessions: sessions, cfg: cfg, secure: secure}
}

// SyncAdmin makes the stored admin credential match configuration: the
// record is created when missing and its hash replaced when the configured
// password no longer verifies against it.
func (s *AuthService) SyncAdmin(ctx context.Context) (changed bool, err error) {
	email := strings.ToLower(strings.TrimSpace(s.cfg.AdminEmail))
	admin, err := s.admins.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		hash, err := util.HashPassword(s.cfg.AdminPassword)
		if err != nil {
			return false, err
		}
		if err := s.admins.Create(ctx, &domain.Admin{Email: email, PasswordHash: hash}); err != nil {
			return false, err
		}
		log.Printf("[AUTH] Admin account created for %s", email)
		return true, nil
	case err != nil:
		return false, err
	}

	if util.CheckPasswordHash(s.cfg.AdminPassword, admin.PasswordHash) {
		return false, nil
	}
	hash, err := util.HashPassword(s.cfg.AdminPassword)
	if err != nil {
		return false, err
	}
	if err := s.admins.UpdatePasswordHash(ctx, admin.ID, hash); err != nil {
		return false, err
	}
	log.Printf("[AUTH] Admin password re-synchronized from configuration for %s", email)
	return true, nil
}

// Login synchronizes the configured admin and then checks the submitted
// credential against that record. Any other email and a wrong password fail
// identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	log.Printf("[AUTH] Login attempt for: %s", email)

	if _, err := s.SyncAdmin(ctx); err != nil {
		log.Printf("[AUTH] Login failed: admin sync error: %v", err)
		metrics.RecordAuthAttempt(false)
		return nil, apperrors.Wrap(apperrors.ErrCodeInternalError, "An unexpected error occurred", err)
	}

	// Only the configured identity may sign in; rows left behind by an
	// earlier ADMIN_EMAIL are never consulted.
	if email != strings.ToLower(strings.TrimSpace(s.cfg.AdminEmail)) {
		log.Printf("[AUTH] Login failed: '%s' is not the configured admin", email)
		metrics.RecordAuthAttempt(false)
		return nil, apperrors.New(apperrors.ErrCodeUnauthorized, invalidCredentials)
	}

	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		metrics.RecordAuthAttempt(false)
		if errors.Is(err, repository.ErrNotFound) {
			log.Printf("[AUTH] Login failed: unknown admin '%s'", email)
			return nil, apperrors.New(apperrors.ErrCodeUnauthorized, invalidCredentials)
		}
		log.Printf("[AUTH] Login failed: database error for '%s': %v", email, err)
		return nil, apperrors.Wrap(apperrors.ErrCodeInternalError, "An unexpected error occurred", err)
	}
	if !util.CheckPasswordHash(password, admin.PasswordHash) {
		log.Printf("[AUTH] Login failed: invalid password for '%s'", email)
		metrics.RecordAuthAttempt(false)
		return nil, apperrors.New(apperrors.ErrCodeUnauthorized, invalidCredentials)
	}

	token, expires, err := s.sessions.Issue(admin.ID)
	if err != nil {
		log.Printf("[AUTH] Login failed: session error for '%s': %v", email, err)
		metrics.RecordAuthAttempt(false)
		return nil, apperrors.Wrap(apperrors.ErrCodeInternalError, "An unexpected error occurred", err)
	}
	if err := s.admins.TouchLastLogin(ctx, admin.ID, time.Now().UTC()); err != nil {
		log.Printf("[AUTH] Warning: could not record last login for '%s': %v", email, err)
	}

	log.Printf("[AUTH] Login successful for '%s' (id=%s)", email, admin.ID)
	metrics.RecordAuthAttempt(true)
	return &Session{Token: token, Expires: expires}, nil
}

// Authenticate returns the admin id carried by a session token.
func (s *AuthService) Authenticate(token string) (string, error) {
	if token == "" {
		return "", util.ErrInvalidToken
	}
	claims, err := s.sessions.Parse(token)
	if err != nil {
		return "", err
	}
	return claims.AdminID, nil
}

// SessionCookie wraps an issued session for the browser.
func (s *AuthService) SessionCookie(sess *Session) *http.Cookie {
	return &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.Expires,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// LogoutCookie overwrites the session cookie with an already expired one.
func (s *AuthService) LogoutCookie() *http.Cookie {
	return &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// CookieName is the name of the session cookie.
func (s *AuthService) CookieName() string {
	return s.cfg.CookieName
}
