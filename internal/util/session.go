package util

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/chacha20poly1305"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

const (
	signingContext = "exoticafarms 2025 admin session signing key"
	sealingContext = "exoticafarms 2025 admin session sealing key"
)

// Claims is the session payload.
type Claims struct {
	AdminID string `json:"adminId"`
	jwt.RegisteredClaims
}

// SessionManager issues and opens admin session tokens. A token is an HS256
// JWT sealed with XChaCha20-Poly1305, so the cookie value is opaque to the
// browser and any edit breaks authentication.
type SessionManager struct {
	signingKey []byte
	aead       cipher.AEAD
	ttl        time.Duration
	now        func() time.Time
}

// NewSessionManager derives independent signing and sealing keys from secret.
func NewSessionManager(secret string, ttl time.Duration) (*SessionManager, error) {
	if secret == "" {
		return nil, errors.New("session secret is empty")
	}
	if ttl <= 0 {
		return nil, errors.New("session ttl must be positive")
	}

	signingKey := make([]byte, 32)
	blake3.DeriveKey(signingContext, []byte(secret), signingKey)
	sealingKey := make([]byte, chacha20poly1305.KeySize)
	blake3.DeriveKey(sealingContext, []byte(secret), sealingKey)

	aead, err := chacha20poly1305.NewX(sealingKey)
	if err != nil {
		return nil, fmt.Errorf("init session cipher: %w", err)
	}
	return &SessionManager{
		signingKey: signingKey,
		aead:       aead,
		ttl:        ttl,
		now:        time.Now,
	}, nil
}

// WithClock replaces the time source. Used by tests.
func (m *SessionManager) WithClock(now func() time.Time) *SessionManager {
	m.now = now
	return m
}

// TTL is the fixed session lifetime.
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Issue returns a sealed token for adminID and its expiry time.
func (m *SessionManager) Issue(adminID string) (string, time.Time, error) {
	now := m.now()
	expires := now.Add(m.ttl)
	claims := &Claims{
		AdminID: adminID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.signingKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	nonce := make([]byte, m.aead.NonceSize(), m.aead.NonceSize()+len(signed)+m.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to read nonce: %w", err)
	}
	sealed := m.aead.Seal(nonce, nonce, []byte(signed), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), expires, nil
}

// Parse opens a sealed token and validates its claims. Any tampering yields
// ErrInvalidToken; a well-formed token past its expiry yields ErrExpiredToken.
func (m *SessionManager) Parse(token string) (*Claims, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil || len(raw) < m.aead.NonceSize()+m.aead.Overhead() {
		return nil, ErrInvalidToken
	}
	nonce, ciphertext := raw[:m.aead.NonceSize()], raw[m.aead.NonceSize():]
	plain, err := m.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(string(plain), claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.signingKey, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired(), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !parsed.Valid || claims.AdminID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
