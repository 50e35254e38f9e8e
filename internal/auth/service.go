package auth

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/smg-ev/vendor-portal/internal/platform/httpx"
)

var (
	// ErrNotConfigured means no admin token hash was configured, so admin
	// operations are disabled.
	ErrNotConfigured = fmt.Errorf("auth: admin access disabled: %w", httpx.ErrForbidden)
	// ErrInvalidToken means the presented token is missing or does not match.
	ErrInvalidToken = fmt.Errorf("auth: invalid admin token: %w", httpx.ErrUnauthorized)
)

// Service checks admin tokens against a bcrypt hash.
type Service struct {
	hash []byte
}

// NewService constructs a Service. A blank hash disables admin access.
func NewService(hash string) (*Service, error) {
	hash = strings.TrimSpace(hash)
	if hash == "" {
		return &Service{}, nil
	}
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, fmt.Errorf("auth: admin token hash: %w", err)
	}
	return &Service{hash: []byte(hash)}, nil
}

// Enabled reports whether admin operations are available.
func (s *Service) Enabled() bool {
	return s != nil && len(s.hash) > 0
}

// Authenticate validates an admin token.
func (s *Service) Authenticate(token string) error {
	if !s.Enabled() {
		return ErrNotConfigured
	}
	if token == "" {
		return ErrInvalidToken
	}
	if err := bcrypt.CompareHashAndPassword(s.hash, []byte(token)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidToken
		}
		return fmt.Errorf("auth: compare token: %w", err)
	}
	return nil
}
