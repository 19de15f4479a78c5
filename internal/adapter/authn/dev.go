// Package authn implements the identity collaborator (spec §6): a dev-mode
// verifier that trusts a caller-supplied user id outright, and a bearer
// verifier for an HS256-signed token issued by the configured auth issuer.
package authn

import (
	"strings"

	"github.com/restorehq/control-plane/internal/domain"
)

const devUserPrefix = "dev-user-"

// DevVerifier accepts any bearer value of the form "dev-user-<id>" as proof
// of identity <id>. It exists for local development and integration tests
// where standing up a real identity provider is unnecessary overhead; it
// must never be selected outside AUTH_MODE=dev (enforced by config.Validate
// and the wiring in cmd/server).
type DevVerifier struct{}

// NewDevVerifier constructs a DevVerifier.
func NewDevVerifier() *DevVerifier { return &DevVerifier{} }

// Verify implements domain.TokenVerifier.
func (v *DevVerifier) Verify(_ domain.Context, bearer string) (string, error) {
	bearer = strings.TrimSpace(bearer)
	if !strings.HasPrefix(bearer, devUserPrefix) {
		return "", domain.ErrUnauthorized
	}
	userID := strings.TrimPrefix(bearer, devUserPrefix)
	if userID == "" {
		return "", domain.ErrUnauthorized
	}
	return userID, nil
}

var _ domain.TokenVerifier = (*DevVerifier)(nil)
