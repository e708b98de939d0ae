package stakelight

import "context"

// AdminGate is the authorization checkpoint in front of every mutating
// operation. It admits only tokens that verify AND resolve to the admin role.
type AdminGate struct {
	verifier TokenVerifier
}

// NewAdminGate creates an AdminGate backed by the given verifier.
func NewAdminGate(v TokenVerifier) *AdminGate {
	return &AdminGate{verifier: v}
}

// Authorize verifies the token and checks the resolved role.
//
// Verifier failures (ErrMissingToken, ErrUnauthenticated,
// ErrProviderUnavailable) pass through unchanged so callers can signal
// "log in" distinctly from "you lack permission". A valid identity without
// the admin role yields ErrForbidden with no detail about the identity.
func (g *AdminGate) Authorize(ctx context.Context, token string) (Identity, error) {
	identity, err := g.verifier.Verify(ctx, token)
	if err != nil {
		return Identity{}, err
	}
	if identity.Role != RoleAdmin {
		return Identity{}, ErrForbidden
	}
	return identity, nil
}
