package stakelight

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateAdmitsAdmin(t *testing.T) {
	gate := NewAdminGate(adminVerifier())

	identity, err := gate.Authorize(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", identity.Email)
}

func TestGateRejectsStandardRole(t *testing.T) {
	gate := NewAdminGate(&stubVerifier{identity: Identity{ID: "u2", Email: "reader@example.com", Role: RoleStandard}})

	identity, err := gate.Authorize(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Empty(t, identity.ID, "a forbidden result must not leak the identity")
	assert.Empty(t, identity.Email)
}

func TestGatePassesVerifierErrorsThrough(t *testing.T) {
	for _, verr := range []error{ErrUnauthenticated, ErrProviderUnavailable} {
		gate := NewAdminGate(&stubVerifier{err: verr})
		_, err := gate.Authorize(context.Background(), "tok")
		assert.ErrorIs(t, err, verr)
	}

	gate := NewAdminGate(adminVerifier())
	_, err := gate.Authorize(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingToken)
}
