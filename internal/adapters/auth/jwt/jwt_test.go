package jwt

import (
	"context"
	"testing"
	"time"

	"pet-services/internal/ports/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_IssueVerify_RoundTrip(t *testing.T) {
	m := NewManager("s3cret", time.Hour)

	tok, err := m.Issue(auth.Claims{
		UserID:      "adm-1",
		Username:    "ana",
		Role:        auth.RoleAdmin,
		Permissions: map[string]bool{"products": true},
	})
	require.NoError(t, err)

	c, err := m.Verify(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, "adm-1", c.UserID)
	assert.Equal(t, auth.RoleAdmin, c.Role)
	assert.True(t, c.Can("products"))
	assert.False(t, c.Can("users"))
}

func TestManager_Verify_RejectsExpiredAndForeign(t *testing.T) {
	m := NewManager("s3cret", time.Minute)
	issuedAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issuedAt }

	tok, err := m.Issue(auth.Claims{UserID: "u1", Role: auth.RoleAdmin})
	require.NoError(t, err)

	m.now = func() time.Time { return issuedAt.Add(2 * time.Minute) }
	_, err = m.Verify(context.Background(), tok)
	require.ErrorIs(t, err, ErrInvalidToken)

	other := NewManager("other", time.Hour)
	tok2, err := other.Issue(auth.Claims{UserID: "u1"})
	require.NoError(t, err)
	_, err = NewManager("s3cret", time.Hour).Verify(context.Background(), tok2)
	require.ErrorIs(t, err, ErrInvalidToken)
}
