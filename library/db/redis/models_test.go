package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestSessionExpired verifies the explicit expiry check against a fixed clock.
// It accepts no parameters besides the testing handle and asserts on boundary behavior.
func TestSessionExpired(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s := &Session{Token: "tok", UserID: "u1", ExpiresAt: now.Add(24 * time.Hour)}

	require.False(t, s.Expired(now))
	require.False(t, s.Expired(now.Add(24*time.Hour-time.Second)))
	require.True(t, s.Expired(now.Add(24*time.Hour)))
	require.True(t, s.Expired(now.Add(25*time.Hour)))
}
