package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	m := NewManager([]byte("secret"), "workbench-test", 15*time.Hour)

	signed, err := m.Issue("alice")
	require.NoError(t, err)

	subject, err := m.Parse(signed)
	require.NoError(t, err)
	require.Equal(t, "alice", subject)
}

func TestParse_ExpiredToken(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := NewManager([]byte("secret"), "workbench-test", 15*time.Hour).
		WithClock(func() time.Time { return now })

	signed, err := m.Issue("alice")
	require.NoError(t, err)

	// Just inside the lifetime
	now = now.Add(15*time.Hour - time.Minute)
	_, err = m.Parse(signed)
	require.NoError(t, err)

	// Just past it
	now = now.Add(2 * time.Minute)
	_, err = m.Parse(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_WrongKey(t *testing.T) {
	issuer := NewManager([]byte("secret"), "workbench-test", time.Hour)
	verifier := NewManager([]byte("other-secret"), "workbench-test", time.Hour)

	signed, err := issuer.Issue("alice")
	require.NoError(t, err)

	_, err = verifier.Parse(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_Garbage(t *testing.T) {
	m := NewManager([]byte("secret"), "workbench-test", time.Hour)

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, err := m.Parse(raw)
		require.ErrorIs(t, err, ErrInvalidToken)
	}
}
