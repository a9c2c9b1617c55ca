package auth

import (
	"context"
	"testing"
	"time"

	"shipsupply/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	u := &models.User{ID: uuid.New(), Role: models.RoleSupplier}
	sessionID := uuid.New()

	token, exp, err := issuer.Issue(sessionID, u, time.Now())
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	s, err := issuer.Parse(token)
	require.NoError(t, err)
	require.Equal(t, u.ID, s.UserID)
	require.Equal(t, sessionID, s.ID)
	require.Equal(t, models.RoleSupplier, s.Role)
}

func TestParseRejects(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	u := &models.User{ID: uuid.New(), Role: models.RoleShipowner}

	expired, _, err := issuer.Issue(uuid.New(), u, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = issuer.Parse(expired)
	require.ErrorIs(t, err, ErrInvalidToken)

	foreign, _, err := NewIssuer("other", time.Hour).Issue(uuid.New(), u, time.Now())
	require.NoError(t, err)
	_, err = issuer.Parse(foreign)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Parse("garbage")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	require.True(t, CheckPassword(hash, "s3cret-pass"))
	require.False(t, CheckPassword(hash, "wrong"))
}

func TestSessionContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	require.False(t, ok)

	s := &Session{ID: uuid.New(), UserID: uuid.New(), Role: models.RoleAdmin}
	got, ok := FromContext(WithSession(context.Background(), s))
	require.True(t, ok)
	require.Equal(t, s, got)
}
