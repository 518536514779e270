package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/photoshare/internal/model"
)

func testUser() *model.User {
	return &model.User{
		ID:       "u1",
		Email:    "alice@example.com",
		Username: "alice",
		Name:     "alice",
		IsAdmin:  true,
	}
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	codec := NewCodec("secret", time.Hour)
	tok, err := codec.Issue(testUser())
	require.NoError(t, err)

	claims, err := codec.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, "u1", claims.UserID)
	require.Equal(t, "alice@example.com", claims.Email)
	require.Equal(t, "alice", claims.Username)
	require.True(t, claims.IsAdmin)
}

func TestVerifyWrongSecret(t *testing.T) {
	tok, err := NewCodec("secret-a", time.Hour).Issue(testUser())
	require.NoError(t, err)

	_, err = NewCodec("secret-b", time.Hour).Verify(tok)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestVerifyExpired(t *testing.T) {
	codec := NewCodec("secret", time.Nanosecond)
	tok, err := codec.Issue(testUser())
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	_, err = codec.Verify(tok)
	require.ErrorIs(t, err, ErrExpired)
}

func TestVerifyGarbage(t *testing.T) {
	_, err := NewCodec("secret", time.Hour).Verify("not-a-token")
	require.ErrorIs(t, err, ErrInvalid)
}
