package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("pass1234")
	require.NoError(t, err)
	require.NotEqual(t, "pass1234", hash)

	assert.True(t, CheckPassword(hash, "pass1234"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("not-a-hash", "pass1234"))
}

func TestSignAndVerify(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	token, err := tm.Sign("user-42")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, remaining, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)
	assert.Greater(t, remaining, 50*time.Minute)
	assert.LessOrEqual(t, remaining, time.Hour)
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	_, _, err := tm.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewTokenManager("different-secret", time.Hour)
	token, err := other.Sign("user-42")
	require.NoError(t, err)
	_, _, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	tm := NewTokenManager("test-secret", -time.Minute)
	token, err := tm.Sign("user-42")
	require.NoError(t, err)

	_, _, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResetToken(t *testing.T) {
	token, tokenHash, err := NewResetToken()
	require.NoError(t, err)
	assert.Len(t, token, 64)
	assert.NotEqual(t, token, tokenHash)
	assert.Equal(t, tokenHash, HashResetToken(token))

	again, _, err := NewResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, again)
}
