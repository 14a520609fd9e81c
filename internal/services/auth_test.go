package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ncastellanos/roadmapr-backend/internal/apperr"
)

func TestRegisterLoginRoundtrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, token, err := env.auth.Register(ctx, "ada", "Ada@Example.com", "s3cretpass")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	// Email is normalized on the way in.
	require.Equal(t, "ada@example.com", user.Email)
	require.NotEqual(t, "s3cretpass", user.Password)

	parsed, err := env.auth.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, parsed)

	loggedIn, loginToken, err := env.auth.Login(ctx, "ada@example.com", "s3cretpass")
	require.NoError(t, err)
	require.NotEmpty(t, loginToken)
	require.Equal(t, user.ID, loggedIn.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, _, err := env.auth.Register(ctx, "ada", "ada@example.com", "s3cretpass")
	require.NoError(t, err)

	_, _, err = env.auth.Register(ctx, "other", "ada@example.com", "differentpass")
	require.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, _, err := env.auth.Register(ctx, "ada", "ada@example.com", "s3cretpass")
	require.NoError(t, err)

	_, _, err = env.auth.Login(ctx, "ada@example.com", "wrongpass")
	require.True(t, apperr.IsKind(err, apperr.KindUnauthorized))

	_, _, err = env.auth.Login(ctx, "nobody@example.com", "s3cretpass")
	require.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.ParseToken("not-a-token")
	require.Error(t, err)
}
