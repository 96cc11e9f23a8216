package utils

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/uritmix/studio-api/internal/model"
)

func testIssuer() *TokenIssuer {
	return NewTokenIssuer(TokenOptions{
		AccessSecret:     "access-secret",
		RefreshSecret:    "refresh-secret",
		AccessTTLSecond:  60,
		RefreshTTLSecond: 3600,
	})
}

func TestResolveRefreshToken_Valid(t *testing.T) {
	t.Parallel()

	i := testIssuer()
	raw, err := i.CreateRefreshToken("a@b.c", 42)
	require.NoError(t, err)

	id, validity := i.ResolveRefreshToken(raw)
	require.Equal(t, RefreshValid, validity)
	require.Equal(t, int64(42), id)
}

func TestResolveRefreshToken_Expired(t *testing.T) {
	t.Parallel()

	i := NewTokenIssuer(TokenOptions{
		AccessSecret:     "access-secret",
		RefreshSecret:    "refresh-secret",
		AccessTTLSecond:  60,
		RefreshTTLSecond: -10,
	})
	raw, err := i.CreateRefreshToken("a@b.c", 7)
	require.NoError(t, err)

	_, validity := i.ResolveRefreshToken(raw)
	require.Equal(t, RefreshExpired, validity)
}

func TestResolveRefreshToken_WrongSecretIsMalformed(t *testing.T) {
	t.Parallel()

	raw, err := testIssuer().CreateRefreshToken("a@b.c", 7)
	require.NoError(t, err)

	other := NewTokenIssuer(TokenOptions{
		AccessSecret:     "access-secret",
		RefreshSecret:    "a different refresh secret",
		AccessTTLSecond:  60,
		RefreshTTLSecond: 3600,
	})
	_, validity := other.ResolveRefreshToken(raw)
	require.Equal(t, RefreshMalformed, validity)
}

func TestResolveRefreshToken_AccessTokenRejected(t *testing.T) {
	t.Parallel()

	i := testIssuer()
	access, err := i.CreateAccessToken(1, "a@b.c", model.RoleManager)
	require.NoError(t, err)

	// Signed with the other secret, so it cannot even parse as a refresh
	// token; a type check failure must classify the same way.
	_, validity := i.ResolveRefreshToken(access)
	require.Equal(t, RefreshMalformed, validity)
}

func TestResolveRefreshToken_Garbage(t *testing.T) {
	t.Parallel()

	_, validity := testIssuer().ResolveRefreshToken("not.a.jwt")
	require.Equal(t, RefreshMalformed, validity)
}
