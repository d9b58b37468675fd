package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	testCases := []struct {
		name  string
		roles []string
		want  []Role
	}{
		{
			name:  "admin implies the full chain",
			roles: []string{"ROLE_ADMIN"},
			want:  []Role{RoleAdmin, RoleReceptionist, RoleTechnicien, RoleUser},
		},
		{
			name:  "receptionist implies user",
			roles: []string{"ROLE_RECEPTIONIST"},
			want:  []Role{RoleReceptionist, RoleUser},
		},
		{
			name:  "technicien implies user",
			roles: []string{"ROLE_TECHNICIEN"},
			want:  []Role{RoleTechnicien, RoleUser},
		},
		{
			name:  "unknown names are dropped",
			roles: []string{"ROLE_SUPERUSER", "ROLE_USER"},
			want:  []Role{RoleUser},
		},
		{
			name:  "empty set expands to nothing",
			roles: nil,
			want:  nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ElementsMatch(t, tc.want, Expand(tc.roles))
		})
	}
}

func TestHasRole(t *testing.T) {
	assert.True(t, HasRole([]string{"ROLE_ADMIN"}, RoleTechnicien))
	assert.True(t, HasRole([]string{"ROLE_TECHNICIEN"}, RoleTechnicien, RoleReceptionist))
	assert.False(t, HasRole([]string{"ROLE_USER"}, RoleTechnicien))
	assert.False(t, HasRole([]string{"ROLE_TECHNICIEN"}, RoleReceptionist))
	assert.False(t, HasRole(nil, RoleUser))
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("ROLE_RECEPTIONIST")
	require.NoError(t, err)
	assert.Equal(t, RoleReceptionist, r)

	_, err = ParseRole("ROLE_NOBODY")
	assert.Error(t, err)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	secret := "test-secret"
	token, expiresAt, err := GenerateAccessToken(secret, "gmao-backend", "42", []string{"ROLE_TECHNICIEN"}, time.Hour)
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := ParseAccessToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "gmao-backend", claims.Issuer)
	assert.Equal(t, []string{"ROLE_TECHNICIEN"}, claims.Roles)
}

func TestAccessTokenRejections(t *testing.T) {
	token, _, err := GenerateAccessToken("right-secret", "gmao-backend", "1", nil, time.Hour)
	require.NoError(t, err)

	_, err = ParseAccessToken("wrong-secret", token)
	assert.Error(t, err)

	expiredClaims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expiredClaims).SignedString([]byte("right-secret"))
	require.NoError(t, err)
	_, err = ParseAccessToken("right-secret", expired)
	assert.Error(t, err)

	_, _, err = GenerateAccessToken("", "gmao-backend", "1", nil, time.Hour)
	assert.Error(t, err)
	_, _, err = GenerateAccessToken("secret", "gmao-backend", "", nil, time.Hour)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, CheckPassword(hash, "correct horse battery staple"))
	assert.False(t, CheckPassword(hash, "wrong"))

	_, err = HashPassword("")
	assert.Error(t, err)
}
