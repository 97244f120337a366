package jwt

import (
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate_Success(t *testing.T) {
	s := New("super-secret")
	accountID := "3f0c2a52-7a55-4c1d-9a43-3d7f0f1c2b11"

	tok, err := s.GenerateJWT(accountID, time.Hour)
	require.NoError(t, err, "GenerateJWT should not error")
	require.NotEmpty(t, tok, "token must not be empty")

	claims, err := s.ValidateToken(tok)
	require.NoError(t, err, "ValidateToken should not error for fresh token")
	require.NotNil(t, claims)

	assert.Equal(t, accountID, claims.AccountID)
	assert.Equal(t, accountID, claims.Subject)
	require.NotNil(t, claims.ExpiresAt)
	assert.True(t, claims.ExpiresAt.Time.After(time.Now().Add(-1*time.Second)))
}

func TestGenerate_WithoutExpiry(t *testing.T) {
	s := New("k1")

	tok, err := s.GenerateJWT("acc-1", 0)
	require.NoError(t, err)

	claims, err := s.ValidateToken(tok)
	require.NoError(t, err)
	assert.Nil(t, claims.ExpiresAt)
}

func TestValidateToken_Table(t *testing.T) {
	type fields struct {
		secret string
	}
	type want struct {
		ok    bool
		err   string
		check func(t *testing.T, c *Claims)
	}

	makeToken := func(secret, accountID string, exp time.Duration) string {
		s := New(secret)
		tok, err := s.GenerateJWT(accountID, exp)
		require.NoError(t, err)
		return tok
	}

	expiredToken := func(secret, accountID string) string {
		claims := Claims{
			AccountID: accountID,
			RegisteredClaims: jwtv5.RegisteredClaims{
				IssuedAt:  jwtv5.NewNumericDate(time.Now().Add(-2 * time.Hour)),
				ExpiresAt: jwtv5.NewNumericDate(time.Now().Add(-1 * time.Hour)),
			},
		}
		tok, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return tok
	}

	tests := []struct {
		name   string
		fields fields
		token  string
		want   want
	}{
		{
			name:   "valid token",
			fields: fields{secret: "k1"},
			token:  makeToken("k1", "acc-42", 5*time.Minute),
			want: want{
				ok: true,
				check: func(t *testing.T, c *Claims) {
					assert.Equal(t, "acc-42", c.AccountID)
					require.NotNil(t, c.ExpiresAt)
				},
			},
		},
		{
			name:   "invalid secret (signature mismatch)",
			fields: fields{secret: "k2"},
			token:  makeToken("k1", "acc-42", 5*time.Minute),
			want:   want{ok: false, err: "invalid token"},
		},
		{
			name:   "expired token",
			fields: fields{secret: "k1"},
			token:  expiredToken("k1", "acc-42"),
			want:   want{ok: false, err: "invalid token"},
		},
		{
			name:   "malformed token string",
			fields: fields{secret: "k1"},
			token:  "not-a-jwt",
			want:   want{ok: false, err: "invalid token"},
		},
		{
			name:   "missing account id",
			fields: fields{secret: "k1"},
			token:  makeToken("k1", "", time.Minute),
			want:   want{ok: false, err: "invalid claims"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.fields.secret)

			claims, err := s.ValidateToken(tt.token)
			if tt.want.ok {
				require.NoError(t, err)
				require.NotNil(t, claims)
				if tt.want.check != nil {
					tt.want.check(t, claims)
				}
			} else {
				require.Error(t, err)
				assert.EqualError(t, err, tt.want.err)
				assert.Nil(t, claims)
			}
		})
	}
}
