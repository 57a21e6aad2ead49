package helper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT(t *testing.T) {
	j := NewJWT("secret", time.Hour)

	t.Run("should round trip the subject", func(t *testing.T) {
		token, err := j.CreateToken("account-uuid")
		require.NoError(t, err)

		subject, err := j.VerifyToken(token)
		require.NoError(t, err)
		assert.Equal(t, "account-uuid", subject)
	})

	t.Run("should reject a token signed with another secret", func(t *testing.T) {
		token, err := NewJWT("other", time.Hour).CreateToken("account-uuid")
		require.NoError(t, err)

		_, err = j.VerifyToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("should reject an expired token", func(t *testing.T) {
		expired := &JWT{Secret: "secret", TTL: -time.Minute}
		token, err := expired.CreateToken("account-uuid")
		require.NoError(t, err)

		_, err = j.VerifyToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("should reject garbage", func(t *testing.T) {
		_, err := j.VerifyToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"Bearer   abc ", "abc", true},
		{"Bearer ", "", false},
		{"Basic abc", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			token, ok := BearerToken(tt.header)

			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.token, token)
		})
	}
}
