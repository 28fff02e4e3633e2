package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/AyoubAchour/almindhar-experience/internal/domain"
)

func TestIssueVerify(t *testing.T) {
	iss, err := NewIssuer("s3cret", time.Hour)
	require.NoError(t, err)

	tok, err := iss.Issue(domain.User{ID: "u-1", Email: "amel@example.tn"})
	require.NoError(t, err)

	c, err := iss.Verify(tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", c.Subject)
	assert.Equal(t, "amel@example.tn", c.Email)
}

func TestVerify_Rejects(t *testing.T) {
	iss, _ := NewIssuer("s3cret", time.Minute)
	tok, _ := iss.Issue(domain.User{ID: "u-1"})

	other, _ := NewIssuer("different", time.Minute)
	_, err := other.Verify(tok.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	iss.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = iss.Verify(tok.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "u-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	_, err = iss.Verify(none)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = NewIssuer("", time.Minute)
	assert.Error(t, err)
}

func TestPassword(t *testing.T) {
	h, err := HashPassword("hunter22", bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(h, "hunter22"))
	assert.False(t, VerifyPassword(h, "hunter23"))
}
