package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aTrapDeer/portfolio-backend/internal/apperr"
	"github.com/aTrapDeer/portfolio-backend/internal/models"
)

type users map[string]*models.User

func (u users) ByEmail(_ context.Context, email string) (*models.User, error) {
	if v, ok := u[email]; ok {
		return v, nil
	}
	return nil, apperr.NotFound("User")
}

func newUsers(t *testing.T) users {
	t.Helper()
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	return users{"admin@example.com": {ID: 7, Email: "admin@example.com", Password: hash}}
}

func TestTokenRoundTrip(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tokens := NewTokens("secret", time.Hour, func() time.Time { return now })

	raw, exp, err := tokens.Issue(7)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), exp)

	c, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.EqualValues(t, 7, c.UserID)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := now
	tokens := NewTokens("secret", time.Hour, func() time.Time { return clock })
	raw, _, err := tokens.Issue(7)
	require.NoError(t, err)

	clock = now.Add(2 * time.Hour)
	_, err = tokens.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenSignedWithAnotherSecretIsRejected(t *testing.T) {
	raw, _, err := NewTokens("other", time.Hour, nil).Issue(7)
	require.NoError(t, err)
	_, err = NewTokens("secret", time.Hour, nil).Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUnsignedTokenIsRejected(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"user_id": 7,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = NewTokens("secret", time.Hour, nil).Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogin(t *testing.T) {
	a := NewAuthenticator(newUsers(t), NewTokens("secret", time.Hour, nil))

	s, err := a.Login(context.Background(), Credentials{Email: " admin@example.com ", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, s.Token)
	assert.EqualValues(t, 7, s.User.ID)

	_, err = a.Login(context.Background(), Credentials{Email: "admin@example.com", Password: "wrong"})
	assert.True(t, apperr.IsCode(err, apperr.CodeUnauthorized))

	_, err = a.Login(context.Background(), Credentials{Email: "nobody@example.com", Password: "correct horse"})
	assert.True(t, apperr.IsCode(err, apperr.CodeUnauthorized))

	_, err = a.Login(context.Background(), Credentials{Email: "not-an-email"})
	assert.True(t, apperr.IsValidation(err))
}

func TestRequire(t *testing.T) {
	tokens := NewTokens("secret", time.Hour, nil)
	valid, _, err := tokens.Issue(7)
	require.NoError(t, err)

	var gotUser uint
	h := tokens.Require(func(w http.ResponseWriter, _ *http.Request, err error) {
		w.WriteHeader(apperr.From(err).Status)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, ok := FromContext(r.Context())
		require.True(t, ok)
		gotUser = c.UserID
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage", "Bearer not-a-token", http.StatusUnauthorized},
		{"valid", "Bearer " + valid, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/admin/projects", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)
			assert.Equal(t, tt.want, w.Code)
		})
	}
	assert.EqualValues(t, 7, gotUser)
}
