package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-institute-sync/models"
)

const testSignKey = "secret-key"

func TestGenerateAndParseSessionToken(t *testing.T) {
	want := models.Session{UserID: "7b0c1f", Name: "Priya", Role: models.RoleTeacher}

	token, err := GenerateSessionToken(want, time.Hour, testSignKey)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := ParseSessionToken(token, testSignKey)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestGenerateSessionToken_InvalidParams(t *testing.T) {
	tests := []struct {
		name    string
		session models.Session
		ttl     time.Duration
		key     string
	}{
		{name: "empty user", session: models.Session{Role: models.RoleAdmin}, ttl: time.Hour, key: testSignKey},
		{name: "zero ttl", session: models.Session{UserID: "1"}, ttl: 0, key: testSignKey},
		{name: "empty key", session: models.Session{UserID: "1"}, ttl: time.Hour, key: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateSessionToken(tt.session, tt.ttl, tt.key)
			assert.ErrorIs(t, err, ErrInvalidTokenParams)
		})
	}
}

func TestParseSessionToken_Errors(t *testing.T) {
	sign := func(claims SessionClaims, method jwt.SigningMethod, key any) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	valid := jwt.RegisteredClaims{Subject: "1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{
			name:  "wrong key",
			token: sign(SessionClaims{RegisteredClaims: valid, Role: "admin"}, jwt.SigningMethodHS256, []byte("other")),
		},
		{
			name: "expired",
			token: sign(SessionClaims{RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "1",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			}, Role: "admin"}, jwt.SigningMethodHS256, []byte(testSignKey)),
			wantErr: jwt.ErrTokenExpired,
		},
		{
			name:    "empty subject",
			token:   sign(SessionClaims{Role: "admin"}, jwt.SigningMethodHS256, []byte(testSignKey)),
			wantErr: ErrEmptySubject,
		},
		{
			name:    "unknown role",
			token:   sign(SessionClaims{RegisteredClaims: valid, Role: "principal"}, jwt.SigningMethodHS256, []byte(testSignKey)),
			wantErr: models.ErrUnknownRole,
		},
		{
			name:  "wrong algorithm",
			token: sign(SessionClaims{RegisteredClaims: valid, Role: "admin"}, jwt.SigningMethodHS512, []byte(testSignKey)),
		},
		{
			name:  "garbage",
			token: "not-a-token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSessionToken(tt.token, testSignKey)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got: %v", err)
			}
		})
	}
}

func TestParseBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{header: "bearer   abc", want: "abc"},
		{header: "Basic abc", wantErr: true},
		{header: "Bearer", wantErr: true},
		{header: "", wantErr: true},
		{header: "Bearer a b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := ParseBearerToken(tt.header)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAuthorizationHeader)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
