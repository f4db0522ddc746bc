package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "super-secret-jwt-token-with-at-least-32-characters"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func contextWithHeader(header string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPut, "/reserve/", nil)
	if header != "" {
		c.Request.Header.Set("Authorization", header)
	}
	return c
}

func TestResolver_Subject(t *testing.T) {
	r := NewResolver(testSecret)
	valid := signToken(t, testSecret, jwt.MapClaims{
		"sub": "705ea4ae-7bbb-46ad-be36-a50a816d1f64",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	sub, err := r.Subject(valid)
	require.NoError(t, err)
	assert.Equal(t, "705ea4ae-7bbb-46ad-be36-a50a816d1f64", sub)

	testCases := []struct {
		name  string
		token string
	}{
		{"Wrong secret", signToken(t, "another-secret", jwt.MapClaims{"sub": "x"})},
		{"Expired", signToken(t, testSecret, jwt.MapClaims{"sub": "x", "exp": time.Now().Add(-time.Hour).Unix()})},
		{"No subject", signToken(t, testSecret, jwt.MapClaims{"email": "a@b.edu"})},
		{"Garbage", "not-a-jwt"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := r.Subject(tc.token)
			assert.Error(t, err)
		})
	}
}

func TestResolver_SubjectWithoutSecret(t *testing.T) {
	var r *Resolver
	_, err := r.Subject("anything")
	assert.Error(t, err)

	_, err = NewResolver("").Subject(signToken(t, testSecret, jwt.MapClaims{"sub": "x"}))
	assert.Error(t, err)
}

func TestResolver_ProfileID(t *testing.T) {
	r := NewResolver(testSecret)
	token := signToken(t, testSecret, jwt.MapClaims{"sub": "token-user"})

	assert.Equal(t, "token-user", r.ProfileID(contextWithHeader("Bearer "+token), "body-user"))
	assert.Equal(t, "token-user", r.ProfileID(contextWithHeader("bearer "+token), ""))
	assert.Equal(t, "body-user", r.ProfileID(contextWithHeader("Bearer broken"), "body-user"))
	assert.Equal(t, "body-user", r.ProfileID(contextWithHeader(""), "body-user"))
	assert.Equal(t, "body-user", r.ProfileID(contextWithHeader("Basic abc"), "body-user"))
}

func TestBearerToken(t *testing.T) {
	token, ok := BearerToken("Bearer abc.def")
	assert.True(t, ok)
	assert.Equal(t, "abc.def", token)

	_, ok = BearerToken("Bearer ")
	assert.False(t, ok)
	_, ok = BearerToken("")
	assert.False(t, ok)
}
