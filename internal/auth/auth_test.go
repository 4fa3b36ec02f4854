package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func TestJWT_SignAndAuthenticate(t *testing.T) {
	j := NewJWT("test-secret", time.Second)
	token, err := j.Sign(42, time.Minute)
	if err != nil {
		t.Fatalf("Should not fail signing: %s", err)
	}

	id, err := j.Authenticate(token)
	if err != nil {
		t.Fatalf("Should not fail: %s", err)
	}
	if id != 42 {
		t.Errorf("User id: %d, want: 42", id)
	}
}

func TestJWT_Rejects(t *testing.T) {
	j := NewJWT("test-secret", 0)

	expired, _ := j.Sign(42, -time.Minute)
	otherKey, _ := NewJWT("other-secret", 0).Sign(42, time.Minute)
	noSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}).SignedString([]byte("test-secret"))
	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "42"}).
		SignedString([]byte("test-secret"))

	for name, token := range map[string]string{
		"expired":    expired,
		"other key":  otherKey,
		"no subject": noSubject,
		"no expiry":  noExpiry,
		"garbage":    "not.a.token",
	} {
		if _, err := j.Authenticate(token); !errors.Is(err, ErrUnauthenticated) {
			t.Errorf("%s token should fail with ErrUnauthenticated, got %v", name, err)
		}
	}
}

func TestRequireUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	j := NewJWT("test-secret", 0)
	token, _ := j.Sign(7, time.Minute)

	router := gin.New()
	router.GET("/me", RequireUser(j), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": UserID(c)})
	})

	cases := []struct {
		header string
		status int
	}{
		{"Bearer " + token, http.StatusOK},
		{"", http.StatusUnauthorized},
		{token, http.StatusUnauthorized},
		{"Bearer nope", http.StatusUnauthorized},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		router.ServeHTTP(w, req)

		if w.Code != tc.status {
			t.Errorf("Authorization %q: status %d, want: %d", tc.header, w.Code, tc.status)
		}
	}
}
