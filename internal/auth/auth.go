package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const userIDKey = "userID"

var ErrUnauthenticated = errors.New("unauthenticated")

// Authenticator resolves a bearer token to a user id.
type Authenticator interface {
	Authenticate(token string) (int64, error)
}

// JWT verifies HS256 tokens whose subject is the numeric user id.
type JWT struct {
	secret    []byte
	clockSkew time.Duration
}

func NewJWT(secret string, clockSkew time.Duration) *JWT {
	return &JWT{secret: []byte(secret), clockSkew: clockSkew}
}

// Sign returns a token for userID valid for ttl.
func (j *JWT) Sign(userID int64, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
}

func (j *JWT) Authenticate(token string) (int64, error) {
	parser := jwt.NewParser(jwt.WithLeeway(j.clockSkew), jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	parsed, err := parser.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return j.secret, nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return 0, ErrUnauthenticated
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid subject", ErrUnauthenticated)
	}
	return id, nil
}

// RequireUser rejects requests without a valid bearer token with 401.
func RequireUser(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		id, err := a.Authenticate(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Set(userIDKey, id)
		c.Next()
	}
}

// UserID returns the id set by RequireUser, 0 outside of it.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}
