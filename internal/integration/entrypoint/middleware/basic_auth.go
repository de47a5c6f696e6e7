// Package middleware provides HTTP middleware for the API endpoints.
package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/bartlangelaan/slicing-pie-sub000/internal/integration/entrypoint/dto"
)

// BasicAuth guards the dashboard endpoints with a single credential pair.
// The password is checked against a bcrypt hash when one is configured, and
// in constant time against the plain value otherwise.
type BasicAuth struct {
	username     string
	password     string
	passwordHash string
}

// NewBasicAuth creates a new basic auth middleware instance.
func NewBasicAuth(username, password, passwordHash string) *BasicAuth {
	return &BasicAuth{
		username:     username,
		password:     password,
		passwordHash: passwordHash,
	}
}

// Middleware returns a Gin middleware handler that enforces basic auth.
func (m *BasicAuth) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok || !m.valid(username, password) {
			c.Header("WWW-Authenticate", `Basic realm="slicing-pie"`)
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error: "Authentication required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func (m *BasicAuth) valid(username, password string) bool {
	if m.username == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(m.username)) == 1

	var passOK bool
	if m.passwordHash != "" {
		passOK = bcrypt.CompareHashAndPassword([]byte(m.passwordHash), []byte(password)) == nil
	} else {
		passOK = m.password != "" &&
			subtle.ConstantTimeCompare([]byte(password), []byte(m.password)) == 1
	}

	return userOK && passOK
}
