package server

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rezonia/invoice-exporter/internal/config"
	"github.com/rezonia/invoice-exporter/internal/logging"
)

// BasicAuth rejects requests whose basic credentials do not match creds.
// Both fields are always compared so timing does not reveal which one failed.
func BasicAuth(creds config.Credentials) gin.HandlerFunc {
	wantUser := []byte(creds.Username)
	wantPass := []byte(creds.Password)

	return func(c *gin.Context) {
		user, pass, ok := c.Request.BasicAuth()

		valid := subtle.ConstantTimeCompare([]byte(user), wantUser)
		valid &= subtle.ConstantTimeCompare([]byte(pass), wantPass)

		if !ok || valid != 1 {
			logging.FromContext(c.Request.Context()).Warn("rejected credentials", "path", c.Request.URL.Path)
			c.Header("WWW-Authenticate", "Basic")
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Detail: "Invalid credentials"})
			return
		}
		c.Next()
	}
}
