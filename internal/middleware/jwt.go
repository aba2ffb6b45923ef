package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lecturely/backend/internal/auth"
	"github.com/lecturely/backend/pkg/response"
)

// ContextCredentialID is the key for the authenticated credential id in gin context.
const ContextCredentialID = auth.ContextCredentialID

const loginMessage = "Please log in"

// JWT returns a middleware that requires a valid bearer token.
func JWT(tokens *auth.JWTService, logger *zap.Logger) gin.HandlerFunc {
	return authenticate(tokens, logger, true)
}

// OptionalJWT lets requests without a token through anonymously. A token
// that is present but invalid is still rejected.
func OptionalJWT(tokens *auth.JWTService, logger *zap.Logger) gin.HandlerFunc {
	return authenticate(tokens, logger, false)
}

func authenticate(tokens *auth.JWTService, logger *zap.Logger, required bool) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			if required {
				response.Unauthorized(c, loginMessage)
				c.Abort()
				return
			}
			c.Next()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Unauthorized(c, loginMessage)
			c.Abort()
			return
		}
		credentialID, err := tokens.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Unauthorized(c, loginMessage)
			c.Abort()
			return
		}
		fresh, err := tokens.Issue(credentialID)
		if err != nil {
			logger.Error("re-issue token", zap.Error(err))
			response.Internal(c, "Could not issue token")
			c.Abort()
			return
		}
		c.Set(ContextCredentialID, credentialID)
		c.Writer = &tokenWriter{ResponseWriter: c.Writer, header: "Bearer " + fresh}
		c.Next()
	}
}

// tokenWriter adds the refreshed token to the response headers just before
// they are sent, and only for non-error statuses.
type tokenWriter struct {
	gin.ResponseWriter
	header string
	done   bool
}

func (w *tokenWriter) apply(status int) {
	if w.done {
		return
	}
	w.done = true
	if status < 400 && !w.ResponseWriter.Written() {
		w.ResponseWriter.Header().Set("Authorization", w.header)
	}
}

func (w *tokenWriter) WriteHeader(code int) {
	w.apply(code)
	w.ResponseWriter.WriteHeader(code)
}

func (w *tokenWriter) WriteHeaderNow() {
	w.apply(w.ResponseWriter.Status())
	w.ResponseWriter.WriteHeaderNow()
}

func (w *tokenWriter) Write(b []byte) (int, error) {
	w.apply(w.ResponseWriter.Status())
	return w.ResponseWriter.Write(b)
}

func (w *tokenWriter) WriteString(s string) (int, error) {
	w.apply(w.ResponseWriter.Status())
	return w.ResponseWriter.WriteString(s)
}
