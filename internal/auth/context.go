package auth

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextCredentialID is the gin context key holding the authenticated credential id.
const ContextCredentialID = "credential_id"

// CredentialID returns the authenticated credential id, if any.
func CredentialID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextCredentialID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// SetBearer writes token to the Authorization response header.
func SetBearer(c *gin.Context, token string) {
	c.Header("Authorization", "Bearer "+token)
}
