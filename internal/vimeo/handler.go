package vimeo

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lecturely/backend/internal/auth"
	"github.com/lecturely/backend/pkg/response"
)

// Handler handles Vimeo HTTP endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a Vimeo handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// User handles GET /vimeo/user.
func (h *Handler) User(c *gin.Context) {
	credentialID, _ := auth.CredentialID(c)
	user, err := h.svc.User(c.Request.Context(), credentialID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", user)
}
