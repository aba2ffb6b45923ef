package attendees

import (
	"github.com/gin-gonic/gin"

	"github.com/lecturely/backend/internal/auth"
	"github.com/lecturely/backend/pkg/response"
)

// Handler handles GET /attendee/:attendeeId/history.
type Handler struct {
	svc *Service
}

// NewHandler creates an attendees handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// History handles GET /attendee/:attendeeId/history (the attendee itself only).
func (h *Handler) History(c *gin.Context) {
	credentialID, _ := auth.CredentialID(c)
	list, err := h.svc.History(c.Request.Context(), credentialID, c.Param("attendeeId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}
