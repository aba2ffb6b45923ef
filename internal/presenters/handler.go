package presenters

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lecturely/backend/internal/auth"
	"github.com/lecturely/backend/pkg/response"
)

// Handler handles presenter HTTP endpoints.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates a presenters handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Get handles GET /presenter/:presenterId.
func (h *Handler) Get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("presenterId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, p)
}

// Update handles PUT /presenter.
func (h *Handler) Update(c *gin.Context) {
	var in UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	credentialID, _ := auth.CredentialID(c)
	p, err := h.svc.Update(c.Request.Context(), credentialID, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, p)
}
