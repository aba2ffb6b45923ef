package teachers

import (
	"github.com/gin-gonic/gin"

	"github.com/lecturely/backend/internal/auth"
	"github.com/lecturely/backend/pkg/response"
)

// Handler handles teacher HTTP endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a teachers handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Get handles GET /teacher/:teacherId.
func (h *Handler) Get(c *gin.Context) {
	t, err := h.svc.Get(c.Request.Context(), c.Param("teacherId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, t)
}

// ListByPresenter handles GET /presenter/:presenterId/teachers.
func (h *Handler) ListByPresenter(c *gin.Context) {
	list, err := h.svc.ListByPresenter(c.Request.Context(), c.Param("presenterId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// Update handles PUT /teacher.
func (h *Handler) Update(c *gin.Context) {
	var in UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	credentialID, _ := auth.CredentialID(c)
	t, err := h.svc.Update(c.Request.Context(), credentialID, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, t)
}

// Delete handles DELETE /teacher.
func (h *Handler) Delete(c *gin.Context) {
	var in DeleteInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	credentialID, _ := auth.CredentialID(c)
	id, err := h.svc.Delete(c.Request.Context(), credentialID, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"id": id})
}
