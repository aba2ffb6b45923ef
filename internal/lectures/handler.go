package lectures

import (
	"github.com/gin-gonic/gin"

	"github.com/lecturely/backend/internal/auth"
	"github.com/lecturely/backend/pkg/response"
)

// Handler handles lecture HTTP endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a lectures handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Create handles POST /lecture.
func (h *Handler) Create(c *gin.Context) {
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	credentialID, _ := auth.CredentialID(c)
	l, err := h.svc.Create(c.Request.Context(), credentialID, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, l)
}

// Get handles GET /lecture/:lectureId. Authentication is optional.
func (h *Handler) Get(c *gin.Context) {
	credentialID, _ := auth.CredentialID(c)
	l, err := h.svc.Get(c.Request.Context(), credentialID, c.Param("lectureId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, l)
}

// ListByCourse handles GET /course/:courseId/lectures.
func (h *Handler) ListByCourse(c *gin.Context) {
	list, err := h.svc.ListByCourse(c.Request.Context(), c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// ListByTeacher handles GET /teacher/:teacherId/lectures.
func (h *Handler) ListByTeacher(c *gin.Context) {
	list, err := h.svc.ListByTeacher(c.Request.Context(), c.Param("teacherId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// ListByPresenter handles GET /presenter/:presenterId/lectures.
func (h *Handler) ListByPresenter(c *gin.Context) {
	list, err := h.svc.ListByPresenter(c.Request.Context(), c.Param("presenterId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// Update handles PUT /lecture.
func (h *Handler) Update(c *gin.Context) {
	var in UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	credentialID, _ := auth.CredentialID(c)
	l, err := h.svc.Update(c.Request.Context(), credentialID, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, l)
}

// Delete handles DELETE /lecture.
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
