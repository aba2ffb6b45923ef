package courses

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lecturely/backend/internal/auth"
	"github.com/lecturely/backend/pkg/response"
)

// Handler handles course HTTP endpoints.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates a courses handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Create handles POST /course.
func (h *Handler) Create(c *gin.Context) {
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	credentialID, _ := auth.CredentialID(c)
	course, err := h.svc.Create(c.Request.Context(), credentialID, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// Get handles GET /course/:courseId.
func (h *Handler) Get(c *gin.Context) {
	course, err := h.svc.Get(c.Request.Context(), c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, course)
}

// ListByPresenter handles GET /presenter/:presenterId/courses.
func (h *Handler) ListByPresenter(c *gin.Context) {
	list, err := h.svc.ListByPresenter(c.Request.Context(), c.Param("presenterId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// ListByTeacher handles GET /teacher/:teacherId/courses.
func (h *Handler) ListByTeacher(c *gin.Context) {
	list, err := h.svc.ListByTeacher(c.Request.Context(), c.Param("teacherId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// Search handles GET /search.
func (h *Handler) Search(c *gin.Context) {
	var in SearchInput
	if err := c.ShouldBindQuery(&in); err != nil {
		response.BadRequest(c, "invalid query")
		return
	}
	list, err := h.svc.Search(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// Update handles PUT /course.
func (h *Handler) Update(c *gin.Context) {
	var in UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	credentialID, _ := auth.CredentialID(c)
	course, err := h.svc.Update(c.Request.Context(), credentialID, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, course)
}

// Delete handles DELETE /course.
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
