package auth

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lecturely/backend/pkg/response"
)

// Handler handles auth HTTP endpoints.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

// Routes mounts the auth endpoints on api. Register, login and the email
// check take no token middleware so a stale Authorization header cannot
// block signing in again; password change runs behind requireLogin.
func (h *Handler) Routes(api gin.IRouter, requireLogin gin.HandlerFunc) {
	api.GET("/auth/check/:email", h.CheckEmail)
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
	api.PUT("/auth", requireLogin, h.ChangePassword)
}

// Register handles POST /auth/register.
func (h *Handler) Register(c *gin.Context) {
	var in RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	sess, err := h.svc.Register(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	SetBearer(c, sess.Token)
	response.Created(c, sess.Body())
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var in LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	sess, err := h.svc.Authenticate(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	SetBearer(c, sess.Token)
	response.OK(c, sess.Body())
}

// CheckEmail handles GET /auth/check/:email.
func (h *Handler) CheckEmail(c *gin.Context) {
	exists, err := h.svc.CheckEmailExists(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"status": exists})
}

// ChangePassword handles PUT /auth. Requires the authentication middleware.
func (h *Handler) ChangePassword(c *gin.Context) {
	var in ChangePasswordInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	credentialID, _ := CredentialID(c)
	if err := h.svc.ChangePassword(c.Request.Context(), credentialID, in); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Password updated"})
}
