package media

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lecturely/backend/internal/apperr"
	"github.com/lecturely/backend/internal/auth"
	"github.com/lecturely/backend/pkg/response"
)

// Target is a resource whose image link can be replaced.
type Target interface {
	// AuthorizeImage fails unless the caller may update resource id.
	AuthorizeImage(ctx context.Context, credentialID uuid.UUID, id string) error
	// SetImage persists link as the resource's image and returns the updated resource.
	SetImage(ctx context.Context, credentialID uuid.UUID, id, link string) (interface{}, error)
}

// Handler serves the image upload endpoints.
type Handler struct {
	uploader *Uploader
	maxBytes int64
}

// NewHandler creates a media handler accepting files up to maxBytes.
func NewHandler(uploader *Uploader, maxBytes int64) *Handler {
	return &Handler{uploader: uploader, maxBytes: maxBytes}
}

// Upload returns the handler for POST /<kind>/:id/image (multipart field "file").
func (h *Handler) Upload(kind string, target Target) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		credentialID, _ := auth.CredentialID(c)
		id := c.Param("id")

		if err := target.AuthorizeImage(ctx, credentialID, id); err != nil {
			response.Error(c, err)
			return
		}
		file, err := c.FormFile("file")
		if err != nil {
			response.Error(c, apperr.Validation("Image file is required"))
			return
		}
		if h.maxBytes > 0 && file.Size > h.maxBytes {
			response.Error(c, apperr.Validation("Image is too large"))
			return
		}
		f, err := file.Open()
		if err != nil {
			response.Error(c, apperr.Dependency("Something happened with the file.", err))
			return
		}
		defer f.Close()

		img, err := h.uploader.Store(ctx, f, file.Size, file.Filename, kind+"-"+id)
		if err != nil {
			response.Error(c, err)
			return
		}
		out, err := target.SetImage(ctx, credentialID, id, img.Link)
		if err != nil {
			h.uploader.Discard(ctx, img)
			response.Error(c, err)
			return
		}
		response.OK(c, out)
	}
}
