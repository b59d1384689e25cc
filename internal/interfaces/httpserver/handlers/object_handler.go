package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/fileflux/fileflux-manager-webapp/internal/domain/object"
	"github.com/fileflux/fileflux-manager-webapp/internal/domain/user"
	"github.com/fileflux/fileflux-manager-webapp/internal/infrastructure/auth"
	"github.com/fileflux/fileflux-manager-webapp/internal/interfaces/httpserver/responses"
)

// ObjectHandler exposes the object upload/retrieve/head/delete endpoints.
type ObjectHandler struct {
	objects *object.Service
	log     zerolog.Logger
}

func NewObjectHandler(objects *object.Service, log zerolog.Logger) *ObjectHandler {
	return &ObjectHandler{
		objects: objects,
		log:     log.With().Str("component", "object-handler").Logger(),
	}
}

// Upload streams the multipart file part to the responsible node.
func (h *ObjectHandler) Upload(c *gin.Context) {
	identity, bucketName, key, ok := h.target(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	err = h.objects.Upload(c.Request.Context(), identity, bucketName, key, file, header.Filename, contentType)
	if err != nil {
		responses.HandleError(c, h.log, err, "Failed to handle upload request")
		return
	}

	c.String(http.StatusOK, "Upload successful")
}

// Get relays the object bytes and content type from the owning node.
func (h *ObjectHandler) Get(c *gin.Context) {
	identity, bucketName, key, ok := h.target(c)
	if !ok {
		return
	}

	reader, contentType, err := h.objects.Download(c.Request.Context(), identity, bucketName, key)
	if err != nil {
		responses.HandleError(c, h.log, err, "Failed to handle request")
		return
	}
	defer reader.Close()

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		h.log.Error().Err(err).Str("bucket", bucketName).Str("key", key).Msg("stream error")
	}
}

// Head reports object existence and size.
func (h *ObjectHandler) Head(c *gin.Context) {
	identity, bucketName, key, ok := h.target(c)
	if !ok {
		return
	}

	result, err := h.objects.Head(c.Request.Context(), identity, bucketName, key)
	if err != nil {
		responses.HandleError(c, h.log, err, "Failed to handle request")
		return
	}

	c.JSON(http.StatusOK, result)
}

// Delete forwards the delete to the owning node.
func (h *ObjectHandler) Delete(c *gin.Context) {
	identity, bucketName, key, ok := h.target(c)
	if !ok {
		return
	}

	if err := h.objects.Delete(c.Request.Context(), identity, bucketName, key); err != nil {
		responses.HandleError(c, h.log, err, "Failed to handle request")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
}

// target resolves the identity and the (bucket, key) pair from the request,
// answering the error response itself when either is unusable.
func (h *ObjectHandler) target(c *gin.Context) (user.Identity, string, string, bool) {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return user.Identity{}, "", "", false
	}

	bucketName := c.Param("bucket")
	key := strings.Trim(c.Param("key"), "/")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Object key is required"})
		return user.Identity{}, "", "", false
	}
	return identity, bucketName, key, true
}
