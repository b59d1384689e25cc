package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/fileflux/fileflux-manager-webapp/internal/domain/bucket"
	"github.com/fileflux/fileflux-manager-webapp/internal/infrastructure/auth"
	"github.com/fileflux/fileflux-manager-webapp/internal/interfaces/httpserver/responses"
)

// BucketHandler exposes bucket lifecycle endpoints.
type BucketHandler struct {
	buckets *bucket.Service
	log     zerolog.Logger
}

func NewBucketHandler(buckets *bucket.Service, log zerolog.Logger) *BucketHandler {
	return &BucketHandler{
		buckets: buckets,
		log:     log.With().Str("component", "bucket-handler").Logger(),
	}
}

// Create makes a bucket owned by the caller. A pre-existing bucket is
// reported as already existing with a 200, not a conflict.
func (h *BucketHandler) Create(c *gin.Context) {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	name := c.Param("bucket")

	created, err := h.buckets.Create(c.Request.Context(), identity, name)
	if err != nil {
		responses.HandleError(c, h.log, err, "Failed to create bucket")
		return
	}

	if !created {
		c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Bucket '%s' already exists", name)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Bucket '%s' created successfully", name)})
}

// Delete removes the bucket and fans the delete out to every node.
func (h *BucketHandler) Delete(c *gin.Context) {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	name := c.Param("bucket")

	if err := h.buckets.Delete(c.Request.Context(), identity, name); err != nil {
		responses.HandleError(c, h.log, err, "Failed to delete bucket")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Bucket '%s' deleted from all nodes successfully", name)})
}
