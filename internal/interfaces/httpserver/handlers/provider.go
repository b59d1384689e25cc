package handlers

import (
	"github.com/rs/zerolog"

	"github.com/fileflux/fileflux-manager-webapp/internal/domain/bucket"
	"github.com/fileflux/fileflux-manager-webapp/internal/domain/object"
	"github.com/fileflux/fileflux-manager-webapp/internal/domain/user"
)

// Provider wires HTTP handlers.
type Provider struct {
	User   *UserHandler
	Bucket *BucketHandler
	Object *ObjectHandler
}

func NewProvider(users *user.Service, buckets *bucket.Service, objects *object.Service, log zerolog.Logger) *Provider {
	return &Provider{
		User:   NewUserHandler(users, log),
		Bucket: NewBucketHandler(buckets, log),
		Object: NewObjectHandler(objects, log),
	}
}
