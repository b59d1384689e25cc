package object

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/fileflux/fileflux-manager-webapp/internal/domain/bucket"
	"github.com/fileflux/fileflux-manager-webapp/internal/domain/user"
	"github.com/fileflux/fileflux-manager-webapp/internal/utils/platformerrors"
)

// Repository defines object metadata persistence.
type Repository interface {
	// FindNode returns the node name recorded for (bucket, key), or "" when
	// no record exists.
	FindNode(ctx context.Context, bucket, key string) (string, error)
	Record(ctx context.Context, obj *Object) error
	Delete(ctx context.Context, bucket, key string) error
}

// NodeClient performs object operations against a storage node's network API.
type NodeClient interface {
	Upload(ctx context.Context, node, bucket, key string, body io.Reader, filename, contentType string) (int64, error)
	Get(ctx context.Context, node, bucket, key string) (io.ReadCloser, string, error)
	Head(ctx context.Context, node, bucket, key string) (int64, error)
	Delete(ctx context.Context, node, bucket, key string) error
}

// Service forwards object operations to the node chosen by the router and
// relays the results. Node calls carry no retry or backoff; a node-side
// failure or hang holds the serving request for the duration of the call.
type Service struct {
	buckets bucket.Repository
	objects Repository
	router  *Router
	client  NodeClient
	log     zerolog.Logger
}

func NewService(buckets bucket.Repository, objects Repository, router *Router, client NodeClient, log zerolog.Logger) *Service {
	return &Service{
		buckets: buckets,
		objects: objects,
		router:  router,
		client:  client,
		log:     log.With().Str("component", "object-service").Logger(),
	}
}

// Upload streams the file to the routed node. A first write that the node
// accepts gets its placement recorded so later requests for the key route
// back to the same node.
func (s *Service) Upload(ctx context.Context, identity user.Identity, bucketName, key string, body io.Reader, filename, contentType string) error {
	if err := s.requireOwnership(ctx, identity, bucketName); err != nil {
		return err
	}

	node, existing, err := s.router.Route(ctx, bucketName, key)
	if err != nil {
		return err
	}

	if contentType == "" {
		body, contentType, err = sniffContentType(body)
		if err != nil {
			return platformerrors.NewError(
				ctx,
				platformerrors.LayerDomain,
				platformerrors.ErrorTypeInternal,
				"failed to read upload body",
				err,
				"a6e2c8d4-7b1f-4950-8c3a-2d9e6f4b0a58",
			)
		}
	}

	written, err := s.client.Upload(ctx, node, bucketName, key, body, filename, contentType)
	if err != nil {
		return err
	}

	if !existing {
		obj := &Object{
			Bucket:   bucketName,
			NodeName: node,
			Path:     fmt.Sprintf("/%s/%s", bucketName, key),
			Key:      key,
			Size:     written,
		}
		if err := s.objects.Record(ctx, obj); err != nil {
			// The node already holds the bytes; surface the metadata
			// failure rather than hiding a lookup that will miss.
			return err
		}
	}

	s.log.Info().Str("bucket", bucketName).Str("key", key).Str("node", node).Msg("file uploaded successfully")
	return nil
}

// Download fetches the object from its recorded node in streaming mode and
// relays the body and content type unchanged.
func (s *Service) Download(ctx context.Context, identity user.Identity, bucketName, key string) (io.ReadCloser, string, error) {
	node, err := s.resolveNode(ctx, identity, bucketName, key)
	if err != nil {
		return nil, "", err
	}
	return s.client.Get(ctx, node, bucketName, key)
}

// Head reports existence and size from the owning node's response headers.
func (s *Service) Head(ctx context.Context, identity user.Identity, bucketName, key string) (HeadResult, error) {
	node, err := s.resolveNode(ctx, identity, bucketName, key)
	if err != nil {
		return HeadResult{}, err
	}
	size, err := s.client.Head(ctx, node, bucketName, key)
	if err != nil {
		return HeadResult{}, err
	}
	return HeadResult{Exists: true, Size: size}, nil
}

// Delete forwards the delete to the owning node and, once the node confirms,
// removes the object's metadata row.
func (s *Service) Delete(ctx context.Context, identity user.Identity, bucketName, key string) error {
	node, err := s.resolveNode(ctx, identity, bucketName, key)
	if err != nil {
		return err
	}
	if err := s.client.Delete(ctx, node, bucketName, key); err != nil {
		return err
	}
	if err := s.objects.Delete(ctx, bucketName, key); err != nil {
		return err
	}
	s.log.Info().Str("bucket", bucketName).Str("key", key).Msg("file deleted successfully")
	return nil
}

// resolveNode enforces the get/head/delete preconditions: the bucket must be
// owned by the caller and a routing record must exist, otherwise nothing is
// ever forwarded to a node.
func (s *Service) resolveNode(ctx context.Context, identity user.Identity, bucketName, key string) (string, error) {
	if err := s.requireOwnership(ctx, identity, bucketName); err != nil {
		return "", err
	}

	node, err := s.objects.FindNode(ctx, bucketName, key)
	if err != nil {
		return "", err
	}
	if node == "" {
		s.log.Warn().Str("bucket", bucketName).Str("key", key).Msg("file not found")
		return "", platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeNotFound,
			"File not found",
			nil,
			"0d4f8b2e-6a3c-4917-b5d0-9e7c1a5f3b82",
		)
	}
	return node, nil
}

func (s *Service) requireOwnership(ctx context.Context, identity user.Identity, bucketName string) error {
	owned, err := s.buckets.OwnedBy(ctx, bucketName, identity.UserID)
	if err != nil {
		return err
	}
	if !owned {
		s.log.Warn().Str("bucket", bucketName).Int64("user_id", identity.UserID).
			Msg("bucket does not exist or caller lacks permission")
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeForbidden,
			"Bucket does not exist or you do not have permission to access it",
			nil,
			"7c3a9f1d-4e6b-4028-a5c7-1b8d2e9f0a63",
		)
	}
	return nil
}

// sniffContentType detects the content type from the body's leading bytes
// when the client did not declare one, returning a reader that replays them.
func sniffContentType(body io.Reader) (io.Reader, string, error) {
	head := make([]byte, 3072)
	n, err := io.ReadFull(body, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, "", err
	}
	head = head[:n]
	detected := mimetype.Detect(head).String()
	return io.MultiReader(bytes.NewReader(head), body), detected, nil
}
