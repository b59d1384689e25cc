package bucket

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/fileflux/fileflux-manager-webapp/internal/domain/cluster"
	"github.com/fileflux/fileflux-manager-webapp/internal/domain/user"
	"github.com/fileflux/fileflux-manager-webapp/internal/utils/platformerrors"
)

// Repository defines bucket persistence operations.
type Repository interface {
	Exists(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, name string, ownerID int64) error
	OwnedBy(ctx context.Context, name string, ownerID int64) (bool, error)
	// Delete removes the bucket row; its object rows go with it via the
	// database-level cascade.
	Delete(ctx context.Context, name string) error
}

// NodeClient is the node-facing operation the lifecycle needs.
type NodeClient interface {
	DeleteBucket(ctx context.Context, node, bucket string) error
}

// Service orchestrates bucket creation and cluster-wide deletion.
type Service struct {
	buckets Repository
	nodes   cluster.Repository
	client  NodeClient
	log     zerolog.Logger
}

func NewService(buckets Repository, nodes cluster.Repository, client NodeClient, log zerolog.Logger) *Service {
	return &Service{
		buckets: buckets,
		nodes:   nodes,
		client:  client,
		log:     log.With().Str("component", "bucket-service").Logger(),
	}
}

// Create inserts the bucket under the caller's ownership. A pre-existing
// bucket is reported as such, not treated as an error.
func (s *Service) Create(ctx context.Context, identity user.Identity, name string) (created bool, err error) {
	exists, err := s.buckets.Exists(ctx, name)
	if err != nil {
		return false, err
	}
	if exists {
		s.log.Warn().Str("bucket", name).Msg("bucket already exists")
		return false, nil
	}

	if err := s.buckets.Create(ctx, name, identity.UserID); err != nil {
		return false, err
	}

	s.log.Info().Str("bucket", name).Int64("owner", identity.UserID).Msg("bucket created")
	return true, nil
}

// Delete removes the bucket metadata row, then fans the delete out to every
// registered node in listing order. The metadata row is gone before the
// fan-out starts and the loop aborts at the first node failure without
// rollback or retry, so the operation is best-effort, not transactional:
// nodes past the failing one are never contacted and keep their files.
func (s *Service) Delete(ctx context.Context, identity user.Identity, name string) error {
	owned, err := s.buckets.OwnedBy(ctx, name, identity.UserID)
	if err != nil {
		return err
	}
	if !owned {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeForbidden,
			"Bucket does not exist or you do not have permission to delete it",
			nil,
			"e1d7a3c9-5b2f-4680-9c4e-7a0d8f3b6e21",
		)
	}

	if err := s.buckets.Delete(ctx, name); err != nil {
		return err
	}

	nodes, err := s.nodes.List(ctx)
	if err != nil {
		return err
	}

	for _, node := range nodes {
		if err := s.client.DeleteBucket(ctx, node.NodeName, name); err != nil {
			s.log.Error().Err(err).
				Str("bucket", name).
				Str("node", node.NodeName).
				Msg("failed to delete bucket on node")
			// Any node failure surfaces as a plain 500 to the caller,
			// whatever the node itself answered.
			fanoutErr := platformerrors.NewUpstreamError(
				ctx,
				platformerrors.LayerDomain,
				fmt.Sprintf("Failed to delete bucket on node %s", node.NodeName),
				http.StatusInternalServerError,
				"f8b4d2a6-1c9e-4735-8d0f-3e6a5b7c9d12",
			)
			fanoutErr.Err = err
			return fanoutErr
		}
	}

	s.log.Info().Str("bucket", name).Msg("bucket deleted from all nodes successfully")
	return nil
}
