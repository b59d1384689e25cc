package node

import (
	"context"

	"gorm.io/gorm"

	"github.com/fileflux/fileflux-manager-webapp/internal/domain/cluster"
	"github.com/fileflux/fileflux-manager-webapp/internal/infrastructure/database/entities"
	"github.com/fileflux/fileflux-manager-webapp/internal/utils/platformerrors"
)

// Repository reads the node registry. Nodes register and heartbeat
// out-of-band; the gateway never writes this table.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(ctx context.Context) ([]cluster.Node, error) {
	var rows []entities.Node
	err := r.db.WithContext(ctx).Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list nodes",
			err,
			"6a0c4e8d-2b7f-4591-8d3a-9f1b5c7e2d68",
		)
	}

	nodes := make([]cluster.Node, 0, len(rows))
	for _, row := range rows {
		nodes = append(nodes, cluster.Node{
			NodeName:       row.NodeName,
			ZpoolName:      row.ZpoolName,
			TotalSpace:     row.TotalSpace,
			AvailableSpace: row.AvailableSpace,
			LastHeartbeat:  row.LastHeartbeat,
		})
	}
	return nodes, nil
}
