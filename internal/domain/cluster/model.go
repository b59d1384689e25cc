package cluster

import (
	"context"
	"time"
)

// Node is a backend storage service that physically holds object bytes.
// Nodes register themselves out-of-band; the gateway only reads them.
type Node struct {
	NodeName       string    `json:"node_name"`
	ZpoolName      string    `json:"zpool_name"`
	TotalSpace     int64     `json:"total_space"`
	AvailableSpace int64     `json:"available_space"`
	LastHeartbeat  time.Time `json:"last_heartbeat"`
}

// Repository lists the registered storage nodes.
type Repository interface {
	List(ctx context.Context) ([]Node, error)
}
