package entities

import "time"

// Node represents a registered storage node. Rows are written by the nodes
// themselves (registration and heartbeats); the gateway only reads them.
type Node struct {
	NodeName       string    `gorm:"type:varchar(255);primaryKey"`
	ZpoolName      string    `gorm:"type:varchar(255)"`
	TotalSpace     int64     `gorm:""`
	AvailableSpace int64     `gorm:""`
	LastHeartbeat  time.Time `gorm:"autoCreateTime"`
}

func (Node) TableName() string {
	return "nodes"
}
