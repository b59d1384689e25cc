package entities

import "time"

// Bucket represents a persisted bucket. Bucket names are the primary key, so
// they are globally unique across all users.
type Bucket struct {
	BucketName string    `gorm:"type:varchar(255);primaryKey"`
	UserID     int64     `gorm:"not null;index"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`

	// Deleting a bucket cascades to its object rows.
	Objects []Object `gorm:"foreignKey:Bucket;references:BucketName;constraint:OnDelete:CASCADE"`
}

func (Bucket) TableName() string {
	return "buckets"
}
