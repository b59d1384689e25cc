package entities

import "time"

// Object represents persisted object placement metadata. The composite
// unique index on (bucket, key) keeps placement lookups single-valued.
type Object struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Bucket    string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_objects_bucket_key"`
	NodeName  string    `gorm:"type:varchar(255);not null"`
	Path      string    `gorm:"type:varchar(255)"`
	Key       string    `gorm:"column:key;type:varchar(255);not null;uniqueIndex:idx_objects_bucket_key"`
	Size      int64     `gorm:""`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Node Node `gorm:"foreignKey:NodeName;references:NodeName"`
}

func (Object) TableName() string {
	return "objects"
}
