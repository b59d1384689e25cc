package bucket

import "time"

// Bucket is a named, user-owned namespace of objects. Bucket names are
// globally unique across all users.
type Bucket struct {
	Name      string    `json:"bucket_name"`
	OwnerID   int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
