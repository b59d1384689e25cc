package object

import "time"

// Object maps a (bucket, key) pair to exactly one storage node. The node
// assignment is fixed at creation; objects never migrate.
type Object struct {
	ID        int64     `json:"id"`
	Bucket    string    `json:"bucket"`
	NodeName  string    `json:"node_name"`
	Path      string    `json:"path"`
	Key       string    `json:"key"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// HeadResult reports object existence and size as seen by the owning node.
type HeadResult struct {
	Exists bool  `json:"exists"`
	Size   int64 `json:"size"`
}
