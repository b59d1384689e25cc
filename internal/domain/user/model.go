package user

import "time"

// User represents a registered gateway account.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the authenticated caller attached to a request. Bucket and
// object ownership checks compare UserID against the bucket's owner.
type Identity struct {
	UserID   int64
	Username string
}
