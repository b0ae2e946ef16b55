package redis

import "time"

// Session maps an opaque token to a user id for a bounded lifetime.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its lifetime at now.
// Redis already drops the key on TTL expiry, this is the explicit check
// for payloads read back before the server reaps them.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// ThumbnailTask is one unit of asynchronous rendition work.
type ThumbnailTask struct {
	JobID      string    `json:"job_id"`
	FileID     string    `json:"file_id"`
	UserID     string    `json:"user_id"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}
