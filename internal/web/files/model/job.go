package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JobStatus is the lifecycle state of one thumbnail job.
type JobStatus string

const (
	// JobStatusEnqueued job recorded, waiting for a worker
	JobStatusEnqueued JobStatus = "enqueued"
	// JobStatusProcessing claimed by a worker
	JobStatusProcessing JobStatus = "processing"
	// JobStatusCompleted every rendition succeeded
	JobStatusCompleted JobStatus = "completed"
	// JobStatusPartial some renditions succeeded, the rest recorded an error
	JobStatusPartial JobStatus = "partial"
	// JobStatusFailed no rendition succeeded, or the job itself was invalid
	JobStatusFailed JobStatus = "failed"
)

// RenditionOK marks a successful per-width outcome in Renditions.
const RenditionOK = "ok"

// ThumbnailWidths are the fixed rendition widths derived for every image.
var ThumbnailWidths = []uint{100, 250, 500}

// ThumbnailJob is the durable record of one rendition derivation.
// Per-width outcomes are first-class so partial success stays inspectable
// instead of vanishing into a log line.
type ThumbnailJob struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FileID     primitive.ObjectID `bson:"file_id" json:"file_id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	EnqueuedAt time.Time          `bson:"enqueued_at" json:"enqueued_at"`
	StartedAt  *time.Time         `bson:"started_at,omitempty" json:"started_at,omitempty"`
	FinishedAt *time.Time         `bson:"finished_at,omitempty" json:"finished_at,omitempty"`
	Status     JobStatus          `bson:"status" json:"status"`
	// Error carries the top-level failure reason for invalid or unloadable jobs.
	Error string `bson:"error,omitempty" json:"error,omitempty"`
	// Renditions maps width ("100", "250", "500") to RenditionOK or an error message.
	Renditions map[string]string `bson:"renditions,omitempty" json:"renditions,omitempty"`
}
