package dao

import (
	"context"
	"time"

	"github.com/Laisky/errors/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Laisky/laisky-files-api/internal/web/files/model"
)

// InsertJob records a freshly enqueued thumbnail job.
func (d *Files) InsertJob(ctx context.Context, job *model.ThumbnailJob) (*model.ThumbnailJob, error) {
	if job.ID.IsZero() {
		job.ID = primitive.NewObjectID()
	}
	if job.Status == "" {
		job.Status = model.JobStatusEnqueued
	}

	if _, err := d.GetJobsCol().InsertOne(ctx, job); err != nil {
		return nil, errors.Wrapf(err, "insert job for file %q", job.FileID.Hex())
	}

	return job, nil
}

// MarkJobProcessing stamps the job as claimed by a worker.
func (d *Files) MarkJobProcessing(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now().UTC()
	if _, err := d.GetJobsCol().
		UpdateOne(ctx,
			bson.M{"_id": id},
			bson.M{"$set": bson.M{
				"status":     model.JobStatusProcessing,
				"started_at": now,
			}},
		); err != nil {
		return errors.Wrapf(err, "mark job %q processing", id.Hex())
	}

	return nil
}

// FinishJob writes the terminal status with the per-width outcomes.
func (d *Files) FinishJob(ctx context.Context,
	id primitive.ObjectID,
	status model.JobStatus,
	jobErr string,
	renditions map[string]string,
) error {
	now := time.Now().UTC()
	set := bson.M{
		"status":      status,
		"finished_at": now,
	}
	if jobErr != "" {
		set["error"] = jobErr
	}
	if len(renditions) > 0 {
		set["renditions"] = renditions
	}

	if _, err := d.GetJobsCol().
		UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}); err != nil {
		return errors.Wrapf(err, "finish job %q", id.Hex())
	}

	return nil
}
