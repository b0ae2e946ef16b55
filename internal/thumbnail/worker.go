package thumbnail

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/Laisky/errors/v2"
	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"github.com/Laisky/laisky-files-api/internal/web/files/model"
	"github.com/Laisky/laisky-files-api/library/blob"
	"github.com/Laisky/laisky-files-api/library/db/mongo"
	"github.com/Laisky/laisky-files-api/library/db/redis"
	"github.com/Laisky/laisky-files-api/library/log"
)

const (
	// defaultJobTimeout bounds one delivery so a hung resize cannot
	// starve the worker slot.
	defaultJobTimeout = 2 * time.Minute
	// pollTimeout is how long one dequeue blocks before looping.
	pollTimeout = 5 * time.Second
	// terminalWriteTimeout bounds the write of a terminal job record.
	terminalWriteTimeout = 10 * time.Second
)

// detach lifts the job deadline off ctx so the terminal record and the
// dead letter still land for a delivery that ran out of time.
func detach(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), terminalWriteTimeout)
}

// TaskSource delivers queued thumbnail tasks and records dead letters.
type TaskSource interface {
	DequeueThumbnailTask(ctx context.Context, timeout time.Duration) (*redis.ThumbnailTask, error)
	DeadLetterThumbnailTask(ctx context.Context, task *redis.ThumbnailTask, reason string) error
}

// NodeSource loads file nodes scoped to their owner.
type NodeSource interface {
	GetFileOwned(ctx context.Context, id, ownerID primitive.ObjectID) (*model.File, error)
}

// JobSink records job state transitions.
type JobSink interface {
	MarkJobProcessing(ctx context.Context, id primitive.ObjectID) error
	FinishJob(ctx context.Context, id primitive.ObjectID, status model.JobStatus, jobErr string, renditions map[string]string) error
}

// Worker consumes thumbnail tasks and derives the fixed renditions.
type Worker struct {
	tasks      TaskSource
	files      NodeSource
	jobs       JobSink
	blobs      *blob.Store
	logger     logSDK.Logger
	jobTimeout time.Duration
}

// NewWorker constructs a thumbnail worker.
func NewWorker(
	tasks TaskSource,
	files NodeSource,
	jobs JobSink,
	blobs *blob.Store,
	logger logSDK.Logger,
	jobTimeout time.Duration,
) (*Worker, error) {
	if tasks == nil {
		return nil, errors.New("task source is required")
	}
	if files == nil {
		return nil, errors.New("node source is required")
	}
	if jobs == nil {
		return nil, errors.New("job sink is required")
	}
	if blobs == nil {
		return nil, errors.New("blob store is required")
	}
	if logger == nil {
		logger = log.Logger.Named("thumbnail_worker")
	}
	if jobTimeout <= 0 {
		jobTimeout = defaultJobTimeout
	}

	return &Worker{
		tasks:      tasks,
		files:      files,
		jobs:       jobs,
		blobs:      blobs,
		logger:     logger,
		jobTimeout: jobTimeout,
	}, nil
}

// StartWorkers launches count workers that run until ctx is cancelled.
func StartWorkers(ctx context.Context,
	count int,
	tasks TaskSource,
	files NodeSource,
	jobs JobSink,
	blobs *blob.Store,
	logger logSDK.Logger,
	jobTimeout time.Duration,
) error {
	if logger == nil {
		logger = log.Logger.Named("thumbnail")
	}

	for i := 0; i < count; i++ {
		worker, err := NewWorker(tasks, files, jobs, blobs,
			logger.Named(fmt.Sprintf("worker_%d", i)), jobTimeout)
		if err != nil {
			return errors.Wrap(err, "new worker")
		}

		go func() {
			if err := worker.Start(ctx); err != nil {
				worker.logger.Warn("thumbnail worker stopped", zap.Error(err))
			}
		}()
	}

	return nil
}

// Start runs the worker loop until the context is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if err := w.RunOnce(ctx); err != nil {
			w.logger.Warn("thumbnail worker run failed", zap.Error(err))

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
		}
	}
}

// RunOnce waits for at most one task and processes it.
func (w *Worker) RunOnce(ctx context.Context) error {
	task, err := w.tasks.DequeueThumbnailTask(ctx, pollTimeout)
	if err != nil {
		if errors.Is(err, redis.ErrNoTask) {
			return nil
		}

		return errors.Wrap(err, "dequeue task")
	}

	w.process(ctx, task)
	return nil
}

// process runs one delivered task to a terminal state under the job deadline.
func (w *Worker) process(ctx context.Context, task *redis.ThumbnailTask) {
	ctx, cancel := context.WithTimeout(ctx, w.jobTimeout)
	defer cancel()

	jobID, err := primitive.ObjectIDFromHex(task.JobID)
	if err != nil {
		// nothing to record against, dead-letter is the only trace
		w.deadLetter(ctx, task, fmt.Sprintf("invalid job id %q", task.JobID))
		return
	}

	// missing fields gain nothing from redelivery
	fileID, err := primitive.ObjectIDFromHex(task.FileID)
	if err != nil {
		w.failJob(ctx, task, jobID, fmt.Sprintf("missing or invalid file id %q", task.FileID))
		return
	}
	userID, err := primitive.ObjectIDFromHex(task.UserID)
	if err != nil {
		w.failJob(ctx, task, jobID, fmt.Sprintf("missing or invalid user id %q", task.UserID))
		return
	}

	if err = w.jobs.MarkJobProcessing(ctx, jobID); err != nil {
		w.logger.Warn("mark job processing", zap.Error(err), zap.String("job_id", task.JobID))
	}

	file, err := w.files.GetFileOwned(ctx, fileID, userID)
	if err != nil {
		if mongo.NotFound(err) {
			// deleted since enqueue, or never owned by that user
			w.failJob(ctx, task, jobID, "file not found")
			return
		}

		w.failJob(ctx, task, jobID, fmt.Sprintf("load file: %v", err))
		return
	}
	if file.Kind != model.KindImage || file.LocalPath == "" {
		w.failJob(ctx, task, jobID, "file is not a stored image")
		return
	}

	original, err := w.blobs.Get(file.LocalPath)
	if err != nil {
		w.failJob(ctx, task, jobID, fmt.Sprintf("read original blob: %v", err))
		return
	}

	renditions := w.generate(ctx, file.LocalPath, original)

	status := model.JobStatusCompleted
	okCount := 0
	for _, outcome := range renditions {
		if outcome == model.RenditionOK {
			okCount++
		}
	}
	switch okCount {
	case len(renditions):
	case 0:
		status = model.JobStatusFailed
	default:
		status = model.JobStatusPartial
	}

	finishCtx, cancelFinish := detach(ctx)
	defer cancelFinish()
	if err = w.jobs.FinishJob(finishCtx, jobID, status, "", renditions); err != nil {
		w.logger.Error("finish job", zap.Error(err), zap.String("job_id", task.JobID))
	}

	w.logger.Info("thumbnail job finished",
		zap.String("job_id", task.JobID),
		zap.String("file_id", task.FileID),
		zap.String("status", string(status)))
}

// generate derives every configured width concurrently. One width's
// failure never aborts its siblings, each outcome is recorded on its own.
func (w *Worker) generate(ctx context.Context, localPath string, original []byte) map[string]string {
	var mu sync.Mutex
	renditions := make(map[string]string, len(model.ThumbnailWidths))

	var pool errgroup.Group
	for _, width := range model.ThumbnailWidths {
		pool.Go(func() error {
			outcome := model.RenditionOK
			if err := w.generateOne(ctx, localPath, original, width); err != nil {
				w.logger.Warn("generate rendition",
					zap.Error(err),
					zap.Uint("width", width),
					zap.String("path", localPath))
				outcome = err.Error()
			}

			mu.Lock()
			renditions[strconv.FormatUint(uint64(width), 10)] = outcome
			mu.Unlock()
			return nil
		})
	}
	_ = pool.Wait()

	return renditions
}

func (w *Worker) generateOne(ctx context.Context, localPath string, original []byte, width uint) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "job deadline")
	}

	data, err := Resize(original, width)
	if err != nil {
		return errors.WithStack(err)
	}

	if err = w.blobs.PutRendition(localPath, width, data); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// failJob marks the job permanently failed and dead-letters the task.
func (w *Worker) failJob(ctx context.Context, task *redis.ThumbnailTask, jobID primitive.ObjectID, reason string) {
	ctx, cancel := detach(ctx)
	defer cancel()

	if err := w.jobs.FinishJob(ctx, jobID, model.JobStatusFailed, reason, nil); err != nil {
		w.logger.Error("record job failure", zap.Error(err), zap.String("job_id", jobID.Hex()))
	}

	w.deadLetter(ctx, task, reason)
}

func (w *Worker) deadLetter(ctx context.Context, task *redis.ThumbnailTask, reason string) {
	ctx, cancel := detach(ctx)
	defer cancel()

	w.logger.Warn("thumbnail task failed permanently",
		zap.String("job_id", task.JobID),
		zap.String("file_id", task.FileID),
		zap.String("reason", reason))

	if err := w.tasks.DeadLetterThumbnailTask(ctx, task, reason); err != nil {
		w.logger.Error("dead letter task", zap.Error(err), zap.String("job_id", task.JobID))
	}
}
