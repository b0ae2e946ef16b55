package thumbnail

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoLib "go.mongodb.org/mongo-driver/mongo"

	"github.com/Laisky/laisky-files-api/internal/web/files/model"
	"github.com/Laisky/laisky-files-api/library/blob"
	"github.com/Laisky/laisky-files-api/library/db/redis"
	"github.com/Laisky/laisky-files-api/library/log"
)

type stubTasks struct {
	pending []*redis.ThumbnailTask
	dead    []string
}

func (s *stubTasks) DequeueThumbnailTask(ctx context.Context, timeout time.Duration) (*redis.ThumbnailTask, error) {
	if len(s.pending) == 0 {
		return nil, redis.ErrNoTask
	}

	task := s.pending[0]
	s.pending = s.pending[1:]
	return task, nil
}

func (s *stubTasks) DeadLetterThumbnailTask(ctx context.Context, task *redis.ThumbnailTask, reason string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.dead = append(s.dead, reason)
	return nil
}

type stubNodes struct {
	files map[primitive.ObjectID]*model.File
	// delay simulates a slow metadata load honoring the caller's deadline
	delay time.Duration
}

func (s *stubNodes) GetFileOwned(ctx context.Context, id, ownerID primitive.ObjectID) (*model.File, error) {
	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.delay):
		}
	}

	file, ok := s.files[id]
	if !ok || file.OwnerID != ownerID {
		return nil, mongoLib.ErrNoDocuments
	}

	return file, nil
}

type stubJobs struct {
	processing []primitive.ObjectID
	finished   bool
	status     model.JobStatus
	jobErr     string
	renditions map[string]string
}

func (s *stubJobs) MarkJobProcessing(ctx context.Context, id primitive.ObjectID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.processing = append(s.processing, id)
	return nil
}

func (s *stubJobs) FinishJob(ctx context.Context, id primitive.ObjectID, status model.JobStatus, jobErr string, renditions map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.finished = true
	s.status = status
	s.jobErr = jobErr
	s.renditions = renditions
	return nil
}

func newTestWorker(t *testing.T, tasks *stubTasks, nodes *stubNodes, jobs *stubJobs) (*Worker, *blob.Store) {
	t.Helper()

	store, err := blob.NewStore(afero.NewMemMapFs(), "/data/files")
	require.NoError(t, err)

	worker, err := NewWorker(tasks, nodes, jobs, store, log.Logger.Named("test"), time.Minute)
	require.NoError(t, err)
	return worker, store
}

// TestWorkerHappyPath verifies a stored image yields all three renditions and a completed job.
// It accepts no parameters besides the testing handle and asserts on blobs and the job record.
func TestWorkerHappyPath(t *testing.T) {
	owner := primitive.NewObjectID()
	fileID := primitive.NewObjectID()
	jobID := primitive.NewObjectID()

	tasks := &stubTasks{}
	nodes := &stubNodes{files: map[primitive.ObjectID]*model.File{}}
	jobs := &stubJobs{}
	worker, store := newTestWorker(t, tasks, nodes, jobs)

	localPath, err := store.Put(makePNG(t, 640, 480))
	require.NoError(t, err)
	nodes.files[fileID] = &model.File{
		ID:        fileID,
		OwnerID:   owner,
		Name:      "a.png",
		Kind:      model.KindImage,
		LocalPath: localPath,
	}
	tasks.pending = append(tasks.pending, &redis.ThumbnailTask{
		JobID:  jobID.Hex(),
		FileID: fileID.Hex(),
		UserID: owner.Hex(),
	})

	require.NoError(t, worker.RunOnce(context.Background()))

	require.Equal(t, []primitive.ObjectID{jobID}, jobs.processing)
	require.Equal(t, model.JobStatusCompleted, jobs.status)
	require.Len(t, jobs.renditions, 3)
	for _, width := range model.ThumbnailWidths {
		data, err := store.GetRendition(localPath, width)
		require.NoError(t, err, width)
		require.NotEmpty(t, data, width)
	}
	require.Empty(t, tasks.dead)
}

// TestWorkerMissingFields verifies a malformed task fails permanently with a dead letter.
// It accepts no parameters besides the testing handle and asserts on the terminal record.
func TestWorkerMissingFields(t *testing.T) {
	jobID := primitive.NewObjectID()

	tasks := &stubTasks{pending: []*redis.ThumbnailTask{{
		JobID:  jobID.Hex(),
		UserID: primitive.NewObjectID().Hex(),
		// FileID missing
	}}}
	jobs := &stubJobs{}
	worker, _ := newTestWorker(t, tasks, &stubNodes{files: map[primitive.ObjectID]*model.File{}}, jobs)

	require.NoError(t, worker.RunOnce(context.Background()))

	require.Equal(t, model.JobStatusFailed, jobs.status)
	require.Contains(t, jobs.jobErr, "file id")
	require.Len(t, tasks.dead, 1)
}

// TestWorkerMissingNode verifies a deleted or foreign node fails permanently.
// It accepts no parameters besides the testing handle and asserts on the recorded reason.
func TestWorkerMissingNode(t *testing.T) {
	jobID := primitive.NewObjectID()

	tasks := &stubTasks{pending: []*redis.ThumbnailTask{{
		JobID:  jobID.Hex(),
		FileID: primitive.NewObjectID().Hex(),
		UserID: primitive.NewObjectID().Hex(),
	}}}
	jobs := &stubJobs{}
	worker, _ := newTestWorker(t, tasks, &stubNodes{files: map[primitive.ObjectID]*model.File{}}, jobs)

	require.NoError(t, worker.RunOnce(context.Background()))

	require.Equal(t, model.JobStatusFailed, jobs.status)
	require.Equal(t, "file not found", jobs.jobErr)
	require.Len(t, tasks.dead, 1)
}

// TestWorkerUndecodableImage verifies a corrupt payload fails every width, not the dequeue.
// It accepts no parameters besides the testing handle and asserts on per-size outcomes.
func TestWorkerUndecodableImage(t *testing.T) {
	owner := primitive.NewObjectID()
	fileID := primitive.NewObjectID()
	jobID := primitive.NewObjectID()

	tasks := &stubTasks{}
	nodes := &stubNodes{files: map[primitive.ObjectID]*model.File{}}
	jobs := &stubJobs{}
	worker, store := newTestWorker(t, tasks, nodes, jobs)

	localPath, err := store.Put([]byte("not an image"))
	require.NoError(t, err)
	nodes.files[fileID] = &model.File{
		ID:        fileID,
		OwnerID:   owner,
		Name:      "broken.png",
		Kind:      model.KindImage,
		LocalPath: localPath,
	}
	tasks.pending = append(tasks.pending, &redis.ThumbnailTask{
		JobID:  jobID.Hex(),
		FileID: fileID.Hex(),
		UserID: owner.Hex(),
	})

	require.NoError(t, worker.RunOnce(context.Background()))

	require.Equal(t, model.JobStatusFailed, jobs.status)
	require.Len(t, jobs.renditions, 3)
	for _, outcome := range jobs.renditions {
		require.NotEqual(t, model.RenditionOK, outcome)
	}
}

// TestWorkerDeadlineStillRecordsOutcome verifies a delivery that ran out of
// time still lands a terminal job record and a dead letter.
// It accepts no parameters besides the testing handle and asserts the failure
// was persisted even though the job deadline expired mid-load.
func TestWorkerDeadlineStillRecordsOutcome(t *testing.T) {
	owner := primitive.NewObjectID()
	fileID := primitive.NewObjectID()
	jobID := primitive.NewObjectID()

	tasks := &stubTasks{pending: []*redis.ThumbnailTask{{
		JobID:  jobID.Hex(),
		FileID: fileID.Hex(),
		UserID: owner.Hex(),
	}}}
	nodes := &stubNodes{
		files: map[primitive.ObjectID]*model.File{},
		delay: 50 * time.Millisecond,
	}
	jobs := &stubJobs{}

	store, err := blob.NewStore(afero.NewMemMapFs(), "/data/files")
	require.NoError(t, err)
	worker, err := NewWorker(tasks, nodes, jobs, store,
		log.Logger.Named("test"), 10*time.Millisecond)
	require.NoError(t, err)

	require.NoError(t, worker.RunOnce(context.Background()))

	require.True(t, jobs.finished, "job terminal state must be recorded")
	require.Equal(t, model.JobStatusFailed, jobs.status)
	require.Contains(t, jobs.jobErr, "load file")
	require.Len(t, tasks.dead, 1)
}

// TestWorkerIdleQueue verifies an empty queue is not an error.
// It accepts no parameters besides the testing handle and asserts RunOnce returns nil.
func TestWorkerIdleQueue(t *testing.T) {
	worker, _ := newTestWorker(t, &stubTasks{}, &stubNodes{files: map[primitive.ObjectID]*model.File{}}, &stubJobs{})
	require.NoError(t, worker.RunOnce(context.Background()))
}
