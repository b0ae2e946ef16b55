package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Laisky/errors/v2"
	redisLib "github.com/redis/go-redis/v9"
)

// ErrNoTask is returned when the queue yields nothing within the poll window.
var ErrNoTask = errors.New("no task available")

// EnqueueThumbnailTask pushes a new thumbnail task onto the queue.
func (db *DB) EnqueueThumbnailTask(ctx context.Context, task *ThumbnailTask) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return errors.Wrap(err, "marshal task")
	}

	if err = db.cli.RPush(ctx, KeyTaskThumbnail, payload).Err(); err != nil {
		return errors.Wrap(err, "rpush task")
	}

	return nil
}

// DequeueThumbnailTask pops the oldest task, blocking up to timeout.
func (db *DB) DequeueThumbnailTask(ctx context.Context, timeout time.Duration) (*ThumbnailTask, error) {
	vals, err := db.cli.BLPop(ctx, timeout, KeyTaskThumbnail).Result()
	if err != nil {
		if errors.Is(err, redisLib.Nil) {
			return nil, ErrNoTask
		}

		return nil, errors.Wrap(err, "blpop task")
	}
	// BLPop returns [key, value]
	if len(vals) != 2 {
		return nil, ErrNoTask
	}

	task := new(ThumbnailTask)
	if err = json.Unmarshal([]byte(vals[1]), task); err != nil {
		return nil, errors.Wrap(err, "unmarshal task")
	}

	return task, nil
}

// ThumbnailQueueDepth returns the number of pending thumbnail tasks.
func (db *DB) ThumbnailQueueDepth(ctx context.Context) (int64, error) {
	depth, err := db.cli.LLen(ctx, KeyTaskThumbnail).Result()
	if err != nil {
		return 0, errors.Wrap(err, "llen task queue")
	}

	return depth, nil
}

// DeadLetterThumbnailTask records a permanently failed task for operators.
func (db *DB) DeadLetterThumbnailTask(ctx context.Context, task *ThumbnailTask, reason string) error {
	payload, err := json.Marshal(struct {
		*ThumbnailTask
		Reason   string    `json:"reason"`
		FailedAt time.Time `json:"failed_at"`
	}{task, reason, time.Now().UTC()})
	if err != nil {
		return errors.Wrap(err, "marshal dead letter")
	}

	if err = db.cli.RPush(ctx, KeyTaskThumbnailDead, payload).Err(); err != nil {
		return errors.Wrap(err, "rpush dead letter")
	}

	return nil
}
