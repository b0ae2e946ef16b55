// Package service implements the domain operations of the files API.
package service

import (
	"context"
	"time"

	"github.com/Laisky/errors/v2"
	logSDK "github.com/Laisky/go-utils/v6/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Laisky/laisky-files-api/internal/web/files/model"
	"github.com/Laisky/laisky-files-api/library/blob"
	"github.com/Laisky/laisky-files-api/library/db/redis"
	"github.com/Laisky/laisky-files-api/library/log"
)

// DefaultSessionTTL bounds the lifetime of an issued token.
const DefaultSessionTTL = 24 * time.Hour

// Clock returns the current time in UTC.
type Clock func() time.Time

// MetadataStore persists users, file nodes, and thumbnail job records.
type MetadataStore interface {
	CreateUser(ctx context.Context, email, passwordHash string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	CountUsers(ctx context.Context) (int64, error)

	InsertFile(ctx context.Context, file *model.File) (*model.File, error)
	GetFileByID(ctx context.Context, id primitive.ObjectID) (*model.File, error)
	ListFiles(ctx context.Context, ownerID primitive.ObjectID, parentID *primitive.ObjectID, filterParent bool, page int64) ([]*model.File, error)
	SetFilePublic(ctx context.Context, id, ownerID primitive.ObjectID, public bool) (*model.File, error)
	CountFiles(ctx context.Context) (int64, error)

	InsertJob(ctx context.Context, job *model.ThumbnailJob) (*model.ThumbnailJob, error)
	Ping(ctx context.Context) error
}

// SessionStore maps opaque tokens to user ids with TTL-based expiry.
type SessionStore interface {
	SaveSession(ctx context.Context, session *redis.Session, ttl time.Duration) error
	GetSession(ctx context.Context, token string) (*redis.Session, error)
	DeleteSession(ctx context.Context, token string) error
	Ping(ctx context.Context) error
}

// TaskQueue feeds the thumbnail pipeline and exposes its depth.
type TaskQueue interface {
	EnqueueThumbnailTask(ctx context.Context, task *redis.ThumbnailTask) error
	ThumbnailQueueDepth(ctx context.Context) (int64, error)
}

// Service coordinates the metadata store, session store, blob store,
// and thumbnail queue behind the web surface.
type Service struct {
	dao        MetadataStore
	sessions   SessionStore
	blobs      *blob.Store
	queue      TaskQueue
	logger     logSDK.Logger
	clock      Clock
	sessionTTL time.Duration
}

// NewService constructs the files service.
func NewService(
	d MetadataStore,
	sessions SessionStore,
	blobs *blob.Store,
	queue TaskQueue,
	logger logSDK.Logger,
) (*Service, error) {
	if d == nil {
		return nil, errors.New("dao is required")
	}
	if sessions == nil {
		return nil, errors.New("session store is required")
	}
	if blobs == nil {
		return nil, errors.New("blob store is required")
	}
	if queue == nil {
		return nil, errors.New("task queue is required")
	}
	if logger == nil {
		logger = log.Logger.Named("files_service")
	}

	return &Service{
		dao:        d,
		sessions:   sessions,
		blobs:      blobs,
		queue:      queue,
		logger:     logger,
		clock:      func() time.Time { return time.Now().UTC() },
		sessionTTL: DefaultSessionTTL,
	}, nil
}

// SetSessionTTL overrides the token lifetime, zero keeps the default.
func (s *Service) SetSessionTTL(ttl time.Duration) {
	if ttl > 0 {
		s.sessionTTL = ttl
	}
}
