package service

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"

	"github.com/Laisky/laisky-files-api/internal/web/files/dto"
	"github.com/Laisky/laisky-files-api/internal/web/files/model"
	"github.com/Laisky/laisky-files-api/library/blob"
	"github.com/Laisky/laisky-files-api/library/db/mongo"
	"github.com/Laisky/laisky-files-api/library/db/redis"
)

// canRead reports whether user may read the node: owner or public.
func canRead(user *model.User, file *model.File) bool {
	return file.OwnerID == user.ID || file.IsPublic
}

// canWrite reports whether user may mutate the node: owner only.
func canWrite(user *model.User, file *model.File) bool {
	return file.OwnerID == user.ID
}

// Upload validates the request, persists the blob and metadata, and for
// images enqueues exactly one thumbnail job.
func (s *Service) Upload(ctx context.Context, user *model.User, req *dto.UploadRequest) (*dto.File, error) {
	kind, err := validateUpload(req)
	if err != nil {
		return nil, err
	}

	parentID, err := ParseNodeID(req.ParentID)
	if err != nil {
		return nil, ErrParentNotFound
	}
	if parentID != nil {
		parent, err := s.dao.GetFileByID(ctx, *parentID)
		if err != nil {
			if mongo.NotFound(err) {
				return nil, ErrParentNotFound
			}

			return nil, errors.Wrapf(err, "load parent %q", parentID.Hex())
		}
		// only existence and kind are checked, ancestor ownership is not
		if !parent.IsFolder() {
			return nil, ErrParentNotFolder
		}
	}

	file := &model.File{
		OwnerID:   user.ID,
		Name:      strings.TrimSpace(req.Name),
		Kind:      kind,
		IsPublic:  req.IsPublic,
		ParentID:  parentID,
		CreatedAt: s.clock(),
	}

	if kind == model.KindFolder {
		inserted, err := s.dao.InsertFile(ctx, file)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		return dto.NewFile(inserted), nil
	}

	data, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		return nil, ErrInvalidData
	}

	// blob first: a failed write must not leave an orphaned metadata row
	localPath, err := s.blobs.Put(data)
	if err != nil {
		return nil, errors.Wrap(err, "store blob")
	}
	file.LocalPath = localPath

	inserted, err := s.dao.InsertFile(ctx, file)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if kind == model.KindImage {
		s.enqueueThumbnail(ctx, inserted)
	}

	return dto.NewFile(inserted), nil
}

// enqueueThumbnail records a job row and pushes the task onto the queue.
// The upload already succeeded, so pipeline failures are logged and
// never surfaced to the uploader.
func (s *Service) enqueueThumbnail(ctx context.Context, file *model.File) {
	job := &model.ThumbnailJob{
		FileID:     file.ID,
		UserID:     file.OwnerID,
		EnqueuedAt: s.clock(),
		Status:     model.JobStatusEnqueued,
	}
	job, err := s.dao.InsertJob(ctx, job)
	if err != nil {
		s.logger.Error("record thumbnail job",
			zap.Error(err), zap.String("file_id", file.GetID()))
		return
	}

	task := &redis.ThumbnailTask{
		JobID:      job.ID.Hex(),
		FileID:     file.GetID(),
		UserID:     file.OwnerID.Hex(),
		EnqueuedAt: job.EnqueuedAt,
	}
	if err = s.queue.EnqueueThumbnailTask(ctx, task); err != nil {
		s.logger.Error("enqueue thumbnail task",
			zap.Error(err), zap.String("file_id", file.GetID()))
	}
}

// Get returns the projection of one readable node.
func (s *Service) Get(ctx context.Context, user *model.User, id string) (*dto.File, error) {
	file, err := s.loadReadable(ctx, user, id)
	if err != nil {
		return nil, err
	}

	return dto.NewFile(file), nil
}

// List returns one page of the user's nodes, optionally under one parent.
// An unparseable parent matches nothing, mirroring the reference behavior.
func (s *Service) List(ctx context.Context, user *model.User, parentID string, page int64) ([]*dto.File, error) {
	if page < 0 {
		page = 0
	}

	filterParent := strings.TrimSpace(parentID) != ""
	parsed, err := ParseNodeID(parentID)
	if err != nil {
		return []*dto.File{}, nil
	}

	files, err := s.dao.ListFiles(ctx, user.ID, parsed, filterParent, page)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return dto.NewFiles(files), nil
}

// SetPublic flips the public flag on a node owned by user.
func (s *Service) SetPublic(ctx context.Context, user *model.User, id string, public bool) (*dto.File, error) {
	nodeID, err := ParseNodeID(id)
	if err != nil || nodeID == nil {
		return nil, ErrNotFound
	}

	// the owner filter doubles as the write check: merely-public nodes
	// owned by someone else stay untouchable
	file, err := s.dao.SetFilePublic(ctx, *nodeID, user.ID, public)
	if err != nil {
		if mongo.NotFound(err) {
			return nil, ErrNotFound
		}

		return nil, errors.WithStack(err)
	}

	return dto.NewFile(file), nil
}

// Content returns the raw payload of a readable node, or one of its
// thumbnail renditions when size is given.
func (s *Service) Content(ctx context.Context, user *model.User, id string, size uint) (data []byte, name string, err error) {
	file, err := s.loadReadable(ctx, user, id)
	if err != nil {
		return nil, "", err
	}

	if file.IsFolder() {
		return nil, "", ErrFolderNoContent
	}

	if size != 0 && !validThumbnailWidth(size) {
		return nil, "", ErrInvalidSize
	}

	if size == 0 {
		data, err = s.blobs.Get(file.LocalPath)
	} else {
		data, err = s.blobs.GetRendition(file.LocalPath, size)
	}
	if err != nil {
		// a missing derived blob is the expected state before the
		// pipeline finished that width
		if errors.Is(err, blob.ErrBlobNotFound) {
			return nil, "", ErrNotFound
		}

		return nil, "", errors.WithStack(err)
	}

	return data, file.Name, nil
}

// loadReadable loads a node and applies the read check.
// Unreadable and missing nodes are indistinguishable to the caller.
func (s *Service) loadReadable(ctx context.Context, user *model.User, id string) (*model.File, error) {
	nodeID, err := ParseNodeID(id)
	if err != nil || nodeID == nil {
		return nil, ErrNotFound
	}

	file, err := s.dao.GetFileByID(ctx, *nodeID)
	if err != nil {
		if mongo.NotFound(err) {
			return nil, ErrNotFound
		}

		return nil, errors.WithStack(err)
	}

	if !canRead(user, file) {
		return nil, ErrNotFound
	}

	return file, nil
}

func validThumbnailWidth(size uint) bool {
	for _, w := range model.ThumbnailWidths {
		if w == size {
			return true
		}
	}

	return false
}

// Status reports reachability of the backing stores.
func (s *Service) Status(ctx context.Context) *dto.Status {
	status := &dto.Status{
		Redis: s.sessions.Ping(ctx) == nil,
		DB:    s.dao.Ping(ctx) == nil,
	}

	return status
}

// Stats reports entity counts and the thumbnail queue depth.
func (s *Service) Stats(ctx context.Context) (*dto.Stats, error) {
	users, err := s.dao.CountUsers(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	files, err := s.dao.CountFiles(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	depth, err := s.queue.ThumbnailQueueDepth(ctx)
	if err != nil {
		// the gauge is best-effort, counts still serve
		s.logger.Warn("read thumbnail queue depth", zap.Error(err))
		depth = 0
	}

	return &dto.Stats{
		Users:      users,
		Files:      files,
		Thumbnails: depth,
	}, nil
}
