// Package blob stores raw file payloads on a local filesystem abstraction.
package blob

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Laisky/errors/v2"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// ErrBlobNotFound is returned when the requested payload is absent on disk.
// The thumbnail pipeline writes renditions asynchronously, so a missing
// derived blob is an expected state, not a storage failure.
var ErrBlobNotFound = errors.New("blob not found")

// Store places and retrieves raw bytes under a single storage root.
// Metadata rows keep a back-reference to the returned path, the store
// itself owns the bytes.
type Store struct {
	fs   afero.Fs
	root string
}

// NewStore creates the storage root if absent and returns a store over fs.
func NewStore(fs afero.Fs, root string) (*Store, error) {
	if root == "" {
		return nil, errors.New("storage root is required")
	}
	if err := fs.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create storage root %q", root)
	}

	return &Store{fs: fs, root: root}, nil
}

// Root returns the configured storage root.
func (s *Store) Root() string {
	return s.root
}

// Put writes data under a fresh unguessable name and returns the full path.
func (s *Store) Put(data []byte) (localPath string, err error) {
	localPath = filepath.Join(s.root, uuid.NewString())
	if err = afero.WriteFile(s.fs, localPath, data, 0o644); err != nil {
		return "", errors.Wrapf(err, "write blob %q", localPath)
	}

	return localPath, nil
}

// Get reads the payload stored at localPath.
func (s *Store) Get(localPath string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, localPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBlobNotFound
		}

		return nil, errors.Wrapf(err, "read blob %q", localPath)
	}

	return data, nil
}

// PutRendition writes one derived rendition alongside the original blob.
func (s *Store) PutRendition(localPath string, width uint, data []byte) error {
	if err := afero.WriteFile(s.fs, RenditionPath(localPath, width), data, 0o644); err != nil {
		return errors.Wrapf(err, "write rendition %q width %d", localPath, width)
	}

	return nil
}

// GetRendition reads the derived rendition of the blob at localPath.
func (s *Store) GetRendition(localPath string, width uint) ([]byte, error) {
	return s.Get(RenditionPath(localPath, width))
}

// RenditionPath names the derived blob for one width, `<path>_<width>`.
func RenditionPath(localPath string, width uint) string {
	return fmt.Sprintf("%s_%d", localPath, width)
}
