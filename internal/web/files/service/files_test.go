package service

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Laisky/laisky-files-api/internal/web/files/model"
)

// TestAccessChecks verifies the owner/public read rules and owner-only writes.
// It accepts no parameters besides the testing handle and asserts each mode separately.
func TestAccessChecks(t *testing.T) {
	owner := &model.User{ID: primitive.NewObjectID()}
	stranger := &model.User{ID: primitive.NewObjectID()}

	private := &model.File{OwnerID: owner.ID}
	public := &model.File{OwnerID: owner.ID, IsPublic: true}

	require.True(t, canRead(owner, private))
	require.False(t, canRead(stranger, private))
	require.True(t, canRead(stranger, public))

	require.True(t, canWrite(owner, private))
	require.False(t, canWrite(stranger, private))
	// publish/unpublish never succeeds on merely-public nodes of others
	require.False(t, canWrite(stranger, public))
}

// TestValidThumbnailWidth verifies only the three supported widths pass.
// It accepts no parameters besides the testing handle and asserts on each width.
func TestValidThumbnailWidth(t *testing.T) {
	for _, w := range []uint{100, 250, 500} {
		require.True(t, validThumbnailWidth(w), w)
	}
	for _, w := range []uint{0, 50, 101, 1000} {
		require.False(t, validThumbnailWidth(w), w)
	}
}
