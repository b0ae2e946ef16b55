package service

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Laisky/laisky-files-api/internal/web/files/dto"
	"github.com/Laisky/laisky-files-api/internal/web/files/model"
)

// TestParseNodeIDRoot verifies the root sentinel and empty input resolve to nil.
// It accepts no parameters besides the testing handle and asserts on the nil id.
func TestParseNodeIDRoot(t *testing.T) {
	for _, raw := range []string{"", "0", " 0 "} {
		id, err := ParseNodeID(raw)
		require.NoError(t, err, raw)
		require.Nil(t, id, raw)
	}
}

// TestParseNodeIDValid verifies a well-formed hex id parses to itself.
// It accepts no parameters besides the testing handle and asserts on round-trip equality.
func TestParseNodeIDValid(t *testing.T) {
	want := primitive.NewObjectID()
	id, err := ParseNodeID(want.Hex())
	require.NoError(t, err)
	require.NotNil(t, id)
	require.Equal(t, want, *id)
}

// TestParseNodeIDInvalid verifies malformed input surfaces ErrInvalidNodeID.
// It accepts no parameters besides the testing handle and asserts on the sentinel error.
func TestParseNodeIDInvalid(t *testing.T) {
	for _, raw := range []string{"bogus", "123", "zzzzzzzzzzzzzzzzzzzzzzzz"} {
		_, err := ParseNodeID(raw)
		require.ErrorIs(t, err, ErrInvalidNodeID, raw)
	}
}

// TestValidateUploadOrder verifies the first failing check wins.
// It accepts no parameters besides the testing handle and asserts one error per case.
func TestValidateUploadOrder(t *testing.T) {
	cases := []struct {
		name string
		req  *dto.UploadRequest
		want error
	}{
		{"missing name", &dto.UploadRequest{Type: "image", Data: "aGk="}, ErrMissingName},
		{"blank name", &dto.UploadRequest{Name: "  ", Type: "image", Data: "aGk="}, ErrMissingName},
		{"missing type", &dto.UploadRequest{Name: "a.png", Data: "aGk="}, ErrMissingType},
		{"bad type", &dto.UploadRequest{Name: "a.png", Type: "movie", Data: "aGk="}, ErrMissingType},
		{"missing data", &dto.UploadRequest{Name: "a.png", Type: "file"}, ErrMissingData},
		{"missing data image", &dto.UploadRequest{Name: "a.png", Type: "image"}, ErrMissingData},
	}

	for _, tc := range cases {
		_, err := validateUpload(tc.req)
		require.ErrorIs(t, err, tc.want, tc.name)
	}
}

// TestValidateUploadOK verifies valid requests resolve their kind.
// It accepts no parameters besides the testing handle and asserts on the parsed kind.
func TestValidateUploadOK(t *testing.T) {
	kind, err := validateUpload(&dto.UploadRequest{Name: "docs", Type: "folder"})
	require.NoError(t, err)
	require.Equal(t, model.KindFolder, kind)

	// folders never carry a payload, so data is not required
	kind, err = validateUpload(&dto.UploadRequest{Name: "a.png", Type: "image", Data: "aGk="})
	require.NoError(t, err)
	require.Equal(t, model.KindImage, kind)
}
