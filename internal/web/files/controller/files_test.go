package controller

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestContentTypeForName verifies content types are inferred from the node name.
// It accepts no parameters besides the testing handle and asserts on each extension.
func TestContentTypeForName(t *testing.T) {
	require.Equal(t, "image/png", contentTypeForName("a.png"))
	require.Equal(t, "image/jpeg", contentTypeForName("photo.jpg"))
	require.Equal(t, "application/octet-stream", contentTypeForName("blob"))
	require.Equal(t, "application/octet-stream", contentTypeForName(""))
}
