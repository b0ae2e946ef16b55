// Package thumbnail derives resized image renditions asynchronously.
package thumbnail

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"

	_ "image/gif" // registered for decode only

	"github.com/Laisky/errors/v2"
	"github.com/nfnt/resize"
)

// Resize scales original down (or up) to the target width, keeping the
// aspect ratio. JPEG input is re-encoded as JPEG, everything else as PNG.
func Resize(original []byte, width uint) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(original))
	if err != nil {
		return nil, errors.Wrap(err, "decode image")
	}

	scaled := resize.Resize(width, 0, img, resize.Lanczos3)

	buf := new(bytes.Buffer)
	switch format {
	case "jpeg":
		err = jpeg.Encode(buf, scaled, nil)
	default:
		err = png.Encode(buf, scaled)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "encode %s rendition", format)
	}

	return buf.Bytes(), nil
}
