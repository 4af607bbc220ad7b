package assistant

import (
	"bytes"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// normalizeCover re-encodes a generated image as PNG, scaling it down to
// maxWidth when it is wider.
func normalizeCover(data []byte, maxWidth int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "decode generated image")
	}
	if maxWidth > 0 && img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, errors.Wrap(err, "encode cover")
	}
	return buf.Bytes(), nil
}
