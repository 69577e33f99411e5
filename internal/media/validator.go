package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/webp"
)

var (
	ErrNotImage = errors.New("file is not a recognized image")
	ErrTooLarge = errors.New("image exceeds the size limit")
	ErrEmpty    = errors.New("uploaded file is empty")
)

// Image is a validated upload, ready for object storage. The bytes are
// stored exactly as received; no resizing or transcoding happens here.
type Image struct {
	Bytes       []byte
	ContentType string
	Extension   string
	Width       int
	Height      int
}

// Validate reads the upload fully, enforces the size limit and proves
// the payload decodes as an image. The declared content type is
// ignored; the sniffed format wins.
func Validate(r io.Reader, size, maxBytes int64) (*Image, error) {
	if size <= 0 {
		return nil, ErrEmpty
	}
	if maxBytes > 0 && size > maxBytes {
		return nil, fmt.Errorf("%w (%d bytes)", ErrTooLarge, maxBytes)
	}

	src := r
	if maxBytes > 0 {
		src = io.LimitReader(r, maxBytes+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w (%d bytes)", ErrTooLarge, maxBytes)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, ErrNotImage
	}

	contentType, ext := formatMeta(format)
	if contentType == "" {
		return nil, ErrNotImage
	}

	return &Image{
		Bytes:       data,
		ContentType: contentType,
		Extension:   ext,
		Width:       cfg.Width,
		Height:      cfg.Height,
	}, nil
}

func formatMeta(format string) (string, string) {
	switch format {
	case "jpeg":
		return "image/jpeg", ".jpg"
	case "png":
		return "image/png", ".png"
	case "gif":
		return "image/gif", ".gif"
	case "webp":
		return "image/webp", ".webp"
	default:
		return "", ""
	}
}
