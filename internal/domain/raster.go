package domain

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// RasterImage is an immutable raster payload together with the metadata the
// pipeline needs. Transformations never mutate an existing value; every step
// returns a fresh RasterImage.
type RasterImage struct {
	Data     []byte
	MIME     string
	Filename string
	Width    int
	Height   int
}

// NewRaster wraps raw image bytes and probes the intrinsic pixel dimensions.
func NewRaster(data []byte, mime, filename string) (RasterImage, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return RasterImage{}, fmt.Errorf("%w: %s: %v", ErrDecode, filename, err)
	}
	return RasterImage{
		Data:     data,
		MIME:     mime,
		Filename: filename,
		Width:    cfg.Width,
		Height:   cfg.Height,
	}, nil
}

// RasterFromDataURL parses a "data:<mime>;base64,<payload>" transport string.
// A missing comma-delimited header is a hard error, never a silent no-op.
func RasterFromDataURL(s, filename string) (RasterImage, error) {
	header, payload, ok := strings.Cut(s, ",")
	if !ok || !strings.HasPrefix(header, "data:") {
		return RasterImage{}, fmt.Errorf("%w: malformed data url", ErrDecode)
	}
	meta := strings.TrimPrefix(header, "data:")
	mime := strings.TrimSuffix(meta, ";base64")
	if mime == meta || mime == "" {
		return RasterImage{}, fmt.Errorf("%w: data url is not base64-encoded", ErrDecode)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return RasterImage{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return NewRaster(data, mime, filename)
}

// DataURL renders the image as the transport string used across component
// boundaries.
func (r RasterImage) DataURL() string {
	return "data:" + r.MIME + ";base64," + base64.StdEncoding.EncodeToString(r.Data)
}

// WithFilename returns a copy of the image under a different name.
func (r RasterImage) WithFilename(name string) RasterImage {
	r.Filename = name
	return r
}
