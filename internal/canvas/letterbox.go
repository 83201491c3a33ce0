package canvas

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"path"
	"strings"

	"github.com/disintegration/imaging"

	"placer/internal/domain"
)

// ContentRect describes where the original, unpadded pixels live inside a
// letterboxed square canvas.
type ContentRect struct {
	OffsetX float64
	OffsetY float64
	Width   float64
	Height  float64
}

// ContentRectFor computes the content rectangle for an image of the given
// original size scaled into a target-by-target square. Letterbox, StampMarker
// and CropToAspect all derive the rectangle from this single formula; they must
// never diverge.
func ContentRectFor(origWidth, origHeight, target int) (ContentRect, error) {
	if origWidth <= 0 || origHeight <= 0 || target <= 0 {
		return ContentRect{}, fmt.Errorf("%w: content rect for %dx%d in %d", domain.ErrGeometry, origWidth, origHeight, target)
	}
	d := float64(target)
	aspect := float64(origWidth) / float64(origHeight)
	rect := ContentRect{Width: d, Height: d}
	if aspect > 1 {
		rect.Height = d / aspect
	} else if aspect < 1 {
		rect.Width = d * aspect
	}
	rect.OffsetX = (d - rect.Width) / 2
	rect.OffsetY = (d - rect.Height) / 2
	return rect, nil
}

// Normalized is a RasterImage known to be square, tagged with the target
// dimension and the content rectangle inside it.
type Normalized struct {
	Image   domain.RasterImage
	Target  int
	Content ContentRect
}

// Letterbox scales an image into a target-by-target square, centered over an
// opaque black fill so downstream models never see transparency. The output is
// re-encoded as PNG regardless of the input format. Deterministic for a given
// input and target.
func Letterbox(src domain.RasterImage, target int) (Normalized, error) {
	img, err := imaging.Decode(bytes.NewReader(src.Data), imaging.AutoOrientation(true))
	if err != nil {
		return Normalized{}, fmt.Errorf("%w: %s: %v", domain.ErrDecode, src.Filename, err)
	}
	bounds := img.Bounds()
	rect, err := ContentRectFor(bounds.Dx(), bounds.Dy(), target)
	if err != nil {
		return Normalized{}, err
	}

	// Extreme aspect ratios can round a side down to zero; a 1px sliver is the
	// closest representable content.
	scaledW := maxInt(1, int(math.Round(rect.Width)))
	scaledH := maxInt(1, int(math.Round(rect.Height)))
	scaled := imaging.Resize(img, scaledW, scaledH, imaging.Lanczos)
	square := imaging.New(target, target, color.NRGBA{A: 255})
	square = imaging.PasteCenter(square, scaled)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, square, imaging.PNG); err != nil {
		return Normalized{}, fmt.Errorf("encode letterboxed image: %w", err)
	}
	return Normalized{
		Image: domain.RasterImage{
			Data:     buf.Bytes(),
			MIME:     "image/png",
			Filename: derivedName(src.Filename, fmt.Sprintf("square-%d", target)),
			Width:    target,
			Height:   target,
		},
		Target:  target,
		Content: rect,
	}, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func derivedName(original, suffix string) string {
	base := strings.TrimSuffix(original, path.Ext(original))
	if base == "" {
		base = "image"
	}
	return base + "-" + suffix + ".png"
}
