package canvas

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"placer/internal/domain"
)

// Tuning constants carried over from the original UI. Kept configurable in one
// place rather than re-derived.
const (
	MarkerMinRadius    = 5.0
	MarkerRadiusFactor = 0.015
	markerOutlineWidth = 2.0
)

var (
	markerFill    = color.NRGBA{R: 0xE5, G: 0x2B, B: 0x2B, A: 0xFF}
	markerOutline = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

// StampMarker draws a filled circle with a contrasting outline at the placement
// point and returns a new image; the input is untouched. The content rectangle
// is recomputed from the original, pre-letterbox dimensions because the percent
// is defined against content, not canvas. A point outside [0,100] or a center
// that falls outside the recomputed rectangle is an invariant violation and is
// raised, not clamped.
func StampMarker(n Normalized, p domain.PlacementPoint, origWidth, origHeight int) (domain.RasterImage, error) {
	if !p.Valid() {
		return domain.RasterImage{}, fmt.Errorf("%w: placement %.2f%%, %.2f%%", domain.ErrGeometry, p.XPercent, p.YPercent)
	}
	rect, err := ContentRectFor(origWidth, origHeight, n.Target)
	if err != nil {
		return domain.RasterImage{}, err
	}
	center := ToCanvasPixel(p, rect)
	if _, err := ToContentPercent(center, rect); err != nil {
		return domain.RasterImage{}, fmt.Errorf("%w: marker center (%.1f, %.1f) outside content", domain.ErrGeometry, center.X, center.Y)
	}

	img, err := imaging.Decode(bytes.NewReader(n.Image.Data))
	if err != nil {
		return domain.RasterImage{}, fmt.Errorf("%w: %s: %v", domain.ErrDecode, n.Image.Filename, err)
	}
	marked := imaging.Clone(img)

	radius := math.Max(MarkerMinRadius, MarkerRadiusFactor*float64(n.Target))
	drawDisc(marked, center, radius)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, marked, imaging.PNG); err != nil {
		return domain.RasterImage{}, fmt.Errorf("encode marked image: %w", err)
	}
	return domain.RasterImage{
		Data:     buf.Bytes(),
		MIME:     "image/png",
		Filename: derivedName(n.Image.Filename, "marked"),
		Width:    n.Target,
		Height:   n.Target,
	}, nil
}

// drawDisc rasterizes the marker: a filled disc ringed by the outline color.
// NRGBA.SetNRGBA is a no-op outside the image bounds, which clips circles that
// touch the canvas edge.
func drawDisc(img *image.NRGBA, center CanvasPoint, radius float64) {
	outer := radius + markerOutlineWidth
	minX := int(math.Floor(center.X - outer))
	maxX := int(math.Ceil(center.X + outer))
	minY := int(math.Floor(center.Y - outer))
	maxY := int(math.Ceil(center.Y + outer))
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			d := math.Hypot(float64(x)+0.5-center.X, float64(y)+0.5-center.Y)
			switch {
			case d <= radius:
				img.SetNRGBA(x, y, markerFill)
			case d <= outer:
				img.SetNRGBA(x, y, markerOutline)
			}
		}
	}
}
