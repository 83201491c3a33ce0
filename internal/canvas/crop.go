package canvas

import (
	"bytes"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"placer/internal/domain"
)

// CropToAspect is the inverse of Letterbox: it strips the padding from a square
// generated image, recovering the original aspect ratio. The content rectangle
// is recomputed from the original dimensions against the generated image's own
// size, so the result is at generated-image resolution, not the original pixel
// resolution; that loss is accepted.
func CropToAspect(src domain.RasterImage, origWidth, origHeight int) (domain.RasterImage, error) {
	img, err := imaging.Decode(bytes.NewReader(src.Data))
	if err != nil {
		return domain.RasterImage{}, fmt.Errorf("%w: %s: %v", domain.ErrDecode, src.Filename, err)
	}
	bounds := img.Bounds()
	target := bounds.Dx()
	if bounds.Dy() < target {
		target = bounds.Dy()
	}
	rect, err := ContentRectFor(origWidth, origHeight, target)
	if err != nil {
		return domain.RasterImage{}, err
	}

	x0 := int(math.Round(rect.OffsetX))
	y0 := int(math.Round(rect.OffsetY))
	region := image.Rect(x0, y0, x0+int(math.Round(rect.Width)), y0+int(math.Round(rect.Height)))
	region = region.Intersect(bounds)
	if region.Empty() {
		return domain.RasterImage{}, fmt.Errorf("%w: crop region outside generated image", domain.ErrGeometry)
	}

	cropped := imaging.Crop(img, region)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, cropped, imaging.PNG); err != nil {
		return domain.RasterImage{}, fmt.Errorf("encode cropped image: %w", err)
	}
	return domain.RasterImage{
		Data:     buf.Bytes(),
		MIME:     "image/png",
		Filename: derivedName(src.Filename, "restored"),
		Width:    region.Dx(),
		Height:   region.Dy(),
	}, nil
}
