package canvas

import (
	"placer/internal/domain"
)

// CanvasPoint is a pixel position on the padded square canvas.
type CanvasPoint struct {
	X float64
	Y float64
}

// ToCanvasPixel maps a percent-of-content placement point onto the padded
// canvas. Pure function, no I/O.
func ToCanvasPixel(p domain.PlacementPoint, rect ContentRect) CanvasPoint {
	return CanvasPoint{
		X: rect.OffsetX + p.XPercent/100*rect.Width,
		Y: rect.OffsetY + p.YPercent/100*rect.Height,
	}
}

// ToContentPercent recovers the percent-of-content point from a canvas pixel.
// Pixels outside the content rectangle are rejected so callers can ignore
// drops that land on the padding.
func ToContentPercent(pt CanvasPoint, rect ContentRect) (domain.PlacementPoint, error) {
	if pt.X < rect.OffsetX || pt.X > rect.OffsetX+rect.Width ||
		pt.Y < rect.OffsetY || pt.Y > rect.OffsetY+rect.Height {
		return domain.PlacementPoint{}, domain.ErrOutsideContent
	}
	return domain.PlacementPoint{
		XPercent: (pt.X - rect.OffsetX) / rect.Width * 100,
		YPercent: (pt.Y - rect.OffsetY) / rect.Height * 100,
	}, nil
}
