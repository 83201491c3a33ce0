package canvas

import (
	"errors"
	"math"
	"testing"

	"placer/internal/domain"
)

func TestCoordinateRoundTrip(t *testing.T) {
	rect, err := ContentRectFor(800, 600, 1024)
	if err != nil {
		t.Fatalf("ContentRectFor error: %v", err)
	}
	percents := []float64{0, 12.5, 25, 50, 75, 99.9, 100}
	for _, xp := range percents {
		for _, yp := range percents {
			in := domain.PlacementPoint{XPercent: xp, YPercent: yp}
			out, err := ToContentPercent(ToCanvasPixel(in, rect), rect)
			if err != nil {
				t.Fatalf("point %v: unexpected error: %v", in, err)
			}
			if math.Abs(out.XPercent-xp) > 1e-6 || math.Abs(out.YPercent-yp) > 1e-6 {
				t.Fatalf("round trip drifted: in %v out %v", in, out)
			}
		}
	}
}

func TestToCanvasPixelCenters(t *testing.T) {
	rect, err := ContentRectFor(800, 600, 1024)
	if err != nil {
		t.Fatalf("ContentRectFor error: %v", err)
	}
	pt := ToCanvasPixel(domain.PlacementPoint{XPercent: 50, YPercent: 50}, rect)
	if math.Abs(pt.X-512) > 1e-9 || math.Abs(pt.Y-512) > 1e-9 {
		t.Fatalf("center of content should be center of canvas, got %v", pt)
	}
}

func TestToContentPercentRejectsPadding(t *testing.T) {
	// Portrait content inside a 1024 square leaves padding on both sides.
	rect, err := ContentRectFor(600, 800, 1024)
	if err != nil {
		t.Fatalf("ContentRectFor error: %v", err)
	}
	outside := []CanvasPoint{
		{X: rect.OffsetX - 1, Y: 512},
		{X: rect.OffsetX + rect.Width + 1, Y: 512},
		{X: 512, Y: -1},
		{X: 512, Y: 1025},
	}
	for _, pt := range outside {
		if _, err := ToContentPercent(pt, rect); !errors.Is(err, domain.ErrOutsideContent) {
			t.Fatalf("point %v: expected ErrOutsideContent, got %v", pt, err)
		}
	}
}
