package domain

// PlacementPoint is a position in percent of the visible image content, not of
// the padded canvas. Canvas-pixel coordinates are a separate type owned by the
// canvas package; the two are never stored interchangeably.
type PlacementPoint struct {
	XPercent float64
	YPercent float64
}

// Valid reports whether the point lies inside the content, boundary included.
func (p PlacementPoint) Valid() bool {
	return p.XPercent >= 0 && p.XPercent <= 100 && p.YPercent >= 0 && p.YPercent <= 100
}
