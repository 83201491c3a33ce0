package compose

import (
	"context"

	"placer/internal/domain"
)

// Request carries everything one composition needs. Built once per user
// action and never mutated.
type Request struct {
	Product         domain.RasterImage
	Scene           domain.RasterImage
	Position        domain.PlacementPoint
	Instructions    string
	ShadowIntensity int
}

// DebugBundle collects the intermediate artifacts of a single composition for
// UI inspection. Read-only once produced.
type DebugBundle struct {
	ResizedProduct domain.RasterImage
	ResizedScene   domain.RasterImage
	MarkedScene    domain.RasterImage
	Prompt         string
}

// Result is the aspect-restored composite plus its debug artifacts.
type Result struct {
	Image domain.RasterImage
	Debug DebugBundle
}

// ImageModel is the multimodal AI collaborator. Describe returns free text for
// an instruction plus images; Render returns exactly one generated image.
type ImageModel interface {
	Describe(ctx context.Context, instruction string, images ...domain.RasterImage) (string, error)
	Render(ctx context.Context, prompt string, images ...domain.RasterImage) (domain.RasterImage, error)
}
