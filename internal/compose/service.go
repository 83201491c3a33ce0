package compose

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"placer/internal/canvas"
	"placer/internal/domain"
)

// Service drives the composition and rotation pipelines against an injected
// ImageModel. It holds no mutable state; every request owns its own artifacts,
// so concurrent calls need no locking. Identical concurrent requests are not
// deduplicated; the caller is expected to disable its trigger while one is in
// flight.
type Service struct {
	model  ImageModel
	target int
	logger zerolog.Logger
}

// NewService wires the orchestrator. target is the square dimension every
// image is normalized to before it is shown to the model.
func NewService(model ImageModel, target int, logger zerolog.Logger) (*Service, error) {
	if model == nil {
		return nil, fmt.Errorf("image model is required")
	}
	if target <= 0 {
		return nil, fmt.Errorf("target dimension must be positive, got %d", target)
	}
	return &Service{model: model, target: target, logger: logger}, nil
}

// Compose runs the full placement pipeline: measure, normalize, analyze
// lighting, mark, describe location, synthesize, restore. The two analysis
// calls degrade to fixed fallbacks; synthesis is fatal. Partial artifacts are
// discarded on failure, never cached or retried.
func (s *Service) Compose(ctx context.Context, req Request) (*Result, error) {
	if !req.Position.Valid() {
		return nil, fmt.Errorf("%w: placement %.2f%%, %.2f%% outside [0,100]", domain.ErrInvalidInput, req.Position.XPercent, req.Position.YPercent)
	}
	if req.ShadowIntensity < 0 || req.ShadowIntensity > 100 {
		return nil, fmt.Errorf("%w: shadow intensity %d outside [0,100]", domain.ErrInvalidInput, req.ShadowIntensity)
	}

	// Measure: the original scene dimensions drive the final crop-back.
	sceneW, sceneH := req.Scene.Width, req.Scene.Height
	if sceneW <= 0 || sceneH <= 0 {
		return nil, fmt.Errorf("%w: scene dimensions unknown", domain.ErrDecode)
	}

	// Normalize: product and scene have no data dependency, letterbox both
	// concurrently.
	var product, scene canvas.Normalized
	g := new(errgroup.Group)
	g.Go(func() error {
		var err error
		product, err = canvas.Letterbox(req.Product, s.target)
		return err
	})
	g.Go(func() error {
		var err error
		scene, err = canvas.Letterbox(req.Scene, s.target)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// AnalyzeLighting: non-fatal, fall back to the fixed sentence.
	lighting, err := s.model.Describe(ctx, lightingInstruction, scene.Image)
	if err != nil || strings.TrimSpace(lighting) == "" {
		s.logger.Warn().Err(err).Msg("compose: lighting analysis degraded, using fallback")
		lighting = fallbackLighting
	}

	// Mark the placement point on the normalized scene.
	marked, err := canvas.StampMarker(scene, req.Position, sceneW, sceneH)
	if err != nil {
		return nil, err
	}

	// DescribeLocation: non-fatal, fall back to the fixed phrase.
	location, err := s.model.Describe(ctx, locationInstruction, marked)
	if err != nil || strings.TrimSpace(location) == "" {
		s.logger.Warn().Err(err).Msg("compose: location description degraded, using fallback")
		location = fallbackLocation
	}

	// Synthesize: the clean product and scene, never the marked one. Fatal on
	// any failure.
	prompt := BuildCompositePrompt(location, lighting, req.ShadowIntensity, req.Instructions)
	generated, err := s.model.Render(ctx, prompt, product.Image, scene.Image)
	if err != nil {
		if !errors.Is(err, domain.ErrSynthesis) {
			err = fmt.Errorf("%w: %v", domain.ErrSynthesis, err)
		}
		return nil, err
	}

	// Restore the original aspect ratio.
	final, err := canvas.CropToAspect(generated, sceneW, sceneH)
	if err != nil {
		return nil, err
	}
	final = final.WithFilename(compositeFilename(req.Scene.Filename))

	s.logger.Info().
		Str("scene", req.Scene.Filename).
		Str("product", req.Product.Filename).
		Int("width", final.Width).
		Int("height", final.Height).
		Msg("compose: composite ready")

	return &Result{
		Image: final,
		Debug: DebugBundle{
			ResizedProduct: product.Image,
			ResizedScene:   scene.Image,
			MarkedScene:    marked,
			Prompt:         prompt,
		},
	}, nil
}

func compositeFilename(sceneName string) string {
	base := strings.TrimSuffix(sceneName, extOf(sceneName))
	if base == "" {
		base = "scene"
	}
	return base + "-composite.png"
}

func extOf(name string) string {
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		return name[idx:]
	}
	return ""
}
