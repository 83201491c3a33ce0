package compose

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"placer/internal/canvas"
	"placer/internal/domain"
)

// Rotate re-renders a product image from a different implied camera angle,
// e.g. "front view" or "a view of its left side". Single synthesis call, fatal
// on any failure, no fallback. The pseudo-view "restore" is the caller's job
// (it swaps back to the originally uploaded file) and is rejected here.
func (s *Service) Rotate(ctx context.Context, product domain.RasterImage, view string) (domain.RasterImage, error) {
	view = strings.TrimSpace(view)
	if view == "" {
		return domain.RasterImage{}, fmt.Errorf("%w: empty view", domain.ErrUnsupportedView)
	}
	if strings.EqualFold(view, "restore") {
		return domain.RasterImage{}, fmt.Errorf("%w: %q is handled by the caller", domain.ErrUnsupportedView, view)
	}

	normalized, err := canvas.Letterbox(product, s.target)
	if err != nil {
		return domain.RasterImage{}, err
	}

	rendered, err := s.model.Render(ctx, BuildRotationPrompt(view), normalized.Image)
	if err != nil {
		if !errors.Is(err, domain.ErrSynthesis) {
			err = fmt.Errorf("%w: %v", domain.ErrSynthesis, err)
		}
		return domain.RasterImage{}, err
	}

	rotated := rendered.WithFilename(rotationFilename(product.Filename, view))
	s.logger.Info().
		Str("product", product.Filename).
		Str("view", view).
		Msg("compose: rotation rendered")
	return rotated, nil
}

// rotationFilename records the requested view in the output name, e.g.
// "mug-back-view.png".
func rotationFilename(productName, view string) string {
	base := strings.TrimSuffix(productName, extOf(productName))
	if base == "" {
		base = "product"
	}
	slug := strings.ToLower(view)
	slug = strings.Join(strings.Fields(slug), "-")
	return base + "-" + slug + ".png"
}
