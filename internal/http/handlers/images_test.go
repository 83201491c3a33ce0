package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"placer/internal/compose"
	"placer/internal/domain"
)

type stubComposer struct {
	compose func(ctx context.Context, req compose.Request) (*compose.Result, error)
	rotate  func(ctx context.Context, product domain.RasterImage, view string) (domain.RasterImage, error)
}

func (s *stubComposer) Compose(ctx context.Context, req compose.Request) (*compose.Result, error) {
	if s.compose == nil {
		return nil, fmt.Errorf("unexpected Compose call")
	}
	return s.compose(ctx, req)
}

func (s *stubComposer) Rotate(ctx context.Context, product domain.RasterImage, view string) (domain.RasterImage, error) {
	if s.rotate == nil {
		return domain.RasterImage{}, fmt.Errorf("unexpected Rotate call")
	}
	return s.rotate(ctx, product, view)
}

func fixtureRaster(t *testing.T, w, h int, name string) domain.RasterImage {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	raster, err := domain.NewRaster(buf.Bytes(), "image/png", name)
	if err != nil {
		t.Fatalf("NewRaster error: %v", err)
	}
	return raster
}

func composeBody(t *testing.T, productURL, sceneURL string) *bytes.Reader {
	t.Helper()
	payload := map[string]any{
		"product":          map[string]string{"data_url": productURL, "filename": "mug.png"},
		"scene":            map[string]string{"data_url": sceneURL, "filename": "kitchen.png"},
		"position":         map[string]float64{"x_percent": 50, "y_percent": 50},
		"shadow_intensity": 50,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return bytes.NewReader(body)
}

func TestImagesComposeSuccess(t *testing.T) {
	final := fixtureRaster(t, 120, 90, "kitchen-composite.png")
	stub := &stubComposer{
		compose: func(ctx context.Context, req compose.Request) (*compose.Result, error) {
			if req.Scene.Filename != "kitchen.png" || req.Product.Filename != "mug.png" {
				t.Fatalf("filenames not forwarded: %s / %s", req.Scene.Filename, req.Product.Filename)
			}
			if req.Position.XPercent != 50 || req.ShadowIntensity != 50 {
				t.Fatalf("request not forwarded: %+v", req)
			}
			return &compose.Result{
				Image: final,
				Debug: compose.DebugBundle{
					ResizedProduct: final,
					ResizedScene:   final,
					MarkedScene:    final,
					Prompt:         "the prompt",
				},
			}, nil
		},
	}
	app := NewApp(stub, zerolog.Nop())

	product := fixtureRaster(t, 40, 40, "mug.png")
	scene := fixtureRaster(t, 80, 60, "kitchen.png")
	req := httptest.NewRequest(http.MethodPost, "/v1/images/compose", composeBody(t, product.DataURL(), scene.DataURL()))
	rec := httptest.NewRecorder()
	app.ImagesCompose(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}
	var resp composeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Image.Width != 120 || resp.Image.Height != 90 {
		t.Fatalf("image dimensions not surfaced: %+v", resp.Image)
	}
	if !strings.HasPrefix(resp.Image.DataURL, "data:image/png;base64,") {
		t.Fatalf("image not returned as data url: %s", resp.Image.DataURL[:32])
	}
	if resp.Debug.Prompt != "the prompt" {
		t.Fatalf("debug prompt missing: %+v", resp.Debug)
	}
}

func TestImagesComposeRejectsBadDataURL(t *testing.T) {
	app := NewApp(&stubComposer{}, zerolog.Nop())

	scene := fixtureRaster(t, 80, 60, "kitchen.png")
	req := httptest.NewRequest(http.MethodPost, "/v1/images/compose", composeBody(t, "not-a-data-url", scene.DataURL()))
	rec := httptest.NewRecorder()
	app.ImagesCompose(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "bad_image") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestImagesComposeSynthesisFailure(t *testing.T) {
	stub := &stubComposer{
		compose: func(ctx context.Context, req compose.Request) (*compose.Result, error) {
			return nil, fmt.Errorf("%w: response carried no inline image", domain.ErrSynthesis)
		},
	}
	app := NewApp(stub, zerolog.Nop())

	product := fixtureRaster(t, 40, 40, "mug.png")
	scene := fixtureRaster(t, 80, 60, "kitchen.png")
	req := httptest.NewRequest(http.MethodPost, "/v1/images/compose", composeBody(t, product.DataURL(), scene.DataURL()))
	rec := httptest.NewRecorder()
	app.ImagesCompose(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status %d, want 502", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "synthesis_failed") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestImagesComposeArchiveStreamsZip(t *testing.T) {
	final := fixtureRaster(t, 120, 90, "kitchen-composite.png")
	stub := &stubComposer{
		compose: func(ctx context.Context, req compose.Request) (*compose.Result, error) {
			return &compose.Result{
				Image: final,
				Debug: compose.DebugBundle{ResizedProduct: final, ResizedScene: final, MarkedScene: final, Prompt: "p"},
			}, nil
		},
	}
	app := NewApp(stub, zerolog.Nop())

	product := fixtureRaster(t, 40, 40, "mug.png")
	scene := fixtureRaster(t, 80, 60, "kitchen.png")
	req := httptest.NewRequest(http.MethodPost, "/v1/images/compose/archive", composeBody(t, product.DataURL(), scene.DataURL()))
	rec := httptest.NewRecorder()
	app.ImagesComposeArchive(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/zip" {
		t.Fatalf("content type %q", got)
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "kitchen-composite.zip") {
		t.Fatalf("disposition %q", rec.Header().Get("Content-Disposition"))
	}
	if rec.Body.Len() == 0 {
		t.Fatalf("empty archive")
	}
}

func TestImagesRotate(t *testing.T) {
	rotated := fixtureRaster(t, 64, 64, "mug-back-view.png")
	stub := &stubComposer{
		rotate: func(ctx context.Context, product domain.RasterImage, view string) (domain.RasterImage, error) {
			if view != "back view" {
				t.Fatalf("view not forwarded: %s", view)
			}
			return rotated, nil
		},
	}
	app := NewApp(stub, zerolog.Nop())

	product := fixtureRaster(t, 40, 40, "mug.png")
	body, _ := json.Marshal(map[string]any{
		"product": map[string]string{"data_url": product.DataURL(), "filename": "mug.png"},
		"view":    "back view",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/images/rotate", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	app.ImagesRotate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}
	var resp rotateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Image.Filename != "mug-back-view.png" {
		t.Fatalf("rotation label missing: %+v", resp.Image)
	}
}

func TestImagesRotateUnsupportedView(t *testing.T) {
	stub := &stubComposer{
		rotate: func(ctx context.Context, product domain.RasterImage, view string) (domain.RasterImage, error) {
			return domain.RasterImage{}, fmt.Errorf("%w: %q is handled by the caller", domain.ErrUnsupportedView, view)
		},
	}
	app := NewApp(stub, zerolog.Nop())

	product := fixtureRaster(t, 40, 40, "mug.png")
	body, _ := json.Marshal(map[string]any{
		"product": map[string]string{"data_url": product.DataURL(), "filename": "mug.png"},
		"view":    "restore",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/images/rotate", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	app.ImagesRotate(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d, want 422", rec.Code)
	}
}
