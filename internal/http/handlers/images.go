package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"placer/internal/compose"
	"placer/internal/domain"
	"placer/pkg/zip"
)

type imagePayload struct {
	DataURL  string `json:"data_url"`
	Filename string `json:"filename"`
}

type positionPayload struct {
	XPercent float64 `json:"x_percent"`
	YPercent float64 `json:"y_percent"`
}

type composeRequest struct {
	Product         imagePayload    `json:"product"`
	Scene           imagePayload    `json:"scene"`
	Position        positionPayload `json:"position"`
	Instructions    string          `json:"instructions"`
	ShadowIntensity int             `json:"shadow_intensity"`
}

type imageResponse struct {
	DataURL  string `json:"data_url"`
	Filename string `json:"filename"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

type debugResponse struct {
	ResizedProduct imageResponse `json:"resized_product"`
	ResizedScene   imageResponse `json:"resized_scene"`
	MarkedScene    imageResponse `json:"marked_scene"`
	Prompt         string        `json:"prompt"`
}

type composeResponse struct {
	Image imageResponse `json:"image"`
	Debug debugResponse `json:"debug"`
}

func toImageResponse(img domain.RasterImage) imageResponse {
	return imageResponse{
		DataURL:  img.DataURL(),
		Filename: img.Filename,
		Width:    img.Width,
		Height:   img.Height,
	}
}

func (a *App) parseComposeRequest(w http.ResponseWriter, r *http.Request) (compose.Request, bool) {
	var req composeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return compose.Request{}, false
	}
	product, err := domain.RasterFromDataURL(req.Product.DataURL, nameOr(req.Product.Filename, "product.png"))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_image", "invalid product image: "+err.Error())
		return compose.Request{}, false
	}
	scene, err := domain.RasterFromDataURL(req.Scene.DataURL, nameOr(req.Scene.Filename, "scene.png"))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_image", "invalid scene image: "+err.Error())
		return compose.Request{}, false
	}
	return compose.Request{
		Product:         product,
		Scene:           scene,
		Position:        domain.PlacementPoint{XPercent: req.Position.XPercent, YPercent: req.Position.YPercent},
		Instructions:    req.Instructions,
		ShadowIntensity: req.ShadowIntensity,
	}, true
}

func (a *App) ImagesCompose(w http.ResponseWriter, r *http.Request) {
	req, ok := a.parseComposeRequest(w, r)
	if !ok {
		return
	}
	result, err := a.Composer.Compose(r.Context(), req)
	if err != nil {
		a.pipelineError(w, err)
		return
	}
	a.json(w, http.StatusOK, composeResponse{
		Image: toImageResponse(result.Image),
		Debug: debugResponse{
			ResizedProduct: toImageResponse(result.Debug.ResizedProduct),
			ResizedScene:   toImageResponse(result.Debug.ResizedScene),
			MarkedScene:    toImageResponse(result.Debug.MarkedScene),
			Prompt:         result.Debug.Prompt,
		},
	})
}

// ImagesComposeArchive runs the same pipeline but streams the composite plus
// the debug bundle as a zip for offline inspection.
func (a *App) ImagesComposeArchive(w http.ResponseWriter, r *http.Request) {
	req, ok := a.parseComposeRequest(w, r)
	if !ok {
		return
	}
	result, err := a.Composer.Compose(r.Context(), req)
	if err != nil {
		a.pipelineError(w, err)
		return
	}
	archive := zip.ArchiveAssets([]zip.Asset{
		{Filename: result.Image.Filename, MIME: result.Image.MIME, Data: result.Image.Data},
		{Filename: result.Debug.ResizedProduct.Filename, MIME: result.Debug.ResizedProduct.MIME, Data: result.Debug.ResizedProduct.Data},
		{Filename: result.Debug.ResizedScene.Filename, MIME: result.Debug.ResizedScene.MIME, Data: result.Debug.ResizedScene.Data},
		{Filename: result.Debug.MarkedScene.Filename, MIME: result.Debug.MarkedScene.MIME, Data: result.Debug.MarkedScene.Data},
		{Filename: "prompt.txt", MIME: "text/plain", Data: []byte(result.Debug.Prompt)},
	})
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.zip", trimExt(result.Image.Filename)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}

type rotateRequest struct {
	Product imagePayload `json:"product"`
	View    string       `json:"view"`
}

type rotateResponse struct {
	Image imageResponse `json:"image"`
}

func (a *App) ImagesRotate(w http.ResponseWriter, r *http.Request) {
	var req rotateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	product, err := domain.RasterFromDataURL(req.Product.DataURL, nameOr(req.Product.Filename, "product.png"))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_image", "invalid product image: "+err.Error())
		return
	}
	rotated, err := a.Composer.Rotate(r.Context(), product, req.View)
	if err != nil {
		a.pipelineError(w, err)
		return
	}
	a.json(w, http.StatusOK, rotateResponse{Image: toImageResponse(rotated)})
}

func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

func trimExt(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[:i]
		}
	}
	return name
}
