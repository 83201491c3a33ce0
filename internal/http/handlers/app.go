package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"placer/internal/compose"
	"placer/internal/domain"
)

// Composer is the pipeline surface the handlers depend on; the concrete
// implementation is compose.Service.
type Composer interface {
	Compose(ctx context.Context, req compose.Request) (*compose.Result, error)
	Rotate(ctx context.Context, product domain.RasterImage, view string) (domain.RasterImage, error)
}

type App struct {
	Composer Composer
	Logger   zerolog.Logger
}

func NewApp(composer Composer, logger zerolog.Logger) *App {
	return &App{Composer: composer, Logger: logger}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]string{"error": code, "message": message})
}

// pipelineError maps the pipeline's error taxonomy onto HTTP responses.
func (a *App) pipelineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrUnsupportedView):
		a.error(w, http.StatusUnprocessableEntity, "invalid_request", err.Error())
	case errors.Is(err, domain.ErrDecode):
		a.error(w, http.StatusBadRequest, "bad_image", err.Error())
	case errors.Is(err, domain.ErrSynthesis):
		a.error(w, http.StatusBadGateway, "synthesis_failed", err.Error())
	default:
		a.Logger.Error().Err(err).Msg("handlers: pipeline failed")
		a.error(w, http.StatusInternalServerError, "internal", "composition pipeline failed")
	}
}
