package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/storage"
)

// Generator is the slice of the orchestrator the HTTP layer depends on.
type Generator interface {
	Generate(ctx context.Context, req *domain.GenerationRequest) (*domain.Artifact, error)
	Analyze(ctx context.Context, audio *domain.MediaBlob) (*domain.AnalysisResult, error)
	FetchLogo(ctx context.Context) ([]byte, error)
	Progress() (domain.ProgressState, bool)
}

type App struct {
	Logger zerolog.Logger
	Gen    Generator
	Store  *storage.FileStore
}

func NewApp(logger zerolog.Logger, gen Generator, store *storage.FileStore) *App {
	return &App{Logger: logger, Gen: gen, Store: store}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, kind, message string) {
	a.json(w, code, map[string]any{
		"error": map[string]string{"code": kind, "message": message},
	})
}
