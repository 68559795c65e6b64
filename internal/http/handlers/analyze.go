package handlers

import (
	"errors"
	"net/http"

	"server/internal/domain"
)

// analyzeResponse presents the rounded BPM as the headline value and keeps
// the raw measurement available.
type analyzeResponse struct {
	BPM         int              `json:"bpm"`
	BPMRaw      float64          `json:"bpm_raw"`
	Chords      []string         `json:"chords"`
	Key         string           `json:"key"`
	Structure   []domain.Section `json:"structure"`
	OverallMood string           `json:"overall_mood,omitempty"`
}

// Analyze runs the standalone audio analysis and returns the structured
// result. It is independent of the generation workflow.
func (a *App) Analyze(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart payload")
		return
	}

	audio, err := a.formBlob(r, "audio")
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if audio == nil {
		a.error(w, http.StatusBadRequest, "bad_request", "an audio file is required")
		return
	}

	result, err := a.Gen.Analyze(r.Context(), audio)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrServiceUnavailable):
			a.error(w, http.StatusServiceUnavailable, "unavailable", "The AI service is not configured. Please provide an API key.")
		case errors.Is(err, domain.ErrAnalysis):
			a.error(w, http.StatusUnprocessableEntity, "analysis_failed", "The audio could not be analyzed.")
		default:
			a.error(w, http.StatusBadGateway, "upstream", "Audio analysis failed.")
		}
		return
	}

	a.json(w, http.StatusOK, analyzeResponse{
		BPM:         result.RoundedBPM(),
		BPMRaw:      result.BPM,
		Chords:      result.Chords,
		Key:         result.Key,
		Structure:   result.SortedStructure(),
		OverallMood: result.OverallMood,
	})
}
