package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"server/internal/domain"
	"server/internal/media"
)

// maxUploadBytes bounds the multipart form held in memory. Audio tracks and
// reference images comfortably fit; anything larger is rejected upfront.
const maxUploadBytes = 64 << 20

// Generate accepts a multipart generation request, runs it to completion and
// streams the finished artifact back. Only one generation runs at a time;
// concurrent requests get 409.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart payload")
		return
	}

	req, err := a.parseGenerationRequest(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	artifact, err := a.Gen.Generate(r.Context(), req)
	if err != nil {
		a.generationError(w, err)
		return
	}

	// A stored copy is a convenience; failing to write it never fails the
	// request the user is waiting on.
	if storedKey, serr := a.Store.WriteArtifact(r.Context(), artifact); serr != nil {
		a.Logger.Warn().Err(serr).Msg("handlers: artifact copy not stored")
	} else {
		a.Logger.Info().Str("key", storedKey).Int("bytes", len(artifact.Data)).Msg("handlers: artifact stored")
	}

	w.Header().Set("Content-Type", artifact.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifact.Data)
}

// GenerateProgress reports the progress of the in-flight generation, or 204
// when none is running.
func (a *App) GenerateProgress(w http.ResponseWriter, r *http.Request) {
	state, ok := a.Gen.Progress()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	a.json(w, http.StatusOK, state)
}

func (a *App) parseGenerationRequest(r *http.Request) (*domain.GenerationRequest, error) {
	mode, err := parseMode(r.FormValue("mode"))
	if err != nil {
		return nil, err
	}
	req := &domain.GenerationRequest{
		Mode:       mode,
		Prompt:     r.FormValue("prompt"),
		Style:      domain.Style(r.FormValue("style")),
		Resolution: domain.Resolution(r.FormValue("resolution")),
		VideoType:  domain.VideoType(r.FormValue("video_type")),
		Lyrics:     r.FormValue("lyrics"),
		LyricStyle: domain.DefaultLyricStyle(),
	}

	if req.Style == "" {
		req.Style = domain.StyleCinematic
	}
	if req.Resolution == "" {
		req.Resolution = domain.Resolution720p
	}
	if req.VideoType == "" {
		req.VideoType = domain.VideoTypeVisual
	}

	if v := r.FormValue("font_family"); v != "" {
		req.LyricStyle.FontFamily = v
	}
	if v := r.FormValue("font_size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size <= 0 {
			return nil, fmt.Errorf("font_size must be a positive integer")
		}
		req.LyricStyle.FontSize = size
	}
	if v := r.FormValue("font_color"); v != "" {
		req.LyricStyle.FontColor = v
	}
	if v := r.FormValue("animation_style"); v != "" {
		req.LyricStyle.AnimationStyle = v
	}

	audio, err := a.formBlob(r, "audio")
	if err != nil {
		return nil, err
	}
	req.Audio = audio

	image, err := a.formBlob(r, "image")
	if err != nil {
		return nil, err
	}
	req.Image = image

	if req.Mode == "" {
		if req.Image != nil && req.Audio == nil {
			req.Mode = domain.ModeEditImage
		} else {
			req.Mode = domain.ModeVideo
		}
	}
	return req, nil
}

// parseMode maps the form vocabulary onto the internal modes. An empty mode
// is resolved later from the uploaded files.
func parseMode(raw string) (domain.Mode, error) {
	switch raw {
	case "":
		return "", nil
	case "standard", "video":
		return domain.ModeVideo, nil
	case "advanced", "advanced_video":
		return domain.ModeAdvancedVideo, nil
	case "edit", "edit_image":
		return domain.ModeEditImage, nil
	default:
		return "", fmt.Errorf("unknown mode %q", raw)
	}
}

func (a *App) formBlob(r *http.Request, field string) (*domain.MediaBlob, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s upload: %v", field, err)
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	blob, err := media.Encode(file, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("read %s upload: %v", field, err)
	}
	return blob, nil
}

func (a *App) generationError(w http.ResponseWriter, err error) {
	message := err.Error()
	var genErr *domain.GenerationError
	if errors.As(err, &genErr) {
		message = genErr.UserMessage()
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, domain.ErrBusy):
		a.error(w, http.StatusConflict, "busy", "A generation is already in progress.")
	case errors.Is(err, domain.ErrServiceUnavailable):
		a.error(w, http.StatusServiceUnavailable, "unavailable", message)
	case errors.Is(err, domain.ErrPollTimeout):
		a.error(w, http.StatusGatewayTimeout, "timeout", message)
	default:
		a.error(w, http.StatusBadGateway, "upstream", message)
	}
}
