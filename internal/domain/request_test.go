package domain

import (
	"errors"
	"testing"
)

func validRequest() *GenerationRequest {
	return &GenerationRequest{
		Mode:       ModeVideo,
		Prompt:     "a cat",
		Style:      StyleCinematic,
		Resolution: Resolution720p,
		VideoType:  VideoTypeVisual,
		LyricStyle: DefaultLyricStyle(),
		Audio:      &MediaBlob{Data: []byte("audio"), MimeType: "audio/mpeg"},
	}
}

func TestGenerationRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *GenerationRequest)
		wantErr bool
	}{
		{"valid audio request", func(r *GenerationRequest) {}, false},
		{"neither audio nor image", func(r *GenerationRequest) { r.Audio = nil }, true},
		{"image only is valid", func(r *GenerationRequest) {
			r.Audio = nil
			r.Mode = ModeEditImage
			r.Image = &MediaBlob{Data: []byte("img"), MimeType: "image/png"}
		}, false},
		{"edit mode without image", func(r *GenerationRequest) {
			r.Mode = ModeEditImage
			r.Audio = nil
		}, true},
		{"edit mode with audio", func(r *GenerationRequest) {
			r.Mode = ModeEditImage
			r.Image = &MediaBlob{Data: []byte("img"), MimeType: "image/png"}
		}, true},
		{"lyrics video without lyrics", func(r *GenerationRequest) { r.VideoType = VideoTypeLyrics }, true},
		{"lyrics video with lyrics", func(r *GenerationRequest) {
			r.VideoType = VideoTypeLyrics
			r.Lyrics = "la la la"
		}, false},
		{"unknown style", func(r *GenerationRequest) { r.Style = "steampunk" }, true},
		{"unknown resolution", func(r *GenerationRequest) { r.Resolution = "4k" }, true},
		{"prompt too long", func(r *GenerationRequest) {
			long := make([]byte, maxPromptLength+1)
			for i := range long {
				long[i] = 'x'
			}
			r.Prompt = string(long)
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			err := req.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrValidation) {
				t.Fatalf("Validate() error %v is not ErrValidation", err)
			}
		})
	}
}

func TestArtifactFilename(t *testing.T) {
	video := &Artifact{Kind: ArtifactVideo}
	if got := video.Filename(); got != "ai-music-video.mp4" {
		t.Fatalf("video filename = %q", got)
	}
	img := &Artifact{Kind: ArtifactImage}
	if got := img.Filename(); got != "ai-edited-image.png" {
		t.Fatalf("image filename = %q", got)
	}
}

func TestVideoJobTerminal(t *testing.T) {
	pending := &VideoJob{Status: JobStatusPending}
	if pending.Terminal() {
		t.Fatal("pending job reported terminal")
	}
	done := &VideoJob{Status: JobStatusDone, ResultURI: "https://example.com/v.mp4"}
	if !done.Terminal() {
		t.Fatal("done job not terminal")
	}
	failed := &VideoJob{Status: JobStatusFailed}
	if !failed.Terminal() {
		t.Fatal("failed job not terminal")
	}
}
