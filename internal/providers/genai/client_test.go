package genai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"server/internal/domain"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Options{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)
	return client, srv
}

func textResponse(text string) geminiGenerateContentResponse {
	return geminiGenerateContentResponse{
		Candidates: []geminiCandidate{{
			Content: geminiContent{Parts: []geminiPart{{Text: text}}},
		}},
	}
}

func audioBlob() *domain.MediaBlob {
	return &domain.MediaBlob{Data: []byte("fake-audio"), MimeType: "audio/mpeg", Filename: "song.mp3"}
}

func TestUnconfiguredClientFailsFast(t *testing.T) {
	var hits atomic.Int64
	client, _ := func() (*Client, *httptest.Server) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
		}))
		t.Cleanup(srv.Close)
		c, err := NewClient(Options{BaseURL: srv.URL, Logger: zerolog.Nop()})
		require.NoError(t, err)
		return c, srv
	}()

	ctx := context.Background()
	_, err := client.AnalyzeAudio(ctx, audioBlob())
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
	_, _, err = client.EditImage(ctx, audioBlob(), "prompt")
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
	_, err = client.SubmitVideoJob(ctx, domain.VideoSubmission{Prompt: "p"})
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
	_, err = client.GenerateLogo(ctx)
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
	_, err = client.FetchResultBytes(ctx, "https://example.com/v.mp4")
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)

	assert.Zero(t, hits.Load(), "no network attempt may happen without a key")
	assert.False(t, client.Configured())
}

func TestAnalyzeAudio(t *testing.T) {
	payload := `{"bpm": 127.6, "chords": ["Am", "F", "C", "G"], "key": "A Minor", "structure": [{"part": "verse", "start": 0, "end": 30}, {"part": "chorus", "start": 30, "end": 60}]}`

	var gotPath string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req geminiGenerateContentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		require.Len(t, req.Contents[0].Parts, 2)
		assert.NotNil(t, req.Contents[0].Parts[0].InlineData)
		assert.Equal(t, analysisPrompt, req.Contents[0].Parts[1].Text)
		require.NotNil(t, req.GenerationConfig)
		assert.Equal(t, "application/json", req.GenerationConfig.ResponseMimeType)

		_ = json.NewEncoder(w).Encode(textResponse(payload))
	}))

	result, err := client.AnalyzeAudio(context.Background(), audioBlob())
	require.NoError(t, err)
	assert.Equal(t, "/models/gemini-2.5-flash:generateContent", gotPath)
	assert.InDelta(t, 127.6, result.BPM, 0.001)
	assert.Equal(t, 128, result.RoundedBPM())
	assert.Equal(t, "A Minor", result.Key)
	assert.Len(t, result.Structure, 2)
}

func TestAnalyzeAudioStrictness(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"not json", "sorry, I cannot help with that"},
		{"missing bpm", `{"chords": ["C"], "key": "C Major"}`},
		{"missing chords", `{"bpm": 120, "key": "C Major"}`},
		{"missing key", `{"bpm": 120, "chords": ["C"]}`},
		{"non-positive bpm", `{"bpm": 0, "chords": ["C"], "key": "C Major"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(textResponse(tt.text))
			}))
			_, err := client.AnalyzeAudio(context.Background(), audioBlob())
			assert.ErrorIs(t, err, domain.ErrAnalysis)
		})
	}
}

func TestAnalyzeAudioForVideo(t *testing.T) {
	payload := `{"bpm": 98, "sections": [{"name": "intro", "startTime": 0, "endTime": 12, "mood": "calm"}], "overallMood": "dreamy"}`
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(textResponse(payload))
	}))

	result, err := client.AnalyzeAudioForVideo(context.Background(), audioBlob())
	require.NoError(t, err)
	assert.Equal(t, "dreamy", result.OverallMood)
	require.Len(t, result.Structure, 1)
	assert.Equal(t, "intro", result.Structure[0].Part)
	assert.Equal(t, "calm", result.Structure[0].Mood)
}

func TestEditImage(t *testing.T) {
	edited := []byte("edited-image-bytes")
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-2.5-flash-image-preview:generateContent", r.URL.Path)
		resp := geminiGenerateContentResponse{
			Candidates: []geminiCandidate{{
				Content: geminiContent{Parts: []geminiPart{
					{Text: "Here is your edit."},
					{InlineData: &geminiInlineData{MimeType: "image/png", Data: base64.StdEncoding.EncodeToString(edited)}},
				}},
			}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))

	data, mimeType, err := client.EditImage(context.Background(), &domain.MediaBlob{Data: []byte("img"), MimeType: "image/jpeg"}, "make it pop")
	require.NoError(t, err)
	assert.Equal(t, edited, data)
	assert.Equal(t, "image/png", mimeType)
}

func TestEditImageNoImageReturned(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(textResponse("I refuse to draw that."))
	}))

	_, _, err := client.EditImage(context.Background(), &domain.MediaBlob{Data: []byte("img"), MimeType: "image/png"}, "prompt")
	assert.ErrorIs(t, err, domain.ErrNoImageReturned)
}

func TestGenerateSceneImageAndLogo(t *testing.T) {
	scene := []byte("scene-png")
	var lastPrompt string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/imagen-4.0-generate-001:predict", r.URL.Path)
		var req imagenRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Instances, 1)
		lastPrompt = req.Instances[0].Prompt
		_ = json.NewEncoder(w).Encode(imagenResponse{Predictions: []imagenPrediction{
			{BytesBase64Encoded: base64.StdEncoding.EncodeToString(scene), MimeType: "image/png"},
		}})
	}))

	data, err := client.GenerateSceneImage(context.Background(), "scene one")
	require.NoError(t, err)
	assert.Equal(t, scene, data)
	assert.Equal(t, "scene one", lastPrompt)

	_, err = client.GenerateLogo(context.Background())
	require.NoError(t, err)
	assert.Contains(t, lastPrompt, "AI Music Video Generator")
}

func TestSubmitVideoJob(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/veo-3.0-generate-001:predictLongRunning", r.URL.Path)
		var req videoJobRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Instances, 1)
		assert.NotNil(t, req.Instances[0].Audio)
		assert.Nil(t, req.Instances[0].Image)
		_ = json.NewEncoder(w).Encode(videoOperation{Name: "models/veo-3.0-generate-001/operations/op-42"})
	}))

	job, err := client.SubmitVideoJob(context.Background(), domain.VideoSubmission{
		Prompt: "a video",
		Audio:  audioBlob(),
	})
	require.NoError(t, err)
	assert.Equal(t, "models/veo-3.0-generate-001/operations/op-42", job.ID)
	assert.Equal(t, domain.JobStatusPending, job.Status)
	assert.False(t, job.Terminal())
}

func TestSubmitVideoJobWithScenesUsesAdvancedModel(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/veo-3.1-generate-001:predictLongRunning", r.URL.Path)
		var req videoJobRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Len(t, req.Instances[0].ReferenceImages, 2)
		_ = json.NewEncoder(w).Encode(videoOperation{Name: "models/veo-3.1-generate-001/operations/op-7"})
	}))

	job, err := client.SubmitVideoJob(context.Background(), domain.VideoSubmission{
		Prompt: "an advanced video",
		Scenes: []domain.MediaBlob{
			{Data: []byte("s1"), MimeType: "image/png"},
			{Data: []byte("s2"), MimeType: "image/png"},
		},
		Audio: audioBlob(),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusPending, job.Status)
}

func TestPollVideoJob(t *testing.T) {
	responses := []videoOperation{
		{Name: "op", Done: false},
		{Name: "op", Done: true, Response: &videoOperationResponse{
			GeneratedVideos: []generatedVideo{{Video: videoFile{URI: "https://files.example.com/v.mp4"}}},
		}},
	}

	var calls atomic.Int64
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		idx := calls.Add(1) - 1
		if idx >= int64(len(responses)) {
			idx = int64(len(responses)) - 1
		}
		_ = json.NewEncoder(w).Encode(responses[idx])
	}))

	job := &domain.VideoJob{ID: "models/veo/operations/op", Status: domain.JobStatusPending}

	job, err := client.PollVideoJob(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusPending, job.Status)

	job, err = client.PollVideoJob(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusDone, job.Status)
	assert.Equal(t, "https://files.example.com/v.mp4", job.ResultURI)

	// Terminal jobs short-circuit without another remote check.
	before := calls.Load()
	again, err := client.PollVideoJob(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, job, again)
	assert.Equal(t, before, calls.Load())
}

func TestPollVideoJobDoneWithoutURIFails(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(videoOperation{Name: "op", Done: true})
	}))

	job, err := client.PollVideoJob(context.Background(), &domain.VideoJob{ID: "models/veo/operations/op", Status: domain.JobStatusPending})
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusFailed, job.Status)
	assert.Empty(t, job.ResultURI)
}

func TestFetchResultBytes(t *testing.T) {
	client, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/video.mp4":
			assert.Equal(t, "test-key", r.URL.Query().Get("key"))
			_, _ = w.Write([]byte("mp4-bytes"))
		default:
			http.NotFound(w, r)
		}
	}))

	data, err := client.FetchResultBytes(context.Background(), srv.URL+"/video.mp4")
	require.NoError(t, err)
	assert.Equal(t, []byte("mp4-bytes"), data)

	_, err = client.FetchResultBytes(context.Background(), srv.URL+"/missing.mp4")
	assert.ErrorIs(t, err, domain.ErrDownload)
}

func TestAPIErrorSurfacesMessage(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error": {"code": 400, "message": "prompt blocked"}}`)
	}))

	_, err := client.AnalyzeAudio(context.Background(), audioBlob())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prompt blocked")
}
