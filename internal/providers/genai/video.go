package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"server/internal/domain"
)

type videoJobRequest struct {
	Instances  []videoInstance  `json:"instances"`
	Parameters *videoParameters `json:"parameters,omitempty"`
}

type videoInstance struct {
	Prompt          string             `json:"prompt"`
	Image           *geminiInlineData  `json:"image,omitempty"`
	ReferenceImages []geminiInlineData `json:"referenceImages,omitempty"`
	Audio           *geminiInlineData  `json:"audio,omitempty"`
}

type videoParameters struct {
	NumberOfVideos int `json:"numberOfVideos,omitempty"`
}

type videoOperation struct {
	Name     string                  `json:"name"`
	Done     bool                    `json:"done"`
	Response *videoOperationResponse `json:"response,omitempty"`
	Error    *videoOperationError    `json:"error,omitempty"`
}

type videoOperationResponse struct {
	GeneratedVideos []generatedVideo `json:"generatedVideos"`
}

type generatedVideo struct {
	Video videoFile `json:"video"`
}

type videoFile struct {
	URI string `json:"uri"`
}

type videoOperationError struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// SubmitVideoJob starts an asynchronous video generation and returns the job
// handle in the pending state. The job is never pre-resolved; callers must
// poll it to a terminal state.
func (c *Client) SubmitVideoJob(ctx context.Context, sub domain.VideoSubmission) (*domain.VideoJob, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	instance := videoInstance{Prompt: sub.Prompt}
	if sub.Image != nil {
		instance.Image = &geminiInlineData{MimeType: sub.Image.MimeType, Data: encodeBase64(sub.Image.Data)}
	}
	for _, scene := range sub.Scenes {
		instance.ReferenceImages = append(instance.ReferenceImages, geminiInlineData{
			MimeType: scene.MimeType,
			Data:     encodeBase64(scene.Data),
		})
	}
	if sub.Audio != nil {
		instance.Audio = &geminiInlineData{MimeType: sub.Audio.MimeType, Data: encodeBase64(sub.Audio.Data)}
	}

	model := c.videoModel
	if len(sub.Scenes) > 0 {
		model = c.advancedVideoModel
	}

	payload := videoJobRequest{
		Instances:  []videoInstance{instance},
		Parameters: &videoParameters{NumberOfVideos: 1},
	}

	var op videoOperation
	if err := c.invoke(ctx, fmt.Sprintf("/models/%s:predictLongRunning", url.PathEscape(model)), payload, &op); err != nil {
		return nil, err
	}
	if op.Name == "" {
		return nil, fmt.Errorf("video submission returned no operation name")
	}

	c.logger.Info().Str("model", model).Str("operation", op.Name).Msg("genai: video job submitted")
	return &domain.VideoJob{ID: op.Name, Status: domain.JobStatusPending}, nil
}

// PollVideoJob performs a single status check. It is idempotent: a job that
// is already terminal is returned as-is without touching the network. A done
// operation without a result URI maps to the failed state.
func (c *Client) PollVideoJob(ctx context.Context, job *domain.VideoJob) (*domain.VideoJob, error) {
	if job.Terminal() {
		return job, nil
	}
	if err := c.ready(); err != nil {
		return nil, err
	}

	res, err := c.roundTrip(ctx, http.MethodGet, c.baseURL+"/"+strings.TrimLeft(job.ID, "/"), nil)
	if err != nil {
		return nil, err
	}
	if res.status >= http.StatusBadRequest {
		return nil, apiError(res)
	}

	var op videoOperation
	if err := json.Unmarshal(res.body, &op); err != nil {
		return nil, fmt.Errorf("decode operation status: %w", err)
	}

	updated := &domain.VideoJob{ID: job.ID, Status: domain.JobStatusPending}
	if op.Done {
		uri := ""
		if op.Response != nil && len(op.Response.GeneratedVideos) > 0 {
			uri = op.Response.GeneratedVideos[0].Video.URI
		}
		if uri != "" {
			updated.Status = domain.JobStatusDone
			updated.ResultURI = uri
		} else {
			updated.Status = domain.JobStatusFailed
		}
	}
	return updated, nil
}

// FetchResultBytes downloads the finished artifact from the result URI.
func (c *Client) FetchResultBytes(ctx context.Context, resultURI string) ([]byte, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	res, err := c.roundTrip(ctx, http.MethodGet, resultURI, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDownload, err)
	}
	if res.status >= http.StatusBadRequest {
		return nil, fmt.Errorf("%w: status %d", domain.ErrDownload, res.status)
	}
	return res.body, nil
}
