// Package orchestrator sequences the generation workflows: choosing the
// pipeline for a request, driving the capability client through it, and
// reporting coarse progress while it runs.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/poller"
)

// Capability is the surface the orchestrator needs from the generative
// backend. The genai client satisfies it; tests substitute fakes.
type Capability interface {
	AnalyzeAudio(ctx context.Context, audio *domain.MediaBlob) (*domain.AnalysisResult, error)
	AnalyzeAudioForVideo(ctx context.Context, audio *domain.MediaBlob) (*domain.AnalysisResult, error)
	EditImage(ctx context.Context, image *domain.MediaBlob, prompt string) ([]byte, string, error)
	GenerateSceneImage(ctx context.Context, prompt string) ([]byte, error)
	SubmitVideoJob(ctx context.Context, sub domain.VideoSubmission) (*domain.VideoJob, error)
	PollVideoJob(ctx context.Context, job *domain.VideoJob) (*domain.VideoJob, error)
	FetchResultBytes(ctx context.Context, resultURI string) ([]byte, error)
	GenerateLogo(ctx context.Context) ([]byte, error)
}

// Orchestrator owns the single-generation-at-a-time policy. One instance
// serves the whole process.
type Orchestrator struct {
	client  Capability
	poller  *poller.Poller
	tracker *Tracker
	logger  zerolog.Logger
	metrics *infra.Metrics

	busy sync.Mutex

	mu   sync.Mutex
	last *domain.Artifact
}

func New(client Capability, p *poller.Poller, logger zerolog.Logger, metrics *infra.Metrics) *Orchestrator {
	return &Orchestrator{
		client:  client,
		poller:  p,
		tracker: NewTracker(),
		logger:  logger,
		metrics: metrics,
	}
}

// Progress returns the progress snapshot of the in-flight generation, if any.
func (o *Orchestrator) Progress() (domain.ProgressState, bool) {
	return o.tracker.Current()
}

// LastArtifact returns the most recent successful result. A new success
// replaces it wholesale.
func (o *Orchestrator) LastArtifact() *domain.Artifact {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.last
}

// Generate runs the full workflow for one request. Only one generation may be
// in flight at a time; concurrent calls fail fast with domain.ErrBusy. The
// request is validated before any outbound call is made.
func (o *Orchestrator) Generate(ctx context.Context, req *domain.GenerationRequest) (*domain.Artifact, error) {
	if !o.busy.TryLock() {
		return nil, domain.ErrBusy
	}
	defer o.busy.Unlock()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	defer o.tracker.Clear()

	mode := pathFor(req)
	start := time.Now()
	o.logger.Info().Str("mode", string(mode)).Str("style", string(req.Style)).Msg("orchestrator: generation started")

	var (
		artifact *domain.Artifact
		err      error
	)
	switch mode {
	case domain.ModeEditImage:
		artifact, err = o.editImage(ctx, req)
	case domain.ModeAdvancedVideo:
		artifact, err = o.generateAdvancedVideo(ctx, req)
	default:
		artifact, err = o.generateVideo(ctx, req)
	}

	if err != nil {
		o.metrics.RecordGeneration(string(mode), "error", time.Since(start))
		o.logger.Error().Err(err).Str("mode", string(mode)).Msg("orchestrator: generation failed")
		return nil, err
	}

	o.mu.Lock()
	o.last = artifact
	o.mu.Unlock()

	o.metrics.RecordGeneration(string(mode), "success", time.Since(start))
	o.logger.Info().
		Str("mode", string(mode)).
		Str("kind", string(artifact.Kind)).
		Int("bytes", len(artifact.Data)).
		Dur("elapsed", time.Since(start)).
		Msg("orchestrator: generation complete")
	return artifact, nil
}

// Analyze runs the strict musician-toolkit analysis. It shares no state with
// the generation workflow and is not serialized against it.
func (o *Orchestrator) Analyze(ctx context.Context, audio *domain.MediaBlob) (*domain.AnalysisResult, error) {
	result, err := o.client.AnalyzeAudio(ctx, audio)
	if err != nil {
		o.metrics.RecordAnalysis("error")
		return nil, err
	}
	o.metrics.RecordAnalysis("success")
	return result, nil
}

// FetchLogo renders the app logo. A failure here is cosmetic and never
// affects the generation workflow.
func (o *Orchestrator) FetchLogo(ctx context.Context) ([]byte, error) {
	data, err := o.client.GenerateLogo(ctx)
	if err != nil {
		o.metrics.RecordLogoRequest("error")
		o.logger.Warn().Err(err).Msg("orchestrator: logo generation failed")
		return nil, err
	}
	o.metrics.RecordLogoRequest("success")
	return data, nil
}

// pathFor applies the pipeline policy. An image without audio is always an
// edit, regardless of the requested mode; otherwise the advanced flag picks
// between the two video pipelines.
func pathFor(req *domain.GenerationRequest) domain.Mode {
	if req.Image != nil && req.Audio == nil {
		return domain.ModeEditImage
	}
	if req.Mode == domain.ModeAdvancedVideo {
		return domain.ModeAdvancedVideo
	}
	return domain.ModeVideo
}

func (o *Orchestrator) editImage(ctx context.Context, req *domain.GenerationRequest) (*domain.Artifact, error) {
	stop := o.tracker.StartCycling(cycleInterval)
	defer stop()

	data, mimeType, err := o.client.EditImage(ctx, req.Image, req.Prompt)
	if err != nil {
		return nil, &domain.GenerationError{Stage: "edit_image", Err: err}
	}
	return &domain.Artifact{Kind: domain.ArtifactImage, Data: data, MimeType: mimeType}, nil
}

func (o *Orchestrator) generateVideo(ctx context.Context, req *domain.GenerationRequest) (*domain.Artifact, error) {
	stop := o.tracker.StartCycling(cycleInterval)
	defer stop()

	prompt := visualVideoPrompt(req.Style, req.Resolution, req.Prompt)
	if req.VideoType == domain.VideoTypeLyrics {
		prompt = lyricsVideoPrompt(req)
	}

	sub := domain.VideoSubmission{Prompt: prompt, Image: req.Image}
	return o.runVideoJob(ctx, sub)
}

func (o *Orchestrator) generateAdvancedVideo(ctx context.Context, req *domain.GenerationRequest) (*domain.Artifact, error) {
	o.tracker.Set(10, "Analyzing audio...")
	analysis, err := o.client.AnalyzeAudioForVideo(ctx, req.Audio)
	if err != nil {
		o.logger.Warn().Err(err).Msg("orchestrator: audio analysis failed, using default structure")
		analysis = domain.DefaultAnalysis()
	}
	sections := analysis.SortedStructure()
	if len(sections) == 0 {
		fallback := domain.DefaultAnalysis()
		if analysis.BPM > 0 {
			fallback.BPM = analysis.BPM
		}
		if analysis.OverallMood != "" {
			fallback.OverallMood = analysis.OverallMood
		}
		analysis = fallback
		sections = analysis.SortedStructure()
	}

	o.tracker.Set(30, "Generating visual scenes with Imagen model...")
	scenes := make([]domain.MediaBlob, 0, len(sections))
	for i, section := range sections {
		data, err := o.client.GenerateSceneImage(ctx, scenePrompt(req.Style, req.Prompt, section, i, len(sections)))
		if err != nil {
			return nil, &domain.GenerationError{Stage: "generate_scenes", Err: err}
		}
		o.metrics.RecordSceneImage()
		scenes = append(scenes, domain.MediaBlob{Data: data, MimeType: "image/png"})
	}

	o.tracker.Set(70, "Creating music video with Veo model...")
	sub := domain.VideoSubmission{
		Prompt: advancedVideoPrompt(req.Style, req.Resolution, analysis),
		Scenes: scenes,
		Audio:  req.Audio,
	}
	artifact, err := o.runVideoJob(ctx, sub)
	if err != nil {
		return nil, err
	}

	o.tracker.Set(100, "Complete!")
	return artifact, nil
}

// runVideoJob is the shared submit, poll, fetch tail of both video pipelines.
func (o *Orchestrator) runVideoJob(ctx context.Context, sub domain.VideoSubmission) (*domain.Artifact, error) {
	job, err := o.client.SubmitVideoJob(ctx, sub)
	if err != nil {
		return nil, &domain.GenerationError{Stage: "submit_video", Err: err}
	}

	job, err = o.poller.Wait(ctx, job, func(ctx context.Context, job *domain.VideoJob) (*domain.VideoJob, error) {
		o.metrics.RecordPollCheck()
		return o.client.PollVideoJob(ctx, job)
	})
	if err != nil {
		return nil, &domain.GenerationError{Stage: "poll_video", Err: err}
	}
	if job.Status != domain.JobStatusDone {
		return nil, &domain.GenerationError{Stage: "poll_video", Err: fmt.Errorf("video job %s failed without a result", job.ID)}
	}

	data, err := o.client.FetchResultBytes(ctx, job.ResultURI)
	if err != nil {
		return nil, &domain.GenerationError{Stage: "fetch_result", Err: err}
	}
	return &domain.Artifact{Kind: domain.ArtifactVideo, Data: data, MimeType: "video/mp4"}, nil
}
