package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"server/internal/domain"
)

const analysisPrompt = `Analyze this audio file. Determine its BPM (Beats Per Minute), primary chord progression, musical key, and song structure (e.g., verse, chorus, bridge). Respond ONLY with a JSON object containing 'bpm' (as a number), 'chords' (as an array of strings), 'key' (as a string, e.g., "C Major"), and 'structure' (as an array of objects with 'part', 'start', and 'end' time in seconds).`

const videoAnalysisPrompt = `Analyze this audio file for video generation. Determine BPM (beats per minute), sections (verse, chorus, bridge), tempo changes, and overall mood/emotion. Provide detailed information that would help synchronize visual transitions with the music. Respond with a JSON object containing: bpm, sections (array of {name, startTime, endTime, mood}), and overallMood.`

var analysisSchema = map[string]any{
	"type": "OBJECT",
	"properties": map[string]any{
		"bpm":    map[string]any{"type": "NUMBER"},
		"chords": map[string]any{"type": "ARRAY", "items": map[string]any{"type": "STRING"}},
		"key":    map[string]any{"type": "STRING"},
		"structure": map[string]any{
			"type": "ARRAY",
			"items": map[string]any{
				"type": "OBJECT",
				"properties": map[string]any{
					"part":  map[string]any{"type": "STRING"},
					"start": map[string]any{"type": "NUMBER"},
					"end":   map[string]any{"type": "NUMBER"},
				},
			},
		},
	},
}

var videoAnalysisSchema = map[string]any{
	"type": "OBJECT",
	"properties": map[string]any{
		"bpm": map[string]any{"type": "NUMBER"},
		"sections": map[string]any{
			"type": "ARRAY",
			"items": map[string]any{
				"type": "OBJECT",
				"properties": map[string]any{
					"name":      map[string]any{"type": "STRING"},
					"startTime": map[string]any{"type": "NUMBER"},
					"endTime":   map[string]any{"type": "NUMBER"},
					"mood":      map[string]any{"type": "STRING"},
				},
			},
		},
		"overallMood": map[string]any{"type": "STRING"},
	},
}

type analysisPayload struct {
	BPM    *float64 `json:"bpm"`
	Chords []string `json:"chords"`
	Key    string   `json:"key"`
	Structure []struct {
		Part  string  `json:"part"`
		Start float64 `json:"start"`
		End   float64 `json:"end"`
	} `json:"structure"`
}

type videoAnalysisPayload struct {
	BPM      *float64 `json:"bpm"`
	Sections []struct {
		Name      string  `json:"name"`
		StartTime float64 `json:"startTime"`
		EndTime   float64 `json:"endTime"`
		Mood      string  `json:"mood"`
	} `json:"sections"`
	OverallMood string `json:"overallMood"`
}

// AnalyzeAudio sends the audio for musician-toolkit analysis and demands a
// strict JSON response. The response is rejected with domain.ErrAnalysis
// when it is not parseable JSON or misses a required field.
func (c *Client) AnalyzeAudio(ctx context.Context, audio *domain.MediaBlob) (*domain.AnalysisResult, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	raw, err := c.generateJSON(ctx, c.analysisModel, audio, analysisPrompt, analysisSchema)
	if err != nil {
		return nil, err
	}

	var payload analysisPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("%w: response is not valid JSON: %v", domain.ErrAnalysis, err)
	}
	if payload.BPM == nil {
		return nil, fmt.Errorf("%w: response is missing bpm", domain.ErrAnalysis)
	}
	if len(payload.Chords) == 0 {
		return nil, fmt.Errorf("%w: response is missing chords", domain.ErrAnalysis)
	}
	if payload.Key == "" {
		return nil, fmt.Errorf("%w: response is missing key", domain.ErrAnalysis)
	}

	result := &domain.AnalysisResult{
		BPM:    *payload.BPM,
		Chords: payload.Chords,
		Key:    payload.Key,
	}
	for _, s := range payload.Structure {
		result.Structure = append(result.Structure, domain.Section{Part: s.Part, Start: s.Start, End: s.End})
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("model", c.analysisModel).
		Int("bpm", result.RoundedBPM()).
		Str("key", result.Key).
		Int("sections", len(result.Structure)).
		Msg("genai: audio analysis complete")

	return result, nil
}

// AnalyzeAudioForVideo runs the video-oriented analysis used by the advanced
// pipeline: per-section moods plus an overall mood.
func (c *Client) AnalyzeAudioForVideo(ctx context.Context, audio *domain.MediaBlob) (*domain.AnalysisResult, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	raw, err := c.generateJSON(ctx, c.analysisModel, audio, videoAnalysisPrompt, videoAnalysisSchema)
	if err != nil {
		return nil, err
	}

	var payload videoAnalysisPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("%w: response is not valid JSON: %v", domain.ErrAnalysis, err)
	}
	if payload.BPM == nil {
		return nil, fmt.Errorf("%w: response is missing bpm", domain.ErrAnalysis)
	}

	result := &domain.AnalysisResult{
		BPM:         *payload.BPM,
		OverallMood: payload.OverallMood,
	}
	for _, s := range payload.Sections {
		result.Structure = append(result.Structure, domain.Section{
			Part:  s.Name,
			Start: s.StartTime,
			End:   s.EndTime,
			Mood:  s.Mood,
		})
	}
	return result, nil
}

func (c *Client) generateJSON(ctx context.Context, model string, audio *domain.MediaBlob, prompt string, schema map[string]any) (string, error) {
	payload := geminiGenerateContentRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{inlinePart(audio), {Text: prompt}},
		}},
		GenerationConfig: &geminiGenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   schema,
		},
	}

	var response geminiGenerateContentResponse
	if err := c.invoke(ctx, fmt.Sprintf("/models/%s:generateContent", url.PathEscape(model)), payload, &response); err != nil {
		return "", err
	}

	text := firstText(&response)
	if text == "" {
		return "", fmt.Errorf("%w: response contains no text", domain.ErrAnalysis)
	}
	return text, nil
}
