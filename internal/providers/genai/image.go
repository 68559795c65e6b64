package genai

import (
	"context"
	"fmt"
	"net/url"

	"server/internal/domain"
)

const logoPrompt = `A modern, minimalist logo for a music video generator app called 'AI Music Video Generator'. It should elegantly combine a musical note or play button icon with a subtle AI-related element like a neural network pattern or a stylized brain/chip. The logo must be a clean, vector-style graphic suitable for a tech application header. Use a vibrant color palette with gold and electric blue accents on a transparent background. The logo should be enclosed in a circle.`

type imagenRequest struct {
	Instances  []imagenInstance  `json:"instances"`
	Parameters *imagenParameters `json:"parameters,omitempty"`
}

type imagenInstance struct {
	Prompt string `json:"prompt"`
}

type imagenParameters struct {
	SampleCount    int    `json:"sampleCount,omitempty"`
	OutputMimeType string `json:"outputMimeType,omitempty"`
}

type imagenResponse struct {
	Predictions []imagenPrediction `json:"predictions"`
}

type imagenPrediction struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded"`
	MimeType           string `json:"mimeType"`
}

// EditImage sends the image plus a text instruction and returns the edited
// image bytes with their MIME type. When no response part carries image data
// the call fails with domain.ErrNoImageReturned, which is recoverable for
// the user rather than a crash.
func (c *Client) EditImage(ctx context.Context, image *domain.MediaBlob, prompt string) ([]byte, string, error) {
	if err := c.ready(); err != nil {
		return nil, "", err
	}

	payload := geminiGenerateContentRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{inlinePart(image), {Text: prompt}},
		}},
		GenerationConfig: &geminiGenerationConfig{
			ResponseModalities: []string{"IMAGE", "TEXT"},
		},
	}

	var response geminiGenerateContentResponse
	if err := c.invoke(ctx, fmt.Sprintf("/models/%s:generateContent", url.PathEscape(c.imageEditModel)), payload, &response); err != nil {
		return nil, "", err
	}

	for _, candidate := range response.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData == nil || part.InlineData.Data == "" {
				continue
			}
			data, err := decodeBase64(part.InlineData.Data)
			if err != nil {
				return nil, "", fmt.Errorf("decode inline image: %w", err)
			}
			mimeType := part.InlineData.MimeType
			if mimeType == "" {
				mimeType = "image/png"
			}
			return data, mimeType, nil
		}
	}
	return nil, "", domain.ErrNoImageReturned
}

// GenerateSceneImage produces a single still image from a text prompt. The
// advanced pipeline calls this once per structural section, deliberately one
// at a time.
func (c *Client) GenerateSceneImage(ctx context.Context, prompt string) ([]byte, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return c.generateImage(ctx, prompt)
}

// GenerateLogo renders the app logo. It shares nothing with the generation
// workflow; callers treat its failure as cosmetic.
func (c *Client) GenerateLogo(ctx context.Context) ([]byte, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return c.generateImage(ctx, logoPrompt)
}

func (c *Client) generateImage(ctx context.Context, prompt string) ([]byte, error) {
	payload := imagenRequest{
		Instances: []imagenInstance{{Prompt: prompt}},
		Parameters: &imagenParameters{
			SampleCount:    1,
			OutputMimeType: "image/png",
		},
	}

	var response imagenResponse
	if err := c.invoke(ctx, fmt.Sprintf("/models/%s:predict", url.PathEscape(c.imageModel)), payload, &response); err != nil {
		return nil, err
	}
	if len(response.Predictions) == 0 || response.Predictions[0].BytesBase64Encoded == "" {
		return nil, domain.ErrNoImageReturned
	}
	data, err := decodeBase64(response.Predictions[0].BytesBase64Encoded)
	if err != nil {
		return nil, fmt.Errorf("decode generated image: %w", err)
	}
	return data, nil
}
