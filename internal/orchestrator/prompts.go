package orchestrator

import (
	"fmt"
	"strconv"

	"server/internal/domain"
)

// Prompt construction is pure and deterministic: identical inputs produce
// byte-identical prompt text.

func resolutionLabel(res domain.Resolution) string {
	if res == domain.Resolution1080p {
		return "Full HD 1080p"
	}
	return "HD 720p"
}

func visualVideoPrompt(style domain.Style, res domain.Resolution, prompt string) string {
	return fmt.Sprintf("A %s, %s resolution music video of %s", style, resolutionLabel(res), prompt)
}

func lyricsVideoPrompt(req *domain.GenerationRequest) string {
	return fmt.Sprintf(`Create a %s, %s resolution lyrics video. The background visuals should be based on this description: "%s". The lyrics should be displayed with the following styling: Font Family: %s, Font Size: %dpx, Font Color: %s, Animation Style: %s.

Lyrics:
%s`,
		req.Style,
		resolutionLabel(req.Resolution),
		req.Prompt,
		req.LyricStyle.FontFamily,
		req.LyricStyle.FontSize,
		req.LyricStyle.FontColor,
		req.LyricStyle.AnimationStyle,
		req.Lyrics,
	)
}

func scenePrompt(style domain.Style, theme string, section domain.Section, index, total int) string {
	return fmt.Sprintf(`Create a visually stunning image for a %s style music video. Theme: "%s". This image represents the "%s" section with a "%s" mood. The visual should match the energy level of this section. Scene %d of %d.`,
		style, theme, section.Part, section.Mood, index+1, total)
}

func advancedVideoPrompt(style domain.Style, res domain.Resolution, analysis *domain.AnalysisResult) string {
	return fmt.Sprintf(`Create a %s style, %s resolution music video using these visual scenes as reference. The video should be synchronized to the provided audio with scene transitions matching the beat and musical sections. The overall mood should match "%s". Visuals should be dynamic and flow smoothly between scenes. BPM is %s.`,
		style, resolutionLabel(res), analysis.OverallMood, strconv.FormatFloat(analysis.BPM, 'f', -1, 64))
}
