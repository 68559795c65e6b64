package orchestrator

import (
	"strings"
	"testing"

	"server/internal/domain"
)

func TestVisualVideoPrompt(t *testing.T) {
	got := visualVideoPrompt(domain.StyleCinematic, domain.Resolution720p, "a cat")
	want := "A cinematic, HD 720p resolution music video of a cat"
	if got != want {
		t.Errorf("visualVideoPrompt = %q, want %q", got, want)
	}

	got = visualVideoPrompt(domain.StyleAnime, domain.Resolution1080p, "a city at night")
	want = "A anime, Full HD 1080p resolution music video of a city at night"
	if got != want {
		t.Errorf("visualVideoPrompt = %q, want %q", got, want)
	}
}

func TestVisualVideoPromptDeterministic(t *testing.T) {
	a := visualVideoPrompt(domain.StyleSurreal, domain.Resolution720p, "dreams")
	b := visualVideoPrompt(domain.StyleSurreal, domain.Resolution720p, "dreams")
	if a != b {
		t.Errorf("identical inputs produced different prompts: %q vs %q", a, b)
	}
}

func TestLyricsVideoPromptCarriesLyricsVerbatim(t *testing.T) {
	req := &domain.GenerationRequest{
		Prompt:     "ocean waves",
		Style:      domain.StyleVintageFilm,
		Resolution: domain.Resolution1080p,
		Lyrics:     "line one\nline two\n  indented line",
		LyricStyle: domain.LyricStyle{
			FontFamily:     "Courier New",
			FontSize:       32,
			FontColor:      "#FFD700",
			AnimationStyle: "bounce",
		},
	}
	got := lyricsVideoPrompt(req)

	if !strings.Contains(got, "Lyrics:\nline one\nline two\n  indented line") {
		t.Errorf("prompt does not carry lyrics verbatim:\n%s", got)
	}
	if !strings.Contains(got, `Create a vintage-film, Full HD 1080p resolution lyrics video.`) {
		t.Errorf("prompt missing style and resolution preamble:\n%s", got)
	}
	if !strings.Contains(got, `The background visuals should be based on this description: "ocean waves".`) {
		t.Errorf("prompt missing description clause:\n%s", got)
	}
	if !strings.Contains(got, "Font Family: Courier New, Font Size: 32px, Font Color: #FFD700, Animation Style: bounce.") {
		t.Errorf("prompt missing styling clause:\n%s", got)
	}
}

func TestScenePrompt(t *testing.T) {
	section := domain.Section{Part: "chorus", Mood: "euphoric"}
	got := scenePrompt(domain.StyleGoldAndBling, "city lights", section, 1, 4)

	want := `Create a visually stunning image for a gold-and-bling style music video. Theme: "city lights". This image represents the "chorus" section with a "euphoric" mood. The visual should match the energy level of this section. Scene 2 of 4.`
	if got != want {
		t.Errorf("scenePrompt = %q, want %q", got, want)
	}
}

func TestAdvancedVideoPromptFormatsBPM(t *testing.T) {
	analysis := &domain.AnalysisResult{BPM: 120, OverallMood: "uplifting"}
	got := advancedVideoPrompt(domain.StyleCinematic, domain.Resolution720p, analysis)

	if !strings.Contains(got, "BPM is 120.") {
		t.Errorf("whole BPM should render without decimals: %q", got)
	}
	if !strings.Contains(got, `The overall mood should match "uplifting".`) {
		t.Errorf("prompt missing mood clause: %q", got)
	}

	analysis.BPM = 127.5
	got = advancedVideoPrompt(domain.StyleCinematic, domain.Resolution720p, analysis)
	if !strings.Contains(got, "BPM is 127.5.") {
		t.Errorf("fractional BPM should keep its fraction: %q", got)
	}
}
