package domain

import "fmt"

// Mode selects which generation path the orchestrator runs.
type Mode string

const (
	ModeEditImage     Mode = "edit_image"
	ModeVideo         Mode = "video"
	ModeAdvancedVideo Mode = "advanced_video"
)

// Style enumerates the supported visual styles.
type Style string

const (
	StyleCinematic       Style = "cinematic"
	StyleStreetArt       Style = "street-art-graffiti"
	StyleVHSCamcorder    Style = "90s-vhs-camcorder"
	StyleGoldAndBling    Style = "gold-and-bling"
	StyleVintageFilm     Style = "vintage-film"
	StyleAnimatedDoodles Style = "animated-doodles"
	StyleSurreal         Style = "surreal"
	StyleAnime           Style = "anime"
)

var validStyles = map[Style]struct{}{
	StyleCinematic:       {},
	StyleStreetArt:       {},
	StyleVHSCamcorder:    {},
	StyleGoldAndBling:    {},
	StyleVintageFilm:     {},
	StyleAnimatedDoodles: {},
	StyleSurreal:         {},
	StyleAnime:           {},
}

// Resolution enumerates the supported output resolutions.
type Resolution string

const (
	Resolution720p  Resolution = "720p"
	Resolution1080p Resolution = "1080p"
)

// VideoType selects between purely visual videos and lyric videos.
type VideoType string

const (
	VideoTypeVisual VideoType = "visual"
	VideoTypeLyrics VideoType = "lyrics"
)

// LyricStyle carries the text styling directives for lyric videos.
type LyricStyle struct {
	FontFamily     string
	FontSize       int
	FontColor      string
	AnimationStyle string
}

// DefaultLyricStyle returns the styling applied when a lyrics request leaves
// the fields unset.
func DefaultLyricStyle() LyricStyle {
	return LyricStyle{
		FontFamily:     "Arial",
		FontSize:       24,
		FontColor:      "#FFFFFF",
		AnimationStyle: "fade",
	}
}

// MediaBlob is an in-memory copy of a user-supplied media file. It is owned
// by the request that created it and never mutated.
type MediaBlob struct {
	Data     []byte
	MimeType string
	Filename string
}

const maxPromptLength = 1000

// GenerationRequest is constructed fresh from the form state each time a
// generation is triggered. Nothing is persisted across requests.
type GenerationRequest struct {
	Mode       Mode
	Prompt     string
	Style      Style
	Resolution Resolution
	VideoType  VideoType
	Lyrics     string
	LyricStyle LyricStyle
	Audio      *MediaBlob
	Image      *MediaBlob
}

// Validate enforces the request invariants before any remote call is made.
func (r *GenerationRequest) Validate() error {
	if r.Audio == nil && r.Image == nil {
		return fmt.Errorf("%w: an audio or image file is required", ErrValidation)
	}
	if len(r.Prompt) > maxPromptLength {
		return fmt.Errorf("%w: prompt exceeds %d characters", ErrValidation, maxPromptLength)
	}
	if _, ok := validStyles[r.Style]; !ok {
		return fmt.Errorf("%w: unknown style %q", ErrValidation, r.Style)
	}
	if r.Resolution != Resolution720p && r.Resolution != Resolution1080p {
		return fmt.Errorf("%w: unknown resolution %q", ErrValidation, r.Resolution)
	}
	if r.Mode == ModeEditImage {
		if r.Image == nil {
			return fmt.Errorf("%w: image editing requires an image", ErrValidation)
		}
		if r.Audio != nil {
			return fmt.Errorf("%w: image editing does not accept audio", ErrValidation)
		}
	}
	if r.Audio != nil && r.VideoType == VideoTypeLyrics && r.Lyrics == "" {
		return fmt.Errorf("%w: lyrics are required for a lyrics video", ErrValidation)
	}
	return nil
}
