package domain

// ArtifactKind distinguishes the two artifact families the workflow produces.
type ArtifactKind string

const (
	ArtifactImage ArtifactKind = "image"
	ArtifactVideo ArtifactKind = "video"
)

// Artifact is the single user-visible result of a generation request. A new
// artifact supersedes and replaces the previous one.
type Artifact struct {
	Kind     ArtifactKind
	Data     []byte
	MimeType string
}

// Filename is the suggested download filename callers rely on.
func (a *Artifact) Filename() string {
	if a.Kind == ArtifactVideo {
		return "ai-music-video.mp4"
	}
	return "ai-edited-image.png"
}

// ProgressState is the coarse progress snapshot shown while a request is in
// flight. It is rewritten on a fixed cadence and cleared at termination.
type ProgressState struct {
	Percent int    `json:"percent"`
	Stage   string `json:"stage"`
}
