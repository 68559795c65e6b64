package domain

import (
	"fmt"
	"math"
	"sort"
)

// Section is one structural part of a song (verse, chorus, bridge, ...).
// Mood is only populated by the video-oriented analysis.
type Section struct {
	Part  string  `json:"part"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Mood  string  `json:"mood,omitempty"`
}

// AnalysisResult is the structured output of audio analysis. It is immutable
// once created and replaced wholesale on re-analysis.
type AnalysisResult struct {
	BPM         float64   `json:"bpm"`
	Chords      []string  `json:"chords"`
	Key         string    `json:"key"`
	Structure   []Section `json:"structure"`
	OverallMood string    `json:"overall_mood,omitempty"`
}

// RoundedBPM is the integer BPM used by every BPM-consuming display. The raw
// value stays available on the struct.
func (a *AnalysisResult) RoundedBPM() int {
	return int(math.Round(a.BPM))
}

// SortedStructure returns the sections ordered by start time without
// mutating the result.
func (a *AnalysisResult) SortedStructure() []Section {
	out := make([]Section, len(a.Structure))
	copy(out, a.Structure)
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// Validate rejects analysis payloads that are unusable downstream: a
// non-positive BPM, inverted segments, or segments overlapping in time order.
func (a *AnalysisResult) Validate() error {
	if a.BPM <= 0 {
		return fmt.Errorf("%w: bpm must be positive", ErrAnalysis)
	}
	sections := a.SortedStructure()
	for i, s := range sections {
		if s.Start >= s.End {
			return fmt.Errorf("%w: section %q has start >= end", ErrAnalysis, s.Part)
		}
		if i > 0 && s.Start < sections[i-1].End {
			return fmt.Errorf("%w: section %q overlaps %q", ErrAnalysis, s.Part, sections[i-1].Part)
		}
	}
	return nil
}

// DefaultAnalysis is the degraded analysis used when the advanced pipeline
// cannot obtain a usable one. A single full-length neutral section keeps the
// scene count at a minimum of one.
func DefaultAnalysis() *AnalysisResult {
	return &AnalysisResult{
		BPM:         120,
		Structure:   []Section{{Part: "full", Start: 0, End: 60, Mood: "neutral"}},
		OverallMood: "neutral",
	}
}
