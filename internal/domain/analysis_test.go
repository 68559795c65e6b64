package domain

import (
	"errors"
	"testing"
)

func TestAnalysisResultRoundedBPM(t *testing.T) {
	tests := []struct {
		raw  float64
		want int
	}{
		{119.6, 120},
		{120.4, 120},
		{120.5, 121},
		{90, 90},
	}
	for _, tt := range tests {
		a := &AnalysisResult{BPM: tt.raw}
		if got := a.RoundedBPM(); got != tt.want {
			t.Errorf("RoundedBPM(%v) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestAnalysisResultValidate(t *testing.T) {
	valid := &AnalysisResult{
		BPM:    128,
		Chords: []string{"Am", "F", "C", "G"},
		Key:    "A Minor",
		Structure: []Section{
			{Part: "chorus", Start: 30, End: 60},
			{Part: "verse", Start: 0, End: 30},
		},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid analysis rejected: %v", err)
	}

	overlap := &AnalysisResult{
		BPM: 128,
		Structure: []Section{
			{Part: "verse", Start: 0, End: 35},
			{Part: "chorus", Start: 30, End: 60},
		},
	}
	if err := overlap.Validate(); !errors.Is(err, ErrAnalysis) {
		t.Fatalf("overlapping sections not rejected: %v", err)
	}

	inverted := &AnalysisResult{
		BPM:       128,
		Structure: []Section{{Part: "verse", Start: 20, End: 10}},
	}
	if err := inverted.Validate(); !errors.Is(err, ErrAnalysis) {
		t.Fatalf("inverted section not rejected: %v", err)
	}

	zeroBPM := &AnalysisResult{BPM: 0}
	if err := zeroBPM.Validate(); !errors.Is(err, ErrAnalysis) {
		t.Fatalf("zero bpm not rejected: %v", err)
	}
}

func TestSortedStructureDoesNotMutate(t *testing.T) {
	a := &AnalysisResult{
		BPM: 100,
		Structure: []Section{
			{Part: "chorus", Start: 30, End: 60},
			{Part: "verse", Start: 0, End: 30},
		},
	}
	sorted := a.SortedStructure()
	if sorted[0].Part != "verse" || sorted[1].Part != "chorus" {
		t.Fatalf("sections not sorted by start: %+v", sorted)
	}
	if a.Structure[0].Part != "chorus" {
		t.Fatal("SortedStructure mutated the receiver")
	}
}

func TestDefaultAnalysis(t *testing.T) {
	a := DefaultAnalysis()
	if a.RoundedBPM() != 120 {
		t.Fatalf("default bpm = %d", a.RoundedBPM())
	}
	if len(a.Structure) != 1 || a.Structure[0].Part != "full" {
		t.Fatalf("default structure = %+v", a.Structure)
	}
	if err := a.Validate(); err != nil {
		t.Fatalf("default analysis invalid: %v", err)
	}
}
