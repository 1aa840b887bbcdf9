package textutil

import (
	"math"
	"testing"
)

func TestCosineSimilarityNil(t *testing.T) {
	tests := []struct {
		name string
		a    *Fingerprint
		b    *Fingerprint
	}{
		{"both nil", nil, nil},
		{"a nil", nil, NewFingerprint("the hobbit")},
		{"b nil", NewFingerprint("the hobbit"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CosineSimilarity(tt.a, tt.b); got != 0 {
				t.Errorf("CosineSimilarity() = %v, want 0", got)
			}
		})
	}
}

func TestCosineSimilarityIdenticalAfterFolding(t *testing.T) {
	a := NewFingerprint("Les Misérables")
	b := NewFingerprint("les miserables")
	if got := CosineSimilarity(a, b); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("CosineSimilarity(folded) = %v, want 1.0", got)
	}
}

func TestCosineSimilarityPartialOverlapIsSymmetric(t *testing.T) {
	a := NewFingerprint("The Fellowship of the Ring")
	b := NewFingerprint("The Lord of the Rings: The Fellowship of the Ring")
	ab, ba := CosineSimilarity(a, b), CosineSimilarity(b, a)
	if ab <= 0 || ab >= 1 {
		t.Errorf("expected partial similarity, got %v", ab)
	}
	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("similarity not symmetric: %v vs %v", ab, ba)
	}
}

func TestTokenizeDropsShortTokens(t *testing.T) {
	got := Tokenize("A Tale of Two Cities, vol. 2")
	want := []string{"tale", "two", "cities", "vol"}
	if len(got) != len(want) {
		t.Fatalf("Tokenize() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if NewFingerprint("a b c") != nil {
		t.Error("expected nil fingerprint when every token is short")
	}
	if n := NewFingerprint("dune dune messiah").TokenCount(); n != 2 {
		t.Errorf("TokenCount() = %d, want 2", n)
	}
}

func TestTitlesAgree(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"The Hobbit", "The Hobbit, or There and Back Again", true},
		{"The Hobbit", "Cooking for Beginners", false},
		{"", "Anything", true},
		{"IT", "It", true},
	}
	for _, tt := range tests {
		if got := TitlesAgree(tt.a, tt.b, 0.2); got != tt.want {
			t.Errorf("TitlesAgree(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
