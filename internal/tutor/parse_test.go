package tutor

import (
	"errors"
	"testing"

	"github.com/AiSchool-Admin/AiSchool-Backend/internal/ai"
)

func TestParseLessonOutput_Valid(t *testing.T) {
	raw := "Fractions represent parts of a whole.\nA half is written 1/2.\n\nKEYWORDS: fractions, numerator, denominator"
	lc, err := ParseLessonOutput(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if lc.Content != "Fractions represent parts of a whole.\nA half is written 1/2." {
		t.Fatalf("unexpected content: %q", lc.Content)
	}
	if len(lc.Keywords) != 3 || lc.Keywords[0] != "fractions" || lc.Keywords[2] != "denominator" {
		t.Fatalf("unexpected keywords: %v", lc.Keywords)
	}
}

func TestParseLessonOutput_MissingMarkerIsProviderError(t *testing.T) {
	_, err := ParseLessonOutput("an explanation with no keyword line")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !ai.IsProviderError(err) {
		t.Fatalf("malformed output must classify as provider error, got %v", err)
	}
	if !errors.Is(err, ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput, got %v", err)
	}
}

func TestParseLessonOutput_EmptyKeywordList(t *testing.T) {
	for _, raw := range []string{
		"content\nKEYWORDS:",
		"content\nKEYWORDS: , ,",
		"KEYWORDS: a, b", // no content before the marker
	} {
		if _, err := ParseLessonOutput(raw); !errors.Is(err, ErrMalformedOutput) {
			t.Fatalf("raw=%q: expected ErrMalformedOutput, got %v", raw, err)
		}
	}
}

func TestParseQuizOutput_Valid(t *testing.T) {
	raw := `[{"question":"2+2?","options":["3","4","5","6"],"answer":"4"}]`
	qs, err := ParseQuizOutput(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(qs) != 1 || qs[0].Answer != "4" {
		t.Fatalf("unexpected quiz: %+v", qs)
	}
}

func TestParseQuizOutput_Malformed(t *testing.T) {
	for _, raw := range []string{
		"Sure! Here is your quiz: [...]",
		"[]",
		`[{"question":"","options":[],"answer":""}]`,
	} {
		_, err := ParseQuizOutput(raw)
		if err == nil || !errors.Is(err, ErrMalformedOutput) {
			t.Fatalf("raw=%q: expected ErrMalformedOutput, got %v", raw, err)
		}
	}
}
