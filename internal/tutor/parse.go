package tutor

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/AiSchool-Admin/AiSchool-Backend/internal/ai"
)

// ErrMalformedOutput marks generation output that violates the expected
// structure. It is always surfaced wrapped in an ai.ProviderError: to
// callers, a model that cannot follow the contract is a failed provider.
var ErrMalformedOutput = errors.New("malformed generation output")

const keywordsMarker = "KEYWORDS:"

// ParseLessonOutput enforces the lesson output contract: the body of the
// explanation followed by a final KEYWORDS: line. A missing marker or an
// empty keyword list is a hard parse error, never best-effort salvage.
func ParseLessonOutput(raw string) (*LessonContent, error) {
	idx := strings.LastIndex(raw, keywordsMarker)
	if idx < 0 {
		return nil, ai.NewProviderError("tutor", fmt.Errorf("%w: missing %s line", ErrMalformedOutput, keywordsMarker))
	}

	content := strings.TrimSpace(raw[:idx])
	tail := strings.TrimSpace(raw[idx+len(keywordsMarker):])
	if content == "" || tail == "" {
		return nil, ai.NewProviderError("tutor", fmt.Errorf("%w: empty content or keywords", ErrMalformedOutput))
	}

	parts := strings.Split(tail, ",")
	keywords := make([]string, 0, len(parts))
	for _, p := range parts {
		if kw := strings.TrimSpace(p); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	if len(keywords) == 0 {
		return nil, ai.NewProviderError("tutor", fmt.Errorf("%w: empty keyword list", ErrMalformedOutput))
	}

	return &LessonContent{Content: content, Keywords: keywords}, nil
}

// ParseQuizOutput requires a bare JSON array of questions.
func ParseQuizOutput(raw string) ([]QuizQuestion, error) {
	var questions []QuizQuestion
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &questions); err != nil {
		return nil, ai.NewProviderError("tutor", fmt.Errorf("%w: %v", ErrMalformedOutput, err))
	}
	if len(questions) == 0 {
		return nil, ai.NewProviderError("tutor", fmt.Errorf("%w: empty quiz", ErrMalformedOutput))
	}
	for _, q := range questions {
		if q.Question == "" || q.Answer == "" {
			return nil, ai.NewProviderError("tutor", fmt.Errorf("%w: question or answer missing", ErrMalformedOutput))
		}
	}
	return questions, nil
}
