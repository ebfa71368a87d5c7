package tutor

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/AiSchool-Admin/AiSchool-Backend/internal/ai"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/cache"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/popularity"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/quota"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/skill"
)

type LessonContent struct {
	Content  string   `json:"content"`
	Keywords []string `json:"keywords"`
}

type QuizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// Service runs the quota-gated, cache-first generation pipeline:
// quota check -> tier lookup -> cache get -> on miss generate, parse and
// cache -> reserve quota. A cache hit costs nothing and reserves nothing.
type Service struct {
	repo     *Repo
	skills   *skill.Service
	cache    cache.Cache
	pop      popularity.Tracker
	ledger   *quota.Ledger
	provider ai.Provider

	cost       int
	requestTTL time.Duration
	maxTokens  int
}

func NewService(repo *Repo, skills *skill.Service, c cache.Cache, pop popularity.Tracker,
	ledger *quota.Ledger, provider ai.Provider, cost int, requestTTL time.Duration, maxTokens int) *Service {
	if cost <= 0 {
		cost = 1
	}
	if requestTTL <= 0 {
		requestTTL = time.Hour
	}
	return &Service{
		repo:       repo,
		skills:     skills,
		cache:      c,
		pop:        pop,
		ledger:     ledger,
		provider:   provider,
		cost:       cost,
		requestTTL: requestTTL,
		maxTokens:  maxTokens,
	}
}

// ExplainLesson returns tier-shared lesson content for the requesting user.
// The bool result reports whether the content came from the cache.
func (s *Service) ExplainLesson(ctx context.Context, userID, lessonID uint64) (*LessonContent, bool, error) {
	lesson, err := s.repo.GetLesson(ctx, lessonID)
	if err != nil {
		return nil, false, err
	}

	if err := s.ledger.Check(ctx, userID, s.cost); err != nil {
		return nil, false, err
	}

	tier, err := s.skills.TierFor(ctx, userID, lessonID)
	if err != nil {
		return nil, false, err
	}

	// counted on every generation request, hit or miss
	if err := s.pop.Incr(ctx, lessonID); err != nil {
		log.Printf("tutor popularity incr lesson=%d err=%v", lessonID, err)
	}

	key := cache.Key("lesson", lessonID, string(tier))
	if raw, hit, _ := s.cache.Get(ctx, key); hit {
		var lc LessonContent
		if err := json.Unmarshal([]byte(raw), &lc); err == nil {
			return &lc, true, nil
		}
		// unreadable entry: drop it and regenerate
		_ = s.cache.Invalidate(ctx, key)
	}

	raw, err := s.provider.Generate(ctx, ai.GenerateRequest{
		Prompt:          LessonPrompt(lesson, tier),
		MaxOutputTokens: s.maxTokens,
	})
	if err != nil {
		return nil, false, err
	}

	lc, err := ParseLessonOutput(raw)
	if err != nil {
		return nil, false, err
	}

	if b, err := json.Marshal(lc); err == nil {
		_ = s.cache.Put(ctx, key, string(b), s.requestTTL)
	}

	if err := s.ledger.Reserve(ctx, userID, s.cost); err != nil {
		return nil, false, err
	}
	return lc, false, nil
}

// GenerateQuiz is the same pipeline with the quiz output contract.
func (s *Service) GenerateQuiz(ctx context.Context, userID, lessonID uint64, numQuestions int) ([]QuizQuestion, bool, error) {
	if numQuestions <= 0 || numQuestions > 20 {
		numQuestions = 5
	}

	lesson, err := s.repo.GetLesson(ctx, lessonID)
	if err != nil {
		return nil, false, err
	}

	if err := s.ledger.Check(ctx, userID, s.cost); err != nil {
		return nil, false, err
	}

	tier, err := s.skills.TierFor(ctx, userID, lessonID)
	if err != nil {
		return nil, false, err
	}

	if err := s.pop.Incr(ctx, lessonID); err != nil {
		log.Printf("tutor popularity incr lesson=%d err=%v", lessonID, err)
	}

	key := cache.Key("quiz", lessonID, string(tier))
	if raw, hit, _ := s.cache.Get(ctx, key); hit {
		if questions, err := ParseQuizOutput(raw); err == nil {
			return questions, true, nil
		}
		_ = s.cache.Invalidate(ctx, key)
	}

	raw, err := s.provider.Generate(ctx, ai.GenerateRequest{
		Prompt:          QuizPrompt(lesson, tier, numQuestions),
		MaxOutputTokens: s.maxTokens,
	})
	if err != nil {
		return nil, false, err
	}

	questions, err := ParseQuizOutput(raw)
	if err != nil {
		return nil, false, err
	}

	if b, err := json.Marshal(questions); err == nil {
		_ = s.cache.Put(ctx, key, string(b), s.requestTTL)
	}

	if err := s.ledger.Reserve(ctx, userID, s.cost); err != nil {
		return nil, false, err
	}
	return questions, false, nil
}
