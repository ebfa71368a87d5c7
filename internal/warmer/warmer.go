// Package warmer pre-fills the content cache for the most requested lessons
// ahead of demand. It runs off a daily external trigger (cmd/warmer under
// cron) and never runs inside a request.
package warmer

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"time"

	"github.com/AiSchool-Admin/AiSchool-Backend/internal/ai"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/cache"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/popularity"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/skill"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/tutor"
)

type Warmer struct {
	lessons  *tutor.Repo
	cache    cache.Cache
	pop      popularity.Tracker
	provider ai.Provider

	topN      int
	warmTTL   time.Duration
	maxTokens int
}

func New(lessons *tutor.Repo, c cache.Cache, pop popularity.Tracker, provider ai.Provider,
	topN int, warmTTL time.Duration, maxTokens int) *Warmer {
	if topN <= 0 {
		topN = 10
	}
	if warmTTL <= 0 {
		warmTTL = 24 * time.Hour
	}
	return &Warmer{
		lessons:   lessons,
		cache:     c,
		pop:       pop,
		provider:  provider,
		topN:      topN,
		warmTTL:   warmTTL,
		maxTokens: maxTokens,
	}
}

// TopLessons ranks counters by count descending. The stable sort keeps the
// tracker's order (lesson id ascending) for equal counts.
func TopLessons(counts []popularity.LessonCount, n int) []popularity.LessonCount {
	ranked := append([]popularity.LessonCount(nil), counts...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Run performs one warming sweep. A failure on one (lesson, tier)
// combination is logged and skipped; the sweep always finishes the batch.
// Entries that are still valid are left untouched, so back-to-back runs
// with no new popularity data do nothing.
func (w *Warmer) Run(ctx context.Context) error {
	counts, err := w.pop.Counts(ctx)
	if err != nil {
		return err
	}

	top := TopLessons(counts, w.topN)
	log.Printf("warmer sweep start lessons=%d", len(top))

	var warmed, skipped, failed int
	for _, lc := range top {
		lesson, err := w.lessons.GetLesson(ctx, lc.LessonID)
		if err != nil {
			log.Printf("warmer lesson=%d lookup err=%v", lc.LessonID, err)
			failed++
			continue
		}

		for _, tier := range skill.AllTiers() {
			key := cache.Key("lesson", lesson.ID, string(tier))
			if _, hit, _ := w.cache.Get(ctx, key); hit {
				skipped++
				continue
			}

			raw, err := w.provider.Generate(ctx, ai.GenerateRequest{
				Prompt:          tutor.LessonPrompt(lesson, tier),
				MaxOutputTokens: w.maxTokens,
			})
			if err != nil {
				log.Printf("warmer lesson=%d tier=%s generate err=%v", lesson.ID, tier, err)
				failed++
				continue
			}

			content, err := tutor.ParseLessonOutput(raw)
			if err != nil {
				log.Printf("warmer lesson=%d tier=%s parse err=%v", lesson.ID, tier, err)
				failed++
				continue
			}

			b, err := json.Marshal(content)
			if err != nil {
				failed++
				continue
			}
			if err := w.cache.Put(ctx, key, string(b), w.warmTTL); err != nil {
				log.Printf("warmer lesson=%d tier=%s cache put err=%v", lesson.ID, tier, err)
				failed++
				continue
			}
			warmed++
		}
	}

	log.Printf("warmer sweep done warmed=%d skipped=%d failed=%d", warmed, skipped, failed)
	return nil
}
