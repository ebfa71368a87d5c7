package skill

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/AiSchool-Admin/AiSchool-Backend/internal/cache"
)

var ErrInvalidAssessment = errors.New("invalid assessment result")

type Service struct {
	repo  *Repo
	cache cache.Cache
}

func NewService(repo *Repo, c cache.Cache) *Service {
	return &Service{repo: repo, cache: c}
}

// Update recomputes the mastery score for (user, lesson) from the latest
// assessment. Shared cache entries for the lesson are invalidated only when
// the recomputed tier differs from the previous one; a same-tier update
// leaves still-valid entries in place.
func (s *Service) Update(ctx context.Context, userID, lessonID uint64, score, totalQuestions int) (*Record, error) {
	if totalQuestions <= 0 || score < 0 || score > totalQuestions {
		return nil, fmt.Errorf("%w: score=%d total=%d", ErrInvalidAssessment, score, totalQuestions)
	}

	mastery := float64(score) / float64(totalQuestions)
	newTier := TierForScore(mastery)

	prevTier := TierLow // no record reads as the low tier
	rec, err := s.repo.Get(ctx, userID, lessonID)
	switch {
	case err == nil:
		prevTier = rec.Confidence
		rec.MasteryScore = mastery
		rec.Confidence = newTier
		rec.LastAttempt = time.Now()
		if err := s.repo.Save(ctx, rec); err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		rec = &Record{
			UserID:       userID,
			LessonID:     lessonID,
			MasteryScore: mastery,
			Confidence:   newTier,
			LastAttempt:  time.Now(),
		}
		if err := s.repo.Create(ctx, rec); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if newTier != prevTier {
		for _, kind := range []string{"lesson", "quiz"} {
			_ = s.cache.Invalidate(ctx, cache.Key(kind, lessonID, string(newTier)))
			_ = s.cache.Invalidate(ctx, cache.Key(kind, lessonID, string(prevTier)))
		}
	}

	return rec, nil
}

// TierFor returns the user's current confidence tier for a lesson. Users
// without a record are treated as low.
func (s *Service) TierFor(ctx context.Context, userID, lessonID uint64) (Tier, error) {
	rec, err := s.repo.Get(ctx, userID, lessonID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return TierLow, nil
	}
	if err != nil {
		return TierLow, err
	}
	return rec.Confidence, nil
}
