package homework

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/AiSchool-Admin/AiSchool-Backend/internal/common"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/quota"
)

var ErrMissingImage = errors.New("homework image is required")

// Enqueuer hands a created job id to the out-of-band runner. The HTTP
// handler never owns the continuation.
type Enqueuer interface {
	PublishJob(ctx context.Context, jobID string) error
}

type Service struct {
	repo    *Repo
	ledger  *quota.Ledger
	queue   Enqueuer
	genCost int
}

func NewService(repo *Repo, ledger *quota.Ledger, queue Enqueuer, genCost int) *Service {
	if genCost <= 0 {
		genCost = 1
	}
	return &Service{repo: repo, ledger: ledger, queue: queue, genCost: genCost}
}

// Submit validates the request, checks quota, durably records a pending job
// and enqueues it. The response carries only the job id; the caller polls.
// Quota is reserved by the runner once generation actually succeeds.
func (s *Service) Submit(ctx context.Context, userID uint64, imageB64, mediaType, note string) (*Job, error) {
	if imageB64 == "" {
		return nil, ErrMissingImage
	}
	if mediaType == "" {
		mediaType = "image/png"
	}

	if err := s.ledger.Check(ctx, userID, s.genCost); err != nil {
		return nil, err
	}

	id, err := common.NewULID()
	if err != nil {
		return nil, err
	}

	job := &Job{
		ID:             id,
		UserID:         userID,
		ImageBase64:    imageB64,
		ImageMediaType: mediaType,
		Note:           note,
		Status:         JobPending,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, err
	}

	if err := s.queue.PublishJob(ctx, job.ID); err != nil {
		return nil, err
	}
	return job, nil
}

// Status returns the job for polling, scoped to its owner. Jobs belonging
// to other users read as not found.
func (s *Service) Status(ctx context.Context, userID uint64, jobID string) (*Job, error) {
	j, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if j.UserID != userID {
		// hide existence
		return nil, gorm.ErrRecordNotFound
	}
	return j, nil
}
