package homework

import (
	"context"
	"log"

	"github.com/AiSchool-Admin/AiSchool-Backend/internal/ai"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/quota"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/tutor"
)

// Runner processes queued homework jobs. Each job gets exactly one terminal
// transition: completed with a solution or failed with the captured error.
type Runner struct {
	repo      *Repo
	ledger    *quota.Ledger
	provider  ai.Provider
	genCost   int
	maxTokens int
}

func NewRunner(repo *Repo, ledger *quota.Ledger, provider ai.Provider, genCost, maxTokens int) *Runner {
	if genCost <= 0 {
		genCost = 1
	}
	return &Runner{repo: repo, ledger: ledger, provider: provider, genCost: genCost, maxTokens: maxTokens}
}

// Process claims and runs one job. A job already claimed by a previous
// delivery is skipped without error, so broker redeliveries cannot touch a
// processing or terminal row.
func (r *Runner) Process(ctx context.Context, jobID string) error {
	claimed, err := r.repo.MarkProcessing(ctx, jobID)
	if err != nil {
		return err
	}
	if !claimed {
		log.Printf("homework job=%s already claimed, skipping", jobID)
		return nil
	}

	job, err := r.repo.GetByID(ctx, jobID)
	if err != nil {
		return err
	}

	solution, err := r.provider.Generate(ctx, ai.GenerateRequest{
		Prompt:          tutor.HomeworkPrompt(job.Note),
		MaxOutputTokens: r.maxTokens,
		ImageBase64:     job.ImageBase64,
		ImageMediaType:  job.ImageMediaType,
	})
	if err != nil {
		if markErr := r.repo.MarkFailed(ctx, jobID, err.Error()); markErr != nil {
			return markErr
		}
		// the job row carries the failure; the delivery itself succeeded
		return nil
	}

	if err := r.repo.MarkCompleted(ctx, jobID, solution); err != nil {
		return err
	}

	if err := r.ledger.Reserve(ctx, job.UserID, r.genCost); err != nil {
		log.Printf("homework job=%s quota reserve user=%d err=%v", jobID, job.UserID, err)
	}
	return nil
}
