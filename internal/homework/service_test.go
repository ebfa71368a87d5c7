package homework

import (
	"context"
	"errors"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/AiSchool-Admin/AiSchool-Backend/internal/ai"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/models"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/quota"
)

type fakeQueue struct {
	published []string
}

func (q *fakeQueue) PublishJob(ctx context.Context, jobID string) error {
	_ = ctx
	q.published = append(q.published, jobID)
	return nil
}

type fakeProvider struct {
	output  string
	err     error
	calls   int
	lastReq ai.GenerateRequest
}

func (p *fakeProvider) Generate(ctx context.Context, req ai.GenerateRequest) (string, error) {
	_ = ctx
	p.calls++
	p.lastReq = req
	if p.err != nil {
		return "", p.err
	}
	return p.output, nil
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// one shared in-memory db per test, isolated by name
	db, err := gorm.Open(gormsqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &Job{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, limit int) uint64 {
	t.Helper()
	u := &models.User{Email: "u@example.com", Username: "testuser123", PasswordHash: "x", QuotaLimit: limit}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u.ID
}

func TestSubmit_CreatesPendingAndEnqueues(t *testing.T) {
	db := openTestDB(t)
	queue := &fakeQueue{}
	svc := NewService(NewRepo(db), quota.NewLedger(db), queue, 1)
	uid := seedUser(t, db, 10)

	job, err := svc.Submit(context.Background(), uid, "aW1hZ2U=", "image/png", "page 3, exercise 2")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if job.Status != JobPending {
		t.Fatalf("expected pending, got %s", job.Status)
	}
	if len(queue.published) != 1 || queue.published[0] != job.ID {
		t.Fatalf("expected job id on the queue, got %v", queue.published)
	}

	// submission alone does not consume quota
	var u models.User
	if err := db.First(&u, uid).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if u.QuotaUsed != 0 {
		t.Fatalf("expected quota_used=0 after submit, got %d", u.QuotaUsed)
	}
}

func TestSubmit_Validation(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(NewRepo(db), quota.NewLedger(db), &fakeQueue{}, 1)
	uid := seedUser(t, db, 10)

	if _, err := svc.Submit(context.Background(), uid, "", "image/png", ""); !errors.Is(err, ErrMissingImage) {
		t.Fatalf("expected ErrMissingImage, got %v", err)
	}
}

func TestSubmit_QuotaExceeded(t *testing.T) {
	db := openTestDB(t)
	queue := &fakeQueue{}
	svc := NewService(NewRepo(db), quota.NewLedger(db), queue, 1)
	uid := seedUser(t, db, 0)

	_, err := svc.Submit(context.Background(), uid, "aW1hZ2U=", "image/png", "")
	if !errors.Is(err, quota.ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
	if len(queue.published) != 0 {
		t.Fatalf("nothing may be enqueued past quota")
	}
}

func TestStatus_ScopedToOwner(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(NewRepo(db), quota.NewLedger(db), &fakeQueue{}, 1)
	uid := seedUser(t, db, 10)

	job, err := svc.Submit(context.Background(), uid, "aW1hZ2U=", "image/png", "")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := svc.Status(context.Background(), uid, job.ID); err != nil {
		t.Fatalf("owner poll: %v", err)
	}
	// other users see not-found, not forbidden
	if _, err := svc.Status(context.Background(), uid+1, job.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record-not-found for other user, got %v", err)
	}
}
