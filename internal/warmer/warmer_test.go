package warmer

import (
	"context"
	"errors"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/AiSchool-Admin/AiSchool-Backend/internal/ai"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/cache"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/models"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/popularity"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/skill"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/tutor"
)

type fakeProvider struct {
	output   string
	calls    int
	failNext int // fail this many leading calls
}

func (p *fakeProvider) Generate(ctx context.Context, req ai.GenerateRequest) (string, error) {
	_ = ctx
	p.calls++
	if p.failNext > 0 {
		p.failNext--
		return "", ai.NewProviderError("fake", errors.New("boom"))
	}
	return p.output, nil
}

const lessonOutput = "Warm explanation.\nKEYWORDS: alpha, beta"

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// one shared in-memory db per test, isolated by name
	db, err := gorm.Open(gormsqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Lesson{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedLesson(t *testing.T, db *gorm.DB, title string) *models.Lesson {
	t.Helper()
	l := &models.Lesson{Unit: "math", Title: title, Summary: "summary"}
	if err := db.Create(l).Error; err != nil {
		t.Fatalf("seed lesson: %v", err)
	}
	return l
}

func TestTopLessons_RanksByCountDescending(t *testing.T) {
	counts := []popularity.LessonCount{
		{LessonID: 1, Count: 5}, // lessonA
		{LessonID: 2, Count: 9}, // lessonB
		{LessonID: 3, Count: 2}, // lessonC
	}
	top := TopLessons(counts, 2)
	if len(top) != 2 || top[0].LessonID != 2 || top[1].LessonID != 1 {
		t.Fatalf("expected [B, A], got %+v", top)
	}
}

func TestTopLessons_TiesKeepSourceOrder(t *testing.T) {
	counts := []popularity.LessonCount{
		{LessonID: 1, Count: 4},
		{LessonID: 2, Count: 4},
		{LessonID: 3, Count: 4},
	}
	top := TopLessons(counts, 3)
	for i, want := range []uint64{1, 2, 3} {
		if top[i].LessonID != want {
			t.Fatalf("tie order broken at %d: %+v", i, top)
		}
	}
}

func TestRun_FillsAllTiersWithWarmTTL(t *testing.T) {
	db := openTestDB(t)
	lesson := seedLesson(t, db, "Fractions")
	mem := cache.NewMemory()
	pop := popularity.NewMemory()
	prov := &fakeProvider{output: lessonOutput}
	ctx := context.Background()

	_ = pop.Incr(ctx, lesson.ID)

	w := New(tutor.NewRepo(db), mem, pop, prov, 10, 24*time.Hour, 1024)
	if err := w.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}

	if prov.calls != 3 {
		t.Fatalf("expected one generation per tier, got %d", prov.calls)
	}
	for _, tier := range skill.AllTiers() {
		if _, hit, _ := mem.Get(ctx, cache.Key("lesson", lesson.ID, string(tier))); !hit {
			t.Fatalf("tier %s not warmed", tier)
		}
	}
}

func TestRun_SkipsStillValidEntries(t *testing.T) {
	db := openTestDB(t)
	lesson := seedLesson(t, db, "Fractions")
	mem := cache.NewMemory()
	pop := popularity.NewMemory()
	prov := &fakeProvider{output: lessonOutput}
	ctx := context.Background()

	_ = pop.Incr(ctx, lesson.ID)

	w := New(tutor.NewRepo(db), mem, pop, prov, 10, 24*time.Hour, 1024)
	if err := w.Run(ctx); err != nil {
		t.Fatalf("first run: %v", err)
	}
	callsAfterFirst := prov.calls

	// second run with no new popularity data: nothing to do
	if err := w.Run(ctx); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if prov.calls != callsAfterFirst {
		t.Fatalf("second run regenerated warm entries: %d -> %d", callsAfterFirst, prov.calls)
	}
}

func TestRun_PartialFailureContinuesSweep(t *testing.T) {
	db := openTestDB(t)
	lesson := seedLesson(t, db, "Fractions")
	mem := cache.NewMemory()
	pop := popularity.NewMemory()
	// first tier fails, the remaining two are still warmed
	prov := &fakeProvider{output: lessonOutput, failNext: 1}
	ctx := context.Background()

	_ = pop.Incr(ctx, lesson.ID)

	w := New(tutor.NewRepo(db), mem, pop, prov, 10, 24*time.Hour, 1024)
	if err := w.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}

	if _, hit, _ := mem.Get(ctx, cache.Key("lesson", lesson.ID, string(skill.TierLow))); hit {
		t.Fatalf("failed combination must stay cold")
	}
	for _, tier := range []skill.Tier{skill.TierMedium, skill.TierHigh} {
		if _, hit, _ := mem.Get(ctx, cache.Key("lesson", lesson.ID, string(tier))); !hit {
			t.Fatalf("tier %s should be warmed despite earlier failure", tier)
		}
	}
}

func TestRun_HonorsTopN(t *testing.T) {
	db := openTestDB(t)
	hot := seedLesson(t, db, "Hot")
	cold := seedLesson(t, db, "Cold")
	mem := cache.NewMemory()
	pop := popularity.NewMemory()
	prov := &fakeProvider{output: lessonOutput}
	ctx := context.Background()

	_ = pop.Incr(ctx, hot.ID)
	_ = pop.Incr(ctx, hot.ID)
	_ = pop.Incr(ctx, cold.ID)

	w := New(tutor.NewRepo(db), mem, pop, prov, 1, 24*time.Hour, 1024)
	if err := w.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}

	if _, hit, _ := mem.Get(ctx, cache.Key("lesson", hot.ID, string(skill.TierLow))); !hit {
		t.Fatalf("top lesson not warmed")
	}
	if _, hit, _ := mem.Get(ctx, cache.Key("lesson", cold.ID, string(skill.TierLow))); hit {
		t.Fatalf("lesson outside top-N must not be warmed")
	}
}
