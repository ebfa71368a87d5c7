package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemory_TTLExpiry(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	now := time.Now()
	m.now = func() time.Time { return now }

	if err := m.Put(ctx, "lesson:1:low", "v", time.Hour); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, hit, _ := m.Get(ctx, "lesson:1:low"); !hit {
		t.Fatalf("expected hit before expiry")
	}

	now = now.Add(time.Hour + time.Second)
	if _, hit, _ := m.Get(ctx, "lesson:1:low"); hit {
		t.Fatalf("expected miss after expiry")
	}
}

func TestMemory_Invalidate(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_ = m.Put(ctx, "quiz:1:high", "v", time.Hour)
	_ = m.Invalidate(ctx, "quiz:1:high")
	if _, hit, _ := m.Get(ctx, "quiz:1:high"); hit {
		t.Fatalf("expected miss after invalidate")
	}
}

func TestKey(t *testing.T) {
	if got := Key("lesson", 42, "medium"); got != "lesson:42:medium" {
		t.Fatalf("unexpected key: %s", got)
	}
}

func TestNoop_AlwaysMissesAlwaysSucceeds(t *testing.T) {
	var n Noop
	ctx := context.Background()

	if err := n.Put(ctx, "k", "v", time.Hour); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, hit, err := n.Get(ctx, "k"); hit || err != nil {
		t.Fatalf("noop must miss without error: hit=%v err=%v", hit, err)
	}
	if err := n.Invalidate(ctx, "k"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
}
