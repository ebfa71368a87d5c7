// Package popularity counts generation requests per lesson. The counters
// only ever grow and exist solely to rank lessons for proactive warming.
package popularity

import (
	"context"
	"sort"
	"sync"
)

type LessonCount struct {
	LessonID uint64
	Count    int64
}

type Tracker interface {
	// Incr is called once per generation request, cache hit or miss.
	Incr(ctx context.Context, lessonID uint64) error
	// Counts returns all counters ordered by lesson id ascending, so that
	// downstream ranking breaks count ties deterministically.
	Counts(ctx context.Context) ([]LessonCount, error)
}

// Memory is a process-local Tracker used in tests and single-node setups.
type Memory struct {
	mu     sync.Mutex
	counts map[uint64]int64
}

func NewMemory() *Memory {
	return &Memory{counts: make(map[uint64]int64)}
}

func (m *Memory) Incr(ctx context.Context, lessonID uint64) error {
	m.mu.Lock()
	m.counts[lessonID]++
	m.mu.Unlock()
	return nil
}

func (m *Memory) Counts(ctx context.Context) ([]LessonCount, error) {
	m.mu.Lock()
	out := make([]LessonCount, 0, len(m.counts))
	for id, n := range m.counts {
		out = append(out, LessonCount{LessonID: id, Count: n})
	}
	m.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].LessonID < out[j].LessonID })
	return out, nil
}
