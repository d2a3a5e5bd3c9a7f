package parser

import (
	"container/heap"
	"context"
	"io"
	"slices"

	"github.com/ccollicutt/catlog/pkg/logcat"
)

// MergedSource combines multiple LogSources into a single stream ordered by
// logcat.Compare (oldest first, untimestamped lines first). Lines that
// compare equal are returned in source order, so merging a buffered dump
// with a newer capture of the same device never reorders ties.
type MergedSource struct {
	sources []LogSource
	heap    *lineHeap
	started bool
}

// NewMergedSource creates a LogSource that merges multiple sources by timestamp.
// Lines are returned in chronological order across all sources.
func NewMergedSource(sources ...LogSource) *MergedSource {
	return &MergedSource{
		sources: sources,
		heap:    &lineHeap{},
	}
}

// Next returns the next line in timestamp order across all sources.
// Returns io.EOF when all sources are exhausted.
func (m *MergedSource) Next(ctx context.Context) (*Line, error) {
	if !m.started {
		m.started = true
		if err := m.initHeap(ctx); err != nil {
			return nil, err
		}
	}

	if m.heap.Len() == 0 {
		return nil, io.EOF
	}

	// Pop the oldest line
	item := heap.Pop(m.heap).(*heapItem)
	line := item.line

	// Refill from the same source
	if nextLine, err := m.sources[item.sourceIdx].Next(ctx); err == nil {
		heap.Push(m.heap, &heapItem{
			line:      nextLine,
			sourceIdx: item.sourceIdx,
		})
	} else if err != io.EOF {
		return nil, err
	}

	return line, nil
}

// initHeap reads the first line from each source to initialize the heap.
func (m *MergedSource) initHeap(ctx context.Context) error {
	heap.Init(m.heap)

	for i, src := range m.sources {
		line, err := src.Next(ctx)
		if err == io.EOF {
			continue // Empty source
		}
		if err != nil {
			return err
		}

		heap.Push(m.heap, &heapItem{
			line:      line,
			sourceIdx: i,
		})
	}

	return nil
}

// Close releases all source resources.
func (m *MergedSource) Close() error {
	m.started = true
	var firstErr error
	for _, src := range m.sources {
		if err := src.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// heapItem wraps a Line with its source index for the priority queue.
type heapItem struct {
	line      *Line
	sourceIdx int
}

// lineHeap implements heap.Interface for timestamp-ordered merging.
type lineHeap []*heapItem

func (h lineHeap) Len() int { return len(h) }

func (h lineHeap) Less(i, j int) bool {
	if c := logcat.Compare(h[i].line.Record, h[j].line.Record); c != 0 {
		return c < 0
	}
	return h[i].sourceIdx < h[j].sourceIdx
}

func (h lineHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *lineHeap) Push(x any) {
	*h = append(*h, x.(*heapItem))
}

func (h *lineHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[0 : n-1]
	return item
}

// SortLines sorts buffered lines in place by logcat.Compare, keeping the
// original relative order of ties.
func SortLines(lines []*Line) {
	slices.SortStableFunc(lines, func(a, b *Line) int {
		return logcat.Compare(a.Record, b.Record)
	})
}
