// Package detector identifies which logcat output layout a dump was
// captured with.
package detector

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ccollicutt/catlog/pkg/logcat"
)

// DetectionResult holds the result of sampling a logcat dump.
type DetectionResult struct {
	Matches      []LayoutMatch           // Layouts that matched, best first
	SampledLines int                     // Non-empty lines sampled
	Preambles    int                     // Buffer banner lines
	Severities   map[logcat.Severity]int // Levels seen in supported layouts
}

// LayoutMatch is a layout that matched some of the sample.
type LayoutMatch struct {
	Layout     *Layout
	Confidence float64 // fraction of non-preamble sampled lines that matched
	MatchCount int
	SampleLine string
}

// Detector samples lines and scores them against known layouts.
type Detector struct {
	layouts    []*Layout
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of lines to sample (default 100).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// New creates a new Detector with the default layouts.
func New(opts ...Option) *Detector {
	d := &Detector{
		layouts:    DefaultLayouts(),
		sampleSize: 100,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile samples the head of a file and detects its layout.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	lines, err := d.sampleFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return d.DetectFromLines(lines), nil
}

// DetectFromLines detects the layout of the given lines.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	result := &DetectionResult{
		Severities: make(map[logcat.Severity]int),
	}

	counts := make([]int, len(d.layouts))
	samples := make([]string, len(d.layouts))
	content := 0

	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		result.SampledLines++

		if IsPreamble(line) {
			result.Preambles++
			continue
		}
		content++

		if r := logcat.Parse(line, false); r.Parsed() {
			result.Severities[r.Severity]++
		}

		// First matching layout wins; layouts are ordered most specific first.
		for i, layout := range d.layouts {
			if layout.Matches(line) {
				if counts[i] == 0 {
					samples[i] = line
				}
				counts[i]++
				break
			}
		}
	}

	for i, n := range counts {
		if n == 0 {
			continue
		}
		result.Matches = append(result.Matches, LayoutMatch{
			Layout:     d.layouts[i],
			Confidence: float64(n) / float64(content),
			MatchCount: n,
			SampleLine: samples[i],
		})
	}

	sort.SliceStable(result.Matches, func(i, j int) bool {
		return result.Matches[i].MatchCount > result.Matches[j].MatchCount
	})

	return result
}

// sampleFile reads up to sampleSize non-empty lines from the head of a file.
func (d *Detector) sampleFile(_ context.Context, path string) ([]string, error) {
	file, err := os.Open(path) // #nosec G304 -- path is provided by user via CLI
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for len(lines) < d.sampleSize && scanner.Scan() {
		if line := scanner.Text(); strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return lines, nil
}

// BestMatch returns the layout matching the most lines, or nil.
func (r *DetectionResult) BestMatch() *LayoutMatch {
	if len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[0]
}

// HasMatch returns true if at least one layout matched.
func (r *DetectionResult) HasMatch() bool {
	return len(r.Matches) > 0
}

// Supported reports whether the best layout is one catlog fully parses.
func (r *DetectionResult) Supported() bool {
	best := r.BestMatch()
	return best != nil && best.Layout.Supported
}
