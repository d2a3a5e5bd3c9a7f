package parser

import (
	"context"
)

// LogSource provides an iterator over parsed logcat lines.
// Implementations must be safe for sequential access (not concurrent).
type LogSource interface {
	// Next returns the next parsed line. Lines that do not match the logcat
	// grammar are returned as Unknown records, never skipped.
	// Returns io.EOF when no more lines are available.
	Next(ctx context.Context) (*Line, error)

	// Close releases any resources held by the source.
	Close() error
}
