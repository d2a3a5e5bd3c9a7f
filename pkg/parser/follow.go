package parser

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/ccollicutt/catlog/pkg/logcat"
)

// DefaultPollInterval is how often a Follower rescans its file when no
// filesystem event arrives.
const DefaultPollInterval = time.Second

// Follower emits records for lines appended to a logcat dump file, as
// written by `adb logcat -f` or a shell redirect. Truncation and
// recreation of the file restart reading from the beginning.
type Follower struct {
	path         string
	opts         options
	pollInterval time.Duration

	offset  int64
	partial string
	lineNum int
}

// NewFollower creates a Follower for path.
func NewFollower(path string, pollInterval time.Duration, opts ...Option) *Follower {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &Follower{
		path:         filepath.Clean(path),
		opts:         buildOptions(opts),
		pollInterval: pollInterval,
	}
}

// Run reads the existing content of the file and then every appended line,
// calling fn for each one, until ctx is done or fn returns an error.
// It returns ctx.Err() on cancellation.
func (f *Follower) Run(ctx context.Context, fn func(*Line) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory so a recreated file is noticed.
	if err := watcher.Add(filepath.Dir(f.path)); err != nil {
		return fmt.Errorf("watching %s: %w", f.path, err)
	}

	if err := f.readNew(fn); err != nil {
		return err
	}

	ticker := time.NewTicker(f.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != f.path {
				continue
			}
			f.opts.logger.Debug("file event", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))

			switch {
			case ev.Has(fsnotify.Create):
				f.reset()
				fallthrough
			case ev.Has(fsnotify.Write):
				if err := f.readNew(fn); err != nil {
					return err
				}
			case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
				f.reset()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			f.opts.logger.Warn("watcher error", zap.String("path", f.path), zap.Error(err))

		case <-ticker.C:
			if err := f.readNew(fn); err != nil {
				return err
			}
		}
	}
}

func (f *Follower) reset() {
	f.offset = 0
	f.partial = ""
	f.lineNum = 0
}

// readNew reads from the last offset to EOF and emits complete lines.
func (f *Follower) readNew(fn func(*Line) error) error {
	file, err := os.Open(f.path) // #nosec G304 -- user-provided paths are expected
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("opening log file %s: %w", f.path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", f.path, err)
	}
	if info.Size() < f.offset {
		f.opts.logger.Info("log file truncated", zap.String("path", f.path))
		f.reset()
	}

	if _, err := file.Seek(f.offset, io.SeekStart); err != nil {
		return fmt.Errorf("seeking %s: %w", f.path, err)
	}

	reader := bufio.NewReader(file)
	for {
		chunk, err := reader.ReadString('\n')
		f.offset += int64(len(chunk))

		if err == io.EOF {
			// Keep an unterminated tail until the writer finishes it.
			f.partial += chunk
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", f.path, err)
		}

		text := strings.TrimRight(f.partial+chunk, "\r\n")
		f.partial = ""
		f.lineNum++

		line := &Line{
			Record:  logcat.Parse(text, f.opts.expanded),
			Source:  f.path,
			LineNum: f.lineNum,
		}
		if err := fn(line); err != nil {
			return err
		}
	}
}
