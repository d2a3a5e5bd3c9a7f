package parser

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/ccollicutt/catlog/pkg/logcat"
)

// Option configures a source.
type Option func(*options)

type options struct {
	expanded bool
	logger   *zap.Logger
	stdin    io.Reader
}

// WithExpanded sets the initial Expanded flag of every parsed record.
func WithExpanded(expanded bool) Option {
	return func(o *options) {
		o.expanded = expanded
	}
}

// WithLogger sets the logger used for diagnostics. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithStdin replaces os.Stdin as the reader used for the StdinName source.
func WithStdin(r io.Reader) Option {
	return func(o *options) {
		if r != nil {
			o.stdin = r
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		logger: zap.NewNop(),
		stdin:  os.Stdin,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// FileSource implements LogSource for reading from logcat dump files.
// A file named StdinName reads standard input.
type FileSource struct {
	files []string
	opts  options

	currentFile    io.Closer
	currentScanner *bufio.Scanner
	currentSource  string
	currentLine    int
	fileIndex      int
}

// NewFileSource creates a LogSource that reads the given files in order.
func NewFileSource(files []string, opts ...Option) *FileSource {
	return &FileSource{
		files:     files,
		opts:      buildOptions(opts),
		fileIndex: -1,
	}
}

// NewReaderSource creates a LogSource over a single reader. The reader is
// not closed by Close.
func NewReaderSource(name string, r io.Reader, opts ...Option) *FileSource {
	s := NewFileSource(nil, opts...)
	s.fileIndex = len(s.files)
	s.startScanner(name, r, nil)
	return s
}

// Next returns the next parsed line.
// Returns io.EOF when all files have been exhausted.
func (s *FileSource) Next(ctx context.Context) (*Line, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if s.currentScanner == nil {
			if err := s.openNextFile(); err != nil {
				return nil, err
			}
		}

		if s.currentScanner.Scan() {
			s.currentLine++
			return s.parse(s.currentScanner.Text()), nil
		}

		if err := s.currentScanner.Err(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", s.currentSource, err)
		}

		// Current file exhausted, try next
		if err := s.closeCurrentFile(); err != nil {
			return nil, err
		}
		s.currentScanner = nil
	}
}

func (s *FileSource) parse(text string) *Line {
	// adb shell output on some hosts terminates lines with CRLF.
	text = strings.TrimSuffix(text, "\r")

	record := logcat.Parse(text, s.opts.expanded)
	if !record.Parsed() {
		s.opts.logger.Debug("line doesn't match logcat pattern",
			zap.String("source", s.currentSource),
			zap.Int("line", s.currentLine),
			zap.String("text", text))
	}

	return &Line{
		Record:  record,
		Source:  s.currentSource,
		LineNum: s.currentLine,
	}
}

// Close releases resources.
func (s *FileSource) Close() error {
	return s.closeCurrentFile()
}

func (s *FileSource) openNextFile() error {
	s.fileIndex++
	if s.fileIndex >= len(s.files) {
		return io.EOF
	}

	path := s.files[s.fileIndex]
	if path == StdinName {
		s.startScanner(path, s.opts.stdin, nil)
		return nil
	}

	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return fmt.Errorf("opening log file %s: %w", path, err)
	}

	s.startScanner(path, f, f)
	return nil
}

func (s *FileSource) startScanner(name string, r io.Reader, c io.Closer) {
	s.currentFile = c
	s.currentScanner = bufio.NewScanner(r)
	s.currentScanner.Buffer(make([]byte, 0, 64*1024), 1024*1024) // 1MB max line size
	s.currentSource = name
	s.currentLine = 0
}

func (s *FileSource) closeCurrentFile() error {
	if s.currentFile != nil {
		err := s.currentFile.Close()
		s.currentFile = nil
		s.currentScanner = nil
		return err
	}
	return nil
}

// ReadAll drains src and returns every line it yields.
func ReadAll(ctx context.Context, src LogSource) ([]*Line, error) {
	var lines []*Line
	for {
		line, err := src.Next(ctx)
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return lines, err
		}
		lines = append(lines, line)
	}
}
