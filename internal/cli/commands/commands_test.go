package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
)

const mainDump = `--------- beginning of /dev/log/main
03-12 12:30:01.123 D/MyTag( 1234): hello world
03-12 12:30:03.000 W/Other(  7): careful
`

const systemDump = `--------- beginning of /dev/log/system
03-12 12:30:02.000 I/ActivityManager(   59): Start proc
03-12 12:30:03.000 E/Crash(  99): boom
`

// syncBuffer is a bytes.Buffer safe for a writer and a poller.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) error {
	t.Helper()
	ExitCode = 0
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func TestNewParseCommand(t *testing.T) {
	cmd := NewParseCommand()

	if cmd.Use != "parse [log-file...]" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}

	flags := []string{"config", "output", "expanded", "min-severity", "summary", "verbose", "quiet", "strict", "sort"}
	for _, flag := range flags {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("Missing flag: %s", flag)
		}
	}
}

func TestRunParse_File(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "main.txt", mainDump)

	cmd := NewParseCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := execute(t, cmd, path); err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	want := `--------- beginning of /dev/log/main
03-12 12:30:01.123 D/MyTag(1234): hello world
03-12 12:30:03.000 W/Other(7): careful
`
	if buf.String() != want {
		t.Errorf("output =\n%s\nwant\n%s", buf.String(), want)
	}
	if ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", ExitCode)
	}
}

func TestRunParse_Stdin(t *testing.T) {
	cmd := NewParseCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetIn(strings.NewReader("I/Tag(  3): from stdin\n"))

	if err := execute(t, cmd); err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if buf.String() != "I/Tag(3): from stdin\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestRunParse_JSONSummary(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "main.txt", mainDump)

	cmd := NewParseCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := execute(t, cmd, "-o", "json", "--quiet", "--min-severity", "warn", path); err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	var summary struct {
		LinesProcessed int            `json:"lines_processed"`
		Unparsed       int            `json:"unparsed"`
		BySeverity     map[string]int `json:"by_severity"`
		AtOrAbove      int            `json:"at_or_above"`
	}
	if err := json.Unmarshal(buf.Bytes(), &summary); err != nil {
		t.Fatalf("Unmarshal() error = %v\n%s", err, buf.String())
	}
	if summary.LinesProcessed != 3 || summary.Unparsed != 1 || summary.AtOrAbove != 1 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestRunParse_Sort(t *testing.T) {
	dir := t.TempDir()
	a := writeTestFile(t, dir, "a.txt", mainDump)
	b := writeTestFile(t, dir, "b.txt", systemDump)

	cmd := NewParseCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := execute(t, cmd, "--sort", a, b); err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"--------- beginning of /dev/log/main",
		"--------- beginning of /dev/log/system",
		"03-12 12:30:01.123 D/MyTag(1234): hello world",
		"03-12 12:30:02.000 I/ActivityManager(59): Start proc",
		"03-12 12:30:03.000 W/Other(7): careful",
		"03-12 12:30:03.000 E/Crash(99): boom",
	}
	if strings.Join(lines, "\n") != strings.Join(want, "\n") {
		t.Errorf("output =\n%s\nwant\n%s", buf.String(), strings.Join(want, "\n"))
	}
}

func TestRunParse_Strict(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "main.txt", mainDump)

	cmd := NewParseCommand()
	cmd.SetOut(&bytes.Buffer{})

	if err := execute(t, cmd, "--strict", path); err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", ExitCode)
	}
}

func TestRunParse_Config(t *testing.T) {
	dir := t.TempDir()
	logPath := writeTestFile(t, dir, "main.txt", mainDump)
	configPath := writeTestFile(t, dir, "catlog.yaml", "log_sources:\n  - "+logPath+"\noutput: json\n")

	cmd := NewParseCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := execute(t, cmd, "--config", configPath); err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	var report struct {
		Lines []json.RawMessage `json:"lines"`
	}
	if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("expected JSON output from config, got error %v\n%s", err, buf.String())
	}
	if len(report.Lines) != 3 {
		t.Errorf("Lines = %d, want 3", len(report.Lines))
	}
}

func TestRunParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"/nonexistent/main.txt"}},
		{"bad output", []string{"-o", "xml", "-"}},
		{"bad severity", []string{"--min-severity", "loud", "-"}},
		{"bad config", []string{"--config", "/nonexistent/catlog.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewParseCommand()
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetIn(strings.NewReader(""))
			if err := execute(t, cmd, tt.args...); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestRunMerge(t *testing.T) {
	dir := t.TempDir()
	a := writeTestFile(t, dir, "main.txt", mainDump)
	b := writeTestFile(t, dir, "system.txt", systemDump)

	cmd := NewMergeCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	// system first: ties at 12:30:03 resolve in argument order
	if err := execute(t, cmd, b, a); err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	want := `--------- beginning of /dev/log/system
--------- beginning of /dev/log/main
03-12 12:30:01.123 D/MyTag(1234): hello world
03-12 12:30:02.000 I/ActivityManager(59): Start proc
03-12 12:30:03.000 E/Crash(99): boom
03-12 12:30:03.000 W/Other(7): careful
`
	if buf.String() != want {
		t.Errorf("output =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestRunMerge_Summary(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "main.txt", mainDump)
	writeTestFile(t, dir, "system.txt", systemDump)

	cmd := NewMergeCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := execute(t, cmd, "--summary", "--min-severity", "E", filepath.Join(dir, "*.txt")); err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Summary: 6 lines, 2 unparsed",
		"  E ERROR   1",
		"At or above ERROR: 1",
		"Time span: 03-12 12:30:01.123 .. 03-12 12:30:03.000",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunMerge_NoSources(t *testing.T) {
	cmd := NewMergeCommand()
	if err := execute(t, cmd); err == nil {
		t.Error("Expected error when no files are given")
	}
}

func TestRunFollow(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "live.txt", "D/Live( 1): first\n")

	cmd := NewFollowCommand()
	var buf syncBuffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--poll-interval", "20ms", path})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(buf.String(), "D/Live(1): first") {
		if time.Now().After(deadline) {
			t.Fatalf("follow output = %q", buf.String())
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("follow returned %v, want nil on cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("follow did not stop after cancel")
	}
}

func TestRunDetect(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "main.txt", mainDump)

	cmd := NewDetectCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := execute(t, cmd, path); err != nil {
		t.Fatalf("detect failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Detected layout: time") {
		t.Errorf("output missing layout:\n%s", out)
	}
	if !strings.Contains(out, "1 buffer banners") {
		t.Errorf("output missing banner count:\n%s", out)
	}
}

func TestRunDetect_JSON(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "main.txt", mainDump)

	cmd := NewDetectCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := execute(t, cmd, "-o", "json", path); err != nil {
		t.Fatalf("detect failed: %v", err)
	}

	var out JSONOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(out.Matches) != 1 || out.Matches[0].Name != "time" || !out.Matches[0].Supported {
		t.Errorf("Matches = %+v", out.Matches)
	}
	if out.Severities["DEBUG"] != 1 || out.Severities["WARN"] != 1 {
		t.Errorf("Severities = %v", out.Severities)
	}
}

func TestRunDetect_WriteConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "main.txt", mainDump)
	configPath := filepath.Join(dir, "catlog.yaml")

	cmd := NewDetectCommand()
	cmd.SetOut(&bytes.Buffer{})
	if err := execute(t, cmd, "-w", configPath, path); err != nil {
		t.Fatalf("detect failed: %v", err)
	}

	// The generated config must itself validate
	validate := NewValidateCommand()
	validate.SetOut(&bytes.Buffer{})
	if err := execute(t, validate, configPath); err != nil {
		t.Errorf("generated config does not validate: %v", err)
	}

	// Refuses to overwrite
	cmd = NewDetectCommand()
	cmd.SetOut(&bytes.Buffer{})
	if err := execute(t, cmd, "-w", configPath, path); err == nil {
		t.Error("Expected error when config already exists")
	}
}

func TestRunDetect_MissingFile(t *testing.T) {
	cmd := NewDetectCommand()
	if err := execute(t, cmd, "/nonexistent/main.txt"); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestRunValidate(t *testing.T) {
	dir := t.TempDir()
	logPath := writeTestFile(t, dir, "main.txt", mainDump)
	configPath := writeTestFile(t, dir, "catlog.yaml", "log_sources:\n  - "+logPath+"\nmin_severity: W\n")

	cmd := NewValidateCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := execute(t, cmd, configPath); err != nil {
		t.Fatalf("validate failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Configuration valid!") || !strings.Contains(out, "Min severity:  WARN") {
		t.Errorf("output =\n%s", out)
	}
}

func TestRunValidate_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTestFile(t, dir, "invalid.yaml", "log_sources: [a.txt]\noutput: xml\n")

	cmd := NewValidateCommand()
	cmd.SetOut(&bytes.Buffer{})
	if err := execute(t, cmd, configPath); err == nil {
		t.Error("Expected error for invalid config")
	}
}

func TestNewVersionCommand(t *testing.T) {
	cmd := NewVersionCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := execute(t, cmd); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if buf.String() != "catlog dev\n" {
		t.Errorf("output = %q", buf.String())
	}
}
