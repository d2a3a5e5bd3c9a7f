package logcat

import (
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		record *Record
		want   string
	}{
		{
			name:   "unknown is verbatim",
			record: &Record{Severity: Unknown, PID: NoPID, Body: "--------- beginning of main"},
			want:   "--------- beginning of main",
		},
		{
			name:   "unknown ignores timestamp",
			record: &Record{Severity: Unknown, PID: NoPID, Body: "rest", Timestamp: "01-01 00:00:00.000"},
			want:   "rest",
		},
		{
			name:   "no timestamp",
			record: &Record{Severity: Warn, Tag: "Tag", PID: 42, Body: "careful"},
			want:   "W/Tag(42): careful",
		},
		{
			name:   "with timestamp",
			record: &Record{Severity: Debug, Tag: "MyTag", PID: 1234, Body: "hello world", Timestamp: "03-12 12:30:01.123"},
			want:   "03-12 12:30:01.123 D/MyTag(1234): hello world",
		},
		{
			name:   "assert writes F",
			record: &Record{Severity: Assert, Tag: "libc", PID: 1, Body: "abort"},
			want:   "F/libc(1): abort",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.record); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
			if got := tt.record.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormat_PreambleRoundTrip(t *testing.T) {
	line := "--------- beginning of /dev/log/system"
	if got := Format(Parse(line, false)); got != line {
		t.Errorf("Format(Parse(%q)) = %q", line, got)
	}
}
