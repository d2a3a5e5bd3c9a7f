package detector

import (
	"regexp"
	"strings"

	"github.com/ccollicutt/catlog/pkg/logcat"
)

// Layout is one of the output layouts selected with `adb logcat -v`.
type Layout struct {
	Name      string // value passed to `logcat -v`
	Example   string
	Supported bool // true if logcat.Parse extracts every field

	match func(line string) bool
}

// Matches reports whether line is written in this layout.
func (l *Layout) Matches(line string) bool {
	return l.match(line)
}

var (
	threadtimePattern = regexp.MustCompile(`^\d\d-\d\d \d\d:\d\d:\d\d\.\d{3}\s+\d+\s+\d+ [VDIWEF] .*?: `)
	processPattern    = regexp.MustCompile(`^[VDIWEF]\(\s*\d+\) .*\(.+\)$`)
	threadPattern     = regexp.MustCompile(`^[VDIWEF]\(\s*\d+:\s*\d+\) `)
	tagPattern        = regexp.MustCompile(`^[VDIWEF]/[^(:]+: `)
)

// DefaultLayouts returns the layouts the detector knows, most specific first.
func DefaultLayouts() []*Layout {
	return []*Layout{
		{
			Name:      "time",
			Example:   "03-12 12:30:01.123 D/MyTag( 1234): hello",
			Supported: true,
			match: func(line string) bool {
				r := logcat.Parse(line, false)
				return r.Parsed() && r.HasTimestamp()
			},
		},
		{
			Name:      "brief",
			Example:   "D/MyTag( 1234): hello",
			Supported: true,
			match: func(line string) bool {
				r := logcat.Parse(line, false)
				return r.Parsed() && !r.HasTimestamp()
			},
		},
		{
			Name:    "threadtime",
			Example: "03-12 12:30:01.123  1234  5678 D MyTag   : hello",
			match:   threadtimePattern.MatchString,
		},
		{
			Name:    "thread",
			Example: "D( 1234: 5678) hello",
			match:   threadPattern.MatchString,
		},
		{
			Name:    "process",
			Example: "D( 1234) hello  (MyTag)",
			match:   processPattern.MatchString,
		},
		{
			Name:    "tag",
			Example: "D/MyTag: hello",
			match:   tagPattern.MatchString,
		},
	}
}

// IsPreamble reports whether line is a buffer banner such as
// "--------- beginning of main".
func IsPreamble(line string) bool {
	return strings.HasPrefix(line, "--------- ")
}
