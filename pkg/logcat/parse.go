package logcat

import (
	"regexp"
	"strconv"
)

// linePattern matches the brief logcat layout: "D/Tag( 1234): message".
var linePattern = regexp.MustCompile(`^(\w)/([^(]+)\(\s*(\d+)\): (.*)$`)

// Parse converts one raw logcat line into a Record. It never fails: lines
// that do not match the grammar (preambles such as "--------- beginning of
// main", or legacy output) come back as Unknown records holding the text.
//
// A line starting with a digit is taken to carry an 18-character timestamp
// followed by one separator. Digit-led lines too short to hold that prefix
// are treated as having no timestamp.
func Parse(raw string, expanded bool) *Record {
	r := &Record{
		Expanded: expanded,
		PID:      NoPID,
	}

	rest := raw
	if len(raw) > TimestampLen && isDigit(raw[0]) {
		r.Timestamp = raw[:TimestampLen]
		rest = raw[TimestampLen+1:]
	}

	m := linePattern.FindStringSubmatch(rest)
	if m == nil {
		r.Body = rest
		return r
	}

	pid, err := strconv.Atoi(m[3])
	if err != nil {
		// Only reachable on overflow; keep the text rather than lose it.
		r.Body = rest
		return r
	}

	r.Severity = SeverityFromChar(m[1][0])
	r.Tag = m[2]
	r.PID = pid
	r.Body = m[4]

	// A word character outside the table still matched structurally but has
	// no level; keep the record consistent with the Unknown invariants.
	if r.Severity == Unknown {
		r.Tag = ""
		r.PID = NoPID
		r.Body = rest
	}

	return r
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
