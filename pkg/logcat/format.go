package logcat

import (
	"strconv"
	"strings"
)

// Format reconstructs the text of r. Unknown records reproduce their stored
// text verbatim. Parsed records are rendered in the brief layout, prefixed
// by the timestamp when present; whitespace inside the pid parentheses is
// not preserved.
func Format(r *Record) string {
	if !r.Parsed() {
		return r.Body
	}

	var sb strings.Builder
	sb.Grow(len(r.Timestamp) + len(r.Tag) + len(r.Body) + 16)

	if r.HasTimestamp() {
		sb.WriteString(r.Timestamp)
		sb.WriteByte(' ')
	}
	sb.WriteByte(r.Severity.Char())
	sb.WriteByte('/')
	sb.WriteString(r.Tag)
	sb.WriteByte('(')
	sb.WriteString(strconv.Itoa(r.PID))
	sb.WriteString("): ")
	sb.WriteString(r.Body)

	return sb.String()
}
