// Package logcat parses, reconstructs, and orders Android logcat lines.
package logcat

import (
	"fmt"
	"strings"
)

// Severity is the priority of a logcat line.
type Severity int

const (
	// Unknown marks a line that did not match the logcat grammar.
	// It is the zero value and never collides with a real level.
	Unknown Severity = iota
	Verbose
	Debug
	Info
	Warn
	Error
	// Assert is written as 'F' on the wire. Android 2.2 introduced it as
	// Log.wtf ("what a terrible failure") and logcat prints it as fatal.
	Assert
)

// severityChars maps each real level to its on-wire character.
var severityChars = [...]byte{
	Verbose: 'V',
	Debug:   'D',
	Info:    'I',
	Warn:    'W',
	Error:   'E',
	Assert:  'F',
}

var severityNames = [...]string{
	Unknown: "UNKNOWN",
	Verbose: "VERBOSE",
	Debug:   "DEBUG",
	Info:    "INFO",
	Warn:    "WARN",
	Error:   "ERROR",
	Assert:  "ASSERT",
}

// Severities lists the real levels in ascending priority.
func Severities() []Severity {
	return []Severity{Verbose, Debug, Info, Warn, Error, Assert}
}

// SeverityFromChar maps a logcat priority character to a Severity.
// Unrecognized characters yield Unknown.
func SeverityFromChar(c byte) Severity {
	switch c {
	case 'V':
		return Verbose
	case 'D':
		return Debug
	case 'I':
		return Info
	case 'W':
		return Warn
	case 'E':
		return Error
	case 'F':
		return Assert
	}
	return Unknown
}

// Char returns the on-wire character for s, or a space for Unknown and any
// value outside the table.
func (s Severity) Char() byte {
	if !s.Valid() {
		return ' '
	}
	return severityChars[s]
}

// Valid reports whether s is one of the real levels.
func (s Severity) Valid() bool {
	return s >= Verbose && s <= Assert
}

func (s Severity) String() string {
	if s < Unknown || int(s) >= len(severityNames) {
		return fmt.Sprintf("Severity(%d)", int(s))
	}
	return severityNames[s]
}

// ParseSeverity accepts either a single priority character ("W") or a level
// name ("warn", "warning", "fatal", "wtf"), case-insensitively.
func ParseSeverity(s string) (Severity, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if len(name) == 1 {
		if sev := SeverityFromChar(name[0]); sev != Unknown {
			return sev, nil
		}
	}
	switch name {
	case "VERBOSE":
		return Verbose, nil
	case "DEBUG":
		return Debug, nil
	case "INFO":
		return Info, nil
	case "WARN", "WARNING":
		return Warn, nil
	case "ERROR":
		return Error, nil
	case "ASSERT", "FATAL", "WTF":
		return Assert, nil
	}
	return Unknown, fmt.Errorf("unknown severity %q", s)
}

// MarshalText encodes s as its priority character; Unknown encodes as empty.
func (s Severity) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return []byte{}, nil
	}
	return []byte{s.Char()}, nil
}

// UnmarshalText is the inverse of MarshalText. Empty input decodes to Unknown.
func (s *Severity) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*s = Unknown
		return nil
	}
	sev, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = sev
	return nil
}
