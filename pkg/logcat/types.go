package logcat

// TimestampLayout is the layout of the timestamp prefix written by
// `logcat -v time` and `-v threadtime`, e.g. "03-12 12:30:01.123".
const TimestampLayout = "01-02 15:04:05.000"

// TimestampLen is the fixed width of a timestamp prefix.
const TimestampLen = len(TimestampLayout)

// NoPID is the process id carried by records that did not match the grammar.
const NoPID = -1

// Record is a single parsed logcat line.
//
// All fields except Expanded and Highlighted are set once by Parse. The two
// view-state flags belong to whatever displays the record; this package
// never reads or writes them after construction and makes no
// synchronization guarantees for them.
type Record struct {
	// Severity is Unknown when the line did not match the grammar.
	Severity Severity `json:"severity"`

	// Tag identifies the emitting component. Empty for Unknown records.
	Tag string `json:"tag,omitempty"`

	// Body is the message text. For Unknown records it holds the whole line
	// remainder after any timestamp.
	Body string `json:"body"`

	// PID is the emitting process, or NoPID for Unknown records.
	PID int `json:"pid"`

	// Timestamp is the verbatim timestamp prefix, or empty if the line had
	// none. It is never reformatted.
	Timestamp string `json:"timestamp,omitempty"`

	Expanded    bool `json:"-"`
	Highlighted bool `json:"-"`
}

// Parsed reports whether the record matched the logcat grammar.
func (r *Record) Parsed() bool {
	return r.Severity != Unknown
}

// HasTimestamp reports whether the source line carried a timestamp prefix.
func (r *Record) HasTimestamp() bool {
	return r.Timestamp != ""
}

// ProcessID returns the process id and whether the record has one.
func (r *Record) ProcessID() (int, bool) {
	if !r.Parsed() {
		return 0, false
	}
	return r.PID, true
}

// String reconstructs the line; see Format.
func (r *Record) String() string {
	return Format(r)
}
