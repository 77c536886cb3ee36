// Package trace records and renders μNIB execution history.
//
// The recorder keeps one line per executed step plus a final snapshot of
// the halted state. The renderer produces two textual views of the log:
// a full view with per-position change marks for the presentation layer,
// and a dot view that collapses positions unchanged since the previous
// line into a placeholder, so only what changed per step stands out.
package trace

// Blank is the placeholder for an action field the step did not use.
const Blank = "-"

// Line is an immutable record of one execution step: the register and
// memory state the step was decided from, and the action fields it
// produced. The final line of a run carries empty action fields.
type Line struct {
	Registers string // 4 hex digits: IP LI FR AC.
	Memory    string // 16 hex digits.
	Op        string // Opcode mnemonic.
	Operand   string // Operand hex digit, or Blank.
	Input     string // Consumed input hex digit, or Blank.
	Output    string // Produced output hex digit, or Blank.
}

// Log is an append-only recorder of trace lines, reset at the start of
// each run.
type Log struct {
	lines []Line
}

// Reset discards all recorded lines.
func (lg *Log) Reset() {
	lg.lines = lg.lines[:0]
}

// Append records one line.
func (lg *Log) Append(line Line) {
	lg.lines = append(lg.lines, line)
}

// Lines returns the recorded lines in order.
func (lg *Log) Lines() []Line {
	return lg.lines
}

// Len returns the number of recorded lines.
func (lg *Log) Len() int {
	return len(lg.lines)
}
