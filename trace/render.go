package trace

import (
	"fmt"
	"strings"
)

// CompareWidth is the column span subject to change marking: the four
// register digits, the sixteen memory digits, and their separators. The
// action fields beyond it are appended verbatim and never marked.
const CompareWidth = 25

const (
	headerTop    = "I L F A Memory           Op  Ar In Out"
	headerBottom = "P I R C 0123456789ABCDEF --- -- -- ---"
)

// Header returns the fixed two-line column header shared by both views.
func Header() (top string, bottom string) {
	return headerTop, headerBottom
}

// Rendered is one trace line prepared for display. Marks flags each
// position within CompareWidth that the presentation layer should
// highlight: changed since the previous line, or a separator space.
type Rendered struct {
	Text  string
	Marks []bool
}

// text renders a line as space-separated registers, memory, and the
// action fields.
func (ln Line) text() string {
	regs := ln.Registers
	for len(regs) < 4 {
		regs += " "
	}

	spaced := fmt.Sprintf("%c %c %c %c", regs[0], regs[1], regs[2], regs[3])
	actions := fmt.Sprintf("%-3s %-2s %-2s %-3s", ln.Op, ln.Operand, ln.Input, ln.Output)

	return strings.TrimRight(spaced+" "+ln.Memory+" "+actions, " ")
}

// charAt treats positions beyond the end of a line as spaces.
func charAt(text string, n int) byte {
	if n >= len(text) {
		return ' '
	}

	return text[n]
}

// Render returns the full view: every line rendered, with per-position
// marks against the previous line. The first line is fully marked, since
// everything on it is new.
func (lg *Log) Render() (lines []Rendered) {
	var prev string

	for n, ln := range lg.lines {
		text := ln.text()

		marks := make([]bool, CompareWidth)
		for col := range CompareWidth {
			ch := charAt(text, col)
			marks[col] = n == 0 || ch == ' ' || ch != charAt(prev, col)
		}

		lines = append(lines, Rendered{Text: text, Marks: marks})
		prev = text
	}

	return
}

// RenderDots returns the dot view: the inverse marking of Render, where
// every unmarked position collapses to a dot and everything else keeps
// its literal character.
func (lg *Log) RenderDots() (lines []string) {
	for _, full := range lg.Render() {
		dotted := []byte(full.Text)
		for col, marked := range full.Marks {
			if col >= len(dotted) {
				break
			}
			if !marked {
				dotted[col] = '.'
			}
		}

		lines = append(lines, string(dotted))
	}

	return
}

// FullView returns the full view as one table under the column header.
func (lg *Log) FullView() string {
	table := []string{headerTop, headerBottom}
	for _, line := range lg.Render() {
		table = append(table, line.Text)
	}

	return strings.Join(table, "\n") + "\n"
}

// DotView returns the dot view as one table under the column header.
func (lg *Log) DotView() string {
	table := append([]string{headerTop, headerBottom}, lg.RenderDots()...)

	return strings.Join(table, "\n") + "\n"
}
