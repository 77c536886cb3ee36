package trace

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func line(registers string, memory string, op string, operand string, input string, output string) Line {
	return Line{
		Registers: registers,
		Memory:    memory,
		Op:        op,
		Operand:   operand,
		Input:     input,
		Output:    output,
	}
}

func TestLog(t *testing.T) {
	assert := assert.New(t)

	lg := &Log{}
	assert.Equal(0, lg.Len())

	lg.Append(line("0000", "0000000000000000", "HLT", "-", "-", "-"))
	lg.Append(line("1080", "0000000000000000", "", "", "", ""))
	assert.Equal(2, lg.Len())
	assert.Equal("HLT", lg.Lines()[0].Op)

	lg.Reset()
	assert.Equal(0, lg.Len())
	assert.Empty(lg.Lines())
}

func TestRenderText(t *testing.T) {
	assert := assert.New(t)

	lg := &Log{}
	lg.Append(line("0000", "6700000000000000", "GET", "-", "A", "-"))

	lines := lg.Render()
	assert.Len(lines, 1)
	assert.Equal("0 0 0 0 6700000000000000 GET -  A  -", lines[0].Text)

	// The first line has no previous line: fully marked.
	for col, marked := range lines[0].Marks {
		assert.True(marked, "column %v", col)
	}
	assert.Len(lines[0].Marks, CompareWidth)
}

func TestRenderMarks(t *testing.T) {
	assert := assert.New(t)

	lg := &Log{}
	lg.Append(line("0000", "6700000000000000", "GET", "-", "A", "-"))
	lg.Append(line("100A", "6700000000000000", "PUT", "-", "-", "A"))

	lines := lg.Render()
	assert.Len(lines, 2)

	second := lines[1]
	// Register digits 0 and 3 changed; 1 and 2 did not.
	assert.True(second.Marks[0])
	assert.False(second.Marks[2])
	assert.False(second.Marks[4])
	assert.True(second.Marks[6])
	// Separator spaces are always marked.
	assert.True(second.Marks[1])
	assert.True(second.Marks[7])
	assert.True(second.Marks[24])
	// Unchanged memory positions are unmarked.
	for col := 8; col < 24; col++ {
		assert.False(second.Marks[col], "column %v", col)
	}
}

// TestDotComplement checks the invariant tying the two views together: a
// position renders as a dot exactly when the full view leaves it
// unmarked.
func TestDotComplement(t *testing.T) {
	assert := assert.New(t)

	lg := &Log{}
	lg.Append(line("0000", "6700000000000000", "GET", "-", "A", "-"))
	lg.Append(line("100A", "6700000000000000", "PUT", "-", "-", "A"))
	lg.Append(line("200A", "6700000000000000", "HLT", "-", "-", "-"))
	lg.Append(line("308A", "6700000000000000", "", "", "", ""))

	full := lg.Render()
	dots := lg.RenderDots()
	assert.Len(dots, len(full))

	for n := range full {
		for col := range CompareWidth {
			if col >= len(dots[n]) {
				break
			}
			dotted := dots[n][col] == '.'
			assert.Equal(!full[n].Marks[col], dotted,
				"line %v column %v", n, col)
		}
	}
}

func TestRenderDots(t *testing.T) {
	assert := assert.New(t)

	lg := &Log{}
	lg.Append(line("0000", "0000000000000000", "HLT", "-", "-", "-"))
	lg.Append(line("1080", "0000000000000000", "", "", "", ""))

	dots := lg.RenderDots()
	assert.Len(dots, 2)

	// First line kept verbatim.
	assert.Equal("0 0 0 0 0000000000000000 HLT -  -  -", dots[0])

	// Second line: changed register digits keep their characters, the
	// untouched ones and the memory collapse to dots. The action text
	// past the compare width stays verbatim (blank here).
	assert.Equal("1 . 8 . ................", dots[1])
}

func TestHeader(t *testing.T) {
	assert := assert.New(t)

	top, bottom := Header()
	assert.Equal(len(top), len(bottom))
	assert.Equal("0123456789ABCDEF", bottom[8:24])
	assert.Contains(top, "Memory")

	lg := &Log{}
	lg.Append(line("0000", "0000000000000000", "HLT", "-", "-", "-"))

	full := lg.FullView()
	assert.True(strings.HasPrefix(full, top+"\n"+bottom+"\n"))

	dot := lg.DotView()
	assert.True(strings.HasPrefix(dot, top+"\n"+bottom+"\n"))
	assert.True(strings.HasSuffix(dot, "\n"))
}
