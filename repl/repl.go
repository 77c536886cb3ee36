// Package repl implements the interactive μNIB monitor.
//
// The monitor is thin I/O glue over the machine, asm, snapshot, and
// trace packages: it stages a machine image, runs it, and prints the
// execution trace with the changed positions highlighted.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ezrec/unib/asm"
	"github.com/ezrec/unib/machine"
	"github.com/ezrec/unib/snapshot"
	"github.com/ezrec/unib/trace"
)

const prompt = "unib> "

const banner = `uNIB 4-bit computer monitor ('help' lists commands)`

const helpText = `Commands:
  reg XXXX     set the register string (IP LI FR AC)
  mem DIGITS   set the 16-digit memory string
  in DIGITS    set the input queue
  asm FILE     assemble FILE into the staged image
  load FILE    load a TOML machine image
  save FILE    save the staged image
  state        show the staged image and the last run result
  run [VIEW]   run the staged image; VIEW is full, dot, or both
  help         show this text
  quit         leave the monitor`

// REPL is one interactive monitor session.
type REPL struct {
	Verbose bool // Passed through to the machine and assembler.
	Color   bool // If set, highlight changed trace positions.

	in   *bufio.Scanner
	out  io.Writer
	snap *snapshot.Snapshot
	asm  *asm.Assembler
	mc   *machine.Machine // Machine of the last run, if any.
}

// New creates a monitor session reading commands from in and printing
// to out.
func New(in io.Reader, out io.Writer) *REPL {
	rp := &REPL{
		in:   bufio.NewScanner(in),
		out:  out,
		snap: &snapshot.Snapshot{},
		asm:  &asm.Assembler{},
	}

	// Every machine mnemonic and layout constant doubles as an
	// assembler equate.
	for name, value := range machine.Defines() {
		rp.asm.Predefine(name, value)
	}

	_ = rp.snap.Validate()

	return rp
}

// Run reads and executes commands until quit or end of input.
func (rp *REPL) Run() (err error) {
	fmt.Fprintln(rp.out, banner)

	for {
		fmt.Fprint(rp.out, prompt)

		if !rp.in.Scan() {
			fmt.Fprintln(rp.out)
			return rp.in.Err()
		}

		line := strings.TrimSpace(rp.in.Text())
		if line == "" {
			continue
		}

		words := strings.Fields(line)
		if words[0] == "quit" || words[0] == "q" {
			return
		}

		err := rp.dispatch(words)
		if err != nil {
			fmt.Fprintf(rp.out, "error: %v\n", err)
		}
	}
}

// dispatch executes one command line.
func (rp *REPL) dispatch(words []string) (err error) {
	arg := ""
	if len(words) > 1 {
		arg = words[1]
	}

	switch words[0] {
	case "help", "h", "?":
		fmt.Fprintln(rp.out, helpText)

	case "reg", "r":
		err = rp.stage(&rp.snap.Registers, arg)

	case "mem", "m":
		err = rp.stage(&rp.snap.Memory, arg)

	case "in", "i":
		err = rp.stage(&rp.snap.Input, arg)

	case "asm":
		err = rp.assemble(arg)

	case "load":
		var sn *snapshot.Snapshot
		sn, err = snapshot.Load(arg)
		if err == nil {
			rp.snap = sn
		}

	case "save":
		err = rp.snap.Save(arg)

	case "state":
		rp.printState()

	case "run":
		err = rp.run(arg)

	default:
		err = ErrUnknownCommand(words[0])
	}

	return
}

// stage replaces one field of the staged image, reverting it if the
// result does not validate.
func (rp *REPL) stage(field *string, value string) (err error) {
	old := *field
	*field = value

	err = rp.snap.Validate()
	if err != nil {
		*field = old
	}
	return
}

// assemble stages the image assembled from a source file.
func (rp *REPL) assemble(path string) (err error) {
	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer file.Close()

	rp.asm.Verbose = rp.Verbose
	prog, err := rp.asm.Parse(file)
	if err != nil {
		return
	}

	memory, err := prog.Memory()
	if err != nil {
		return
	}

	rp.snap.Memory = memory
	if prog.Registers != "" {
		rp.snap.Registers = prog.Registers
	}
	if prog.Input != "" {
		rp.snap.Input = prog.Input
	}

	return rp.snap.Validate()
}

// printState shows the staged image and, after a run, the final machine
// state.
func (rp *REPL) printState() {
	fmt.Fprintf(rp.out, "registers: %v\n", rp.snap.Registers)
	fmt.Fprintf(rp.out, "memory:    %v\n", rp.snap.Memory)
	fmt.Fprintf(rp.out, "input:     %v\n", rp.snap.Input)

	if rp.mc == nil {
		return
	}

	fmt.Fprintf(rp.out, "last run:  %v %v\n", rp.mc.Registers(), rp.mc.Memory())
	fmt.Fprintf(rp.out, "output:    %v\n", rp.mc.Output())
	fmt.Fprintf(rp.out, "reason:    %v\n", rp.mc.Reason)
}

// run executes the staged image and prints the requested trace views.
func (rp *REPL) run(view string) (err error) {
	if view == "" {
		view = "both"
	}
	if view != "full" && view != "dot" && view != "both" {
		err = ErrUnknownView(view)
		return
	}

	mc, err := rp.snap.Machine()
	if err != nil {
		return
	}
	mc.Verbose = rp.Verbose

	runErr := mc.Run()
	rp.mc = mc

	if view == "full" || view == "both" {
		rp.printFull(&mc.Trace)
	}
	if view == "dot" || view == "both" {
		fmt.Fprint(rp.out, mc.Trace.DotView())
	}

	if runErr != nil {
		fmt.Fprintf(rp.out, "stopped: %v\n", mc.Reason)
	} else {
		fmt.Fprintf(rp.out, "%v\n", mc.Reason)
	}
	fmt.Fprintf(rp.out, "output: %v\n", mc.Output())

	return
}

// ANSI inverse video wraps the highlighted spans of the full view.
const (
	ansiMark  = "\033[7m"
	ansiReset = "\033[0m"
)

// printFull prints the full trace view, highlighting the marked
// positions when color is enabled.
func (rp *REPL) printFull(lg *trace.Log) {
	top, bottom := trace.Header()
	fmt.Fprintln(rp.out, top)
	fmt.Fprintln(rp.out, bottom)

	for _, line := range lg.Render() {
		if !rp.Color {
			fmt.Fprintln(rp.out, line.Text)
			continue
		}

		fmt.Fprintln(rp.out, Highlight(line))
	}
}

// Highlight renders one full-view line with its marked spans wrapped in
// ANSI inverse video.
func Highlight(line trace.Rendered) string {
	var sb strings.Builder

	marked := false
	for col := range len(line.Text) {
		mark := col < len(line.Marks) && line.Marks[col]
		if mark != marked {
			if mark {
				sb.WriteString(ansiMark)
			} else {
				sb.WriteString(ansiReset)
			}
			marked = mark
		}
		sb.WriteByte(line.Text[col])
	}
	if marked {
		sb.WriteString(ansiReset)
	}

	return sb.String()
}
