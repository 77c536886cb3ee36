// Copyright 2026, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package asm implements a single pass assembler for the μNIB
// instruction set.
//
// One line holds one instruction or directive. Instructions are the
// sixteen machine mnemonics with an optional operand (a value 0-15, an
// equate, or a label). Directives are '.equ NAME VALUE', '.data V ...',
// '.reg XXXX' for the initial register string, and '.in DIGITS' for the
// input queue. Comments run from ';' to end of line. '$( ... )' spans
// are evaluated at assembly time as Starlark expressions with all
// numeric equates predeclared.
package asm

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/unib/machine"
	"github.com/ezrec/unib/nib"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Program is an assembled machine image.
type Program struct {
	Cells     []int  // Assembled memory cells, in order.
	Registers string // Initial register string from .reg.
	Input     string // Initial input queue from .in.
}

// Memory returns the 16-digit memory string, zero padded past the
// assembled cells.
func (prog *Program) Memory() (memory string, err error) {
	if len(prog.Cells) > machine.MEM_SIZE {
		err = ErrProgramTooLong
		return
	}

	image := []byte(strings.Repeat("0", machine.MEM_SIZE))
	for n, cell := range prog.Cells {
		image[n], err = nib.Hex(cell)
		if err != nil {
			return
		}
	}

	memory = string(image)
	return
}

// Machine constructs a machine from the assembled image.
func (prog *Program) Machine() (mc *machine.Machine, err error) {
	memory, err := prog.Memory()
	if err != nil {
		return
	}

	registers := prog.Registers
	if registers == "" {
		registers = "0000"
	}

	return machine.New(registers, memory, prog.Input)
}

// fixup is a label reference awaiting its address.
type fixup struct {
	Cell   int    // Cell index to patch.
	Label  string // Label the cell refers to.
	LineNo int    // Line the reference appeared on.
}

// Assembler is a single pass assembler for the μNIB system.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.

	Label  map[string]int    // Map of labels to cell indexes.
	Equate map[string]string // Map of equates.

	predefine map[string]string // Predefines
	prog      *Program
	fixups    []fixup
}

// Predefine defines a new equate or redefines an existing equate before
// parsing begins.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the nibble value of a simple word.
func (asm *Assembler) valueOf(word string) (value int, err error) {
	v64, err := strconv.ParseInt(word, 0, 8)
	if err != nil || v64 < 0 || v64 > 15 {
		err = ErrParseNumber(word)
		return
	}

	value = int(v64)
	return
}

// parenEval does assembly-time $(...) evaluations.
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		// Ignore non-numeric equates. Values wider than a nibble
		// (like MEM_SIZE) are still usable inside expressions.
		v64, _err := strconv.ParseInt(str, 0, 64)
		if _err != nil {
			continue
		}
		pred[key] = starlark.MakeInt(int(v64))
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}

	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}

	value = int(st_int64)
	return
}

// emit appends one memory cell.
func (asm *Assembler) emit(cell int) {
	asm.prog.Cells = append(asm.prog.Cells, cell)
}

// operand emits the cell for an operand word: a value, or a label
// reference patched after parsing.
func (asm *Assembler) operand(word string, lineno int) (err error) {
	value, err := asm.valueOf(word)
	if err == nil {
		asm.emit(value)
		return
	}
	err = nil

	asm.fixups = append(asm.fixups, fixup{
		Cell:   len(asm.prog.Cells),
		Label:  word,
		LineNo: lineno,
	})
	asm.emit(0)
	return
}

// parseLine expands one line into words: $() evaluation, .equ capture,
// equate substitution, and label definitions.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	re := regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
	}

	words = slices.DeleteFunc(strings.Split(line, " "), func(a string) bool { return len(a) == 0 })

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, machine.MEM_SIZE)
		}
		asm.Label[label] = len(asm.prog.Cells)
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// Substitute equates in the argument positions only; mnemonics
	// double as equates through the machine defines, so the opcode
	// word stays literal.
	for n, word := range words[1:] {
		equate, ok := asm.Equate[word]
		if ok {
			words[1+n] = equate
		}
	}

	return
}

// parseWords assembles one directive or instruction.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	switch words[0] {
	case ".data":
		if len(words) < 2 {
			err = ErrDataSyntax
			return
		}
		for _, word := range words[1:] {
			var value int
			value, err = asm.valueOf(word)
			if err != nil {
				return
			}
			asm.emit(value)
		}
		return

	case ".reg":
		if len(words) != 2 || len(words[1]) != machine.REG_COUNT {
			err = ErrRegisterSyntax
			return
		}
		asm.prog.Registers = words[1]
		return

	case ".in":
		if len(words) != 2 {
			err = ErrInputSyntax
			return
		}
		asm.prog.Input = words[1]
		return
	}

	op, ok := machine.OpByName(strings.ToUpper(words[0]))
	if !ok {
		err = ErrOpcodeInvalid
		return
	}

	asm.emit(int(op))

	if !op.HasOperand() {
		if len(words) != 1 {
			err = ErrOperandExtra
		}
		return
	}

	if len(words) < 2 {
		err = ErrOperandMissing
		return
	}
	if len(words) > 2 {
		err = ErrOperandExtra
		return
	}

	return asm.operand(words[1], lineno)
}

// Parse parses an input stream into an assembled Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.prog = &Program{}
	asm.fixups = asm.fixups[:0]
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("asm: %v: %v", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}
		if len(words) == 0 {
			continue
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}
	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of labels.
	for _, fix := range asm.fixups {
		cell, ok := asm.Label[fix.Label]
		if !ok {
			lineno = fix.LineNo
			err = ErrLabelMissing(fix.Label)
			return
		}
		asm.prog.Cells[fix.Cell] = cell
	}

	if len(asm.prog.Cells) > machine.MEM_SIZE {
		err = ErrProgramTooLong
		return
	}

	prog = asm.prog
	return
}
