package asm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/unib/machine"
)

func parse(t *testing.T, program ...string) (prog *Program, err error) {
	as := &Assembler{}
	for name, value := range machine.Defines() {
		as.Predefine(name, value)
	}

	return as.Parse(strings.NewReader(strings.Join(program, "\n")))
}

func TestCountdown(t *testing.T) {
	assert := assert.New(t)

	prog, err := parse(t,
		"; count down from COUNT and halt",
		".equ COUNT 3",
		"LDL count",
		"loop: DEL",
		"JNZ loop",
		"HLT",
		"count: .data $(COUNT)",
	)
	assert.NoError(err)

	assert.Equal([]int{14, 6, 13, 3, 2, 0, 3}, prog.Cells)

	memory, err := prog.Memory()
	assert.NoError(err)
	assert.Equal("E6D3203000000000", memory)
}

func TestDirectives(t *testing.T) {
	assert := assert.New(t)

	prog, err := parse(t,
		".reg 000F",
		".in A3",
		"FLA",
		"HLT",
	)
	assert.NoError(err)

	assert.Equal("000F", prog.Registers)
	assert.Equal("A3", prog.Input)
	assert.Equal([]int{15, 0}, prog.Cells)
}

func TestEquates(t *testing.T) {
	assert := assert.New(t)

	// Machine defines double as equates: FLA is opcode 15.
	prog, err := parse(t,
		".equ HERE 2",
		".data FLA HERE",
	)
	assert.NoError(err)
	assert.Equal([]int{15, 2}, prog.Cells)
}

func TestExpressions(t *testing.T) {
	assert := assert.New(t)

	prog, err := parse(t,
		".equ N 3",
		".data $(N + 1) $(MEM_SIZE - 1) $(N * 2)",
	)
	assert.NoError(err)
	assert.Equal([]int{4, 15, 6}, prog.Cells)

	_, err = parse(t, ".data $(bogus +)")
	assert.Error(err)
}

func TestLowercaseMnemonics(t *testing.T) {
	assert := assert.New(t)

	prog, err := parse(t, "get", "put", "hlt")
	assert.NoError(err)
	assert.Equal([]int{6, 7, 0}, prog.Cells)
}

func TestMachineImage(t *testing.T) {
	assert := assert.New(t)

	prog, err := parse(t,
		".in A",
		"GET",
		"PUT",
		"HLT",
	)
	assert.NoError(err)

	mc, err := prog.Machine()
	assert.NoError(err)

	err = mc.Run()
	assert.NoError(err)
	assert.Equal("A", mc.Output())
	assert.Equal("System halted!", mc.Reason)
}

func TestParseErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program []string
		expect  error
	}){
		{"equ_syntax", []string{".equ ONLY"}, ErrEquateSyntax},
		{"equ_duplicate", []string{".equ A 1", ".equ A 2"}, ErrEquateDuplicate},
		{"label_duplicate", []string{"a: HLT", "a: HLT"}, ErrLabelDuplicate},
		{"label_missing", []string{"JMP nowhere"}, ErrLabelMissing("nowhere")},
		{"opcode_invalid", []string{"NOP"}, ErrOpcodeInvalid},
		{"operand_missing", []string{"JMP"}, ErrOperandMissing},
		{"operand_extra", []string{"JMP 1 2"}, ErrOperandExtra},
		{"no_operand_allowed", []string{"HLT 1"}, ErrOperandExtra},
		{"data_syntax", []string{".data"}, ErrDataSyntax},
		{"data_range", []string{".data 16"}, ErrParseNumber("16")},
		{"reg_syntax", []string{".reg 00"}, ErrRegisterSyntax},
		{"in_syntax", []string{".in"}, ErrInputSyntax},
		{"too_long", []string{strings.Repeat("FLA\n", 17)}, ErrProgramTooLong},
	}

	for _, entry := range table {
		_, err := parse(t, entry.program...)
		assert.ErrorIs(err, entry.expect, entry.name)

		var syntax ErrSyntax
		assert.ErrorAs(err, &syntax, entry.name)
	}
}

func TestSyntaxLineNumbers(t *testing.T) {
	assert := assert.New(t)

	_, err := parse(t,
		"HLT",
		"GET 1",
	)

	var syntax ErrSyntax
	assert.ErrorAs(err, &syntax)
	assert.Equal(2, syntax.LineNo)
	assert.Contains(err.Error(), "line 2")
}

func FuzzParse(f *testing.F) {
	f.Add("GET\nPUT\nHLT\n")
	f.Add(".equ A 1\n.data A $(A+1)\nloop: DEL\nJNZ loop\n")
	f.Add(".reg 0000\n.in AB\n; comment\n")

	f.Fuzz(func(t *testing.T, input string) {
		assert := assert.New(t)

		as := &Assembler{}
		prog, err := as.Parse(strings.NewReader(input))
		if err != nil {
			return
		}

		// Anything that assembles must produce a valid image.
		if len(prog.Cells) <= machine.MEM_SIZE {
			memory, err := prog.Memory()
			assert.NoError(err)
			assert.Len(memory, machine.MEM_SIZE)
		}
	})
}
