package machine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestStepTable drives every opcode through one step and checks the full
// register string, so the flag packing is verified along with the result.
func TestStepTable(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name       string
		registers  string
		memory     string
		input      string
		want       string
		wantMemory string
		wantOutput string
		wantInput  string
	}){
		{name: "hlt", registers: "0000", memory: "0000000000000000", want: "1080"},
		{name: "jmp", registers: "0000", memory: "1F00000000000000", want: "F000"},
		{name: "jze_taken", registers: "0020", memory: "2500000000000000", want: "5020"},
		{name: "jze_skip", registers: "0000", memory: "2500000000000000", want: "2000"},
		{name: "jnz_taken", registers: "0000", memory: "3500000000000000", want: "5000"},
		{name: "jnz_skip", registers: "0020", memory: "3500000000000000", want: "2020"},
		{name: "lda", registers: "0000", memory: "4309000000000000", want: "2009"},
		{name: "lda_zero", registers: "0005", memory: "4200000000000000", want: "2020"},
		{name: "sta", registers: "000C", memory: "5400000000000000", want: "200C",
			wantMemory: "5400C00000000000"},
		{name: "get", registers: "0000", memory: "6000000000000000", input: "A", want: "100A"},
		{name: "get_zero", registers: "0005", memory: "6000000000000000", input: "0A",
			want: "1020", wantInput: "A"},
		{name: "put", registers: "0009", memory: "7000000000000000", want: "1009",
			wantOutput: "9"},
		{name: "rol_carry", registers: "000F", memory: "8000000000000000", want: "101E"},
		{name: "rol_overflow", registers: "0008", memory: "8000000000000000", want: "1070"},
		{name: "rol_carry_in", registers: "0013", memory: "8000000000000000", want: "1007"},
		{name: "ror_carry", registers: "000F", memory: "9000000000000000", want: "1057"},
		{name: "ror_carry_in", registers: "0014", memory: "9000000000000000", want: "104A"},
		{name: "adc_simple", registers: "0002", memory: "A250000000000000", want: "2007"},
		{name: "adc_wrap", registers: "0008", memory: "A280000000000000", want: "2070"},
		{name: "adc_msb_flip", registers: "0005", memory: "A250000000000000", want: "204A"},
		{name: "adc_carry_in", registers: "0013", memory: "A250000000000000", want: "2049"},
		{name: "ccf", registers: "0010", memory: "B000000000000000", want: "1000"},
		{name: "scf", registers: "0000", memory: "C000000000000000", want: "1010"},
		{name: "del", registers: "0100", memory: "D000000000000000", want: "1020"},
		{name: "del_wrap", registers: "0000", memory: "D000000000000000", want: "1F00"},
		{name: "ldl", registers: "0000", memory: "E307000000000000", want: "2700"},
		{name: "ldl_zero", registers: "0000", memory: "E200000000000000", want: "2020"},
		{name: "fla", registers: "0005", memory: "F000000000000000", want: "100A"},
	}

	for _, entry := range table {
		mc, err := New(entry.registers, entry.memory, entry.input)
		assert.NoError(err, entry.name)

		outcome, err := mc.Step()
		assert.NoError(err, entry.name)
		assert.Equal(CONTINUE, outcome, entry.name)

		assert.Equal(entry.want, mc.Registers(), entry.name)

		wantMemory := entry.wantMemory
		if wantMemory == "" {
			wantMemory = entry.memory
		}
		assert.Equal(wantMemory, mc.Memory(), entry.name)
		assert.Equal(entry.wantOutput, mc.Output(), entry.name)
		assert.Equal(entry.wantInput, mc.Input(), entry.name)

		assert.Equal(1, mc.Trace.Len(), entry.name)
	}
}

func TestStepHalted(t *testing.T) {
	assert := assert.New(t)

	mc, err := New("0080", zeroMemory, "")
	assert.NoError(err)

	outcome, err := mc.Step()
	assert.NoError(err)
	assert.Equal(HALTED, outcome)

	// Only the final snapshot, with blank action fields.
	assert.Equal(1, mc.Trace.Len())
	last := mc.Trace.Lines()[0]
	assert.Equal("0080", last.Registers)
	assert.Equal("", last.Op)
}

func TestRunImmediateHalt(t *testing.T) {
	assert := assert.New(t)

	mc, err := New("0000", zeroMemory, "")
	assert.NoError(err)

	err = mc.Run()
	assert.NoError(err)

	// One executed step plus the final snapshot.
	assert.Equal(2, mc.Trace.Len())
	assert.Equal("System halted!", mc.Reason)
	assert.Equal("", mc.Output())
	assert.Equal("1080", mc.Registers())
}

func TestRunEcho(t *testing.T) {
	assert := assert.New(t)

	// GET, PUT, HLT: echo one input digit to the output queue.
	mc, err := New("0000", "6700000000000000", "A")
	assert.NoError(err)

	err = mc.Run()
	assert.NoError(err)

	assert.Equal(10, mc.AC())
	assert.Equal("A", mc.Output())
	assert.Equal("System halted!", mc.Reason)

	// Three executed steps plus the final snapshot.
	assert.Equal(4, mc.Trace.Len())

	lines := mc.Trace.Lines()
	assert.Equal("GET", lines[0].Op)
	assert.Equal("A", lines[0].Input)
	assert.Equal("PUT", lines[1].Op)
	assert.Equal("A", lines[1].Output)
	assert.Equal("HLT", lines[2].Op)
	assert.Equal("308A", lines[3].Registers)
	assert.Equal("", lines[3].Op)
}

func TestRunStarved(t *testing.T) {
	assert := assert.New(t)

	mc, err := New("0007", "6000000000000000", "")
	assert.NoError(err)

	err = mc.Run()
	assert.ErrorIs(err, ErrStarved)

	assert.Contains(mc.Reason, "Starved for input!")
	// The failed GET leaves the accumulator untouched.
	assert.Equal(7, mc.AC())
	assert.Equal(0, mc.IP())

	// No step completed; the trace still closes with a snapshot.
	assert.Equal(1, mc.Trace.Len())
}

func TestRunCountdown(t *testing.T) {
	assert := assert.New(t)

	// LDL 7; loop: DEL; JNZ loop; HLT; data 3 at cell 7.
	mc, err := New("0000", "E7D3200300000000", "")
	assert.NoError(err)

	err = mc.Run()
	assert.NoError(err)

	assert.Equal(0, mc.LI())
	assert.True(mc.ZF())
	assert.Equal("System halted!", mc.Reason)

	// LDL + 3x(DEL, JNZ) + HLT executed, plus the final snapshot.
	assert.Equal(9, mc.Trace.Len())
}

func TestRunResets(t *testing.T) {
	assert := assert.New(t)

	mc, err := New("0000", "6700000000000000", "AB")
	assert.NoError(err)

	assert.NoError(mc.Run())
	assert.Equal("A", mc.Output())

	// A fresh run resets the trace and output queue; the input queue
	// carries over and the halt flag is still set.
	assert.NoError(mc.Run())
	assert.Equal("", mc.Output())
	assert.Equal(1, mc.Trace.Len())
	assert.Equal("B", mc.Input())
	assert.Equal("System halted!", mc.Reason)
}

func TestOpcodeTableTotal(t *testing.T) {
	assert := assert.New(t)

	withOperand := map[Op]bool{
		OP_JMP: true, OP_JZE: true, OP_JNZ: true, OP_LDA: true,
		OP_STA: true, OP_ADC: true, OP_LDL: true,
	}

	// Every memory digit 0-15 decodes to a defined opcode.
	for n := range 16 {
		op := Op(n)
		assert.False(strings.HasPrefix(op.String(), "Op("), "Op(%v)", n)
		assert.Len(op.String(), 3, "Op(%v)", n)

		back, ok := OpByName(op.String())
		assert.True(ok, op.String())
		assert.Equal(op, back)

		assert.Equal(withOperand[op], op.HasOperand(), op.String())
	}

	_, ok := OpByName("XYZ")
	assert.False(ok)
	assert.Equal("Op(16)", Op(16).String())
}

func TestDefines(t *testing.T) {
	assert := assert.New(t)

	defines := map[string]string{}
	for name, value := range Defines() {
		defines[name] = value
	}

	assert.Equal("0", defines["HLT"])
	assert.Equal("15", defines["FLA"])
	assert.Equal("16", defines["MEM_SIZE"])
	assert.Equal("3", defines["REG_AC"])
}
