package machine

import (
	"github.com/ezrec/unib/nib"
	"github.com/ezrec/unib/trace"
)

const (
	REG_COUNT = 4  // Register string width
	MEM_SIZE  = 16 // Memory string width
)

// Register string positions.
const (
	REG_IP = 0 // Instruction Pointer
	REG_LI = 1 // Loop Index
	REG_FR = 2 // Flag Register
	REG_AC = 3 // Accumulator
)

// Flag Register bit positions, most significant bit first.
const (
	FLAG_HALT     = 0 // HF
	FLAG_OVERFLOW = 1 // OF
	FLAG_ZERO     = 2 // ZF
	FLAG_CARRY    = 3 // CF
)

// Machine is the complete state of one μNIB computer. It is created with
// a starting register string, memory string, and input queue, and mutated
// in place by every opcode handler during a run. A halted machine remains
// fully inspectable.
type Machine struct {
	Verbose bool // Set to enable verbose logging.

	Trace  trace.Log // Execution history of the current run.
	Reason string    // Why the last run stopped.

	regs   [REG_COUNT]byte // Register hex digits: IP LI FR AC.
	mem    [MEM_SIZE]byte  // Memory hex digits.
	input  []byte          // Pending input hex digits, consumed from the front.
	output []byte          // Produced output hex digits, append only.
}

// New creates a machine from a 4-digit register string, a 16-digit memory
// string, and a queue of input hex digits.
func New(registers string, memory string, input string) (mc *Machine, err error) {
	mc = &Machine{}

	err = mc.SetRegisters(registers)
	if err != nil {
		return
	}

	err = mc.SetMemory(memory)
	if err != nil {
		return
	}

	err = mc.SetInput(input)
	return
}

// Registers returns the 4-digit register string.
func (mc *Machine) Registers() string {
	return string(mc.regs[:])
}

// SetRegisters replaces the register string. The replacement must be
// exactly 4 hex digits.
func (mc *Machine) SetRegisters(registers string) (err error) {
	if len(registers) != REG_COUNT {
		err = ErrBadRegisters
		return
	}

	for n := range REG_COUNT {
		_, err = nib.Parse(registers[n])
		if err != nil {
			err = ErrBadRegisters
			return
		}
	}

	copy(mc.regs[:], registers)
	return
}

// Memory returns the 16-digit memory string.
func (mc *Machine) Memory() string {
	return string(mc.mem[:])
}

// SetMemory replaces the memory string. The replacement must be exactly
// 16 hex digits.
func (mc *Machine) SetMemory(memory string) (err error) {
	if len(memory) != MEM_SIZE {
		err = ErrBadMemory
		return
	}

	for n := range MEM_SIZE {
		_, err = nib.Parse(memory[n])
		if err != nil {
			err = ErrBadMemory
			return
		}
	}

	copy(mc.mem[:], memory)
	return
}

// Input returns the pending input queue as hex digits, front first.
func (mc *Machine) Input() string {
	return string(mc.input)
}

// SetInput replaces the input queue with a string of hex digits.
func (mc *Machine) SetInput(input string) (err error) {
	for n := range len(input) {
		_, err = nib.Parse(input[n])
		if err != nil {
			err = ErrBadInput
			return
		}
	}

	mc.input = append(mc.input[:0], input...)
	return
}

// Output returns the output queue as hex digits, oldest first.
func (mc *Machine) Output() string {
	return string(mc.output)
}

// reg reads the register at position index as an integer.
func (mc *Machine) reg(index int) int {
	n, err := nib.Parse(mc.regs[index])
	if err != nil {
		// Mutators only ever write hex digits.
		panic(err)
	}

	return n
}

// setReg re-encodes the absolute value of n as a hex digit and splices it
// into the register string. Callers wrap before assignment; a magnitude
// above 15 is an engine defect reported as ErrOutOfRange.
func (mc *Machine) setReg(index int, n int) (err error) {
	if n < 0 {
		n = -n
	}

	digit, err := nib.Hex(n)
	if err != nil {
		return
	}

	mc.regs[index] = digit
	return
}

// IP returns the Instruction Pointer.
func (mc *Machine) IP() int { return mc.reg(REG_IP) }

// LI returns the Loop Index.
func (mc *Machine) LI() int { return mc.reg(REG_LI) }

// FR returns the Flag Register.
func (mc *Machine) FR() int { return mc.reg(REG_FR) }

// AC returns the Accumulator.
func (mc *Machine) AC() int { return mc.reg(REG_AC) }

// SetIP sets the Instruction Pointer.
func (mc *Machine) SetIP(n int) error { return mc.setReg(REG_IP, n) }

// SetLI sets the Loop Index.
func (mc *Machine) SetLI(n int) error { return mc.setReg(REG_LI, n) }

// SetFR sets the Flag Register.
func (mc *Machine) SetFR(n int) error { return mc.setReg(REG_FR, n) }

// SetAC sets the Accumulator.
func (mc *Machine) SetAC(n int) error { return mc.setReg(REG_AC, n) }

// Flags returns the Flag Register's 4-bit expansion [HF OF ZF CF],
// most significant bit first.
func (mc *Machine) Flags() string {
	bits, err := nib.Bits(mc.FR())
	if err != nil {
		panic(err)
	}

	return bits
}

// SetFlags re-packs a 4-bit expansion into the Flag Register.
func (mc *Machine) SetFlags(bits string) (err error) {
	n, err := nib.ParseBits(bits)
	if err != nil {
		return
	}

	return mc.SetFR(n)
}

// flag reads one Flag Register bit as a boolean.
func (mc *Machine) flag(position int) bool {
	return mc.Flags()[position] == '1'
}

// setFlag replaces one Flag Register bit.
func (mc *Machine) setFlag(position int, value bool) (err error) {
	bits := []byte(mc.Flags())

	bits[position] = '0'
	if value {
		bits[position] = '1'
	}

	return mc.SetFlags(string(bits))
}

// HF returns the Halt Flag.
func (mc *Machine) HF() bool { return mc.flag(FLAG_HALT) }

// OF returns the Overflow Flag.
func (mc *Machine) OF() bool { return mc.flag(FLAG_OVERFLOW) }

// ZF returns the Zero Flag.
func (mc *Machine) ZF() bool { return mc.flag(FLAG_ZERO) }

// CF returns the Carry Flag.
func (mc *Machine) CF() bool { return mc.flag(FLAG_CARRY) }

// SetHF sets the Halt Flag.
func (mc *Machine) SetHF(value bool) error { return mc.setFlag(FLAG_HALT, value) }

// SetOF sets the Overflow Flag.
func (mc *Machine) SetOF(value bool) error { return mc.setFlag(FLAG_OVERFLOW, value) }

// SetZF sets the Zero Flag.
func (mc *Machine) SetZF(value bool) error { return mc.setFlag(FLAG_ZERO, value) }

// SetCF sets the Carry Flag.
func (mc *Machine) SetCF(value bool) error { return mc.setFlag(FLAG_CARRY, value) }

// IncrementIP advances the Instruction Pointer by amount, wrapping above
// 15. Amounts are always small, so a single correction suffices.
func (mc *Machine) IncrementIP(amount int) error {
	n := mc.IP() + amount
	if n > 15 {
		n -= MEM_SIZE
	}

	return mc.SetIP(n)
}

// DecrementLI lowers the Loop Index by amount, wrapping below zero.
func (mc *Machine) DecrementLI(amount int) error {
	n := mc.LI() - amount
	if n < 0 {
		n += MEM_SIZE
	}

	return mc.SetLI(n)
}

// wrap folds an index into the memory range. Indexes only ever stray one
// width in either direction.
func wrap(index int) int {
	if index > 15 {
		index -= MEM_SIZE
	} else if index < 0 {
		index += MEM_SIZE
	}

	return index
}

// ValueAt returns the memory digit at a wrapped index as an integer.
func (mc *Machine) ValueAt(index int) int {
	n, err := nib.Parse(mc.mem[wrap(index)])
	if err != nil {
		panic(err)
	}

	return n
}

// EditMemory splices the hex encoding of n into memory at a wrapped index.
func (mc *Machine) EditMemory(index int, n int) (err error) {
	digit, err := nib.Hex(n)
	if err != nil {
		return
	}

	mc.mem[wrap(index)] = digit
	return
}

// PointerValue returns the memory digit under the Instruction Pointer:
// the current opcode.
func (mc *Machine) PointerValue() int {
	return mc.ValueAt(mc.IP())
}

// NextInput pops the front of the input queue. ok is false when the
// queue is empty.
func (mc *Machine) NextInput() (n int, ok bool) {
	if len(mc.input) == 0 {
		return
	}

	n, err := nib.Parse(mc.input[0])
	if err != nil {
		panic(err)
	}

	mc.input = mc.input[1:]
	return n, true
}

// pushOutput appends a value to the output queue.
func (mc *Machine) pushOutput(n int) (err error) {
	digit, err := nib.Hex(n)
	if err != nil {
		return
	}

	mc.output = append(mc.output, digit)
	return
}
