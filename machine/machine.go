// Copyright 2026, Jason S. McMullan <jason.mcmullan@gmail.com>

package machine

import (
	"log"

	"github.com/ezrec/unib/nib"
	"github.com/ezrec/unib/trace"
)

// Outcome of a single execution step.
type Outcome int

const (
	CONTINUE = Outcome(0) // Keep stepping.
	HALTED   = Outcome(1) // Halt flag observed, run complete.
)

// hexString renders a nibble value for a trace field.
func hexString(n int) string {
	digit, err := nib.Hex(n)
	if err != nil {
		panic(err)
	}

	return string(digit)
}

// signChanged reports whether the MSB of a and b differ. The machine uses
// the MSB as a pseudo-sign when deciding the overflow flag.
func signChanged(a int, b int) (changed bool, err error) {
	sa, err := nib.Sign(a)
	if err != nil {
		return
	}

	sb, err := nib.Sign(b)
	if err != nil {
		return
	}

	changed = sa != sb
	return
}

// Step executes one fetch-decode-execute cycle.
//
// A halted machine emits the final trace line and reports HALTED. A
// running machine dispatches on the memory digit under the Instruction
// Pointer, mutates state, and appends one trace line recording the state
// the step was decided from along with the opcode, operand, and any
// input or output it touched. A step error aborts without appending.
func (mc *Machine) Step() (outcome Outcome, err error) {
	if mc.HF() {
		mc.Trace.Append(trace.Line{
			Registers: mc.Registers(),
			Memory:    mc.Memory(),
		})
		outcome = HALTED
		return
	}

	line := trace.Line{
		Registers: mc.Registers(),
		Memory:    mc.Memory(),
		Operand:   trace.Blank,
		Input:     trace.Blank,
		Output:    trace.Blank,
	}

	op := Op(mc.PointerValue())
	line.Op = op.String()

	var operand int
	if op.HasOperand() {
		operand = mc.ValueAt(mc.IP() + 1)
		line.Operand = hexString(operand)
	}

	if mc.Verbose {
		log.Printf("machine: ip=%X %v %v", mc.IP(), op, line.Operand)
	}

	switch op {
	case OP_HLT:
		err = mc.opHalt()
	case OP_JMP:
		err = mc.SetIP(operand)
	case OP_JZE:
		err = mc.opJumpIf(operand, mc.ZF())
	case OP_JNZ:
		err = mc.opJumpIf(operand, !mc.ZF())
	case OP_LDA:
		err = mc.opLoadAcc(operand)
	case OP_STA:
		err = mc.opStoreAcc(operand)
	case OP_GET:
		err = mc.opInput(&line)
	case OP_PUT:
		err = mc.opOutput(&line)
	case OP_ROL:
		err = mc.opRotateLeft()
	case OP_ROR:
		err = mc.opRotateRight()
	case OP_ADC:
		err = mc.opAddCarry(operand)
	case OP_CCF:
		err = mc.opCarry(false)
	case OP_SCF:
		err = mc.opCarry(true)
	case OP_DEL:
		err = mc.opDecrementLoop()
	case OP_LDL:
		err = mc.opLoadLoop(operand)
	case OP_FLA:
		err = mc.opFlipAcc()
	default:
		// Unreachable from a valid memory image; every digit 0-15
		// decodes to a defined opcode.
		err = ErrUnknownOpcode
	}
	if err != nil {
		return
	}

	mc.Trace.Append(line)
	return
}

// Run executes the machine until the halt flag is observed or a step
// fails. The trace, output queue, and halt reason reset at the start of
// each run; the input queue carries over whatever remains unconsumed.
// Any error becomes the halt reason, and the trace is still closed with
// a final snapshot so every abort path stays renderable.
func (mc *Machine) Run() (err error) {
	mc.Trace.Reset()
	mc.output = mc.output[:0]
	mc.Reason = ""

	if mc.Verbose {
		log.Printf("machine: run %v %v in=%v", mc.Registers(), mc.Memory(), mc.Input())
	}

	for {
		var outcome Outcome
		outcome, err = mc.Step()
		if err != nil {
			mc.Reason = err.Error()
			mc.Trace.Append(trace.Line{
				Registers: mc.Registers(),
				Memory:    mc.Memory(),
			})
			return
		}

		if outcome == HALTED {
			if mc.Reason == "" {
				mc.Reason = f("System halted!")
			}
			return
		}
	}
}

// opHalt sets the halt flag; the next step emits the final trace line and
// ends the run.
func (mc *Machine) opHalt() (err error) {
	err = mc.SetHF(true)
	if err != nil {
		return
	}

	err = mc.IncrementIP(1)
	if err != nil {
		return
	}

	mc.Reason = f("System halted!")
	return
}

// opJumpIf jumps to the operand address when taken, otherwise skips past
// the operand cell.
func (mc *Machine) opJumpIf(operand int, taken bool) (err error) {
	if taken {
		return mc.SetIP(operand)
	}

	return mc.IncrementIP(2)
}

// opLoadAcc loads the accumulator from memory.
func (mc *Machine) opLoadAcc(operand int) (err error) {
	value := mc.ValueAt(operand)

	err = mc.SetAC(value)
	if err != nil {
		return
	}

	err = mc.SetZF(value == 0)
	if err != nil {
		return
	}

	return mc.IncrementIP(2)
}

// opStoreAcc stores the accumulator to memory.
func (mc *Machine) opStoreAcc(operand int) (err error) {
	err = mc.EditMemory(operand, mc.AC())
	if err != nil {
		return
	}

	return mc.IncrementIP(2)
}

// opInput pops the input queue into the accumulator. An empty queue is
// input starvation, fatal to the run; the accumulator is left untouched.
func (mc *Machine) opInput(line *trace.Line) (err error) {
	value, ok := mc.NextInput()
	if !ok {
		err = ErrStarved
		return
	}

	line.Input = hexString(value)

	err = mc.SetAC(value)
	if err != nil {
		return
	}

	err = mc.SetZF(value == 0)
	if err != nil {
		return
	}

	return mc.IncrementIP(1)
}

// opOutput appends the accumulator to the output queue.
func (mc *Machine) opOutput(line *trace.Line) (err error) {
	value := mc.AC()

	err = mc.pushOutput(value)
	if err != nil {
		return
	}

	line.Output = hexString(value)

	return mc.IncrementIP(1)
}

// opRotateLeft rotates the accumulator left through the carry flag. The
// overflow flag records any MSB change.
func (mc *Machine) opRotateLeft() (err error) {
	old := mc.AC()

	next := old * 2
	if mc.CF() {
		next++
	}

	carry := next >= 16
	if carry {
		next -= 16
	}

	overflow, err := signChanged(old, next)
	if err != nil {
		return
	}

	err = mc.SetAC(next)
	if err != nil {
		return
	}

	err = mc.SetCF(carry)
	if err != nil {
		return
	}

	err = mc.SetOF(overflow)
	if err != nil {
		return
	}

	err = mc.SetZF(next == 0)
	if err != nil {
		return
	}

	return mc.IncrementIP(1)
}

// opRotateRight rotates the accumulator right through the carry flag.
func (mc *Machine) opRotateRight() (err error) {
	old := mc.AC()

	next := old / 2
	if mc.CF() {
		next += 8
	}

	carry := old%2 == 1

	overflow, err := signChanged(old, next)
	if err != nil {
		return
	}

	err = mc.SetAC(next)
	if err != nil {
		return
	}

	err = mc.SetCF(carry)
	if err != nil {
		return
	}

	err = mc.SetOF(overflow)
	if err != nil {
		return
	}

	err = mc.SetZF(next == 0)
	if err != nil {
		return
	}

	return mc.IncrementIP(1)
}

// opAddCarry adds a memory value and the carry flag to the accumulator.
// Overflow is flagged when both addends share an MSB that the wrapped sum
// does not; values are unsigned, so this mirrors two's-complement overflow
// in shape only.
func (mc *Machine) opAddCarry(operand int) (err error) {
	old := mc.AC()
	value := mc.ValueAt(operand)

	sum := old + value
	if mc.CF() {
		sum++
	}

	carry := sum >= 16
	if carry {
		sum -= 16
	}

	sameSign, err := signChanged(old, value)
	if err != nil {
		return
	}
	sameSign = !sameSign

	flipped, err := signChanged(old, sum)
	if err != nil {
		return
	}

	err = mc.SetAC(sum)
	if err != nil {
		return
	}

	err = mc.SetCF(carry)
	if err != nil {
		return
	}

	err = mc.SetOF(sameSign && flipped)
	if err != nil {
		return
	}

	err = mc.SetZF(sum == 0)
	if err != nil {
		return
	}

	return mc.IncrementIP(2)
}

// opCarry sets or clears the carry flag.
func (mc *Machine) opCarry(value bool) (err error) {
	err = mc.SetCF(value)
	if err != nil {
		return
	}

	return mc.IncrementIP(1)
}

// opDecrementLoop lowers the loop index by one, wrapping below zero.
func (mc *Machine) opDecrementLoop() (err error) {
	err = mc.DecrementLI(1)
	if err != nil {
		return
	}

	err = mc.SetZF(mc.LI() == 0)
	if err != nil {
		return
	}

	return mc.IncrementIP(1)
}

// opLoadLoop loads the loop index from memory.
func (mc *Machine) opLoadLoop(operand int) (err error) {
	value := mc.ValueAt(operand)

	err = mc.SetLI(value)
	if err != nil {
		return
	}

	err = mc.SetZF(value == 0)
	if err != nil {
		return
	}

	return mc.IncrementIP(2)
}

// opFlipAcc complements the accumulator within the nibble range.
func (mc *Machine) opFlipAcc() (err error) {
	err = mc.SetAC(15 - mc.AC())
	if err != nil {
		return
	}

	return mc.IncrementIP(1)
}
