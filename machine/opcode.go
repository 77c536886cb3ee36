package machine

import (
	"fmt"
)

// Op is a μNIB opcode. Every value 0-15 names a defined operation, so any
// single memory digit decodes to a valid opcode.
type Op int

const (
	OP_HLT = Op(0)  // Halt execution
	OP_JMP = Op(1)  // Jump to operand address
	OP_JZE = Op(2)  // Jump if zero flag set
	OP_JNZ = Op(3)  // Jump if zero flag clear
	OP_LDA = Op(4)  // Load accumulator from memory
	OP_STA = Op(5)  // Store accumulator to memory
	OP_GET = Op(6)  // Pop input queue into accumulator
	OP_PUT = Op(7)  // Push accumulator to output queue
	OP_ROL = Op(8)  // Rotate accumulator left through carry
	OP_ROR = Op(9)  // Rotate accumulator right through carry
	OP_ADC = Op(10) // Add memory and carry to accumulator
	OP_CCF = Op(11) // Clear carry flag
	OP_SCF = Op(12) // Set carry flag
	OP_DEL = Op(13) // Decrement loop index
	OP_LDL = Op(14) // Load loop index from memory
	OP_FLA = Op(15) // Flip (complement) accumulator
)

var opNames = [16]string{
	"HLT", "JMP", "JZE", "JNZ",
	"LDA", "STA", "GET", "PUT",
	"ROL", "ROR", "ADC", "CCF",
	"SCF", "DEL", "LDL", "FLA",
}

// String returns the opcode mnemonic.
func (op Op) String() string {
	if op < 0 || op > 15 {
		return fmt.Sprintf("Op(%d)", int(op))
	}

	return opNames[op]
}

// HasOperand reports whether the opcode consumes the next memory cell as
// an operand.
func (op Op) HasOperand() bool {
	switch op {
	case OP_JMP, OP_JZE, OP_JNZ, OP_LDA, OP_STA, OP_ADC, OP_LDL:
		return true
	}

	return false
}

// OpByName returns the opcode for a mnemonic.
func OpByName(name string) (op Op, ok bool) {
	for n, opname := range opNames {
		if opname == name {
			return Op(n), true
		}
	}

	return Op(-1), false
}
