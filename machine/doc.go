// Package machine implements the μNIB 4-bit instructional computer.
//
// The machine consists of four 4-bit registers (Instruction Pointer, Loop
// Index, Flag Register, Accumulator), sixteen 4-bit memory cells, and
// bounded input/output queues. The canonical state is kept as hex digit
// characters, exactly as a user enters and inspects it; typed accessors
// convert through the nib package. All addressing wraps modulo 16.
//
// The execution engine is an iterative fetch-decode-execute loop over a
// 16-opcode instruction set, recording one trace line per executed step
// plus a final snapshot of the halted state.
package machine
