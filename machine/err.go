package machine

import (
	"errors"

	"github.com/ezrec/unib/translate"
)

var f = translate.From

var (
	// State construction errors
	ErrBadRegisters = errors.New(f("registers must be exactly 4 hex digits"))
	ErrBadMemory    = errors.New(f("memory must be exactly 16 hex digits"))
	ErrBadInput     = errors.New(f("input must be hex digits"))

	// Run errors. Both become the halt reason of the failed run.
	ErrStarved       = errors.New(f("Starved for input!"))
	ErrUnknownOpcode = errors.New(f("Unknown opcode!"))
)
