package snapshot

import (
	"errors"

	"github.com/ezrec/unib/translate"
)

var f = translate.From

var (
	ErrBadRegisters = errors.New(f("registers must be 4 hex digits"))
	ErrBadMemory    = errors.New(f("memory must be 16 hex digits"))
	ErrBadInput     = errors.New(f("input must be hex digits"))
)
