package nib

import (
	"github.com/ezrec/unib/translate"
)

var f = translate.From

// ErrOutOfRange indicates a value outside the 0-15 nibble range.
type ErrOutOfRange int

func (err ErrOutOfRange) Error() string {
	return f("value %v out of nibble range", int(err))
}

func (err ErrOutOfRange) Is(other error) (ok bool) {
	_, ok = other.(ErrOutOfRange)
	return
}

// ErrNotHex indicates a character that is not an uppercase hex digit.
type ErrNotHex byte

func (err ErrNotHex) Error() string {
	return f("'%c' is not a hex digit", byte(err))
}

func (err ErrNotHex) Is(other error) (ok bool) {
	_, ok = other.(ErrNotHex)
	return
}

// ErrNotBits indicates a string that is not a 4-character binary expansion.
type ErrNotBits string

func (err ErrNotBits) Error() string {
	return f("'%v' is not a 4-bit expansion", string(err))
}

func (err ErrNotBits) Is(other error) (ok bool) {
	_, ok = other.(ErrNotBits)
	return
}
