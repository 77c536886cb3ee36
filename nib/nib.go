// Package nib converts between small integers (0-15) and their 4-bit
// hexadecimal and binary textual representations for the μNIB system.
//
// Every register and memory cell of the machine is a single nibble; the
// machine state keeps its canonical form as hex digit characters, so all
// arithmetic round-trips through these conversions.
package nib

import (
	"fmt"
	"strings"
)

const digits = "0123456789ABCDEF"

// Hex returns the single uppercase hex digit for n.
func Hex(n int) (digit byte, err error) {
	if n < 0 || n > 15 {
		err = ErrOutOfRange(n)
		return
	}

	digit = digits[n]
	return
}

// Bits returns the 4-character zero-padded binary expansion of n,
// most significant bit first.
func Bits(n int) (bits string, err error) {
	if n < 0 || n > 15 {
		err = ErrOutOfRange(n)
		return
	}

	bits = fmt.Sprintf("%04b", n)
	return
}

// Sign returns the most significant bit of n's 4-bit expansion, as the
// byte '0' or '1'. The machine treats it as a pseudo-sign for overflow
// detection; values are unsigned, so this is only the MSB, not a true
// two's-complement sign.
func Sign(n int) (bit byte, err error) {
	bits, err := Bits(n)
	if err != nil {
		return
	}

	bit = bits[0]
	return
}

// Parse returns the value of a single hex digit character.
func Parse(digit byte) (n int, err error) {
	n = strings.IndexByte(digits, digit)
	if n < 0 {
		err = ErrNotHex(digit)
	}
	return
}

// ParseBits returns the value of a 4-character binary expansion.
func ParseBits(bits string) (n int, err error) {
	if len(bits) != 4 {
		err = ErrNotBits(bits)
		return
	}

	for _, bit := range []byte(bits) {
		n <<= 1
		switch bit {
		case '1':
			n |= 1
		case '0':
		default:
			n = 0
			err = ErrNotBits(bits)
			return
		}
	}
	return
}
