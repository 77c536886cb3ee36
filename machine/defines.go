package machine

import (
	"fmt"
	"iter"
	"maps"

	"github.com/ezrec/unib/internal"
)

var _machine_defines = map[string]string{
	"MEM_SIZE": fmt.Sprintf("%v", MEM_SIZE),
	"REG_IP":   fmt.Sprintf("%v", REG_IP),
	"REG_LI":   fmt.Sprintf("%v", REG_LI),
	"REG_FR":   fmt.Sprintf("%v", REG_FR),
	"REG_AC":   fmt.Sprintf("%v", REG_AC),
}

// Defines returns assembler equates for the machine: every opcode
// mnemonic bound to its code, plus the layout constants.
func Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_machine_defines), opDefines())
}

func opDefines() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for n, name := range opNames {
			if !yield(name, fmt.Sprintf("%v", n)) {
				return
			}
		}
	}
}
