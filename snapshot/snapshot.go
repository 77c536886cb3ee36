// Package snapshot loads and saves μNIB machine images as TOML files.
//
// An image holds the validated fixed-width state a machine run starts
// from: the 4-digit register string, the 16-digit memory string, and the
// input queue. Validation of user-supplied strings happens here, before
// any machine is constructed.
package snapshot

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/ezrec/unib/machine"
	"github.com/ezrec/unib/nib"
)

// Snapshot represents one machine image file.
type Snapshot struct {
	Registers string `toml:"registers"` // IP LI FR AC hex digits.
	Memory    string `toml:"memory"`    // 16 hex digits.
	Input     string `toml:"input"`     // Input queue hex digits, front first.
}

// hexDigits reports whether every character of a string is a hex digit.
func hexDigits(text string) bool {
	for n := range len(text) {
		_, err := nib.Parse(text[n])
		if err != nil {
			return false
		}
	}

	return true
}

// Validate normalizes and checks the image. Empty registers and memory
// default to all zeros; lowercase hex is accepted and uppercased.
func (sn *Snapshot) Validate() (err error) {
	if sn.Registers == "" {
		sn.Registers = "0000"
	}
	if sn.Memory == "" {
		sn.Memory = "0000000000000000"
	}

	sn.Registers = upperHex(sn.Registers)
	sn.Memory = upperHex(sn.Memory)
	sn.Input = upperHex(sn.Input)

	if len(sn.Registers) != machine.REG_COUNT || !hexDigits(sn.Registers) {
		err = ErrBadRegisters
		return
	}

	if len(sn.Memory) != machine.MEM_SIZE || !hexDigits(sn.Memory) {
		err = ErrBadMemory
		return
	}

	if !hexDigits(sn.Input) {
		err = ErrBadInput
	}
	return
}

// upperHex uppercases the letter digits of a hex string.
func upperHex(text string) string {
	raised := []byte(text)
	for n, ch := range raised {
		if ch >= 'a' && ch <= 'f' {
			raised[n] = ch - 'a' + 'A'
		}
	}

	return string(raised)
}

// Machine constructs a machine from a validated image.
func (sn *Snapshot) Machine() (mc *machine.Machine, err error) {
	err = sn.Validate()
	if err != nil {
		return
	}

	return machine.New(sn.Registers, sn.Memory, sn.Input)
}

// FromMachine captures a machine's current state as an image.
func FromMachine(mc *machine.Machine) *Snapshot {
	return &Snapshot{
		Registers: mc.Registers(),
		Memory:    mc.Memory(),
		Input:     mc.Input(),
	}
}

// Load parses and validates an image file.
func Load(path string) (sn *Snapshot, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	sn = &Snapshot{}
	err = toml.Unmarshal(data, sn)
	if err != nil {
		sn = nil
		return
	}

	err = sn.Validate()
	if err != nil {
		sn = nil
	}
	return
}

// Save writes the image to a file.
func (sn *Snapshot) Save(path string) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return
	}
	defer file.Close()

	return toml.NewEncoder(file).Encode(sn)
}
