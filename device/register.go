// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package device

// Registers contains a point-in-time copy of the CPU's 16-bit register
// pairs.
type Registers struct {
	AF uint16 // accumulator and flags
	BC uint16
	DE uint16
	HL uint16
	SP uint16 // stack pointer
	PC uint16 // program counter
}

// Bits of the flags register (the low byte of AF).
const (
	CarryBit     = 1 << 4
	HalfCarryBit = 1 << 5
	SubtractBit  = 1 << 6
	ZeroBit      = 1 << 7
)

// Names of the 16-bit register pairs and 8-bit registers, in display order.
var (
	Names16 = []string{"af", "bc", "de", "hl", "sp", "pc"}
	Names8  = []string{"a", "b", "c", "d", "e", "f", "h", "l"}
)

// Get16 returns the value of the named 16-bit register pair. The name must
// be lower case.
func (r *Registers) Get16(name string) (uint16, bool) {
	switch name {
	case "af":
		return r.AF, true
	case "bc":
		return r.BC, true
	case "de":
		return r.DE, true
	case "hl":
		return r.HL, true
	case "sp":
		return r.SP, true
	case "pc":
		return r.PC, true
	default:
		return 0, false
	}
}

// Flags returns the contents of the flags register.
func (r *Registers) Flags() byte {
	return byte(r.AF)
}

// Is16 reports whether name identifies a 16-bit register pair.
func Is16(name string) bool {
	return contains(Names16, name)
}

// Is8 reports whether name identifies an 8-bit register.
func Is8(name string) bool {
	return contains(Names8, name)
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
