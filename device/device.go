// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package device defines the interface through which the debugger drives an
// emulated machine, along with the register and instruction types exchanged
// across it.
//
// Every operation is synchronous: its side effect is complete and visible
// when it returns. The package also provides a flat 64K memory device and an
// RPC transport that lets the debugger drive a device living in another
// process.
package device

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrUnknownDecoder = errors.New("unknown decoder")
	ErrRegionSize     = errors.New("invalid region size")
)

// A Decoder selects the instruction decoder a device uses after a reset.
type Decoder string

// Supported decoders.
const (
	DecoderTable   Decoder = "table"
	DecoderLogical Decoder = "logical"
)

// ParseDecoder converts a decoder name into a Decoder.
func ParseDecoder(s string) (Decoder, error) {
	switch d := Decoder(s); d {
	case DecoderTable, DecoderLogical:
		return d, nil
	default:
		return "", fmt.Errorf("%w '%s'", ErrUnknownDecoder, s)
	}
}

// The Device interface is implemented by emulated machines that can be
// driven by the debugger.
type Device interface {
	// Step executes a single instruction.
	Step() error

	// ReadRegisters returns a snapshot of the CPU registers.
	ReadRegisters() (Registers, error)

	// ReadRegion returns size bytes of memory starting at base.
	ReadRegion(base uint16, size int) ([]byte, error)

	// WriteMemory stores a byte at the requested address.
	WriteMemory(addr uint16, v byte) error

	// Disassemble decodes count instructions starting at the current
	// program counter.
	Disassemble(count int) ([]Instruction, error)

	// Reset returns the machine to its initial state with the image file
	// loaded, using the requested instruction decoder.
	Reset(d Decoder, image string) error
}

// An Instruction is a single decoded instruction returned by a device.
type Instruction struct {
	Address  uint16 // address of the first instruction byte
	Data     []byte // raw instruction bytes in memory order
	Assembly string // assembly language rendering
	CommentA string // optional comment
	CommentB string // optional second comment
}
