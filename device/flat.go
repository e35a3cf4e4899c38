// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package device

import (
	"fmt"
	"os"
	"path/filepath"
)

// Flat is a Device backed by a flat 64K address space. It carries no
// instruction decoder: every step advances the program counter by one byte,
// and disassembly renders each byte as a data directive. It is useful for
// inspecting memory images when no emulator is attached.
type Flat struct {
	Mem     *FlatMemory
	Reg     Registers
	Steps   uint64 // instructions stepped since the last reset
	decoder Decoder
}

// NewFlat creates a flat device with zeroed memory and registers.
func NewFlat() *Flat {
	return &Flat{
		Mem:     NewFlatMemory(),
		decoder: DecoderTable,
	}
}

// Decoder returns the decoder selected by the most recent reset.
func (f *Flat) Decoder() Decoder {
	return f.decoder
}

// Step advances the program counter by one byte.
func (f *Flat) Step() error {
	f.Reg.PC++
	f.Steps++
	return nil
}

// ReadRegisters returns a copy of the registers.
func (f *Flat) ReadRegisters() (Registers, error) {
	return f.Reg, nil
}

// ReadRegion returns size bytes starting at base.
func (f *Flat) ReadRegion(base uint16, size int) ([]byte, error) {
	if size < 0 || size > len(f.Mem.b) {
		return nil, fmt.Errorf("%w: %d", ErrRegionSize, size)
	}
	b := make([]byte, size)
	f.Mem.LoadBytes(base, b)
	return b, nil
}

// WriteMemory stores a byte at the requested address.
func (f *Flat) WriteMemory(addr uint16, v byte) error {
	f.Mem.StoreByte(addr, v)
	return nil
}

// Disassemble returns count one-byte data directives starting at the
// program counter.
func (f *Flat) Disassemble(count int) ([]Instruction, error) {
	insts := make([]Instruction, 0, count)
	addr := f.Reg.PC
	for i := 0; i < count; i++ {
		v := f.Mem.LoadByte(addr)
		insts = append(insts, Instruction{
			Address:  addr,
			Data:     []byte{v},
			Assembly: fmt.Sprintf("db $%02x", v),
		})
		addr++
	}
	return insts, nil
}

// Reset clears memory and registers and loads the image file, if any, at
// address zero.
func (f *Flat) Reset(d Decoder, image string) error {
	d, err := ParseDecoder(string(d))
	if err != nil {
		return err
	}

	var code []byte
	if image != "" {
		code, err = os.ReadFile(image)
		if err != nil {
			return err
		}
		if len(code) > len(f.Mem.b) {
			return fmt.Errorf("image '%s' exceeds the address space", filepath.Base(image))
		}
	}

	f.Mem.Clear()
	f.Mem.StoreBytes(0, code)
	f.Reg = Registers{}
	f.Steps = 0
	f.decoder = d
	return nil
}
