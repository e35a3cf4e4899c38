// Copyright 2014 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package disasm formats decoded instructions and register contents for
// display by the debugger.
package disasm

import (
	"fmt"
	"strings"

	"github.com/pgbemu/pgbdebug/device"
)

var hex = "0123456789abcdef"

// Return a hexadecimal string representation of the byte slice, with the
// last byte first so that multi-byte operands read as little-endian values.
func hexString(b []byte) string {
	hexlen := len(b) * 2
	hexbuf := make([]byte, hexlen)
	j := hexlen - 1
	for _, n := range b {
		hexbuf[j] = hex[n&0xf]
		hexbuf[j-1] = hex[n>>4]
		j -= 2
	}
	return string(hexbuf)
}

// Comment returns the instruction's comments joined into a single string.
func Comment(inst *device.Instruction) string {
	switch {
	case inst.CommentA != "" && inst.CommentB != "":
		return inst.CommentA + " " + inst.CommentB
	case inst.CommentA != "":
		return inst.CommentA
	default:
		return inst.CommentB
	}
}

// Line returns a single line of disassembly: address, raw instruction
// bytes, assembly and comments.
func Line(inst *device.Instruction) string {
	line := fmt.Sprintf("%04x  %-8s  %s", inst.Address, hexString(inst.Data), inst.Assembly)
	if c := Comment(inst); c != "" {
		line = fmt.Sprintf("%-32s ; %s", line, c)
	}
	return line
}

// Brief returns the assembly and comments of an instruction without its
// address.
func Brief(inst *device.Instruction) string {
	if c := Comment(inst); c != "" {
		return inst.Assembly + " ; " + c
	}
	return inst.Assembly
}

// Flags holds the four condition flags decoded from the flags register.
type Flags struct {
	Zero      bool
	Subtract  bool
	HalfCarry bool
	Carry     bool
}

// GetFlags decodes the flags register held in the low byte of AF. Each
// flag is read from its own bit of the upper nibble.
func GetFlags(r *device.Registers) Flags {
	f := r.Flags()
	return Flags{
		Carry:     f&device.CarryBit != 0,
		HalfCarry: f&device.HalfCarryBit != 0,
		Subtract:  f&device.SubtractBit != 0,
		Zero:      f&device.ZeroBit != 0,
	}
}

func flagChar(v bool) byte {
	if v {
		return '1'
	}
	return '0'
}

// GetFlagString returns the flags formatted as "Z=1 N=0 H=1 C=1".
func GetFlagString(r *device.Registers) string {
	f := GetFlags(r)
	b := []byte("Z=0 N=0 H=0 C=0")
	b[2] = flagChar(f.Zero)
	b[6] = flagChar(f.Subtract)
	b[10] = flagChar(f.HalfCarry)
	b[14] = flagChar(f.Carry)
	return string(b)
}

// GetRegisterString returns a string describing the contents of the 16-bit
// register pairs and the flags.
func GetRegisterString(r *device.Registers) string {
	var sb strings.Builder
	for _, name := range device.Names16 {
		v, _ := r.Get16(name)
		fmt.Fprintf(&sb, "%s=0x%04x ", strings.ToUpper(name), v)
	}
	sb.WriteString(GetFlagString(r))
	return sb.String()
}
