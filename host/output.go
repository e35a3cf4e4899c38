// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"bufio"
	"io"

	"github.com/pgbemu/pgbdebug/device"
	"github.com/pgbemu/pgbdebug/disasm"
)

// A Color tags a piece of output with its meaning.
type Color byte

// Output colors.
const (
	ColorNone   Color = iota
	ColorRed          // errors
	ColorOrange       // warnings and addresses
	ColorBlue         // information
	ColorGreen        // structural
	ColorWhite        // structural
)

// ANSI pens for each color. Orange uses the 256-color palette.
var pens = [...]string{
	ColorNone:   "",
	ColorRed:    "\x1b[31m",
	ColorOrange: "\x1b[38;5;208m",
	ColorBlue:   "\x1b[34m",
	ColorGreen:  "\x1b[32m",
	ColorWhite:  "\x1b[1;37m",
}

const (
	normalPen   = "\x1b[0m"
	clearScreen = "\x1b[2J\x1b[H"
)

// The Output interface receives all text produced by the debugger. Calls
// must be rendered in the order they are made.
type Output interface {
	// Write appends text, optionally colored and followed by a line break.
	Write(text string, c Color, newline bool)

	// Clear removes all previously rendered output.
	Clear()

	// Flush makes all written output visible.
	Flush()
}

// consoleOutput renders output to a text stream, using ANSI pens for
// colors when enabled.
type consoleOutput struct {
	w     *bufio.Writer
	color bool
}

func newConsoleOutput(w io.Writer, color bool) *consoleOutput {
	return &consoleOutput{w: bufio.NewWriter(w), color: color}
}

func (o *consoleOutput) Write(text string, c Color, newline bool) {
	if o.color && c != ColorNone {
		o.w.WriteString(pens[c])
		o.w.WriteString(text)
		o.w.WriteString(normalPen)
	} else {
		o.w.WriteString(text)
	}
	if newline {
		o.w.WriteByte('\n')
	}
}

func (o *consoleOutput) Clear() {
	if o.color {
		o.w.WriteString(clearScreen)
	}
	o.Flush()
}

func (o *consoleOutput) Flush() {
	o.w.Flush()
}

// The Display interface is implemented by views of the machine state that
// are refreshed after the device executes instructions.
type Display interface {
	ShowRegisters(r device.Registers)
	ShowDisassembly(insts []device.Instruction)
}

// outputDisplay renders the register and disassembly panels as text on the
// debugger output.
type outputDisplay struct {
	h *Host
}

func (d *outputDisplay) ShowRegisters(r device.Registers) {
	if d.h.settings.ShowPanels {
		d.h.out.Write(disasm.GetRegisterString(&r), ColorWhite, true)
	}
}

func (d *outputDisplay) ShowDisassembly(insts []device.Instruction) {
	if !d.h.settings.ShowPanels {
		return
	}
	for i := range insts {
		marker := "   "
		if i == 0 {
			marker = "=> "
		}
		d.h.out.Write(marker, ColorGreen, false)
		d.h.out.Write(disasm.Line(&insts[i]), ColorNone, true)
	}
}
