// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package host implements an interactive console debugger for an emulated
// machine.
//
// The host reads line-oriented commands, dispatches each one to its handler,
// and drives the machine through the synchronous device.Device interface.
// Commands can set breakpoints, step or continue execution, read and write
// memory and registers, and display the command history.
package host

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/pgbemu/pgbdebug/device"
	"github.com/pgbemu/pgbdebug/disasm"
)

const prompt = "pgb-debugger> "

// A Host is a debugger session attached to a device.
type Host struct {
	dev         device.Device
	session     *Session
	settings    Settings
	input       *bufio.Scanner
	out         Output
	display     Display
	interactive bool
	interrupt   atomic.Bool
}

// New creates a new debugger host driving the device.
func New(dev device.Device) *Host {
	h := &Host{
		dev:      dev,
		session:  NewSession(),
		settings: DefaultSettings(),
		out:      newConsoleOutput(io.Discard, false),
	}
	h.display = &outputDisplay{h: h}
	return h
}

// Session returns the host's session state.
func (h *Host) Session() *Session {
	return h.session
}

// Settings returns the host's configuration variables. Changes take effect
// with the next command.
func (h *Host) Settings() *Settings {
	return &h.settings
}

// SetDisplay replaces the register and disassembly panels. By default the
// panels are rendered on the command output when the ShowPanels setting is
// on.
func (h *Host) SetDisplay(d Display) {
	h.display = d
}

// RunCommands accepts host commands from a reader and outputs the results
// to a writer. If the commands are interactive, a prompt is displayed while
// the host waits for the next command to be entered. An empty line repeats
// the previous command.
func (h *Host) RunCommands(r io.Reader, w io.Writer, interactive bool) {
	h.input = bufio.NewScanner(r)
	h.out = newConsoleOutput(w, h.settings.Color)
	h.interactive = interactive

	for {
		h.prompt()

		line, err := h.getLine()
		if err != nil {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			if h.session.Previous() == "" {
				continue
			}
			line = h.session.Previous()
		}

		err = h.Execute(line)
		h.session.setPrevious(line)
		if errors.Is(err, ErrQuit) {
			break
		}
	}

	h.out.Flush()
}

// Execute dispatches a single command line. Command failures are reported
// on the output; the only error returned is ErrQuit.
func (h *Host) Execute(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	defer func() {
		h.out.Write("", ColorNone, true)
		h.out.Flush()
	}()

	name, rest := splitCommand(line)
	parse, ok := lookupCommand(name)
	if !ok {
		h.report(&UnknownCommandError{Input: line})
		return nil
	}

	h.session.AppendHistory(line)

	c, err := parse(rest)
	if err == nil {
		err = h.execute(c)
	}
	switch {
	case errors.Is(err, ErrQuit):
		return err
	case err != nil:
		h.report(err)
	}
	return nil
}

// Break interrupts a running continue command. It may be called from any
// goroutine.
func (h *Host) Break() {
	h.interrupt.Store(true)
}

func (h *Host) execute(c command) error {
	switch c := c.(type) {
	case breakCommand:
		return h.cmdBreak(c)
	case continueCommand:
		return h.cmdContinue()
	case helpCommand:
		return h.cmdHelp()
	case historyCommand:
		return h.cmdHistory(c)
	case quitCommand:
		return ErrQuit
	case readRegisterCommand:
		return h.cmdReadRegister(c)
	case readMemoryCommand:
		return h.cmdReadMemory(c)
	case resetCommand:
		return h.cmdReset()
	case stepCommand:
		return h.cmdStep()
	case writeRegisterCommand:
		return &UnsupportedOperationError{Operation: "Writing registers"}
	case writeMemoryCommand:
		return h.cmdWriteMemory(c)
	case setCommand:
		return h.cmdSet(c)
	default:
		return fmt.Errorf("command '%s' has no handler", c.commandName())
	}
}

func (h *Host) report(err error) {
	if isWarning(err) {
		h.out.Write("Warning: ", ColorOrange, false)
	} else {
		h.out.Write("Error: ", ColorRed, false)
	}
	h.out.Write(err.Error(), ColorNone, false)
}

func (h *Host) print(text string, c Color) {
	h.out.Write(text, c, false)
}

func (h *Host) println(text string, c Color) {
	h.out.Write(text, c, true)
}

func (h *Host) getLine() (string, error) {
	if h.input.Scan() {
		return h.input.Text(), nil
	}
	if h.input.Err() != nil {
		return "", h.input.Err()
	}
	return "", io.EOF
}

func (h *Host) prompt() {
	if h.interactive {
		h.print(prompt, ColorNone)
		h.out.Flush()
	}
}

// refresh updates the register and disassembly panels and returns the
// register snapshot and instructions they display.
func (h *Host) refresh() (device.Registers, []device.Instruction, error) {
	r, err := h.dev.ReadRegisters()
	if err != nil {
		return r, nil, &DeviceError{Err: err}
	}
	insts, err := h.dev.Disassemble(max(h.settings.DisasmLines, 1))
	if err != nil {
		return r, nil, &DeviceError{Err: err}
	}
	h.display.ShowRegisters(r)
	h.display.ShowDisassembly(insts)
	return r, insts, nil
}

// displayPC refreshes the panels and prints the program counter along with
// the next instruction.
func (h *Host) displayPC() error {
	r, insts, err := h.refresh()
	if err != nil {
		return err
	}
	h.print(fmt.Sprintf("$PC = 0x%04x", r.PC), ColorNone)
	if len(insts) > 0 {
		h.print(", "+disasm.Brief(&insts[0]), ColorNone)
	}
	return nil
}

func (h *Host) cmdBreak(c breakCommand) error {
	if !h.session.AddBreakpoint(c.addr) {
		return &DuplicateBreakpointWarning{Address: c.addr}
	}
	h.print("Breakpoint set at address ", ColorNone)
	h.print(fmt.Sprintf("0x%04x", c.addr), ColorOrange)
	h.print(".", ColorNone)
	return nil
}

func (h *Host) cmdContinue() error {
	h.interrupt.Store(false)

	var pc uint16
	hit := false
	for steps := 1; ; steps++ {
		if err := h.dev.Step(); err != nil {
			return &DeviceError{Err: err}
		}
		r, err := h.dev.ReadRegisters()
		if err != nil {
			return &DeviceError{Err: err}
		}
		pc = r.PC
		if h.session.HasBreakpoint(pc) {
			hit = true
			break
		}
		if h.interrupt.Load() {
			break
		}
		if h.settings.StepLimit > 0 && steps >= h.settings.StepLimit {
			break
		}
	}

	h.print("Info: ", ColorBlue)
	switch {
	case hit:
		h.print("Breakpoint at address ", ColorNone)
		h.print(fmt.Sprintf("0x%04x", pc), ColorOrange)
		h.println(" hit.", ColorNone)
	case h.interrupt.Load():
		h.print("Execution interrupted at address ", ColorNone)
		h.print(fmt.Sprintf("0x%04x", pc), ColorOrange)
		h.println(".", ColorNone)
	default:
		h.print(fmt.Sprintf("Step limit of %d reached at address ", h.settings.StepLimit), ColorNone)
		h.print(fmt.Sprintf("0x%04x", pc), ColorOrange)
		h.println(".", ColorNone)
	}

	return h.displayPC()
}

func (h *Host) cmdHelp() error {
	h.print("pgb debugger", ColorGreen)
	h.println(" - Interactive tool for debugging GB applications.", ColorNone)
	h.println("", ColorNone)
	h.println("Commands:", ColorWhite)
	for _, c := range commandList {
		h.println("    "+c.usage, ColorWhite)
		h.println(indentWrap(8, c.description), ColorNone)
	}
	return nil
}

func (h *Host) cmdHistory(c historyCommand) error {
	if c.clear {
		h.session.ClearHistory()
	}
	for i, line := range h.session.History() {
		h.print(fmt.Sprintf("%d ", i), ColorOrange)
		h.println(line, ColorNone)
	}
	return nil
}

func (h *Host) cmdReadRegister(c readRegisterCommand) error {
	if device.Is8(c.reg) {
		return &UnsupportedOperationError{Operation: "Reading single byte registers"}
	}

	r, err := h.dev.ReadRegisters()
	if err != nil {
		return &DeviceError{Err: err}
	}
	v, _ := r.Get16(c.reg)
	h.print(fmt.Sprintf("$%s = 0x%04x", c.reg, v), ColorNone)
	return nil
}

func (h *Host) cmdReadMemory(c readMemoryCommand) error {
	b, err := h.dev.ReadRegion(c.base, c.size)
	if err != nil {
		return &DeviceError{Err: err}
	}
	for _, row := range dumpRows(c.base, b) {
		h.println(row, ColorNone)
	}
	return nil
}

func (h *Host) cmdReset() error {
	h.out.Clear()

	err := h.dev.Reset(device.Decoder(h.settings.Decoder), h.settings.Image)
	if err != nil {
		return &DeviceError{Err: err}
	}
	if _, _, err := h.refresh(); err != nil {
		return err
	}

	h.print("Info: ", ColorBlue)
	h.print("Device reset.", ColorNone)
	return nil
}

func (h *Host) cmdStep() error {
	if err := h.dev.Step(); err != nil {
		return &DeviceError{Err: err}
	}
	return h.displayPC()
}

func (h *Host) cmdWriteMemory(c writeMemoryCommand) error {
	if err := h.dev.WriteMemory(c.addr, c.value); err != nil {
		return &DeviceError{Err: err}
	}
	return nil
}

func (h *Host) cmdSet(c setCommand) error {
	if c.key == "" {
		h.println("Variables:", ColorWhite)
		h.settings.Display(h.out)
		return nil
	}

	name, err := h.settings.Set(c.key, c.value)
	if err != nil {
		return err
	}
	h.onSettingsUpdate()
	h.print(fmt.Sprintf("Setting %s updated.", name), ColorNone)
	return nil
}

func (h *Host) onSettingsUpdate() {
	if o, ok := h.out.(*consoleOutput); ok {
		o.color = h.settings.Color
	}
}

// indentWrap indents text by the given number of spaces and wraps it at 80
// columns.
func indentWrap(indent int, s string) string {
	const width = 80
	pad := strings.Repeat(" ", indent)

	var lines []string
	line := pad
	for _, word := range strings.Fields(s) {
		if len(line) > indent && len(line)+1+len(word) > width {
			lines = append(lines, line)
			line = pad
		}
		if len(line) > indent {
			line += " "
		}
		line += word
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
