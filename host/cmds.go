// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"strings"

	"github.com/beevik/cmd"
	"github.com/pgbemu/pgbdebug/device"
)

// A command is a parsed and validated invocation of one of the debugger's
// commands. The set of command types is closed; Host.execute handles each
// of them.
type command interface {
	commandName() string
}

type breakCommand struct{ addr uint16 }

type continueCommand struct{}

type helpCommand struct{}

type historyCommand struct{ clear bool }

type quitCommand struct{}

type readRegisterCommand struct{ reg string }

type readMemoryCommand struct {
	base uint16
	size int
}

type resetCommand struct{}

type stepCommand struct{}

type writeRegisterCommand struct {
	reg   string
	value string
}

type writeMemoryCommand struct {
	addr  uint16
	value byte
}

type setCommand struct {
	key   string
	value string
}

func (breakCommand) commandName() string         { return "break" }
func (continueCommand) commandName() string      { return "continue" }
func (helpCommand) commandName() string          { return "help" }
func (historyCommand) commandName() string       { return "history" }
func (quitCommand) commandName() string          { return "quit" }
func (readRegisterCommand) commandName() string  { return "read" }
func (readMemoryCommand) commandName() string    { return "read" }
func (resetCommand) commandName() string         { return "reset" }
func (stepCommand) commandName() string          { return "step" }
func (writeRegisterCommand) commandName() string { return "write" }
func (writeMemoryCommand) commandName() string   { return "write" }
func (setCommand) commandName() string           { return "set" }

// A parseFunc validates the argument string following a command name and
// produces the command to execute. An empty argument string means the
// argument is missing.
type parseFunc func(rest string) (command, error)

type commandInfo struct {
	name        string
	usage       string
	description string
	parse       parseFunc
}

// The command registry, in the order commands are listed by help.
var commandList = []commandInfo{
	{
		name:        "break",
		usage:       "break <address>",
		description: "Sets a breakpoint at the given address.",
		parse:       parseBreak,
	},
	{
		name:        "reset",
		usage:       "reset",
		description: "Removes all text in the output window and resets the device.",
		parse:       func(string) (command, error) { return resetCommand{}, nil },
	},
	{
		name:  "continue",
		usage: "continue",
		description: "Resumes execution until a breakpoint is hit. Press" +
			" ctrl-C to interrupt.",
		parse: func(string) (command, error) { return continueCommand{}, nil },
	},
	{
		name:        "help",
		usage:       "help",
		description: "Displays this help menu.",
		parse:       func(string) (command, error) { return helpCommand{}, nil },
	},
	{
		name:  "history",
		usage: "history [clear]",
		description: "Displays the history of all previously typed commands." +
			" Accepts the optional argument 'clear' to remove all history.",
		parse: func(rest string) (command, error) { return historyCommand{clear: rest == "clear"}, nil },
	},
	{
		name:        "quit",
		usage:       "quit",
		description: "Quits the application.",
		parse:       func(string) (command, error) { return quitCommand{}, nil },
	},
	{
		name:  "read",
		usage: "read $reg|[/size] address",
		description: "Reads the value stored in the given register, or dumps" +
			" size bytes of memory starting at address.",
		parse: parseRead,
	},
	{
		name:  "step",
		usage: "step [n]",
		description: "Steps the currently loaded program one instruction. The" +
			" count n is accepted but not yet honored.",
		parse: func(string) (command, error) { return stepCommand{}, nil },
	},
	{
		name:        "write",
		usage:       "write $reg|address value",
		description: "Sets an 8-bit value in the given register or address.",
		parse:       parseWrite,
	},
	{
		name:  "set",
		usage: "set [var value]",
		description: "Sets the value of a configuration variable. Without" +
			" arguments, displays the current values of all variables.",
		parse: parseSet,
	},
}

var cmds *cmd.Tree

func init() {
	root := cmd.NewTree(cmd.TreeDescriptor{Name: "pgb-debugger"})
	for _, c := range commandList {
		root.AddCommand(cmd.CommandDescriptor{
			Name:        c.name,
			Description: c.description,
			Usage:       c.usage,
			Data:        c.parse,
		})
	}
	cmds = root
}

// lookupCommand returns the parser of the command whose name is exactly
// name. Abbreviations are not accepted.
func lookupCommand(name string) (parseFunc, bool) {
	if name == "" {
		return nil, false
	}
	c, _, err := cmds.LookupCommand(name)
	if err != nil || c.Name != name {
		return nil, false
	}
	parse, ok := c.Data.(parseFunc)
	return parse, ok
}

// splitCommand splits an input line into the command name and the
// remaining arguments joined by single spaces.
func splitCommand(line string) (name, rest string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}

// argCount returns the number of arguments, including the command name, in
// an invocation with the given argument string.
func argCount(rest string) int {
	if rest == "" {
		return 1
	}
	return 2
}

func parseBreak(rest string) (command, error) {
	if rest == "" {
		return nil, &ArgumentCountError{Command: "break", Expected: 2, Got: argCount(rest)}
	}
	addr, err := parseAddress(rest)
	if err != nil {
		return nil, &InvalidMemorySpecError{Command: "break", Spec: rest}
	}
	return breakCommand{addr: addr}, nil
}

func parseRead(rest string) (command, error) {
	if rest == "" {
		return nil, &ArgumentCountError{Command: "read", Expected: 2, Got: argCount(rest)}
	}

	// The target is the last argument when a size is given. Any target
	// mentioning a register reads the register and ignores the size.
	parts := strings.Split(rest, " ")
	target := parts[0]
	if len(parts) > 1 && strings.HasPrefix(parts[0], "/") {
		target = parts[1]
	}
	if strings.Contains(target, "$") {
		reg := strings.Replace(target, "$", "", 1)
		if !device.Is16(reg) && !device.Is8(reg) {
			return nil, &InvalidRegisterError{Name: reg}
		}
		return readRegisterCommand{reg: reg}, nil
	}

	c := readMemoryCommand{size: 1}
	var err error
	switch {
	case len(parts) == 2 && strings.HasPrefix(parts[0], "/"):
		var size uint64
		size, err = parseNumber(parts[0][1:], 17)
		if err == nil && (size == 0 || size > 0x10000) {
			err = device.ErrRegionSize
		}
		c.size = int(size)
		if err == nil {
			c.base, err = parseAddress(parts[1])
		}
	case len(parts) == 1:
		c.base, err = parseAddress(parts[0])
	default:
		err = device.ErrRegionSize
	}
	if err != nil {
		return nil, &InvalidMemorySpecError{Command: "read", Spec: rest}
	}
	return c, nil
}

func parseWrite(rest string) (command, error) {
	if rest == "" {
		return nil, &ArgumentCountError{Command: "write", Expected: 3, Got: 1}
	}

	parts := strings.Split(rest, " ")
	if len(parts) != 2 {
		return nil, &ArgumentCountError{Command: "write", Expected: 3, Got: 1 + len(parts)}
	}

	if strings.HasPrefix(parts[0], "$") {
		reg := parts[0][1:]
		if !device.Is16(reg) && !device.Is8(reg) {
			return nil, &InvalidRegisterError{Name: reg}
		}
		return writeRegisterCommand{reg: reg, value: parts[1]}, nil
	}

	addr, err := parseAddress(parts[0])
	if err != nil {
		return nil, &InvalidMemorySpecError{Command: "write", Spec: rest}
	}
	value, err := parseByte(parts[1])
	if err != nil {
		return nil, &InvalidMemorySpecError{Command: "write", Spec: rest}
	}
	return writeMemoryCommand{addr: addr, value: value}, nil
}

func parseSet(rest string) (command, error) {
	if rest == "" {
		return setCommand{}, nil
	}
	parts := strings.SplitN(rest, " ", 2)
	if len(parts) < 2 {
		return nil, &ArgumentCountError{Command: "set", Expected: 3, Got: 2}
	}
	return setCommand{key: parts[0], value: parts[1]}, nil
}
