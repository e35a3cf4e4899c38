// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"errors"
	"fmt"
)

// ErrQuit is returned by Host.Execute when the quit command runs.
var ErrQuit = errors.New("exiting program")

// An ArgumentCountError is reported when a command receives the wrong
// number of arguments. Counts include the command name itself.
type ArgumentCountError struct {
	Command  string
	Expected int
	Got      int
}

func (e *ArgumentCountError) Error() string {
	return fmt.Sprintf("The %s command expects %d arguments but got %d.", e.Command, e.Expected, e.Got)
}

// An UnknownCommandError is reported when the first word of an input line
// matches no command.
type UnknownCommandError struct {
	Input string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("The command \"%s\" is invalid. Use the command help to see all valid commands.", e.Input)
}

// An InvalidRegisterError is reported for register names outside the known
// register sets.
type InvalidRegisterError struct {
	Name string
}

func (e *InvalidRegisterError) Error() string {
	return fmt.Sprintf("The register %s is not valid.", e.Name)
}

// An InvalidMemorySpecError is reported when the memory argument of a read
// or write command is malformed.
type InvalidMemorySpecError struct {
	Command string
	Spec    string
}

func (e *InvalidMemorySpecError) Error() string {
	return fmt.Sprintf("The arguments \"%s\" to the %s command are invalid.", e.Spec, e.Command)
}

// An UnsupportedOperationError is reported for operations that are
// recognized but not implemented. It is displayed as a warning.
type UnsupportedOperationError struct {
	Operation string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("%s not implemented yet.", e.Operation)
}

// A DuplicateBreakpointWarning informs the user that a breakpoint already
// existed.
type DuplicateBreakpointWarning struct {
	Address uint16
}

func (e *DuplicateBreakpointWarning) Error() string {
	return fmt.Sprintf("Breakpoint already exists at address 0x%04x.", e.Address)
}

// A DeviceError wraps a failure reported by the device.
type DeviceError struct {
	Err error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("device: %v", e.Err)
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}

// isWarning reports whether err should be displayed as a warning rather
// than an error.
func isWarning(err error) bool {
	var unsupported *UnsupportedOperationError
	var duplicate *DuplicateBreakpointWarning
	return errors.As(err, &unsupported) || errors.As(err, &duplicate)
}
