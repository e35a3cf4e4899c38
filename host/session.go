// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"slices"
	"sort"
)

// A Session holds the debugger state shared by all commands: breakpoints,
// command history and the previously dispatched command line. It is owned
// by a single Host and is never accessed concurrently.
type Session struct {
	breakpoints  map[uint16]struct{}
	history      []string
	historyIndex int
	previous     string
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{
		breakpoints: make(map[uint16]struct{}),
	}
}

// AddBreakpoint adds a breakpoint at the address. It returns false if a
// breakpoint was already set there.
func (s *Session) AddBreakpoint(addr uint16) bool {
	if _, ok := s.breakpoints[addr]; ok {
		return false
	}
	s.breakpoints[addr] = struct{}{}
	return true
}

// HasBreakpoint reports whether a breakpoint is set at the address.
func (s *Session) HasBreakpoint(addr uint16) bool {
	_, ok := s.breakpoints[addr]
	return ok
}

// Breakpoints returns all breakpoint addresses in ascending order.
func (s *Session) Breakpoints() []uint16 {
	addrs := make([]uint16, 0, len(s.breakpoints))
	for a := range s.breakpoints {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	return addrs
}

// AppendHistory records a command line unless it repeats the most recent
// entry. The history cursor is moved to the last entry.
func (s *Session) AppendHistory(line string) {
	if n := len(s.history); n > 0 && s.history[n-1] == line {
		return
	}
	s.history = append(s.history, line)
	s.historyIndex = len(s.history) - 1
}

// ClearHistory removes all history entries.
func (s *Session) ClearHistory() {
	s.history = nil
	s.historyIndex = 0
}

// History returns a copy of the recorded command lines, oldest first.
func (s *Session) History() []string {
	return slices.Clone(s.history)
}

// HistoryIndex returns the history cursor.
func (s *Session) HistoryIndex() int {
	return s.historyIndex
}

// Previous returns the last dispatched command line.
func (s *Session) Previous() string {
	return s.previous
}

func (s *Session) setPrevious(line string) {
	s.previous = line
}
