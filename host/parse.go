// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"fmt"
	"strconv"
	"strings"
)

// parseNumber parses an unsigned integer literal, inferring its base from
// its prefix: "0x" or "0X" selects hexadecimal, a leading "0" selects octal,
// and anything else is decimal. The value must fit in bitSize bits.
func parseNumber(s string, bitSize int) (uint64, error) {
	base, digits := 10, s
	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		base, digits = 16, s[2:]
	case len(s) > 1 && s[0] == '0':
		base, digits = 8, s[1:]
	}

	v, err := strconv.ParseUint(digits, base, bitSize)
	if err != nil {
		return 0, fmt.Errorf("invalid number '%s'", s)
	}
	return v, nil
}

func parseAddress(s string) (uint16, error) {
	v, err := parseNumber(s, 16)
	return uint16(v), err
}

func parseByte(s string) (byte, error) {
	v, err := parseNumber(s, 8)
	return byte(v), err
}

func stringToBool(s string) (bool, error) {
	s = strings.ToLower(s)
	switch s {
	case "0", "false", "off":
		return false, nil
	case "1", "true", "on":
		return true, nil
	default:
		return false, fmt.Errorf("invalid bool value '%s'", s)
	}
}
