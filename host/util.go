// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

var hexString = "0123456789abcdef"

// Bytes displayed on each row of a memory dump.
const dumpRowBytes = 16

func addrToBuf(addr uint16, b []byte) {
	b[0] = hexString[(addr>>12)&0xf]
	b[1] = hexString[(addr>>8)&0xf]
	b[2] = hexString[(addr>>4)&0xf]
	b[3] = hexString[addr&0xf]
}

func byteToBuf(v byte, b []byte) {
	b[0] = hexString[(v>>4)&0xf]
	b[1] = hexString[v&0xf]
}

func toPrintableChar(v byte) byte {
	if v >= 0x20 && v <= 0x7e {
		return v
	}
	return '.'
}

// dumpRow formats up to 16 bytes of memory as a single line: the address,
// the hex value of each byte, and the ASCII rendering of the bytes. Short
// rows are padded so the ASCII column lines up with full rows.
func dumpRow(addr uint16, b []byte) string {
	const asciiCol = 5 + dumpRowBytes*3

	buf := make([]byte, asciiCol+len(b))
	for i := range buf[:asciiCol] {
		buf[i] = ' '
	}

	addrToBuf(addr, buf[0:4])
	for i, v := range b {
		byteToBuf(v, buf[5+i*3:])
		buf[asciiCol+i] = toPrintableChar(v)
	}
	return string(buf)
}

// dumpRows splits a block of memory read from base into dump rows.
func dumpRows(base uint16, b []byte) []string {
	var rows []string
	for i := 0; i < len(b); i += dumpRowBytes {
		n := min(dumpRowBytes, len(b)-i)
		rows = append(rows, dumpRow(base+uint16(i), b[i:i+n]))
	}
	return rows
}
