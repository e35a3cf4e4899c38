package device_test

import (
	"bytes"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/pgbemu/pgbdebug/device"
)

func expectPC(t *testing.T, d device.Device, pc uint16) {
	t.Helper()
	r, err := d.ReadRegisters()
	if err != nil {
		t.Fatalf("ReadRegisters failed: %v", err)
	}
	if r.PC != pc {
		t.Errorf("PC incorrect. exp: $%04X, got: $%04X", pc, r.PC)
	}
}

func expectRegion(t *testing.T, d device.Device, base uint16, exp []byte) {
	t.Helper()
	got, err := d.ReadRegion(base, len(exp))
	if err != nil {
		t.Fatalf("ReadRegion failed: %v", err)
	}
	if !bytes.Equal(got, exp) {
		t.Errorf("Memory at $%04X incorrect. exp: % x, got: % x", base, exp, got)
	}
}

func writeImage(t *testing.T, b []byte) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "boot.bin")
	if err := os.WriteFile(filename, b, 0600); err != nil {
		t.Fatal(err)
	}
	return filename
}

func TestParseDecoder(t *testing.T) {
	for _, s := range []string{"table", "logical"} {
		d, err := device.ParseDecoder(s)
		if err != nil || string(d) != s {
			t.Errorf("ParseDecoder(%q) = %q, %v", s, d, err)
		}
	}
	if _, err := device.ParseDecoder("fast"); !errors.Is(err, device.ErrUnknownDecoder) {
		t.Errorf("expected ErrUnknownDecoder, got %v", err)
	}
}

func TestRegisterNames(t *testing.T) {
	r := device.Registers{AF: 0x01b0, BC: 0x0013, DE: 0x00d8, HL: 0x014d, SP: 0xfffe, PC: 0x0150}
	exp := []uint16{0x01b0, 0x0013, 0x00d8, 0x014d, 0xfffe, 0x0150}
	for i, name := range device.Names16 {
		v, ok := r.Get16(name)
		if !ok || v != exp[i] {
			t.Errorf("Get16(%q) incorrect. exp: $%04X, got: $%04X (%v)", name, exp[i], v, ok)
		}
		if !device.Is16(name) || device.Is8(name) {
			t.Errorf("%q should be a 16-bit register name", name)
		}
	}
	for _, name := range device.Names8 {
		if _, ok := r.Get16(name); ok {
			t.Errorf("Get16(%q) should fail", name)
		}
		if !device.Is8(name) {
			t.Errorf("%q should be an 8-bit register name", name)
		}
	}
	if r.Flags() != 0xb0 {
		t.Errorf("Flags incorrect. exp: $B0, got: $%02X", r.Flags())
	}
}

func TestFlatStep(t *testing.T) {
	f := device.NewFlat()
	f.Reg.PC = 0x0100
	for i := 0; i < 5; i++ {
		f.Step()
	}
	expectPC(t, f, 0x0105)
	if f.Steps != 5 {
		t.Errorf("Steps incorrect. exp: 5, got: %d", f.Steps)
	}
}

func TestFlatReadWrite(t *testing.T) {
	f := device.NewFlat()
	f.WriteMemory(0xc000, 0x41)
	f.WriteMemory(0xc001, 0x42)
	expectRegion(t, f, 0xc000, []byte{0x41, 0x42, 0x00})

	// Reads past the top of memory wrap to address zero.
	f.WriteMemory(0xffff, 0x11)
	f.WriteMemory(0x0000, 0x22)
	expectRegion(t, f, 0xffff, []byte{0x11, 0x22})

	if _, err := f.ReadRegion(0, 0x10001); !errors.Is(err, device.ErrRegionSize) {
		t.Errorf("expected ErrRegionSize, got %v", err)
	}
}

func TestFlatDisassemble(t *testing.T) {
	f := device.NewFlat()
	f.Mem.StoreBytes(0x0100, []byte{0x00, 0xc3, 0x50})
	f.Reg.PC = 0x0100

	insts, err := f.Disassemble(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(insts) != 3 {
		t.Fatalf("instruction count incorrect. exp: 3, got: %d", len(insts))
	}
	if insts[1].Address != 0x0101 || insts[1].Assembly != "db $c3" {
		t.Errorf("unexpected instruction %+v", insts[1])
	}
}

func TestFlatReset(t *testing.T) {
	image := writeImage(t, []byte{0x31, 0xfe, 0xff})

	f := device.NewFlat()
	f.WriteMemory(0x8000, 0x99)
	f.Reg.PC = 0x1234
	f.Step()

	if err := f.Reset(device.DecoderLogical, image); err != nil {
		t.Fatal(err)
	}
	expectPC(t, f, 0x0000)
	expectRegion(t, f, 0x0000, []byte{0x31, 0xfe, 0xff})
	expectRegion(t, f, 0x8000, []byte{0x00})
	if f.Decoder() != device.DecoderLogical {
		t.Errorf("decoder incorrect. exp: logical, got: %s", f.Decoder())
	}

	if err := f.Reset("fast", image); err == nil {
		t.Error("expected reset with unknown decoder to fail")
	}
	if err := f.Reset(device.DecoderTable, filepath.Join(t.TempDir(), "missing.bin")); err == nil {
		t.Error("expected reset with missing image to fail")
	}
}

func TestRPCRoundTrip(t *testing.T) {
	flat := device.NewFlat()
	flat.Reg = device.Registers{AF: 0x01b0, PC: 0x0100}
	flat.Mem.StoreBytes(0x0100, []byte{0x00, 0x18, 0xfe})

	server, err := device.NewServer(flat)
	if err != nil {
		t.Fatal(err)
	}
	c1, c2 := net.Pipe()
	go server.ServeConn(c1)

	client := device.NewClient(c2)
	defer client.Close()

	if err := client.Step(); err != nil {
		t.Fatal(err)
	}
	expectPC(t, client, 0x0101)

	r, err := client.ReadRegisters()
	if err != nil || r.AF != 0x01b0 {
		t.Errorf("AF incorrect. exp: $01B0, got: $%04X (%v)", r.AF, err)
	}

	if err := client.WriteMemory(0x0103, 0x76); err != nil {
		t.Fatal(err)
	}
	expectRegion(t, client, 0x0100, []byte{0x00, 0x18, 0xfe, 0x76})

	insts, err := client.Disassemble(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(insts) != 2 || insts[0].Address != 0x0101 || !bytes.Equal(insts[0].Data, []byte{0x18}) {
		t.Errorf("unexpected disassembly %+v", insts)
	}

	image := writeImage(t, []byte{0xaa})
	if err := client.Reset(device.DecoderTable, image); err != nil {
		t.Fatal(err)
	}
	expectPC(t, client, 0x0000)
	expectRegion(t, client, 0x0000, []byte{0xaa, 0x00})

	if err := client.Reset("fast", image); err == nil {
		t.Error("expected remote reset with unknown decoder to fail")
	}
}
