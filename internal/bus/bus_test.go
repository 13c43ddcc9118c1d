package bus

import (
	"testing"

	"vdm86/internal/bios"
	"vdm86/internal/vga"
)

func newTextBus(t *testing.T) *Bus {
	t.Helper()
	d := vga.NewDevice()
	if err := bios.SetVideoMode(d, 0x03); err != nil {
		t.Fatalf("set mode: %v", err)
	}
	return New(d)
}

func TestConventionalRAM(t *testing.T) {
	b := newTextBus(t)
	b.Write(0x1000, 0xAB)
	if got := b.Read(0x1000); got != 0xAB {
		t.Fatalf("ram read %02X", got)
	}
}

func TestUnmappedReadsFF(t *testing.T) {
	b := newTextBus(t)
	if got := b.Read(0xF0000); got != 0xFF {
		t.Fatalf("unmapped read %02X, want FF", got)
	}
	b.Write(0xF0000, 0x00) // dropped
	if got := b.Read(0xF0000); got != 0xFF {
		t.Fatalf("unmapped write went somewhere: %02X", got)
	}
}

func TestVideoWindowRouting(t *testing.T) {
	b := newTextBus(t)

	b.Write(0xB8000, 'H')
	b.Write(0xB8001, 0x07)
	if got := b.Read(0xB8000); got != 'H' {
		t.Fatalf("video read %02X, want 'H'", got)
	}

	// The A0000 window is not mapped while the device window sits at
	// B8000.
	if got := b.Read(0xA0000); got != 0xFF {
		t.Fatalf("read outside device window %02X, want FF", got)
	}
}

func TestWriteBytesSpansWindow(t *testing.T) {
	b := newTextBus(t)

	data := []byte{'O', 0x07, 'K', 0x07}
	b.WriteBytes(0xB8000, data)

	buf := make([]byte, 4)
	b.ReadBytes(0xB8000, buf)
	if string(buf[0:1])+string(buf[2:3]) != "OK" {
		t.Fatalf("read back %v", buf)
	}

	// A run starting in RAM and ending in the window routes each part
	// correctly.
	b.WriteBytes(0xB7FFE, []byte{1, 2, 3, 4})
	if b.Read(0xB7FFE) != 0xFF || b.Read(0xB7FFF) != 0xFF {
		t.Fatalf("bytes below the window should be unmapped")
	}
	if got := b.Read(0xB8000); got != 3 {
		t.Fatalf("window byte %02X, want 03", got)
	}
}

func TestPortRouting(t *testing.T) {
	b := newTextBus(t)

	b.WritePort(vga.PortCRTCIndex, vga.CRTCOffset)
	if got := b.ReadPort(vga.PortCRTCData); got != 0x28 {
		t.Fatalf("crtc offset via bus %02X, want 28", got)
	}

	if got := b.ReadPort(0x60); got != 0xFF {
		t.Fatalf("unmapped port read %02X, want FF", got)
	}
	b.WritePort(0x60, 0x00) // ignored
}
