package vga

import "testing"

func TestIndexClampRetainsPrevious(t *testing.T) {
	d := NewDevice()
	d.WritePort(PortSeqIndex, SeqMapMask)
	d.WritePort(PortSeqIndex, 0x12) // out of range, dropped
	if got := d.ReadPort(PortSeqIndex); got != SeqMapMask {
		t.Fatalf("seq index %02X, want %02X", got, SeqMapMask)
	}

	d.WritePort(PortCRTCIndex, CRTCOffset)
	d.WritePort(PortCRTCIndex, 0x40)
	if got := d.ReadPort(PortCRTCIndex); got != CRTCOffset {
		t.Fatalf("crtc index %02X, want %02X", got, CRTCOffset)
	}
}

func TestDACIndexWraps(t *testing.T) {
	d := NewDevice()
	d.WritePort(PortDACWriteIndex, 0)
	for i := 0; i < PaletteSize; i++ {
		d.WritePort(PortDACData, byte(i)&0x3F)
	}
	if got := d.ReadPort(PortDACWriteIndex); got != 0 {
		t.Fatalf("index after %d writes = %d, want 0", PaletteSize, got)
	}

	d.WritePort(PortDACReadIndex, 0)
	for i := 0; i < PaletteSize; i++ {
		if got := d.ReadPort(PortDACData); got != byte(i)&0x3F {
			t.Fatalf("palette[%d] = %02X, want %02X", i, got, byte(i)&0x3F)
		}
	}
	// A full read cycle wraps back to the start as well.
	if got := d.ReadPort(PortDACData); got != 0 {
		t.Fatalf("after wrap, read %02X, want 00", got)
	}
}

func TestDACDirection(t *testing.T) {
	d := NewDevice()

	d.WritePort(PortDACWriteIndex, 0)
	if got := d.ReadPort(PortDACReadIndex); got != 0 {
		t.Fatalf("state in write direction = %d, want 0", got)
	}
	d.WritePort(PortDACReadIndex, 0)
	if got := d.ReadPort(PortDACReadIndex); got != 3 {
		t.Fatalf("state in read direction = %d, want 3", got)
	}

	// Data writes are dropped while in read direction.
	d.WritePort(PortDACData, 0x2A)
	if d.dac.palette[0] != 0 || d.dac.index != 0 {
		t.Fatalf("data write in read direction went through")
	}
}

func TestDACDataMasksTo6Bits(t *testing.T) {
	d := NewDevice()
	d.WritePort(PortDACWriteIndex, 0)
	d.WritePort(PortDACData, 0xFF)
	if d.dac.palette[0] != 0x3F {
		t.Fatalf("palette[0] = %02X, want 3F", d.dac.palette[0])
	}
}

func TestStatusReadConsumesRetrace(t *testing.T) {
	d := NewDevice()

	d.SignalVerticalRetrace()
	if got := d.ReadPort(PortStatusColor); got != statDisplayDisabled|statVerticalRetrace {
		t.Fatalf("first status read %02X", got)
	}
	if got := d.ReadPort(PortStatusColor); got != 0 {
		t.Fatalf("second status read %02X, want 0", got)
	}

	d.SignalHorizontalRetrace()
	if got := d.ReadPort(PortStatusMono); got != statDisplayDisabled {
		t.Fatalf("horizontal-only status read %02X", got)
	}
	if got := d.ReadPort(PortStatusMono); got != 0 {
		t.Fatalf("status not consumed: %02X", got)
	}
}

func TestACLatchToggleAndReset(t *testing.T) {
	d := NewDevice()
	d.ReadPort(PortStatusColor)

	// First write selects the index, second writes the data.
	d.WritePort(PortACIndex, ACModeControl)
	d.WritePort(PortACIndex, 0x41)
	if got := d.ReadPort(PortACRead); got != 0x41 {
		t.Fatalf("ac data %02X, want 41", got)
	}

	// A status read resets the latch: the next write is an index select
	// again, not data.
	d.WritePort(PortACIndex, 0x05)
	d.ReadPort(PortStatusColor)
	d.WritePort(PortACIndex, 0x07)
	if got := d.ReadPort(PortACIndex); got != 0x07 {
		t.Fatalf("ac index %02X, want 07", got)
	}
	if got := d.ReadPort(PortACRead); got != 0 {
		t.Fatalf("palette reg 7 = %02X, want 0", got)
	}
}

func TestModeChangedEdges(t *testing.T) {
	d := NewDevice()
	setTextMode(d)
	refresh(t, d) // consume the pending edge

	if d.modeChanged {
		t.Fatalf("edge not consumed by refresh")
	}
	out(d, PortGCIndex, PortGCData, GCMisc, 0x05)
	if !d.modeChanged {
		t.Fatalf("gc misc write did not mark a mode change")
	}

	d.modeChanged = false
	out(d, PortCRTCIndex, PortCRTCData, CRTCVertDispEnd, 0x8F)
	if !d.modeChanged {
		t.Fatalf("vertical display end write did not mark a mode change")
	}

	d.modeChanged = false
	out(d, PortCRTCIndex, PortCRTCData, CRTCOffset, 0x28)
	if d.modeChanged {
		t.Fatalf("offset write should not mark a mode change")
	}
}

func TestMiscRoundTrip(t *testing.T) {
	d := NewDevice()
	d.WritePort(PortMiscWrite, 0x67)
	if got := d.ReadPort(PortMiscRead); got != 0x67 {
		t.Fatalf("misc %02X, want 67", got)
	}
}
