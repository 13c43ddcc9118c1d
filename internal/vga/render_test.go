package vga

import "testing"

func TestDirtyRegionMonotonicity(t *testing.T) {
	d := NewDevice()
	setTextMode(d)
	refresh(t, d)
	d.TakeDirtyRegion()

	// Two separated cell writes widen one bounding rectangle.
	d.WriteMemory(0xB8000, []byte{'X', 0x07})
	d.WriteMemory(0xB8000+uint32(2*80+10)*2, []byte{'Y', 0x07})
	refresh(t, d)

	r, changed := d.TakeDirtyRegion()
	if !changed {
		t.Fatalf("expected a dirty region")
	}
	want := Rect{Left: 0, Top: 0, Right: 10, Bottom: 2}
	if r != want {
		t.Fatalf("dirty %+v, want %+v", r, want)
	}
	if !r.Contains(0, 0) || !r.Contains(10, 2) {
		t.Fatalf("rect does not contain its own corners")
	}
}

func TestRectEmpty(t *testing.T) {
	if (Rect{Left: 0, Top: 0, Right: 0, Bottom: 0}).Empty() {
		t.Fatalf("single cell rect reported empty")
	}
	if !(Rect{Left: 1, Top: 0, Right: 0, Bottom: 0}).Empty() {
		t.Fatalf("inverted rect reported non-empty")
	}
}

func TestShift256Render(t *testing.T) {
	d := NewDevice()
	setMode13(d)

	// Linear chain-4 writes: one byte per pixel.
	d.WriteMemory(0xA0000, []byte{1, 2, 3, 4})
	d.WriteMemory(0xA0000+320, []byte{9})
	refresh(t, d)

	d.WithPixelSurface(func(pix []byte, w, h int) {
		for i, want := range []byte{1, 2, 3, 4} {
			if pix[i] != want {
				t.Fatalf("pixel %d = %d, want %d", i, pix[i], want)
			}
		}
		if pix[w] != 9 {
			t.Fatalf("pixel (0,1) = %d, want 9", pix[w])
		}
	})
}

func TestPlanar4Render(t *testing.T) {
	d := NewDevice()
	setMode12(d)

	// One byte on plane 0 only: eight pixels of color 1.
	out(d, PortSeqIndex, PortSeqData, SeqMapMask, 0x01)
	d.WriteMemory(0xA0000, []byte{0xFF})
	// One byte on planes 0 and 3: eight pixels of color 9 on row 1.
	out(d, PortSeqIndex, PortSeqData, SeqMapMask, 0x09)
	d.WriteMemory(0xA0000+80, []byte{0x80})
	refresh(t, d)

	d.WithPixelSurface(func(pix []byte, w, h int) {
		for x := 0; x < 8; x++ {
			if pix[x] != 1 {
				t.Fatalf("pixel %d = %d, want 1", x, pix[x])
			}
		}
		if pix[8] != 0 {
			t.Fatalf("pixel 8 = %d, want 0", pix[8])
		}
		if pix[w] != 9 {
			t.Fatalf("pixel (0,1) = %d, want 9", pix[w])
		}
		if pix[w+1] != 0 {
			t.Fatalf("pixel (1,1) = %d, want 0", pix[w+1])
		}
	})
}

func TestInterleavedShiftLeavesPixels(t *testing.T) {
	d := NewDevice()
	setMode12(d)
	d.WriteMemory(0xA0000, []byte{0xFF})
	refresh(t, d)
	d.TakeDirtyRegion()

	// Flipping to the interleaved shift register must not disturb the
	// rendered pixels.
	out(d, PortGCIndex, PortGCData, GCMode, 0x20)
	d.WriteMemory(0xA0000, []byte{0x00})
	refresh(t, d)

	d.WithPixelSurface(func(pix []byte, w, h int) {
		for x := 0; x < 8; x++ {
			if pix[x] != 0x0F {
				t.Fatalf("pixel %d = %d, want 15", x, pix[x])
			}
		}
	})
	if _, changed := d.TakeDirtyRegion(); changed {
		t.Fatalf("interleaved pass should not dirty the surface")
	}
}

func TestStartAddressPans(t *testing.T) {
	d := NewDevice()
	setTextMode(d)
	d.WriteMemory(0xB8000+160, []byte{'Q', 0x07}) // row 1, col 0
	refresh(t, d)

	// Start address 80 scrolls the display up one text row.
	out(d, PortCRTCIndex, PortCRTCData, CRTCStartAddrHigh, 0x00)
	out(d, PortCRTCIndex, PortCRTCData, CRTCStartAddrLow, 80)
	refresh(t, d)

	d.WithTextSurface(func(cells []Cell, w, h int) {
		if cells[0].Char != 'Q' {
			t.Fatalf("cell (0,0) = %+v after pan", cells[0])
		}
	})
}
