package vga

import "fmt"

// Hard cap on surface dimensions; anything beyond it means the CRTC was
// programmed with garbage and allocating a surface for it would be wrong.
const maxDimension = 4096

// IsTextMode reports whether the register state selects alphanumeric
// presentation. Derived from the GC misc register on every call, never
// cached.
func (d *Device) IsTextMode() bool {
	return d.gc.regs[GCMisc]&gcMiscNoAlpha == 0
}

// CurrentResolution derives the display resolution from the CRTC state:
// character columns/rows in text mode, pixels in graphics mode.
func (d *Device) CurrentResolution() (w, h int) {
	maxScanLine := int(d.crtc.regs[CRTCMaxScanLine]&0x1F) + 1

	// Low 8 bits come from the display-end registers, the overflow
	// register supplies bits 8 and 9 of the vertical count.
	w = int(d.crtc.regs[CRTCEndHorzDisp])
	h = int(d.crtc.regs[CRTCVertDispEnd])
	if d.crtc.regs[CRTCOverflow]&crtcOverflowVDE8 != 0 {
		h |= 1 << 8
	}
	if d.crtc.regs[CRTCOverflow]&crtcOverflowVDE9 != 0 {
		h |= 1 << 9
	}
	w++
	h++

	if !d.IsTextMode() {
		// Character clock is 8 or 9 dots wide.
		if d.seq.regs[SeqClocking]&seqClock8Dot != 0 {
			w *= 8
		} else {
			w *= 9
		}
		// 8-bit color halves the horizontal pixel rate.
		if d.ac.regs[ACModeControl]&acMode8Bit != 0 {
			w /= 2
		}
	}

	// Maximum scan line doubles as the font height in text mode.
	h /= maxScanLine
	return w, h
}

// CharCell returns the size of one character cell in dots.
func (d *Device) CharCell() (w, h int) {
	w = 9
	if d.seq.regs[SeqClocking]&seqClock8Dot != 0 {
		w = 8
	}
	return w, int(d.crtc.regs[CRTCMaxScanLine]&0x1F) + 1
}

// decodePath identifies which of the pixel decode algorithms the current
// register state selects. Modeled as an exhaustive enum so the
// unimplemented interleaved path is a visible variant rather than a
// silent fallthrough.
type decodePath int

const (
	decodePlanar4 decodePath = iota // 1 bit per plane, 16 colors
	decodePlanar8                   // 2 bits per plane, 256 colors
	decodeShift256With4Bit
	decodeShift256With8Bit
	decodeInterleaved // shift-register mode, unimplemented
)

func (p decodePath) String() string {
	switch p {
	case decodePlanar4:
		return "planar-4bit"
	case decodePlanar8:
		return "planar-8bit"
	case decodeShift256With4Bit:
		return "shift256-4bit"
	case decodeShift256With8Bit:
		return "shift256-8bit"
	case decodeInterleaved:
		return "interleaved"
	}
	return "unknown"
}

// decodeMode selects the decode path from two GC mode bits and the AC
// 8-bit color bit. Shift-256 wins over the interleaved shift register.
func (d *Device) decodeMode() decodePath {
	eightBit := d.ac.regs[ACModeControl]&acMode8Bit != 0
	switch {
	case d.gc.regs[GCMode]&gcModeShift256 != 0:
		if eightBit {
			return decodeShift256With8Bit
		}
		return decodeShift256With4Bit
	case d.gc.regs[GCMode]&gcModeShiftReg != 0:
		return decodeInterleaved
	default:
		if eightBit {
			return decodePlanar8
		}
		return decodePlanar4
	}
}

// updateMode releases the current surface and allocates one matching the
// new register state. Runs under the surface lock: mode changes are a
// full barrier against concurrent rendering and host reads.
func (d *Device) updateMode() error {
	w, h := d.CurrentResolution()
	if w <= 0 || h <= 0 || w > maxDimension || h > maxDimension {
		return fmt.Errorf("vga: display resolution %dx%d out of range", w, h)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	// Release first so the old storage is never aliased by a stale
	// reference while the new one fills in.
	d.text = nil
	d.pixels = nil

	d.surfaceText = d.IsTextMode()
	d.surfW, d.surfH = w, h
	if d.surfaceText {
		d.text = make([]Cell, w*h)
	} else {
		d.pixels = make([]byte, w*h)
	}

	// Everything is new; repaint the whole surface.
	d.needsUpdate = true
	d.dirty = Rect{Left: 0, Top: 0, Right: w - 1, Bottom: h - 1}
	return nil
}
