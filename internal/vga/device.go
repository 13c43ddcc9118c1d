package vga

import (
	"sync"
)

// Device models a VGA-compatible adapter: the six register banks, four
// 64KB memory planes, and a host-facing surface derived from them. All
// port and memory entry points are driven by a single CPU-emulation
// goroutine; only the surface may additionally be read by a host redraw
// goroutine, which is why surface state lives behind mu.
type Device struct {
	misc byte
	seq  regGroup
	gc   regGroup
	crtc regGroup
	ac   regGroup

	// Attribute controller index/data flip-flop. Reset by status reads.
	acLatch bool

	dac struct {
		index     int
		writeMode bool
		palette   [PaletteSize]byte
	}

	planes [NumPlanes][PlaneSize]byte

	inVerticalRetrace   bool
	inHorizontalRetrace bool

	modeChanged bool
	cursorMoved bool

	warnedInterleaved bool

	// Surface state, shared with the host redraw path.
	mu          sync.Mutex
	surfaceText bool
	text        []Cell
	pixels      []byte
	surfW       int
	surfH       int
	needsUpdate bool
	dirty       Rect
}

// NewDevice returns a device in its power-on state: index registers at
// their hardware defaults, memory cleared, DAC in write direction. The
// first RefreshDisplay allocates the surface for whatever mode the BIOS
// collaborator has seeded.
func NewDevice() *Device {
	d := &Device{
		seq:  newSequencer(),
		gc:   newGraphicsController(),
		crtc: newCRTC(),
		ac:   newAttributeController(),
		// Force surface allocation on the first refresh.
		modeChanged: true,
	}
	return d
}

// SignalHorizontalRetrace is called by an external timer once per
// emulated scanline.
func (d *Device) SignalHorizontalRetrace() {
	d.inHorizontalRetrace = true
}

// SignalVerticalRetrace is called by an external timer once per emulated
// frame. RefreshDisplay also sets the flag itself after each render.
func (d *Device) SignalVerticalRetrace() {
	d.inVerticalRetrace = true
}

// RefreshDisplay re-derives the host surface from video memory. Called
// once per emulated frame. If a mode-changed edge is pending, the old
// surface is released and a new one allocated first; that reallocation
// is a full barrier against concurrent host reads.
func (d *Device) RefreshDisplay() error {
	if d.modeChanged {
		if err := d.updateMode(); err != nil {
			return err
		}
		d.modeChanged = false
	}
	d.updateFramebuffer()
	d.inVerticalRetrace = true
	return nil
}

// TakeDirtyRegion returns the bounding rectangle of cells/pixels changed
// since the last call and resets it. ok is false when nothing changed,
// in which case no repaint is needed.
func (d *Device) TakeDirtyRegion() (r Rect, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.needsUpdate {
		return Rect{}, false
	}
	r = d.dirty
	d.needsUpdate = false
	return r, true
}

// TakeCursorMoved reports whether a CRTC cursor register was written
// since the last call, and clears the flag.
func (d *Device) TakeCursorMoved() bool {
	moved := d.cursorMoved
	d.cursorMoved = false
	return moved
}

// CursorState is the text cursor derived from the CRTC cursor registers.
// Size is the visible fraction of the character cell in percent.
type CursorState struct {
	Visible bool
	Size    int
	X, Y    int
}

// Cursor recomputes the text cursor from the CRTC cursor start/end and
// location registers. The cursor is visible only if start < end; the
// cursor-end top two bits add a skew to the location before it is split
// into row and column.
func (d *Device) Cursor() CursorState {
	var c CursorState

	start := d.crtc.regs[CRTCCursorStart] & 0x3F
	end := d.crtc.regs[CRTCCursorEnd] & 0x1F
	stride := int(d.crtc.regs[CRTCOffset]) * 2
	height := int(d.crtc.regs[CRTCMaxScanLine]&0x1F) + 1
	loc := int(d.crtc.regs[CRTCCursorLocHigh])<<8 | int(d.crtc.regs[CRTCCursorLocLow])

	if start < end {
		c.Visible = true
		c.Size = (100 * int(end-start)) / height
	}

	loc += int(d.crtc.regs[CRTCCursorEnd]>>5) & 3
	if stride > 0 {
		c.X = loc % stride
		c.Y = loc / stride
	}
	return c
}

// PaletteEntry returns the raw 6-bit DAC triple for a palette entry.
// No color-space conversion happens here; hosts expand as they see fit.
func (d *Device) PaletteEntry(index byte) (r, g, b byte) {
	i := int(index) * 3
	return d.dac.palette[i], d.dac.palette[i+1], d.dac.palette[i+2]
}

// Cell is one text-mode character cell: plane 0 supplies the character,
// plane 1 the attribute byte.
type Cell struct {
	Char byte
	Attr byte
}

// WithTextSurface calls f with the current text surface while holding
// the surface lock. Returns false without calling f if the device is not
// presenting a text surface.
func (d *Device) WithTextSurface(f func(cells []Cell, w, h int)) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.surfaceText || d.text == nil {
		return false
	}
	f(d.text, d.surfW, d.surfH)
	return true
}

// WithPixelSurface calls f with the current graphics surface (one color
// index per pixel) while holding the surface lock.
func (d *Device) WithPixelSurface(f func(pix []byte, w, h int)) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.surfaceText || d.pixels == nil {
		return false
	}
	f(d.pixels, d.surfW, d.surfH)
	return true
}

// plane reads one byte from a memory plane, wrapping within the bank
// like the address counters of the real part.
func (d *Device) plane(p int, offset uint32) byte {
	return d.planes[p][offset&planeMask]
}
