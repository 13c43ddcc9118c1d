package vga

import (
	"log"
	"math"
)

// Rect is an inclusive cell/pixel rectangle.
type Rect struct {
	Left, Top, Right, Bottom int
}

// Empty reports whether the rectangle covers nothing.
func (r Rect) Empty() bool {
	return r.Right < r.Left || r.Bottom < r.Top
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.Left && x <= r.Right && y >= r.Top && y <= r.Bottom
}

// markDirty widens the dirty rectangle to include one changed cell.
// Callers hold d.mu.
func (d *Device) markDirty(row, col int) {
	if !d.needsUpdate {
		d.dirty = Rect{
			Left: math.MaxInt32, Top: math.MaxInt32,
			Right: math.MinInt32, Bottom: math.MinInt32,
		}
	}
	d.dirty.Left = min(d.dirty.Left, col)
	d.dirty.Right = max(d.dirty.Right, col)
	d.dirty.Top = min(d.dirty.Top, row)
	d.dirty.Bottom = max(d.dirty.Bottom, row)
	d.needsUpdate = true
}

// updateFramebuffer re-derives the whole surface from the memory planes,
// widening the dirty rectangle for every cell whose value changed. The
// render is O(resolution) but the host repaint stays bounded by the
// accumulated rectangle.
func (d *Device) updateFramebuffer() {
	d.mu.Lock()
	defer d.mu.Unlock()

	addrSize := d.addressSize()
	addr := uint32(d.crtc.regs[CRTCStartAddrHigh])<<8 |
		uint32(d.crtc.regs[CRTCStartAddrLow])
	stride := uint32(d.crtc.regs[CRTCOffset]) * 2

	if d.surfaceText {
		d.renderText(addr, addrSize, stride)
	} else {
		d.renderGraphics(addr, addrSize, stride)
	}
}

// renderText decodes character cells: plane 0 holds the character code,
// plane 1 the attribute at the same offset.
func (d *Device) renderText(addr, addrSize, stride uint32) {
	for row := 0; row < d.surfH; row++ {
		for col := 0; col < d.surfW; col++ {
			off := (addr + uint32(col)) * addrSize
			cell := Cell{
				Char: d.plane(0, off),
				Attr: d.plane(1, off),
			}

			i := row*d.surfW + col
			if d.text[i] != cell {
				d.text[i] = cell
				d.markDirty(row, col)
			}
		}
		addr += stride
	}
}

func (d *Device) renderGraphics(addr, addrSize, stride uint32) {
	mode := d.decodeMode()
	if mode == decodeInterleaved {
		// Capability gap, not an error: pixels keep their previous
		// values and rendering carries on next frame.
		if !d.warnedInterleaved {
			log.Printf("vga: %s shift mode is not implemented", mode)
			d.warnedInterleaved = true
		}
		return
	}

	for row := 0; row < d.surfH; row++ {
		for col := 0; col < d.surfW; col++ {
			var pixel byte

			switch mode {
			case decodeShift256With8Bit:
				// One byte per pixel from the interleaved planes.
				pixel = d.plane(col%NumPlanes,
					(addr+uint32(col/NumPlanes))*addrSize)

			case decodeShift256With4Bit:
				// Same fetch at half density; alternating pixels take
				// the high or low nibble.
				pixel = d.plane(col%NumPlanes,
					(addr+uint32(col/(NumPlanes*2)))*addrSize)
				if (col/NumPlanes)%2 == 0 {
					pixel >>= 4
				} else {
					pixel &= 0x0F
				}

			case decodePlanar8:
				// 8 bits per pixel, a bit pair from each plane.
				for k := 0; k < NumPlanes; k++ {
					data := d.plane(k, (addr+uint32(col/4))*addrSize)
					// Mask of the first bit of the pair.
					bit := byte(1) << (((3-(col%4))*2 + 1))
					if data&bit != 0 {
						pixel |= 1 << k
					}
					if data&(bit>>1) != 0 {
						pixel |= 1 << (k + 4)
					}
				}

			case decodePlanar4:
				// 4 bits per pixel, one bit from each plane.
				for k := 0; k < NumPlanes; k++ {
					data := d.plane(k, (addr+uint32(col/8))*addrSize)
					if data&(1<<(7-(col%8))) != 0 {
						pixel |= 1 << k
					}
				}
			}

			i := row*d.surfW + col
			if d.pixels[i] != pixel {
				d.pixels[i] = pixel
				d.markDirty(row, col)
			}
		}
		addr += stride
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
