package emu

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"vdm86/internal/vga"
)

// expand6 widens a 6-bit DAC component to 8 bits.
func expand6(v byte) byte { return v<<2 | v>>4 }

func (m *Machine) paletteColor(index byte) color.RGBA {
	r, g, b := m.dev.PaletteEntry(index)
	return color.RGBA{expand6(r), expand6(g), expand6(b), 0xFF}
}

// present repaints the RGBA framebuffer from the device surface over the
// dirty region the renderer accumulated. The core stores raw color
// indices and DAC triples; RGB expansion happens only here, on the host
// side of the boundary.
func (m *Machine) present() error {
	dirty, any := m.dev.TakeDirtyRegion()
	cursorMoved := m.dev.TakeCursorMoved()

	if m.dev.IsTextMode() {
		m.presentText(dirty, any, cursorMoved)
	} else {
		m.presentGraphics(dirty, any)
	}
	return nil
}

func (m *Machine) presentGraphics(dirty vga.Rect, any bool) {
	m.dev.WithPixelSurface(func(pix []byte, w, h int) {
		if m.fbW != w || m.fbH != h {
			m.fb = make([]byte, w*h*4)
			m.fbW, m.fbH = w, h
			dirty = vga.Rect{Left: 0, Top: 0, Right: w - 1, Bottom: h - 1}
			any = true
		}
		if !any {
			return
		}
		dirty = clampRect(dirty, w, h)

		for y := dirty.Top; y <= dirty.Bottom; y++ {
			for x := dirty.Left; x <= dirty.Right; x++ {
				c := m.paletteColor(pix[y*w+x])
				i := (y*w + x) * 4
				m.fb[i+0] = c.R
				m.fb[i+1] = c.G
				m.fb[i+2] = c.B
				m.fb[i+3] = 0xFF
			}
		}
	})
}

func (m *Machine) presentText(dirty vga.Rect, any bool, cursorMoved bool) {
	cw, ch := m.dev.CharCell()
	cur := m.dev.Cursor()

	m.dev.WithTextSurface(func(cells []vga.Cell, cols, rows int) {
		w, h := cols*cw, rows*ch
		if m.fbW != w || m.fbH != h {
			m.fb = make([]byte, w*h*4)
			m.fbW, m.fbH = w, h
			dirty = vga.Rect{Left: 0, Top: 0, Right: cols - 1, Bottom: rows - 1}
			any = true
		}
		if !any && !cursorMoved && cur == m.lastCursor {
			return
		}
		dirty = clampRect(dirty, cols, rows)

		img := &image.RGBA{
			Pix:    m.fb,
			Stride: 4 * w,
			Rect:   image.Rect(0, 0, w, h),
		}

		if any {
			for row := dirty.Top; row <= dirty.Bottom; row++ {
				for col := dirty.Left; col <= dirty.Right; col++ {
					m.drawCell(img, cells[row*cols+col], col, row, cw, ch)
				}
			}
		}

		// Repaint the cell the cursor left, then overlay its new
		// position.
		if m.lastCursor.Visible {
			lx, ly := m.lastCursor.X, m.lastCursor.Y
			if lx < cols && ly < rows {
				m.drawCell(img, cells[ly*cols+lx], lx, ly, cw, ch)
			}
		}
		if cur.Visible && cur.X < cols && cur.Y < rows {
			m.drawCursor(img, cells[cur.Y*cols+cur.X], cur, cw, ch)
		}
		m.lastCursor = cur
	})
}

// drawCell paints one character cell: attribute background, then the
// glyph in the attribute foreground.
func (m *Machine) drawCell(img *image.RGBA, cell vga.Cell, col, row, cw, ch int) {
	px, py := col*cw, row*ch
	fg := m.paletteColor(cell.Attr & 0x0F)
	bg := m.paletteColor((cell.Attr >> 4) & 0x0F)

	for y := py; y < py+ch; y++ {
		for x := px; x < px+cw; x++ {
			img.SetRGBA(x, y, bg)
		}
	}

	// The host face covers printable ASCII; other CP437 codes show as
	// blank cells.
	if cell.Char >= 0x20 && cell.Char <= 0x7E {
		d := font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(fg),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(px+1, py+ch-3),
		}
		d.DrawString(string(rune(cell.Char)))
	}
}

// drawCursor overlays the hardware cursor: a block filling the bottom
// part of the cell proportional to its size.
func (m *Machine) drawCursor(img *image.RGBA, cell vga.Cell, cur vga.CursorState, cw, ch int) {
	lines := ch * cur.Size / 100
	if lines < 1 {
		lines = 1
	}
	px, py := cur.X*cw, cur.Y*ch
	fg := m.paletteColor(cell.Attr & 0x0F)
	for y := py + ch - lines; y < py+ch; y++ {
		for x := px; x < px+cw; x++ {
			img.SetRGBA(x, y, fg)
		}
	}
}

func clampRect(r vga.Rect, w, h int) vga.Rect {
	if r.Left < 0 {
		r.Left = 0
	}
	if r.Top < 0 {
		r.Top = 0
	}
	if r.Right >= w {
		r.Right = w - 1
	}
	if r.Bottom >= h {
		r.Bottom = h - 1
	}
	return r
}
