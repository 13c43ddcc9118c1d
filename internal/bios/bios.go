// Package bios is the video-mode-set collaborator: it seeds the VGA
// register banks with the standard tables for a handful of BIOS modes,
// going through the device's port interface exactly like the real INT 10h
// handler would.
package bios

import (
	"fmt"

	"vdm86/internal/vga"
)

// DefaultVideoMode is the mode established at machine startup.
const DefaultVideoMode = 0x03

// modeTable is one BIOS register set. The attribute palette entries are
// identity-mapped onto the DAC, which is seeded with the standard
// 16-color set in the same order.
type modeTable struct {
	misc byte
	seq  [5]byte
	crtc [25]byte
	gc   [9]byte
	ac   [21]byte
}

var modeTables = map[byte]modeTable{
	// 80x25 16-color text, 9x16 cells (720x400).
	0x03: {
		misc: 0x67,
		seq:  [5]byte{0x03, 0x00, 0x03, 0x00, 0x02},
		crtc: [25]byte{
			0x5F, 0x4F, 0x50, 0x82, 0x55, 0x81, 0xBF, 0x1F,
			0x00, 0x4F, 0x0D, 0x0E, 0x00, 0x00, 0x00, 0x00,
			0x9C, 0x8E, 0x8F, 0x28, 0x1F, 0x96, 0xB9, 0xA3,
			0xFF,
		},
		gc: [9]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x10, 0x0E, 0x0F, 0xFF},
		ac: [21]byte{
			0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07,
			0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F,
			0x0C, 0x00, 0x0F, 0x08, 0x00,
		},
	},

	// 640x480 16-color planar graphics.
	0x12: {
		misc: 0xE3,
		seq:  [5]byte{0x03, 0x01, 0x0F, 0x00, 0x06},
		crtc: [25]byte{
			0x5F, 0x4F, 0x50, 0x82, 0x54, 0x80, 0x0B, 0x3E,
			0x00, 0x40, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			0xEA, 0x8C, 0xDF, 0x28, 0x00, 0xE7, 0x04, 0xE3,
			0xFF,
		},
		gc: [9]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x05, 0x0F, 0xFF},
		ac: [21]byte{
			0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07,
			0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F,
			0x01, 0x00, 0x0F, 0x00, 0x00,
		},
	},

	// 320x200 256-color chain-4 graphics.
	0x13: {
		misc: 0x63,
		seq:  [5]byte{0x03, 0x01, 0x0F, 0x00, 0x0E},
		crtc: [25]byte{
			0x5F, 0x4F, 0x50, 0x82, 0x54, 0x80, 0xBF, 0x1F,
			0x00, 0x41, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			0x9C, 0x8E, 0x8F, 0x28, 0x40, 0x96, 0xB9, 0xA3,
			0xFF,
		},
		gc: [9]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x40, 0x05, 0x0F, 0xFF},
		ac: [21]byte{
			0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07,
			0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F,
			0x41, 0x00, 0x0F, 0x00, 0x00,
		},
	},
}

// SetVideoMode programs the device for a BIOS video mode through its
// port interface and seeds the default DAC palette.
func SetVideoMode(d *vga.Device, mode byte) error {
	t, ok := modeTables[mode]
	if !ok {
		return fmt.Errorf("bios: unsupported video mode %02Xh", mode)
	}

	d.WritePort(vga.PortMiscWrite, t.misc)

	for i, v := range t.seq {
		d.WritePort(vga.PortSeqIndex, byte(i))
		d.WritePort(vga.PortSeqData, v)
	}
	for i, v := range t.crtc {
		d.WritePort(vga.PortCRTCIndex, byte(i))
		d.WritePort(vga.PortCRTCData, v)
	}
	for i, v := range t.gc {
		d.WritePort(vga.PortGCIndex, byte(i))
		d.WritePort(vga.PortGCData, v)
	}

	// Reading the status port puts the attribute controller latch into
	// the index phase before the index/data write pairs.
	d.ReadPort(vga.PortStatusColor)
	for i, v := range t.ac {
		d.WritePort(vga.PortACIndex, byte(i))
		d.WritePort(vga.PortACIndex, v)
	}
	d.ReadPort(vga.PortStatusColor)

	loadDefaultPalette(d)
	return nil
}

// loadDefaultPalette programs the DAC with the standard 16 colors, a
// 6x6x6 color cube and a grayscale ramp, all as 6-bit components.
func loadDefaultPalette(d *vga.Device) {
	standard := [16][3]byte{
		{0, 0, 0},    // black
		{0, 0, 42},   // blue
		{0, 42, 0},   // green
		{0, 42, 42},  // cyan
		{42, 0, 0},   // red
		{42, 0, 42},  // magenta
		{42, 21, 0},  // brown
		{42, 42, 42}, // light gray
		{21, 21, 21}, // dark gray
		{21, 21, 63}, // light blue
		{21, 63, 21}, // light green
		{21, 63, 63}, // light cyan
		{63, 21, 21}, // light red
		{63, 21, 63}, // light magenta
		{63, 63, 21}, // yellow
		{63, 63, 63}, // white
	}

	d.WritePort(vga.PortDACWriteIndex, 0)
	for _, c := range standard {
		d.WritePort(vga.PortDACData, c[0])
		d.WritePort(vga.PortDACData, c[1])
		d.WritePort(vga.PortDACData, c[2])
	}

	// Entries 16-231: color cube.
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				d.WritePort(vga.PortDACData, byte(r*63/5))
				d.WritePort(vga.PortDACData, byte(g*63/5))
				d.WritePort(vga.PortDACData, byte(b*63/5))
			}
		}
	}

	// Entries 232-255: grayscale ramp.
	for i := 0; i < 24; i++ {
		gray := byte(i * 63 / 23)
		d.WritePort(vga.PortDACData, gray)
		d.WritePort(vga.PortDACData, gray)
		d.WritePort(vga.PortDACData, gray)
	}
}
