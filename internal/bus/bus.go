// Package bus is the CPU-visible address and port space of the machine:
// conventional RAM below 640KB, the VGA memory window above it, and the
// VGA register ports at 0x3B4-0x3DA.
package bus

import (
	"vdm86/internal/vga"
)

const convMemSize = 0xA0000 // 640KB conventional RAM

type Bus struct {
	ram []byte
	vga *vga.Device
}

func New(dev *vga.Device) *Bus {
	return &Bus{
		ram: make([]byte, convMemSize),
		vga: dev,
	}
}

// VGA returns the video device on this bus.
func (b *Bus) VGA() *vga.Device { return b.vga }

func (b *Bus) Read(addr uint32) byte {
	switch {
	case addr < convMemSize:
		return b.ram[addr]
	case addr >= b.vga.VideoBase() && addr <= b.vga.VideoLimit():
		var buf [1]byte
		b.vga.ReadMemory(addr, buf[:])
		return buf[0]
	default:
		return 0xFF // unmapped
	}
}

func (b *Bus) Write(addr uint32, value byte) {
	switch {
	case addr < convMemSize:
		b.ram[addr] = value
	case addr >= b.vga.VideoBase() && addr <= b.vga.VideoLimit():
		b.vga.WriteMemory(addr, []byte{value})
	}
}

// ReadBytes fills buf starting at addr, routing each byte like Read.
func (b *Bus) ReadBytes(addr uint32, buf []byte) {
	for i := range buf {
		buf[i] = b.Read(addr + uint32(i))
	}
}

// WriteBytes stores data starting at addr. Runs inside the video window
// go through the device in one call so multi-byte string writes keep the
// plane fan-out semantics of a burst access.
func (b *Bus) WriteBytes(addr uint32, data []byte) {
	for len(data) > 0 {
		base, limit := b.vga.VideoBase(), b.vga.VideoLimit()
		if addr >= base && addr <= limit {
			n := len(data)
			if room := int(limit-addr) + 1; n > room {
				n = room
			}
			b.vga.WriteMemory(addr, data[:n])
			addr += uint32(n)
			data = data[n:]
			continue
		}
		b.Write(addr, data[0])
		addr++
		data = data[1:]
	}
}

func (b *Bus) ReadPort(port uint16) byte {
	if port >= 0x3B4 && port <= 0x3DA {
		return b.vga.ReadPort(port)
	}
	return 0xFF // unmapped
}

func (b *Bus) WritePort(port uint16, value byte) {
	if port >= 0x3B4 && port <= 0x3DA {
		b.vga.WritePort(port, value)
	}
}
