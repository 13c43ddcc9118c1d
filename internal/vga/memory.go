package vga

// CPU-visible memory windows, selected by GC misc bits 2-3.
var (
	memoryBase  = [4]uint32{0xA0000, 0xA0000, 0xB0000, 0xB8000}
	memoryLimit = [4]uint32{0xAFFFF, 0xAFFFF, 0xB7FFF, 0xBFFFF}
)

// VideoBase returns the start of the CPU-visible window.
func (d *Device) VideoBase() uint32 {
	return memoryBase[(d.gc.regs[GCMisc]>>2)&0x03]
}

// VideoLimit returns the last address of the CPU-visible window.
func (d *Device) VideoLimit() uint32 {
	return memoryLimit[(d.gc.regs[GCMisc]>>2)&0x03]
}

// addressSize returns the memory addressing unit in bytes. Dword
// addressing (CRTC underline reg) has priority over byte addressing
// (CRTC mode control reg); the default is word addressing.
func (d *Device) addressSize() uint32 {
	if d.crtc.regs[CRTCUnderline]&crtcUnderlineDword != 0 {
		return 4
	}
	if d.crtc.regs[CRTCModeControl]&crtcModeControlByte != 0 {
		return 1
	}
	return 2
}

// translateRead maps a CPU address to (plane, offset) for a read. Reads
// select exactly one plane: the low address bits in chain-4 or odd/even
// mode, the GC read map select otherwise.
func (d *Device) translateRead(addr uint32) (plane int, offset uint32) {
	offset = addr - d.VideoBase()

	switch {
	case d.seq.regs[SeqMemMode]&seqMemChain4 != 0:
		plane = int(offset & 3)
		offset >>= 2
	case d.gc.regs[GCMode]&gcModeOddEven != 0:
		plane = int(offset & 1)
		offset >>= 1
	default:
		plane = int(d.gc.regs[GCReadMapSelect] & 0x03)
	}

	return plane, offset * d.addressSize()
}

// translateWrite maps a CPU address to the plane-relative offset for a
// write. Plane fan-out is decided per plane in WriteMemory, so only the
// offset shift happens here.
func (d *Device) translateWrite(addr uint32) uint32 {
	offset := addr - d.VideoBase()

	if d.seq.regs[SeqMemMode]&seqMemChain4 != 0 {
		offset >>= 2
	} else if d.gc.regs[GCMode]&gcModeOddEven != 0 {
		offset >>= 1
	}

	return offset * d.addressSize()
}

// ReadMemory copies video memory into buf starting at the CPU address.
// If video RAM access is disabled in the misc register, buf is left
// untouched.
func (d *Device) ReadMemory(addr uint32, buf []byte) {
	if d.misc&miscRAMEnabled == 0 {
		return
	}

	for i := range buf {
		p, off := d.translateRead(addr + uint32(i))
		buf[i] = d.plane(p, off)
	}
}

// WriteMemory stores data at the CPU address, fanning each byte out to
// every plane enabled by the sequencer map mask. A single write commonly
// lands on several planes at once in planar modes, or on exactly one
// plane in chain-4 mode. Silently dropped if RAM access is disabled or
// the map mask is all zero.
func (d *Device) WriteMemory(addr uint32, data []byte) {
	if d.misc&miscRAMEnabled == 0 {
		return
	}
	if d.seq.regs[SeqMapMask]&0x0F == 0 {
		return
	}

	chain4 := d.seq.regs[SeqMemMode]&seqMemChain4 != 0
	oddEven := d.gc.regs[GCMode]&gcModeOddEven != 0

	for i, b := range data {
		a := addr + uint32(i)
		off := d.translateWrite(a)

		for p := 0; p < NumPlanes; p++ {
			if d.seq.regs[SeqMapMask]&(1<<p) == 0 {
				continue
			}
			if chain4 && a&3 != uint32(p) {
				continue
			}
			if oddEven && a&1 != uint32(p)&1 {
				continue
			}
			d.planes[p][off&planeMask] = b
		}
	}
}
