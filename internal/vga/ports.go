package vga

// VGA I/O port numbers.
const (
	PortACIndex       = 0x3C0 // index/data, latched
	PortACRead        = 0x3C1
	PortMiscWrite     = 0x3C2
	PortSeqIndex      = 0x3C4
	PortSeqData       = 0x3C5
	PortDACReadIndex  = 0x3C7 // read reports DAC state
	PortDACWriteIndex = 0x3C8
	PortDACData       = 0x3C9
	PortMiscRead      = 0x3CC
	PortGCIndex       = 0x3CE
	PortGCData        = 0x3CF
	PortCRTCIndex     = 0x3D4
	PortCRTCData      = 0x3D5
	PortStatusMono    = 0x3BA
	PortStatusColor   = 0x3DA
)

// ReadPort handles a CPU port read. Unknown ports read as zero.
func (d *Device) ReadPort(port uint16) byte {
	switch port {
	case PortACIndex:
		return d.ac.index
	case PortACRead:
		return d.ac.readData()

	case PortSeqIndex:
		return d.seq.index
	case PortSeqData:
		return d.seq.readData()

	case PortDACReadIndex:
		// Reports the DAC state: 0 in write direction, 3 in read.
		if d.dac.writeMode {
			return 0
		}
		return 3
	case PortDACWriteIndex:
		return byte(d.dac.index)
	case PortDACData:
		// A data read in write direction is undefined on the real
		// part; it reads as zero here.
		if !d.dac.writeMode {
			v := d.dac.palette[d.dac.index]
			d.dac.index = (d.dac.index + 1) % PaletteSize
			return v
		}
		return 0

	case PortMiscRead:
		return d.misc

	case PortCRTCIndex:
		return d.crtc.index
	case PortCRTCData:
		return d.crtc.readData()

	case PortGCIndex:
		return d.gc.index
	case PortGCData:
		return d.gc.readData()

	case PortStatusMono, PortStatusColor:
		return d.readStatus()
	}

	return 0
}

// readStatus reports the retrace state and then consumes it: both
// retrace flags and the attribute controller latch are cleared as a side
// effect. Legacy software busy-polls this port, so the clearing-on-read
// semantics matter.
func (d *Device) readStatus() byte {
	var result byte

	d.acLatch = false

	if d.inVerticalRetrace || d.inHorizontalRetrace {
		result |= statDisplayDisabled
	}
	if d.inVerticalRetrace {
		result |= statVerticalRetrace
	}

	d.inVerticalRetrace = false
	d.inHorizontalRetrace = false

	return result
}

// WritePort handles a CPU port write. Unknown ports are ignored.
func (d *Device) WritePort(port uint16, v byte) {
	switch port {
	case PortACIndex:
		// Alternates between index select and data write; the latch
		// resets on status reads.
		if !d.acLatch {
			d.ac.selectIndex(v)
		} else {
			d.ac.writeData(v)
		}
		d.acLatch = !d.acLatch

	case PortSeqIndex:
		d.seq.selectIndex(v)
	case PortSeqData:
		d.seq.writeData(v)

	case PortDACReadIndex:
		d.dac.writeMode = false
		d.dac.index = int(v) % PaletteSize
	case PortDACWriteIndex:
		d.dac.writeMode = true
		d.dac.index = int(v) % PaletteSize
	case PortDACData:
		// Ignored in read direction.
		if d.dac.writeMode {
			d.dac.palette[d.dac.index] = v & 0x3F
			d.dac.index = (d.dac.index + 1) % PaletteSize
		}

	case PortMiscWrite:
		d.misc = v

	case PortCRTCIndex:
		d.crtc.selectIndex(v)
	case PortCRTCData:
		d.applyEffect(d.crtc.writeData(v))

	case PortGCIndex:
		d.gc.selectIndex(v)
	case PortGCData:
		d.applyEffect(d.gc.writeData(v))
	}
}

func (d *Device) applyEffect(e regEffect) {
	if e&effectMode != 0 {
		d.modeChanged = true
	}
	if e&effectCursor != 0 {
		d.cursorMoved = true
	}
}
