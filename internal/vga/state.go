package vga

import (
	"bytes"
	"encoding/gob"
)

// --- Save/Load state ---
type deviceState struct {
	Misc      byte
	SeqIndex  byte
	SeqRegs   []byte
	GCIndex   byte
	GCRegs    []byte
	CRTCIndex byte
	CRTCRegs  []byte
	ACIndex   byte
	ACRegs    []byte
	ACLatch   bool

	DACIndex int
	DACWrite bool
	Palette  [PaletteSize]byte

	Planes [NumPlanes][PlaneSize]byte

	InVRetrace bool
	InHRetrace bool
}

func (d *Device) SaveState() []byte {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	s := deviceState{
		Misc:      d.misc,
		SeqIndex:  d.seq.index,
		SeqRegs:   d.seq.regs,
		GCIndex:   d.gc.index,
		GCRegs:    d.gc.regs,
		CRTCIndex: d.crtc.index,
		CRTCRegs:  d.crtc.regs,
		ACIndex:   d.ac.index,
		ACRegs:    d.ac.regs,
		ACLatch:   d.acLatch,

		DACIndex: d.dac.index,
		DACWrite: d.dac.writeMode,
		Palette:  d.dac.palette,

		Planes: d.planes,

		InVRetrace: d.inVerticalRetrace,
		InHRetrace: d.inHorizontalRetrace,
	}
	_ = enc.Encode(s)
	return buf.Bytes()
}

func (d *Device) LoadState(data []byte) error {
	var s deviceState
	dec := gob.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&s); err != nil {
		return err
	}
	d.misc = s.Misc
	d.seq.index = s.SeqIndex
	copy(d.seq.regs, s.SeqRegs)
	d.gc.index = s.GCIndex
	copy(d.gc.regs, s.GCRegs)
	d.crtc.index = s.CRTCIndex
	copy(d.crtc.regs, s.CRTCRegs)
	d.ac.index = s.ACIndex
	copy(d.ac.regs, s.ACRegs)
	d.acLatch = s.ACLatch

	d.dac.index = s.DACIndex
	d.dac.writeMode = s.DACWrite
	d.dac.palette = s.Palette

	d.planes = s.Planes

	d.inVerticalRetrace = s.InVRetrace
	d.inHorizontalRetrace = s.InHRetrace

	// The restored registers may describe a different mode than the
	// current surface; rebuild it on the next refresh.
	d.modeChanged = true
	return nil
}
