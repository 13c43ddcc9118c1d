package vga

// Memory geometry.
const (
	NumPlanes = 4
	PlaneSize = 0x10000
	planeMask = PlaneSize - 1

	// DAC palette: 256 entries * 3 components (6-bit each).
	PaletteSize = 768
)

// Sequencer register indices (port 0x3C4/0x3C5).
const (
	SeqReset    = 0x00
	SeqClocking = 0x01
	SeqMapMask  = 0x02
	SeqCharMap  = 0x03
	SeqMemMode  = 0x04

	seqRegCount = 5
)

const (
	seqClock8Dot = 1 << 0 // 8-dot character clock (else 9-dot)
	seqMemChain4 = 1 << 3
)

// Graphics Controller register indices (port 0x3CE/0x3CF).
const (
	GCSetReset       = 0x00
	GCEnableSetReset = 0x01
	GCColorCompare   = 0x02
	GCDataRotate     = 0x03
	GCReadMapSelect  = 0x04
	GCMode           = 0x05
	GCMisc           = 0x06
	GCColorDontCare  = 0x07
	GCBitMask        = 0x08

	gcRegCount = 9
)

const (
	gcModeOddEven  = 1 << 4
	gcModeShiftReg = 1 << 5 // interleaved shift
	gcModeShift256 = 1 << 6

	gcMiscNoAlpha = 1 << 0 // graphics mode when set
)

// CRTC register indices (port 0x3D4/0x3D5).
const (
	CRTCHorzTotal     = 0x00
	CRTCEndHorzDisp   = 0x01
	CRTCOverflow      = 0x07
	CRTCMaxScanLine   = 0x09
	CRTCCursorStart   = 0x0A
	CRTCCursorEnd     = 0x0B
	CRTCStartAddrHigh = 0x0C
	CRTCStartAddrLow  = 0x0D
	CRTCCursorLocHigh = 0x0E
	CRTCCursorLocLow  = 0x0F
	CRTCVertDispEnd   = 0x12
	CRTCOffset        = 0x13
	CRTCUnderline     = 0x14
	CRTCModeControl   = 0x17

	crtcRegCount = 25
)

const (
	crtcOverflowVDE8    = 1 << 1 // bit 8 of vertical display end
	crtcOverflowVDE9    = 1 << 6 // bit 9
	crtcUnderlineDword  = 1 << 6
	crtcModeControlByte = 1 << 6
)

// Attribute Controller register indices (port 0x3C0, index/data latched).
const (
	ACPalette0    = 0x00
	ACModeControl = 0x10

	acRegCount = 21
)

const acMode8Bit = 1 << 6 // 8-bit color (256-color modes)

// Misc output register bits (write 0x3C2, read 0x3CC).
const miscRAMEnabled = 1 << 1

// Input status #1 bits.
const (
	statDisplayDisabled = 1 << 0
	statVerticalRetrace = 1 << 3
)

// regEffect describes the side effects of writing a register at a given
// index. Each indexed group carries one entry per register so the port
// dispatcher never needs per-index conditionals.
type regEffect uint8

const (
	effectNone   regEffect = 0
	effectMode   regEffect = 1 << 0
	effectCursor regEffect = 1 << 1
)

// regGroup is one indexed register bank: a latched index plus a data
// array. Out-of-range index selections are dropped and the previous
// index is retained, matching permissive hardware behavior.
type regGroup struct {
	index   byte
	regs    []byte
	effects []regEffect
}

func newRegGroup(count int, resetIndex byte, effects map[byte]regEffect) regGroup {
	g := regGroup{
		index:   resetIndex,
		regs:    make([]byte, count),
		effects: make([]regEffect, count),
	}
	for idx, e := range effects {
		g.effects[idx] = e
	}
	return g
}

// selectIndex latches a new register index if it is in range.
func (g *regGroup) selectIndex(v byte) {
	if int(v) < len(g.regs) {
		g.index = v
	}
}

// writeData stores into the selected register and reports its side effect.
func (g *regGroup) writeData(v byte) regEffect {
	g.regs[g.index] = v
	return g.effects[g.index]
}

func (g *regGroup) readData() byte {
	return g.regs[g.index]
}

func newSequencer() regGroup {
	return newRegGroup(seqRegCount, SeqReset, nil)
}

func newGraphicsController() regGroup {
	return newRegGroup(gcRegCount, GCSetReset, map[byte]regEffect{
		// The GC misc register decides text vs graphics mode.
		GCMisc: effectMode,
	})
}

func newCRTC() regGroup {
	return newRegGroup(crtcRegCount, CRTCHorzTotal, map[byte]regEffect{
		CRTCEndHorzDisp: effectMode,
		CRTCVertDispEnd: effectMode,
		CRTCOverflow:    effectMode,

		CRTCCursorLocLow:  effectCursor,
		CRTCCursorLocHigh: effectCursor,
		CRTCCursorStart:   effectCursor,
		CRTCCursorEnd:     effectCursor,
	})
}

func newAttributeController() regGroup {
	return newRegGroup(acRegCount, ACPalette0, nil)
}
