package emu

import (
	"bytes"
	"encoding/gob"
	"log"
	"os"

	"vdm86/internal/bios"
	"vdm86/internal/bus"
	"vdm86/internal/vga"
)

// Machine aggregates the VGA device and the CPU-visible bus and drives
// the display refresh once per emulated frame. The CPU/BIOS emulator
// proper is an external collaborator; it talks to the machine through
// the port and memory entry points.
type Machine struct {
	cfg Config
	bus *bus.Bus
	dev *vga.Device

	// Host-facing RGBA framebuffer derived from the device surface.
	fb         []byte
	fbW, fbH   int
	lastCursor vga.CursorState
}

func New(cfg Config) (*Machine, error) {
	if cfg.VideoMode == 0 {
		cfg.VideoMode = bios.DefaultVideoMode
	}

	dev := vga.NewDevice()
	if err := bios.SetVideoMode(dev, cfg.VideoMode); err != nil {
		return nil, err
	}

	m := &Machine{
		cfg: cfg,
		bus: bus.New(dev),
		dev: dev,
	}

	// Allocate the surface and framebuffer for the seeded mode.
	if err := m.StepFrame(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Machine) Bus() *bus.Bus       { return m.bus }
func (m *Machine) Device() *vga.Device { return m.dev }
func (m *Machine) Framebuffer() []byte { return m.fb }
func (m *Machine) Size() (w, h int)    { return m.fbW, m.fbH }
func (m *Machine) IsTextMode() bool    { return m.dev.IsTextMode() }

// SetVideoMode reprograms the device through the BIOS collaborator.
func (m *Machine) SetVideoMode(mode byte) error {
	return bios.SetVideoMode(m.dev, mode)
}

// ReadPort and WritePort are the CPU-facing port entry points.
func (m *Machine) ReadPort(port uint16) byte {
	v := m.bus.ReadPort(port)
	if m.cfg.TraceIO {
		log.Printf("in  %04X -> %02X", port, v)
	}
	return v
}

func (m *Machine) WritePort(port uint16, value byte) {
	if m.cfg.TraceIO {
		log.Printf("out %04X <- %02X", port, value)
	}
	m.bus.WritePort(port, value)
}

// StepFrame advances the machine by one video frame: it pulses the
// retrace timing, refreshes the device surface, and repaints the RGBA
// framebuffer over whatever region the device reports dirty.
func (m *Machine) StepFrame() error {
	m.dev.SignalHorizontalRetrace()
	if err := m.dev.RefreshDisplay(); err != nil {
		return err
	}
	return m.present()
}

// WriteText stores a string into text-mode video memory at a cell
// position, with the given attribute, through the normal bus path.
func (m *Machine) WriteText(row, col int, attr byte, s string) {
	cols, _ := m.dev.CurrentResolution()
	addr := m.dev.VideoBase() + uint32(row*cols+col)*2
	data := make([]byte, 0, len(s)*2)
	for i := 0; i < len(s); i++ {
		data = append(data, s[i], attr)
	}
	m.bus.WriteBytes(addr, data)
}

// SetCursorPosition moves the hardware text cursor through the CRTC
// cursor location registers, like INT 10h AH=02h would.
func (m *Machine) SetCursorPosition(row, col int) {
	cols, _ := m.dev.CurrentResolution()
	loc := row*cols + col
	m.dev.WritePort(vga.PortCRTCIndex, vga.CRTCCursorLocHigh)
	m.dev.WritePort(vga.PortCRTCData, byte(loc>>8))
	m.dev.WritePort(vga.PortCRTCIndex, vga.CRTCCursorLocLow)
	m.dev.WritePort(vga.PortCRTCData, byte(loc))
}

// --- Save/Load state ---
type machineState struct {
	VGA []byte
}

func (m *Machine) SaveState() []byte {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	_ = enc.Encode(machineState{VGA: m.dev.SaveState()})
	return buf.Bytes()
}

func (m *Machine) LoadState(data []byte) error {
	var s machineState
	dec := gob.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&s); err != nil {
		return err
	}
	if err := m.dev.LoadState(s.VGA); err != nil {
		return err
	}
	// Rebuild the surface and framebuffer for the restored mode.
	return m.StepFrame()
}

func (m *Machine) SaveStateToFile(path string) error {
	data := m.SaveState()
	if len(data) == 0 {
		return nil
	}
	return os.WriteFile(path, data, 0644)
}

func (m *Machine) LoadStateFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return m.LoadState(data)
}
