package emu

// Config contains settings that affect machine behavior.
type Config struct {
	VideoMode byte // initial BIOS video mode (0 means the default text mode)
	TraceIO   bool // log port I/O
	// Later: CPU core selection, floppy/disk images, etc.
}
