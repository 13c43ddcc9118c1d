// vdmterm mirrors the emulated text-mode screen onto the controlling
// terminal with ANSI colors, and feeds typed keys back into video memory
// like a minimal console session. Graphics modes are out of its reach;
// use the windowed frontend for those.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"vdm86/internal/emu"
	"vdm86/internal/vga"
)

// VGA color numbering (blue=1) to ANSI numbering (red=1).
var vgaToANSI = [8]int{0, 4, 2, 6, 1, 5, 3, 7}

func ansiAttr(attr byte) string {
	fg := attr & 0x0F
	bg := (attr >> 4) & 0x07

	fgCode := 30 + vgaToANSI[fg&7]
	if fg&8 != 0 {
		fgCode += 60 // bright
	}
	bgCode := 40 + vgaToANSI[bg]
	return fmt.Sprintf("\x1b[%d;%dm", fgCode, bgCode)
}

// renderScreen builds one full ANSI frame from the text surface.
func renderScreen(m *emu.Machine) string {
	var sb strings.Builder
	sb.WriteString("\x1b[H")

	m.Device().WithTextSurface(func(cells []vga.Cell, cols, rows int) {
		lastAttr := byte(0xFF)
		for row := 0; row < rows; row++ {
			for col := 0; col < cols; col++ {
				c := cells[row*cols+col]
				if c.Attr != lastAttr {
					sb.WriteString(ansiAttr(c.Attr))
					lastAttr = c.Attr
				}
				ch := c.Char
				if ch < 0x20 || ch > 0x7E {
					ch = ' '
				}
				sb.WriteByte(ch)
			}
			sb.WriteString("\x1b[0m\r\n")
			lastAttr = 0xFF
		}
	})

	cur := m.Device().Cursor()
	if cur.Visible {
		sb.WriteString(fmt.Sprintf("\x1b[%d;%dH", cur.Y+1, cur.X+1))
		sb.WriteString("\x1b[?25h")
	} else {
		sb.WriteString("\x1b[?25l")
	}
	return sb.String()
}

type session struct {
	m    *emu.Machine
	attr byte
	row  int
	col  int
	cols int
	rows int
}

// key stores one typed byte into text video memory and advances the
// hardware cursor, scroll-free: past the last row it wraps to the top.
func (s *session) key(b byte) {
	switch {
	case b == '\r' || b == '\n':
		s.row, s.col = s.row+1, 0
	case b == 0x08 || b == 0x7F:
		if s.col > 0 {
			s.col--
			s.m.WriteText(s.row, s.col, s.attr, " ")
		}
	case b >= 0x20 && b <= 0x7E:
		s.m.WriteText(s.row, s.col, s.attr, string(b))
		s.col++
		if s.col >= s.cols {
			s.row, s.col = s.row+1, 0
		}
	}
	if s.row >= s.rows {
		s.row = 0
	}
	s.m.SetCursorPosition(s.row, s.col)
}

func main() {
	var trace bool
	flag.BoolVar(&trace, "trace", false, "port I/O trace log")
	flag.Parse()

	m, err := emu.New(emu.Config{VideoMode: 0x03, TraceIO: trace})
	if err != nil {
		log.Fatal(err)
	}
	if !m.IsTextMode() {
		log.Fatal("vdmterm: device is not in a text mode")
	}

	cols, rows := m.Device().CurrentResolution()
	s := &session{m: m, attr: 0x07, cols: cols, rows: rows}

	m.WriteText(0, 0, 0x1F, " vdm86 terminal console (ESC quits) ")
	s.row = 2
	m.SetCursorPosition(s.row, s.col)

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		log.Fatalf("set raw mode: %v", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
		fmt.Print("\x1b[0m\x1b[?25h\x1b[H\x1b[2J")
	}()
	if err := syscall.SetNonblock(fd, true); err != nil {
		log.Fatalf("set nonblocking stdin: %v", err)
	}

	fmt.Print("\x1b[2J")
	buf := make([]byte, 1)
	last := ""
	tick := time.NewTicker(time.Second / 60)
	defer tick.Stop()

	for range tick.C {
		n, err := syscall.Read(fd, buf)
		if n > 0 {
			if buf[0] == 0x1B || buf[0] == 0x03 {
				return
			}
			s.key(buf[0])
		}
		if err != nil && err != syscall.EAGAIN && err != syscall.EWOULDBLOCK {
			return
		}

		if err := m.StepFrame(); err != nil {
			log.Printf("frame: %v", err)
			return
		}
		if frame := renderScreen(m); frame != last {
			fmt.Print(frame)
			last = frame
		}
	}
}
