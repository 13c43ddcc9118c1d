package main

import (
	"flag"
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/image/draw"

	"vdm86/internal/emu"
	"vdm86/internal/ui"
	"vdm86/internal/vga"
)

type CLIFlags struct {
	Mode  string
	Scale int
	Title string
	Trace bool
	Demo  bool

	// headless
	Headless bool
	Frames   int
	PNGOut   string
	Expect   string // expected framebuffer CRC32 hex (e.g., "1a2b3c4d")
}

func parseFlags() CLIFlags {
	var f CLIFlags
	flag.StringVar(&f.Mode, "mode", "03", "initial BIOS video mode (hex)")
	flag.IntVar(&f.Scale, "scale", 2, "window scale")
	flag.StringVar(&f.Title, "title", "vdm86", "window title")
	flag.BoolVar(&f.Trace, "trace", false, "port I/O trace log")
	flag.BoolVar(&f.Demo, "demo", true, "paint a demo pattern into video memory")

	// headless options
	flag.BoolVar(&f.Headless, "headless", false, "run without a window")
	flag.IntVar(&f.Frames, "frames", 60, "frames to run in headless mode")
	flag.StringVar(&f.PNGOut, "outpng", "", "write last framebuffer to PNG at path")
	flag.StringVar(&f.Expect, "expect", "", "assert framebuffer CRC32 (hex)")
	flag.Parse()
	return f
}

func runHeadless(m *emu.Machine, frames, scale int, pngPath, expectCRC string) error {
	if frames <= 0 {
		frames = 1
	}

	start := time.Now()
	for i := 0; i < frames; i++ {
		if err := m.StepFrame(); err != nil {
			return err
		}
	}
	dur := time.Since(start)

	fb := m.Framebuffer()
	w, h := m.Size()
	crc := crc32.ChecksumIEEE(fb)
	fps := float64(frames) / dur.Seconds()

	log.Printf("headless: %dx%d frames=%d elapsed=%s fps=%.2f fb_crc32=%08x",
		w, h, frames, dur.Truncate(time.Millisecond), fps, crc)

	if pngPath != "" {
		if err := saveFramePNG(fb, w, h, scale, pngPath); err != nil {
			return fmt.Errorf("write PNG: %w", err)
		}
		log.Printf("wrote %s", pngPath)
	}

	if expectCRC != "" {
		// normalize expected hex (allow with/without 0x, upper/lowercase)
		want := strings.TrimPrefix(strings.ToLower(expectCRC), "0x")
		got := fmt.Sprintf("%08x", crc)
		if got != want {
			return fmt.Errorf("checksum mismatch: got %s, want %s", got, want)
		}
	}
	return nil
}

func saveFramePNG(pix []byte, w, h, scale int, path string) error {
	src := &image.RGBA{
		Pix:    make([]byte, len(pix)),
		Stride: 4 * w,
		Rect:   image.Rect(0, 0, w, h),
	}
	copy(src.Pix, pix)

	out := image.Image(src)
	if scale > 1 {
		dst := image.NewRGBA(image.Rect(0, 0, w*scale, h*scale))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
		out = dst
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, out)
}

// demoPattern paints something recognizable for each mode so a bare run
// shows more than an empty screen.
func demoPattern(m *emu.Machine, mode byte) {
	switch mode {
	case 0x13:
		// Full palette sweep: 16 rows per color band.
		b := m.Bus()
		base := m.Device().VideoBase()
		for y := 0; y < 200; y++ {
			for x := 0; x < 320; x++ {
				b.Write(base+uint32(y*320+x), byte((y/16)*16+x*16/320))
			}
		}
	case 0x12:
		// Color bars, one plane-select write per band.
		b := m.Bus()
		base := m.Device().VideoBase()
		for band := 0; band < 16; band++ {
			m.WritePort(vga.PortSeqIndex, vga.SeqMapMask)
			m.WritePort(vga.PortSeqData, byte(band))
			for y := band * 30; y < (band+1)*30 && y < 480; y++ {
				for x := 0; x < 80; x++ {
					b.Write(base+uint32(y*80+x), 0xFF)
				}
			}
		}
		m.WritePort(vga.PortSeqIndex, vga.SeqMapMask)
		m.WritePort(vga.PortSeqData, 0x0F)
	default:
		m.WriteText(0, 0, 0x1F, " vdm86 ")
		m.WriteText(2, 0, 0x07, "C:\\>")
		m.SetCursorPosition(2, 4)
	}
}

func main() {
	f := parseFlags()

	mode64, err := strconv.ParseUint(strings.TrimPrefix(f.Mode, "0x"), 16, 8)
	if err != nil {
		log.Fatalf("bad -mode %q: %v", f.Mode, err)
	}
	mode := byte(mode64)

	m, err := emu.New(emu.Config{VideoMode: mode, TraceIO: f.Trace})
	if err != nil {
		log.Fatal(err)
	}
	if f.Demo {
		demoPattern(m, mode)
	}

	if f.Headless {
		if err := runHeadless(m, f.Frames, f.Scale, f.PNGOut, f.Expect); err != nil {
			log.Fatal(err)
		}
		return
	}

	uiCfg := ui.Config{Title: f.Title, Scale: f.Scale}
	app := ui.NewApp(uiCfg, m)
	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
}
