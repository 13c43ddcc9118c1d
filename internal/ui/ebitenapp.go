package ui

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"vdm86/internal/emu"
)

type App struct {
	cfg    Config
	m      *emu.Machine
	tex    *ebiten.Image
	texW   int
	texH   int
	paused bool
}

func NewApp(cfg Config, m *emu.Machine) *App {
	cfg.Defaults()
	w, h := m.Size()
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(w*cfg.Scale, h*cfg.Scale)
	return &App{cfg: cfg, m: m}
}

func (a *App) Run() error { return ebiten.RunGame(a) }

func (a *App) Update() error {
	// Pause toggle (P)
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.paused = !a.paused
	}

	// Frame-step when paused (N)
	if a.paused && inpututil.IsKeyJustPressed(ebiten.KeyN) {
		if err := a.m.StepFrame(); err != nil {
			return err
		}
	}

	// Quick mode switches, like a guest calling INT 10h AH=00h.
	switch {
	case inpututil.IsKeyJustPressed(ebiten.Key1):
		_ = a.m.SetVideoMode(0x03)
	case inpututil.IsKeyJustPressed(ebiten.Key2):
		_ = a.m.SetVideoMode(0x12)
	case inpututil.IsKeyJustPressed(ebiten.Key3):
		_ = a.m.SetVideoMode(0x13)
	}

	// Save/Load state (F5/F7, slot 0)
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		_ = a.m.SaveStateToFile("slot0.savestate")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF7) {
		_ = a.m.LoadStateFromFile("slot0.savestate")
	}

	// Screenshot (F12)
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		_ = a.saveScreenshot()
	}

	if !a.paused {
		if err := a.m.StepFrame(); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) Draw(screen *ebiten.Image) {
	w, h := a.m.Size()
	if a.tex == nil || a.texW != w || a.texH != h {
		if a.tex != nil {
			a.tex.Deallocate()
		}
		a.tex = ebiten.NewImage(w, h)
		a.texW, a.texH = w, h
	}
	a.tex.WritePixels(a.m.Framebuffer())
	screen.DrawImage(a.tex, nil)
}

// Layout follows the machine resolution so mode switches resize the
// logical screen.
func (a *App) Layout(outW, outH int) (int, int) { return a.m.Size() }

func (a *App) saveScreenshot() error {
	fb := a.m.Framebuffer()
	w, h := a.m.Size()
	img := &image.RGBA{
		Pix:    make([]byte, len(fb)),
		Stride: 4 * w,
		Rect:   image.Rect(0, 0, w, h),
	}
	copy(img.Pix, fb)
	ts := time.Now().Format("20060102_150405")
	name := fmt.Sprintf("screenshot_%s.png", ts)
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
