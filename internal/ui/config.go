package ui

// Config contains window related settings.
type Config struct {
	Title string // window title
	Scale int    // integer upscaling factor
	// Later: fullscreen, vsync toggle, key mapping, etc.
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.Title == "" {
		c.Title = "vdm86"
	}
	if c.Scale <= 0 {
		c.Scale = 2
	}
}
