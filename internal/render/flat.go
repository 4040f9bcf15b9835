package render

// Flat is a minimal software rasterizer: a themed background fill plus
// one solid rectangle per sprite. It exists so the CLI and tests can
// produce real observation frames without an image pipeline.
type Flat struct{}

// NewFlat returns the flat-color rasterizer.
func NewFlat() *Flat {
	return &Flat{}
}

type bgr struct {
	b, g, r byte
}

// basePalette maps entity type tags to colors. Types beyond the table
// cycle through it.
var basePalette = []bgr{
	{0x30, 0xA0, 0xF0}, // 0: agent, orange
	{0x60, 0x60, 0x60}, // 1: walls/barriers, gray
	{0x20, 0x20, 0x20}, // 2: bounds, near-black
	{0x40, 0xD0, 0xF0}, // 3: projectiles, yellow
	{0x40, 0x40, 0xC0}, // 4: hazards, red
	{0xC0, 0x80, 0x40}, // 5: steel blue
	{0x90, 0x50, 0xB0}, // 6: plum
	{0x50, 0xC0, 0x50}, // 7: pickups, green
	{0xB0, 0xB0, 0x30}, // 8: teal
	{0x30, 0xB0, 0xB0}, // 9: olive
	{0x20, 0x80, 0xC0}, // 10: doors, amber
	{0x30, 0x30, 0x90}, // 11: locks, dark red
	{0xD0, 0x60, 0xD0}, // 12: goals, magenta
}

var backgroundPalette = []bgr{
	{0x40, 0x30, 0x18},
	{0x28, 0x38, 0x18},
	{0x18, 0x28, 0x38},
	{0x30, 0x18, 0x30},
}

// colorFor shades the base color by theme so same-type entities with
// different themes remain distinguishable.
func colorFor(typ, theme int32) bgr {
	c := basePalette[int(uint32(typ))%len(basePalette)]
	if theme <= 0 {
		return c
	}
	shade := byte((theme * 23) % 96)
	return bgr{
		b: lighten(c.b, shade),
		g: lighten(c.g, shade),
		r: lighten(c.r, shade),
	}
}

func lighten(v, by byte) byte {
	if int(v)+int(by) > 0xFF {
		return 0xFF
	}
	return v + by
}

// Draw fills dst with the background color and rasterizes each sprite
// as a solid rectangle in draw-command order.
func (f *Flat) Draw(dst []byte, w, h int, view View, backgroundTheme int32, sprites []Sprite) {
	if len(dst) < w*h*4 {
		return
	}
	bg := backgroundPalette[int(uint32(backgroundTheme))%len(backgroundPalette)]
	for i := 0; i < w*h*4; i += 4 {
		dst[i] = bg.b
		dst[i+1] = bg.g
		dst[i+2] = bg.r
		dst[i+3] = 0xFF
	}
	if view.Span <= 0 {
		return
	}

	scale := float32(w) / view.Span
	originX := view.CenterX - view.Span/2
	originY := view.CenterY - float32(h)/scale/2

	for _, s := range sprites {
		c := colorFor(s.Type, s.Theme)
		x0 := int((s.X - s.RX - originX) * scale)
		x1 := int((s.X + s.RX - originX) * scale)
		// World y grows upward; frame rows grow downward.
		y0 := h - int((s.Y+s.RY-originY)*scale)
		y1 := h - int((s.Y-s.RY-originY)*scale)
		if x1 <= x0 {
			x1 = x0 + 1
		}
		if y1 <= y0 {
			y1 = y0 + 1
		}
		for y := max(y0, 0); y < min(y1, h); y++ {
			row := y * w * 4
			for x := max(x0, 0); x < min(x1, w); x++ {
				i := row + x*4
				dst[i] = c.b
				dst[i+1] = c.g
				dst[i+2] = c.r
				dst[i+3] = 0xFF
			}
		}
	}
}
