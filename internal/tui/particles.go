package tui

import (
	"math/rand"

	"charm.land/lipgloss/v2"
	"github.com/skiva/tidvis/internal/timeline"
)

// particleMode selects the decorative background animation.
type particleMode int

const (
	particlesOff particleMode = iota
	particlesRain
	particlesStars
)

// String returns the mode name as used in config and log lines.
func (p particleMode) String() string {
	switch p {
	case particlesRain:
		return "rain"
	case particlesStars:
		return "stars"
	default:
		return "off"
	}
}

// next cycles off, rain, stars, off.
func (p particleMode) next() particleMode {
	switch p {
	case particlesOff:
		return particlesRain
	case particlesRain:
		return particlesStars
	default:
		return particlesOff
	}
}

// particleModeFor parses a config mode name.
func particleModeFor(name string) (particleMode, bool) {
	switch name {
	case "", "off":
		return particlesOff, true
	case "rain":
		return particlesRain, true
	case "stars":
		return particlesStars, true
	}
	return particlesOff, false
}

// Halfwidth katakana keep every glyph one cell wide.
var (
	rainRunes = []rune("01ｱｲｳｴｵｶｷｸｹｺｻｼｽｾｿﾀﾁﾂﾃﾄ")
	starRunes = []rune("·•∙○◦*+×")
)

// raindrop is one falling streak of glyphs in a single column.
type raindrop struct {
	col    int
	head   int
	length int
	speed  int
	glyphs []rune
}

// star is one twinkling point with an occasional horizontal drift.
type star struct {
	x      int
	y      int
	phase  int
	period int
	drift  int
}

// particleField animates raindrops or stars over a cell grid. It only
// ever writes into blank cells, so real content always wins.
type particleField struct {
	mode   particleMode
	width  int
	height int
	frame  int
	rng    *rand.Rand
	drops  []raindrop
	stars  []star
}

func newParticleField(mode particleMode, seed int64) *particleField {
	return &particleField{mode: mode, rng: rand.New(rand.NewSource(seed))}
}

// setMode switches the animation and rebuilds the particle set.
func (f *particleField) setMode(mode particleMode) {
	f.mode = mode
	f.populate()
}

// resize adapts the field to a new grid, keeping the rng stream.
func (f *particleField) resize(width, height int) {
	if width == f.width && height == f.height {
		return
	}
	f.width = width
	f.height = height
	f.populate()
}

func (f *particleField) populate() {
	f.drops = nil
	f.stars = nil
	if f.width <= 0 || f.height <= 0 {
		return
	}
	switch f.mode {
	case particlesRain:
		count := max(1, f.width/3)
		f.drops = make([]raindrop, count)
		for i := range f.drops {
			f.drops[i] = f.newDrop()
		}
	case particlesStars:
		count := max(1, f.width*f.height/24)
		f.stars = make([]star, count)
		for i := range f.stars {
			f.stars[i] = f.newStar()
		}
	}
}

func (f *particleField) newDrop() raindrop {
	length := 3 + f.rng.Intn(5)
	glyphs := make([]rune, length)
	for i := range glyphs {
		glyphs[i] = rainRunes[f.rng.Intn(len(rainRunes))]
	}
	return raindrop{
		col:    f.rng.Intn(f.width),
		head:   -f.rng.Intn(f.height + length),
		length: length,
		speed:  1 + f.rng.Intn(3),
		glyphs: glyphs,
	}
}

func (f *particleField) newStar() star {
	return star{
		x:      f.rng.Intn(f.width),
		y:      f.rng.Intn(f.height),
		phase:  f.rng.Intn(64),
		period: 4 + f.rng.Intn(8),
		drift:  f.rng.Intn(3) - 1,
	}
}

// step advances the animation by one frame.
func (f *particleField) step() {
	if f.mode == particlesOff || f.width <= 0 || f.height <= 0 {
		return
	}
	f.frame++
	for i := range f.drops {
		d := &f.drops[i]
		if f.frame%d.speed == 0 {
			d.head++
		}
		if d.head-d.length >= f.height {
			*d = f.newDrop()
		}
	}
	for i := range f.stars {
		s := &f.stars[i]
		s.phase++
		if s.drift != 0 && s.phase%16 == 0 {
			s.x = (s.x + s.drift + f.width) % f.width
		}
	}
}

// drawInto paints the field into blank canvas cells.
func (f *particleField) drawInto(c *timeline.Canvas, style *lipgloss.Style) {
	switch f.mode {
	case particlesRain:
		for _, d := range f.drops {
			for i := 0; i < d.length; i++ {
				row := d.head - i
				if r, st := c.CellAt(d.col, row); r != ' ' || st != nil {
					continue
				}
				c.Set(d.col, row, d.glyphs[i%len(d.glyphs)], style)
			}
		}
	case particlesStars:
		for _, s := range f.stars {
			if r, st := c.CellAt(s.x, s.y); r != ' ' || st != nil {
				continue
			}
			c.Set(s.x, s.y, starRunes[(s.phase/s.period)%len(starRunes)], style)
		}
	}
}
