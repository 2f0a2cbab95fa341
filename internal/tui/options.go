package tui

type Option func(*Model)

func WithTheme(theme Theme) Option {
	return func(m *Model) {
		m.theme = theme
	}
}

func WithParticles(mode string) Option {
	return func(m *Model) {
		if parsed, ok := particleModeFor(mode); ok {
			m.particleMode = parsed
		}
	}
}

func WithParticleSeed(seed int64) Option {
	return func(m *Model) {
		m.particleSeed = seed
	}
}

func WithZoomBounds(minZoom, maxZoom int) Option {
	return func(m *Model) {
		if minZoom >= 1 && maxZoom >= minZoom {
			m.vp.MinZoom = minZoom
			m.vp.MaxZoom = maxZoom
		}
	}
}

func WithDefaultZoom(zoom int) Option {
	return func(m *Model) {
		if zoom >= 1 {
			m.vp.Zoom = zoom
		}
	}
}

func WithTickSpacing(spacing int) Option {
	return func(m *Model) {
		if spacing >= 1 {
			m.tickSpacing = spacing
		}
	}
}

func WithClipboard(write func(string) error) Option {
	return func(m *Model) {
		if write != nil {
			m.writeClipboard = write
		}
	}
}
