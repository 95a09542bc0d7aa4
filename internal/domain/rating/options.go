package rating

// Default noise half-widths, in rating units.
const (
	DefaultTeamNoise = 10.0
	DefaultDuelNoise = 12.0
)

// Option configures an Engine.
type Option func(*Engine)

// WithTeamNoise sets the half-width of the uniform noise added to team ratings.
func WithTeamNoise(n float64) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.teamNoise = n
		}
	}
}

// WithDuelNoise sets the half-width of the uniform noise added to duel ratings.
func WithDuelNoise(n float64) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.duelNoise = n
		}
	}
}
