package framegate

// Option applies a configuration option to the gate.
type Option func(*lastFrameGate)

// WithRewind controls whether a timestamp older than the last admitted one
// starts a new stream (true, the default, for looping video) or is skipped.
func WithRewind(allow bool) Option {
	return func(g *lastFrameGate) {
		g.rewind = allow
	}
}
