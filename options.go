package fsenv

// Options configures a LocalEnv.
type Options struct {
	// Logger receives diagnostic output from the environment itself.
	// Defaults to a no-op logger.
	Logger *Logger
}

// WithLogger sets the environment's diagnostic logger.
func WithLogger(l *Logger) func(*Options) {
	return func(o *Options) {
		if l == nil {
			l = NoopLogger()
		}
		o.Logger = l
	}
}
