package config

const (
	defaultClientTarget  = "http://localhost:8089"
	defaultClientTimeout = 30000

	defaultTailPath = "/stream"

	defaultServeListen   = ":8089"
	defaultServeInterval = 250
	defaultServeCount    = 10
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Client: ClientConfig{
			Target:    defaultClientTarget,
			TimeoutMs: defaultClientTimeout,
		},
		Tail: TailConfig{
			Path: defaultTailPath,
		},
		Serve: ServeConfig{
			Listen:     defaultServeListen,
			IntervalMs: defaultServeInterval,
			Count:      defaultServeCount,
		},
	}
}
