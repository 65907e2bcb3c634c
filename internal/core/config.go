package core

// Config is runtime configuration for the core.
type Config struct {
	ServiceID       string
	SeekTimeUnit    string
	DefaultRenderer string
	Aliases         map[string]string
}
