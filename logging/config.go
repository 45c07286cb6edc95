package logging

// Config contains the configurable items for this package.
type Config struct {
	// Environment selects the encoder: "dev" for console output, anything
	// else for production json.
	Environment string
	// Level overrides the environment's default level when set. It is the one
	// logging knob applied live on config reload.
	Level string
}

// NewDefaultConfig creates an instance of the package-specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Environment: "dev",
		Level:       "",
	}
}
