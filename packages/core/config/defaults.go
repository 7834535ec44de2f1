package config

// DefaultReporter is used when neither the config nor the CLI names one
const DefaultReporter = "list"

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		RootDir:   "",
		OutputDir: "",
		Reporter:  ReporterList{{Name: DefaultReporter}},
		NoColor:   nil,
	}
}
