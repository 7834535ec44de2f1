package config

import (
	"github.com/google/uuid"
)

// FullConfig is the resolved configuration handed to reporters in OnBegin
type FullConfig struct {
	RootDir   string
	OutputDir string
	Reporters []ReporterDescriptor
	Version   string
	RunID     string
}

// NewFullConfig freezes a config for one run. Each call gets a fresh run ID.
func NewFullConfig(c *Config, version string) *FullConfig {
	reporters := make([]ReporterDescriptor, len(c.Reporter))
	copy(reporters, c.Reporter)

	return &FullConfig{
		RootDir:   c.RootDir,
		OutputDir: c.OutputDir,
		Reporters: reporters,
		Version:   version,
		RunID:     uuid.New().String(),
	}
}
