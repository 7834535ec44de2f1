package config

import "strings"

const (
	// EnvReporter names a reporter appended to every run
	EnvReporter = "HITREPORT_REPORTER"
	// EnvConfig points at a config file
	EnvConfig = "HITREPORT_CONFIG"
	// EnvNoColor disables colored output
	EnvNoColor = "HITREPORT_NO_COLOR"
)

// Environment holds the values read from the process environment. It is read
// once at startup and passed explicitly to the code that needs it.
type Environment struct {
	ReporterOverride string
	CI               bool
	Platform         string
}

// LoadEnvironment reads the environment through getenv (usually os.Getenv)
func LoadEnvironment(getenv func(string) string) Environment {
	platform := DetectPlatform(getenv)
	return Environment{
		ReporterOverride: strings.TrimSpace(getenv(EnvReporter)),
		CI:               platform != "local",
		Platform:         platform,
	}
}

// DetectPlatform returns the CI platform name, "ci" for a generic CI
// environment, or "local"
func DetectPlatform(getenv func(string) string) string {
	switch {
	case getenv("GITHUB_ACTIONS") == "true":
		return "github"
	case getenv("GITLAB_CI") == "true":
		return "gitlab"
	case getenv("JENKINS_URL") != "" || getenv("JENKINS_HOME") != "":
		return "jenkins"
	case getenv("BUILDKITE") == "true":
		return "buildkite"
	case getenv("TF_BUILD") == "True" || getenv("TF_BUILD") == "true":
		return "azure"
	case getenv("CIRCLECI") == "true":
		return "circleci"
	case getenv("TRAVIS") == "true":
		return "travis"
	}

	if truthy(getenv("CI")) {
		return "ci"
	}
	return "local"
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	}
	return false
}
