// Package config handles reporter configuration for hitreport.
//
// It provides functionality for:
//   - Loading configuration from JSON or YAML files, validated against a schema
//   - Normalizing the reporter value (a single name or a list of [name, arg]
//     pairs) into ordered reporter descriptors
//   - Reading the environment once: reporter override and CI detection
//   - Building the FullConfig handed to reporters at the start of a run
package config
