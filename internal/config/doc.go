// Package config defines the flat parameter surface for the pipeline and
// loads it from environment variables and an optional YAML file.
package config
