// Package config loads the settings of the largemap command.
//
// Sources are applied in increasing priority: built-in defaults, a YAML
// file, LARGEMAP_* environment variables and finally explicit overrides
// (command-line flags). Loading is done with koanf.
//
// Example file:
//
//	limit: 16777216
//	keys: 1000000
//	delete_every: 10
//	seed: 42
//	output: yaml
//	metrics: true
//	log_level: debug
package config
