// Package config handles YAML configuration loading with environment variable substitution.
//
// Configuration files support ${VAR} syntax for environment variable interpolation.
// An empty navigation.routes list selects the built-in TaskFoo route table.
package config
