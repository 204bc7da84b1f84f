// Package config loads adbundle settings from YAML, .env and the environment.
package config
