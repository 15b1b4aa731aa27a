//go:build release

package config

const diagnosticsEnabled = false
