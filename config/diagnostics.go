//go:build !release

package config

// diagnosticsEnabled turns on validation layers and the debug messenger. Build with
// -tags release to compile them out.
const diagnosticsEnabled = true
