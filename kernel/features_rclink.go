//go:build rclink
// +build rclink

package kernel

func init() { buildFeatures.RadioLink = true }
