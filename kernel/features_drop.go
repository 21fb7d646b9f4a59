//go:build drop
// +build drop

package kernel

func init() { buildFeatures.Drop = true }
