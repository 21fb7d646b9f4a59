//go:build gps
// +build gps

package kernel

func init() { buildFeatures.GPS = true }
