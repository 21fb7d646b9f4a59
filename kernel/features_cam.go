//go:build cam
// +build cam

package kernel

func init() { buildFeatures.Cam = true }
