//go:build grounddetect
// +build grounddetect

package kernel

func init() { buildFeatures.GroundDetect = true }
