//go:build extraadc
// +build extraadc

package kernel

func init() { buildFeatures.ExtraADC = true }
