// SPDX-License-Identifier: EPL-2.0

// Package utils holds small sample conversion helpers.
package utils

// Float32ToInt16 converts a float sample in [-1, 1] to 16-bit PCM,
// clamping out of range values.
func Float32ToInt16(x float32) int16 {
	// Clamp and scale
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// Use 32767 for positive max to avoid overflow
	return int16(x * 32767.0)
}
