// SPDX-License-Identifier: EPL-2.0

package utils

import "encoding/binary"

// Float32ToInt16 converts a sample in [-1,1] to signed 16-bit PCM.
// Out of range input is clamped.
func Float32ToInt16(x float32) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// 32767 keeps +1.0 from overflowing
	return int16(x * 32767.0)
}

// PutInt16LE writes samples as little-endian signed 16-bit PCM into dst and
// returns the number of bytes written. dst must hold 2 bytes per sample.
func PutInt16LE(dst []byte, samples []float32) int {
	n := min(len(samples), len(dst)/2)
	for i := range n {
		binary.LittleEndian.PutUint16(dst[2*i:], uint16(Float32ToInt16(samples[i])))
	}

	return n * 2
}
