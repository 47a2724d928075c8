// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes Audio Interchange File Format clips through
// github.com/go-audio/aiff.
//
// Uncompressed 16, 24 and 32-bit PCM is supported in any channel layout.
// Big endian samples are normalised to float32 in [-1,1] like every other
// decoder in this module, and the source reports its frame count from the
// COMM chunk so audio.Length works without reading the clip.
//
//	f, _ := os.Open("wind_loop.aif")
//	src, err := aiff.Decoder{}.Decode(f)
//	if errors.Is(err, aiff.ErrNotAiffFile) {
//	    ...
//	}
package aiff
