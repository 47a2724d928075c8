// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1/2 Layer III streams with
// github.com/hajimehoshi/go-mp3.
//
// The decoder always yields interleaved stereo at the stream's own sample
// rate; mono files are duplicated into both channels. When the input can
// seek, go-mp3 scans the frame headers up front and the source reports its
// frame count, so audio.Length returns the clip duration. Plain readers
// play fine but their length is unknown.
//
//	f, _ := os.Open("theme.mp3")
//	src, err := mp3.Decoder{}.Decode(f)
package mp3
