// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and writes RIFF/WAVE files.
//
// Decoding is done by github.com/go-audio/wav. Integer PCM at 16, 24 and
// 32 bits is accepted in any channel layout and sample rate; compressed and
// floating point encodings are rejected with ErrUnsupportedEncoding.
//
//	f, _ := os.Open("door_open.wav")
//	src, err := wav.Decoder{}.Decode(f)
//	if err != nil {
//	    return err
//	}
//	length, _ := audio.Length(src)
//
// The returned source knows its frame count, so audio.Length reports the
// clip duration without reading it.
//
// WriteWAV16 and WritePCM16 emit a canonical 44 byte header followed by
// 16-bit little endian samples. They only need an io.Writer.
package wav
