// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis streams with
// github.com/jfreymuth/oggvorbis.
//
// Samples come out as interleaved float32 at the stream's own rate and
// channel count. Reads are trimmed to whole frames. The frame count is
// available when the input implements io.Seeker; otherwise Frames reports
// -1 and callers fall back to reading the stream through.
package vorbis
