// SPDX-License-Identifier: EPL-2.0

// Package audio provides the stream primitives voices are built from.
//
//   - Source, the pull interface every decoder and processor implements
//   - Framed, for sources that know their length
//   - Registry, decoders by format key
//   - Resampler, rate conversion with a pitch factor
//   - ChannelMixer, channel layout conversion
//
// # Source Interface
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Samples are interleaved float32 in [-1.0, 1.0]. ReadSamples returns
// io.EOF, possibly together with the last samples, once the stream is
// exhausted.
//
// # Pitch
//
// The Resampler plays its source at a speed factor on top of the rate
// conversion:
//
//	r := audio.NewResampler(src, 48000)
//	if err := r.SetPitch(1.25); err != nil {
//	    return err
//	}
//
// A clip of length d plays for d / pitch.
//
// # Channel Layout
//
//	stereo, err := audio.NewChannelMixer(mono, 2)
//
// Down mixing averages, up mixing from mono duplicates.
//
// # Format Registry
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	src, err := registry.Decode("WAV", file)
//
// Format keys are case insensitive. Decode wraps ErrUnknownFormat when no
// decoder is registered.
//
// # Length
//
// Length reports the playing time of any Framed source:
//
//	if d, ok := audio.Length(src); ok {
//	    fmt.Println(d)
//	}
package audio
