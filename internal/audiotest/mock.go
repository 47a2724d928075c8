// SPDX-License-Identifier: EPL-2.0

// Package audiotest holds test doubles shared across packages: synthetic
// sources, a recording backend and an in-memory catalogue.
package audiotest

import (
	"io"
	"math"
)

// Waveform returns the value of channel ch at frame.
type Waveform func(frame, ch int) float32

// MockSource is a synthetic audio.Source of a fixed number of frames. It
// also satisfies audio.Framed without importing the audio package.
type MockSource struct {
	rate     int
	channels int
	frames   int
	pos      int
	wave     Waveform
}

// NewMockSource returns frames frames of wave at rate.
func NewMockSource(rate, channels, frames int, wave func(frame, ch int) float32) *MockSource {
	return &MockSource{rate: rate, channels: channels, frames: frames, wave: wave}
}

func NewSilentSource(rate, channels, frames int) *MockSource {
	return NewConstantSource(rate, channels, frames, 0)
}

// NewSineSource plays the same sine of freq Hz on every channel.
func NewSineSource(rate, channels, frames int, freq float64) *MockSource {
	step := 2 * math.Pi * freq / float64(rate)
	return NewMockSource(rate, channels, frames, func(frame, _ int) float32 {
		return float32(math.Sin(step * float64(frame)))
	})
}

func NewConstantSource(rate, channels, frames int, v float32) *MockSource {
	return NewMockSource(rate, channels, frames, func(int, int) float32 { return v })
}

func (m *MockSource) SampleRate() int { return m.rate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }
func (m *MockSource) Close() error    { return nil }
func (m *MockSource) Frames() int64   { return int64(m.frames) }

// Reset rewinds to the first frame.
func (m *MockSource) Reset() { m.pos = 0 }

// ReadSamples fills whole frames of dst. The call that delivers the last
// frame also returns io.EOF.
func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	left := m.frames - m.pos
	if left <= 0 {
		return 0, io.EOF
	}

	n := min(len(dst)/m.channels, left)
	for f := range n {
		for ch := range m.channels {
			dst[f*m.channels+ch] = m.wave(m.pos+f, ch)
		}
	}
	m.pos += n

	if m.pos >= m.frames {
		return n * m.channels, io.EOF
	}

	return n * m.channels, nil
}
