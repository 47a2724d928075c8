// SPDX-License-Identifier: EPL-2.0

// Package pcm adapts go-audio integer decoders to audio.Source.
package pcm

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
)

var (
	// ErrUnsupportedBitDepth is returned for bit depths other than 16, 24
	// and 32.
	ErrUnsupportedBitDepth = errors.New("unsupported PCM bit depth")
	// ErrMissingFormat is returned when the decoder reports no usable format.
	ErrMissingFormat = errors.New("missing PCM format")
)

// Reader is the subset of the go-audio wav and aiff decoders a Source
// needs.
type Reader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Source streams integer PCM from a Reader as float32 in [-1,1].
type Source struct {
	dec        Reader
	sampleRate int
	channels   int
	scale      float32
	frames     int64
	buf        *goaudio.IntBuffer
}

// NewSource wraps dec. frames is the stream length in frames, or -1 when
// unknown.
func NewSource(dec Reader, bitDepth int, frames int64) (*Source, error) {
	format := dec.Format()
	if format == nil || format.NumChannels < 1 || format.SampleRate < 1 {
		return nil, ErrMissingFormat
	}

	scale, err := Scale(bitDepth)
	if err != nil {
		return nil, err
	}

	return &Source{
		dec:        dec,
		sampleRate: format.SampleRate,
		channels:   format.NumChannels,
		scale:      scale,
		frames:     frames,
	}, nil
}

// Scale returns the factor that maps a signed sample of bitDepth bits onto
// [-1,1).
func Scale(bitDepth int) (float32, error) {
	switch bitDepth {
	case 16, 24, 32:
		return 1 / float32(uint64(1)<<(bitDepth-1)), nil
	}

	return 0, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
}

func (s *Source) SampleRate() int { return s.sampleRate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) Frames() int64   { return s.frames }
func (s *Source) Close() error    { return nil }

func (s *Source) BufSize() int {
	if s.buf != nil {
		return cap(s.buf.Data)
	}
	return 4096
}

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if s.buf == nil || cap(s.buf.Data) < len(dst) {
		s.buf = &goaudio.IntBuffer{
			Data:   make([]int, len(dst)),
			Format: s.dec.Format(),
		}
	} else {
		s.buf.Data = s.buf.Data[:len(dst)]
	}

	n, err := s.dec.PCMBuffer(s.buf)
	if n == 0 {
		if err != nil && !errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("read pcm: %w", err)
		}
		return 0, io.EOF
	}

	for i, v := range s.buf.Data[:n] {
		dst[i] = float32(v) * s.scale
	}

	// go-audio signals the end with a short read
	if err == nil && n < len(dst) {
		return n, io.EOF
	}

	return n, err
}

// ReadSeeker returns r itself when it can seek and an in-memory copy
// otherwise. go-audio decoders need to seek.
func ReadSeeker(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("buffer pcm stream: %w", err)
	}

	return bytes.NewReader(data), nil
}
