// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/audmgr/audio"
)

// go-mp3 always produces interleaved stereo, 16-bit little endian
const (
	channels    = 2
	frameBytes  = channels * 2
	int16Scale  = 1.0 / 32768
	defaultSize = 8192
)

var ErrNotMP3File = errors.New("not an MP3 stream")

// mp3Reader is the part of gomp3.Decoder the source uses.
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
	Length() int64
}

type source struct {
	dec    mp3Reader
	frames int64
	buf    []byte
}

func newSource(dec mp3Reader) *source {
	frames := int64(-1)
	if l := dec.Length(); l >= 0 {
		frames = l / frameBytes
	}

	return &source{
		dec:    dec,
		frames: frames,
		buf:    make([]byte, defaultSize),
	}
}

func (s *source) SampleRate() int { return s.dec.SampleRate() }
func (s *source) Channels() int   { return channels }
func (s *source) Frames() int64   { return s.frames }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return cap(s.buf) / 2 }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	need := len(dst) * 2
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	s.buf = s.buf[:need]

	var (
		n   int
		err error
	)
	for n == 0 && err == nil {
		n, err = s.dec.Read(s.buf)
	}

	samples := n / 2
	for i := range samples {
		dst[i] = float32(int16(binary.LittleEndian.Uint16(s.buf[2*i:]))) * int16Scale
	}

	if err != nil && !errors.Is(err, io.EOF) {
		return samples, fmt.Errorf("mp3: %w", err)
	}

	return samples, err
}

type Decoder struct{}

// Decode reads the first frame header of r. Length is known only when r
// implements io.Seeker.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotMP3File, err)
	}

	return newSource(dec), nil
}
