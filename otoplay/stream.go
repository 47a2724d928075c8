// SPDX-License-Identifier: EPL-2.0

package otoplay

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"sync/atomic"

	"github.com/ik5/audmgr/audio"
	"github.com/ik5/audmgr/effects"
	"github.com/ik5/audmgr/utils"
)

// Opener is implemented by clips that can be decoded from the start any
// number of times, such as *catalogue.Clip.
type Opener interface {
	Open() (audio.Source, error)
}

// stream renders one clip as signed 16-bit little endian PCM for an oto
// player: decoder → resampler at the voice pitch → channel mixer → effects
// → stereo balance.
//
// Read runs on the oto goroutine. The other methods only touch atomics.
type stream struct {
	clip     Opener
	rate     int
	channels int
	pitch    float64
	loop     bool
	chain    *effects.Chain

	src audio.Source
	buf []float32

	balance atomic.Uint64 // float64 bits, -1 left to +1 right
	closed  atomic.Bool
	ended   bool

	errMu sync.Mutex
	err   error
}

func newStream(clip Opener, rate, channels int, pitch float64, loop bool, chain *effects.Chain) (*stream, error) {
	s := &stream{
		clip:     clip,
		rate:     rate,
		channels: channels,
		pitch:    pitch,
		loop:     loop,
		chain:    chain,
	}
	if err := s.open(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *stream) open() error {
	src, err := s.clip.Open()
	if err != nil {
		return fmt.Errorf("open clip: %w", err)
	}

	res := audio.NewResampler(src, s.rate)
	if err := res.SetPitch(s.pitch); err != nil {
		_ = src.Close()
		return err
	}

	mix, err := audio.NewChannelMixer(res, s.channels)
	if err != nil {
		_ = src.Close()
		return err
	}

	s.src = mix

	return nil
}

func (s *stream) setBalance(b float64) { s.balance.Store(math.Float64bits(b)) }
func (s *stream) Balance() float64     { return math.Float64frombits(s.balance.Load()) }

// Close makes the next Read release the decoder and report io.EOF.
func (s *stream) Close() { s.closed.Store(true) }

func (s *stream) Err() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()

	return s.err
}

func (s *stream) fail(err error) {
	s.errMu.Lock()
	defer s.errMu.Unlock()

	if s.err == nil {
		s.err = err
	}
}

func (s *stream) finish() {
	if s.ended {
		return
	}
	s.ended = true
	if s.src != nil {
		_ = s.src.Close()
	}
}

func (s *stream) Read(p []byte) (int, error) {
	if s.closed.Load() {
		s.finish()
	}
	if s.ended {
		return 0, io.EOF
	}

	want := len(p) / 2
	want -= want % s.channels
	if want == 0 {
		return 0, nil
	}
	if cap(s.buf) < want {
		s.buf = make([]float32, want)
	}
	buf := s.buf[:want]

	filled := s.fill(buf)
	if filled == 0 {
		s.finish()
		return 0, io.EOF
	}

	buf = buf[:filled]
	if s.chain != nil {
		s.chain.Process(buf)
	}
	s.pan(buf)

	return utils.PutInt16LE(p, buf), nil
}

// fill decodes into buf, restarting the clip when looping. It returns the
// number of samples written.
func (s *stream) fill(buf []float32) int {
	filled := 0
	reopened := false

	for filled < len(buf) {
		n, err := s.src.ReadSamples(buf[filled:])
		filled += n
		if n > 0 {
			reopened = false
		}

		switch {
		case errors.Is(err, io.EOF):
			// an empty clip would loop forever
			if !s.loop || reopened {
				return filled
			}
			_ = s.src.Close()
			if err := s.open(); err != nil {
				s.fail(err)
				return filled
			}
			reopened = true
		case err != nil:
			s.fail(err)
			return filled
		}
	}

	return filled
}

// pan applies a linear balance to stereo output.
func (s *stream) pan(buf []float32) {
	b := s.Balance()
	if s.channels != 2 || b == 0 {
		return
	}

	left := float32(utils.Clamp01(1 - b))
	right := float32(utils.Clamp01(1 + b))
	for i := 0; i+1 < len(buf); i += 2 {
		buf[i] *= left
		buf[i+1] *= right
	}
}
