// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/ik5/audmgr/utils"
)

// Resampler streams src at a target sample rate using cubic interpolation,
// optionally shifted by a pitch factor. A pitch of 2 plays twice as fast and
// an octave up, exactly like a tape running at double speed.
//
// Works on interleaved samples and preserves the channel count. A one-pole
// low-pass runs on the input whenever the effective step is above one
// source frame per output frame.
type Resampler struct {
	src      Source
	srcRate  float64
	dstRate  float64
	pitch    float64
	step     float64 // source frames consumed per output frame
	channels int

	// window holds four consecutive source frames: t-1, t0, t+1, t+2.
	window [4][]float32
	filled [4]bool
	primed bool

	// pos is the fractional position between window[1] and window[2].
	pos float64

	scratch []float32
	eof     bool

	lowpass   bool
	lpAlpha   float32
	lpHistory []float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()

	r := &Resampler{
		src:       src,
		srcRate:   float64(src.SampleRate()),
		dstRate:   float64(dstRate),
		pitch:     1,
		channels:  channels,
		scratch:   make([]float32, channels),
		lpHistory: make([]float32, channels),
	}
	for i := range r.window {
		r.window[i] = make([]float32, channels)
	}
	r.retune()

	return r
}

// SetPitch changes the playback speed factor. It may be called between
// reads; the interpolation position is kept.
func (r *Resampler) SetPitch(p float64) error {
	if p <= 0 || math.IsNaN(p) || math.IsInf(p, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidPitch, p)
	}

	r.pitch = p
	r.retune()

	return nil
}

func (r *Resampler) Pitch() float64 { return r.pitch }

func (r *Resampler) retune() {
	r.step = r.srcRate * r.pitch / r.dstRate
	r.lowpass = r.step > 1
	r.lpAlpha = 0
	if r.lowpass {
		r.lpAlpha = 0.5
	}
}

func (r *Resampler) SampleRate() int { return int(r.dstRate) }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("close resampler source: %w", err)
	}
	return nil
}

// pull reads exactly one frame into dst. ok is false when nothing was read.
func (r *Resampler) pull(dst []float32) (ok bool, err error) {
	n, err := r.src.ReadSamples(r.scratch)
	if n > 0 {
		copy(dst, r.scratch[:n])
		if r.lowpass {
			for c := range r.channels {
				dst[c] = r.lpAlpha*dst[c] + (1-r.lpAlpha)*r.lpHistory[c]
				r.lpHistory[c] = dst[c]
			}
		}
	}

	if errors.Is(err, io.EOF) {
		r.eof = true
		err = nil
	}

	return n > 0, err
}

// prime fills the window with the first frames of the stream. Short streams
// repeat their last frame.
func (r *Resampler) prime() error {
	r.primed = true

	for i := range r.window {
		if r.eof {
			if i == 0 {
				return io.EOF
			}
			copy(r.window[i], r.window[i-1])
			r.filled[i] = true
			continue
		}

		if i == 0 && r.lowpass {
			// seed the filter so the first frame passes unchanged
			n, err := r.src.ReadSamples(r.scratch)
			if n > 0 {
				copy(r.lpHistory, r.scratch[:n])
				copy(r.window[0], r.scratch[:n])
				r.filled[0] = true
			}
			if errors.Is(err, io.EOF) {
				r.eof = true
			} else if err != nil {
				return fmt.Errorf("resampler read: %w", err)
			}
			if n == 0 {
				return io.EOF
			}
			continue
		}

		ok, err := r.pull(r.window[i])
		if err != nil {
			return fmt.Errorf("resampler read: %w", err)
		}
		if !ok {
			if i == 0 {
				return io.EOF
			}
			copy(r.window[i], r.window[i-1])
		}
		r.filled[i] = true
	}

	return nil
}

// advance shifts the window one frame forward.
func (r *Resampler) advance() error {
	if r.eof {
		return io.EOF
	}

	head := r.window[0]
	copy(r.window[:], r.window[1:])
	copy(r.filled[:], r.filled[1:])
	r.window[3] = head

	ok, err := r.pull(r.window[3])
	if err != nil {
		return fmt.Errorf("resampler read: %w", err)
	}
	r.filled[3] = ok
	if !ok && r.eof {
		return io.EOF
	}

	return nil
}

// ReadSamples produces dst samples at r.dstRate.
// dst length should be a multiple of r.channels.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	want := len(dst) / r.channels
	written := 0

	for written < want {
		for r.pos >= 1 {
			if err := r.advance(); err != nil {
				if errors.Is(err, io.EOF) {
					return written * r.channels, io.EOF
				}
				return written * r.channels, err
			}
			r.pos--
		}

		if !r.filled[1] || !r.filled[2] {
			return written * r.channels, io.EOF
		}

		t := float32(r.pos)
		out := dst[written*r.channels : (written+1)*r.channels]
		for c := range out {
			y1, y2 := r.window[1][c], r.window[2][c]
			y0, y3 := y1, y2
			if r.filled[0] {
				y0 = r.window[0][c]
			}
			if r.filled[3] {
				y3 = r.window[3][c]
			}

			out[c] = utils.CubicInterpolate(y0, y1, y2, y3, t)
		}

		written++
		r.pos += r.step
	}

	return written * r.channels, nil
}
