// SPDX-License-Identifier: EPL-2.0

// Package effects renders sound.ChainTemplate post-processing with the
// algo-dsp filters and reverb.
package effects

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-dsp/dsp/effects/reverb"
	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
	"github.com/cwbudde/algo-dsp/dsp/filter/design"

	"github.com/ik5/audmgr/sound"
)

// butterworthQ gives a maximally flat pass band.
const butterworthQ = math.Sqrt2 / 2

var (
	ErrInvalidFormat = errors.New("sample rate and channel count must be positive")
	ErrInvalidReverb = errors.New("invalid reverb template")
)

// lane is the processing state of one interleaved channel.
type lane struct {
	filters *biquad.Chain
	reverb  *reverb.FDNReverb
}

// Chain processes interleaved float32 audio in place. Every channel gets
// its own filter and reverb state.
//
// A Chain is not safe for concurrent use.
type Chain struct {
	tmpl       sound.ChainTemplate
	sampleRate int
	lanes      []lane
}

// New builds the chain described by tmpl for audio at sampleRate with
// channels interleaved channels. Cutoffs outside (0, Nyquist) are ignored.
func New(tmpl sound.ChainTemplate, sampleRate, channels int) (*Chain, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("%w: %d Hz × %d", ErrInvalidFormat, sampleRate, channels)
	}

	c := &Chain{
		tmpl:       tmpl,
		sampleRate: sampleRate,
		lanes:      make([]lane, channels),
	}

	coeffs := c.filterCoefficients()
	for i := range c.lanes {
		if len(coeffs) > 0 {
			c.lanes[i].filters = biquad.NewChain(coeffs)
		}

		if tmpl.Reverb != nil {
			rev, err := newReverb(*tmpl.Reverb, float64(sampleRate))
			if err != nil {
				return nil, err
			}
			c.lanes[i].reverb = rev
		}
	}

	return c, nil
}

func (c *Chain) filterCoefficients() []biquad.Coefficients {
	rate := float64(c.sampleRate)
	nyquist := rate / 2

	var coeffs []biquad.Coefficients
	if hz := c.tmpl.HighpassHz; hz > 0 && hz < nyquist {
		coeffs = append(coeffs, design.Highpass(hz, butterworthQ, rate))
	}
	if hz := c.tmpl.LowpassHz; hz > 0 && hz < nyquist {
		coeffs = append(coeffs, design.Lowpass(hz, butterworthQ, rate))
	}

	return coeffs
}

func newReverb(t sound.ReverbTemplate, rate float64) (*reverb.FDNReverb, error) {
	rev, err := reverb.NewFDNReverb(rate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidReverb, err)
	}

	for _, set := range []func() error{
		func() error { return rev.SetWet(t.Wet) },
		func() error { return rev.SetDry(t.Dry) },
		func() error { return rev.SetRT60(t.RT60.Seconds()) },
		func() error { return rev.SetDamp(t.Damp) },
		func() error { return rev.SetPreDelay(t.PreDelay.Seconds()) },
	} {
		if err := set(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidReverb, err)
		}
	}

	return rev, nil
}

// Validate reports whether tmpl can be built.
func Validate(tmpl sound.ChainTemplate) error {
	_, err := New(tmpl, 48000, 1)
	return err
}

func (c *Chain) Template() sound.ChainTemplate { return c.tmpl }
func (c *Chain) SampleRate() int               { return c.sampleRate }
func (c *Chain) Channels() int                 { return len(c.lanes) }

// Dry reports whether Process leaves audio untouched.
func (c *Chain) Dry() bool {
	for _, l := range c.lanes {
		if l.filters != nil || l.reverb != nil {
			return false
		}
	}

	return true
}

// Process runs buf through the chain. buf is interleaved; a trailing
// partial frame is processed as far as it goes.
func (c *Chain) Process(buf []float32) {
	if c.Dry() {
		return
	}

	n := len(c.lanes)
	for i, s := range buf {
		l := &c.lanes[i%n]

		x := float64(s)
		if l.filters != nil {
			x = l.filters.ProcessSample(x)
		}
		if l.reverb != nil {
			x = l.reverb.ProcessSample(x)
		}
		buf[i] = float32(x)
	}
}

// Reset clears filter memory and reverb tails, for example when a voice
// is reused for another clip.
func (c *Chain) Reset() {
	for _, l := range c.lanes {
		if l.filters != nil {
			l.filters.Reset()
		}
		if l.reverb != nil {
			l.reverb.Reset()
		}
	}
}
