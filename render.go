// SPDX-License-Identifier: EPL-2.0

package audmgr

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audmgr/audio"
	"github.com/ik5/audmgr/effects"
	"github.com/ik5/audmgr/sound"
	"github.com/ik5/audmgr/utils"
)

// RenderOptions describe an offline render. Zero fields keep the source
// format, unit pitch, full volume and a dry chain.
type RenderOptions struct {
	SampleRate int
	Channels   int
	Pitch      float64
	Volume     float64
	Template   sound.ChainTemplate
	// BufSize is the number of samples processed per step.
	BufSize int
}

func (o RenderOptions) withDefaults(src audio.Source) RenderOptions {
	if o.SampleRate <= 0 {
		o.SampleRate = src.SampleRate()
	}
	if o.Channels <= 0 {
		o.Channels = src.Channels()
	}
	if o.Pitch == 0 {
		o.Pitch = 1
	}
	if o.Volume == 0 {
		o.Volume = 1
	}
	if o.BufSize <= 0 {
		o.BufSize = 4096
	}
	o.BufSize -= o.BufSize % o.Channels
	if o.BufSize == 0 {
		o.BufSize = o.Channels
	}

	return o
}

// Render plays src the way a voice would and collects the result as
// interleaved 16-bit PCM: resampled at the given pitch, mapped to the
// channel layout, run through the template's effects and scaled by the
// volume.
//
//	src, _ := wav.Decoder{}.Decode(f)
//	pcm, err := audmgr.Render(src, audmgr.RenderOptions{SampleRate: 8000, Channels: 1})
func Render(src audio.Source, o RenderOptions) ([]int16, error) {
	o = o.withDefaults(src)

	res := audio.NewResampler(src, o.SampleRate)
	if err := res.SetPitch(o.Pitch); err != nil {
		return nil, err
	}

	out, err := audio.NewChannelMixer(res, o.Channels)
	if err != nil {
		return nil, err
	}

	var chain *effects.Chain
	if !o.Template.Dry() {
		chain, err = effects.New(o.Template, o.SampleRate, o.Channels)
		if err != nil {
			return nil, err
		}
	}

	var pcm []int16
	if d, ok := audio.Length(src); ok {
		frames := d.Seconds() * float64(o.SampleRate) / o.Pitch
		pcm = make([]int16, 0, int(frames+1)*o.Channels)
	}

	gain := float32(utils.Clamp01(o.Volume))
	buf := make([]float32, o.BufSize)
	for {
		n, err := out.ReadSamples(buf)
		if n > 0 {
			block := buf[:n]
			if chain != nil {
				chain.Process(block)
			}
			for _, s := range block {
				pcm = append(pcm, utils.Float32ToInt16(s*gain))
			}
		}

		if errors.Is(err, io.EOF) {
			return pcm, nil
		}
		if err != nil {
			return pcm, fmt.Errorf("render: %w", err)
		}
	}
}
