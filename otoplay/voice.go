// SPDX-License-Identifier: EPL-2.0

package otoplay

import (
	"fmt"

	"github.com/ik5/audmgr/effects"
	"github.com/ik5/audmgr/sound"
	"github.com/ik5/audmgr/utils"
)

// Voice plays one clip at a time. Apart from apply, which the backend
// calls on listener moves, it is driven only by the sound manager.
type Voice struct {
	backend *Backend
	preset  sound.Preset
	tmpl    sound.ChainTemplate
	chain   *effects.Chain

	player player
	stream *stream

	params   sound.VoiceParams
	volume   float64
	position sound.Vec3
}

func (v *Voice) Start(clip sound.Clip, p sound.VoiceParams) error {
	v.Stop()

	opener, ok := clip.(Opener)
	if !ok {
		return fmt.Errorf("%w: %s (%T)", ErrUnsupportedClip, clip.Name(), clip)
	}

	chain, err := v.effects()
	if err != nil {
		return err
	}

	st, err := newStream(opener, v.backend.sampleRate, v.backend.channels, p.Pitch, p.Loop, chain)
	if err != nil {
		return fmt.Errorf("start %s: %w", clip.Name(), err)
	}

	v.params = p
	v.volume = p.Volume
	v.position = p.Position
	v.stream = st
	v.player = v.backend.newPlayer(st)
	v.apply()
	v.player.Play()

	v.backend.log.Debug().
		Str("clip", clip.Name()).
		Stringer("preset", v.preset).
		Float64("pitch", p.Pitch).
		Float64("volume", p.Volume).
		Msg("voice started")

	return nil
}

// effects returns the voice's chain, reset for a new clip, or nil when
// the preset is dry.
func (v *Voice) effects() (*effects.Chain, error) {
	if v.tmpl.Dry() {
		return nil, nil
	}

	if v.chain == nil {
		chain, err := effects.New(v.tmpl, v.backend.sampleRate, v.backend.channels)
		if err != nil {
			return nil, fmt.Errorf("preset %s: %w", v.preset, err)
		}
		v.chain = chain
	} else {
		v.chain.Reset()
	}

	return v.chain, nil
}

func (v *Voice) Pause() {
	if v.player != nil {
		v.player.Pause()
	}
}

func (v *Voice) Resume() {
	if v.player != nil {
		v.player.Play()
	}
}

func (v *Voice) Stop() {
	if v.player == nil {
		return
	}

	v.stream.Close()
	v.player.Pause()
	if err := v.player.Close(); err != nil {
		v.backend.log.Warn().Err(err).Stringer("preset", v.preset).Msg("closing player")
	}
	v.player = nil
	v.stream = nil
}

func (v *Voice) SetVolume(vol float64) {
	v.volume = vol
	v.apply()
}

func (v *Voice) SetPosition(p sound.Vec3) {
	v.position = p
	v.apply()
}

func (v *Voice) Playing() bool {
	return v.player != nil && v.player.IsPlaying()
}

func (v *Voice) Err() error {
	if v.stream != nil {
		if err := v.stream.Err(); err != nil {
			return err
		}
	}
	if v.player != nil {
		return v.player.Err()
	}

	return nil
}

// apply pushes volume × distance gain to the player and the stereo balance
// to the stream.
func (v *Voice) apply() {
	if v.player == nil {
		return
	}

	listener := v.backend.Listener()
	p := v.params

	gain := sound.Attenuation(listener, v.position, p.SpatialBlend, p.MinDistance, p.MaxDistance)
	v.player.SetVolume(utils.Clamp01(v.volume * gain))
	v.stream.setBalance(Balance(listener, v.position, p.SpatialBlend, p.Spread))
}

// Balance returns the stereo position of a source heard from listener,
// from -1 (left) to +1 (right). The x axis points right. spread in degrees
// widens the source towards the centre: 360 is fully centred.
func Balance(listener, source sound.Vec3, blend, spread float64) float64 {
	d := listener.Distance(source)
	if d == 0 {
		return 0
	}

	pan := (source.X - listener.X) / d
	pan *= utils.Clamp01(blend)
	pan *= 1 - utils.Clamp01(spread/360)

	return pan
}
