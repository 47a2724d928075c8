// SPDX-License-Identifier: EPL-2.0

package sound

import (
	"math"
	"time"

	"github.com/ik5/audmgr/utils"
)

// Clip is a playable catalogue entry. Backends type assert the concrete clip
// for whatever they need to render it.
type Clip interface {
	Name() string
	// Duration at pitch 1.
	Duration() time.Duration
}

// Catalogue resolves sound ids. A miss must be reported as ErrUnknownSound.
type Catalogue interface {
	Clip(id SoundID) (Clip, error)
}

// ReverbTemplate describes a reverb send.
type ReverbTemplate struct {
	Wet      float64       `yaml:"wet"`
	Dry      float64       `yaml:"dry"`
	RT60     time.Duration `yaml:"rt60"`
	Damp     float64       `yaml:"damp"`
	PreDelay time.Duration `yaml:"pre_delay"`
}

// ChainTemplate describes the post-processing chain of a preset. The zero
// value is a dry chain.
type ChainTemplate struct {
	Reverb     *ReverbTemplate `yaml:"reverb,omitempty"`
	LowpassHz  float64         `yaml:"lowpass_hz,omitempty"`
	HighpassHz float64         `yaml:"highpass_hz,omitempty"`
}

// Dry reports whether the template applies no processing.
func (t ChainTemplate) Dry() bool {
	return t.Reverb == nil && t.LowpassHz <= 0 && t.HighpassHz <= 0
}

// PresetRegistry hands out channel templates when the pool grows.
type PresetRegistry interface {
	Template(p Preset) ChainTemplate
}

// Presets is a map backed PresetRegistry. Missing presets are dry.
type Presets map[Preset]ChainTemplate

func (p Presets) Template(preset Preset) ChainTemplate {
	return p[preset]
}

// DefaultPresets returns the stock templates: a dry default channel, a
// reverberated filtered channel and a darkened ambient channel.
func DefaultPresets() Presets {
	return Presets{
		PresetDefault: {},
		PresetFiltered: {
			Reverb: &ReverbTemplate{
				Wet:  0.35,
				Dry:  1,
				RT60: 1200 * time.Millisecond,
				Damp: 0.4,
			},
		},
		PresetAmbient: {
			LowpassHz: 5000,
			Reverb: &ReverbTemplate{
				Wet:  0.15,
				Dry:  1,
				RT60: 2500 * time.Millisecond,
				Damp: 0.6,
			},
		},
	}
}

// VoiceParams are the resolved parameters a voice starts with.
type VoiceParams struct {
	Pitch        float64
	Volume       float64
	Loop         bool
	Position     Vec3
	SpatialBlend float64
	MinDistance  float64
	MaxDistance  float64
	Spread       float64
}

// Voice is the native playback object owned by exactly one Channel.
//
// Voice methods are only called from the manager's scheduling domain.
type Voice interface {
	Start(clip Clip, p VoiceParams) error
	Pause()
	Resume()
	Stop()
	SetVolume(v float64)
	SetPosition(p Vec3)
	// Playing reports whether the voice is producing audio.
	Playing() bool
	// Err reports a failure that happened after Start succeeded.
	Err() error
}

// Backend builds voices and tracks the listener.
type Backend interface {
	NewVoice(preset Preset, tmpl ChainTemplate) Voice
	SetListener(pos Vec3)
}

// NullBackend produces silent voices. It is the default backend so the
// manager can run headless.
type NullBackend struct{}

func (NullBackend) NewVoice(Preset, ChainTemplate) Voice { return &nullVoice{} }
func (NullBackend) SetListener(Vec3)                     {}

type nullVoice struct {
	playing bool
}

func (v *nullVoice) Start(Clip, VoiceParams) error { v.playing = true; return nil }
func (v *nullVoice) Pause()                        {}
func (v *nullVoice) Resume()                       {}
func (v *nullVoice) Stop()                         { v.playing = false }
func (v *nullVoice) SetVolume(float64)             {}
func (v *nullVoice) SetPosition(Vec3)              {}
func (v *nullVoice) Playing() bool                 { return v.playing }
func (v *nullVoice) Err() error                    { return nil }

// Attenuation returns the distance gain of a source heard from listener,
// using a linear rolloff between minDistance and maxDistance. blend mixes
// between no attenuation (0) and full attenuation (1).
func Attenuation(listener, source Vec3, blend, minDistance, maxDistance float64) float64 {
	blend = utils.Clamp01(blend)
	if blend == 0 {
		return 1
	}

	d := listener.Distance(source)

	var gain float64
	switch {
	case d <= minDistance:
		gain = 1
	case math.IsInf(maxDistance, 1):
		gain = 1
	case d >= maxDistance:
		gain = 0
	default:
		gain = utils.Clamp01(utils.Remap(d, minDistance, maxDistance, 1, 0))
	}

	return utils.Lerp(1, gain, blend)
}
