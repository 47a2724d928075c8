// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"fmt"
	"sync"
	"time"

	"github.com/ik5/audmgr/sound"
)

// Clip is a catalogue entry with a name and a length and nothing to play.
type Clip struct {
	ClipName string
	Length   time.Duration
}

func (c Clip) Name() string            { return c.ClipName }
func (c Clip) Duration() time.Duration { return c.Length }

// Catalogue is a map backed sound.Catalogue.
type Catalogue map[sound.SoundID]sound.Clip

func (c Catalogue) Clip(id sound.SoundID) (sound.Clip, error) {
	clip, ok := c[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", sound.ErrUnknownSound, id)
	}

	return clip, nil
}

// Backend records every voice it builds.
type Backend struct {
	mu       sync.Mutex
	Voices   []*Voice
	Listener sound.Vec3

	// StartErr, when set, makes every Start fail with it.
	StartErr error
}

func (b *Backend) NewVoice(preset sound.Preset, tmpl sound.ChainTemplate) sound.Voice {
	b.mu.Lock()
	defer b.mu.Unlock()

	v := &Voice{Preset: preset, Template: tmpl, backend: b}
	b.Voices = append(b.Voices, v)

	return v
}

func (b *Backend) SetListener(pos sound.Vec3) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.Listener = pos
}

// Voice is a sound.Voice that remembers what it was told.
type Voice struct {
	Preset   sound.Preset
	Template sound.ChainTemplate

	Clip     sound.Clip
	Params   sound.VoiceParams
	Starts   int
	Stops    int
	Paused   bool
	Position sound.Vec3
	// Volumes holds every volume pushed since the last Start, the start
	// volume first.
	Volumes []float64

	playing bool
	failure error
	backend *Backend
}

func (v *Voice) Start(clip sound.Clip, p sound.VoiceParams) error {
	if v.backend != nil && v.backend.StartErr != nil {
		return v.backend.StartErr
	}

	v.Clip = clip
	v.Params = p
	v.Starts++
	v.Paused = false
	v.Position = p.Position
	v.Volumes = []float64{p.Volume}
	v.playing = true
	v.failure = nil

	return nil
}

func (v *Voice) Pause()  { v.Paused = true }
func (v *Voice) Resume() { v.Paused = false }

func (v *Voice) Stop() {
	v.Stops++
	v.playing = false
}

func (v *Voice) SetVolume(vol float64)     { v.Volumes = append(v.Volumes, vol) }
func (v *Voice) SetPosition(p sound.Vec3) { v.Position = p }
func (v *Voice) Playing() bool            { return v.playing }
func (v *Voice) Err() error               { return v.failure }

// Volume is the last volume pushed to the voice.
func (v *Voice) Volume() float64 {
	if len(v.Volumes) == 0 {
		return 0
	}

	return v.Volumes[len(v.Volumes)-1]
}

// Fail makes the voice report err on the next tick.
func (v *Voice) Fail(err error) { v.failure = err }

// Silence makes the voice stop producing audio without an error, the way a
// clip that ran out does.
func (v *Voice) Silence() { v.playing = false }
