// SPDX-License-Identifier: EPL-2.0

package sound

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ik5/audmgr/utils"
)

// State is the lifecycle stage of a Channel.
type State int

const (
	StateFree State = iota
	StatePlaying
	StatePaused
	StateFading
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateFree:
		return "free"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateFading:
		return "fading"
	case StateFinished:
		return "finished"
	}

	return fmt.Sprintf("state(%d)", int(s))
}

// Follower is a moving position a channel can be bound to. ok is false once
// the follower is gone, which unbinds the channel.
type Follower interface {
	Position() (pos Vec3, ok bool)
}

// FollowerFunc adapts a function to Follower.
type FollowerFunc func() (Vec3, bool)

func (f FollowerFunc) Position() (Vec3, bool) { return f() }

type fadeKind int

const (
	fadeNone fadeKind = iota
	fadeIn
	fadeOut
)

// fadeTask is the single fade slot of a channel. A fade out ramps from
// ceiling to 0, a fade in from 0 to the channel target.
type fadeTask struct {
	kind     fadeKind
	elapsed  time.Duration
	duration time.Duration
	ceiling  float64
}

// completionWatch counts unpaused play time of a non-looping clip.
type completionWatch struct {
	armed    bool
	elapsed  time.Duration
	duration time.Duration
}

// Channel is one reusable playback unit bound to a preset. Channels are
// created and recycled by the Pool; callers only ever hold them between a
// Play call and the end of that playback.
type Channel struct {
	id     uuid.UUID
	preset Preset
	voice  Voice
	mixer  *Mixer
	host   *Manager

	// gen increments on every initialise so stale handles can be told apart.
	gen uint64

	name     string
	req      Request
	clip     Clip
	state    State
	resumeTo State
	pitch    float64
	position Vec3

	base   float64 // per-call volume
	target float64 // base resolved through the mixer
	volume float64 // what the voice currently plays at

	reserved   bool
	fade       fadeTask
	watch      completionWatch
	follow     Follower
	bindGen    uint64
	onComplete []func()
}

func newChannel(preset Preset, voice Voice, mixer *Mixer) *Channel {
	return &Channel{
		id:     uuid.New(),
		preset: preset,
		voice:  voice,
		mixer:  mixer,
		name:   preset.String() + "_channel",
		state:  StateFree,
	}
}

// do runs fn in the manager's scheduling domain.
func (c *Channel) do(fn func()) {
	if c.host == nil {
		fn()
		return
	}

	c.host.locked(fn)
}

// later queues fn to run once the scheduling domain is released.
func (c *Channel) later(fn func()) {
	if c.host == nil {
		fn()
		return
	}

	c.host.pending = append(c.host.pending, fn)
}

func (c *Channel) ID() uuid.UUID  { return c.id }
func (c *Channel) Preset() Preset { return c.preset }

func (c *Channel) State() (s State) {
	c.do(func() { s = c.state })
	return s
}

// Volume is the effective volume the voice currently plays at.
func (c *Channel) Volume() (v float64) {
	c.do(func() { v = c.volume })
	return v
}

// Pitch is the pitch sampled when the channel was initialised.
func (c *Channel) Pitch() (p float64) {
	c.do(func() { p = c.pitch })
	return p
}

func (c *Channel) Position() (p Vec3) {
	c.do(func() { p = c.position })
	return p
}

// Name reflects the clip and lifecycle stage, e.g. "click_Playing" or
// "click_Fading".
func (c *Channel) Name() (n string) {
	c.do(func() { n = c.name })
	return n
}

func (c *Channel) Sound() (id SoundID) {
	c.do(func() { id = c.req.Sound })
	return id
}

func (c *Channel) Category() (cat Category) {
	c.do(func() { cat = c.req.Category })
	return cat
}

func (c *Channel) Loop() (l bool) {
	c.do(func() { l = c.req.Loop })
	return l
}

// Request returns the request the channel was last initialised with.
func (c *Channel) Request() (r Request) {
	c.do(func() { r = c.req })
	return r
}

func (c *Channel) Reserved() (r bool) {
	c.do(func() { r = c.reserved })
	return r
}

// active reports whether the channel holds a playback.
func (c *Channel) active() bool {
	switch c.state {
	case StatePlaying, StatePaused, StateFading:
		return true
	case StateFree, StateFinished:
		return false
	}

	return false
}

func (c *Channel) rename(stage string) {
	if c.clip == nil {
		return
	}

	c.name = c.clip.Name() + "_" + stage
}

func (c *Channel) initialize(req Request, clip Clip, u float64) error {
	if c.state != StateFree {
		return fmt.Errorf("%w: %s is %s", ErrChannelBusy, c.name, c.state)
	}

	c.req = req
	c.clip = clip
	c.pitch = SamplePitch(req.MinPitch, req.MaxPitch, u)
	c.position = req.WorldPosition()
	c.base = utils.Clamp01(req.Volume)
	c.target = c.mixer.Resolve(c.base, req.Category)
	c.volume = c.target
	c.reserved = false
	c.fade = fadeTask{}
	c.watch = completionWatch{}
	c.follow = nil
	c.onComplete = nil

	params := VoiceParams{
		Pitch:        c.pitch,
		Volume:       c.volume,
		Loop:         req.Loop,
		Position:     c.position,
		SpatialBlend: utils.Clamp01(req.Spatial()),
		MinDistance:  req.MinDistance,
		MaxDistance:  req.MaxDistance,
		Spread:       req.Spread,
	}
	if err := c.voice.Start(clip, params); err != nil {
		c.rename("Failed")
		return fmt.Errorf("%w: %s: %w", ErrPlaybackFailed, clip.Name(), err)
	}

	c.gen++
	c.state = StatePlaying
	c.rename("Playing")
	if !req.Loop {
		c.watch = completionWatch{armed: true, duration: clip.Duration()}
	}

	return nil
}

// terminate stops the voice and frees the channel, or parks it in Finished
// when reserved. Completion callbacks run only when invoke is set.
func (c *Channel) terminate(stage string, invoke bool) {
	c.voice.Stop()
	c.fade = fadeTask{}
	c.watch = completionWatch{}
	c.follow = nil
	c.rename(stage)

	callbacks := c.onComplete
	c.onComplete = nil
	if invoke {
		for _, fn := range callbacks {
			c.later(fn)
		}
	}

	if c.reserved {
		c.state = StateFinished
		return
	}
	c.state = StateFree
}

func (c *Channel) setVoiceVolume(v float64) {
	c.volume = v
	c.voice.SetVolume(v)
}

// refreshVolume re-resolves the target volume. A running fade keeps going
// towards the new target instead of jumping to it.
func (c *Channel) refreshVolume() {
	c.target = c.mixer.Resolve(c.base, c.req.Category)

	switch c.fade.kind {
	case fadeOut:
		c.fade.ceiling = c.target
	case fadeIn:
		// picked up on the next tick
	case fadeNone:
		c.setVoiceVolume(c.target)
	}
}

// Stop halts playback at once. Pending completion callbacks are dropped.
func (c *Channel) Stop() {
	c.do(func() {
		if c.active() {
			c.terminate("Stopped", false)
		}
	})
}

// StopFade ramps the volume linearly to 0 over d of unpaused time and then
// stops. d <= 0 stops at once. A later fade replaces this one.
func (c *Channel) StopFade(d time.Duration) {
	c.do(func() { c.stopFade(d) })
}

func (c *Channel) stopFade(d time.Duration) {
	if !c.active() {
		return
	}
	if d <= 0 {
		c.terminate("Stopped", false)
		return
	}

	c.fade = fadeTask{kind: fadeOut, duration: d, ceiling: c.volume}
	if c.state == StatePaused {
		c.resumeTo = StateFading
		return
	}
	c.state = StateFading
	c.rename("Fading")
}

// FadeIn ramps the volume from 0 to the channel's target over d of unpaused
// time. It returns c so it can be chained onto Play.
func (c *Channel) FadeIn(d time.Duration) *Channel {
	c.do(func() {
		if !c.active() {
			return
		}

		if c.state == StateFading {
			c.state = StatePlaying
			c.rename("Playing")
		} else if c.state == StatePaused {
			c.resumeTo = StatePlaying
		}

		if d <= 0 {
			c.fade = fadeTask{}
			c.setVoiceVolume(c.target)
			return
		}

		c.fade = fadeTask{kind: fadeIn, duration: d}
		c.setVoiceVolume(0)
	})

	return c
}

// Pause suspends playback, its completion countdown and any fade.
func (c *Channel) Pause() {
	c.do(func() {
		if c.state != StatePlaying && c.state != StateFading {
			return
		}

		c.resumeTo = c.state
		c.state = StatePaused
		c.voice.Pause()
		c.rename("Paused")
	})
}

// Resume continues a paused channel where it left off.
func (c *Channel) Resume() {
	c.do(func() {
		if c.state != StatePaused {
			return
		}

		c.state = c.resumeTo
		c.voice.Resume()
		if c.state == StateFading {
			c.rename("Fading")
		} else {
			c.rename("Playing")
		}
	})
}

// SetVolume replaces the per-call volume. The mixer factors still apply.
func (c *Channel) SetVolume(v float64) {
	c.do(func() {
		c.base = utils.Clamp01(v)
		if c.active() {
			c.refreshVolume()
		}
	})
}

// SetPosition moves the channel. Flat channels ignore it.
func (c *Channel) SetPosition(p Vec3) {
	c.do(func() {
		if !c.req.Is3D {
			return
		}

		c.position = p
		c.voice.SetPosition(p)
	})
}

// BindTo makes the channel follow f on every tick until f reports it is gone.
// BindTo(nil) clears the binding. f is evaluated outside the manager lock, so
// it may read other channels.
func (c *Channel) BindTo(f Follower) {
	c.do(func() {
		if !c.active() {
			return
		}

		c.follow = f
		c.bindGen++
	})
}

// binding is a follower captured by Tick together with the generations that
// must still hold when its result is applied.
type binding struct {
	ch      *Channel
	follow  Follower
	gen     uint64
	bindGen uint64

	pos Vec3
	ok  bool
}

func (c *Channel) captureFollow() (binding, bool) {
	if c.follow == nil || !c.active() {
		return binding{}, false
	}

	return binding{ch: c, follow: c.follow, gen: c.gen, bindGen: c.bindGen}, true
}

// applyFollow moves the channel to the evaluated follower position, or
// drops the binding once the follower is gone. Results for a playback or
// binding that has since been replaced are discarded.
func (c *Channel) applyFollow(b binding) {
	if c.gen != b.gen || c.bindGen != b.bindGen || c.follow == nil || !c.active() {
		return
	}

	if !b.ok {
		c.follow = nil
		return
	}

	c.position = b.pos
	c.voice.SetPosition(b.pos)
}

// OnComplete registers fn to run once when a non-looping playback reaches
// its end. Stopping the channel drops the callback. fn runs outside the
// manager lock.
func (c *Channel) OnComplete(fn func()) *Channel {
	c.do(func() {
		if c.active() && fn != nil {
			c.onComplete = append(c.onComplete, fn)
		}
	})

	return c
}

// SetReserved keeps the channel out of the pool after its playback ends
// until released.
func (c *Channel) SetReserved(r bool) {
	c.do(func() {
		c.reserved = r
		if !r && c.state == StateFinished {
			c.state = StateFree
		}
	})
}

// Release is SetReserved(false).
func (c *Channel) Release() { c.SetReserved(false) }

// advance moves the channel dt forward in time.
func (c *Channel) advance(dt time.Duration) {
	if !c.active() || c.state == StatePaused {
		return
	}

	if err := c.voice.Err(); err != nil {
		c.fail(err)
		return
	}

	c.advanceFade(dt)
	if !c.active() {
		return
	}

	if c.watch.armed {
		c.watch.elapsed += dt
		if c.watch.elapsed >= c.watch.duration {
			c.terminate("Finished", true)
		}
	}
}

func (c *Channel) advanceFade(dt time.Duration) {
	switch c.fade.kind {
	case fadeNone:
		return
	case fadeIn:
		if !c.voice.Playing() {
			c.fade = fadeTask{}
			return
		}

		c.fade.elapsed += dt
		if c.fade.elapsed >= c.fade.duration {
			c.fade = fadeTask{}
			c.setVoiceVolume(c.target)
			return
		}
		c.setVoiceVolume(utils.Remap(float64(c.fade.elapsed), 0, float64(c.fade.duration), 0, c.target))
	case fadeOut:
		if !c.voice.Playing() {
			c.terminate("Stopped", false)
			return
		}

		c.fade.elapsed += dt
		if c.fade.elapsed >= c.fade.duration {
			c.setVoiceVolume(0)
			c.terminate("Stopped", false)
			return
		}
		c.setVoiceVolume(utils.Remap(float64(c.fade.elapsed), 0, float64(c.fade.duration), c.fade.ceiling, 0))
	}
}

func (c *Channel) fail(err error) {
	ev := Event{
		Kind:    EventPlaybackFailed,
		Channel: c.id,
		Sound:   c.req.Sound,
		Err:     err,
	}
	if c.host != nil {
		c.host.log.Warn().Err(err).
			Str("channel", c.id.String()).
			Str("clip", c.name).
			Msg("voice failed during playback")
		c.host.emit(ev)
	}

	c.terminate("Failed", false)
}
