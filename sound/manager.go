// SPDX-License-Identifier: EPL-2.0

package sound

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ik5/audmgr/utils"
)

// DefaultTickInterval is the scheduler period Run uses when given none.
const DefaultTickInterval = time.Second / 60

// Manager is the single entry point for playback. It owns the mixer, the
// pool and every channel, and serialises all state transitions behind one
// lock: API calls and Tick never interleave.
type Manager struct {
	mu      sync.Mutex
	pending []func()

	log       zerolog.Logger
	catalogue Catalogue
	presets   PresetRegistry
	backend   Backend
	rng       *rand.Rand
	sinks     []EventSink

	mixer    *Mixer
	pool     *Pool
	listener Vec3

	music   slot
	ambient slot
}

// slot remembers the channel of a single-occupant player together with the
// generation it was started with.
type slot struct {
	ch  *Channel
	gen uint64
}

func (s slot) current() *Channel {
	if s.ch == nil || s.ch.gen != s.gen || !s.ch.active() {
		return nil
	}

	return s.ch
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// WithBackend sets the native playback backend. The default is NullBackend.
func WithBackend(b Backend) Option {
	return func(m *Manager) { m.backend = b }
}

// WithPresets sets the registry consulted when a pool partition grows. The
// default is DefaultPresets.
func WithPresets(r PresetRegistry) Option {
	return func(m *Manager) { m.presets = r }
}

// WithRand sets the random source for pitch sampling.
func WithRand(r *rand.Rand) Option {
	return func(m *Manager) { m.rng = r }
}

// WithEventSink subscribes s to manager events.
func WithEventSink(s EventSink) Option {
	return func(m *Manager) {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
}

// WithVolumes sets the starting global and category volumes. No events are
// emitted for them.
func WithVolumes(global float64, categories map[Category]float64) Option {
	return func(m *Manager) {
		m.mixer.global = utils.Clamp01(global)
		for c, v := range categories {
			if c.Valid() && !c.IsGlobal() {
				m.mixer.categories[c] = utils.Clamp01(v)
			}
		}
	}
}

type emptyCatalogue struct{}

func (emptyCatalogue) Clip(id SoundID) (Clip, error) {
	return nil, fmt.Errorf("%w: %d", ErrUnknownSound, id)
}

// New builds a Manager over catalogue. A nil catalogue knows no sounds.
func New(catalogue Catalogue, opts ...Option) *Manager {
	if catalogue == nil {
		catalogue = emptyCatalogue{}
	}

	m := &Manager{
		log:       zerolog.Nop(),
		catalogue: catalogue,
		presets:   DefaultPresets(),
		backend:   NullBackend{},
	}
	m.pool = NewPool(m.newChannel)
	m.mixer = NewMixer(m.pool, m.emit)

	for _, opt := range opts {
		opt(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15))
	}

	return m
}

// locked runs fn under the manager lock and then delivers whatever fn
// queued: events and completion callbacks never run under the lock.
func (m *Manager) locked(fn func()) {
	m.mu.Lock()
	fn()
	queued := m.pending
	m.pending = nil
	m.mu.Unlock()

	for _, f := range queued {
		f()
	}
}

func (m *Manager) emit(ev Event) {
	for _, sink := range m.sinks {
		m.pending = append(m.pending, func() { sink(ev) })
	}
}

func (m *Manager) newChannel(preset Preset) *Channel {
	tmpl := m.presets.Template(preset)
	ch := newChannel(preset, m.backend.NewVoice(preset, tmpl), m.mixer)
	ch.host = m

	m.log.Debug().
		Stringer("preset", preset).
		Str("channel", ch.id.String()).
		Int("size", m.pool.Len(preset)+1).
		Msg("channel pool grew")

	return ch
}

// OnEvent subscribes sink to volume changes and playback failures.
func (m *Manager) OnEvent(sink EventSink) {
	if sink == nil {
		return
	}

	m.locked(func() { m.sinks = append(m.sinks, sink) })
}

// Play validates req, looks up its clip and starts it on a free channel of
// req.Preset.
func (m *Manager) Play(req Request) (ch *Channel, err error) {
	m.locked(func() { ch, err = m.play(req) })
	return ch, err
}

// Play3D plays req as a positional sound. A zero MaxDistance means +Inf.
// SpatialBlend is used as given; NewRequest starts it at fully positional.
func (m *Manager) Play3D(req Request) (*Channel, error) {
	return m.Play(as3D(req))
}

func as3D(req Request) Request {
	req.Is3D = true
	if req.MaxDistance == 0 {
		req.MaxDistance = math.Inf(1)
	}

	return req
}

func (m *Manager) play(req Request) (*Channel, error) {
	if err := req.Validate(); err != nil {
		m.log.Debug().Err(err).Uint32("sound", uint32(req.Sound)).Msg("play request rejected")
		return nil, err
	}

	clip, err := m.catalogue.Clip(req.Sound)
	if err != nil {
		m.log.Debug().Err(err).Uint32("sound", uint32(req.Sound)).Msg("sound lookup failed")
		return nil, fmt.Errorf("lookup sound %d: %w", req.Sound, err)
	}

	ch := m.pool.Acquire(req.Preset)
	if err := ch.initialize(req, clip, m.rng.Float64()); err != nil {
		m.log.Warn().Err(err).Str("channel", ch.id.String()).Msg("channel failed to start")
		return nil, err
	}

	m.log.Debug().
		Str("clip", clip.Name()).
		Stringer("category", req.Category).
		Stringer("preset", req.Preset).
		Float64("volume", ch.volume).
		Float64("pitch", ch.pitch).
		Bool("loop", req.Loop).
		Msg("playing")

	return ch, nil
}

// PlayMusic plays req on the music bus, stopping whatever the previous
// PlayMusic call started if it is still playing.
func (m *Manager) PlayMusic(req Request) (ch *Channel, err error) {
	req.Category = CategoryMusic
	m.locked(func() { ch, err = m.playSlot(&m.music, req) })
	return ch, err
}

// PlayAmbient plays req on the ambient bus, stopping whatever the previous
// PlayAmbient call started if it is still playing.
func (m *Manager) PlayAmbient(req Request) (ch *Channel, err error) {
	req.Category = CategoryAmbient
	m.locked(func() { ch, err = m.playSlot(&m.ambient, req) })
	return ch, err
}

func (m *Manager) playSlot(s *slot, req Request) (*Channel, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := m.catalogue.Clip(req.Sound); err != nil {
		return nil, fmt.Errorf("lookup sound %d: %w", req.Sound, err)
	}

	if prev := s.current(); prev != nil {
		prev.terminate("Stopped", false)
	}

	ch, err := m.play(req)
	if err != nil {
		*s = slot{}
		return nil, err
	}
	*s = slot{ch: ch, gen: ch.gen}

	return ch, nil
}

// StopMusic stops the current music, fading over fade when positive.
func (m *Manager) StopMusic(fade time.Duration) {
	m.locked(func() {
		if ch := m.music.current(); ch != nil {
			ch.stopFade(fade)
		}
	})
}

// StopAmbient stops the current ambient sound, fading over fade when
// positive.
func (m *Manager) StopAmbient(fade time.Duration) {
	m.locked(func() {
		if ch := m.ambient.current(); ch != nil {
			ch.stopFade(fade)
		}
	})
}

// StopAll stops every active channel, fading over fade when positive.
func (m *Manager) StopAll(fade time.Duration) {
	m.locked(func() {
		m.pool.Each(func(ch *Channel) { ch.stopFade(fade) })
	})
}

// SetGlobalVolume sets the global volume. Every active channel plays at the
// new volume when this returns.
func (m *Manager) SetGlobalVolume(v float64) {
	m.locked(func() { m.mixer.SetGlobalVolume(v) })
}

// SetCategoryVolume sets the volume of bus c. Every active channel plays at
// the new volume when this returns.
func (m *Manager) SetCategoryVolume(c Category, v float64) (err error) {
	m.locked(func() { err = m.mixer.SetCategoryVolume(c, v) })
	return err
}

func (m *Manager) GlobalVolume() (v float64) {
	m.locked(func() { v = m.mixer.GlobalVolume() })
	return v
}

func (m *Manager) CategoryVolume(c Category) (v float64) {
	m.locked(func() { v = m.mixer.CategoryVolume(c) })
	return v
}

// SetListenerPosition moves the point 3D channels are heard from.
func (m *Manager) SetListenerPosition(pos Vec3) {
	m.locked(func() {
		m.listener = pos
		m.backend.SetListener(pos)
	})
}

func (m *Manager) ListenerPosition() (pos Vec3) {
	m.locked(func() { pos = m.listener })
	return pos
}

// Mixer exposes the volume layers. It is not synchronised: use it only
// while no other goroutine drives the manager.
func (m *Manager) Mixer() *Mixer { return m.mixer }

// Pool exposes the channel partitions under the same rule as Mixer.
func (m *Manager) Pool() *Pool { return m.pool }

// PoolSize returns how many channels the preset partition holds.
func (m *Manager) PoolSize(preset Preset) (n int) {
	m.locked(func() { n = m.pool.Len(preset) })
	return n
}

// Active returns the channels currently holding a playback.
func (m *Manager) Active() (chs []*Channel) {
	m.locked(func() {
		m.pool.Each(func(ch *Channel) {
			if ch.active() {
				chs = append(chs, ch)
			}
		})
	})

	return chs
}

// Tick advances every channel by dt: fades, completion countdowns, position
// bindings and voice failure checks.
func (m *Manager) Tick(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}

	var bound []binding
	m.locked(func() {
		m.pool.Each(func(ch *Channel) {
			if b, ok := ch.captureFollow(); ok {
				bound = append(bound, b)
			}
		})
	})

	// Followers may call back into the manager.
	for i := range bound {
		bound[i].pos, bound[i].ok = bound[i].follow.Position()
	}

	m.locked(func() {
		for _, b := range bound {
			b.ch.applyFollow(b)
		}
		m.pool.Each(func(ch *Channel) { ch.advance(dt) })
	})
}

// Run calls Tick every interval with the measured elapsed time until ctx is
// done. interval <= 0 means DefaultTickInterval.
func (m *Manager) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultTickInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			m.Tick(now.Sub(last))
			last = now
		}
	}
}
