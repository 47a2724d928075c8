// SPDX-License-Identifier: EPL-2.0

package sound

import (
	"fmt"

	"github.com/ik5/audmgr/utils"
)

// Mixer holds the global and per-category volumes and pushes changes into
// every active channel of its pool.
//
// A Mixer is not safe for concurrent use. The Manager owns one and only
// touches it under its lock.
type Mixer struct {
	global     float64
	categories [numCategories]float64

	pool   *Pool
	notify EventSink
}

// NewMixer returns a mixer with every volume at 1. pool and notify may be
// nil.
func NewMixer(pool *Pool, notify EventSink) *Mixer {
	m := &Mixer{
		global: 1,
		pool:   pool,
		notify: notify,
	}
	for i := range m.categories {
		m.categories[i] = 1
	}

	return m
}

func (m *Mixer) GlobalVolume() float64 { return m.global }

// CategoryVolume returns the bus volume of c. Default and unknown categories
// report 1 since they contribute no factor.
func (m *Mixer) CategoryVolume(c Category) float64 {
	if c.IsGlobal() || !c.Valid() {
		return 1
	}

	return m.categories[c]
}

// Resolve returns volume × global × category, every factor clamped to [0,1].
func (m *Mixer) Resolve(volume float64, c Category) float64 {
	v := utils.Clamp01(volume) * utils.Clamp01(m.global)
	if c.IsGlobal() || !c.Valid() {
		return v
	}

	return v * utils.Clamp01(m.categories[c])
}

// SetGlobalVolume stores v clamped to [0,1] and refreshes active channels
// before returning.
func (m *Mixer) SetGlobalVolume(v float64) {
	m.global = utils.Clamp01(v)
	m.refresh()
	m.emit(Event{Kind: EventVolumeChanged, Global: true, Volume: m.global})
}

// SetCategoryVolume stores v clamped to [0,1] for c and refreshes active
// channels before returning. Setting the Default category is the same as
// setting the global volume.
func (m *Mixer) SetCategoryVolume(c Category, v float64) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidRequest, c)
	}
	if c.IsGlobal() {
		m.SetGlobalVolume(v)
		return nil
	}

	m.categories[c] = utils.Clamp01(v)
	m.refresh()
	m.emit(Event{Kind: EventVolumeChanged, Category: c, Volume: m.categories[c]})

	return nil
}

func (m *Mixer) refresh() {
	if m.pool == nil {
		return
	}

	m.pool.Each(func(ch *Channel) {
		if ch.active() {
			ch.refreshVolume()
		}
	})
}

func (m *Mixer) emit(ev Event) {
	if m.notify != nil {
		m.notify(ev)
	}
}
