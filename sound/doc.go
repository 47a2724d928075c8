// SPDX-License-Identifier: EPL-2.0

// Package sound is the playback core: a pool of reusable channels, a layered
// volume mixer and the Manager that schedules both.
//
// # Channels
//
// A Channel plays one request at a time and walks through a small state
// machine:
//
//	Free ──initialise──▶ Playing ◀──resume── Paused
//	                       │  ▲                ▲
//	              stopFade │  │ fadeIn         │ pause
//	                       ▼  │                │
//	                     Fading ───────────────┘
//
// Playing and Fading channels end in Free once their clip runs out, their
// fade completes or they are stopped. Reserved channels park in Finished
// instead until released.
//
// # Pool
//
// Channels are grouped in one partition per Preset. Acquire hands out the
// first free, unreserved channel of a partition and grows it when every
// channel is busy. Partitions never shrink.
//
// # Volumes
//
// The volume a voice plays at is
//
//	request volume × global volume × category volume
//
// with every factor clamped to [0,1]. CategoryDefault contributes no
// category factor. Changing the global or a category volume updates every
// active channel before the setter returns; running fade outs adopt the new
// value as their ceiling.
//
// # Scheduling
//
// All state lives behind the Manager lock. Time only moves through
// Manager.Tick, either called by the host loop or by Manager.Run:
//
//	m := sound.New(catalogue, sound.WithBackend(backend))
//	ch, err := m.Play(sound.NewRequest(id).WithPitchRange(0.9, 1.1))
//	if err != nil {
//	    return err
//	}
//	ch.OnComplete(func() { log.Print("done") })
//	go m.Run(ctx, sound.DefaultTickInterval)
//
// Completion callbacks and event sinks run after the lock is released, so
// they may call back into the Manager.
package sound
