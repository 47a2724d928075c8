// SPDX-License-Identifier: EPL-2.0

package audmgr

import (
	"context"
	"sync"
	"time"

	"github.com/ik5/audmgr/sound"
)

var (
	initOnce sync.Once
	manager  *sound.Manager
)

// EnsureInitialized creates the process-wide manager on the first call and
// returns it. Later calls return the same manager and ignore their
// arguments.
func EnsureInitialized(cat sound.Catalogue, opts ...sound.Option) *sound.Manager {
	initOnce.Do(func() {
		manager = sound.New(cat, opts...)
	})

	return manager
}

// Manager returns the process-wide manager, creating an empty one if
// EnsureInitialized was never called.
func Manager() *sound.Manager {
	return EnsureInitialized(nil)
}

func PlaySound(req sound.Request) (*sound.Channel, error) {
	return Manager().Play(req)
}

func Play3DSound(req sound.Request) (*sound.Channel, error) {
	return Manager().Play3D(req)
}

func PlayMusic(req sound.Request) (*sound.Channel, error) {
	return Manager().PlayMusic(req)
}

func PlayAmbient(req sound.Request) (*sound.Channel, error) {
	return Manager().PlayAmbient(req)
}

func StopMusic(fade time.Duration)   { Manager().StopMusic(fade) }
func StopAmbient(fade time.Duration) { Manager().StopAmbient(fade) }
func StopAll(fade time.Duration)     { Manager().StopAll(fade) }

func SetGlobalVolume(v float64) { Manager().SetGlobalVolume(v) }

func SetCategoryVolume(c sound.Category, v float64) error {
	return Manager().SetCategoryVolume(c, v)
}

func SetListenerPosition(pos sound.Vec3) { Manager().SetListenerPosition(pos) }

// Tick advances the process-wide manager by dt.
func Tick(dt time.Duration) { Manager().Tick(dt) }

// Run ticks the process-wide manager until ctx is done.
func Run(ctx context.Context, interval time.Duration) error {
	return Manager().Run(ctx, interval)
}
