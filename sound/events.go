// SPDX-License-Identifier: EPL-2.0

package sound

import "github.com/google/uuid"

// EventKind tells what an Event reports.
type EventKind int

const (
	// EventVolumeChanged follows every successful global or category volume change.
	EventVolumeChanged EventKind = iota + 1
	// EventPlaybackFailed reports a voice that failed while playing.
	EventPlaybackFailed
)

func (k EventKind) String() string {
	switch k {
	case EventVolumeChanged:
		return "volume-changed"
	case EventPlaybackFailed:
		return "playback-failed"
	}

	return "unknown"
}

// Event is delivered to every EventSink. Sinks run outside the manager lock
// and may call back into the manager.
type Event struct {
	Kind EventKind

	// Volume change fields. Global is set when the global volume changed,
	// otherwise Category names the bus.
	Global   bool
	Category Category
	Volume   float64

	// Playback failure fields.
	Channel uuid.UUID
	Sound   SoundID
	Err     error
}

// EventSink receives events. Nothing is expected back.
type EventSink func(Event)
