// SPDX-License-Identifier: EPL-2.0

package sound

import "errors"

var (
	// ErrUnknownSound is returned when the catalogue has no clip for a SoundID.
	ErrUnknownSound = errors.New("unknown sound id")
	// ErrInvalidRequest is returned for requests rejected before touching the pool.
	ErrInvalidRequest = errors.New("invalid play request")
	// ErrChannelBusy is returned when a channel that is not free is initialised.
	ErrChannelBusy = errors.New("channel is not free")
	// ErrPlaybackFailed is returned when the native voice could not start.
	ErrPlaybackFailed = errors.New("playback failed")
)
