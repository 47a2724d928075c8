// SPDX-License-Identifier: EPL-2.0

package otoplay

import "errors"

var (
	// ErrUnsupportedClip is returned by Voice.Start for clips that cannot
	// be opened as an audio stream.
	ErrUnsupportedClip = errors.New("clip cannot be opened for playback")
	ErrInvalidFormat   = errors.New("output sample rate and channel count must be positive")
)
