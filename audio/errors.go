// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize  = errors.New("dst size must be multiple of channels")
	ErrInvalidChannels = errors.New("output channel count must be positive")
	ErrInvalidPitch    = errors.New("pitch must be a positive finite number")
	ErrUnknownFormat   = errors.New("no decoder registered for format")
)
