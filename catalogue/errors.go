// SPDX-License-Identifier: EPL-2.0

package catalogue

import (
	"errors"

	"github.com/ik5/audmgr/audio"
)

var (
	ErrUnknownFormat   = audio.ErrUnknownFormat
	ErrDuplicateSound  = errors.New("sound already registered")
	ErrUnknownDuration = errors.New("clip duration cannot be measured")
)
