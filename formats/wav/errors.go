// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"

	"github.com/ik5/audmgr/formats/internal/pcm"
)

var (
	ErrNotWavFile          = errors.New("not a WAV file")
	ErrUnsupportedEncoding = errors.New("only integer PCM WAV is supported")
	ErrMissingData         = errors.New("WAV file has no data chunk")
	ErrUnsupportedBitDepth = pcm.ErrUnsupportedBitDepth
	ErrInvalidChannels     = errors.New("channel count must be positive")
)
