// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	gowav "github.com/go-audio/wav"

	"github.com/ik5/audmgr/audio"
	"github.com/ik5/audmgr/formats/internal/pcm"
)

const formatPCM = 1

type Decoder struct{}

// Decode parses the RIFF headers of r and returns a source positioned at
// the first PCM sample. Readers that cannot seek are buffered in memory.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := pcm.ReadSeeker(r)
	if err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}

	dec := gowav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}
	if dec.WavAudioFormat != formatPCM {
		return nil, fmt.Errorf("%w: format tag %d", ErrUnsupportedEncoding, dec.WavAudioFormat)
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingData, err)
	}

	frames := int64(-1)
	if frameSize := int64(dec.NumChans) * int64(dec.BitDepth/8); frameSize > 0 {
		frames = dec.PCMLen() / frameSize
	}

	src, err := pcm.NewSource(dec, int(dec.BitDepth), frames)
	if err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}

	return src, nil
}
