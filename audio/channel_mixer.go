// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// ChannelMixer converts the channel layout of src.
//
//   - N → 1 averages all input channels
//   - 1 → N copies the mono signal to every output
//   - N → N passes through
//   - N → M maps output channel c to input channel c mod N
type ChannelMixer struct {
	src Source
	out int
	tmp []float32
}

func NewChannelMixer(src Source, outChannels int) (*ChannelMixer, error) {
	if outChannels < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, outChannels)
	}

	return &ChannelMixer{
		src: src,
		out: outChannels,
		tmp: make([]float32, 4096),
	}, nil
}

func (m *ChannelMixer) SampleRate() int { return m.src.SampleRate() }
func (m *ChannelMixer) Channels() int   { return m.out }
func (m *ChannelMixer) BufSize() int    { return m.src.BufSize() }

func (m *ChannelMixer) Close() error {
	if err := m.src.Close(); err != nil {
		return fmt.Errorf("close mixer source: %w", err)
	}

	return nil
}

// Frames passes through the source length, which the layout change keeps.
func (m *ChannelMixer) Frames() int64 {
	if f, ok := m.src.(Framed); ok {
		return f.Frames()
	}

	return -1
}

func (m *ChannelMixer) ReadSamples(dst []float32) (int, error) {
	if len(dst)%m.out != 0 {
		return 0, ErrInvalidDstSize
	}
	if len(dst) == 0 {
		return 0, nil
	}

	in := m.src.Channels()
	if in == m.out {
		return m.src.ReadSamples(dst)
	}

	frames := len(dst) / m.out
	need := frames * in
	if cap(m.tmp) < need {
		m.tmp = make([]float32, max(need, 8192))
	}
	buf := m.tmp[:need]

	n, err := m.src.ReadSamples(buf)
	if n == 0 {
		return 0, err
	}
	frames = n / in

	switch {
	case m.out == 1 && in == 2:
		for f := range frames {
			dst[f] = (buf[2*f] + buf[2*f+1]) * 0.5
		}
	case m.out == 1:
		inv := 1 / float32(in)
		for f := range frames {
			var sum float32
			for _, s := range buf[f*in : (f+1)*in] {
				sum += s
			}
			dst[f] = sum * inv
		}
	case in == 1:
		for f := range frames {
			v := buf[f]
			row := dst[f*m.out : (f+1)*m.out]
			for c := range row {
				row[c] = v
			}
		}
	default:
		for f := range frames {
			for c := range m.out {
				dst[f*m.out+c] = buf[f*in+c%in]
			}
		}
	}

	return frames * m.out, err
}
