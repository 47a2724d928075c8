// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audmgr/audio"
	"github.com/ik5/audmgr/internal/audiotest"
)

// Example_pitch plays one second of audio an octave up.
func Example_pitch() {
	source := audiotest.NewSineSource(44100, 1, 44100, 440.0)

	resampler := audio.NewResampler(source, 48000)
	if err := resampler.SetPitch(2); err != nil {
		fmt.Println(err)
		return
	}

	buf := make([]float32, 4096)
	total := 0
	for {
		n, err := resampler.ReadSamples(buf)
		total += n
		if errors.Is(err, io.EOF) {
			break
		}
	}

	fmt.Printf("Output rate: %d Hz\n", resampler.SampleRate())
	fmt.Printf("Duration: %.2f seconds\n", float64(total)/float64(resampler.SampleRate()))
	// Output:
	// Output rate: 48000 Hz
	// Duration: 0.50 seconds
}

// Example_channelMixer widens a mono source for a stereo device.
func Example_channelMixer() {
	source := audiotest.NewConstantSource(16000, 1, 16000, 0.5)

	stereo, err := audio.NewChannelMixer(source, 2)
	if err != nil {
		fmt.Println(err)
		return
	}

	buf := make([]float32, 8)
	n, _ := stereo.ReadSamples(buf)

	fmt.Printf("Channels: %d -> %d\n", source.Channels(), stereo.Channels())
	fmt.Printf("First frame: %.1f %.1f\n", buf[0], buf[1])
	fmt.Printf("Read %d samples\n", n)
	// Output:
	// Channels: 1 -> 2
	// First frame: 0.5 0.5
	// Read 8 samples
}

type sineDecoder struct{}

func (sineDecoder) Decode(io.Reader) (audio.Source, error) {
	return audiotest.NewSineSource(16000, 1, 24000, 440.0), nil
}

// Example_registry decodes through the format registry and measures the
// result.
func Example_registry() {
	registry := audio.NewRegistry()
	registry.Register("sine", sineDecoder{})

	src, err := registry.Decode("SINE", nil)
	if err != nil {
		fmt.Println(err)
		return
	}

	d, _ := audio.Length(src)
	fmt.Println("Formats:", registry.Formats())
	fmt.Println("Length:", d)

	_, err = registry.Decode("flac", nil)
	fmt.Println(errors.Is(err, audio.ErrUnknownFormat))
	// Output:
	// Formats: [sine]
	// Length: 1.5s
	// true
}
