// SPDX-License-Identifier: EPL-2.0

package wav_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audmgr/audio"
	"github.com/ik5/audmgr/formats/wav"
)

func Example_decoding() {
	data := new(bytes.Buffer)
	if err := wav.WriteWAV16(data, 16000, []int16{100, 200, 300, 400, 500}); err != nil {
		fmt.Println(err)
		return
	}

	source, err := wav.Decoder{}.Decode(data)
	if err != nil {
		fmt.Printf("Decode error: %v\n", err)
		return
	}
	defer source.Close()

	fmt.Printf("Sample rate: %d Hz\n", source.SampleRate())
	fmt.Printf("Channels: %d\n", source.Channels())

	buf := make([]float32, 10)
	n, err := source.ReadSamples(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		fmt.Printf("Read error: %v\n", err)
		return
	}

	fmt.Printf("Read %d samples\n", n)
	// Output:
	// Sample rate: 16000 Hz
	// Channels: 1
	// Read 5 samples
}

func Example_length() {
	// 1.5 seconds of stereo silence
	data := new(bytes.Buffer)
	if err := wav.WritePCM16(data, 8000, 2, make([]int16, 2*12000)); err != nil {
		fmt.Println(err)
		return
	}

	source, err := wav.Decoder{}.Decode(data)
	if err != nil {
		fmt.Println(err)
		return
	}

	d, ok := audio.Length(source)
	fmt.Println(d, ok)
	// Output: 1.5s true
}

func Example_encoding() {
	samples := make([]int16, 1000)
	for i := range samples {
		samples[i] = int16((i % 100) * 100)
	}

	output := new(bytes.Buffer)
	if err := wav.WriteWAV16(output, 8000, samples); err != nil {
		fmt.Printf("Write error: %v\n", err)
		return
	}

	fmt.Printf("Wrote %d bytes\n", output.Len())
	// Output: Wrote 2044 bytes
}

func Example_sampleConversion() {
	samples := []int16{-32768, -16384, 0, 16384, 32767}

	data := new(bytes.Buffer)
	_ = wav.WriteWAV16(data, 8000, samples)

	source, _ := wav.Decoder{}.Decode(data)

	buf := make([]float32, len(samples))
	n, _ := source.ReadSamples(buf)

	for i := range n {
		fmt.Printf("%6d → %+.3f\n", samples[i], buf[i])
	}
	// Output:
	// -32768 → -1.000
	// -16384 → -0.500
	//      0 → +0.000
	//  16384 → +0.500
	//  32767 → +1.000
}

func Example_errorNotWAV() {
	_, err := wav.Decoder{}.Decode(bytes.NewReader([]byte("This is not a WAV file")))
	if errors.Is(err, wav.ErrNotWavFile) {
		fmt.Println("not a wav file")
	}
	// Output: not a wav file
}
