// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/ik5/audmgr/audio"
)

func encode(t testing.TB, sampleRate, channels int, samples []int16) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := WritePCM16(&buf, sampleRate, channels, samples); err != nil {
		t.Fatalf("WritePCM16() error = %v", err)
	}

	return buf.Bytes()
}

// patchFormat rewrites the format tag and bit depth of a canonical header.
func patchFormat(data []byte, tag, bits uint16) []byte {
	out := bytes.Clone(data)
	binary.LittleEndian.PutUint16(out[20:22], tag)
	binary.LittleEndian.PutUint16(out[34:36], bits)

	return out
}

func readAll(t testing.TB, src audio.Source) []float32 {
	t.Helper()

	var out []float32
	buf := make([]float32, 5)
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}
}

func TestDecoder_Mono(t *testing.T) {
	t.Parallel()

	samples := []int16{0, 16384, -16384, 32767, -32768, 8192}
	src, err := Decoder{}.Decode(bytes.NewReader(encode(t, 8000, 1, samples)))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	defer src.Close()

	if src.SampleRate() != 8000 || src.Channels() != 1 {
		t.Fatalf("format = %d Hz × %d, want 8000 Hz × 1", src.SampleRate(), src.Channels())
	}

	got := readAll(t, src)
	want := []float32{0, 0.5, -0.5, 32767.0 / 32768.0, -1, 0.25}
	if len(got) != len(want) {
		t.Fatalf("read %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDecoder_StereoFrames(t *testing.T) {
	t.Parallel()

	samples := make([]int16, 2*4410)
	src, err := Decoder{}.Decode(bytes.NewReader(encode(t, 44100, 2, samples)))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	framed, ok := src.(audio.Framed)
	if !ok {
		t.Fatal("wav source does not report its length")
	}
	if framed.Frames() != 4410 {
		t.Errorf("Frames() = %d, want 4410", framed.Frames())
	}

	if d, ok := audio.Length(src); !ok || d != 100*time.Millisecond {
		t.Errorf("Length() = %v, %v, want 100ms", d, ok)
	}

	if got := readAll(t, src); len(got) != len(samples) {
		t.Errorf("read %d samples, want %d", len(got), len(samples))
	}
}

func TestDecoder_24Bit(t *testing.T) {
	t.Parallel()

	// two 24-bit mono samples: +0.5 and -0.5
	pcm := []byte{0x00, 0x00, 0x40, 0x00, 0x00, 0xC0}

	data := encode(t, 48000, 1, make([]int16, 3))
	data = patchFormat(data, formatPCM, 24)
	binary.LittleEndian.PutUint16(data[32:34], 3)
	binary.LittleEndian.PutUint32(data[28:32], 48000*3)
	data = append(data[:headerSize], pcm...)
	binary.LittleEndian.PutUint32(data[40:44], uint32(len(pcm)))
	binary.LittleEndian.PutUint32(data[4:8], uint32(len(data)-8))

	src, err := Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	got := readAll(t, src)
	want := []float32{0.5, -0.5}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("samples = %v, want %v", got, want)
	}
}

func TestDecoder_Rejects(t *testing.T) {
	t.Parallel()

	valid := encode(t, 8000, 1, []int16{1, 2, 3, 4})

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"garbage", []byte("NOT A WAV FILE DATA"), ErrNotWavFile},
		{"truncated", []byte("RIFF\x00"), ErrNotWavFile},
		{"empty", nil, ErrNotWavFile},
		{"float samples", patchFormat(valid, 3, 32), ErrUnsupportedEncoding},
		{"8 bit", patchFormat(valid, formatPCM, 8), ErrUnsupportedBitDepth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decoder{}.Decode(bytes.NewReader(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecoder_NonSeekingReader(t *testing.T) {
	t.Parallel()

	data := encode(t, 22050, 1, []int16{100, 200, 300})

	src, err := Decoder{}.Decode(io.MultiReader(bytes.NewReader(data)))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if got := readAll(t, src); len(got) != 3 {
		t.Errorf("read %d samples, want 3", len(got))
	}
}

func BenchmarkDecoder_Decode(b *testing.B) {
	data := encode(b, 44100, 2, make([]int16, 2*44100))

	b.ReportAllocs()
	for b.Loop() {
		src, err := Decoder{}.Decode(bytes.NewReader(data))
		if err != nil {
			b.Fatal(err)
		}
		_ = readAll(b, src)
	}
}
