// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
)

// mockMP3Reader serves 16-bit stereo PCM the way go-mp3 does.
type mockMP3Reader struct {
	sampleRate int
	samples    []int16
	offset     int
	length     int64
	err        error
	stalls     int
}

func newMock(rate int, samples []int16) *mockMP3Reader {
	return &mockMP3Reader{sampleRate: rate, samples: samples, length: int64(len(samples) * 2)}
}

func (m *mockMP3Reader) SampleRate() int { return m.sampleRate }
func (m *mockMP3Reader) Length() int64   { return m.length }

func (m *mockMP3Reader) Read(buf []byte) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	if m.stalls > 0 {
		m.stalls--
		return 0, nil
	}
	if m.offset >= len(m.samples) {
		return 0, io.EOF
	}

	count := min(len(buf)/2, len(m.samples)-m.offset)
	for i := range count {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(m.samples[m.offset+i]))
	}
	m.offset += count

	return count * 2, nil
}

func readAll(t testing.TB, src *source, size int) []float32 {
	t.Helper()

	var out []float32
	buf := make([]float32, size)
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

func TestDecoder_Rejects(t *testing.T) {
	t.Parallel()

	tests := map[string][]byte{
		"garbage": []byte("This is not MP3 data"),
		"empty":   nil,
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := Decoder{}.Decode(bytes.NewReader(data))
			if !errors.Is(err, ErrNotMP3File) {
				t.Errorf("Decode() error = %v, want ErrNotMP3File", err)
			}
		})
	}
}

func TestSource_Metadata(t *testing.T) {
	t.Parallel()

	src := newSource(newMock(44100, make([]int16, 2*441)))

	if src.SampleRate() != 44100 {
		t.Errorf("SampleRate() = %d, want 44100", src.SampleRate())
	}
	if src.Channels() != 2 {
		t.Errorf("Channels() = %d, want 2", src.Channels())
	}
	if src.Frames() != 441 {
		t.Errorf("Frames() = %d, want 441", src.Frames())
	}
	if err := src.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestSource_UnknownLength(t *testing.T) {
	t.Parallel()

	mock := newMock(44100, make([]int16, 8))
	mock.length = -1

	if got := newSource(mock).Frames(); got != -1 {
		t.Errorf("Frames() = %d, want -1", got)
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	in := []int16{0, 16384, -16384, -32768, 32767, 8192}
	got := readAll(t, newSource(newMock(44100, in)), 4)

	want := []float32{0, 0.5, -0.5, -1, 32767.0 / 32768.0, 0.25}
	if len(got) != len(want) {
		t.Fatalf("read %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSource_ReadSamples_EmptyBuffer(t *testing.T) {
	t.Parallel()

	n, err := newSource(newMock(44100, []int16{1, 2})).ReadSamples(nil)
	if n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = %d, %v, want 0, nil", n, err)
	}
}

func TestSource_ReadSamples_SkipsEmptyReads(t *testing.T) {
	t.Parallel()

	mock := newMock(44100, []int16{100, 200})
	mock.stalls = 3

	n, err := newSource(mock).ReadSamples(make([]float32, 2))
	if n != 2 || err != nil {
		t.Errorf("ReadSamples() = %d, %v, want 2, nil", n, err)
	}
}

func TestSource_ReadSamples_EOF(t *testing.T) {
	t.Parallel()

	src := newSource(newMock(44100, []int16{1, 2}))
	buf := make([]float32, 8)

	if n, _ := src.ReadSamples(buf); n != 2 {
		t.Fatalf("first read = %d samples, want 2", n)
	}
	for range 2 {
		if n, err := src.ReadSamples(buf); n != 0 || !errors.Is(err, io.EOF) {
			t.Errorf("read after end = %d, %v, want 0, EOF", n, err)
		}
	}
}

func TestSource_ReadSamples_Error(t *testing.T) {
	t.Parallel()

	mock := newMock(44100, []int16{1, 2})
	mock.err = io.ErrUnexpectedEOF

	_, err := newSource(mock).ReadSamples(make([]float32, 2))
	if !errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		t.Errorf("ReadSamples() error = %v, want wrapped ErrUnexpectedEOF", err)
	}
}

func TestSource_BufferResize(t *testing.T) {
	t.Parallel()

	src := newSource(newMock(44100, make([]int16, 20000)))
	if got := src.BufSize(); got != defaultSize/2 {
		t.Errorf("BufSize() = %d, want %d", got, defaultSize/2)
	}

	if _, err := src.ReadSamples(make([]float32, 10000)); err != nil {
		t.Fatal(err)
	}
	if got := src.BufSize(); got != 10000 {
		t.Errorf("BufSize() after large read = %d, want 10000", got)
	}
}

func TestSource_ReadSamples_NoAllocs(t *testing.T) {
	mock := newMock(44100, make([]int16, 1<<20))
	src := newSource(mock)
	buf := make([]float32, 1024)

	allocs := testing.AllocsPerRun(100, func() {
		_, _ = src.ReadSamples(buf)
	})
	if allocs != 0 {
		t.Errorf("ReadSamples allocates %v times per call, want 0", allocs)
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	samples := make([]int16, 2*44100)
	buf := make([]float32, 4096)

	b.ReportAllocs()
	for b.Loop() {
		_ = readAll(b, newSource(newMock(44100, samples)), len(buf))
	}
}
