// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	goaudio "github.com/go-audio/audio"
)

// fakeReader hands out data in whatever chunks PCMBuffer asks for and
// signals the end with a short read, like the go-audio decoders do.
type fakeReader struct {
	format *goaudio.Format
	data   []int
	offset int
	err    error
}

func (f *fakeReader) Format() *goaudio.Format { return f.format }

func (f *fakeReader) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if f.err != nil {
		return 0, f.err
	}

	n := copy(buf.Data, f.data[f.offset:])
	f.offset += n

	return n, nil
}

func newFake(channels int, data ...int) *fakeReader {
	return &fakeReader{
		format: &goaudio.Format{NumChannels: channels, SampleRate: 8000},
		data:   data,
	}
}

func TestNewSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		dec      Reader
		bitDepth int
		wantErr  error
	}{
		{"16 bit", newFake(1), 16, nil},
		{"24 bit", newFake(2), 24, nil},
		{"32 bit", newFake(2), 32, nil},
		{"8 bit", newFake(1), 8, ErrUnsupportedBitDepth},
		{"12 bit", newFake(1), 12, ErrUnsupportedBitDepth},
		{"no format", &fakeReader{}, 16, ErrMissingFormat},
		{"no channels", &fakeReader{format: &goaudio.Format{SampleRate: 8000}}, 16, ErrMissingFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src, err := NewSource(tt.dec, tt.bitDepth, 10)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewSource() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && src.Frames() != 10 {
				t.Errorf("Frames() = %d, want 10", src.Frames())
			}
		})
	}
}

func TestScale(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bitDepth int
		full     int
	}{
		{16, 32768},
		{24, 8388608},
		{32, 2147483648},
	}

	for _, tt := range tests {
		scale, err := Scale(tt.bitDepth)
		if err != nil {
			t.Fatalf("Scale(%d) error = %v", tt.bitDepth, err)
		}
		if got := float32(-tt.full) * scale; got != -1 {
			t.Errorf("Scale(%d): full scale maps to %v, want -1", tt.bitDepth, got)
		}
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	src, err := NewSource(newFake(2, 16384, -16384, 32767, -32768, 0, 8192), 16, 3)
	if err != nil {
		t.Fatal(err)
	}

	if src.SampleRate() != 8000 || src.Channels() != 2 {
		t.Fatalf("format = %d Hz × %d, want 8000 Hz × 2", src.SampleRate(), src.Channels())
	}

	dst := make([]float32, 4)
	n, err := src.ReadSamples(dst)
	if err != nil || n != 4 {
		t.Fatalf("first ReadSamples() = %d, %v, want 4, nil", n, err)
	}

	want := []float32{0.5, -0.5, 32767.0 / 32768.0, -1}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}

	n, err = src.ReadSamples(dst)
	if n != 2 || !errors.Is(err, io.EOF) {
		t.Fatalf("short ReadSamples() = %d, %v, want 2, io.EOF", n, err)
	}
	if dst[1] != 0.25 {
		t.Errorf("dst[1] = %v, want 0.25", dst[1])
	}

	n, err = src.ReadSamples(dst)
	if n != 0 || !errors.Is(err, io.EOF) {
		t.Errorf("drained ReadSamples() = %d, %v, want 0, io.EOF", n, err)
	}
}

func TestSource_ReadSamples_Empty(t *testing.T) {
	t.Parallel()

	src, err := NewSource(newFake(1, 1, 2, 3), 16, -1)
	if err != nil {
		t.Fatal(err)
	}

	if n, err := src.ReadSamples(nil); n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = %d, %v, want 0, nil", n, err)
	}
}

func TestSource_ReadSamples_Error(t *testing.T) {
	t.Parallel()

	boom := errors.New("corrupt chunk")
	dec := newFake(1)
	dec.err = boom

	src, err := NewSource(dec, 16, -1)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := src.ReadSamples(make([]float32, 8)); !errors.Is(err, boom) {
		t.Errorf("ReadSamples() error = %v, want %v", err, boom)
	}
}

func TestSource_BufferReuse(t *testing.T) {
	data := make([]int, 10000)
	src, err := NewSource(newFake(1, data...), 16, int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}

	if src.BufSize() != 4096 {
		t.Errorf("BufSize() before reading = %d, want 4096", src.BufSize())
	}

	dst := make([]float32, 2048)
	_, _ = src.ReadSamples(dst)
	if src.BufSize() != 2048 {
		t.Errorf("BufSize() = %d, want 2048", src.BufSize())
	}

	allocs := testing.AllocsPerRun(2, func() {
		_, _ = src.ReadSamples(dst[:1024])
	})
	if allocs != 0 {
		t.Errorf("ReadSamples() allocated %v times with a warm buffer", allocs)
	}
}

func TestReadSeeker(t *testing.T) {
	t.Parallel()

	seeker := bytes.NewReader([]byte("abc"))
	rs, err := ReadSeeker(seeker)
	if err != nil {
		t.Fatal(err)
	}
	if rs != seeker {
		t.Error("ReadSeeker() copied a reader that already seeks")
	}

	rs, err = ReadSeeker(io.MultiReader(strings.NewReader("xyz")))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := rs.Seek(1, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	rest, _ := io.ReadAll(rs)
	if string(rest) != "yz" {
		t.Errorf("after seeking got %q, want %q", rest, "yz")
	}
}
