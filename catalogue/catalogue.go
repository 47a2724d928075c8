// SPDX-License-Identifier: EPL-2.0

package catalogue

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ik5/audmgr/audio"
	"github.com/ik5/audmgr/formats/aiff"
	"github.com/ik5/audmgr/formats/mp3"
	"github.com/ik5/audmgr/formats/vorbis"
	"github.com/ik5/audmgr/formats/wav"
	"github.com/ik5/audmgr/sound"
)

// DefaultRegistry returns a registry with every bundled decoder.
func DefaultRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("aif", aiff.Decoder{})
	reg.Register("aiff", aiff.Decoder{})

	return reg
}

// Clip is an encoded sound kept in memory. Each Open decodes it from the
// start, so a clip can back any number of voices.
type Clip struct {
	id       sound.SoundID
	name     string
	format   string
	data     []byte
	duration time.Duration
	registry *audio.Registry
}

func (c *Clip) ID() sound.SoundID       { return c.id }
func (c *Clip) Name() string            { return c.name }
func (c *Clip) Format() string          { return c.format }
func (c *Clip) Duration() time.Duration { return c.duration }
func (c *Clip) Size() int               { return len(c.data) }

// Open returns a fresh decoder positioned at the first sample.
func (c *Clip) Open() (audio.Source, error) {
	return c.registry.Decode(c.format, bytes.NewReader(c.data))
}

// Catalogue is an in-memory sound.Catalogue. It is safe for concurrent
// use.
type Catalogue struct {
	registry *audio.Registry
	log      zerolog.Logger

	mtx   sync.RWMutex
	clips map[sound.SoundID]*Clip
}

type Option func(*Catalogue)

func WithRegistry(r *audio.Registry) Option {
	return func(c *Catalogue) { c.registry = r }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Catalogue) { c.log = l }
}

func New(opts ...Option) *Catalogue {
	c := &Catalogue{
		registry: DefaultRegistry(),
		log:      zerolog.Nop(),
		clips:    make(map[sound.SoundID]*Clip),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Add decodes data once to measure it and registers it under the
// normalised name.
func (c *Catalogue) Add(name, format string, data []byte) (*Clip, error) {
	clip := &Clip{
		id:       HashID(name),
		name:     Normalize(name),
		format:   strings.ToLower(format),
		data:     data,
		registry: c.registry,
	}

	if clip.name == "" {
		return nil, fmt.Errorf("%w: empty clip name", sound.ErrInvalidRequest)
	}

	d, err := measure(clip)
	if err != nil {
		return nil, fmt.Errorf("add %s: %w", clip.name, err)
	}
	clip.duration = d

	c.mtx.Lock()
	defer c.mtx.Unlock()

	if prev, ok := c.clips[clip.id]; ok {
		return nil, fmt.Errorf("%w: %s (id %d, taken by %s)", ErrDuplicateSound, clip.name, clip.id, prev.name)
	}
	c.clips[clip.id] = clip

	c.log.Debug().
		Str("sound", clip.name).
		Uint32("id", uint32(clip.id)).
		Str("format", clip.format).
		Dur("duration", clip.duration).
		Msg("clip registered")

	return clip, nil
}

// measure reads the length from the decoder when it knows it and decodes
// the whole clip otherwise.
func measure(clip *Clip) (time.Duration, error) {
	src, err := clip.Open()
	if err != nil {
		return 0, err
	}
	defer src.Close()

	if d, ok := audio.Length(src); ok {
		return d, nil
	}

	if src.SampleRate() <= 0 || src.Channels() <= 0 {
		return 0, ErrUnknownDuration
	}

	buf := make([]float32, src.Channels()*1024)
	var samples int64
	for {
		n, err := src.ReadSamples(buf)
		samples += int64(n)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrUnknownDuration, err)
		}
	}

	return audio.FramesToDuration(samples/int64(src.Channels()), src.SampleRate()), nil
}

// LoadFile registers the file at path. The decoder is chosen by extension.
func (c *Catalogue) LoadFile(path string) (*Clip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load clip: %w", err)
	}

	return c.Add(path, Format(path), data)
}

// LoadFS registers every file under root whose extension has a decoder.
// Other files are skipped.
func (c *Catalogue) LoadFS(fsys fs.FS, root string) ([]*Clip, error) {
	var clips []*Clip

	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := c.registry.Get(Format(p)); !ok {
			c.log.Debug().Str("file", p).Msg("skipping file without decoder")
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}

		clip, err := c.Add(p, Format(p), data)
		if err != nil {
			return err
		}
		clips = append(clips, clip)

		return nil
	})
	if err != nil {
		return clips, fmt.Errorf("load %s: %w", root, err)
	}

	return clips, nil
}

// LoadDir is LoadFS on a directory of the host file system.
func (c *Catalogue) LoadDir(dir string) ([]*Clip, error) {
	return c.LoadFS(os.DirFS(dir), ".")
}

// Clip implements sound.Catalogue.
func (c *Catalogue) Clip(id sound.SoundID) (sound.Clip, error) {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	clip, ok := c.clips[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", sound.ErrUnknownSound, id)
	}

	return clip, nil
}

// Lookup finds a clip by file or clip name.
func (c *Catalogue) Lookup(name string) (*Clip, error) {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	clip, ok := c.clips[HashID(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", sound.ErrUnknownSound, name)
	}

	return clip, nil
}

func (c *Catalogue) Len() int {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	return len(c.clips)
}

// Clips returns every clip sorted by name.
func (c *Catalogue) Clips() []*Clip {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	out := make([]*Clip, 0, len(c.clips))
	for _, clip := range c.clips {
		out = append(out, clip)
	}
	slices.SortFunc(out, func(a, b *Clip) int { return strings.Compare(a.name, b.name) })

	return out
}
