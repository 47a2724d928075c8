// SPDX-License-Identifier: EPL-2.0

package otoplay

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/rs/zerolog"

	"github.com/ik5/audmgr/sound"
)

const (
	DefaultSampleRate = 48000
	DefaultChannels   = 2
)

// player is the part of *oto.Player a voice drives.
type player interface {
	Play()
	Pause()
	IsPlaying() bool
	SetVolume(v float64)
	Err() error
	Close() error
}

type options struct {
	sampleRate int
	channels   int
	bufferSize time.Duration
	log        zerolog.Logger
}

type Option func(*options)

func WithSampleRate(rate int) Option {
	return func(o *options) { o.sampleRate = rate }
}

func WithChannels(n int) Option {
	return func(o *options) { o.channels = n }
}

// WithBufferSize sets the device buffer length. Zero lets oto choose.
func WithBufferSize(d time.Duration) Option {
	return func(o *options) { o.bufferSize = d }
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// Backend is a sound.Backend that renders every voice through its own oto
// player. All players share one oto context, which mixes them.
type Backend struct {
	sampleRate int
	channels   int
	newPlayer  func(io.Reader) player
	log        zerolog.Logger

	mu       sync.Mutex
	listener sound.Vec3
	voices   []*Voice
}

// New opens the audio device. oto allows a single context per process, so
// New must only be called once.
func New(opts ...Option) (*Backend, error) {
	o := defaults(opts)
	if o.sampleRate <= 0 || o.channels <= 0 {
		return nil, fmt.Errorf("%w: %d Hz × %d", ErrInvalidFormat, o.sampleRate, o.channels)
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   o.sampleRate,
		ChannelCount: o.channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   o.bufferSize,
	})
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}
	<-ready

	o.log.Debug().
		Int("sample_rate", o.sampleRate).
		Int("channels", o.channels).
		Msg("audio device ready")

	return newBackend(o, func(r io.Reader) player { return ctx.NewPlayer(r) }), nil
}

func defaults(opts []Option) options {
	o := options{
		sampleRate: DefaultSampleRate,
		channels:   DefaultChannels,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

func newBackend(o options, newPlayer func(io.Reader) player) *Backend {
	return &Backend{
		sampleRate: o.sampleRate,
		channels:   o.channels,
		newPlayer:  newPlayer,
		log:        o.log,
	}
}

func (b *Backend) SampleRate() int { return b.sampleRate }
func (b *Backend) Channels() int   { return b.channels }

// NewVoice implements sound.Backend. The effects chain is built on the
// first Start so a broken template surfaces as a start failure.
func (b *Backend) NewVoice(preset sound.Preset, tmpl sound.ChainTemplate) sound.Voice {
	v := &Voice{
		backend: b,
		preset:  preset,
		tmpl:    tmpl,
		volume:  1,
	}

	b.mu.Lock()
	b.voices = append(b.voices, v)
	b.mu.Unlock()

	return v
}

// SetListener implements sound.Backend and re-applies the distance gain of
// every voice.
func (b *Backend) SetListener(pos sound.Vec3) {
	b.mu.Lock()
	b.listener = pos
	voices := append([]*Voice(nil), b.voices...)
	b.mu.Unlock()

	for _, v := range voices {
		v.apply()
	}
}

func (b *Backend) Listener() sound.Vec3 {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.listener
}
