// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ik5/audmgr"
	"github.com/ik5/audmgr/otoplay"
	"github.com/ik5/audmgr/sound"
)

type playFlags struct {
	volume   float64
	pitchMin float64
	pitchMax float64
	category string
	preset   string
	loop     bool
	fadeIn   time.Duration
	fadeOut  time.Duration
}

func newPlayCmd(a *app) *cobra.Command {
	var f playFlags

	cmd := &cobra.Command{
		Use:   "play <clip>...",
		Short: "Play clips one after another on the audio device",
		Long:  `Plays each clip in turn through the pooled manager. Arguments are file paths or names of clips loaded from the config. Interrupt stops playback with the configured fade out.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return a.play(ctx, args, f)
		},
	}

	cmd.Flags().Float64Var(&f.volume, "volume", 1, "per-call volume in [0,1]")
	cmd.Flags().Float64Var(&f.pitchMin, "pitch-min", 1, "lowest sampled pitch")
	cmd.Flags().Float64Var(&f.pitchMax, "pitch-max", 1, "highest sampled pitch")
	cmd.Flags().StringVar(&f.category, "category", sound.CategoryEffect.String(), "mixing category")
	cmd.Flags().StringVar(&f.preset, "preset", sound.PresetDefault.String(), "effect preset")
	cmd.Flags().BoolVar(&f.loop, "loop", false, "loop the last clip until interrupted")
	cmd.Flags().DurationVar(&f.fadeIn, "fade-in", 0, "fade in duration")
	cmd.Flags().DurationVar(&f.fadeOut, "fade-out", 250*time.Millisecond, "fade out on interrupt")

	return cmd
}

func (f playFlags) request(id sound.SoundID, last bool) (sound.Request, error) {
	cat, err := sound.ParseCategory(f.category)
	if err != nil {
		return sound.Request{}, err
	}
	preset, err := sound.ParsePreset(f.preset)
	if err != nil {
		return sound.Request{}, err
	}

	req := sound.NewRequest(id).WithPitchRange(f.pitchMin, f.pitchMax)
	req.Category = cat
	req.Preset = preset
	req.Volume = f.volume
	req.Loop = f.loop && last

	return req, req.Validate()
}

func (a *app) play(ctx context.Context, args []string, f playFlags) error {
	cat, clips, err := a.catalogue(args)
	if err != nil {
		return err
	}

	backend, err := otoplay.New(
		otoplay.WithSampleRate(a.cfg.Engine.SampleRate),
		otoplay.WithChannels(a.cfg.Engine.Channels),
		otoplay.WithBufferSize(a.cfg.Engine.Buffer),
		otoplay.WithLogger(a.log),
	)
	if err != nil {
		return err
	}

	opts, err := a.cfg.ManagerOptions()
	if err != nil {
		return err
	}
	opts = append(opts, sound.WithBackend(backend), sound.WithLogger(a.log))

	failed := make(chan error, 1)
	opts = append(opts, sound.WithEventSink(func(ev sound.Event) {
		if ev.Kind != sound.EventPlaybackFailed {
			return
		}
		select {
		case failed <- ev.Err:
		default:
		}
	}))

	mgr := audmgr.EnsureInitialized(cat, opts...)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() { _ = mgr.Run(runCtx, a.cfg.TickInterval()) }()

	for i, clip := range clips {
		req, err := f.request(clip.ID(), i == len(clips)-1)
		if err != nil {
			return err
		}

		ch, err := start(mgr, req)
		if err != nil {
			return err
		}
		if f.fadeIn > 0 {
			ch.FadeIn(f.fadeIn)
		}

		done := make(chan struct{})
		ch.OnComplete(func() { close(done) })
		if s := ch.State(); s == sound.StateFree || s == sound.StateFinished {
			continue
		}

		a.log.Info().
			Str("clip", clip.Name()).
			Dur("duration", clip.Duration()).
			Float64("pitch", ch.Pitch()).
			Bool("loop", req.Loop).
			Msg("playing")

		select {
		case <-done:
		case err := <-failed:
			return fmt.Errorf("playing %s: %w", clip.Name(), err)
		case <-ctx.Done():
			return a.drain(mgr, f.fadeOut)
		}
	}

	return nil
}

// start routes music and ambient requests through their single-occupant
// slots.
func start(mgr *sound.Manager, req sound.Request) (*sound.Channel, error) {
	switch req.Category {
	case sound.CategoryMusic:
		return mgr.PlayMusic(req)
	case sound.CategoryAmbient:
		return mgr.PlayAmbient(req)
	default:
		return mgr.Play(req)
	}
}

// drain fades everything out on a fresh tick loop after the caller's
// context ended.
func (a *app) drain(mgr *sound.Manager, fade time.Duration) error {
	mgr.StopAll(fade)
	if fade <= 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), fade+a.cfg.TickInterval()*2)
	defer cancel()

	if err := mgr.Run(ctx, a.cfg.TickInterval()); !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	a.log.Info().Msg("stopped")

	return nil
}
