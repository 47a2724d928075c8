// SPDX-License-Identifier: EPL-2.0

// Package audmgr is a pooled audio playback manager for games and other
// interactive programs.
//
// A single sound.Manager owns every playback channel. Channels are grouped
// by preset (dry, filtered and ambient post-processing chains), grow on
// demand and are reused once their clip ends. Volumes resolve through a
// global bus and one bus per category, so changing either updates every
// playing channel at once.
//
// # Quick Start
//
// Load clips into a catalogue, open an audio device and start the
// process-wide manager:
//
//	cat := catalogue.New()
//	if _, err := cat.LoadDir("sounds"); err != nil {
//		return err
//	}
//
//	backend, err := otoplay.New()
//	if err != nil {
//		return err
//	}
//
//	audmgr.EnsureInitialized(cat, sound.WithBackend(backend))
//	go audmgr.Run(ctx, 0)
//
//	audmgr.PlaySound(sound.NewRequest(catalogue.HashID("click")).WithPitchRange(0.9, 1.1))
//	audmgr.PlayMusic(sound.NewRequest(catalogue.HashID("theme")))
//
// The manager only advances fades and completion countdowns when ticked,
// either by Run or by calling Tick from an existing frame loop.
//
// # Packages
//
//   - sound: manager, channels, pool, mixer and requests
//   - catalogue: clip store keyed by normalised name hash
//   - otoplay: speaker backend built on oto
//   - effects: per-channel reverb and filter chains
//   - config: YAML settings
//   - audio: sources, resampling and channel mapping
//   - formats/wav, formats/mp3, formats/vorbis, formats/aiff: decoders
//
// # Offline Rendering
//
// Render runs a source through the same resample, channel mapping and
// effects stages a voice uses and returns 16-bit PCM, which is handy for
// baking clips or checking a preset:
//
//	pcm, err := audmgr.Render(src, audmgr.RenderOptions{SampleRate: 8000, Channels: 1})
//	if err != nil {
//		return err
//	}
//	wav.WriteWAV16(out, 8000, pcm)
package audmgr
