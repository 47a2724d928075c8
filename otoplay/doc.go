// SPDX-License-Identifier: EPL-2.0

// Package otoplay plays sound manager channels on the system audio device
// through github.com/ebitengine/oto/v3.
//
// Each voice owns one oto player fed by a stream that decodes its clip,
// resamples it to the device rate at the voice pitch, maps it to the
// device channel layout, runs the preset's effects chain and writes signed
// 16-bit PCM. Volume and distance attenuation go through the player
// volume; the left/right balance is applied in the stream.
//
//	backend, err := otoplay.New(otoplay.WithLogger(log))
//	if err != nil {
//	    return err
//	}
//	m := sound.New(cat, sound.WithBackend(backend))
//
// Clips must implement Opener. *catalogue.Clip does.
package otoplay
