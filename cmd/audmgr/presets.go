// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ik5/audmgr/sound"
)

func newPresetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List channel presets and their effect chains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			presets, err := a.cfg.PresetRegistry()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, p := range sound.AllPresets() {
				fmt.Fprintf(out, "  %-8s  %s\n", p, describe(presets.Template(p)))
			}

			return nil
		},
	}
}

func describe(t sound.ChainTemplate) string {
	if t.Dry() {
		return "dry"
	}

	var parts []string
	if t.HighpassHz > 0 {
		parts = append(parts, fmt.Sprintf("highpass %gHz", t.HighpassHz))
	}
	if t.LowpassHz > 0 {
		parts = append(parts, fmt.Sprintf("lowpass %gHz", t.LowpassHz))
	}
	if r := t.Reverb; r != nil {
		parts = append(parts, fmt.Sprintf("reverb wet %g dry %g rt60 %s damp %g", r.Wet, r.Dry, r.RT60, r.Damp))
		if r.PreDelay > 0 {
			parts = append(parts, fmt.Sprintf("pre-delay %s", r.PreDelay))
		}
	}

	return strings.Join(parts, ", ")
}
