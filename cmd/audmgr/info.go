// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>...",
		Short: "Show format, length and id of clips",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, clips, err := a.catalogue(args)
			if err != nil {
				return err
			}

			maxLen := 0
			for _, clip := range clips {
				maxLen = max(maxLen, len(clip.Name()))
			}

			out := cmd.OutOrStdout()
			for _, clip := range clips {
				src, err := clip.Open()
				if err != nil {
					return fmt.Errorf("open %s: %w", clip.Name(), err)
				}
				rate, channels := src.SampleRate(), src.Channels()
				_ = src.Close()

				fmt.Fprintf(out, "%-*s  %-4s  %6d Hz  %d ch  %9s  id %d\n",
					maxLen, clip.Name(), clip.Format(), rate, channels,
					clip.Duration().Round(time.Millisecond), uint32(clip.ID()))
			}

			return nil
		},
	}
}
