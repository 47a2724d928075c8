// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ik5/audmgr/catalogue"
	"github.com/ik5/audmgr/config"
)

// app holds what the root command resolves for its subcommands.
type app struct {
	configPath string
	logLevel   string

	cfg config.Config
	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "audmgr",
		Short:        "Inspect, render and play sound clips",
		Long:         `audmgr loads clips into a catalogue and plays them through the pooled audio manager, or renders them offline to WAV.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override the configured log level")

	root.AddCommand(
		newInfoCmd(a),
		newPresetsCmd(a),
		newConfigCmd(a),
		newRenderCmd(a),
		newPlayCmd(a),
	)

	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg := config.Default()
	if a.configPath != "" {
		var err error
		if cfg, err = config.Load(a.configPath); err != nil {
			return err
		}
	}

	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	var w io.Writer = cmd.ErrOrStderr()
	if cfg.Log.Console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	a.cfg = cfg
	a.log = zerolog.New(w).Level(cfg.LogLevel()).With().Timestamp().Logger()

	return nil
}

// catalogue loads the configured sounds followed by paths. Paths that are
// not files are looked up by clip name.
func (a *app) catalogue(paths []string) (*catalogue.Catalogue, []*catalogue.Clip, error) {
	cat := catalogue.New(catalogue.WithLogger(a.log))

	if dir := a.cfg.Sounds.Dir; dir != "" {
		if _, err := cat.LoadDir(dir); err != nil {
			return nil, nil, err
		}
	}
	for _, f := range a.cfg.Sounds.Files {
		if _, err := cat.LoadFile(f); err != nil {
			return nil, nil, err
		}
	}

	clips := make([]*catalogue.Clip, 0, len(paths))
	for _, p := range paths {
		if clip, err := cat.Lookup(p); err == nil {
			clips = append(clips, clip)
			continue
		}

		if _, err := os.Stat(p); err != nil {
			return nil, nil, fmt.Errorf("no clip or file named %q", p)
		}

		clip, err := cat.LoadFile(p)
		if err != nil {
			return nil, nil, err
		}
		clips = append(clips, clip)
	}

	return cat, clips, nil
}
