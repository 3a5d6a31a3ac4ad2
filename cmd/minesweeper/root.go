package main

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vancomm/minesweeper-engine/internal/config"
	"github.com/vancomm/minesweeper-engine/internal/game"
	"github.com/vancomm/minesweeper-engine/internal/logging"
	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/random"
	"github.com/vancomm/minesweeper-engine/internal/terminal"
)

type rootOptions struct {
	configPath string
	verbose    bool
	board      string
	seed       uint64
}

func (o *rootOptions) load(v *viper.Viper, stderr io.Writer) (*config.App, *logrus.Logger, error) {
	cfg, err := config.Load(v, o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if o.verbose {
		cfg.Log.Level = logrus.DebugLevel.String()
	}

	log, err := logging.New(stderr, cfg.Log, cfg.Development)
	if err != nil {
		return nil, nil, err
	}
	log.WithFields(cfg.Fields()).Debug("config")

	return cfg, log, nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	v := config.NewViper()

	rootCmd := &cobra.Command{
		Use:   "minesweeper",
		Short: "Play minesweeper in the terminal",
		Long: `minesweeper plays a game in the terminal, reading commands from stdin.

Settings come from the config file, MINES_* environment variables and flags,
in increasing order of precedence.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load(v, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			params := cfg.Game.Params()
			if opts.board != "" {
				p, err := mines.ParseSeed(opts.board)
				if err != nil {
					return err
				}
				params = *p
			}

			var rng random.Source = random.NewPCG()
			if cmd.Flags().Changed("seed") {
				rng = random.NewSeeded(opts.seed, opts.seed)
			}

			session, err := game.NewSession("local", params, rng, time.Now())
			if err != nil {
				return err
			}

			status, err := terminal.New(cmd.InOrStdin(), cmd.OutOrStdout(), log).Play(session)
			log.WithField("status", status).Debug("game finished")
			return err
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")

	flags := rootCmd.Flags()
	flags.Int("width", 0, "board width (env: MINES_GAME_WIDTH)")
	flags.Int("height", 0, "board height (env: MINES_GAME_HEIGHT)")
	flags.Int("mines", 0, "number of mines (env: MINES_GAME_MINE_COUNT)")
	v.BindPFlag("game.width", flags.Lookup("width"))
	v.BindPFlag("game.height", flags.Lookup("height"))
	v.BindPFlag("game.mine_count", flags.Lookup("mines"))
	flags.StringVar(&opts.board, "board", "", "board as W:H:M, overrides --width, --height and --mines")
	flags.Uint64Var(&opts.seed, "seed", 0, "seed for a reproducible board")

	rootCmd.AddCommand(newServeCmd(v, opts))

	return rootCmd
}
