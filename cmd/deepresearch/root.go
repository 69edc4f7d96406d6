package main

import (
	"io"

	"github.com/mohammad-safakhou/deepresearch/config"
	"github.com/mohammad-safakhou/deepresearch/internal/logger"
	"github.com/mohammad-safakhou/deepresearch/internal/research"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries what every subcommand shares once the root has loaded config.
type app struct {
	cfgPath  string
	logLevel string

	in  io.Reader
	out io.Writer

	cfg    *config.Config
	logger *zap.Logger

	newPipeline func(*config.Config, *zap.Logger) (*research.Pipeline, error)
}

func newApp(in io.Reader, out io.Writer) *app {
	return &app{in: in, out: out, newPipeline: research.NewPipeline}
}

func newRootCmd(a *app) *cobra.Command {
	rc := researchCMD(a)
	root := &cobra.Command{
		Use:           "deepresearch [topic]",
		Short:         "Research a topic on the web and synthesize an answer",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE:          rc.RunE,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", "", "config file (default searches ./config and .)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override general.log_level")
	root.Flags().AddFlagSet(rc.Flags())
	root.SetIn(a.in)
	root.SetOut(a.out)

	root.AddCommand(rc, serveCMD(a), tokenCMD(a))
	return root
}

func (a *app) load() error {
	cfg, err := config.LoadConfig(a.cfgPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.General.LogLevel = a.logLevel
	}
	log, err := logger.New(cfg.General.LogLevel, cfg.General.Debug)
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(log)
	a.cfg = cfg
	a.logger = log
	return nil
}
