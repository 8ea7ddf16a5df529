package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/okian/perfscore/internal/adapters/artifact"
	"github.com/okian/perfscore/internal/config"
	"github.com/okian/perfscore/pkg/logger"
	"github.com/okian/perfscore/pkg/metrics"
	"github.com/spf13/cobra"
)

// rootFlags are shared by every subcommand.
type rootFlags struct {
	configFile string
	modelPath  string
}

// exitError carries a specific exit status. Reported errors were already
// written to stderr.
type exitError struct {
	code     int
	err      error
	reported bool
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func reportError(stderr io.Writer, err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		if !ee.reported && ee.err != nil {
			_, _ = fmt.Fprintln(stderr, color.RedString("Error: %v", ee.err))
		}
		return ee.code
	}
	_, _ = fmt.Fprintln(stderr, color.RedString("Error: %v", err))
	return 1
}

// newRootCmd builds the command tree. Without a subcommand it serves the form.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:                "perfscore",
		Short:              "Predict employee performance scores with a pre-trained model.",
		Long:               `perfscore serves a form that scores five employee metrics with a pre-trained regression model.`,
		SilenceErrors:      true,
		SilenceUsage:       true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), flags, stdout, stderr)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&flags.configFile, "config", "", "YAML config file (also PERFSCORE_CONFIG)")
	root.PersistentFlags().StringVar(&flags.modelPath, "model", "", "model artifact path (overrides model_path)")

	root.AddCommand(newServeCmd(flags, stdout, stderr))
	root.AddCommand(newPredictCmd(flags, stdout, stderr))
	root.AddCommand(newSmokeCmd(flags, stdout, stderr))
	return root
}

// loadConfig resolves the configuration and applies command-line overrides.
func loadConfig(ctx context.Context, flags *rootFlags) (*config.Config, error) {
	cfg, err := config.Load(ctx, flags.configFile)
	if err != nil {
		return nil, &exitError{code: 1, err: fmt.Errorf("failed to load config: %w", err)}
	}
	if flags.modelPath != "" {
		cfg.ModelPath = flags.modelPath
	}
	return cfg, nil
}

// initLogging initializes the global logger from cfg, defaulting to out.
func initLogging(cfg *config.Config, out io.Writer) error {
	opts := []logger.Option{logger.WithFormat(cfg.LogFormat), logger.WithOutput(out)}
	if cfg.LogFile != "" {
		opts = append(opts, logger.WithFile(logger.FileConfig{
			Path:       cfg.LogFile,
			MaxSizeMB:  cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
			MaxAgeDays: cfg.LogMaxAgeDays,
		}))
	}
	if err := logger.Init(opts...); err != nil {
		return &exitError{code: 1, err: fmt.Errorf("failed to initialize logging: %w", err)}
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(context.Background(), "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return nil
}

// loadModel loads the artifact once. A missing artifact is reported in red
// on stderr before any surface starts.
func loadModel(ctx context.Context, cfg *config.Config, stderr io.Writer) (*artifact.Model, error) {
	log := logger.Named("loader")

	m, err := artifact.Load(ctx, cfg.ModelPath)
	switch {
	case errors.Is(err, artifact.ErrArtifactMissing):
		log.Error(ctx, "model artifact missing", logger.String("path", cfg.ModelPath), logger.Error(err))
		_, _ = fmt.Fprintln(stderr, color.RedString("%s", artifact.MissingMessage(cfg.ModelPath)))
		return nil, &exitError{code: 1, err: err, reported: true}
	case err != nil:
		log.Error(ctx, "model artifact unusable", logger.String("path", cfg.ModelPath), logger.Error(err))
		return nil, &exitError{code: 1, err: err}
	}

	info := m.Info()
	metrics.SetModelInfo(info.Estimator, info.CanPredict)
	log.Info(ctx, "model loaded",
		logger.String("path", info.Path),
		logger.String("estimator", info.Estimator),
		logger.Any("can_predict", info.CanPredict),
	)
	if !info.CanPredict {
		log.Warn(ctx, "model has no predict operation; every submission will fail",
			logger.String("estimator", info.Estimator))
	}
	return m, nil
}
