package main

import (
	"io"
	"runtime"
	"time"

	"github.com/okian/perfscore/internal/config"
	"github.com/okian/perfscore/internal/smoketest"
	"github.com/okian/perfscore/pkg/logger"
	"github.com/spf13/cobra"
)

func newSmokeCmd(flags *rootFlags, stdout, stderr io.Writer) *cobra.Command {
	cfg := &smoketest.Config{}

	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Submit random records to a running service and check its answers.",
		Long: `Generate random records, submit each one several times to POST /api/predict
and verify that repeats agree and that zeroed required fields are rejected.

Examples:
  perfscore smoke --url http://localhost:8501 --records 500 --workers 16`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			appCfg, cfgErr := loadConfig(ctx, flags)
			if cfgErr != nil {
				appCfg = config.New()
			}
			if err := initLogging(appCfg, stderr); err != nil {
				return err
			}
			if cfgErr != nil {
				logger.Get().Warn(ctx, "failed to load config; using defaults", logger.Error(cfgErr))
			}
			if _, err := smoketest.Run(ctx, cfg, stdout); err != nil {
				return &exitError{code: 1, err: err}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.BaseURL, "url", "http://localhost:8501", "base URL of the service")
	f.IntVar(&cfg.NumRecords, "records", 200, "number of distinct records")
	f.IntVar(&cfg.Repeats, "repeats", 2, "submissions per record")
	f.IntVar(&cfg.Workers, "workers", runtime.NumCPU()*2, "concurrent workers")
	f.DurationVar(&cfg.Timeout, "timeout", 30*time.Second, "HTTP request timeout")
	f.Float64Var(&cfg.InvalidRate, "invalid-rate", 0.2, "share of records with a zeroed required field")
	return cmd
}
