package main

import (
	"io"

	"github.com/okian/perfscore/internal/adapters/terminal"
	service "github.com/okian/perfscore/internal/app"
	"github.com/okian/perfscore/internal/domain/model"
	"github.com/spf13/cobra"
)

func newPredictCmd(flags *rootFlags, stdout, stderr io.Writer) *cobra.Command {
	var (
		rec    model.Record
		output string
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Score one employee from flags and print the result.",
		Long: `Load the model artifact and score a single record.

Tasks Completed, Task Completion Rate, Attendance Rate and Training Hours
must be non-zero. Leaves Taken may be zero.

Examples:
  perfscore predict --tasks-completed 10 --task-completion-rate 80 \
    --attendance-rate 95 --leaves-taken 0 --training-hours 5

  perfscore predict --output json --tasks-completed 10 ...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := terminal.CheckFormat(output); err != nil {
				return &exitError{code: 1, err: err}
			}
			ctx := cmd.Context()
			cfg, err := loadConfig(ctx, flags)
			if err != nil {
				return err
			}
			// Log lines go to stderr so stdout only carries the result.
			if err := initLogging(cfg, stderr); err != nil {
				return err
			}
			m, err := loadModel(ctx, cfg, stderr)
			if err != nil {
				return err
			}
			svc, err := newService(cfg, m)
			if err != nil {
				return err
			}

			out := svc.Submit(service.WithSource(ctx, service.SourceCLI), rec)
			if err := terminal.Write(stdout, out, output); err != nil {
				return err
			}
			if code := terminal.ExitCode(out); code != 0 {
				return &exitError{code: code, reported: true}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&rec.TasksCompleted, "tasks-completed", 0, "Tasks Completed")
	f.IntVar(&rec.TaskCompletionRate, "task-completion-rate", 0, "Task Completion Rate (%)")
	f.IntVar(&rec.AttendanceRate, "attendance-rate", 0, "Attendance Rate (%)")
	f.IntVar(&rec.LeavesTaken, "leaves-taken", 0, "Leaves Taken")
	f.IntVar(&rec.TrainingHours, "training-hours", 0, "Training Hours")
	f.StringVarP(&output, "output", "o", terminal.TableOut, "output format: table or json")
	return cmd
}
