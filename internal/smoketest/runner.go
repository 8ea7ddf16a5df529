package smoketest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/okian/perfscore/pkg/logger"
	"github.com/olekukonko/tablewriter"
)

// Run executes the complete smoke test and prints a summary table to w.
func Run(ctx context.Context, config *Config, w io.Writer) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	if err := config.validate(); err != nil {
		return stats, err
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.Repeats < 1 {
		config.Repeats = 1
	}

	logger.Get().Info(ctx, "starting perfscore smoke test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("records", config.NumRecords),
		logger.Int("repeats", config.Repeats),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate records
	cases := generateCases(ctx, config, stats)

	// Step 3: Submit records concurrently
	results := submitCases(ctx, config, cases)

	// Step 4: Verify answers
	verifyErr := verifyResults(ctx, cases, results, stats)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	if err := displayFinalStats(w, stats); err != nil {
		return stats, err
	}
	if verifyErr != nil {
		return stats, fmt.Errorf("result verification failed: %w", verifyErr)
	}
	if err := ctx.Err(); err != nil {
		return stats, err
	}

	logger.Get().Info(ctx, "smoke test completed successfully")
	return stats, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	client := newHTTPClient(config.Timeout)

	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	return nil
}

// displayFinalStats prints the run statistics as a table.
func displayFinalStats(w io.Writer, stats *Stats) error {
	var perSecond float64
	if stats.Duration > 0 {
		perSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Value"})
	data := [][]string{
		{"Generated", strconv.Itoa(stats.Generated)},
		{"Submitted", strconv.Itoa(stats.Submitted)},
		{"Completed", strconv.Itoa(stats.Completed)},
		{"Rejected", strconv.Itoa(stats.Rejected)},
		{"Failed", strconv.Itoa(stats.Failed)},
		{"Rate limited", strconv.Itoa(stats.RateLimited)},
		{"Transport errors", strconv.Itoa(stats.Transport)},
		{"Inconsistent", strconv.Itoa(stats.Inconsistent)},
		{"Duration", stats.Duration.Round(time.Millisecond).String()},
		{"Requests/s", strconv.FormatFloat(perSecond, 'f', 1, 64)},
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
