package smoketest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/okian/perfscore/internal/domain/model"
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body.
func (c *HTTPClient) Post(ctx context.Context, url string, body any) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// submitCases posts every case config.Repeats times using a worker pool.
func submitCases(ctx context.Context, config *Config, cases []Case) []result {
	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/api/predict"

	type job struct{ index int }
	jobs := make(chan job, config.Workers*2)
	out := make(chan result, config.Workers*2)

	var wg sync.WaitGroup
	for range config.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				out <- submitOne(ctx, client, url, j.index, cases[j.index].Record)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for range config.Repeats {
			for i := range cases {
				select {
				case <-ctx.Done():
					return
				case jobs <- job{index: i}:
				}
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	results := make([]result, 0, len(cases)*config.Repeats)
	for r := range out {
		results = append(results, r)
	}
	return results
}

// submitOne posts a single record.
func submitOne(ctx context.Context, client *HTTPClient, url string, index int, rec model.Record) result {
	r := result{caseIndex: index}
	resp, err := client.Post(ctx, url, rec)
	if err != nil {
		r.err = err
		return r
	}
	defer func() { _ = resp.Body.Close() }()

	r.status = resp.StatusCode
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		r.err = err
		return r
	}
	if err := json.Unmarshal(data, &r.body); err != nil {
		r.err = fmt.Errorf("decode %d response: %w", resp.StatusCode, err)
	}
	return r
}
