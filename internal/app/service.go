// Package service implements the prediction form handler shared by the
// HTML form, the JSON API and the terminal.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okian/perfscore/internal/adapters/cache"
	"github.com/okian/perfscore/internal/domain/model"
	"github.com/okian/perfscore/internal/domain/scoring"
	"github.com/okian/perfscore/internal/domain/validation"
	"github.com/okian/perfscore/pkg/logger"
	"github.com/okian/perfscore/pkg/metrics"
)

// Submission sources, used to label metrics.
const (
	SourceForm   = "form"
	SourceAPI    = "api"
	SourceCLI    = "cli"
	sourceDirect = "direct"
)

const errorPrefix = "Error in prediction: "

type sourceKey struct{}

// WithSource tags ctx with the surface a submission came from.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, sourceKey{}, source)
}

func sourceFrom(ctx context.Context) string {
	if s, ok := ctx.Value(sourceKey{}).(string); ok && s != "" {
		return s
	}
	return sourceDirect
}

// Service validates submissions and scores them with the loaded model.
// The model is shared read-only; a Service is safe for concurrent use.
type Service struct {
	predictor scoring.Predictor
	memo      cache.Memo
	formatter *scoring.Formatter
	logger    logger.Logger

	completed atomic.Int64
	rejected  atomic.Int64
	failed    atomic.Int64
}

// New constructs a Service. Without WithPredictor every submission that
// passes validation fails with ErrNoPredictor.
func New(opts ...Option) *Service {
	s := &Service{}

	for _, opt := range opts {
		opt(s)
	}

	if s.memo == nil {
		s.memo = cache.NewLRU()
	}
	if s.formatter == nil {
		// "en" always parses.
		s.formatter, _ = scoring.NewFormatter("en")
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s
}

// SubmitForm decodes raw form text and submits the resulting record.
// Malformed or out-of-range input is rejected before the zero checks run.
func (s *Service) SubmitForm(ctx context.Context, get validation.Lookup) Outcome {
	rec, err := validation.Decode(get)
	if err != nil {
		return s.reject(ctx, uuid.NewString(), rec, err)
	}
	return s.Submit(ctx, rec)
}

// Submit runs one submission to completion: validate, predict, format.
// It never retries and never panics.
func (s *Service) Submit(ctx context.Context, rec model.Record) Outcome {
	id := uuid.NewString()

	if err := validation.Bounds(rec); err != nil {
		return s.reject(ctx, id, rec, err)
	}
	if err := validation.Validate(rec); err != nil {
		return s.reject(ctx, id, rec, err)
	}

	score, cached, err := s.score(ctx, rec)
	if err != nil {
		s.failed.Add(1)
		metrics.RecordSubmission(Failed.String(), sourceFrom(ctx))
		metrics.RecordPredictionError(errorKind(err))
		s.logger.Error(ctx, "prediction failed",
			logger.String("submission_id", id),
			logger.String("model", s.modelName()),
			logger.Error(err),
		)
		return Outcome{
			SubmissionID: id,
			State:        Failed,
			Record:       rec,
			Message:      errorPrefix + err.Error(),
			Err:          err,
		}
	}

	rounded := scoring.Round(score)
	s.completed.Add(1)
	metrics.RecordSubmission(Completed.String(), sourceFrom(ctx))
	s.logger.Info(ctx, "prediction completed",
		logger.String("submission_id", id),
		logger.Float64("score", rounded),
		logger.Any("cached", cached),
	)
	return Outcome{
		SubmissionID: id,
		State:        Completed,
		Record:       rec,
		Score:        rounded,
		Display:      s.formatter.Percent(score),
		Cached:       cached,
		Message:      s.formatter.Message(score),
	}
}

func (s *Service) reject(ctx context.Context, id string, rec model.Record, err error) Outcome {
	s.rejected.Add(1)
	metrics.RecordSubmission(Rejected.String(), sourceFrom(ctx))

	out := Outcome{SubmissionID: id, State: Rejected, Record: rec, Err: err, Message: err.Error()}
	var fe *validation.FieldError
	if errors.As(err, &fe) {
		out.Field = fe.Field
		out.Message = fe.Message()
		metrics.RecordValidationRejection(fe.Field.Key())
	}
	s.logger.Debug(ctx, "submission rejected",
		logger.String("submission_id", id),
		logger.Error(err),
	)
	return out
}

// score returns the raw prediction, consulting the memo first. Failures
// are never memoized.
func (s *Service) score(ctx context.Context, rec model.Record) (float64, bool, error) {
	if v, ok := s.memo.Get(ctx, rec); ok {
		metrics.RecordCacheLookup(true)
		return v, true, nil
	}
	metrics.RecordCacheLookup(false)

	start := time.Now()
	v, err := s.predict(ctx, rec)
	metrics.RecordPredictionLatency(float64(time.Since(start).Microseconds()) / 1000)
	if err != nil {
		return 0, false, err
	}
	s.memo.Put(ctx, rec, v)
	return v, false, nil
}

func (s *Service) predict(ctx context.Context, rec model.Record) (score float64, err error) {
	if s.predictor == nil {
		return 0, ErrNoPredictor
	}
	defer func() {
		if r := recover(); r != nil {
			score, err = 0, fmt.Errorf("%w: %v", ErrPredictionPanic, r)
		}
	}()
	return s.predictor.Predict(ctx, rec)
}

func (s *Service) modelName() string {
	if s.predictor == nil {
		return ""
	}
	return s.predictor.Name()
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, scoring.ErrCapability), errors.Is(err, ErrNoPredictor):
		return "capability"
	case errors.Is(err, scoring.ErrFeatureMismatch):
		return "feature_mismatch"
	case errors.Is(err, ErrPredictionPanic):
		return "panic"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "other"
	}
}

// Stats summarizes submissions since start.
type Stats struct {
	Model     string      `json:"model"`
	Locale    string      `json:"locale"`
	Completed int64       `json:"completed"`
	Rejected  int64       `json:"rejected"`
	Failed    int64       `json:"failed"`
	Cache     cache.Stats `json:"cache"`
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() Stats {
	return Stats{
		Model:     s.modelName(),
		Locale:    s.formatter.Locale(),
		Completed: s.completed.Load(),
		Rejected:  s.rejected.Load(),
		Failed:    s.failed.Load(),
		Cache:     s.memo.Stats(),
	}
}
