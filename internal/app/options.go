package service

import (
	"github.com/okian/perfscore/internal/adapters/cache"
	"github.com/okian/perfscore/internal/domain/scoring"
	"github.com/okian/perfscore/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithPredictor sets the loaded model.
func WithPredictor(p scoring.Predictor) Option {
	return func(s *Service) {
		s.predictor = p
	}
}

// WithMemo replaces the prediction memo.
func WithMemo(m cache.Memo) Option {
	return func(s *Service) {
		if m != nil {
			s.memo = m
		}
	}
}

// WithCacheSize sizes the default LRU memo. Sizes <= 0 disable memoization.
func WithCacheSize(size int) Option {
	return func(s *Service) {
		s.memo = cache.NewLRU(cache.WithMaxSize(size))
	}
}

// WithFormatter sets how scores are displayed.
func WithFormatter(f *scoring.Formatter) Option {
	return func(s *Service) {
		if f != nil {
			s.formatter = f
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
