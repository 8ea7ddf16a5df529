package service

import "errors"

// Sentinel errors for prediction failures raised by the service itself.
var (
	// ErrPredictionPanic wraps a panic recovered from the predictor.
	ErrPredictionPanic = errors.New("prediction panicked")
	// ErrNoPredictor means the service was built without a model.
	ErrNoPredictor = errors.New("no model loaded")
)
