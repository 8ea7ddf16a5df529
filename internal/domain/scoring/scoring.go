// Package scoring defines the prediction capability and how its scores are presented.
package scoring

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/okian/perfscore/internal/domain/model"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Sentinel errors returned by predictors.
var (
	// ErrCapability means the loaded model cannot produce predictions.
	ErrCapability = errors.New("model does not support prediction")
	// ErrFeatureMismatch means the record columns do not match the model's features.
	ErrFeatureMismatch = errors.New("feature names mismatch")
)

// scorePrecision is the number of decimals shown to users.
const scorePrecision = 2

// Predictor scores a single record. Implementations must be safe for
// concurrent use and must not mutate state between calls.
type Predictor interface {
	// Predict returns the raw score for rec.
	Predict(ctx context.Context, rec model.Record) (float64, error)

	// Name identifies the underlying estimator.
	Name() string
}

// PredictorFunc adapts a function to the Predictor interface.
type PredictorFunc func(ctx context.Context, rec model.Record) (float64, error)

// Predict calls f.
func (f PredictorFunc) Predict(ctx context.Context, rec model.Record) (float64, error) {
	return f(ctx, rec)
}

// Name implements Predictor.
func (f PredictorFunc) Name() string { return "func" }

// Round rounds a raw score half away from zero to two decimals.
func Round(score float64) float64 {
	p := math.Pow10(scorePrecision)
	return math.Round(score*p) / p
}

// Formatter renders rounded scores for a display locale.
type Formatter struct {
	tag     language.Tag
	printer *message.Printer
}

// NewFormatter returns a Formatter for a BCP 47 locale such as "en" or "de-DE".
func NewFormatter(locale string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	return &Formatter{tag: tag, printer: message.NewPrinter(tag)}, nil
}

// Locale returns the formatter's language tag.
func (f *Formatter) Locale() string { return f.tag.String() }

// Percent formats score as a percentage with exactly two decimals. The
// locale picks the decimal mark; digits are never grouped.
func (f *Formatter) Percent(score float64) string {
	return f.printer.Sprintf("%v%%", number.Decimal(Round(score),
		number.Scale(scorePrecision), number.NoSeparator()))
}

// Message is the success text shown after a prediction.
func (f *Formatter) Message(score float64) string {
	return "Predicted Performance Score: " + f.Percent(score)
}
