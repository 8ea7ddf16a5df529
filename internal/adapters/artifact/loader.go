// Package artifact loads the serialized performance model produced by the
// external training process.
//
// The artifact is read exactly once at startup. A missing file is reported
// as ErrArtifactMissing; anything that cannot be decoded into a usable model
// is reported as ErrArtifactCorrupt. An artifact naming an estimator this
// package does not know how to evaluate still loads, but every prediction
// against it fails with scoring.ErrCapability.
package artifact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// Load reads and decodes the artifact at path.
func Load(ctx context.Context, path string) (*Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", ErrArtifactMissing, path, err)
		}
		return nil, fmt.Errorf("%w: read %s: %w", ErrArtifactCorrupt, path, err)
	}

	var doc document
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrArtifactCorrupt, path, err)
	}
	if err := doc.validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrArtifactCorrupt, path, err)
	}

	return newModel(path, &doc, time.Now()), nil
}

// MissingMessage is the user-facing text shown when the artifact is absent.
func MissingMessage(path string) string {
	return fmt.Sprintf("Model file '%s' not found. Please ensure the model is saved correctly.", path)
}
