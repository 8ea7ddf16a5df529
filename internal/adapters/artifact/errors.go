package artifact

import "errors"

// Sentinel error kinds for artifact loading. Both are fatal at startup.
var (
	ErrArtifactMissing = errors.New("model artifact not found")
	ErrArtifactCorrupt = errors.New("model artifact corrupt")
)
