package artifacts

import "errors"

// Sentinel error kinds for artifact decoding. Load additionally tags every
// failure with failure.ErrEncoderArtifactMissing or failure.ErrModelArtifactMissing.
var (
	ErrUnsupportedKind = errors.New("unsupported artifact kind")
	ErrInvalidArtifact = errors.New("invalid artifact")
)
