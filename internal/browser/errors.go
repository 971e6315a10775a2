package browser

import "github.com/genomenotebook/genomenotebook/internal/viewport"

// ConfigurationError reports browser options that cannot produce a browser.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid browser configuration: " + e.Reason
}

// WarningKind classifies a recoverable data problem.
type WarningKind string

// Warning kinds.
const (
	SequenceUnavailable WarningKind = "sequence_unavailable"
	SeqIDNotFound       WarningKind = "seq_id_not_found"
	PositionOutOfBounds WarningKind = WarningKind(viewport.PositionOutOfBounds)
	WindowTooLarge      WarningKind = WarningKind(viewport.WindowTooLarge)
)

// Warning is a problem the browser worked around by substituting a default.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Message string      `json:"message"`
}

func (w Warning) String() string {
	return string(w.Kind) + ": " + w.Message
}
