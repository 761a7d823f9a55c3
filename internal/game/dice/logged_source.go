package dice

import "go.uber.org/zap"

// LoggedSource wraps a Source and logs every draw at debug level, giving an
// audit trail of the random values that decided a fight.
type LoggedSource struct {
	src    Source
	logger *zap.Logger
	label  string
}

// NewLoggedSource creates a LoggedSource that draws from src and logs each value
// to logger under the given label.
//
// Precondition: src and logger must be non-nil.
func NewLoggedSource(src Source, logger *zap.Logger, label string) *LoggedSource {
	return &LoggedSource{src: src, logger: logger, label: label}
}

// Float64 draws from the wrapped source and logs the value.
//
// Postcondition: returns exactly the wrapped source's value.
func (l *LoggedSource) Float64() float64 {
	v := l.src.Float64()
	l.logger.Debug("random draw",
		zap.String("source", l.label),
		zap.Float64("value", v),
	)
	return v
}
