package domain

// LogLevel controls the depth of the native connector's own file logging
// (XDF*.log, DSP*.txt, TS*.log in the configured log directory).
type LogLevel int

const (
	// LogMinimum keeps connector logs small.
	LogMinimum LogLevel = 1
	// LogDefault is the connector's standard depth.
	LogDefault LogLevel = 2
	// LogMaximum enables full connector tracing.
	LogMaximum LogLevel = 3
)

// ParseLogLevel maps a numeric value onto a LogLevel, falling back to
// LogDefault for anything out of range.
func ParseLogLevel(v int) LogLevel {
	switch v {
	case 1:
		return LogMinimum
	case 3:
		return LogMaximum
	default:
		return LogDefault
	}
}

func (l LogLevel) String() string {
	switch l {
	case LogMinimum:
		return "minimum"
	case LogMaximum:
		return "maximum"
	default:
		return "default"
	}
}
