package report

import "sync"

// Reporter is responsible for reporting errors, warnings, and other kinds of
// messages to the user during program execution.  The reporter respects the
// set log level and is synchronized: its methods can be safely called from
// multiple goroutines (the validator tasks report concurrently).
type Reporter struct {
	// The mutex used to synchronize display calls.
	m *sync.Mutex

	// The selected log level of the reporter.  This must be one of the
	// enumerated log levels below.
	logLevel int

	// Indicates whether or not an error has been detected.
	isErr bool
}

// Enumeration of the different possible log levels.
const (
	LogLevelSilent  = iota // Displays no output.
	LogLevelError          // Displays only errors to the user.
	LogLevelWarn           // Displays only warnings and errors to the user.
	LogLevelVerbose        // Displays all pipeline messages to the user (default).
)

// rep is the global reporter instance.
var rep *Reporter

// InitReporter initializes the global reporter to the given log level.  If
// the reporter has already been initialized, this function does nothing.
func InitReporter(logLevel int) {
	if rep == nil {
		rep = &Reporter{
			m:        &sync.Mutex{},
			logLevel: logLevel,
			isErr:    false,
		}
	}
}

// LogLevelFromName converts a log level name from the command line into one of
// the enumerated log levels.  Unknown names select the verbose level.
func LogLevelFromName(name string) int {
	switch name {
	case "silent":
		return LogLevelSilent
	case "error":
		return LogLevelError
	case "warn":
		return LogLevelWarn
	default:
		return LogLevelVerbose
	}
}

// ShouldProceed indicates whether or not an error has been reported.
func ShouldProceed() bool {
	return rep == nil || !rep.isErr
}
