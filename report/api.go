package report

import (
	"fmt"
	"os"
	"time"
)

// NOTE: All report functions will only display if the appropriate log level is
// set.  Most report functions simply fail silently below their log level.

// ReportFatal reports a fatal error and exits the program.
func ReportFatal(msg string, args ...interface{}) {
	InitReporter(LogLevelVerbose)

	rep.m.Lock()
	rep.isErr = true

	if rep.logLevel >= LogLevelError {
		displayFatal(fmt.Sprintf(msg, args...))
	}

	rep.m.Unlock()
	os.Exit(1)
}

// ReportError reports a non-fatal error with a kind tag (eg. "Input",
// "Emission").
func ReportError(kind, msg string, args ...interface{}) {
	if rep == nil {
		return
	}

	rep.m.Lock()
	defer rep.m.Unlock()

	rep.isErr = true

	if rep.logLevel >= LogLevelError {
		displayError(kind, fmt.Sprintf(msg, args...))
	}
}

// ReportWarning reports a warning.
func ReportWarning(msg string, args ...interface{}) {
	if rep == nil {
		return
	}

	rep.m.Lock()
	defer rep.m.Unlock()

	if rep.logLevel >= LogLevelWarn {
		displayWarning(fmt.Sprintf(msg, args...))
	}
}

// DisplayInfoMessage displays a tagged informational message regardless of
// errors so far (but respecting the silent level).
func DisplayInfoMessage(tag, msg string) {
	if rep == nil {
		return
	}

	rep.m.Lock()
	defer rep.m.Unlock()

	if rep.logLevel > LogLevelSilent {
		displayInfoMessage(tag, msg)
	}
}

// -----------------------------------------------------------------------------
// Below are the "aesthetic" reporting functions that only run at the verbose
// log level.  They narrate the pipeline's progress to make the tool friendly.

// LogPhase reports a pipeline state transition.
func LogPhase(phase string) {
	if rep == nil {
		return
	}

	rep.m.Lock()
	defer rep.m.Unlock()

	if rep.logLevel == LogLevelVerbose {
		displayPhase(phase)
	}
}

// LogTargetResult reports one target's emission/validation outcome line.
func LogTargetResult(target, outcome, diagnostic string, elapsed time.Duration, failed bool) {
	if rep == nil {
		return
	}

	rep.m.Lock()
	defer rep.m.Unlock()

	if failed {
		rep.isErr = true
	}

	if rep.logLevel == LogLevelVerbose {
		displayTargetResult(target, outcome, diagnostic, elapsed, failed)
	}
}

// LogRunFinished reports the concluding message of a pipeline run.
func LogRunFinished(funcName string, failedCount int, elapsed time.Duration) {
	if rep == nil {
		return
	}

	rep.m.Lock()
	defer rep.m.Unlock()

	if rep.logLevel == LogLevelVerbose {
		displayRunFinished(funcName, failedCount, elapsed)
	}
}
