package report

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = SuccessColorFG
	InfoStyleBG    = SuccessStyleBG
	SkipColorFG    = pterm.FgGray
)

// displayFatal displays a fatal error message.
func displayFatal(message string) {
	ErrorStyleBG.Print("Fatal Error")
	ErrorColorFG.Println(" " + message)
}

// displayError displays a non-fatal error message with a kind tag.
func displayError(kind, message string) {
	ErrorStyleBG.Print(kind + " Error")
	ErrorColorFG.Println(" " + message)
}

// displayWarning displays a warning message.
func displayWarning(message string) {
	WarnStyleBG.Print("Warning")
	WarnColorFG.Println(" " + message)
}

// displayInfoMessage displays a tagged informational message.
func displayInfoMessage(tag, message string) {
	InfoStyleBG.Print(tag)
	InfoColorFG.Println(" " + message)
}

// displayPhase displays a pipeline phase transition.
func displayPhase(phase string) {
	fmt.Print("-- ")
	InfoColorFG.Println(phase)
}

// displayTargetResult displays one target's outcome line.  Passing targets
// "stand"; failing ones "shatter".
func displayTargetResult(target, outcome, diagnostic string, elapsed time.Duration, failed bool) {
	switch {
	case failed:
		ErrorStyleBG.Print(" ✗ ")
	case outcome == "Skipped":
		pterm.NewStyle(pterm.BgGray, pterm.FgWhite).Print(" - ")
	default:
		SuccessStyleBG.Print(" ✓ ")
	}

	fmt.Printf(" %-10s  %-13s  %s", target, outcome, elapsed.Round(time.Millisecond))

	if diagnostic != "" {
		fmt.Print("  ")
		if failed {
			ErrorColorFG.Print(diagnostic)
		} else {
			SkipColorFG.Print(diagnostic)
		}
	}

	fmt.Println()
}

// displayRunFinished displays the concluding line of a pipeline run.
func displayRunFinished(funcName string, failedCount int, elapsed time.Duration) {
	fmt.Println()

	if failedCount == 0 {
		SuccessStyleBG.Print("Transmutation Complete")
		SuccessColorFG.Printf(" `%s` survived every window (%s)\n", funcName, elapsed.Round(time.Millisecond))
	} else {
		ErrorStyleBG.Print("Transmutation Incomplete")
		ErrorColorFG.Printf(" %d window(s) shattered for `%s` (%s)\n", failedCount, funcName, elapsed.Round(time.Millisecond))
	}
}
