package validate

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"polyglot/common"
)

// Outcome classifies the result of validating one target's emitted source.
type Outcome int

// Enumeration of the validation outcomes.
const (
	Compiled      Outcome = iota // toolchain accepted the source (and ran it, when applicable)
	CompileFailed                // toolchain rejected the source or timed out
	RuntimeFailed                // source compiled but raised a fault when executed
	Skipped                      // no validation attempted; see the diagnostic for the reason
)

// outcomeNames maps each outcome to its display name.
var outcomeNames = map[Outcome]string{
	Compiled:      "Compiled",
	CompileFailed: "CompileFailed",
	RuntimeFailed: "RuntimeFailed",
	Skipped:       "Skipped",
}

func (o Outcome) String() string {
	return outcomeNames[o]
}

// Result is the outcome of one validation run: the classification, the
// toolchain's stderr (or a skip reason), and how long validation took.
type Result struct {
	Outcome    Outcome
	Diagnostic string
	Elapsed    time.Duration
}

// Validator checks one target's emitted source text by invoking that target's
// toolchain in an isolated scratch directory.
type Validator interface {
	// Target returns the target this validator checks.
	Target() common.Target

	// Validate writes the source to a fresh scratch location, runs the
	// target's toolchain against it under the configured timeout, and
	// classifies the process outcome.  When nullary is false the emitted
	// program has no runnable entry point, so only syntax/compile checking is
	// performed.  The scratch location is destroyed before Validate returns.
	Validate(ctx context.Context, source string, nullary bool) *Result
}

// Options configures toolchain invocation for the validators.
type Options struct {
	// Timeout bounds each toolchain subprocess.
	Timeout time.Duration

	// The commands used to invoke each toolchain.
	Python string
	Node   string
	Cxx    string
	LLC    string
}

// DefaultOptions returns the standard toolchain commands and the default
// 10 second per-subprocess timeout.
func DefaultOptions() Options {
	return Options{
		Timeout: 10 * time.Second,
		Python:  "python3",
		Node:    "node",
		Cxx:     "g++",
		LLC:     "llc",
	}
}

// ForTarget returns the validator for the given target.  The second return
// value is false for targets with no validator.
func ForTarget(target common.Target, opts Options) (Validator, bool) {
	switch target {
	case common.TargetPython:
		return &pythonValidator{opts: opts}, true
	case common.TargetCpp:
		return &cppValidator{opts: opts}, true
	case common.TargetJavaScript:
		return &jsValidator{opts: opts}, true
	case common.TargetLaTeX:
		return latexValidator{}, true
	case common.TargetLLVM:
		return &llvmValidator{opts: opts}, true
	}

	return nil, false
}

// -----------------------------------------------------------------------------

// session tracks the shared mechanics of one validation run: outcome timing,
// the scratch directory, and subprocess invocation.  Every session owns its
// scratch directory exclusively; concurrent validations never share state.
type session struct {
	opts    Options
	start   time.Time
	scratch string
}

// newSession creates the scratch directory for one validation run.
func newSession(opts Options, target common.Target) (*session, *Result) {
	s := &session{opts: opts, start: time.Now()}

	scratch, err := os.MkdirTemp("", "polyglot-"+string(target)+"-")
	if err != nil {
		return nil, s.result(Skipped, "failed to create scratch directory: "+err.Error())
	}

	s.scratch = scratch
	return s, nil
}

// close destroys the session's scratch directory.
func (s *session) close() {
	if s.scratch != "" {
		os.RemoveAll(s.scratch)
	}
}

// result builds a Result stamped with the session's elapsed time.
func (s *session) result(outcome Outcome, diagnostic string) *Result {
	return &Result{Outcome: outcome, Diagnostic: diagnostic, Elapsed: time.Since(s.start)}
}

// writeSource writes the emitted source into the scratch directory and
// returns its path.
func (s *session) writeSource(fileName, source string) (string, error) {
	srcPath := filepath.Join(s.scratch, fileName)
	return srcPath, os.WriteFile(srcPath, []byte(source), 0o644)
}

// invocation is the classified outcome of one toolchain subprocess.
type invocation struct {
	// ok is true when the subprocess exited zero.
	ok bool

	// timedOut and cancelled report why the subprocess was killed, if it was.
	timedOut  bool
	cancelled bool

	// stderr is the captured standard-error text.
	stderr string

	// startErr is set when the subprocess could not be started at all.
	startErr error
}

// invoke runs one toolchain subprocess in the scratch directory with stderr
// capture and the configured timeout.
func (s *session) invoke(parent context.Context, name string, args ...string) invocation {
	ctx, cancel := context.WithTimeout(parent, s.opts.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = s.scratch

	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	err := cmd.Run()
	inv := invocation{ok: err == nil, stderr: stderr.String()}

	if err != nil {
		switch {
		case ctx.Err() == context.DeadlineExceeded:
			inv.timedOut = true
		case parent.Err() != nil:
			inv.cancelled = true
		default:
			if _, isExit := err.(*exec.ExitError); !isExit {
				inv.startErr = err
			}
		}
	}

	return inv
}

// classifyCompile maps a compile-step invocation onto a Result, or returns nil
// when the compile step succeeded and validation should continue.
func (s *session) classifyCompile(inv invocation) *Result {
	switch {
	case inv.ok:
		return nil
	case inv.timedOut:
		return s.result(CompileFailed, "validation timed out")
	case inv.cancelled:
		return s.result(Skipped, "validation cancelled")
	case inv.startErr != nil:
		return s.result(Skipped, "toolchain not available: "+inv.startErr.Error())
	default:
		return s.result(CompileFailed, inv.stderr)
	}
}

// classifyRun maps a run-step invocation onto its final Result.
func (s *session) classifyRun(inv invocation) *Result {
	switch {
	case inv.ok:
		return s.result(Compiled, "")
	case inv.timedOut:
		return s.result(CompileFailed, "validation timed out")
	case inv.cancelled:
		return s.result(Skipped, "validation cancelled")
	case inv.startErr != nil:
		return s.result(Skipped, "toolchain not available: "+inv.startErr.Error())
	default:
		return s.result(RuntimeFailed, inv.stderr)
	}
}

// lookTool resolves a toolchain command, producing a Skipped result when the
// command is not installed.
func (s *session) lookTool(name string) *Result {
	if _, err := exec.LookPath(name); err != nil {
		return s.result(Skipped, "toolchain not available: "+err.Error())
	}

	return nil
}

// syntaxOnlyDiag is the diagnostic attached when a compile succeeded but
// execution was intentionally not attempted.
const syntaxOnlyDiag = "non-nullary function: syntax-only validation"
