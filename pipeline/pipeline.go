package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"polyglot/common"
	"polyglot/emit"
	"polyglot/report"
	"polyglot/uast"
	"polyglot/validate"
)

// State identifies a phase of a pipeline run.  A run moves strictly forward:
// Received, ValidatingUAST, then (unless the UAST is malformed) Emitting,
// ValidatingTargets, Reporting, and Done.
type State int

// Enumeration of the pipeline states.
const (
	StateReceived State = iota
	StateValidatingUAST
	StateEmitting
	StateValidatingTargets
	StateReporting
	StateDone
)

// stateNames maps each state to its display name.
var stateNames = map[State]string{
	StateReceived:          "received",
	StateValidatingUAST:    "validating UAST",
	StateEmitting:          "emitting targets",
	StateValidatingTargets: "validating targets",
	StateReporting:         "reporting",
	StateDone:              "done",
}

func (s State) String() string {
	return stateNames[s]
}

// MalformedError is the pipeline-fatal error produced when the incoming UAST
// violates one or more well-formedness invariants.  No emitter is invoked for
// a malformed UAST.
type MalformedError struct {
	Function   string
	Violations []string
}

func (me *MalformedError) Error() string {
	return fmt.Sprintf(
		"malformed UAST for `%s`: %s",
		me.Function, strings.Join(me.Violations, "; "),
	)
}

// TargetReport is one target's slice of the aggregate report: the emitted
// source text and the validation result, or the emission error when the
// emitter failed and the validator was never invoked.
type TargetReport struct {
	Target common.Target

	// Source is the emitted source text; empty when EmitErr is non-nil.
	Source string

	// EmitErr is non-nil when the target's emitter failed (UnsupportedNode).
	EmitErr error

	// Validation is the target's validation result.  It is never nil in a
	// finished report: targets that were not validated carry a Skipped result
	// explaining why.
	Validation *validate.Result
}

// Failed returns whether the target's emission or validation failed.
func (tr *TargetReport) Failed() bool {
	if tr.EmitErr != nil {
		return true
	}

	switch tr.Validation.Outcome {
	case validate.CompileFailed, validate.RuntimeFailed:
		return true
	}

	return false
}

// Report is the single terminal report of a pipeline run: one entry per
// configured target, in the fixed target order.
type Report struct {
	Function string
	Targets  []*TargetReport
	Elapsed  time.Duration
}

// Pipeline orchestrates the (emitter, validator) pairs over a fixed target
// set.  A Pipeline holds no per-run state and may be reused; each Run is
// independent and produces exactly one terminal report, with no automatic
// retries.
type Pipeline struct {
	targets []common.Target
	opts    validate.Options

	// skipValidation replaces every validation with a Skipped result.  The
	// emitted sources are still produced and reported.
	skipValidation bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithTargets overrides the default fixed target set.  Order is preserved in
// the report.
func WithTargets(targets []common.Target) Option {
	return func(p *Pipeline) {
		p.targets = targets
	}
}

// WithValidateOptions overrides the toolchain options used by the validators.
func WithValidateOptions(opts validate.Options) Option {
	return func(p *Pipeline) {
		p.opts = opts
	}
}

// WithoutValidation disables toolchain validation entirely.
func WithoutValidation() Option {
	return func(p *Pipeline) {
		p.skipValidation = true
	}
}

// New creates a pipeline over the default target set with default toolchain
// options.
func New(options ...Option) *Pipeline {
	p := &Pipeline{
		targets: common.DefaultTargets(),
		opts:    validate.DefaultOptions(),
	}

	for _, opt := range options {
		opt(p)
	}

	return p
}

// Targets returns the pipeline's target set in report order.
func (p *Pipeline) Targets() []common.Target {
	return p.targets
}

// Run executes one full pipeline pass over a UAST function: well-formedness
// check, emission for every target, validation for every emitted source, and
// aggregation into a single report.  The UAST is read-only throughout.
//
// If the UAST is malformed, Run returns a *MalformedError naming every
// violated invariant and no report.  If ctx is cancelled mid-run, outstanding
// validator subprocesses are killed, partial results are discarded, and Run
// returns ctx.Err().
func (p *Pipeline) Run(ctx context.Context, fn *uast.Function) (*Report, error) {
	start := time.Now()
	p.advance(StateReceived)

	// Received -> ValidatingUAST on pipeline start.
	p.advance(StateValidatingUAST)
	if violations := uast.CheckWellFormed(fn); len(violations) > 0 {
		// Malformed input skips straight to reporting the aggregate failure.
		return nil, &MalformedError{Function: fn.Name, Violations: violations}
	}

	// ValidatingUAST -> Emitting: every target's emitter runs as its own
	// task; emitters share the UAST read-only and nothing else.
	p.advance(StateEmitting)
	reports := make([]*TargetReport, len(p.targets))

	wg := &sync.WaitGroup{}
	for i, target := range p.targets {
		wg.Add(1)

		go func(i int, target common.Target) {
			defer wg.Done()
			reports[i] = p.emitTarget(target, fn)
		}(i, target)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Emitting -> ValidatingTargets once every emitter has either produced
	// source text or failed with UnsupportedNode.
	p.advance(StateValidatingTargets)
	for i := range p.targets {
		wg.Add(1)

		go func(tr *TargetReport) {
			defer wg.Done()
			p.validateTarget(ctx, tr, fn.Nullary())
		}(reports[i])
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// ValidatingTargets -> Reporting -> Done.
	p.advance(StateReporting)
	runReport := &Report{
		Function: fn.Name,
		Targets:  reports,
		Elapsed:  time.Since(start),
	}

	p.advance(StateDone)
	return runReport, nil
}

// advance logs a pipeline state transition at the verbose level.
func (p *Pipeline) advance(state State) {
	report.LogPhase(state.String())
}

// emitTarget runs one target's emitter over the function.
func (p *Pipeline) emitTarget(target common.Target, fn *uast.Function) *TargetReport {
	tr := &TargetReport{Target: target}

	emitter, ok := emit.ForTarget(target)
	if !ok {
		tr.EmitErr = fmt.Errorf("no emitter for target `%s`", target)
		return tr
	}

	tr.Source, tr.EmitErr = emitter.Emit(fn)
	return tr
}

// validateTarget fills in the validation result for one emitted target.  A
// target whose emission failed is never handed to its validator.
func (p *Pipeline) validateTarget(ctx context.Context, tr *TargetReport, nullary bool) {
	if tr.EmitErr != nil {
		tr.Validation = &validate.Result{
			Outcome:    validate.Skipped,
			Diagnostic: "not validated: emission failed",
		}
		return
	}

	if p.skipValidation {
		tr.Validation = &validate.Result{
			Outcome:    validate.Skipped,
			Diagnostic: "validation disabled",
		}
		return
	}

	validator, ok := validate.ForTarget(tr.Target, p.opts)
	if !ok {
		tr.Validation = &validate.Result{
			Outcome:    validate.Skipped,
			Diagnostic: fmt.Sprintf("no validator for target `%s`", tr.Target),
		}
		return
	}

	tr.Validation = validator.Validate(ctx, tr.Source, nullary)
}
