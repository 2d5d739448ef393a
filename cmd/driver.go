package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"

	"polyglot/common"
	"polyglot/config"
	"polyglot/pipeline"
	"polyglot/report"
	"polyglot/uast"
)

// runPipeline executes one pipeline run over the decoded function, persists
// the emitted sources, and displays the terminal report.
func runPipeline(prof *config.Profile, fn *uast.Function, emitOnly bool) {
	targets := common.DefaultTargets()
	if prof.EmitLLVM {
		targets = append(targets, common.TargetLLVM)
	}

	opts := []pipeline.Option{
		pipeline.WithTargets(targets),
		pipeline.WithValidateOptions(prof.Validate),
	}
	if emitOnly {
		opts = append(opts, pipeline.WithoutValidation())
	}

	// an interrupt cancels the run: outstanding validator subprocesses are
	// killed and no report is produced
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runReport, err := pipeline.New(opts...).Run(ctx, fn)
	if err != nil {
		var malformed *pipeline.MalformedError
		if errors.As(err, &malformed) {
			for _, violation := range malformed.Violations {
				report.ReportError("UAST", violation)
			}

			report.ReportFatal("malformed UAST for `%s`: %d invariant violation(s)", fn.Name, len(malformed.Violations))
		}

		report.ReportFatal("pipeline run failed: %s", err.Error())
	}

	saveOutputs(prof.OutDir, runReport)

	// display the aggregate report: every target appears with an explicit
	// outcome; nothing is silently omitted
	failedCount := 0
	for _, tr := range runReport.Targets {
		failed := tr.Failed()
		if failed {
			failedCount++
		}

		if tr.EmitErr != nil {
			report.LogTargetResult(string(tr.Target), "EmitFailed", tr.EmitErr.Error(), 0, true)
			continue
		}

		report.LogTargetResult(
			string(tr.Target),
			tr.Validation.Outcome.String(),
			tr.Validation.Diagnostic,
			tr.Validation.Elapsed,
			failed,
		)
	}

	report.LogRunFinished(runReport.Function, failedCount, runReport.Elapsed)

	if failedCount > 0 {
		os.Exit(1)
	}
}

// saveOutputs persists each emitted source under the output directory as
// `<target>.<ext>`.  The emitted text is written exactly as produced.
func saveOutputs(outDir string, runReport *pipeline.Report) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		report.ReportFatal("failed to create output directory: %s", err.Error())
	}

	for _, tr := range runReport.Targets {
		if tr.EmitErr != nil {
			continue
		}

		outPath := filepath.Join(outDir, string(tr.Target)+tr.Target.FileExt())
		if err := os.WriteFile(outPath, []byte(tr.Source), 0o644); err != nil {
			report.ReportFatal("failed to write output file `%s`: %s", outPath, err.Error())
		}
	}
}
