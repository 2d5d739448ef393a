package validate

import (
	"context"
	"path/filepath"
	"runtime"

	"polyglot/common"
)

// pythonValidator byte-compiles the emitted Python source with `py_compile`
// and, for a nullary function, runs the file as a script.
type pythonValidator struct {
	opts Options
}

func (v *pythonValidator) Target() common.Target {
	return common.TargetPython
}

func (v *pythonValidator) Validate(ctx context.Context, source string, nullary bool) *Result {
	s, res := newSession(v.opts, common.TargetPython)
	if res != nil {
		return res
	}
	defer s.close()

	if res := s.lookTool(v.opts.Python); res != nil {
		return res
	}

	srcPath, err := s.writeSource("main.py", source)
	if err != nil {
		return s.result(Skipped, "failed to write source: "+err.Error())
	}

	if res := s.classifyCompile(s.invoke(ctx, v.opts.Python, "-m", "py_compile", srcPath)); res != nil {
		return res
	}

	if !nullary {
		return s.result(Compiled, syntaxOnlyDiag)
	}

	return s.classifyRun(s.invoke(ctx, v.opts.Python, srcPath))
}

// cppValidator compiles the emitted C++ translation unit with the configured
// C++ compiler.  A nullary function's unit contains a `main`, so it is
// compiled to a binary in the scratch directory and executed; otherwise the
// unit has no entry point and only a syntax check is performed.
type cppValidator struct {
	opts Options
}

func (v *cppValidator) Target() common.Target {
	return common.TargetCpp
}

func (v *cppValidator) Validate(ctx context.Context, source string, nullary bool) *Result {
	s, res := newSession(v.opts, common.TargetCpp)
	if res != nil {
		return res
	}
	defer s.close()

	if res := s.lookTool(v.opts.Cxx); res != nil {
		return res
	}

	srcPath, err := s.writeSource("main.cpp", source)
	if err != nil {
		return s.result(Skipped, "failed to write source: "+err.Error())
	}

	if !nullary {
		if res := s.classifyCompile(s.invoke(ctx, v.opts.Cxx, "-fsyntax-only", srcPath)); res != nil {
			return res
		}

		return s.result(Compiled, syntaxOnlyDiag)
	}

	binName := "prog"
	if runtime.GOOS == "windows" {
		binName += ".exe"
	}
	binPath := filepath.Join(s.scratch, binName)

	if res := s.classifyCompile(s.invoke(ctx, v.opts.Cxx, "-o", binPath, srcPath)); res != nil {
		return res
	}

	return s.classifyRun(s.invoke(ctx, binPath))
}

// jsValidator syntax-checks the emitted JavaScript with `node --check` and,
// for a nullary function, runs the file.
type jsValidator struct {
	opts Options
}

func (v *jsValidator) Target() common.Target {
	return common.TargetJavaScript
}

func (v *jsValidator) Validate(ctx context.Context, source string, nullary bool) *Result {
	s, res := newSession(v.opts, common.TargetJavaScript)
	if res != nil {
		return res
	}
	defer s.close()

	if res := s.lookTool(v.opts.Node); res != nil {
		return res
	}

	srcPath, err := s.writeSource("main.js", source)
	if err != nil {
		return s.result(Skipped, "failed to write source: "+err.Error())
	}

	if res := s.classifyCompile(s.invoke(ctx, v.opts.Node, "--check", srcPath)); res != nil {
		return res
	}

	if !nullary {
		return s.result(Compiled, syntaxOnlyDiag)
	}

	return s.classifyRun(s.invoke(ctx, v.opts.Node, srcPath))
}

// llvmValidator parses and syntax-checks emitted LLVM IR with `llc`.  IR is
// never executed directly, so validation is always compile-only.
type llvmValidator struct {
	opts Options
}

func (v *llvmValidator) Target() common.Target {
	return common.TargetLLVM
}

func (v *llvmValidator) Validate(ctx context.Context, source string, nullary bool) *Result {
	s, res := newSession(v.opts, common.TargetLLVM)
	if res != nil {
		return res
	}
	defer s.close()

	if res := s.lookTool(v.opts.LLC); res != nil {
		return res
	}

	srcPath, err := s.writeSource("main.ll", source)
	if err != nil {
		return s.result(Skipped, "failed to write source: "+err.Error())
	}

	if res := s.classifyCompile(s.invoke(ctx, v.opts.LLC, "-filetype=null", srcPath)); res != nil {
		return res
	}

	return s.result(Compiled, "IR syntax-only validation")
}

// latexValidator is the validator for the typesetting target: typeset
// notation is not an executable program, so it is always skipped.
type latexValidator struct{}

func (latexValidator) Target() common.Target {
	return common.TargetLaTeX
}

func (latexValidator) Validate(ctx context.Context, source string, nullary bool) *Result {
	return &Result{Outcome: Skipped, Diagnostic: "not independently executable"}
}
