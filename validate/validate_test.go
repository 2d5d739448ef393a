package validate

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"polyglot/common"
)

// requireTool skips the calling test when a toolchain command is not installed,
// so the suite passes on machines without the full toolchain set.
func requireTool(t *testing.T, name string) {
	t.Helper()

	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not installed", name)
	}
}

func TestLaTeXValidationIsAlwaysSkipped(t *testing.T) {
	v, ok := ForTarget(common.TargetLaTeX, DefaultOptions())
	if !ok {
		t.Fatal("no validator for latex")
	}

	res := v.Validate(context.Background(), `\begin{algorithm}\end{algorithm}`, true)

	if res.Outcome != Skipped {
		t.Fatalf("outcome = %s, want Skipped", res.Outcome)
	}

	if res.Diagnostic != "not independently executable" {
		t.Fatalf("diagnostic = %q", res.Diagnostic)
	}
}

func TestPythonValidation(t *testing.T) {
	opts := DefaultOptions()
	requireTool(t, opts.Python)

	v, _ := ForTarget(common.TargetPython, opts)

	t.Run("nullary program compiles and runs", func(t *testing.T) {
		source := "def f():\n    return 1 + 2\n\n\nif __name__ == \"__main__\":\n    print(f())\n"

		res := v.Validate(context.Background(), source, true)

		if res.Outcome != Compiled {
			t.Fatalf("outcome = %s, diagnostic = %q", res.Outcome, res.Diagnostic)
		}
	})

	t.Run("integer division evaluates to 3", func(t *testing.T) {
		source := "def q():\n    return 7 // 2\n\n\nif __name__ == \"__main__\":\n    assert q() == 3\n"

		res := v.Validate(context.Background(), source, true)

		if res.Outcome != Compiled {
			t.Fatalf("outcome = %s, diagnostic = %q", res.Outcome, res.Diagnostic)
		}
	})

	t.Run("syntax error fails compilation", func(t *testing.T) {
		res := v.Validate(context.Background(), "def f(:\n", true)

		if res.Outcome != CompileFailed {
			t.Fatalf("outcome = %s, want CompileFailed", res.Outcome)
		}

		if res.Diagnostic == "" {
			t.Fatal("diagnostic is empty; expected the toolchain's stderr")
		}
	})

	t.Run("raising program fails at runtime", func(t *testing.T) {
		res := v.Validate(context.Background(), "raise RuntimeError(\"boom\")\n", true)

		if res.Outcome != RuntimeFailed {
			t.Fatalf("outcome = %s, want RuntimeFailed", res.Outcome)
		}

		if res.Diagnostic == "" {
			t.Fatal("diagnostic is empty; expected the traceback")
		}
	})

	t.Run("non-nullary program is only byte-compiled", func(t *testing.T) {
		source := "def g(n):\n    return n\n"

		res := v.Validate(context.Background(), source, false)

		if res.Outcome != Compiled {
			t.Fatalf("outcome = %s, diagnostic = %q", res.Outcome, res.Diagnostic)
		}

		if res.Diagnostic != syntaxOnlyDiag {
			t.Fatalf("diagnostic = %q", res.Diagnostic)
		}
	})

	t.Run("hanging program times out", func(t *testing.T) {
		timedOpts := opts
		timedOpts.Timeout = 250 * time.Millisecond
		timed, _ := ForTarget(common.TargetPython, timedOpts)

		res := timed.Validate(context.Background(), "while True:\n    pass\n", true)

		if res.Outcome != CompileFailed {
			t.Fatalf("outcome = %s, want CompileFailed", res.Outcome)
		}

		if res.Diagnostic != "validation timed out" {
			t.Fatalf("diagnostic = %q", res.Diagnostic)
		}
	})

	t.Run("cancelled context skips validation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		res := v.Validate(ctx, "print(3)\n", true)

		if res.Outcome != Skipped {
			t.Fatalf("outcome = %s, want Skipped", res.Outcome)
		}

		if res.Diagnostic != "validation cancelled" {
			t.Fatalf("diagnostic = %q", res.Diagnostic)
		}
	})
}

func TestJavaScriptValidation(t *testing.T) {
	opts := DefaultOptions()
	requireTool(t, opts.Node)

	v, _ := ForTarget(common.TargetJavaScript, opts)

	t.Run("nullary program checks and runs", func(t *testing.T) {
		source := "function f() {\n    return 1 + 2;\n}\n\nconsole.log(f());\n"

		res := v.Validate(context.Background(), source, true)

		if res.Outcome != Compiled {
			t.Fatalf("outcome = %s, diagnostic = %q", res.Outcome, res.Diagnostic)
		}
	})

	t.Run("integer division evaluates to 3", func(t *testing.T) {
		source := "function q() {\n    return Math.trunc(7 / 2);\n}\n\nif (q() !== 3) throw new Error(\"q() = \" + q());\n"

		res := v.Validate(context.Background(), source, true)

		if res.Outcome != Compiled {
			t.Fatalf("outcome = %s, diagnostic = %q", res.Outcome, res.Diagnostic)
		}
	})

	t.Run("syntax error fails the check", func(t *testing.T) {
		res := v.Validate(context.Background(), "function f( {\n", true)

		if res.Outcome != CompileFailed {
			t.Fatalf("outcome = %s, want CompileFailed", res.Outcome)
		}
	})

	t.Run("throwing program fails at runtime", func(t *testing.T) {
		res := v.Validate(context.Background(), "throw new TypeError(\"boom\");\n", true)

		if res.Outcome != RuntimeFailed {
			t.Fatalf("outcome = %s, want RuntimeFailed", res.Outcome)
		}
	})
}

func TestCppValidation(t *testing.T) {
	opts := DefaultOptions()
	requireTool(t, opts.Cxx)

	v, _ := ForTarget(common.TargetCpp, opts)

	t.Run("nullary unit compiles and runs", func(t *testing.T) {
		source := "#include <iostream>\n\nint f() {\n    return 1 + 2;\n}\n\nint main() {\n    std::cout << f() << std::endl;\n    return 0;\n}\n"

		res := v.Validate(context.Background(), source, true)

		if res.Outcome != Compiled {
			t.Fatalf("outcome = %s, diagnostic = %q", res.Outcome, res.Diagnostic)
		}
	})

	t.Run("integer division evaluates to 3", func(t *testing.T) {
		source := "int q() {\n    return 7 / 2;\n}\n\nint main() {\n    return q() == 3 ? 0 : 1;\n}\n"

		res := v.Validate(context.Background(), source, true)

		if res.Outcome != Compiled {
			t.Fatalf("outcome = %s, diagnostic = %q", res.Outcome, res.Diagnostic)
		}
	})

	t.Run("non-nullary unit is syntax checked only", func(t *testing.T) {
		source := "int g(int n) {\n    return n;\n}\n"

		res := v.Validate(context.Background(), source, false)

		if res.Outcome != Compiled {
			t.Fatalf("outcome = %s, diagnostic = %q", res.Outcome, res.Diagnostic)
		}

		if res.Diagnostic != syntaxOnlyDiag {
			t.Fatalf("diagnostic = %q", res.Diagnostic)
		}
	})

	t.Run("ill-formed unit fails compilation", func(t *testing.T) {
		res := v.Validate(context.Background(), "int f( {\n", false)

		if res.Outcome != CompileFailed {
			t.Fatalf("outcome = %s, want CompileFailed", res.Outcome)
		}

		if res.Diagnostic == "" {
			t.Fatal("diagnostic is empty; expected the compiler's stderr")
		}
	})
}

func TestMissingToolchainSkips(t *testing.T) {
	opts := DefaultOptions()
	opts.Python = "definitely-not-a-real-python"

	v, _ := ForTarget(common.TargetPython, opts)

	res := v.Validate(context.Background(), "print(3)\n", true)

	if res.Outcome != Skipped {
		t.Fatalf("outcome = %s, want Skipped", res.Outcome)
	}

	if res.Diagnostic == "" {
		t.Fatal("diagnostic is empty; expected the lookup error")
	}
}

func TestOutcomeNames(t *testing.T) {
	names := map[Outcome]string{
		Compiled:      "Compiled",
		CompileFailed: "CompileFailed",
		RuntimeFailed: "RuntimeFailed",
		Skipped:       "Skipped",
	}

	for outcome, want := range names {
		if got := outcome.String(); got != want {
			t.Fatalf("Outcome(%d).String() = %q, want %q", outcome, got, want)
		}
	}
}
