package common

// Target identifies one of the output languages/notations the pipeline can
// project a UAST into.
type Target string

// Enumeration of the supported targets.
const (
	TargetPython     Target = "python"     // reference language
	TargetCpp        Target = "cpp"        // systems language
	TargetJavaScript Target = "javascript" // scripting language
	TargetLaTeX      Target = "latex"      // typesetting markup
	TargetLLVM       Target = "llvm"       // LLVM IR (extension, off by default)
)

// DefaultTargets returns the fixed target set in its fixed report order.
func DefaultTargets() []Target {
	return []Target{TargetPython, TargetCpp, TargetJavaScript, TargetLaTeX}
}

// targetFileExts maps each target to the file extension of its emitted source.
var targetFileExts = map[Target]string{
	TargetPython:     ".py",
	TargetCpp:        ".cpp",
	TargetJavaScript: ".js",
	TargetLaTeX:      ".tex",
	TargetLLVM:       ".ll",
}

// FileExt returns the file extension used for the target's emitted source.
func (t Target) FileExt() string {
	return targetFileExts[t]
}
