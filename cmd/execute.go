package cmd

import (
	"os"

	"polyglot/common"
	"polyglot/config"
	"polyglot/report"

	"github.com/ComedicChimera/olive"
)

// Execute is the main entry point for the `polyglot` CLI utility.
func Execute() {
	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("polyglot", "polyglot transmutes one function into many languages", true)
	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the log level", false, []string{"silent", "error", "warn", "verbose"})
	logLvlArg.SetDefaultValue("verbose")

	runCmd := cli.AddSubcommand("run", "transmute and validate a UAST", true)
	runCmd.AddPrimaryArg("uast-path", "the path to the UAST JSON file", true)
	runCmd.AddStringArg("profile", "p", "the path to the pipeline profile", false)
	runCmd.AddStringArg("outdir", "o", "the directory to save emitted sources under", false)
	modeArg := runCmd.AddSelectorArg("mode", "m", "the run mode", false, []string{"full", "emit-only"})
	modeArg.SetDefaultValue("full")

	cli.AddSubcommand("version", "print the Polyglot version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		report.ReportFatal(err.Error())
	}

	// process the inputed command line
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "run":
		execRunCommand(subResult, result.Arguments["loglevel"].(string))
	case "version":
		report.InitReporter(report.LogLevelVerbose)
		report.DisplayInfoMessage("Polyglot Version", common.PolyglotVersion)
	}
}

// execRunCommand executes the run subcommand and handles all errors.
func execRunCommand(result *olive.ArgParseResult, loglevel string) {
	// initialize the reporter
	report.InitReporter(report.LogLevelFromName(loglevel))

	// get the primary argument: the UAST file path
	uastPath, _ := result.PrimaryArg()

	// load the pipeline profile
	prof := loadProfile(result)

	if outDirVal, ok := result.Arguments["outdir"]; ok {
		prof.OutDir = outDirVal.(string)
	}

	// in emit-only mode the sources are still produced and saved but no
	// toolchain is ever invoked
	emitOnly := false
	if modeVal, ok := result.Arguments["mode"]; ok {
		emitOnly = modeVal.(string) == "emit-only"
	}

	// decode the UAST: input that does not parse at all is an input-boundary
	// failure, distinct from a structurally malformed UAST
	fn, err := DecodeFunctionFile(uastPath)
	if err != nil {
		report.ReportFatal("unparsable input: %s", err.Error())
	}

	// run the pipeline and display the terminal report
	runPipeline(prof, fn, emitOnly)
}

// loadProfile resolves and loads the pipeline profile: an explicitly given
// profile path, then the default profile file if present, then the built-in
// defaults.
func loadProfile(result *olive.ArgParseResult) *config.Profile {
	if profVal, ok := result.Arguments["profile"]; ok {
		prof, err := config.LoadProfile(profVal.(string))
		if err != nil {
			report.ReportFatal(err.Error())
		}

		return prof
	}

	if _, err := os.Stat(common.PolyglotProfileFileName); err == nil {
		prof, err := config.LoadProfile(common.PolyglotProfileFileName)
		if err != nil {
			report.ReportFatal(err.Error())
		}

		return prof
	}

	return config.DefaultProfile()
}
