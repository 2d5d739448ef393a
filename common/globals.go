package common

// PolyglotVersion is the current Polyglot version as a string.
const PolyglotVersion string = "0.1.0"

// PolyglotProfileFileName is the default name for Polyglot profile files.
const PolyglotProfileFileName string = "polyglot.toml"

// DefaultOutputDir is the directory emitted sources are saved under when no
// other location is configured.
const DefaultOutputDir string = "outputs"
