package config

import (
	"fmt"
	"os"
	"time"

	"polyglot/common"
	"polyglot/validate"

	"github.com/pelletier/go-toml"
)

// tomlProfile represents a pipeline profile as it is encoded in TOML.
type tomlProfile struct {
	TimeoutSeconds int    `toml:"timeout-seconds"`
	OutDir         string `toml:"out-dir"`
	EmitLLVM       bool   `toml:"emit-llvm"`

	Toolchains tomlToolchains `toml:"toolchains"`
}

// tomlToolchains holds the per-toolchain command overrides.
type tomlToolchains struct {
	Python string `toml:"python"`
	Node   string `toml:"node"`
	Cxx    string `toml:"cxx"`
	LLC    string `toml:"llc"`
}

// Profile is the loaded pipeline configuration.
type Profile struct {
	// OutDir is the directory emitted sources are saved under.
	OutDir string

	// EmitLLVM enables the LLVM IR extension target.
	EmitLLVM bool

	// Validate holds the toolchain options handed to the validators.
	Validate validate.Options
}

// DefaultProfile returns the profile used when no profile file exists:
// standard toolchain commands, a 10 second timeout, and the `outputs`
// directory.
func DefaultProfile() *Profile {
	return &Profile{
		OutDir:   common.DefaultOutputDir,
		Validate: validate.DefaultOptions(),
	}
}

// LoadProfile loads and validates a profile file, layering it over the
// defaults.  `path` is the path to the TOML profile.
func LoadProfile(path string) (*Profile, error) {
	buff, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read profile at `%s`: %w", path, err)
	}

	tomlProf := &tomlProfile{}
	if err := toml.Unmarshal(buff, tomlProf); err != nil {
		return nil, fmt.Errorf("error parsing profile at `%s`: %w", path, err)
	}

	if tomlProf.TimeoutSeconds < 0 {
		return nil, fmt.Errorf("profile at `%s`: timeout-seconds must not be negative", path)
	}

	prof := DefaultProfile()
	prof.EmitLLVM = tomlProf.EmitLLVM

	if tomlProf.OutDir != "" {
		prof.OutDir = tomlProf.OutDir
	}

	if tomlProf.TimeoutSeconds > 0 {
		prof.Validate.Timeout = time.Duration(tomlProf.TimeoutSeconds) * time.Second
	}

	if tomlProf.Toolchains.Python != "" {
		prof.Validate.Python = tomlProf.Toolchains.Python
	}

	if tomlProf.Toolchains.Node != "" {
		prof.Validate.Node = tomlProf.Toolchains.Node
	}

	if tomlProf.Toolchains.Cxx != "" {
		prof.Validate.Cxx = tomlProf.Toolchains.Cxx
	}

	if tomlProf.Toolchains.LLC != "" {
		prof.Validate.LLC = tomlProf.Toolchains.LLC
	}

	return prof, nil
}
