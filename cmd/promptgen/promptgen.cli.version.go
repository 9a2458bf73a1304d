package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

type versionConfig struct {
	format string
}

// versionInfo is printed by the version command
type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Branch    string `json:"branch"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// versionsYAML represents the versions.yaml file structure
type versionsYAML struct {
	Project struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"project"`
	Git struct {
		Commit string `yaml:"commit"`
		Branch string `yaml:"branch"`
	} `yaml:"git"`
	Build struct {
		Time      string `yaml:"time"`
		GoVersion string `yaml:"go_version"`
	} `yaml:"build"`
}

func runVersion(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseVersionFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFormat, err)
		return ExitCodeUsageError
	}

	info := getVersionInfo(versionSearchPaths())
	if cfg.format == OutputFormatJSON {
		out, _ := json.MarshalIndent(info, "", JSONIndent)
		fmt.Fprintln(stdout, string(out))
		return ExitCodeSuccess
	}
	fmt.Fprintf(stdout, VersionTextTemplate+FmtNewline,
		info.Version, info.Commit, info.Branch, info.BuildTime, info.GoVersion)
	return ExitCodeSuccess
}

func parseVersionFlags(args []string) (*versionConfig, error) {
	fs := flag.NewFlagSet(CmdNameVersion, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &versionConfig{}
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if !validFormat(cfg.format) {
		return nil, errors.New(ErrMsgInvalidFormat)
	}
	return cfg, nil
}

// versionSearchPaths lists versions.yaml in the working directory and its
// two parents.
func versionSearchPaths() []string {
	return []string{
		VersionsFileName,
		filepath.Join("..", VersionsFileName),
		filepath.Join("..", "..", VersionsFileName),
	}
}

// getVersionInfo reads the first parseable versions file among paths.
func getVersionInfo(paths []string) *versionInfo {
	info := &versionInfo{
		Version:   VersionUnknown,
		Commit:    VersionUnknown,
		Branch:    VersionUnknown,
		BuildTime: VersionUnknown,
		GoVersion: runtime.Version(),
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var vy versionsYAML
		if err := yaml.Unmarshal(data, &vy); err != nil {
			continue
		}

		if vy.Project.Version != "" {
			info.Version = vy.Project.Version
		}
		if vy.Git.Commit != "" {
			info.Commit = vy.Git.Commit
		}
		if vy.Git.Branch != "" {
			info.Branch = vy.Git.Branch
		}
		if vy.Build.Time != "" {
			info.BuildTime = vy.Build.Time
		}
		if vy.Build.GoVersion != "" {
			info.GoVersion = vy.Build.GoVersion
		}
		break
	}
	return info
}

func validFormat(format string) bool {
	return format == OutputFormatText || format == OutputFormatJSON
}
