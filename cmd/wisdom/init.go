package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/InfiniQuest-App/wisdom-store/internal/config"
	"github.com/InfiniQuest-App/wisdom-store/scripts"
)

var (
	flagInitForce   bool
	flagInitScripts bool
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default .wisdom/config.json into a project",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&flagInitForce, "force", false, "overwrite an existing config")
	initCmd.Flags().BoolVar(&flagInitScripts, "scripts", false, "install the bundled extraction scripts and map their extensions")
}

func runInit(cmd *cobra.Command, args []string) error {
	root, err := resolveTargetDir(args)
	if err != nil {
		return outputError("init", err)
	}
	cfgPath := filepath.Join(root, config.Dir, "config.json")
	if _, err := os.Stat(cfgPath); err == nil && !flagInitForce {
		return outputError("init", fmt.Errorf("%s already exists (use --force to overwrite)", cfgPath))
	}

	cfg := config.Default()
	if flagInitScripts {
		installed, err := installScripts(root, scripts.FS, scripts.Extensions)
		if err != nil {
			return outputError("init", err)
		}
		cfg.Scripts = installed
	}
	if err := cfg.Save(root); err != nil {
		return outputError("init", fmt.Errorf("saving config: %w", err))
	}

	return outputResult(CLIResult{
		Command: "init",
		Results: CLIInitResult{Project: root, Config: cfgPath, Scripts: cfg.Scripts},
	})
}

// installScripts copies each script named in exts from fsys into
// <root>/.wisdom/scripts and returns the extension map rewritten to the
// installed, root-relative paths. Existing files are kept unless --force.
func installScripts(root string, fsys fs.FS, exts map[string]string) (map[string]string, error) {
	installed := make(map[string]string, len(exts))
	written := make(map[string]bool)
	for ext, src := range exts {
		rel := path.Join(config.Dir, "scripts", src)
		installed[ext] = rel
		if written[src] {
			continue
		}
		written[src] = true

		dst := filepath.Join(root, filepath.FromSlash(rel))
		if _, err := os.Stat(dst); err == nil && !flagInitForce {
			continue
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("checking %s: %w", dst, err)
		}
		data, err := fs.ReadFile(fsys, src)
		if err != nil {
			return nil, fmt.Errorf("reading bundled script %s: %w", src, err)
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", filepath.Dir(dst), err)
		}
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", dst, err)
		}
	}
	return installed, nil
}
