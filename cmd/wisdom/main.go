package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	wisdom "github.com/InfiniQuest-App/wisdom-store"
	"github.com/InfiniQuest-App/wisdom-store/internal/config"
	"github.com/InfiniQuest-App/wisdom-store/internal/logging"
)

var (
	flagDB      string
	flagFormat  string
	flagVerbose int
	flagQuiet   bool
)

// errorHandled is set by outputError so main() doesn't double-print.
var errorHandled bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errorHandled {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "wisdom",
	Short:         "Index a project's names and routes and check new code against them",
	Long:          "Wisdom scans a project into a registry of declared functions, types, variables, exports, routes and pages, then flags names and API paths in new code that the project does not define.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFormat(flagFormat)
	},
	// No Run; prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "database path (default: .wisdom/registry.db under the project root)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "json", "output format: json|text")
	rootCmd.PersistentFlags().CountVarP(&flagVerbose, "verbose", "v", "log more (repeat for debug)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress logging")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(routesCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(showCmd)
}

// resolveTargetDir returns the absolute path of the directory named by the
// first argument, or the working directory.
func resolveTargetDir(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving path %q: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("directory not found: %s", abs)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", abs)
	}
	return abs, nil
}

// findProjectRoot walks up from startDir looking for a .wisdom directory,
// then for a .git directory. Returns startDir if neither is found.
func findProjectRoot(startDir string) string {
	for _, marker := range []string{config.Dir, ".git"} {
		dir := startDir
		for {
			if info, err := os.Stat(filepath.Join(dir, marker)); err == nil && info.IsDir() {
				return dir
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}
	return startDir
}

// resolveDBPath returns the database path from the --db flag, or "" to let
// the engine use its default location.
func resolveDBPath(root string) string {
	if flagDB == "" {
		return ""
	}
	if filepath.IsAbs(flagDB) {
		return flagDB
	}
	return filepath.Join(root, flagDB)
}

// newLogger builds the CLI logger. -v and -q override the configured level.
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	level := logging.LevelFromString(cfg.Log.Level)
	if flagVerbose > 0 || flagQuiet {
		level = logging.LevelFromVerbosity(flagVerbose, flagQuiet)
	}
	return logging.New(w, logging.Format(cfg.Log.Format), level)
}

// openEngine loads the project configuration and opens the engine for root.
func openEngine(root string) (*wisdom.Engine, error) {
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	e, err := wisdom.New(resolveDBPath(root), root,
		wisdom.WithConfig(cfg),
		wisdom.WithLogger(newLogger(os.Stderr, cfg)),
	)
	if err != nil {
		return nil, fmt.Errorf("opening engine: %w", err)
	}
	return e, nil
}

// openProjectEngine opens the engine for the project containing the working
// directory.
func openProjectEngine() (*wisdom.Engine, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting cwd: %w", err)
	}
	return openEngine(findProjectRoot(cwd))
}
