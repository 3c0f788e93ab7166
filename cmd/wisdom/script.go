package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/InfiniQuest-App/wisdom-store/internal/config"
	"github.com/InfiniQuest-App/wisdom-store/internal/extract"
	"github.com/InfiniQuest-App/wisdom-store/internal/runtime"
	"github.com/InfiniQuest-App/wisdom-store/internal/syntax"
)

var flagScriptLanguages bool

var scriptCmd = &cobra.Command{
	Use:   "script <script.risor> <file>",
	Short: "Run an extraction script over one file and print what it reports",
	Long:  "Script runs a Risor extraction script against a single file without touching the stored registry. With --languages it lists the grammars parse_src accepts.",
	Args: func(cmd *cobra.Command, args []string) error {
		if flagScriptLanguages {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(2)(cmd, args)
	},
	RunE: runScript,
}

func init() {
	scriptCmd.Flags().BoolVar(&flagScriptLanguages, "languages", false, "list the grammars available to scripts")
	rootCmd.AddCommand(scriptCmd)
}

// CLIScriptResult is the result of the script command.
type CLIScriptResult struct {
	File    string           `json:"file"`
	Symbols []extract.Symbol `json:"symbols"`
	Routes  []extract.Route  `json:"routes"`
}

func runScript(cmd *cobra.Command, args []string) error {
	if flagScriptLanguages {
		return outputResult(CLIResult{
			Command: "script",
			Results: scriptGrammars(),
		})
	}

	scriptPath, err := filepath.Abs(args[0])
	if err != nil {
		return outputError("script", err)
	}
	src, err := os.ReadFile(args[1])
	if err != nil {
		return outputError("script", fmt.Errorf("reading %s: %w", args[1], err))
	}

	cfg := config.Default()
	rt := runtime.NewRuntime(filepath.Dir(scriptPath), runtime.WithLogger(newLogger(os.Stderr, cfg)))
	res, err := rt.RunExtraction(context.Background(), scriptPath, filepath.ToSlash(args[1]), src)
	if err != nil {
		return outputError("script", err)
	}
	return outputResult(CLIResult{
		Command: "script",
		Results: toScriptResult(args[1], res),
	})
}

// scriptGrammars lists every dialect parse_src accepts: the built-in
// extractor grammars plus the script-only ones.
func scriptGrammars() []string {
	return append(syntax.Dialects(), runtime.ScriptLanguages()...)
}

func toScriptResult(file string, res extract.Result) CLIScriptResult {
	out := CLIScriptResult{File: file, Symbols: res.Symbols, Routes: res.Routes}
	if out.Symbols == nil {
		out.Symbols = []extract.Symbol{}
	}
	if out.Routes == nil {
		out.Routes = []extract.Route{}
	}
	return out
}
