package main

import (
	"github.com/spf13/cobra"

	wisdom "github.com/InfiniQuest-App/wisdom-store"
)

var flagLanguage string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Inspect the stored registry",
	// No Run; prints help for subcommands.
}

var showMetaCmd = &cobra.Command{
	Use:   "meta",
	Short: "Show when and where the stored scan ran",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShow("meta", func(q *wisdom.Query) (any, int, error) {
			m, err := q.Meta()
			return m, 1, err
		})
	},
}

var showSymbolsCmd = &cobra.Command{
	Use:   "symbols <category>",
	Short: "List one category (functions, types, variables, exports, routes, pages)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShow("symbols", func(q *wisdom.Query) (any, int, error) {
			syms, err := q.Symbols(args[0])
			return syms, len(syms), err
		})
	},
}

var showRoutesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the route table, mounts included",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShow("routes", func(q *wisdom.Query) (any, int, error) {
			routes, err := q.Routes()
			return routes, len(routes), err
		})
	},
}

var showFilesCmd = &cobra.Command{
	Use:   "files",
	Short: "List the scanned files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShow("files", func(q *wisdom.Query) (any, int, error) {
			files, err := q.Files(flagLanguage)
			return files, len(files), err
		})
	},
}

var showLookupCmd = &cobra.Command{
	Use:   "lookup <name>...",
	Short: "Find stored entries by exact name in any category",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShow("lookup", func(q *wisdom.Query) (any, int, error) {
			syms, err := q.Lookup(args...)
			return syms, len(syms), err
		})
	},
}

var showRegistryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Print the stored registry as its persisted JSON record",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openProjectEngine()
		if err != nil {
			return outputError("registry", err)
		}
		defer e.Close()

		reg, err := e.Registry()
		if err != nil {
			return outputError("registry", err)
		}
		return outputResult(CLIResult{Command: "registry", Results: reg})
	},
}

func init() {
	showFilesCmd.Flags().StringVar(&flagLanguage, "language", "", "only files of this language")

	showCmd.AddCommand(showMetaCmd)
	showCmd.AddCommand(showSymbolsCmd)
	showCmd.AddCommand(showRoutesCmd)
	showCmd.AddCommand(showFilesCmd)
	showCmd.AddCommand(showLookupCmd)
	showCmd.AddCommand(showRegistryCmd)
}

// runShow opens the project engine, runs fn against its query API and
// writes the result.
func runShow(command string, fn func(q *wisdom.Query) (any, int, error)) error {
	e, err := openProjectEngine()
	if err != nil {
		return outputError(command, err)
	}
	defer e.Close()

	results, n, err := fn(e.Query())
	if err != nil {
		return outputError(command, err)
	}
	return outputResult(CLIResult{
		Command:    command,
		Results:    results,
		TotalCount: intPtr(n),
	})
}
