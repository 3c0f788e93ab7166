package main

import (
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Index a project and store its registry",
	Long:  "Scan walks the project, extracts declared names, routes and pages, and replaces the stored registry. Files that cannot be read or parsed are reported but never fail the scan.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	root, err := resolveTargetDir(args)
	if err != nil {
		return outputError("scan", err)
	}
	if len(args) == 0 {
		root = findProjectRoot(root)
	}

	e, err := openEngine(root)
	if err != nil {
		return outputError("scan", err)
	}
	defer e.Close()

	res, err := e.Scan()
	if err != nil {
		return outputError("scan", err)
	}
	return outputResult(CLIResult{
		Command: "scan",
		Results: toScanSummary(res),
	})
}
