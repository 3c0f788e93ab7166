package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var flagStrict bool

// errFlagged is returned under --strict when a check flags anything.
var errFlagged = errors.New("check flagged names or routes")

var checkCmd = &cobra.Command{
	Use:   "check <name>...",
	Short: "Classify names as known, likely typos, or unknown",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

var routesCmd = &cobra.Command{
	Use:   "routes <path>...",
	Short: "List the API paths that match no declared route",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRoutes,
}

var diffCmd = &cobra.Command{
	Use:   "diff [file|-]",
	Short: "Check the calls and API paths a unified diff adds",
	Long:  "Diff reads a unified diff (from a file, or stdin when the argument is '-' or absent) and checks only the added lines.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDiff,
}

func init() {
	for _, c := range []*cobra.Command{checkCmd, routesCmd, diffCmd} {
		c.Flags().BoolVar(&flagStrict, "strict", false, "exit non-zero when anything is flagged")
	}
}

// strictResult writes result and, under --strict, turns a flagged outcome
// into an error without printing it twice.
func strictResult(result CLIResult, clean bool) error {
	if err := outputResult(result); err != nil {
		return err
	}
	if flagStrict && !clean {
		errorHandled = true
		return errFlagged
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	e, err := openProjectEngine()
	if err != nil {
		return outputError("check", err)
	}
	defer e.Close()

	report, err := e.CheckNames(args)
	if err != nil {
		return outputError("check", err)
	}
	return strictResult(CLIResult{Command: "check", Results: report}, report.Clean())
}

func runRoutes(cmd *cobra.Command, args []string) error {
	e, err := openProjectEngine()
	if err != nil {
		return outputError("routes", err)
	}
	defer e.Close()

	unknown, err := e.ValidateRoutes(args)
	if err != nil {
		return outputError("routes", err)
	}
	r := CLIRouteReport{Checked: len(args), Unknown: unknown}
	return strictResult(CLIResult{Command: "routes", Results: r}, len(unknown) == 0)
}

func runDiff(cmd *cobra.Command, args []string) error {
	diff, err := readDiff(cmd.InOrStdin(), args)
	if err != nil {
		return outputError("diff", err)
	}

	e, err := openProjectEngine()
	if err != nil {
		return outputError("diff", err)
	}
	defer e.Close()

	report, err := e.CheckDiff(diff)
	if err != nil {
		return outputError("diff", err)
	}
	return strictResult(CLIResult{Command: "diff", Results: report}, report.Clean())
}

// readDiff reads the diff named by args, or stdin for "-" or no argument.
func readDiff(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading diff from stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("reading diff: %w", err)
	}
	return data, nil
}
