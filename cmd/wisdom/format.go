package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	wisdom "github.com/InfiniQuest-App/wisdom-store"
	"github.com/InfiniQuest-App/wisdom-store/internal/registry"
)

// formatSymbolsText formats registry entries as aligned columns.
func formatSymbolsText(w io.Writer, syms []wisdom.Symbol) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCATEGORY\tFILE\tLINE\tSEEN")
	for _, s := range syms {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n", s.Name, s.Category, s.File, s.Line, s.Occurrences)
	}
	tw.Flush()
}

// formatRoutesText formats the route table as aligned columns.
func formatRoutesText(w io.Writer, routes []wisdom.Route) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tPATH\tFILE\tLINE")
	for _, r := range routes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", r.Method, r.Path, r.File, r.Line)
	}
	tw.Flush()
}

// formatFilesText formats scanned files as aligned columns.
func formatFilesText(w io.Writer, files []wisdom.ScannedFile) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tLANGUAGE\tLINES\tSIZE")
	for _, f := range files {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", f.Path, f.Language, f.Lines, f.Size)
	}
	tw.Flush()
}

// formatMetaText formats scan metadata as readable text.
func formatMetaText(w io.Writer, m wisdom.Metadata) {
	fmt.Fprintf(w, "Project: %s\n", m.Project)
	fmt.Fprintf(w, "Scan:    %s\n", m.ScanID)
	fmt.Fprintf(w, "When:    %s\n", m.ScannedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "Files:   %d\n", m.FileCount)
	fmt.Fprintf(w, "Took:    %dms\n", m.ElapsedMS)
}

// formatScanText formats a scan summary as readable text.
func formatScanText(w io.Writer, s CLIScanSummary) {
	fmt.Fprintln(w, "Scan Summary")
	fmt.Fprintln(w, "============")
	fmt.Fprintf(w, "Project: %s\n", s.Project)
	fmt.Fprintf(w, "Files:   %d\n", s.Files)
	if s.Truncated {
		fmt.Fprintln(w, "         (file limit reached, scan truncated)")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Entries:")
	for _, cat := range registry.Categories {
		fmt.Fprintf(w, "  %s: %d\n", cat, s.Counts[string(cat)])
	}

	if len(s.Problems) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Problems:")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, p := range s.Problems {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", p.Status, p.Path, p.Error)
		}
		tw.Flush()
	}
}

// formatNameReportText formats a name classification. Known names are
// listed only with -v.
func formatNameReportText(w io.Writer, r wisdom.NameReport) {
	if flagVerbose > 0 {
		for _, k := range r.Known {
			fmt.Fprintf(w, "ok       %s (%s, %s:%d)\n", k.Name, k.Category, k.File, k.Line)
		}
	}
	for _, f := range r.Fuzzy {
		fmt.Fprintf(w, "typo?    %s -> %s (%s, %s:%d, distance %d)\n",
			f.Queried, f.Suggestion, f.Category, f.File, f.Line, f.Distance)
	}
	for _, u := range r.Unknown {
		fmt.Fprintf(w, "unknown  %s\n", u)
	}
	if r.Clean() {
		fmt.Fprintf(w, "%d name(s) known\n", len(r.Known))
	}
}

// formatRouteReportText lists the unknown paths.
func formatRouteReportText(w io.Writer, r CLIRouteReport) {
	for _, p := range r.Unknown {
		fmt.Fprintf(w, "unknown route  %s\n", p)
	}
	if len(r.Unknown) == 0 {
		fmt.Fprintf(w, "%d route(s) known\n", r.Checked)
	}
}

// formatDiffText formats a diff check.
func formatDiffText(w io.Writer, r wisdom.DiffReport) {
	fmt.Fprintf(w, "Added calls:  %s\n", joinOrNone(r.Candidates.Names))
	fmt.Fprintf(w, "Added routes: %s\n", joinOrNone(r.Candidates.Routes))
	if r.Clean() {
		fmt.Fprintln(w, "Nothing flagged.")
		return
	}
	fmt.Fprintln(w)
	formatNameReportText(w, r.Names)
	for _, p := range r.UnknownRoutes {
		fmt.Fprintf(w, "unknown route  %s\n", p)
	}
}

// formatInitText formats the init command result.
func formatInitText(w io.Writer, r CLIInitResult) {
	fmt.Fprintf(w, "Initialized %s\n", r.Project)
	fmt.Fprintf(w, "Config: %s\n", r.Config)
	if len(r.Scripts) > 0 {
		exts := make([]string, 0, len(r.Scripts))
		for ext := range r.Scripts {
			exts = append(exts, ext)
		}
		sort.Strings(exts)
		fmt.Fprintln(w, "Scripts:")
		for _, ext := range exts {
			fmt.Fprintf(w, "  %s -> %s\n", ext, r.Scripts[ext])
		}
	}
}

// formatScriptText formats what a script reported for one file.
func formatScriptText(w io.Writer, r CLIScriptResult) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tNAME\tLINE")
	for _, s := range r.Symbols {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", s.Category, s.Name, s.Line)
	}
	for _, rt := range r.Routes {
		fmt.Fprintf(tw, "route\t%s %s\t%d\n", rt.Method, rt.Path, rt.Line)
	}
	tw.Flush()
}

func joinOrNone(s []string) string {
	if len(s) == 0 {
		return "(none)"
	}
	return strings.Join(s, ", ")
}

// outputResultText dispatches to the appropriate text formatter based on the
// result type.
func outputResultText(w io.Writer, result CLIResult) error {
	switch v := result.Results.(type) {
	case []wisdom.Symbol:
		formatSymbolsText(w, v)
	case []wisdom.Route:
		formatRoutesText(w, v)
	case []wisdom.ScannedFile:
		formatFilesText(w, v)
	case wisdom.Metadata:
		formatMetaText(w, v)
	case CLIScanSummary:
		formatScanText(w, v)
	case wisdom.NameReport:
		formatNameReportText(w, v)
	case CLIRouteReport:
		formatRouteReportText(w, v)
	case wisdom.DiffReport:
		formatDiffText(w, v)
	case CLIInitResult:
		formatInitText(w, v)
	case CLIScriptResult:
		formatScriptText(w, v)
	case []string:
		for _, line := range v {
			fmt.Fprintln(w, line)
		}
	case *wisdom.Registry:
		// The record is JSON by definition.
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\n", data)
	case nil:
	default:
		return fmt.Errorf("unsupported result type for text format: %T", v)
	}

	if result.TotalCount != nil && *result.TotalCount == 0 {
		fmt.Fprintln(w, "No results.")
	}
	return nil
}

// validFormats lists accepted values for --format.
var validFormats = []string{"json", "text"}

// validateFormat checks that the --format flag value is recognized.
func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be %s", format, strings.Join(validFormats, " or "))
}
