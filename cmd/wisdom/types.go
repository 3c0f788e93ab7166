package main

import (
	wisdom "github.com/InfiniQuest-App/wisdom-store"
)

// CLIResult is the top-level JSON envelope for all commands.
type CLIResult struct {
	Command    string `json:"command"`
	Results    any    `json:"results"`
	TotalCount *int   `json:"total_count,omitempty"`
	Error      string `json:"error,omitempty"`
}

// CLIScanSummary is the result of the scan command.
type CLIScanSummary struct {
	Project   string           `json:"project"`
	ScanID    string           `json:"scan_id"`
	Files     int              `json:"files"`
	Counts    map[string]int   `json:"counts"`
	Truncated bool             `json:"truncated"`
	ElapsedMS int64            `json:"elapsed_ms"`
	Problems  []CLIFileProblem `json:"problems"`
}

// CLIFileProblem is a file the scan could not fully use.
type CLIFileProblem struct {
	Path   string `json:"path"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// CLIRouteReport is the result of the routes command.
type CLIRouteReport struct {
	Checked int      `json:"checked"`
	Unknown []string `json:"unknown"`
}

// CLIInitResult is the result of the init command.
type CLIInitResult struct {
	Project string            `json:"project"`
	Config  string            `json:"config"`
	Scripts map[string]string `json:"scripts,omitempty"`
}

// toScanSummary flattens a scan result for output.
func toScanSummary(res *wisdom.ScanResult) CLIScanSummary {
	counts := make(map[string]int)
	for _, s := range res.Registry.All() {
		counts[string(s.Category)]++
	}
	problems := []CLIFileProblem{}
	for _, f := range res.Failures() {
		p := CLIFileProblem{Path: f.Path, Status: string(f.Status)}
		if f.Err != nil {
			p.Error = f.Err.Error()
		}
		problems = append(problems, p)
	}
	return CLIScanSummary{
		Project:   res.Registry.Meta.Project,
		ScanID:    res.Registry.Meta.ScanID,
		Files:     len(res.Files),
		Counts:    counts,
		Truncated: res.Truncated,
		ElapsedMS: res.Registry.Meta.ElapsedMS,
		Problems:  problems,
	}
}
