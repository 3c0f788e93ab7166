package wisdom

import (
	"errors"

	"github.com/InfiniQuest-App/wisdom-store/internal/diffscan"
	"github.com/InfiniQuest-App/wisdom-store/internal/extract"
	"github.com/InfiniQuest-App/wisdom-store/internal/match"
)

// ErrNoRegistry is the precondition failure of every check run through an
// Engine before any scan was stored.
var ErrNoRegistry = errors.New("no registry found, run a scan first")

// CheckNames classifies names as known, fuzzy or unknown. A nil or empty
// registry, or no names, yields an empty report rather than an error.
func CheckNames(names []string, reg *Registry) NameReport {
	return match.CheckNames(names, reg)
}

// ValidateRoutes returns the paths the registry's route table cannot account
// for, in input order. It is never nil.
func ValidateRoutes(paths []string, reg *Registry) []string {
	return match.ValidateRoutes(paths, reg)
}

// DiffReport is the outcome of checking only what a diff adds.
type DiffReport struct {
	Candidates    Candidates `json:"candidates"`
	Names         NameReport `json:"names"`
	UnknownRoutes []string   `json:"unknown_routes"`
}

// Clean reports whether the diff introduced nothing suspicious.
func (r DiffReport) Clean() bool {
	return r.Names.Clean() && len(r.UnknownRoutes) == 0
}

// CheckDiff checks the calls and API route literals on the lines a unified
// diff adds, leaving pre-existing code alone. apiPrefix selects which path
// literals count as routes; empty means "/api". The only error is a diff
// that does not parse.
func CheckDiff(diff []byte, reg *Registry, apiPrefix string) (DiffReport, error) {
	if apiPrefix == "" {
		apiPrefix = extract.DefaultAPIPrefix
	}
	cands, err := diffscan.Scan(diff, apiPrefix)
	if err != nil {
		return DiffReport{}, err
	}
	return DiffReport{
		Candidates:    cands,
		Names:         match.CheckNames(cands.Names, reg),
		UnknownRoutes: match.ValidateRoutes(cands.Routes, reg),
	}, nil
}
