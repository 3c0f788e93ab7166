package wisdom

import (
	"github.com/InfiniQuest-App/wisdom-store/internal/diffscan"
	"github.com/InfiniQuest-App/wisdom-store/internal/match"
	"github.com/InfiniQuest-App/wisdom-store/internal/registry"
)

// Public type aliases for the internal types the API returns.
// External consumers use these names; no conversion is needed.

type Registry = registry.Registry
type Category = registry.Category
type Symbol = registry.Symbol
type Route = registry.Route
type Page = registry.Page
type ScannedFile = registry.ScannedFile
type Metadata = registry.Metadata
type NameReport = match.Report
type FuzzyMatch = match.Fuzzy
type Candidates = diffscan.Candidates
