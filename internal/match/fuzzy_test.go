package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/InfiniQuest-App/wisdom-store/internal/registry"
)

func greetRegistry() *registry.Registry {
	reg := registry.New()
	reg.AddSymbol(registry.Functions, "greet", "src/a.js", 3)
	reg.AddSymbol(registry.Functions, "greet", "src/b.js", 9)
	return reg
}

func TestGate(t *testing.T) {
	tests := []struct {
		n, want int
	}{
		{0, 2}, {3, 2}, {6, 2}, {9, 2}, {10, 3}, {14, 4}, {20, 6},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Gate(tt.n), "len %d", tt.n)
	}
}

func TestCheckNames_GreetScenario(t *testing.T) {
	rep := CheckNames([]string{"greet", "grete", "frobnicate"}, greetRegistry())

	require.Len(t, rep.Known, 1)
	assert.Equal(t, "greet", rep.Known[0].Name)
	assert.Equal(t, 2, rep.Known[0].Occurrences)

	require.Len(t, rep.Fuzzy, 1)
	f := rep.Fuzzy[0]
	assert.Equal(t, "grete", f.Queried)
	assert.Equal(t, "greet", f.Suggestion)
	assert.Equal(t, 1, f.Distance)
	assert.Equal(t, registry.Functions, f.Category)
	assert.Equal(t, "src/a.js", f.File)
	assert.Equal(t, 2, f.Occurrences)

	assert.Equal(t, []string{"frobnicate"}, rep.Unknown)
	assert.False(t, rep.Clean())
}

func TestSuggest_GateAtLengthTen(t *testing.T) {
	reg := registry.New()
	reg.AddSymbol(registry.Functions, "abcdefghij", "a.js", 1)

	// Three substitutions: within the gate of 3.
	f, ok := Suggest("XYZdefghij", reg)
	require.True(t, ok)
	assert.Equal(t, 3, f.Distance)

	// Four substitutions: beyond it.
	_, ok = Suggest("WXYZefghij", reg)
	assert.False(t, ok)
}

func TestSuggest_LengthPrefilter(t *testing.T) {
	reg := registry.New()
	reg.AddSymbol(registry.Variables, "ab", "a.js", 1)

	// "abcde" is three insertions away, and the length gap of 3 exceeds the
	// gate of 2 before any distance is computed.
	_, ok := Suggest("abcde", reg)
	assert.False(t, ok)
}

func TestSuggest_TiesGoToFirstSeen(t *testing.T) {
	reg := registry.New()
	reg.AddSymbol(registry.Types, "cart", "a.js", 1)
	reg.AddSymbol(registry.Functions, "card", "b.js", 1)

	f, ok := Suggest("carx", reg)
	require.True(t, ok)
	assert.Equal(t, "cart", f.Suggestion)
	assert.Equal(t, registry.Types, f.Category)
}

func TestSuggest_ReportsFirstCategoryInEnumerationOrder(t *testing.T) {
	reg := registry.New()
	reg.AddSymbol(registry.Exports, "render", "a.js", 1)
	reg.AddSymbol(registry.Functions, "render", "b.js", 4)

	f, ok := Suggest("rendr", reg)
	require.True(t, ok)
	assert.Equal(t, registry.Functions, f.Category)
	assert.Equal(t, "b.js", f.File)
}

func TestCheckNames_EmptyShapes(t *testing.T) {
	rep := CheckNames([]string{"anything"}, nil)
	assert.NotNil(t, rep.Known)
	assert.NotNil(t, rep.Fuzzy)
	assert.NotNil(t, rep.Unknown)
	assert.True(t, rep.Clean())

	rep = CheckNames(nil, greetRegistry())
	assert.Empty(t, rep.Known)
	assert.True(t, rep.Clean())
}

func TestCheckNames_EmptyRegistryReportsUnknown(t *testing.T) {
	rep := CheckNames([]string{"fabricated", "fabricated"}, registry.New())
	assert.Empty(t, rep.Known)
	assert.Empty(t, rep.Fuzzy)
	assert.Equal(t, []string{"fabricated"}, rep.Unknown)
	assert.False(t, rep.Clean())
}

func TestCheckNames_DeduplicatesQueries(t *testing.T) {
	rep := CheckNames([]string{"nope", "", "nope", "greet", "greet"}, greetRegistry())
	assert.Len(t, rep.Known, 1)
	assert.Equal(t, []string{"nope"}, rep.Unknown)
}
