/* input_processing_test.go
 * Contains unit tests for input_processing.go functions
 * Authors: Zachary Bower
 */

package logic

import (
	"testing"

	"bracket-bot/api/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestResolveTeamName tests exact, fuzzy and failed matches
func TestResolveTeamName(t *testing.T) {
	valid := []string{"Duke", "Kentucky", "Kansas", "Kansas State"}

	name, err := ResolveTeamName("duke", valid)
	require.NoError(t, err)
	assert.Equal(t, "Duke", name)

	// Exact match beats a longer fuzzy candidate
	name, err = ResolveTeamName("Kansas", valid)
	require.NoError(t, err)
	assert.Equal(t, "Kansas", name)

	name, err = ResolveTeamName("kentcky", valid)
	require.NoError(t, err)
	assert.Equal(t, "Kentucky", name)

	_, err = ResolveTeamName("Gonzaga", valid)
	assert.Error(t, err)
}

// TestNormalizeRegion tests region and stage name normalization
func TestNormalizeRegion(t *testing.T) {
	cases := map[string]string{
		"west":        "west",
		"West":        "west",
		" MIDWEST ":   "midwest",
		"mid":         "midwest",
		"e":           "east",
		"s":           "south",
		"final four":  shared.RegionFinalFour,
		"ff":          shared.RegionFinalFour,
		"championship": shared.RegionChampionship,
		"final":       shared.RegionChampionship,
	}
	for input, want := range cases {
		got, err := normalizeRegion(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, want, got, "input %q", input)
	}

	_, err := normalizeRegion("north")
	assert.Error(t, err)
	_, err = normalizeRegion("")
	assert.Error(t, err)
}

// TestResolvePick tests resolving a full pick address from user input
func TestResolvePick(t *testing.T) {
	b := newTestBracket(t)

	// west-13 sits at round 0 slot 7, so game 3 side 1
	loc, err := ResolvePick(b, "west", "1", "west-13")
	require.NoError(t, err)
	assert.Equal(t, PickLocation{Region: "west", RoundIdx: 0, GameIdx: 3, TeamIdx: 1}, loc)

	// Round 2 has no teams yet
	_, err = ResolvePick(b, "west", "2", "west-1")
	assert.Error(t, err)

	// Bad round numbers
	_, err = ResolvePick(b, "west", "5", "west-1")
	assert.Error(t, err)
	_, err = ResolvePick(b, "west", "x", "west-1")
	assert.Error(t, err)
}

// TestResolvePick_Stages tests Final Four and championship pick resolution
func TestResolvePick_Stages(t *testing.T) {
	full := fullTestBracket(t)

	// All four 1 seeds reach the Final Four; south occupies slot 2, so semifinal 1 side 0
	loc, err := ResolvePick(full, "ff", "", "south-1")
	require.NoError(t, err)
	assert.Equal(t, PickLocation{Region: shared.RegionFinalFour, RoundIdx: shared.RoundFinalFour, GameIdx: 1, TeamIdx: 0}, loc)

	// Championship picks address the slot directly
	champSlot := full.Championship[1]
	require.NotNil(t, champSlot)
	loc, err = ResolvePick(full, "championship", "", champSlot.Name)
	require.NoError(t, err)
	assert.Equal(t, PickLocation{Region: shared.RegionChampionship, RoundIdx: shared.RoundChampionship, GameIdx: 1, TeamIdx: 0}, loc)
}
