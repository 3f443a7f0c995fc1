/* scoring_test.go
 * Contains unit tests for scoring.go functions
 * Authors: Zachary Bower
 */

package logic

import (
	"testing"

	"bracket-bot/api/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// perfectTotal is the score of a fully correct bracket with no bonuses:
// 32*10 + 16*20 + 8*40 + 4*80 + 2*120 + 160
const perfectTotal = 1680

// TestScoreBracket_PerfectChalk tests a candidate identical to a fully decided truth
func TestScoreBracket_PerfectChalk(t *testing.T) {
	chalk := fullTestBracket(t)

	breakdown, err := ScoreBracket(chalk, chalk, chalk)
	require.NoError(t, err)

	assert.Equal(t, perfectTotal, breakdown.TotalScore)
	assert.Equal(t, 0, breakdown.TotalBonus)
	assert.Equal(t, perfectTotal, breakdown.TotalWithBonus)
	assert.Equal(t, 63, breakdown.CorrectPicks)
	assert.Equal(t, 0, breakdown.IncorrectPicks)

	assert.Equal(t, 320, breakdown.Rounds[RoundKey1].Points)
	assert.Equal(t, 320, breakdown.Rounds[RoundKey2].Points)
	assert.Equal(t, 320, breakdown.Rounds[RoundKey3].Points)
	assert.Equal(t, 320, breakdown.Rounds[RoundKeyFF].Points)
	assert.Equal(t, 240, breakdown.Rounds[RoundKeyChamp].Points)
	assert.Equal(t, 160, breakdown.Rounds[RoundKeyChampion].Points)

	for _, region := range shared.RegionNames {
		rs := breakdown.Regions[region]
		assert.Equal(t, 8+4+2, rs.Correct)
		assert.Equal(t, 80+80+80, rs.Points)
	}

	// Every slot in the annotated copy is marked correct
	rounds := regionRounds(t, breakdown.Annotated, "west")
	require.NotNil(t, rounds[1][0].Correct)
	assert.True(t, *rounds[1][0].Correct)
	assert.Contains(t, rounds[1][0].Classes, "correct")
}

// TestScoreBracket_UpsetBonus tests that a correct off-chalk pick earns the seed difference bonus
func TestScoreBracket_UpsetBonus(t *testing.T) {
	chalk := fullTestBracket(t)

	// Truth and candidate both have west-9 upsetting west-8 in round 1
	upset, err := ApplyPick(chalk, "west", 0, 1, 1)
	require.NoError(t, err)
	rounds := regionRounds(t, upset, "west")
	require.Equal(t, "west-9", rounds[1][1].Name)

	breakdown, err := ScoreBracket(upset, upset, chalk)
	require.NoError(t, err)

	// |8-9| * 2 for the round 1 slot where chalk had west-8
	assert.Equal(t, 2, breakdown.TotalBonus)
	assert.Equal(t, perfectTotal, breakdown.TotalScore)
	assert.Equal(t, perfectTotal+2, breakdown.TotalWithBonus)
	assert.Equal(t, 2, breakdown.Regions["west"].Bonus)
	assert.Equal(t, 2, breakdown.Rounds[RoundKey1].Bonus)
}

// TestScoreBracket_BonusAttachedButNotCounted tests that incorrect picks carry a bonus annotation without scoring it
func TestScoreBracket_BonusAttachedButNotCounted(t *testing.T) {
	truth := fullTestBracket(t)

	// Candidate has west-16 winning game 0; truth has west-1. Overwrite the one
	// slot directly so the rest of the bracket stays identical to truth.
	candidate := truth.Clone()
	candRounds := regionRounds(t, candidate, "west")
	candRounds[1][0] = &shared.Team{Name: "west-16", Seed: 16}

	breakdown, err := ScoreBracket(candidate, truth, truth)
	require.NoError(t, err)

	rounds := regionRounds(t, breakdown.Annotated, "west")
	pick := rounds[1][0]
	require.NotNil(t, pick)
	require.Equal(t, "west-16", pick.Name)
	require.NotNil(t, pick.Bonus)
	assert.Equal(t, 30, *pick.Bonus) // |1-16| * 2, attached but never counted
	require.NotNil(t, pick.Correct)
	assert.False(t, *pick.Correct)
	require.NotNil(t, pick.TruthTeam)
	assert.Equal(t, "west-1", pick.TruthTeam.Name)
	assert.Equal(t, 0, breakdown.TotalBonus)
	assert.Equal(t, perfectTotal-10, breakdown.TotalScore)
	assert.Equal(t, 1, breakdown.IncorrectPicks)
}

// TestScoreBracket_EliminationPropagation tests that a knocked out team poisons pending downstream picks
func TestScoreBracket_EliminationPropagation(t *testing.T) {
	candidate := fullTestBracket(t)

	// Truth only knows one result: west-16 upset west-1 in game 0
	truth := newTestBracket(t)
	truth, err := ApplyPick(truth, "west", 0, 0, 1)
	require.NoError(t, err)

	breakdown, err := ScoreBracket(candidate, truth, candidate)
	require.NoError(t, err)

	// The direct comparison at west round 1 slot 0 is the only decided slot
	assert.Equal(t, 0, breakdown.TotalScore)
	assert.Equal(t, 0, breakdown.CorrectPicks)
	assert.Equal(t, 1, breakdown.Rounds[RoundKey1].Incorrect)

	// west-1 was picked through to the Final Four; all of it is now impossible
	rounds := regionRounds(t, breakdown.Annotated, "west")
	direct := rounds[1][0]
	require.NotNil(t, direct.Correct)
	assert.False(t, *direct.Correct)
	assert.False(t, direct.IsEliminated) // settled by truth, not by elimination
	require.NotNil(t, direct.TruthTeam)
	assert.Equal(t, "west-16", direct.TruthTeam.Name)

	for _, slot := range []*shared.Team{rounds[2][0], rounds[3][0], breakdown.Annotated.FinalFour[shared.FinalFourIndex("west")]} {
		require.NotNil(t, slot)
		require.Equal(t, "west-1", slot.Name)
		require.NotNil(t, slot.Correct)
		assert.False(t, *slot.Correct)
		assert.True(t, slot.IsEliminated)
	}

	// Picks of still-alive teams stay pending
	eastRounds := regionRounds(t, breakdown.Annotated, "east")
	assert.Nil(t, eastRounds[1][0].Correct)
}

// TestScoreBracket_MissingTeamData tests that an unusable slot is skipped without failing the comparison
func TestScoreBracket_MissingTeamData(t *testing.T) {
	truth := fullTestBracket(t)
	candidate := truth.Clone()
	rounds := regionRounds(t, candidate, "west")
	rounds[1][0] = &shared.Team{Name: "", Seed: 1}

	breakdown, err := ScoreBracket(candidate, truth, truth)
	require.NoError(t, err)
	assert.Equal(t, perfectTotal-10, breakdown.TotalScore)
	assert.Equal(t, 62, breakdown.CorrectPicks)
	assert.Equal(t, 0, breakdown.IncorrectPicks)
}

// TestScoreBracket_NilChalk tests that scoring works without a chalk reference, just with no bonuses
func TestScoreBracket_NilChalk(t *testing.T) {
	truth := fullTestBracket(t)
	breakdown, err := ScoreBracket(truth, truth, nil)
	require.NoError(t, err)
	assert.Equal(t, perfectTotal, breakdown.TotalScore)
	assert.Equal(t, 0, breakdown.TotalBonus)
	rounds := regionRounds(t, breakdown.Annotated, "west")
	assert.Nil(t, rounds[1][0].Bonus)
}

// TestMaxPossibleScore tests the ceiling against empty, full and partial truths
func TestMaxPossibleScore(t *testing.T) {
	candidate := fullTestBracket(t)
	chalk := candidate

	// Nothing decided: everything is still attainable
	max, err := MaxPossibleScore(candidate, newTestBracket(t), chalk)
	require.NoError(t, err)
	assert.Equal(t, perfectTotal, max)

	// Everything decided and correct: ceiling equals the achieved total
	max, err = MaxPossibleScore(candidate, candidate, chalk)
	require.NoError(t, err)
	assert.Equal(t, perfectTotal, max)

	// One upset knocks out both the decided slot and every eliminated pick downstream
	truth := newTestBracket(t)
	truth, err = ApplyPick(truth, "west", 0, 0, 1)
	require.NoError(t, err)
	max, err = MaxPossibleScore(candidate, truth, chalk)
	require.NoError(t, err)
	assert.Less(t, max, perfectTotal)
}

// TestCalculateRankings tests competition ranking with ties
func TestCalculateRankings(t *testing.T) {
	truth := fullTestBracket(t)
	wrong := truth.Clone()
	wrongRounds := regionRounds(t, wrong, "west")
	wrongRounds[1][0] = &shared.Team{Name: "west-16", Seed: 16}

	entries, err := CalculateRankings(map[string]*shared.Bracket{
		"alice":   truth,
		"bob":     truth,
		"charlie": wrong,
	}, truth, truth)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// alice and bob tie on a perfect score and share rank 1; charlie is rank 3
	assert.Equal(t, "alice", entries[0].Username)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "bob", entries[1].Username)
	assert.Equal(t, 1, entries[1].Rank)
	assert.Equal(t, "charlie", entries[2].Username)
	assert.Equal(t, 3, entries[2].Rank)

	assert.Equal(t, perfectTotal, entries[0].TotalWithBonus)
	assert.Equal(t, perfectTotal-10, entries[2].TotalWithBonus)
	assert.Equal(t, perfectTotal, entries[0].MaxPossible)
	assert.Equal(t, perfectTotal-10, entries[2].MaxPossible)
}

// TestCalculateRankings_Empty tests that no users yields an empty leaderboard
func TestCalculateRankings_Empty(t *testing.T) {
	truth := fullTestBracket(t)
	entries, err := CalculateRankings(map[string]*shared.Bracket{}, truth, truth)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
