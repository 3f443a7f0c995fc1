/* generator.go
 * Contains the seed weighted completion generator: given a partially decided truth bracket, fills every
 * remaining game by sampling the winner from a seed difference weighted distribution. Decided games are
 * never overturned, so a generated completion is always one possible future of the current truth.
 * Authors: Zachary Bower
 */

package simulation

import (
	"math/rand"

	"bracket-bot/api/logic"
	"bracket-bot/api/shared"
)

// upsetScale caps how far seed difference can push a matchup away from a coin
// flip: the maximum difference (15, a 1 seed against a 16) gives the favourite
// a 0.99 chance.
const upsetScale = 0.49

// WinProbability returns the probability that team a beats team b, based only
// on their seeds. Equal seeds are a coin flip; otherwise the better (lower
// numbered) seed is favoured by 0.5 + (diff/15)*0.49.
func WinProbability(a, b *shared.Team) float64 {
	if a.Seed == b.Seed {
		return 0.5
	}
	diff := a.Seed - b.Seed
	if diff < 0 {
		diff = -diff
	}
	p := 0.5 + float64(diff)/15.0*upsetScale
	if a.Seed < b.Seed {
		return p
	}
	return 1 - p
}

// weightedChoice samples the winner of a game. A game with one absent side
// advances the present team without consuming randomness, which keeps a given
// rng seed reproducible across partially decided truths.
func weightedChoice(a, b *shared.Team, rng *rand.Rand) *shared.Team {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if rng.Float64() < WinProbability(a, b) {
		return a
	}
	return b
}

// GenerateCompletion returns a fully decided copy of truth with every open
// game sampled by seed weighted choice. truth itself is never modified and its
// decided games are never overturned.
// Preconditions: truth is a well formed bracket with round 0 filled, rng is non nil
// Postconditions: Returns a complete bracket consistent with truth, or an error
func GenerateCompletion(truth *shared.Bracket, rng *rand.Rand) (*shared.Bracket, error) {
	return logic.CompleteBracket(truth, func(a, b *shared.Team) *shared.Team {
		return weightedChoice(a, b, rng)
	})
}
